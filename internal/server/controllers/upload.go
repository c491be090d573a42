package controllers

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/harrison/explainer/internal/filelock"
	"github.com/harrison/explainer/internal/ingest"
	"github.com/harrison/explainer/internal/logger"
	"github.com/harrison/explainer/internal/models"
	"github.com/harrison/explainer/internal/server/router"
	"github.com/harrison/explainer/internal/tree"
)

const (
	uploadPath = "/upload"
	// uploadField is the multipart field carrying the folder's files
	uploadField = "folder"
)

// UploadResponse describes an ingested upload batch.
type UploadResponse struct {
	RunID         string `json:"run_id"`
	Accepted      int    `json:"accepted"`
	Files         int    `json:"files"`
	Folders       int    `json:"folders"`
	StorageErrors int    `json:"storage_errors"`
	Structure     string `json:"structure"`
}

type UploadController struct {
	Ingester *ingest.Ingester
	Session  *Session
	Logger   logger.Logger
}

// Register implements router.Controller.Register
func (controller *UploadController) Register(router *router.Router) {
	router.POST(uploadPath, controller.uploadAction)
}

func (controller *UploadController) uploadAction(ctx echo.Context) error {
	form, err := ctx.MultipartForm()
	if err != nil {
		return errorJSON(ctx, http.StatusBadRequest, fmt.Sprintf("invalid upload: %v", err))
	}
	headers := form.File[uploadField]
	if len(headers) == 0 {
		return errorJSON(ctx, http.StatusBadRequest, ingest.MsgNoValidFiles)
	}

	files := make([]models.UploadFile, 0, len(headers))
	for _, fh := range headers {
		content, err := readPart(fh)
		if err != nil {
			return errorJSON(ctx, http.StatusBadRequest, fmt.Sprintf("failed to read %s: %v", uploadFilename(fh), err))
		}
		files = append(files, models.UploadFile{Path: uploadFilename(fh), Content: content})
	}

	res, err := controller.Ingester.Ingest(ctx.Request().Context(), files)
	if err != nil {
		var ingErr *ingest.IngestionError
		switch {
		case errors.As(err, &ingErr):
			return errorJSON(ctx, http.StatusBadRequest, ingErr.Message)
		case errors.Is(err, filelock.ErrRunInProgress):
			return errorJSON(ctx, http.StatusConflict, err.Error())
		default:
			return err
		}
	}

	storageErrors := 0
	if res.StorageErrors != nil {
		storageErrors = len(res.StorageErrors.Errors)
		if controller.Logger != nil {
			controller.Logger.LogWarn(res.StorageErrors.Error())
		}
	}

	rc := res.Run
	controller.Session.Replace(rc)

	fileCount, folderCount := tree.Count(rc.Tree)
	return ctx.JSON(http.StatusOK, UploadResponse{
		RunID:         rc.ID,
		Accepted:      len(rc.Accepted),
		Files:         fileCount,
		Folders:       folderCount,
		StorageErrors: storageErrors,
		Structure:     tree.Render(rc.Tree, 0),
	})
}

// uploadFilename returns the client-supplied relative path of a part.
// multipart.FileHeader.Filename is reduced to its base name, so the raw
// Content-Disposition parameter is consulted first.
func uploadFilename(fh *multipart.FileHeader) string {
	if name, ok := dispositionParam(fh.Header.Get("Content-Disposition"), "filename"); ok && name != "" {
		return name
	}
	return fh.Filename
}

// dispositionParam returns a Content-Disposition parameter as sent.
// Browsers do not escape backslashes in quoted filenames, so the value
// runs to the next quote and no quoted pairs are decoded.
func dispositionParam(header, name string) (string, bool) {
	i := strings.IndexByte(header, ';')
	if i < 0 {
		return "", false
	}
	rest := header[i+1:]
	for {
		rest = strings.TrimLeft(rest, " \t")
		eq := strings.IndexByte(rest, '=')
		if eq < 0 {
			return "", false
		}
		key := strings.TrimSpace(rest[:eq])
		rest = strings.TrimLeft(rest[eq+1:], " \t")

		var value string
		if strings.HasPrefix(rest, `"`) {
			end := strings.IndexByte(rest[1:], '"')
			if end < 0 {
				return "", false
			}
			value, rest = rest[1:1+end], rest[end+2:]
		} else {
			end := strings.IndexByte(rest, ';')
			if end < 0 {
				end = len(rest)
			}
			value, rest = strings.TrimSpace(rest[:end]), rest[end:]
		}
		if strings.EqualFold(key, name) {
			return value, true
		}

		semi := strings.IndexByte(rest, ';')
		if semi < 0 {
			return "", false
		}
		rest = rest[semi+1:]
	}
}

func readPart(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}
