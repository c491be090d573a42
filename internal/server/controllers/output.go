package controllers

import (
	"bytes"
	"fmt"
	"net/http"
	"os"
	"path"

	"github.com/labstack/echo/v4"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/harrison/explainer/internal/server/router"
	"github.com/harrison/explainer/internal/storage"
)

const (
	outputPath = "/output"
	viewPath   = "/view"
)

// OutputController serves generated documents, raw or rendered to HTML.
type OutputController struct {
	Workspace *storage.Workspace
	Markdown  goldmark.Markdown
}

// Register implements router.Controller.Register
func (controller *OutputController) Register(router *router.Router) {
	if controller.Markdown == nil {
		controller.Markdown = goldmark.New(goldmark.WithExtensions(extension.GFM))
	}
	router.Group(outputPath).GET("/*", controller.downloadAction)
	router.Group(viewPath).GET("/*", controller.viewAction)
}

func (controller *OutputController) downloadAction(ctx echo.Context) error {
	name := ctx.Param("*")
	data, err := controller.read(name)
	if err != nil {
		return controller.notFound(ctx, name)
	}

	ctx.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", path.Base(name)))
	return ctx.Blob(http.StatusOK, "text/markdown; charset=utf-8", data)
}

func (controller *OutputController) viewAction(ctx echo.Context) error {
	name := ctx.Param("*")
	data, err := controller.read(name)
	if err != nil {
		return controller.notFound(ctx, name)
	}

	var body bytes.Buffer
	if err := controller.Markdown.Convert(data, &body); err != nil {
		return fmt.Errorf("failed to render %s: %w", name, err)
	}

	var page bytes.Buffer
	fmt.Fprintf(&page, "<!DOCTYPE html>\n<html>\n<head><meta charset=\"utf-8\"><title>%s</title></head>\n<body>\n", path.Base(name))
	page.Write(body.Bytes())
	page.WriteString("</body>\n</html>\n")
	return ctx.HTMLBlob(http.StatusOK, page.Bytes())
}

func (controller *OutputController) read(name string) ([]byte, error) {
	if name == "" {
		return nil, os.ErrNotExist
	}
	return controller.Workspace.ReadFile(storage.AreaOutput, name)
}

func (controller *OutputController) notFound(ctx echo.Context, name string) error {
	return errorJSON(ctx, http.StatusNotFound, fmt.Sprintf("document %q not found", name))
}
