package controllers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/harrison/explainer/internal/filelock"
	"github.com/harrison/explainer/internal/pipeline"
	"github.com/harrison/explainer/internal/server/router"
)

const (
	generatePath = "/generate_explanation"

	msgGenerated = "Explanations generated successfully"
)

// GenerateResponse reports a finished pipeline run. OverviewPath is the
// download URL of the overview relative to the server root.
type GenerateResponse struct {
	Success      bool   `json:"success"`
	Message      string `json:"message"`
	OverviewPath string `json:"overview_path"`
	RunID        string `json:"run_id"`
	Processed    int    `json:"processed"`
	Skipped      int    `json:"skipped"`
	Failed       int    `json:"failed"`
}

type GenerateController struct {
	Pipeline *pipeline.Pipeline
	Session  *Session
}

// Register implements router.Controller.Register
func (controller *GenerateController) Register(router *router.Router) {
	router.POST(generatePath, controller.generateAction)
}

func (controller *GenerateController) generateAction(ctx echo.Context) error {
	rc, err := requireRun(ctx, controller.Session)
	if rc == nil {
		return err
	}

	result, err := controller.Pipeline.Run(ctx.Request().Context(), rc)
	if err != nil {
		var fatal *pipeline.FatalIOError
		switch {
		case errors.As(err, &fatal):
			return errorJSON(ctx, http.StatusInternalServerError, fatal.Error())
		case errors.Is(err, filelock.ErrRunInProgress):
			return errorJSON(ctx, http.StatusConflict, err.Error())
		default:
			return err
		}
	}

	return ctx.JSON(http.StatusOK, GenerateResponse{
		Success:      true,
		Message:      msgGenerated,
		OverviewPath: strings.TrimPrefix(outputPath, "/") + "/" + pipeline.OverviewName,
		RunID:        result.RunID,
		Processed:    result.Processed,
		Skipped:      result.Skipped,
		Failed:       result.Failed,
	})
}
