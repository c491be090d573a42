package controllers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/harrison/explainer/internal/models"
	"github.com/harrison/explainer/internal/server/router"
	"github.com/harrison/explainer/internal/tree"
)

const structurePath = "/structure"

// StructureResponse is the tree of the active run.
type StructureResponse struct {
	RunID     string             `json:"run_id"`
	Tree      []*models.TreeNode `json:"tree"`
	Structure string             `json:"structure"`
}

type StructureController struct {
	Session *Session
}

// Register implements router.Controller.Register
func (controller *StructureController) Register(router *router.Router) {
	router.GET(structurePath, controller.structureAction)
}

func (controller *StructureController) structureAction(ctx echo.Context) error {
	rc, err := requireRun(ctx, controller.Session)
	if rc == nil {
		return err
	}

	nodes := rc.Tree
	if nodes == nil {
		nodes = []*models.TreeNode{}
	}
	return ctx.JSON(http.StatusOK, StructureResponse{
		RunID:     rc.ID,
		Tree:      nodes,
		Structure: tree.Render(rc.Tree, 0),
	})
}
