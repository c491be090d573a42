package controllers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/harrison/explainer/internal/server/router"
)

const indexPage = `<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>Explainer</title></head>
<body>
<h1>Explainer</h1>
<form action="/upload" method="post" enctype="multipart/form-data">
  <input type="file" name="folder" webkitdirectory directory multiple>
  <button type="submit">Upload</button>
</form>
<form action="/generate_explanation" method="post">
  <button type="submit">Generate explanations</button>
</form>
<p><a href="/structure">Structure</a> | <a href="/view/project_overview.md">Overview</a></p>
</body>
</html>
`

// IndexController serves the upload form.
type IndexController struct{}

// Register implements router.Controller.Register
func (controller *IndexController) Register(router *router.Router) {
	router.GET("/", controller.indexAction)
}

func (controller *IndexController) indexAction(ctx echo.Context) error {
	return ctx.HTML(http.StatusOK, indexPage)
}
