// Package router wraps echo with path-prefixed groups and controller registration.
package router

import (
	"net/url"
	"path"
	"strings"

	"github.com/labstack/echo/v4"
)

// Controller is implemented by every HTTP controller.
type Controller interface {
	// Register is called by the router, passing the router group the
	// controller registers its endpoints on
	Register(router *Router)
}

type Router struct {
	*echo.Echo

	// urlPath is the router urlPath
	urlPath string
}

func New() *Router {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	return &Router{
		Echo:    e,
		urlPath: "/",
	}
}

func (router *Router) Group(urlPath string) *Router {
	return &Router{
		Echo:    router.Echo,
		urlPath: path.Join(router.urlPath, urlPath),
	}
}

func (router *Router) URL() *url.URL {
	return &url.URL{
		Scheme: "http",
		Host:   router.Server.Addr,
		Path:   router.urlPath,
	}
}

// Register registers controller's endpoints
func (router *Router) Register(controllers ...Controller) {
	for _, controller := range controllers {
		controller.Register(router)
	}
}

// Use adds middleware that only runs for routes under the router's urlPath.
func (router *Router) Use(middlewares ...echo.MiddlewareFunc) {
	for _, middleware := range middlewares {
		middleware := func(next echo.HandlerFunc) echo.HandlerFunc {
			return func(ctx echo.Context) error {
				if strings.HasPrefix(strings.Trim(ctx.Path(), "/"), strings.Trim(router.urlPath, "/")) {
					return middleware(next)(ctx)
				}
				return next(ctx)
			}
		}
		router.Echo.Use(middleware)
	}
}

// GET registers a new GET route for a path with matching handler in the router.
func (router *Router) GET(urlPath string, handle echo.HandlerFunc) {
	router.Echo.GET(join(router.urlPath, urlPath), handle)
}

// POST registers a new POST route for a path with matching handler in the router.
func (router *Router) POST(urlPath string, handle echo.HandlerFunc) {
	router.Echo.POST(join(router.urlPath, urlPath), handle)
}

// join is path.Join that keeps a trailing wildcard segment.
func join(base, urlPath string) string {
	joined := path.Join(base, urlPath)
	if strings.HasSuffix(urlPath, "/") && !strings.HasSuffix(joined, "/") {
		joined += "/"
	}
	return joined
}
