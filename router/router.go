package router

import (
	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"plantio/pkg/middleware"
)

type Options struct {
	Log      *zap.Logger
	APIToken string
}

// New registers routes on e. archiveCtrl may be nil when the archive is disabled.
func New(
	e *echo.Echo,
	opts Options,
	planCtrl interface{ Generate(echo.Context) error },
	archiveCtrl interface {
		List(echo.Context) error
		Get(echo.Context) error
		Export(echo.Context) error
	},
	healthCtrl interface{ Health(echo.Context) error },
) *echo.Echo {
	e.Use(echoMiddleware.Recover())
	e.Use(middleware.RequestID())
	if opts.Log != nil {
		e.Use(middleware.RequestLogger(opts.Log))
	}
	e.Use(middleware.APIToken(opts.APIToken))

	e.GET("/health", healthCtrl.Health)

	e.POST("/", planCtrl.Generate)
	e.POST("/plans", planCtrl.Generate)

	if archiveCtrl != nil {
		g := e.Group("/plans")
		g.GET("", archiveCtrl.List)
		g.GET("/:id", archiveCtrl.Get)
		g.GET("/:id/export", archiveCtrl.Export)
	}
	return e
}
