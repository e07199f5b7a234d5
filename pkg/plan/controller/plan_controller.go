package controller

import "github.com/labstack/echo/v4"

type PlanController interface {
	Generate(c echo.Context) error
}

// ArchiveController serves stored plans; only routed when the archive is enabled.
type ArchiveController interface {
	List(c echo.Context) error
	Get(c echo.Context) error
	Export(c echo.Context) error
}
