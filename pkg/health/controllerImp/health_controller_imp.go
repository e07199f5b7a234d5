package controllerImp

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

var appStart = time.Now()

type HealthCtrl struct {
	db      *gorm.DB
	model   string
	version string
}

// NewHealthCtrl reports liveness. db is nil when the archive is disabled.
func NewHealthCtrl(db *gorm.DB, model, schemaVersion string) *HealthCtrl {
	return &HealthCtrl{db: db, model: model, version: schemaVersion}
}

type check struct {
	OK       bool   `json:"ok"`
	Disabled bool   `json:"disabled,omitempty"`
	Err      string `json:"err,omitempty"`
}

func (h *HealthCtrl) Health(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 800*time.Millisecond)
	defer cancel()

	archive := h.pingArchive(ctx)
	model := check{OK: h.model != ""}
	if !model.OK {
		model.Err = "no model configured"
	}

	status := http.StatusOK
	if !archive.OK {
		status = http.StatusServiceUnavailable
	}

	return c.JSON(status, map[string]any{
		"status":         map[string]any{"ok": archive.OK},
		"uptime_sec":     int(time.Since(appStart).Seconds()),
		"schema_version": h.version,
		"checks": map[string]any{
			"archive": archive,
			"model":   model,
		},
		"time": time.Now().Format(time.RFC3339),
	})
}

func (h *HealthCtrl) pingArchive(ctx context.Context) check {
	if h.db == nil {
		return check{OK: true, Disabled: true}
	}
	sqlDB, err := h.db.DB()
	if err != nil {
		return check{Err: "db.DB(): " + err.Error()}
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return check{Err: "ping: " + err.Error()}
	}
	return check{OK: true}
}
