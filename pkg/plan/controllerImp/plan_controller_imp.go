package controllerImp

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"plantio/entities"
	"plantio/pkg/plan/export"
	"plantio/pkg/plan/repository"
	"plantio/pkg/plan/schema"
	"plantio/pkg/plan/service"
	"plantio/pkg/validation"
)

// HeaderPlanID carries the archive id of a freshly generated plan.
const HeaderPlanID = "X-Plan-Id"

type PlanCtrl struct {
	svc     service.PlanService
	archive repository.PlanRepository
	log     *zap.Logger
}

// NewPlanCtrl builds the handlers. archive may be nil; the archive routes are
// then not registered.
func NewPlanCtrl(svc service.PlanService, archive repository.PlanRepository, log *zap.Logger) *PlanCtrl {
	if log == nil {
		log = zap.NewNop()
	}
	return &PlanCtrl{svc: svc, archive: archive, log: log}
}

func (h *PlanCtrl) Generate(c echo.Context) error {
	var req entities.PlantingRequest
	if err := validation.DecodeJSON(c.Request().Body, &req); err != nil {
		return badRequest(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return badRequest(c, err)
	}

	res, err := h.svc.Generate(c.Request().Context(), &req)
	if err != nil {
		return h.fail(c, err)
	}
	if res.RecordID != "" {
		c.Response().Header().Set(HeaderPlanID, res.RecordID)
	}
	if c.QueryParam("format") == "xlsx" {
		return h.xlsx(c, "plano.xlsx", res.Plan)
	}
	return c.JSON(http.StatusOK, res.Plan)
}

func (h *PlanCtrl) List(c echo.Context) error {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	recs, err := h.archive.ListRecent(c.Request().Context(), limit)
	if err != nil {
		h.log.Error("list plans", zap.Error(err), requestID(c))
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "archive unavailable"})
	}
	return c.JSON(http.StatusOK, map[string]any{"plans": recs})
}

func (h *PlanCtrl) Get(c echo.Context) error {
	rec, ok, err := h.find(c)
	if !ok {
		return err
	}
	return c.JSON(http.StatusOK, map[string]any{
		"record":  rec,
		"request": json.RawMessage(rec.RequestJSON),
		"plan":    json.RawMessage(rec.PlanJSON),
	})
}

func (h *PlanCtrl) Export(c echo.Context) error {
	rec, ok, err := h.find(c)
	if !ok {
		return err
	}
	var plan entities.PlantingPlan
	if err := json.Unmarshal([]byte(rec.PlanJSON), &plan); err != nil {
		h.log.Error("stored plan unreadable", zap.String("id", rec.ID), zap.Error(err), requestID(c))
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "stored plan unreadable"})
	}
	return h.xlsx(c, fmt.Sprintf("plano-%s.xlsx", rec.ID), &plan)
}

// find loads the record named by :id. ok is false when a response was already written.
func (h *PlanCtrl) find(c echo.Context) (*entities.PlanRecord, bool, error) {
	rec, err := h.archive.FindByID(c.Request().Context(), c.Param("id"))
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, c.JSON(http.StatusNotFound, map[string]string{"error": "plan not found"})
	}
	if err != nil {
		h.log.Error("find plan", zap.Error(err), requestID(c))
		return nil, false, c.JSON(http.StatusInternalServerError, map[string]string{"error": "archive unavailable"})
	}
	return rec, true, nil
}

func (h *PlanCtrl) fail(c echo.Context, err error) error {
	var (
		up  *service.UpstreamError
		rej *service.RejectedError
	)
	switch {
	case errors.Is(err, service.ErrMissingCredential):
		h.log.Error("generate without credential", requestID(c))
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	case errors.As(err, &up):
		h.log.Warn("upstream failure", zap.String("stage", up.Stage), zap.Error(up.Err), requestID(c))
		return c.JSON(http.StatusBadGateway, map[string]string{
			"error":  "upstream model failure",
			"detail": up.Err.Error(),
		})
	case errors.As(err, &rej):
		return c.JSON(rejectionStatus(rej.Rejection.Code), rej.Rejection)
	default:
		h.log.Error("generate", zap.Error(err), requestID(c))
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "internal error"})
	}
}

func (h *PlanCtrl) xlsx(c echo.Context, filename string, plan *entities.PlantingPlan) error {
	var buf bytes.Buffer
	if err := export.WritePlan(&buf, plan); err != nil {
		h.log.Error("export xlsx", zap.Error(err), requestID(c))
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "export failed"})
	}
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filename))
	return c.Blob(http.StatusOK, export.ContentType, buf.Bytes())
}

func rejectionStatus(code schema.RejectionCode) int {
	if code == schema.RejectInvalid {
		return http.StatusBadRequest
	}
	return http.StatusUnprocessableEntity
}

func badRequest(c echo.Context, err error) error {
	var verr *validation.Error
	if errors.As(err, &verr) {
		return c.JSON(http.StatusBadRequest, map[string]any{
			"error":  "validation failed",
			"fields": verr.Fields,
		})
	}
	return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
}

func requestID(c echo.Context) zap.Field {
	return zap.String("request_id", c.Response().Header().Get(echo.HeaderXRequestID))
}
