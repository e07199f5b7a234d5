package service

import (
	"context"
	"errors"
	"fmt"

	"plantio/entities"
	"plantio/pkg/plan/schema"
)

type PlanService interface {
	Generate(ctx context.Context, req *entities.PlantingRequest) (*GenerateResult, error)
}

// GenerateResult is a validated plan plus its archive id (empty when the
// archive is disabled or the write failed).
type GenerateResult struct {
	Plan     *entities.PlantingPlan
	Version  schema.Version
	RecordID string
}

// ErrMissingCredential means the model client could not be built because no
// credential was configured. Surfaced as 500.
var ErrMissingCredential = errors.New("GEMINI_API_KEY not configured")

// Upstream failure stages.
const (
	StageCall      = "call"
	StageParse     = "parse"
	StageNormalize = "normalize"
	StageValidate  = "validate"
)

// UpstreamError covers every model-side failure: the call itself, an
// unparseable reply, or a reply that does not fit the schema. Surfaced as 502.
type UpstreamError struct {
	Stage string
	Err   error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("upstream model failure (%s): %v", e.Stage, e.Err)
}

func (e *UpstreamError) Unwrap() error { return e.Err }

// RejectedError carries a content-policy marker the model answered with.
type RejectedError struct {
	Rejection schema.Rejection
}

func (e *RejectedError) Error() string {
	if e.Rejection.Message == "" {
		return fmt.Sprintf("request rejected by model: %s", e.Rejection.Code)
	}
	return fmt.Sprintf("request rejected by model: %s: %s", e.Rejection.Code, e.Rejection.Message)
}
