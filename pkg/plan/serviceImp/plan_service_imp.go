package serviceImp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"plantio/entities"
	"plantio/pkg/ai"
	"plantio/pkg/plan/prompt"
	"plantio/pkg/plan/repository"
	"plantio/pkg/plan/schema"
	"plantio/pkg/plan/service"
	"plantio/pkg/validation"
)

const responseMIMEType = "application/json"

type PlanSvc struct {
	llm       ai.Client
	version   schema.Version
	system    string
	validator schema.StructValidator
	archive   repository.PlanRepository
	log       *zap.Logger
}

// NewPlanService wires the generator. llm may be nil when no credential is
// configured: the service still builds and every Generate call reports
// service.ErrMissingCredential. archive may be nil to keep no state.
func NewPlanService(llm ai.Client, version schema.Version, archive repository.PlanRepository, log *zap.Logger) (*PlanSvc, error) {
	system, err := prompt.Build(version)
	if err != nil {
		return nil, err
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &PlanSvc{
		llm:       llm,
		version:   version,
		system:    system,
		validator: validation.New(),
		archive:   archive,
		log:       log.Named("plan"),
	}, nil
}

func (s *PlanSvc) Version() schema.Version { return s.version }

func (s *PlanSvc) Generate(ctx context.Context, req *entities.PlantingRequest) (*service.GenerateResult, error) {
	if s.llm == nil {
		return nil, service.ErrMissingCredential
	}

	input, err := marshalCompact(req)
	if err != nil {
		return nil, fmt.Errorf("serialize request: %w", err)
	}

	started := time.Now()
	raw, err := s.llm.Generate(ctx, ai.Request{
		SystemInstruction: s.system,
		UserMessage:       input,
		ResponseMIMEType:  responseMIMEType,
		SafetySettings:    ai.StrictSafety(),
	})
	if err != nil {
		s.log.Warn("model call failed", zap.Duration("took", time.Since(started)), zap.Error(err))
		return nil, &service.UpstreamError{Stage: service.StageCall, Err: err}
	}
	s.log.Debug("model replied",
		zap.Duration("took", time.Since(started)),
		zap.Int("reply_bytes", len(raw)),
		zap.String("schema", string(s.version)))

	doc, err := schema.Parse(raw)
	if err != nil {
		s.log.Warn("model reply is not JSON", zap.Error(err))
		return nil, &service.UpstreamError{Stage: service.StageParse, Err: err}
	}

	if rej, ok := schema.DetectRejection(doc); ok {
		s.log.Info("model rejected request", zap.String("code", string(rej.Code)))
		return nil, &service.RejectedError{Rejection: *rej}
	}

	normalized, err := schema.Normalize(s.version, doc)
	if err != nil {
		return nil, &service.UpstreamError{Stage: service.StageNormalize, Err: err}
	}

	plan, err := schema.Decode(s.version, normalized, s.validator)
	if err != nil {
		s.log.Warn("model reply does not match schema", zap.Error(err))
		return nil, &service.UpstreamError{Stage: service.StageValidate, Err: err}
	}

	res := &service.GenerateResult{Plan: plan, Version: s.version}
	if s.archive != nil {
		res.RecordID = s.store(ctx, req, input, plan)
	}
	return res, nil
}

// store archives the plan. Failures are logged only; the caller still gets the plan.
func (s *PlanSvc) store(ctx context.Context, req *entities.PlantingRequest, input string, plan *entities.PlantingPlan) string {
	planJSON, err := json.Marshal(plan)
	if err != nil {
		s.log.Warn("archive: encode plan", zap.Error(err))
		return ""
	}
	rec := &entities.PlanRecord{
		ID:            uuid.NewString(),
		SchemaVersion: string(s.version),
		StartDate:     req.DataInicioPlantio,
		EndDate:       plan.DataFimPlantio,
		TaskCount:     len(plan.Tarefas),
		RequestJSON:   input,
		PlanJSON:      string(planJSON),
	}
	if req.Planta != nil {
		rec.Species = req.Planta.NomeCientifico
	}
	if err := s.archive.Create(ctx, rec); err != nil {
		s.log.Warn("archive: create record", zap.Error(err))
		return ""
	}
	return rec.ID
}

// marshalCompact keeps non-ASCII and <>& as written.
func marshalCompact(v any) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return "", err
	}
	return string(bytes.TrimRight(buf.Bytes(), "\n")), nil
}
