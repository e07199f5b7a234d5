package main

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"plantio/config"
	"plantio/database"
	"plantio/pkg/ai"
	"plantio/pkg/logging"
	"plantio/pkg/plan/repository"
	planRepoImp "plantio/pkg/plan/repositoryImp"
	"plantio/pkg/plan/schema"
	planSvcImp "plantio/pkg/plan/serviceImp"
)

// app holds everything both subcommands share.
type app struct {
	cfg     config.AppConfig
	log     *zap.Logger
	db      *gorm.DB
	archive repository.PlanRepository
	svc     *planSvcImp.PlanSvc
	model   string
}

func newLogger(cfg config.AppConfig) (*zap.Logger, error) {
	log, err := logging.New(cfg.LogLevel, cfg.Development())
	if err != nil {
		return nil, err
	}
	if cfg.DotEnvMissing {
		log.Debug("no .env file, using process environment")
	}
	return log, nil
}

// newApp wires config -> model -> archive -> service. schemaOverride wins over
// PLAN_SCHEMA_VERSION when set.
func newApp(ctx context.Context, cfg config.AppConfig, log *zap.Logger, schemaOverride string) (*app, error) {
	raw := cfg.SchemaVersion
	if schemaOverride != "" {
		raw = schemaOverride
	}
	version, err := schema.ParseVersion(raw)
	if err != nil {
		return nil, err
	}

	llm, model, err := newModel(ctx, cfg, log)
	if err != nil {
		return nil, err
	}

	a := &app{cfg: cfg, log: log, model: model}
	if cfg.ArchivePath != "" {
		db, err := database.OpenSQLite(cfg.ArchivePath)
		if err != nil {
			return nil, err
		}
		a.db = db
		a.archive = planRepoImp.New(db)
		log.Info("plan archive enabled", zap.String("path", cfg.ArchivePath))
	}

	a.svc, err = planSvcImp.NewPlanService(llm, version, a.archive, log)
	if err != nil {
		a.close()
		return nil, err
	}
	return a, nil
}

// newModel returns a nil client (not an error) when GEMINI_API_KEY is unset so
// the process still starts and generate requests answer 500.
func newModel(ctx context.Context, cfg config.AppConfig, log *zap.Logger) (ai.Client, string, error) {
	switch cfg.AIProvider {
	case "mock":
		log.Warn("using mock model client")
		return ai.NewMock(), "mock", nil
	case "gemini":
		llm, err := ai.NewGemini(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
		if errors.Is(err, ai.ErrMissingAPIKey) {
			log.Error("GEMINI_API_KEY not set; plan requests will fail until it is configured")
			return nil, "", nil
		}
		if err != nil {
			return nil, "", err
		}
		return llm, cfg.GeminiModel, nil
	default:
		return nil, "", fmt.Errorf("unknown AI_PROVIDER %q (want gemini or mock)", cfg.AIProvider)
	}
}

func (a *app) close() {
	if a.db == nil {
		return
	}
	if sqlDB, err := a.db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
