package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"plantio/config"
	healthCtrlImp "plantio/pkg/health/controllerImp"
	planCtrlImp "plantio/pkg/plan/controllerImp"
	"plantio/pkg/validation"
	"plantio/router"
)

const shutdownGrace = 10 * time.Second

func newServeCmd() *cobra.Command {
	var port string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := config.Load()
			if port != "" {
				cfg.Port = port
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return serve(ctx, cfg)
		},
	}
	cmd.Flags().StringVarP(&port, "port", "p", "", "listen port (overrides PORT)")
	return cmd
}

func serve(ctx context.Context, cfg config.AppConfig) error {
	// 1) Logger
	log, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()
	log.Info("starting", zap.String("config", cfg.Redacted()))

	// 2) Model, archive, service
	a, err := newApp(ctx, cfg, log, "")
	if err != nil {
		log.Error("startup", zap.Error(err))
		return err
	}
	defer a.close()

	// 3) Controllers
	plCtrl := planCtrlImp.NewPlanCtrl(a.svc, a.archive, log)
	var archiveCtrl interface {
		List(echo.Context) error
		Get(echo.Context) error
		Export(echo.Context) error
	}
	if a.archive != nil {
		archiveCtrl = plCtrl
	}
	hCtrl := healthCtrlImp.NewHealthCtrl(a.db, a.model, string(a.svc.Version()))

	// 4) Echo
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = validation.New()
	router.New(e, router.Options{Log: log, APIToken: cfg.APIToken}, plCtrl, archiveCtrl, hCtrl)

	// 5) Run until signal
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("listening", zap.String("addr", ":"+cfg.Port))
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()
		log.Info("shutting down")
		return e.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
