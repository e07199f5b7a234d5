package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"plantio/config"
	"plantio/entities"
	"plantio/pkg/plan/export"
	"plantio/pkg/validation"
)

func newGenerateCmd() *cobra.Command {
	var (
		file   string
		schema string
		xlsx   string
	)
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate one plan from a request file and print it",
		Example: `  plantio generate -f request.json
  plantio generate -f - --schema v2 --xlsx plano.xlsx < request.json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := config.Load()
			log, err := newLogger(cfg)
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()

			req, err := readRequest(cmd.InOrStdin(), file)
			if err != nil {
				return err
			}

			a, err := newApp(cmd.Context(), cfg, log, schema)
			if err != nil {
				return err
			}
			defer a.close()

			res, err := a.svc.Generate(cmd.Context(), req)
			if err != nil {
				return err
			}
			if res.RecordID != "" {
				log.Info("plan archived", zap.String("id", res.RecordID))
			}

			if xlsx != "" {
				if err := writeXLSX(xlsx, res.Plan); err != nil {
					return err
				}
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetEscapeHTML(false)
			enc.SetIndent("", "  ")
			return enc.Encode(res.Plan)
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "request JSON file, - for stdin")
	cmd.Flags().StringVar(&schema, "schema", "", "reply schema version (overrides PLAN_SCHEMA_VERSION)")
	cmd.Flags().StringVar(&xlsx, "xlsx", "", "also write the plan as an .xlsx workbook")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

// readRequest decodes and validates a request the same way the HTTP handler does.
func readRequest(stdin io.Reader, path string) (*entities.PlantingRequest, error) {
	r := stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		r = f
	}
	var req entities.PlantingRequest
	if err := validation.DecodeJSON(r, &req); err != nil {
		return nil, fmt.Errorf("read request: %w", err)
	}
	if err := validation.New().Validate(&req); err != nil {
		return nil, err
	}
	return &req, nil
}

func writeXLSX(path string, plan *entities.PlantingPlan) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := export.WritePlan(f, plan); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
