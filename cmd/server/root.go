package main

import (
	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	serve := newServeCmd()
	root := &cobra.Command{
		Use:           "plantio",
		Short:         "Planting plan generator backed by Gemini",
		SilenceUsage:  true,
		SilenceErrors: false,
		// no subcommand means serve
		RunE: serve.RunE,
	}
	root.AddCommand(serve, newGenerateCmd())
	return root
}
