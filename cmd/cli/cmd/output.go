package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"tolltariff/core/output"
	"tolltariff/internal/app"
	"tolltariff/internal/config"
)

// format returns the --format flag or the configured default
func format() (output.Format, error) {
	if outputFormat != "" {
		return output.ParseFormat(outputFormat)
	}
	return output.ParseFormat(config.Get().Output.DefaultFormat)
}

// render writes v as JSON or calls table for text output
func render(cmd *cobra.Command, v interface{}, table func(t *output.Table)) error {
	f, err := format()
	if err != nil {
		return err
	}
	return output.New(f).Render(cmd.OutOrStdout(), v, table)
}

// openApp opens the configured store and directory
func openApp(cmd *cobra.Command) (*app.App, error) {
	return app.Open(commandContext(cmd), config.Get())
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
