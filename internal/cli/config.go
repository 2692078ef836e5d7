package cli

import (
	"github.com/spf13/cobra"

	"brieflink/internal/config"
)

func newConfigCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration commands",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show the effective configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := app.cfg
			if cfg == nil {
				cfg = config.Defaults()
			}
			out := *cfg
			out.Storage.Dir = app.Dir
			out.Storage.Backend = app.Backend
			return writeOut(cmd, app, envelope{Data: out})
		},
	})
	return cmd
}
