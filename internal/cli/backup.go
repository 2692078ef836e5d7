package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"brieflink/internal/store"
)

func newBackupCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "backup",
		Short: "Back up or restore every persisted key as JSONL",
	}
	cmd.AddCommand(newBackupCreateCmd(app))
	cmd.AddCommand(newBackupRestoreCmd(app))
	return cmd
}

func newBackupCreateCmd(app *App) *cobra.Command {
	var toPath string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Write a JSONL backup of the data dir",
		RunE: func(cmd *cobra.Command, args []string) error {
			gw, err := openGateway(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer gw.Close()

			entries, err := store.ReadEntries(cmd.Context(), gw)
			if err != nil {
				return writeErr(cmd, err)
			}
			if err := store.WriteEntriesJSONL(toPath, entries); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, envelope{Data: map[string]any{
				"path": toPath,
				"keys": entryKeys(entries),
			}})
		},
	}
	cmd.Flags().StringVar(&toPath, "to", "", "Backup file (JSONL)")
	_ = cmd.MarkFlagRequired("to")
	return cmd
}

func newBackupRestoreCmd(app *App) *cobra.Command {
	var fromPath string

	cmd := &cobra.Command{
		Use:   "restore",
		Short: "Replace the data dir contents with a JSONL backup",
		RunE: func(cmd *cobra.Command, args []string) error {
			entries, err := store.ReadEntriesJSONL(fromPath)
			if err != nil {
				return writeErr(cmd, err)
			}

			ok, err := app.confirmer(cmd).Confirm(cmd.Context(), "Restore backup",
				fmt.Sprintf("Replace all stored data with %d key(s) from %s?", len(entries), fromPath))
			if err != nil {
				return writeErr(cmd, err)
			}
			if !ok {
				return writeOut(cmd, app, aborted("declined"))
			}

			gw, err := openGateway(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer gw.Close()

			if err := store.ReplaceEntries(cmd.Context(), gw, entries); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, envelope{Data: map[string]any{
				"path": fromPath,
				"keys": entryKeys(entries),
			}})
		},
	}
	cmd.Flags().StringVar(&fromPath, "from", "", "Backup file (JSONL)")
	_ = cmd.MarkFlagRequired("from")
	return cmd
}

func entryKeys(entries []store.Entry) []string {
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, strings.TrimSpace(e.Key))
	}
	return out
}
