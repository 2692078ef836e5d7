package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	core "brieflink/internal/app"
	"brieflink/internal/config"
	"brieflink/internal/format"
	"brieflink/internal/logging"
	"brieflink/internal/model"
	"brieflink/internal/prompt"
	"brieflink/internal/render"
	"brieflink/internal/store"
	"brieflink/internal/worktrail"
)

type App struct {
	Dir        string
	Backend    string
	ConfigPath string
	PrettyJSON bool
	Format     string
	Yes        bool
	View       bool

	cfg *config.Config
	log *zap.Logger

	// resumeHinted limits the start-up resume notice to once per process.
	resumeHinted bool
}

func NewRootCmd() *cobra.Command {
	app := &App{}

	cmd := &cobra.Command{
		Use:          "brieflink",
		Short:        "Briefs, notes, copy and tasks with linked colors and a resumable work trail",
		SilenceUsage: true,
		Example: strings.TrimSpace(`
  # Start a project and a brief
  brieflink projects create --name "Spring launch"
  brieflink briefs create --title "Hero campaign" --proposition "Faster mornings"

  # Link a note to the brief and derive a task from it
  brieflink notes create --title "Tagline ideas" --brief <brief-id>
  brieflink tasks create --title "Draft taglines" --source note:<note-id>

  # Curate the cross-project top three
  brieflink tasks move <project-id>-<task-id> --to top
  brieflink tasks global
`),
	}

	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		return app.init(cmd)
	}
	cmd.PersistentPostRunE = func(cmd *cobra.Command, args []string) error {
		if app.log != nil {
			_ = app.log.Sync()
		}
		return nil
	}

	cmd.PersistentFlags().StringVar(&app.Dir, "dir", envOr("BRIEFLINK_DIR", ""), "Path to the data dir (default: storage.dir or ~/.brieflink/default)")
	cmd.PersistentFlags().StringVar(&app.Backend, "backend", envOr("BRIEFLINK_BACKEND", ""), "Storage backend (sqlite|json)")
	cmd.PersistentFlags().StringVar(&app.ConfigPath, "config", "", "Config file (default: $BRIEFLINK_CONFIG or ~/.brieflink/config.yaml)")
	cmd.PersistentFlags().BoolVar(&app.PrettyJSON, "pretty", false, "Pretty-print output")
	cmd.PersistentFlags().StringVar(&app.Format, "format", envOr("BRIEFLINK_FORMAT", "json"), "Output format (json|edn|yaml)")
	cmd.PersistentFlags().BoolVarP(&app.Yes, "yes", "y", false, "Approve confirmation prompts")
	cmd.PersistentFlags().BoolVar(&app.View, "view", false, "Render affected views to stderr after mutations")

	cmd.AddCommand(newProjectsCmd(app))
	cmd.AddCommand(newBriefsCmd(app))
	cmd.AddCommand(newItemsCmd(app, model.ItemNote))
	cmd.AddCommand(newItemsCmd(app, model.ItemCopy))
	cmd.AddCommand(newTasksCmd(app))
	cmd.AddCommand(newColorCmd(app))
	cmd.AddCommand(newTrailCmd(app))
	cmd.AddCommand(newContextCmd(app))
	cmd.AddCommand(newViewCmd(app))
	cmd.AddCommand(newExportCmd(app))
	cmd.AddCommand(newPublishCmd(app))
	cmd.AddCommand(newBackupCmd(app))
	cmd.AddCommand(newConfigCmd(app))

	return cmd
}

func (app *App) init(cmd *cobra.Command) error {
	cfg, err := config.Load(app.ConfigPath)
	if err != nil {
		return writeErr(cmd, err)
	}
	app.cfg = cfg
	if app.Dir == "" {
		app.Dir = cfg.Storage.Dir
	}
	if app.Backend == "" {
		app.Backend = cfg.Storage.Backend
	}
	log, err := logging.New(logging.Config{Level: cfg.Log.Level, Format: cfg.Log.Format}, cmd.ErrOrStderr())
	if err != nil {
		return writeErr(cmd, err)
	}
	app.log = log
	return nil
}

func (app *App) logger() *zap.Logger {
	if app.log == nil {
		return zap.NewNop()
	}
	return app.log
}

// openGateway opens the configured backend under the data dir.
func openGateway(cmd *cobra.Command, app *App) (store.Gateway, error) {
	dir := app.Dir
	if dir == "" {
		d, err := store.DefaultDir()
		if err != nil {
			return nil, err
		}
		dir = d
		app.Dir = d
	}
	if app.Backend != store.BackendMemory {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}
	return store.Open(cmd.Context(), app.Backend, dir)
}

// openApp loads persisted state and wires the terminal collaborators.
func openApp(cmd *cobra.Command, app *App) (*core.App, error) {
	ctx := cmd.Context()
	gw, err := openGateway(cmd, app)
	if err != nil {
		return nil, err
	}

	cfg := app.cfg
	if cfg == nil {
		cfg = config.Defaults()
	}
	term := render.NewTerminal(cmd.ErrOrStderr())
	opts := core.Options{
		Logger:    app.logger(),
		Retention: cfg.Tasks.Retention,
		Tracker: worktrail.Config{
			MaxCrumbs:    cfg.Trail.Max,
			ResumeWindow: cfg.Context.ResumeWindow,
			AutoDismiss:  cfg.Context.AutoDismiss,
			ReplayStep:   cfg.Context.ReplayStep,
		},
		Notifier:  term,
		Confirmer: app.confirmer(cmd),
		Editor:    render.NewLineEditor(term),
	}
	if app.View {
		opts.Renderer = term
	}
	a, err := core.Open(ctx, gw, opts)
	if err != nil {
		_ = gw.Close()
		return nil, err
	}
	term.Colors = a.ColorFor
	if !app.resumeHinted && !underContextCmd(cmd) {
		app.resumeHinted = true
		a.ResumeHint(ctx)
	}
	return a, nil
}

// underContextCmd reports whether cmd already deals with the resume offer.
func underContextCmd(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Name() == "context" {
			return true
		}
	}
	return false
}

func (app *App) confirmer(cmd *cobra.Command) core.Confirmer {
	if app.Yes {
		return prompt.Static{Answer: true}
	}
	if f, ok := cmd.InOrStdin().(*os.File); ok && isatty.IsTerminal(f.Fd()) {
		return prompt.Terminal{In: f, Out: cmd.ErrOrStderr()}
	}
	return prompt.Unattended{}
}

// withApp opens the app, runs fn and writes its result in the data envelope.
func withApp(cmd *cobra.Command, app *App, fn func(ctx context.Context, a *core.App) (any, error)) error {
	a, err := openApp(cmd, app)
	if err != nil {
		return writeErr(cmd, err)
	}
	defer a.Close()

	v, err := fn(cmd.Context(), a)
	if err != nil {
		return writeErr(cmd, err)
	}
	if env, ok := v.(envelope); ok {
		return writeOut(cmd, app, env)
	}
	return writeOut(cmd, app, envelope{Data: v})
}

type envelope struct {
	Data any            `json:"data"`
	Meta map[string]any `json:"meta,omitempty"`
}

func aborted(reason string) envelope {
	return envelope{Data: nil, Meta: map[string]any{"aborted": reason}}
}

func envOr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func writeOut(cmd *cobra.Command, app *App, v any) error {
	return format.Write(cmd.OutOrStdout(), v, app.Format, app.PrettyJSON)
}

func writeErr(cmd *cobra.Command, err error) error {
	fmt.Fprintln(cmd.ErrOrStderr(), err.Error())
	return err
}
