package cli

import (
	"context"
	"io"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"brieflink/internal/store"
)

func TestWatchDir_RendersOncePerExternalWrite(t *testing.T) {
	t.Parallel()
	for _, backend := range []string{"sqlite", "json"} {
		t.Run(backend, func(t *testing.T) {
			t.Parallel()
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()

			app := &App{Dir: filepath.Join(t.TempDir(), "data"), Backend: backend}
			cmd := &cobra.Command{}
			cmd.SetContext(ctx)
			cmd.SetOut(io.Discard)
			cmd.SetErr(io.Discard)

			seed := func(name string) {
				gw, err := openGateway(cmd, app)
				if err != nil {
					t.Errorf("open gateway: %v", err)
					return
				}
				defer gw.Close()
				ws, err := store.Load(ctx, gw, store.Options{})
				if err != nil {
					t.Errorf("load: %v", err)
					return
				}
				if _, err := ws.CreateProject(name); err != nil {
					t.Errorf("create project: %v", err)
					return
				}
				if err := ws.Save(ctx); err != nil {
					t.Errorf("save: %v", err)
				}
			}
			seed("First")

			var renders atomic.Int32
			render := func() error {
				renders.Add(1)
				a, err := openApp(cmd, app)
				if err != nil {
					return err
				}
				_ = a.GlobalView()
				return a.Close()
			}

			done := make(chan error, 1)
			go func() {
				done <- watchDir(ctx, app.Dir, zap.NewNop(), storedFingerprint(cmd, app), render)
			}()

			time.Sleep(200 * time.Millisecond)
			seed("Second")

			if err := <-done; err != nil {
				t.Fatalf("watch: %v", err)
			}
			if got := renders.Load(); got != 1 {
				t.Fatalf("expected exactly one render for one external write; got %d", got)
			}
		})
	}
}
