package cli

import (
	"context"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"brieflink/internal/store"
)

const watchDebounce = 150 * time.Millisecond

// watchDir calls fn after writes to dir settle and the stored data differs
// from the last render, until ctx is done. Rendering opens the backend too,
// so file events alone would re-trigger it.
func watchDir(ctx context.Context, dir string, log *zap.Logger, fingerprint func() (string, error), fn func() error) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()
	if err := w.Add(dir); err != nil {
		return err
	}

	last, err := fingerprint()
	if err != nil {
		return err
	}

	timer := time.NewTimer(watchDebounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if !relevant(ev) {
				continue
			}
			timer.Reset(watchDebounce)
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			log.Warn("watch error", zap.Error(err))
		case <-timer.C:
			fp, err := fingerprint()
			if err != nil {
				log.Warn("watch fingerprint", zap.Error(err))
				continue
			}
			if fp == last {
				continue
			}
			last = fp
			if err := fn(); err != nil {
				return err
			}
		}
	}
}

func relevant(ev fsnotify.Event) bool {
	if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
		return false
	}
	name := ev.Name
	for _, suffix := range []string{"-shm", "-wal", "-journal", ".tmp"} {
		if strings.HasSuffix(name, suffix) {
			return false
		}
	}
	return true
}

// storedFingerprint hashes the data dir contents through the configured backend.
func storedFingerprint(cmd *cobra.Command, app *App) func() (string, error) {
	return func() (string, error) {
		gw, err := openGateway(cmd, app)
		if err != nil {
			return "", err
		}
		defer gw.Close()
		return store.Fingerprint(cmd.Context(), gw)
	}
}
