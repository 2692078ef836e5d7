package store

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// JSONDirGateway stores each key as <dir>/<key>.json.
// Writes go through a temp file + rename so a crash never leaves a half-written blob.
type JSONDirGateway struct {
	Dir string
}

func OpenJSONDir(dir string) (*JSONDirGateway, error) {
	dir = strings.TrimSpace(dir)
	if dir == "" {
		return nil, errors.New("json gateway: missing dir")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &JSONDirGateway{Dir: dir}, nil
}

func (g *JSONDirGateway) path(key string) string {
	return filepath.Join(g.Dir, key+".json")
}

func (g *JSONDirGateway) Get(_ context.Context, key string) ([]byte, bool, error) {
	b, err := os.ReadFile(g.path(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return b, true, nil
}

func (g *JSONDirGateway) Put(_ context.Context, key string, value []byte) error {
	path := g.path(key)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, value, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

func (g *JSONDirGateway) Delete(_ context.Context, key string) error {
	err := os.Remove(g.path(key))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

func (g *JSONDirGateway) Keys(_ context.Context) ([]string, error) {
	entries, err := os.ReadDir(g.Dir)
	if err != nil {
		return nil, err
	}
	var out []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ".json") {
			continue
		}
		out = append(out, strings.TrimSuffix(name, ".json"))
	}
	sort.Strings(out)
	return out, nil
}

func (g *JSONDirGateway) Close() error { return nil }
