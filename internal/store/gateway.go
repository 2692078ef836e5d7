package store

import (
	"context"
	"sort"
	"strings"
	"sync"
)

// Logical persistence keys.
const (
	KeyProjects        = "projects"
	KeyGlobalTaskOrder = "globalTaskOrder"
	KeyWorkContext     = "workContext"
	KeyBreadcrumbs     = "breadcrumbs"
)

// Gateway is durable key/value storage for opaque JSON blobs.
type Gateway interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Put(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Keys(ctx context.Context) ([]string, error)
	Close() error
}

// Backend names accepted by Open.
const (
	BackendSQLite = "sqlite"
	BackendJSON   = "json"
	BackendMemory = "memory"
)

// Open returns a gateway rooted at dir for the named backend.
func Open(ctx context.Context, backend, dir string) (Gateway, error) {
	switch strings.ToLower(strings.TrimSpace(backend)) {
	case "", BackendSQLite:
		return OpenSQLite(ctx, dir)
	case BackendJSON:
		return OpenJSONDir(dir)
	case BackendMemory:
		return NewMemoryGateway(), nil
	default:
		return nil, errUnknownBackend(backend)
	}
}

// MemoryGateway keeps blobs in process memory. Used by tests and dry runs.
type MemoryGateway struct {
	mu   sync.Mutex
	data map[string][]byte
}

func NewMemoryGateway() *MemoryGateway {
	return &MemoryGateway{data: map[string][]byte{}}
}

func (m *MemoryGateway) Get(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.data[key]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), b...), true, nil
}

func (m *MemoryGateway) Put(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = append([]byte(nil), value...)
	return nil
}

func (m *MemoryGateway) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

func (m *MemoryGateway) Keys(_ context.Context) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, 0, len(m.data))
	for k := range m.data {
		out = append(out, k)
	}
	sort.Strings(out)
	return out, nil
}

func (m *MemoryGateway) Close() error { return nil }
