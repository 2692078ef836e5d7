package store

import (
	"strings"
	"testing"
)

func TestNewRandomID_PrefixAndLength(t *testing.T) {
	t.Parallel()

	id, err := newRandomID("brief", 4)
	if err != nil {
		t.Fatalf("newRandomID: %v", err)
	}
	if !strings.HasPrefix(id, "brief-") {
		t.Fatalf("expected brief prefix, got %q", id)
	}
	if got, want := len(strings.TrimPrefix(id, "brief-")), 4; got != want {
		t.Fatalf("expected suffix len %d, got %d (%q)", want, got, id)
	}
}

func TestNextID_SkipsTakenIDs(t *testing.T) {
	t.Parallel()

	ws := New(nil, Options{})
	seen := map[string]bool{}
	for i := 0; i < 200; i++ {
		id := ws.nextID("task", func(id string) bool { return seen[id] })
		if seen[id] {
			t.Fatalf("nextID returned taken id %q", id)
		}
		seen[id] = true
	}
}

func TestNextID_FallsBackToSequenceWhenEverythingIsTaken(t *testing.T) {
	t.Parallel()

	ws := New(nil, Options{})
	id := ws.nextID("note", func(string) bool { return true })
	if id != "note-1" {
		t.Fatalf("expected sequence fallback note-1, got %q", id)
	}
}
