package main

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestRewriteCrumbArgs(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   []string
		want []string
	}{
		{
			name: "no args",
			in:   []string{"brieflink"},
			want: []string{"brieflink"},
		},
		{
			name: "crumb id first token",
			in:   []string{"brieflink", "proj-ab12-note-cd34-note"},
			want: []string{"brieflink", "trail", "go", "proj-ab12-note-cd34-note"},
		},
		{
			name: "crumb id after value flag",
			in:   []string{"brieflink", "--dir", "./ws", "proj-ab12-brief-x9-brief"},
			want: []string{"brieflink", "--dir", "./ws", "trail", "go", "proj-ab12-brief-x9-brief"},
		},
		{
			name: "crumb id after equals flag",
			in:   []string{"brieflink", "--dir=./ws", "proj-ab12-task-q1-task"},
			want: []string{"brieflink", "--dir=./ws", "trail", "go", "proj-ab12-task-q1-task"},
		},
		{
			name: "crumb id after bool flag",
			in:   []string{"brieflink", "--pretty", "proj-ab12-copy-zz-copy"},
			want: []string{"brieflink", "--pretty", "trail", "go", "proj-ab12-copy-zz-copy"},
		},
		{
			name: "crumb id after double dash",
			in:   []string{"brieflink", "--", "proj-ab12-note-cd34-note"},
			want: []string{"brieflink", "--", "trail", "go", "proj-ab12-note-cd34-note"},
		},
		{
			name: "task unique id is not a crumb",
			in:   []string{"brieflink", "proj-ab12-task-q1"},
			want: []string{"brieflink", "proj-ab12-task-q1"},
		},
		{
			name: "normal subcommand not rewritten",
			in:   []string{"brieflink", "trail", "go", "proj-ab12-note-cd34-note"},
			want: []string{"brieflink", "trail", "go", "proj-ab12-note-cd34-note"},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if diff := cmp.Diff(tt.want, rewriteCrumbArgs(tt.in)); diff != "" {
				t.Fatalf("rewriteCrumbArgs mismatch (-want +got):\n%s", diff)
			}
		})
	}
}
