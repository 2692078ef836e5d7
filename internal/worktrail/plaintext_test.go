package worktrail

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"brieflink/internal/model"
)

func TestPlainText(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		body string
		rich bool
		want string
	}{
		{name: "plain unchanged", body: "a <b>literal</b>", rich: false, want: "a <b>literal</b>"},
		{name: "tags stripped", body: "<p>Hello <b>world</b></p>", rich: true, want: "Hello world"},
		{name: "entities decoded", body: "<p>salt &amp; pepper</p>", rich: true, want: "salt & pepper"},
		{name: "scripts dropped", body: "ok<script>alert(1)</script>", rich: true, want: "ok"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, PlainText(tt.body, tt.rich))
		})
	}
}

func TestClampSelection(t *testing.T) {
	t.Parallel()
	assert.Equal(t, model.Selection{Start: 0, End: 5}, ClampSelection(model.Selection{Start: -3, End: 99}, 5))
	assert.Equal(t, model.Selection{Start: 1, End: 4}, ClampSelection(model.Selection{Start: 4, End: 1}, 5))
	assert.Equal(t, model.Selection{Start: 0, End: 0}, ClampSelection(model.Selection{Start: 2, End: 2}, 0))
}

func TestPlainLength(t *testing.T) {
	t.Parallel()
	assert.Equal(t, 5, PlainLength(model.Snapshot{IsRichText: true, HTML: "<p>héllo</p>", Content: "ignored text"}))
	assert.Equal(t, 3, PlainLength(model.Snapshot{Content: "abc"}))
}
