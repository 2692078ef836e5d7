package format

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

type row struct {
	ID            string   `json:"id"`
	LinkedBriefID string   `json:"linkedBriefId,omitempty"`
	Done          bool     `json:"done"`
	Tags          []string `json:"tags"`
}

func TestKeyword(t *testing.T) {
	t.Parallel()
	tests := map[string]string{
		"id":                ":id",
		"linkedBriefId":     ":linked-brief-id",
		"topThree":          ":top-three",
		"uniqueID":          ":unique-id",
		"projectColorTheme": ":project-color-theme",
		"snake_case":        ":snake-case",
	}
	for in, want := range tests {
		assert.Equal(t, want, keyword(in), in)
	}
}

func TestWriteEDN(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	v := map[string]any{"data": row{ID: "note-1", LinkedBriefID: "brief-2", Tags: []string{"a"}}, "n": 3, "f": 1.5, "x": nil}
	require.NoError(t, WriteEDN(&buf, v, false))
	assert.Equal(t, `{:data {:done false :id "note-1" :linked-brief-id "brief-2" :tags ["a"]} :f 1.5 :n 3 :x nil}`+"\n", buf.String())
}

func TestWriteEDN_Pretty(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	require.NoError(t, WriteEDN(&buf, map[string]any{"a": []int{1, 2}, "b": []int{}}, true))
	assert.Equal(t, "{\n  :a [\n    1\n    2\n  ]\n  :b []\n}\n", buf.String())
}

func TestWriteYAML_UsesJSONNames(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	require.NoError(t, WriteYAML(&buf, row{ID: "task-1", LinkedBriefID: "b", Done: true}))

	var got map[string]any
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, "task-1", got["id"])
	assert.Equal(t, "b", got["linkedBriefId"])
	assert.Equal(t, true, got["done"])
}

func TestWriteJSON(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, map[string]string{"title": "<b>&</b>"}, false))
	assert.Equal(t, `{"title":"<b>&</b>"}`+"\n", buf.String())

	buf.Reset()
	require.NoError(t, WriteJSON(&buf, map[string]int{"a": 1}, true))
	assert.Equal(t, "{\n  \"a\": 1\n}\n", buf.String())
}

func TestWrite_Dispatch(t *testing.T) {
	t.Parallel()
	for _, f := range []string{"", "json", "JSON", "edn", "yaml", "yml"} {
		var buf bytes.Buffer
		assert.NoError(t, Write(&buf, map[string]any{"data": 1}, f, false), f)
		assert.NotEmpty(t, buf.String(), f)
	}
	err := Write(&bytes.Buffer{}, nil, "toml", false)
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "json|edn|yaml"))
}
