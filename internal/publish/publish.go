// Package publish writes briefs and projects as markdown files.
package publish

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"brieflink/internal/store"
)

type WriteOptions struct {
	IncludeCompleted bool
	Overwrite        bool
}

type WriteResult struct {
	Written []string `json:"written"`
}

func WriteBrief(ws *store.Workspace, projectID, briefID string, toDir string, opt WriteOptions) (WriteResult, error) {
	if ws == nil {
		return WriteResult{}, errors.New("missing workspace")
	}
	briefID = strings.TrimSpace(briefID)
	if briefID == "" {
		return WriteResult{}, errors.New("missing brief id")
	}
	toDir = strings.TrimSpace(toDir)
	if toDir == "" {
		return WriteResult{}, errors.New("missing --to")
	}
	toDir = filepath.Clean(toDir)

	md, err := RenderBriefMarkdown(ws, projectID, briefID, RenderOptions{IncludeCompleted: opt.IncludeCompleted})
	if err != nil {
		return WriteResult{}, err
	}
	outDir := filepath.Join(toDir, "briefs")
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return WriteResult{}, err
	}
	outPath := filepath.Join(outDir, briefID+".md")
	if err := writeFile(outPath, []byte(md), opt.Overwrite); err != nil {
		return WriteResult{}, err
	}
	return WriteResult{Written: []string{outPath}}, nil
}

// WriteProject writes index.md plus briefs/<id>.md for every brief, stopping
// at the first error.
func WriteProject(ws *store.Workspace, projectID string, toDir string, opt WriteOptions) (WriteResult, error) {
	if ws == nil {
		return WriteResult{}, errors.New("missing workspace")
	}
	toDir = strings.TrimSpace(toDir)
	if toDir == "" {
		return WriteResult{}, errors.New("missing --to")
	}
	toDir = filepath.Clean(toDir)
	p, ok := ws.FindProject(strings.TrimSpace(projectID))
	if !ok {
		return WriteResult{}, store.NotFoundError{Kind: "project", ID: projectID}
	}

	indexMD, err := RenderProjectIndexMarkdown(ws, p.ID, RenderOptions{IncludeCompleted: opt.IncludeCompleted})
	if err != nil {
		return WriteResult{}, err
	}
	if err := os.MkdirAll(toDir, 0o755); err != nil {
		return WriteResult{}, err
	}
	indexPath := filepath.Join(toDir, "index.md")
	if err := writeFile(indexPath, []byte(indexMD), opt.Overwrite); err != nil {
		return WriteResult{}, err
	}

	written := []string{indexPath}
	for _, b := range p.Briefs {
		res, err := WriteBrief(ws, p.ID, b.ID, toDir, opt)
		if err != nil {
			return WriteResult{}, err
		}
		written = append(written, res.Written...)
	}
	return WriteResult{Written: written}, nil
}

func writeFile(path string, b []byte, overwrite bool) error {
	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return errors.New("file exists (use --overwrite): " + path)
		}
	}
	return os.WriteFile(path, b, 0o644)
}
