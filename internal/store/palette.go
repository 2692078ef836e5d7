package store

import (
	"strings"

	"brieflink/internal/model"
)

// ProjectThemes is the fixed palette of project color themes.
var ProjectThemes = []string{
	"ocean",
	"forest",
	"sunset",
	"lavender",
	"rose",
	"slate",
	"amber",
	"teal",
}

// LinkPalette is the fixed palette of brief link colors.
var LinkPalette = []string{
	"#3b82f6",
	"#10b981",
	"#f59e0b",
	"#ef4444",
	"#8b5cf6",
	"#ec4899",
	"#14b8a6",
	"#f97316",
}

// nextProjectTheme returns the first unused theme, falling back to a cyclic
// assignment by project count.
func nextProjectTheme(projects []model.Project) string {
	used := map[string]bool{}
	for _, p := range projects {
		used[p.ColorTheme] = true
	}
	for _, th := range ProjectThemes {
		if !used[th] {
			return th
		}
	}
	return ProjectThemes[len(projects)%len(ProjectThemes)]
}

func linkPaletteIndex(color string) int {
	color = strings.ToLower(strings.TrimSpace(color))
	for i, c := range LinkPalette {
		if c == color {
			return i
		}
	}
	return -1
}

// reconstructLinkColorIndex returns max(existing palette index) + 1 so a
// restart does not hand out a color that was just assigned.
func reconstructLinkColorIndex(projects []model.Project) int {
	maxIdx := -1
	for _, p := range projects {
		for _, b := range p.Briefs {
			if i := linkPaletteIndex(b.LinkColor); i > maxIdx {
				maxIdx = i
			}
		}
	}
	return maxIdx + 1
}

// takeLinkColor returns the next link color and advances the session index.
func (ws *Workspace) takeLinkColor() string {
	c := LinkPalette[ws.nextLinkColor%len(LinkPalette)]
	ws.nextLinkColor++
	return c
}
