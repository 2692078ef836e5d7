package store

import (
	"crypto/rand"
	"encoding/base32"
	"fmt"
	"strings"

	"brieflink/internal/model"
)

// newRandomID returns prefix-<suffix> where suffix is n chars of base32 (lowercase, no padding).
func newRandomID(prefix string, n int) (string, error) {
	var b [10]byte // 80 bits -> 16 base32 chars max
	if _, err := rand.Read(b[:]); err != nil {
		return "", err
	}
	enc := base32.StdEncoding.WithPadding(base32.NoPadding)
	suffix := strings.ToLower(enc.EncodeToString(b[:]))
	if n <= 0 || n > len(suffix) {
		n = len(suffix)
	}
	return prefix + "-" + suffix[:n], nil
}

// nextID generates an id that is unused within scope. Short ids are tried
// first and grow on repeated collisions.
func (ws *Workspace) nextID(prefix string, taken func(string) bool) string {
	for _, ln := range []int{4, 5, 6, 8} {
		for i := 0; i < 50; i++ {
			id, err := newRandomID(prefix, ln)
			if err != nil {
				break
			}
			if !taken(id) {
				return id
			}
		}
	}
	// crypto/rand failing is not worth crashing over.
	ws.seq++
	return fmt.Sprintf("%s-%d", prefix, ws.seq)
}

func projectHasID(p *model.Project, id string) bool {
	for _, b := range p.Briefs {
		if b.ID == id {
			return true
		}
	}
	for _, it := range p.Notes {
		if it.ID == id {
			return true
		}
	}
	for _, it := range p.Copy {
		if it.ID == id {
			return true
		}
	}
	for _, t := range p.Tasks {
		if t.ID == id {
			return true
		}
	}
	return false
}
