// Package cues holds time-ranged subtitle text and answers which cue is
// active at a given playback time.
package cues

import (
	"strings"
	"time"
)

// Cue is a piece of text shown over the half-open interval [Start, End).
type Cue struct {
	Start time.Duration
	End   time.Duration
	Text  string
}

// Covers reports whether t falls inside the cue.
func (c Cue) Covers(t time.Duration) bool {
	return c.Start <= t && t < c.End
}

// Index is an immutable, load-ordered set of cues.
// Lookup is a linear scan; cue files are small and the tick is coarse.
type Index struct {
	cues []Cue
}

// NewIndex copies cues into a new Index, trimming surrounding whitespace
// from each text. Load order is preserved.
func NewIndex(cues []Cue) *Index {
	idx := &Index{cues: make([]Cue, len(cues))}
	for i, c := range cues {
		c.Text = strings.TrimSpace(c.Text)
		idx.cues[i] = c
	}
	return idx
}

// Lookup returns the text of the first cue, in load order, covering t.
func (idx *Index) Lookup(t time.Duration) (string, bool) {
	if idx == nil {
		return "", false
	}
	for _, c := range idx.cues {
		if c.Covers(t) {
			return c.Text, true
		}
	}
	return "", false
}

// Len returns the number of cues.
func (idx *Index) Len() int {
	if idx == nil {
		return 0
	}
	return len(idx.cues)
}
