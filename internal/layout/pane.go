package layout

import (
	"github.com/google/uuid"
	"github.com/sahilm/fuzzy"
)

// NewPaneID generates a fresh unique pane identifier. Callers that want a
// stable, caller-chosen id (tests, single-pane CLIs) can still build a Node
// with NewLeaf directly; this is for callers that split panes at runtime
// and need an id no sibling already holds.
func NewPaneID() string {
	return uuid.NewString()
}

// Pane pairs a pane id with the title shown in a picker (command line,
// running program, or user-set label).
type Pane struct {
	ID    string
	Title string
}

// FilterPanes ranks panes whose Title fuzzy-matches query, best match
// first, for an interactive pane-switcher. An empty query returns every
// pane in its original order.
func FilterPanes(query string, panes []Pane) []Pane {
	if query == "" {
		return panes
	}
	titles := make([]string, len(panes))
	for i, p := range panes {
		titles[i] = p.Title
	}
	matches := fuzzy.Find(query, titles)
	ranked := make([]Pane, len(matches))
	for i, m := range matches {
		ranked[i] = panes[m.Index]
	}
	return ranked
}
