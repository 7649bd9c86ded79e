package layout

import "testing"

func TestNewPaneIDUnique(t *testing.T) {
	a, b := NewPaneID(), NewPaneID()
	if a == b {
		t.Fatalf("expected distinct pane ids, got %q twice", a)
	}
	if len(a) == 0 {
		t.Fatal("expected non-empty pane id")
	}
}

func TestFilterPanesRanksBestMatchFirst(t *testing.T) {
	panes := []Pane{
		{ID: "1", Title: "npm run dev"},
		{ID: "2", Title: "vim main.go"},
		{ID: "3", Title: "git log --oneline"},
	}
	ranked := FilterPanes("vim", panes)
	if len(ranked) == 0 || ranked[0].ID != "2" {
		t.Fatalf("expected vim pane first, got %+v", ranked)
	}
}

func TestFilterPanesEmptyQueryReturnsAll(t *testing.T) {
	panes := []Pane{{ID: "1", Title: "a"}, {ID: "2", Title: "b"}}
	ranked := FilterPanes("", panes)
	if len(ranked) != 2 {
		t.Fatalf("expected all panes back, got %+v", ranked)
	}
}
