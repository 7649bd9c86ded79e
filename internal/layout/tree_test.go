package layout

import "testing"

func TestSplitAndRect(t *testing.T) {
	root := NewLeaf("a")
	if !root.Split("a", "b", SplitVertical) {
		t.Fatal("split failed")
	}
	results := root.Rect(0, 0, 100, 40, DefaultConstraints())
	if len(results) != 2 {
		t.Fatalf("results = %+v", results)
	}
	byID := map[string]LayoutResult{}
	for _, r := range results {
		byID[r.PaneID] = r
	}
	if byID["a"].X != 0 || byID["b"].X <= byID["a"].Width {
		t.Fatalf("expected side-by-side split, got %+v", byID)
	}
}

func TestCloseRestoresSibling(t *testing.T) {
	root := NewLeaf("a")
	root.Split("a", "b", SplitVertical)
	if !root.Close("b") {
		t.Fatal("close failed")
	}
	if got := root.Leaves(); len(got) != 1 || got[0] != "a" {
		t.Fatalf("leaves = %v", got)
	}
}

func TestFocusNextWraps(t *testing.T) {
	root := NewLeaf("a")
	root.Split("a", "b", SplitVertical)
	root.Split("b", "c", SplitHorizontal)
	leaves := root.Leaves()
	if len(leaves) != 3 {
		t.Fatalf("leaves = %v", leaves)
	}
	next := FocusNext(root, leaves[len(leaves)-1])
	if next != leaves[0] {
		t.Fatalf("focus next wrap = %q, want %q", next, leaves[0])
	}
}

func TestResizeClamped(t *testing.T) {
	root := NewLeaf("a")
	root.Split("a", "b", SplitVertical)
	root.Resize("a", 10) // way beyond 0.9
	if root.Ratio != 0.9 {
		t.Fatalf("ratio = %v", root.Ratio)
	}
}

func TestComputeGridSquareCount(t *testing.T) {
	results := ComputeGrid([]string{"1", "2", "3", "4"}, 100, 100, DefaultConstraints())
	if len(results) != 4 {
		t.Fatalf("results = %+v", results)
	}
}

func TestApplyConstraintsEnforcesMinimum(t *testing.T) {
	r := applyConstraints("x", 0, 0, 5, 5, LayoutConstraints{MinWidth: 20, MinHeight: 10})
	if r.Width != 20 || r.Height != 10 {
		t.Fatalf("r = %+v", r)
	}
	if r.ConstraintsMet {
		t.Fatalf("expected constraints not met for undersized pane")
	}
}
