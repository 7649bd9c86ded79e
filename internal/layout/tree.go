package layout

import "math"

// SplitAlgorithm selects how Compute arranges leaves when a
// caller asks for an automatic (non-manual) layout.
type SplitAlgorithm int

const (
	AlgorithmBinaryTree SplitAlgorithm = iota
	AlgorithmGrid
	AlgorithmManual
)

// SplitDir is the orientation of a Split node's two children.
type SplitDir int

const (
	SplitVertical SplitDir = iota // children side by side, divider is vertical
	SplitHorizontal
)

// LayoutConstraints bounds what Compute is allowed to produce. A pane
// that can't meet these bounds still gets a rectangle — violations are
// non-fatal.
type LayoutConstraints struct {
	MinWidth   int
	MinHeight  int
	Spacing    int
	AspectRatio float64 // 0 means unconstrained
	MaxPerDim  int
}

// DefaultConstraints returns a reasonable baseline for pane sizing.
func DefaultConstraints() LayoutConstraints {
	return LayoutConstraints{MinWidth: 20, MinHeight: 10, Spacing: 1, MaxPerDim: 4}
}

// LayoutResult is the computed rectangle for one pane, plus whether the
// constraints were actually met (a caller may shrink further or ignore).
type LayoutResult struct {
	PaneID        string
	X, Y          int
	Width, Height int
	ConstraintsMet bool
}

// Node is one node of the pane tree: either a Leaf (holds a pane id) or a
// Split (holds two weighted children). The zero Node is an empty leaf.
type Node struct {
	Leaf string // pane id, set iff this is a leaf

	Dir      SplitDir
	Ratio    float64 // 0..1, size of First along Dir
	First    *Node
	Second   *Node
}

// NewLeaf returns a leaf node addressing paneID.
func NewLeaf(paneID string) *Node { return &Node{Leaf: paneID} }

func (n *Node) isLeaf() bool { return n.First == nil && n.Second == nil }

// Split replaces the leaf at paneID with a new split whose two children
// are the original pane and newPaneID, each getting half the space.
// Reports false if paneID was not found.
func (n *Node) Split(paneID, newPaneID string, dir SplitDir) bool {
	if n == nil {
		return false
	}
	if n.isLeaf() {
		if n.Leaf != paneID {
			return false
		}
		original := n.Leaf
		n.Leaf = ""
		n.Dir = dir
		n.Ratio = 0.5
		n.First = NewLeaf(original)
		n.Second = NewLeaf(newPaneID)
		return true
	}
	return n.First.Split(paneID, newPaneID, dir) || n.Second.Split(paneID, newPaneID, dir)
}

// Close removes paneID from the tree, promoting its sibling into its
// parent's place. Reports false if paneID was not found or is the tree's
// only remaining pane (a root leaf cannot be closed from within itself).
func (n *Node) Close(paneID string) bool {
	if n == nil || n.isLeaf() {
		return false
	}
	if n.First.isLeaf() && n.First.Leaf == paneID {
		*n = *n.Second
		return true
	}
	if n.Second.isLeaf() && n.Second.Leaf == paneID {
		*n = *n.First
		return true
	}
	return n.First.Close(paneID) || n.Second.Close(paneID)
}

// Leaves returns every pane id in the tree, left-to-right / top-to-bottom.
func (n *Node) Leaves() []string {
	if n == nil {
		return nil
	}
	if n.isLeaf() {
		if n.Leaf == "" {
			return nil
		}
		return []string{n.Leaf}
	}
	return append(n.First.Leaves(), n.Second.Leaves()...)
}

// FocusNext returns the pane id following current in Leaves() order,
// wrapping to the first. FocusPrev is the mirror operation.
func FocusNext(n *Node, current string) string { return focusStep(n, current, 1) }
func FocusPrev(n *Node, current string) string { return focusStep(n, current, -1) }

func focusStep(n *Node, current string, delta int) string {
	leaves := n.Leaves()
	if len(leaves) == 0 {
		return ""
	}
	idx := 0
	for i, id := range leaves {
		if id == current {
			idx = i
			break
		}
	}
	idx = (idx + delta + len(leaves)) % len(leaves)
	return leaves[idx]
}

// Resize adjusts the split ratio of the nearest ancestor split containing
// paneID as a direct child, by delta (positive grows paneID's share),
// clamped to [0.1, 0.9].
func (n *Node) Resize(paneID string, delta float64) bool {
	if n == nil || n.isLeaf() {
		return false
	}
	if n.First.isLeaf() && n.First.Leaf == paneID {
		n.Ratio = clamp(n.Ratio+delta, 0.1, 0.9)
		return true
	}
	if n.Second.isLeaf() && n.Second.Leaf == paneID {
		n.Ratio = clamp(n.Ratio-delta, 0.1, 0.9)
		return true
	}
	return n.First.Resize(paneID, delta) || n.Second.Resize(paneID, delta)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Rect computes every leaf's rectangle from the tree structure itself
// (the Manual algorithm: panes keep whatever rects their splits and
// ratios already encode).
func (n *Node) Rect(x, y, w, h int, c LayoutConstraints) []LayoutResult {
	if n == nil {
		return nil
	}
	if n.isLeaf() {
		if n.Leaf == "" {
			return nil
		}
		return []LayoutResult{applyConstraints(n.Leaf, x, y, w, h, c)}
	}
	if n.Dir == SplitVertical {
		firstW := int(float64(w) * n.Ratio)
		secondW := w - firstW - c.Spacing
		if secondW < 0 {
			secondW = 0
		}
		out := n.First.Rect(x, y, firstW, h, c)
		out = append(out, n.Second.Rect(x+firstW+c.Spacing, y, secondW, h, c)...)
		return out
	}
	firstH := int(float64(h) * n.Ratio)
	secondH := h - firstH - c.Spacing
	if secondH < 0 {
		secondH = 0
	}
	out := n.First.Rect(x, y, w, firstH, c)
	out = append(out, n.Second.Rect(x, y+firstH+c.Spacing, w, secondH, c)...)
	return out
}

func applyConstraints(id string, x, y, w, h int, c LayoutConstraints) LayoutResult {
	cw, ch := w, h
	if cw < c.MinWidth {
		cw = c.MinWidth
	}
	if ch < c.MinHeight {
		ch = c.MinHeight
	}
	if c.AspectRatio > 0 {
		ratio := float64(cw) / float64(ch)
		if ratio > c.AspectRatio {
			cw = int(float64(ch) * c.AspectRatio)
		} else {
			ch = int(float64(cw) / c.AspectRatio)
		}
	}
	met := w >= c.MinWidth && h >= c.MinHeight
	return LayoutResult{PaneID: id, X: x, Y: y, Width: cw, Height: ch, ConstraintsMet: met}
}

// ComputeGrid arranges paneIDs into a roughly square grid — the Grid
// algorithm, usable directly without building a Node tree (e.g. "tile
// all panes" commands).
func ComputeGrid(paneIDs []string, totalW, totalH int, c LayoutConstraints) []LayoutResult {
	n := len(paneIDs)
	if n == 0 {
		return nil
	}
	cols := int(math.Ceil(math.Sqrt(float64(n))))
	rows := int(math.Ceil(float64(n) / float64(cols)))

	cellW := (totalW - (cols-1)*c.Spacing) / cols
	cellH := (totalH - (rows-1)*c.Spacing) / rows

	var out []LayoutResult
	for i, id := range paneIDs {
		row, col := i/cols, i%cols
		x := col * (cellW + c.Spacing)
		y := row * (cellH + c.Spacing)
		out = append(out, applyConstraints(id, x, y, cellW, cellH, c))
	}
	return out
}

// ComputeBinaryTree arranges paneIDs by recursive halving, alternating
// vertical/horizontal splits by depth — the BinaryTree algorithm.
func ComputeBinaryTree(paneIDs []string, totalW, totalH int, c LayoutConstraints) []LayoutResult {
	var out []LayoutResult
	for i, id := range paneIDs {
		level := 0
		if i > 0 {
			level = int(math.Floor(math.Log2(float64(i))))
		}
		divisions := 1 << uint(level)
		w := totalW / divisions
		h := totalH / divisions
		x := (i % divisions) * w
		y := (i / divisions) * h
		out = append(out, applyConstraints(id, x, y, w, h, c))
	}
	return out
}

// Compute dispatches to the algorithm named by alg; Manual requires an
// existing tree (use Node.Rect directly) and is not reachable here.
func Compute(alg SplitAlgorithm, paneIDs []string, totalW, totalH int, c LayoutConstraints) []LayoutResult {
	switch alg {
	case AlgorithmGrid:
		return ComputeGrid(paneIDs, totalW, totalH, c)
	case AlgorithmBinaryTree:
		return ComputeBinaryTree(paneIDs, totalW, totalH, c)
	default:
		return nil
	}
}
