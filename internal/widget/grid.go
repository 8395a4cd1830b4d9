package widget

// Columns computes how many cards fit in a row. The last column needs no
// trailing gap, hence the width+gap numerator. Always at least 1 so a
// too-narrow container still renders a single column.
func Columns(containerWidth, cardWidth, gap int) int {
	if cardWidth <= 0 {
		return 1
	}
	cols := (containerWidth + gap) / (cardWidth + gap)
	if cols < 1 {
		return 1
	}
	return cols
}

// Grid tracks the collapsed/expanded item window of the catalog list.
type Grid struct {
	Rows     int
	Cols     int
	Expanded bool
}

// VisibleCount returns how many items show in the collapsed window.
func (g Grid) VisibleCount() int {
	count := g.Rows * g.Cols
	if count < 0 {
		return 0
	}
	return count
}

// Visible splits item ids into the shown and hidden slices for the current
// state. Expanded shows everything.
func (g Grid) Visible(ids []int) (shown, hidden []int) {
	if g.Expanded || len(ids) <= g.VisibleCount() {
		return ids, nil
	}
	cut := g.VisibleCount()
	return ids[:cut], ids[cut:]
}

// Expand reveals the hidden items.
func (g *Grid) Expand() {
	g.Expanded = true
}

// Collapse hides the overflow again and reports whether the host page
// should scroll back to the top of the list.
func (g *Grid) Collapse() (scrollToTop bool) {
	if !g.Expanded {
		return false
	}
	g.Expanded = false
	return true
}
