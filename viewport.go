package arbor

// DefaultReservedRows is the number of terminal rows taken by the pane
// border and title.
const DefaultReservedRows = 2

// Viewport is the scroll state of the tree pane. Offset is the first
// displayed row of the display order.
type Viewport struct {
	Offset   int
	Reserved int
}

// DisplayRows returns how many tree rows fit in a pane of the given height.
func (v Viewport) DisplayRows(height int) int {
	return max(height-v.Reserved, 0)
}

// Follow scrolls the minimum amount needed to show row pos and returns the
// new offset. A pane with no room for rows leaves the offset alone.
func (v *Viewport) Follow(pos, height int) int {
	rows := v.DisplayRows(height)
	switch {
	case rows == 0:
	case pos < v.Offset:
		v.Offset = pos
	case pos >= v.Offset+rows:
		v.Offset = pos - rows + 1
	}
	return v.Offset
}

// ScrollUp moves the window up one row, stopping at the top.
func (v *Viewport) ScrollUp() {
	if v.Offset > 0 {
		v.Offset--
	}
}

// ScrollDown moves the window down one row. It is not clamped at the bottom;
// the next Follow pulls the window back to the cursor.
func (v *Viewport) ScrollDown() {
	v.Offset++
}
