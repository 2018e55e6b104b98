// Package sheet assembles captured frames into sprite-sheet grids.
package sheet

import gomath "math"

// Layout computes the grid for n frames: a near-square arrangement
// with columns = ceil(sqrt(n)) and rows = ceil(n/columns).
func Layout(n int) (columns, rows int) {
	if n <= 0 {
		return 0, 0
	}
	columns = int(gomath.Ceil(gomath.Sqrt(float64(n))))
	rows = (n + columns - 1) / columns
	return columns, rows
}

// CellPosition returns the grid cell of frame i.
func CellPosition(i, columns int) (col, row int) {
	return i % columns, i / columns
}
