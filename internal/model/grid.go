package model

import (
	"fmt"
	"strings"
)

// Position identifies a cell on the grid
type Position struct {
	Row int `json:"row"` // 0-indexed from top
	Col int `json:"col"` // 0-indexed from left
}

// Grid is a rectangular board of piece type codes.
// 0 means empty; positive codes identify piece kinds.
// Dimensions are fixed for the grid's lifetime.
type Grid struct {
	Rows  int     `json:"rows"`
	Cols  int     `json:"cols"`
	Cells [][]int `json:"cells"` // Row-major: Cells[row][col]
}

// NewEmptyGrid creates a grid with every cell empty
func NewEmptyGrid(rows, cols int) *Grid {
	cells := make([][]int, rows)
	for i := range cells {
		cells[i] = make([]int, cols)
	}
	return &Grid{
		Rows:  rows,
		Cols:  cols,
		Cells: cells,
	}
}

// Get returns the type code at the given position.
// ok is false when the position is out of bounds, which is distinct
// from an in-bounds empty cell (0, true).
func (g *Grid) Get(pos Position) (int, bool) {
	if !g.IsValidPosition(pos) {
		return 0, false
	}
	return g.Cells[pos.Row][pos.Col], true
}

// Set writes a type code without bounds checking; the caller must
// ensure the position is valid
func (g *Grid) Set(pos Position, typeCode int) {
	g.Cells[pos.Row][pos.Col] = typeCode
}

// Swap exchanges the type codes of two cells. A swap touching an
// out-of-bounds cell is skipped silently; the return value reports
// whether the swap happened. Swapping the same pair twice restores
// the grid.
func (g *Grid) Swap(a, b Position) bool {
	av, aok := g.Get(a)
	bv, bok := g.Get(b)
	if !aok || !bok {
		return false
	}
	g.Cells[a.Row][a.Col] = bv
	g.Cells[b.Row][b.Col] = av
	return true
}

// IsValidPosition returns true if the position is within bounds
func (g *Grid) IsValidPosition(pos Position) bool {
	return pos.Row >= 0 && pos.Row < g.Rows && pos.Col >= 0 && pos.Col < g.Cols
}

// ForEach visits every cell in row-major order
func (g *Grid) ForEach(fn func(pos Position, typeCode int)) {
	for row := 0; row < g.Rows; row++ {
		for col := 0; col < g.Cols; col++ {
			fn(Position{Row: row, Col: col}, g.Cells[row][col])
		}
	}
}

// EmptyCount returns the number of empty cells
func (g *Grid) EmptyCount() int {
	count := 0
	g.ForEach(func(_ Position, typeCode int) {
		if typeCode == 0 {
			count++
		}
	})
	return count
}

// EmptyCells returns the positions of all empty cells in row-major order
func (g *Grid) EmptyCells() []Position {
	var cells []Position
	g.ForEach(func(pos Position, typeCode int) {
		if typeCode == 0 {
			cells = append(cells, pos)
		}
	})
	return cells
}

// Clone returns a deep copy of the grid
func (g *Grid) Clone() *Grid {
	clone := NewEmptyGrid(g.Rows, g.Cols)
	for row := range g.Cells {
		copy(clone.Cells[row], g.Cells[row])
	}
	return clone
}

// DisplayString renders the grid one line per row, each cell
// zero-padded to width 2 and joined with "|". The output is stable
// for a given grid state, so it doubles as a golden format in tests.
func (g *Grid) DisplayString() string {
	var sb strings.Builder
	for row := 0; row < g.Rows; row++ {
		cells := make([]string, g.Cols)
		for col := 0; col < g.Cols; col++ {
			cells[col] = fmt.Sprintf("%02d", g.Cells[row][col])
		}
		sb.WriteString(strings.Join(cells, "|"))
		if row < g.Rows-1 {
			sb.WriteString("\n")
		}
	}
	return sb.String()
}
