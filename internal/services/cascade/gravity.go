package cascade

import (
	"github.com/soval/gemgrid/internal/model"
)

// Move records a cell that fell from one position to another
type Move struct {
	From model.Position `json:"from"`
	To   model.Position `json:"to"`
}

// ApplyGravity compacts every column's non-empty cells toward the
// bottom in a single bottom-up pass, preserving their relative order,
// and returns a move per cell whose resting position changed. Applying
// it again to the settled grid returns no moves.
func ApplyGravity(grid *model.Grid) []Move {
	var moves []Move

	for col := 0; col < grid.Cols; col++ {
		write := grid.Rows - 1
		for row := grid.Rows - 1; row >= 0; row-- {
			pos := model.Position{Row: row, Col: col}
			typeCode, _ := grid.Get(pos)
			if typeCode == 0 {
				continue
			}
			if write != row {
				to := model.Position{Row: write, Col: col}
				grid.Set(to, typeCode)
				grid.Set(pos, 0)
				moves = append(moves, Move{From: pos, To: to})
			}
			write--
		}
	}

	return moves
}
