package cascade

import (
	"github.com/soval/gemgrid/internal/dependencies/random"
	"github.com/soval/gemgrid/internal/model"
)

// FillUp populates every empty cell with a freshly generated value and
// returns the filled positions in reverse row-major scan order, i.e.
// bottom row first, right to left. Values come from a same-size helper
// grid built with the creation algorithm so fill values are not biased
// by existing neighbors. The reverse ordering is a contract: callers
// stack incoming pieces per column based on it.
func FillUp(grid *model.Grid, typeCount int, rnd random.Random) []model.Position {
	empty := grid.EmptyCells()
	if len(empty) == 0 {
		return nil
	}

	helper := NewFilledGrid(grid.Rows, grid.Cols, typeCount, rnd)
	for _, pos := range empty {
		value, _ := helper.Get(pos)
		grid.Set(pos, value)
	}

	filled := make([]model.Position, len(empty))
	for i, pos := range empty {
		filled[len(empty)-1-i] = pos
	}
	return filled
}
