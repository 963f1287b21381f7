package cascade

import (
	"github.com/soval/gemgrid/internal/dependencies/random"
	"github.com/soval/gemgrid/internal/model"
)

// NewFilledGrid creates a grid where every cell is independently
// assigned a uniform random type code in 1..typeCount. The result is
// not guaranteed match-free; the first processing checkpoint clears
// any matches the generator happens to produce.
func NewFilledGrid(rows, cols, typeCount int, rnd random.Random) *model.Grid {
	grid := model.NewEmptyGrid(rows, cols)
	grid.ForEach(func(pos model.Position, _ int) {
		grid.Set(pos, rnd.Intn(typeCount)+1)
	})
	return grid
}
