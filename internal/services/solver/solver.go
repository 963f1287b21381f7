package solver

import (
	"github.com/soval/gemgrid/internal/model"
	"github.com/soval/gemgrid/internal/services/match"
)

// Swap pairs two adjacent cells whose exchange produces at least one match
type Swap struct {
	From model.Position `json:"from"`
	To   model.Position `json:"to"`
}

// Solver enumerates productive swaps on a grid. It never mutates the
// grid it is given; all trial swaps happen on a clone.
type Solver struct{}

// New creates a new Solver
func New() *Solver {
	return &Solver{}
}

// FindSwaps returns every adjacent swap that would create a match of at
// least matchSize. Cells are scanned row-major and each pair is tested
// once, against its right and down neighbor.
func (s *Solver) FindSwaps(grid *model.Grid, matchSize int) []Swap {
	finder := match.New(matchSize)
	trial := grid.Clone()

	var swaps []Swap
	for row := 0; row < trial.Rows; row++ {
		for col := 0; col < trial.Cols; col++ {
			from := model.Position{Row: row, Col: col}
			for _, to := range []model.Position{
				{Row: row, Col: col + 1},
				{Row: row + 1, Col: col},
			} {
				if s.productive(trial, finder, from, to) {
					swaps = append(swaps, Swap{From: from, To: to})
				}
			}
		}
	}

	return swaps
}

// HasSwaps reports whether any productive swap exists, stopping at the
// first one found.
func (s *Solver) HasSwaps(grid *model.Grid, matchSize int) bool {
	finder := match.New(matchSize)
	trial := grid.Clone()

	for row := 0; row < trial.Rows; row++ {
		for col := 0; col < trial.Cols; col++ {
			from := model.Position{Row: row, Col: col}
			for _, to := range []model.Position{
				{Row: row, Col: col + 1},
				{Row: row + 1, Col: col},
			} {
				if s.productive(trial, finder, from, to) {
					return true
				}
			}
		}
	}

	return false
}

// productive tests a single swap and restores the grid before returning
func (s *Solver) productive(grid *model.Grid, finder *match.Finder, from, to model.Position) bool {
	fromType, _ := grid.Get(from)
	toType, ok := grid.Get(to)
	if !ok || fromType == toType {
		return false
	}

	if !grid.Swap(from, to) {
		return false
	}
	found := len(finder.FindTouching(grid, []model.Position{from, to})) > 0
	grid.Swap(from, to)

	return found
}

// Interface for dependency injection
type SolverInterface interface {
	FindSwaps(grid *model.Grid, matchSize int) []Swap
	HasSwaps(grid *model.Grid, matchSize int) bool
}

var _ SolverInterface = (*Solver)(nil)
