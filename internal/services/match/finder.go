package match

import (
	"github.com/soval/gemgrid/internal/model"
)

// DefaultMatchSize is the minimum run length that counts as a match
const DefaultMatchSize = 3

// Finder scans grids for contiguous runs of equal non-empty type codes
type Finder struct {
	matchSize int
}

// New creates a Finder. A matchSize below 2 falls back to the default.
func New(matchSize int) *Finder {
	if matchSize < 2 {
		matchSize = DefaultMatchSize
	}
	return &Finder{matchSize: matchSize}
}

// MatchSize returns the configured minimum run length
func (f *Finder) MatchSize() int {
	return f.matchSize
}

// Find returns all matches on the grid in scan order: every row
// left-to-right, then every column top-to-bottom. A cell may appear in
// matches of both orientations; no de-duplication happens here. The
// grid is never mutated, so repeated calls return identical results.
func (f *Finder) Find(grid *model.Grid) []model.Match {
	var matches []model.Match

	for row := 0; row < grid.Rows; row++ {
		matches = f.scanLine(grid, matches, model.Horizontal, row, grid.Cols)
	}
	for col := 0; col < grid.Cols; col++ {
		matches = f.scanLine(grid, matches, model.Vertical, col, grid.Rows)
	}

	return matches
}

// FindTouching restricts Find's result to matches containing at least
// one of the filter positions. Filtering is a secondary pass; the
// unfiltered scan is unaffected.
func (f *Finder) FindTouching(grid *model.Grid, filter []model.Position) []model.Match {
	all := f.Find(grid)
	if filter == nil {
		return all
	}

	var filtered []model.Match
	for _, m := range all {
		for _, pos := range filter {
			if m.Contains(pos) {
				filtered = append(filtered, m)
				break
			}
		}
	}
	return filtered
}

// scanLine walks one row or column tracking the current run. A run
// closes when the type changes, the cell is empty, or the line ends;
// closed runs of at least matchSize become matches.
func (f *Finder) scanLine(grid *model.Grid, matches []model.Match, orientation model.Orientation, index, length int) []model.Match {
	runType := 0
	var run []model.Position

	flush := func() {
		if runType != 0 && len(run) >= f.matchSize {
			positions := make([]model.Position, len(run))
			copy(positions, run)
			matches = append(matches, model.Match{
				Type:        runType,
				Orientation: orientation,
				Positions:   positions,
			})
		}
		runType = 0
		run = run[:0]
	}

	for i := 0; i < length; i++ {
		var pos model.Position
		if orientation == model.Horizontal {
			pos = model.Position{Row: index, Col: i}
		} else {
			pos = model.Position{Row: i, Col: index}
		}

		typeCode, _ := grid.Get(pos)
		if typeCode != runType {
			flush()
			runType = typeCode
		}
		if typeCode != 0 {
			run = append(run, pos)
		}
	}
	flush()

	return matches
}

// Interface for dependency injection
type FinderInterface interface {
	MatchSize() int
	Find(grid *model.Grid) []model.Match
	FindTouching(grid *model.Grid, filter []model.Position) []model.Match
}

var _ FinderInterface = (*Finder)(nil)
