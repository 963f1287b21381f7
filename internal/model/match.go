package model

// Orientation is the axis a match runs along
type Orientation string

const (
	Horizontal Orientation = "horizontal" // left-to-right within a row
	Vertical   Orientation = "vertical"   // top-to-bottom within a column
)

// Match is a contiguous run of equal non-empty type codes along one axis.
// Positions are ordered in scan order along the axis.
type Match struct {
	Type        int         `json:"type"`
	Orientation Orientation `json:"orientation"`
	Positions   []Position  `json:"positions"`
}

// Contains returns true if the match covers the given position
func (m Match) Contains(pos Position) bool {
	for _, p := range m.Positions {
		if p == pos {
			return true
		}
	}
	return false
}

// Length returns the number of cells in the match
func (m Match) Length() int {
	return len(m.Positions)
}

// MatchPositions returns the union of positions across matches,
// de-duplicated, in first-seen order. A cell can belong to matches in
// both orientations but should only be cleared once.
func MatchPositions(matches []Match) []Position {
	seen := make(map[Position]bool)
	var positions []Position
	for _, m := range matches {
		for _, p := range m.Positions {
			if !seen[p] {
				seen[p] = true
				positions = append(positions, p)
			}
		}
	}
	return positions
}
