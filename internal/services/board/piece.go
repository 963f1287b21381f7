package board

import "github.com/soval/gemgrid/internal/model"

// Piece is a presentation proxy bound 1:1 to a live grid cell. It
// mirrors the cell's position and type and carries the view
// coordinates computed from them. Pieces exist from fill to clear; no
// two active pieces reference the same position.
type Piece struct {
	Position model.Position
	Type     int
	X, Y     float64

	view PieceView
}

// View returns the presentation capability backing this piece
func (p *Piece) View() PieceView {
	return p.view
}

// IsLocked reports whether the piece is mid-animation or otherwise
// reserved
func (p *Piece) IsLocked() bool {
	return p.view.IsLocked()
}
