package request

import "github.com/soval/gemgrid/internal/model"

// CreateSessionRequest is the request body for creating a session.
// Omitted fields fall back to the default board configuration.
type CreateSessionRequest struct {
	Rows      int    `json:"rows,omitempty"`
	Cols      int    `json:"cols,omitempty"`
	MatchSize int    `json:"match_size,omitempty"`
	CanSpin   *bool  `json:"can_spin,omitempty"`
	Mode      string `json:"mode,omitempty"`
}

// MoveRequest is the request body for submitting a move
type MoveRequest struct {
	From model.Position `json:"from"`
	To   model.Position `json:"to"`
}
