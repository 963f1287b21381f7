package response

import (
	"time"

	"github.com/soval/gemgrid/internal/model"
)

// Session represents a session in API responses
type Session struct {
	ID        string    `json:"id"`
	State     string    `json:"state"`
	Mode      string    `json:"mode"`
	Rows      int       `json:"rows"`
	Cols      int       `json:"cols"`
	MatchSize int       `json:"match_size"`
	Kinds     []string  `json:"kinds"`
	Grid      [][]int   `json:"grid"`
	Score     int       `json:"score"`
	Rounds    int       `json:"rounds"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// SessionFromModel converts a model.Session to a response Session
func SessionFromModel(s *model.Session) Session {
	var cells [][]int
	if s.Grid != nil {
		cells = s.Grid.Clone().Cells
	}
	return Session{
		ID:        string(s.ID),
		State:     string(s.State),
		Mode:      string(s.Config.Mode),
		Rows:      s.Config.Rows,
		Cols:      s.Config.Cols,
		MatchSize: s.Config.MatchSize,
		Kinds:     s.Kinds,
		Grid:      cells,
		Score:     s.Score,
		Rounds:    s.Rounds,
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	}
}

// SessionSummary represents an ended session's summary
type SessionSummary struct {
	ID         string    `json:"id"`
	FinalScore int       `json:"final_score"`
	Rounds     int       `json:"rounds"`
	EndedAt    time.Time `json:"ended_at"`
}

// SummaryFromModel converts model.SessionSummary
func SummaryFromModel(s *model.SessionSummary) SessionSummary {
	return SessionSummary{
		ID:         string(s.ID),
		FinalScore: s.FinalScore,
		Rounds:     s.Rounds,
		EndedAt:    s.EndedAt,
	}
}

// Move is the response after a move has been accepted
type Move struct {
	Accepted bool `json:"accepted"`
}

// Hint suggests a swap that would produce a match
type Hint struct {
	From model.Position `json:"from"`
	To   model.Position `json:"to"`
}
