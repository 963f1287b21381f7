package model

import "time"

// SessionID uniquely identifies a board session
type SessionID string

// SessionState represents the lifecycle phase of a session
type SessionState string

const (
	SessionStatePlaying SessionState = "playing" // accepting moves
	SessionStateOver    SessionState = "over"    // ended, no further moves
)

// Session is the persistent record of one board's lifetime
type Session struct {
	ID     SessionID    `json:"id"`
	State  SessionState `json:"state"`
	Config BoardConfig  `json:"config"`

	// Kinds is the ordered kind-name list snapshot at creation;
	// type codes are index+1 into this slice
	Kinds []string `json:"kinds"`

	Grid  *Grid `json:"grid"`
	Score int   `json:"score"`

	// Rounds is the total number of cascade rounds processed so far
	Rounds int `json:"rounds"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// KindName returns the kind name for a type code, or "" for empty
// and unknown codes
func (s *Session) KindName(typeCode int) string {
	if typeCode < 1 || typeCode > len(s.Kinds) {
		return ""
	}
	return s.Kinds[typeCode-1]
}

// SessionSummary is a lightweight record of a finished session
type SessionSummary struct {
	ID         SessionID `json:"id"`
	FinalScore int       `json:"final_score"`
	Rounds     int       `json:"rounds"`
	EndedAt    time.Time `json:"ended_at"`
}
