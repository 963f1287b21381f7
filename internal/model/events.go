package model

import "time"

// EventType identifies the type of event
type EventType string

const (
	// Session events
	EventSessionCreated EventType = "session_created"
	EventSessionEnded   EventType = "session_ended"

	// Processing events
	EventProcessStarted   EventType = "process_started"
	EventMatchesFound     EventType = "matches_found"
	EventProcessCompleted EventType = "process_completed"
)

// Event is the base structure for all engine events
type Event struct {
	Type      EventType `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	SessionID SessionID `json:"session_id"`
	Payload   any       `json:"payload,omitempty"` // Type-specific data
}

// SessionCreatedPayload contains data for session created events
type SessionCreatedPayload struct {
	Rows int      `json:"rows"`
	Cols int      `json:"cols"`
	Mode GameMode `json:"mode"`
}

// MatchesFoundPayload contains data for matches found events.
// Combo is the 1-based round index within the processing session.
type MatchesFoundPayload struct {
	Matches []Match `json:"matches"`
	Combo   int     `json:"combo"`
}

// ProcessCompletedPayload contains data for process completed events
type ProcessCompletedPayload struct {
	Rounds int `json:"rounds"`
	Score  int `json:"score"`
}

// SessionEndedPayload contains data for session ended events
type SessionEndedPayload struct {
	FinalScore int `json:"final_score"`
}
