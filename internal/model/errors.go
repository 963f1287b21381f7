package model

import "errors"

// Common errors used across the application
var (
	// Session errors
	ErrSessionNotFound = errors.New("session not found")
	ErrSessionOver     = errors.New("session is over")

	// Move errors
	ErrInvalidPosition    = errors.New("invalid board position")
	ErrNoPieceAtOrigin    = errors.New("no piece at origin position")
	ErrPieceLocked        = errors.New("piece is locked")
	ErrMoveCreatesNoMatch = errors.New("move creates no match")
	ErrBoardProcessing    = errors.New("board is still processing")

	// Hint errors
	ErrNoMovesAvailable = errors.New("no productive moves available")

	// Summary errors
	ErrSummaryNotFound = errors.New("summary not found")
)
