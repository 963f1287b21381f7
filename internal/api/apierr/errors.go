package apierr

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/soval/gemgrid/internal/model"
)

// APIError represents an API error response
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse wraps an APIError
type ErrorResponse struct {
	Error APIError `json:"error"`
}

// Common error codes
const (
	CodeInvalidRequest     = "INVALID_REQUEST"
	CodeInvalidPosition    = "INVALID_POSITION"
	CodeSessionNotFound    = "SESSION_NOT_FOUND"
	CodeSummaryNotFound    = "SUMMARY_NOT_FOUND"
	CodeSessionOver        = "SESSION_OVER"
	CodeNoPieceAtOrigin    = "NO_PIECE_AT_ORIGIN"
	CodePieceLocked        = "PIECE_LOCKED"
	CodeMoveCreatesNoMatch = "MOVE_CREATES_NO_MATCH"
	CodeBoardProcessing    = "BOARD_PROCESSING"
	CodeNoMovesAvailable   = "NO_MOVES_AVAILABLE"
	CodeInternalError      = "INTERNAL_ERROR"
)

// httpError combines an HTTP status code with an APIError
type httpError struct {
	status   int
	apiError APIError
}

// Error implements error interface
func (e *httpError) Error() string {
	return e.apiError.Message
}

// WriteError writes an error response to the response writer
func WriteError(w http.ResponseWriter, err error) {
	he := toHTTPError(err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(he.status)
	_ = json.NewEncoder(w).Encode(ErrorResponse{Error: he.apiError})
}

// toHTTPError converts an error to an httpError
func toHTTPError(err error) *httpError {
	// Check for specific error types
	var he *httpError
	if errors.As(err, &he) {
		return he
	}

	// Map model errors
	switch {
	case errors.Is(err, model.ErrSessionNotFound):
		return &httpError{http.StatusNotFound, APIError{CodeSessionNotFound, "Session not found"}}
	case errors.Is(err, model.ErrSummaryNotFound):
		return &httpError{http.StatusNotFound, APIError{CodeSummaryNotFound, "Session summary not found"}}
	case errors.Is(err, model.ErrSessionOver):
		return &httpError{http.StatusConflict, APIError{CodeSessionOver, "Session is already over"}}
	case errors.Is(err, model.ErrInvalidPosition):
		return &httpError{http.StatusBadRequest, APIError{CodeInvalidPosition, "Invalid board position"}}
	case errors.Is(err, model.ErrNoPieceAtOrigin):
		return &httpError{http.StatusConflict, APIError{CodeNoPieceAtOrigin, "No piece at the move origin"}}
	case errors.Is(err, model.ErrPieceLocked):
		return &httpError{http.StatusConflict, APIError{CodePieceLocked, "Piece is locked by an animation"}}
	case errors.Is(err, model.ErrMoveCreatesNoMatch):
		return &httpError{http.StatusConflict, APIError{CodeMoveCreatesNoMatch, "Move would not create a match"}}
	case errors.Is(err, model.ErrBoardProcessing):
		return &httpError{http.StatusConflict, APIError{CodeBoardProcessing, "Board is still processing the previous move"}}
	case errors.Is(err, model.ErrNoMovesAvailable):
		return &httpError{http.StatusNotFound, APIError{CodeNoMovesAvailable, "No productive moves available"}}

	default:
		return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
	}
}

// NewInvalidRequestError creates an invalid request error
func NewInvalidRequestError(message string) error {
	return &httpError{http.StatusBadRequest, APIError{CodeInvalidRequest, message}}
}

// NewInternalError creates an internal server error
func NewInternalError() error {
	return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
}
