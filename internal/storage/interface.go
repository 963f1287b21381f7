package storage

import (
	"context"

	"github.com/soval/gemgrid/internal/model"
)

// Storage defines the interface for data persistence
type Storage interface {
	// Session operations
	SaveSession(ctx context.Context, session *model.Session) error
	GetSession(ctx context.Context, id model.SessionID) (*model.Session, error)
	DeleteSession(ctx context.Context, id model.SessionID) error
	SessionExists(ctx context.Context, id model.SessionID) (bool, error)

	// Summary operations for finished sessions
	SaveSummary(ctx context.Context, summary *model.SessionSummary) error
	GetSummary(ctx context.Context, id model.SessionID) (*model.SessionSummary, error)
}
