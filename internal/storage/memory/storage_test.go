package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/soval/gemgrid/internal/model"
)

type StorageSuite struct {
	suite.Suite
	storage *Storage
	ctx     context.Context
}

func TestStorageSuite(t *testing.T) {
	suite.Run(t, new(StorageSuite))
}

func (s *StorageSuite) SetupTest() {
	s.storage = New()
	s.ctx = context.Background()
}

func (s *StorageSuite) sampleSession(id model.SessionID) *model.Session {
	cfg := model.DefaultBoardConfig()
	return &model.Session{
		ID:        id,
		State:     model.SessionStatePlaying,
		Config:    cfg,
		Kinds:     cfg.Kinds(),
		Grid:      model.NewEmptyGrid(cfg.Rows, cfg.Cols),
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
}

// Session tests

func (s *StorageSuite) TestSaveAndGetSession() {
	session := s.sampleSession("session-1")
	session.Score = 120
	session.Rounds = 3

	err := s.storage.SaveSession(s.ctx, session)
	s.Require().NoError(err)

	retrieved, err := s.storage.GetSession(s.ctx, "session-1")
	s.Require().NoError(err)
	s.Equal(session.ID, retrieved.ID)
	s.Equal(session.State, retrieved.State)
	s.Equal(120, retrieved.Score)
	s.Equal(3, retrieved.Rounds)
}

func (s *StorageSuite) TestGetSessionNotFound() {
	_, err := s.storage.GetSession(s.ctx, "nonexistent")
	s.ErrorIs(err, model.ErrSessionNotFound)
}

func (s *StorageSuite) TestSessionExists() {
	session := s.sampleSession("session-1")
	_ = s.storage.SaveSession(s.ctx, session)

	exists, err := s.storage.SessionExists(s.ctx, "session-1")
	s.Require().NoError(err)
	s.True(exists)

	exists, err = s.storage.SessionExists(s.ctx, "nonexistent")
	s.Require().NoError(err)
	s.False(exists)
}

func (s *StorageSuite) TestDeleteSession() {
	session := s.sampleSession("session-1")
	_ = s.storage.SaveSession(s.ctx, session)

	err := s.storage.DeleteSession(s.ctx, "session-1")
	s.Require().NoError(err)

	_, err = s.storage.GetSession(s.ctx, "session-1")
	s.ErrorIs(err, model.ErrSessionNotFound)
}

// Summary tests

func (s *StorageSuite) TestSaveAndGetSummary() {
	summary := &model.SessionSummary{
		ID:         "session-1",
		FinalScore: 450,
		Rounds:     7,
		EndedAt:    time.Now(),
	}

	err := s.storage.SaveSummary(s.ctx, summary)
	s.Require().NoError(err)

	retrieved, err := s.storage.GetSummary(s.ctx, "session-1")
	s.Require().NoError(err)
	s.Equal(summary.ID, retrieved.ID)
	s.Equal(450, retrieved.FinalScore)
	s.Equal(7, retrieved.Rounds)
}

func (s *StorageSuite) TestGetSummaryNotFound() {
	_, err := s.storage.GetSummary(s.ctx, "nonexistent")
	s.ErrorIs(err, model.ErrSummaryNotFound)
}
