package game

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/soval/gemgrid/internal/dependencies/mocks"
	"github.com/soval/gemgrid/internal/model"
	"github.com/soval/gemgrid/internal/services/match"
	"github.com/soval/gemgrid/internal/services/scoring"
	"github.com/soval/gemgrid/internal/services/solver"
	"github.com/soval/gemgrid/internal/storage/memory"
	"github.com/soval/gemgrid/internal/testutil"
)

// stripeRandom plays scripted values first, then diagonal stripes.
// Stripes never place two equal types next to each other, so refills
// built from them cannot form new matches and every cascade settles.
type stripeRandom struct {
	initial []int
	cols    int
	ids     []string

	mu     sync.Mutex
	calls  int
	idCall int
}

func (r *stripeRandom) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	i := r.calls
	r.calls++
	if i < len(r.initial) {
		return r.initial[i]
	}
	j := i - len(r.initial)
	return (j/r.cols + j%r.cols) % n
}

func (r *stripeRandom) String(length int, alphabet string) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.idCall < len(r.ids) {
		r.idCall++
		return r.ids[r.idCall-1]
	}
	return "FALLBACKSESS"
}

// recorder captures notified events in order
type recorder struct {
	mu     sync.Mutex
	events []model.Event
}

func (r *recorder) Notify(event model.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
}

func (r *recorder) types() []model.EventType {
	r.mu.Lock()
	defer r.mu.Unlock()
	var types []model.EventType
	for _, e := range r.events {
		types = append(types, e.Type)
	}
	return types
}

type ControllerSuite struct {
	suite.Suite
	storage    *memory.Storage
	random     *stripeRandom
	clock      *mocks.MockClock
	notifier   *recorder
	controller *Controller
	cfg        model.BoardConfig
	ctx        context.Context
}

func TestControllerSuite(t *testing.T) {
	suite.Run(t, new(ControllerSuite))
}

func (s *ControllerSuite) SetupTest() {
	s.storage = memory.New()
	s.clock = mocks.NewMockClock(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	s.notifier = &recorder{}

	// Initial 3x3 board with no matches; swapping (0,1) and (1,1)
	// lines up three of type 1 along the top row
	s.random = &stripeRandom{
		initial: []int{0, 1, 0, 1, 0, 2, 0, 2, 1},
		cols:    3,
		ids:     []string{"SESSION00001", "SESSION00002"},
	}

	s.cfg = model.DefaultBoardConfig()
	s.cfg.Rows = 3
	s.cfg.Cols = 3

	logger := testutil.NopLogger()
	s.controller = NewController(
		s.storage,
		match.New(s.cfg.MatchSize),
		scoring.New(logger),
		solver.NewRandomStrategy(solver.New(), s.random),
		s.notifier,
		s.clock,
		s.random,
		logger,
	)
	s.ctx = context.Background()
}

func (s *ControllerSuite) TearDownTest() {
	s.controller.mu.Lock()
	for id, rt := range s.controller.sessions {
		rt.proc.Close()
		rt.cancel()
		delete(s.controller.sessions, id)
	}
	s.controller.mu.Unlock()
}

func (s *ControllerSuite) settle(sessionID model.SessionID) {
	ctx, cancel := context.WithTimeout(s.ctx, 5*time.Second)
	defer cancel()
	s.Require().NoError(s.controller.WaitSettled(ctx, sessionID))
}

func (s *ControllerSuite) TestCreateSessionPersistsAndNotifies() {
	session, err := s.controller.CreateSession(s.ctx, s.cfg)
	s.Require().NoError(err)

	s.Equal(model.SessionID("SESSION00001"), session.ID)
	s.Equal(model.SessionStatePlaying, session.State)
	s.Zero(session.Grid.EmptyCount())
	s.Equal("01|02|01\n02|01|03\n01|03|02", session.Grid.DisplayString())

	stored, err := s.storage.GetSession(s.ctx, session.ID)
	s.Require().NoError(err)
	s.Equal(session.ID, stored.ID)

	s.Equal([]model.EventType{model.EventSessionCreated}, s.notifier.types())
}

func (s *ControllerSuite) TestGetSessionNotFound() {
	_, err := s.controller.GetSession(s.ctx, "nonexistent")
	s.ErrorIs(err, model.ErrSessionNotFound)
}

func (s *ControllerSuite) TestRequestMoveClearsAndScores() {
	session, err := s.controller.CreateSession(s.ctx, s.cfg)
	s.Require().NoError(err)

	err = s.controller.RequestMove(s.ctx, session.ID,
		model.Position{Row: 0, Col: 1}, model.Position{Row: 1, Col: 1})
	s.Require().NoError(err)
	s.settle(session.ID)

	got, err := s.controller.GetSession(s.ctx, session.ID)
	s.Require().NoError(err)
	s.Equal(30, got.Score)
	s.Equal(1, got.Rounds)
	s.Equal("01|02|03\n02|02|03\n01|03|02", got.Grid.DisplayString())

	s.Equal([]model.EventType{
		model.EventSessionCreated,
		model.EventProcessStarted,
		model.EventMatchesFound,
		model.EventProcessCompleted,
	}, s.notifier.types())
}

func (s *ControllerSuite) TestRequestMoveRejectsInvalidPositions() {
	session, err := s.controller.CreateSession(s.ctx, s.cfg)
	s.Require().NoError(err)

	err = s.controller.RequestMove(s.ctx, session.ID,
		model.Position{Row: -1, Col: 0}, model.Position{Row: 0, Col: 0})
	s.ErrorIs(err, model.ErrInvalidPosition)

	err = s.controller.RequestMove(s.ctx, session.ID,
		model.Position{Row: 0, Col: 0}, model.Position{Row: 0, Col: 3})
	s.ErrorIs(err, model.ErrInvalidPosition)
}

func (s *ControllerSuite) TestRequestMoveWhileProcessingIsRejected() {
	session, err := s.controller.CreateSession(s.ctx, s.cfg)
	s.Require().NoError(err)

	rt := s.controller.runtime(session.ID)
	s.Require().NotNil(rt)

	// Hold the queue so the cascade stays active across both moves
	rt.proc.Pause()
	err = s.controller.RequestMove(s.ctx, session.ID,
		model.Position{Row: 0, Col: 1}, model.Position{Row: 1, Col: 1})
	s.Require().NoError(err)

	err = s.controller.RequestMove(s.ctx, session.ID,
		model.Position{Row: 1, Col: 0}, model.Position{Row: 1, Col: 1})
	s.ErrorIs(err, model.ErrBoardProcessing)

	rt.proc.Resume()
	s.settle(session.ID)

	// Only the first move reached the board
	got, err := s.controller.GetSession(s.ctx, session.ID)
	s.Require().NoError(err)
	s.Equal(30, got.Score)
	s.Equal("01|02|03\n02|02|03\n01|03|02", got.Grid.DisplayString())
}

func (s *ControllerSuite) TestConcurrentReadsDuringCascade() {
	session, err := s.controller.CreateSession(s.ctx, s.cfg)
	s.Require().NoError(err)

	// Hammer the live-state overlay while the cascade mutates the grid
	done := make(chan struct{})
	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-done:
					return
				default:
				}
				got, err := s.controller.GetSession(s.ctx, session.ID)
				if err == nil {
					_ = got.Grid.DisplayString()
				}
			}
		}()
	}

	err = s.controller.RequestMove(s.ctx, session.ID,
		model.Position{Row: 0, Col: 1}, model.Position{Row: 1, Col: 1})
	s.Require().NoError(err)
	s.settle(session.ID)

	close(done)
	wg.Wait()

	got, err := s.controller.GetSession(s.ctx, session.ID)
	s.Require().NoError(err)
	s.Equal(30, got.Score)
	s.Equal("01|02|03\n02|02|03\n01|03|02", got.Grid.DisplayString())
}

func (s *ControllerSuite) TestRequestMoveCanSpinDisabled() {
	s.cfg.CanSpin = false
	session, err := s.controller.CreateSession(s.ctx, s.cfg)
	s.Require().NoError(err)

	// Swapping (0,0) and (0,1) lines up nothing
	err = s.controller.RequestMove(s.ctx, session.ID,
		model.Position{Row: 0, Col: 0}, model.Position{Row: 0, Col: 1})
	s.ErrorIs(err, model.ErrMoveCreatesNoMatch)

	got, err := s.controller.GetSession(s.ctx, session.ID)
	s.Require().NoError(err)
	s.Equal("01|02|01\n02|01|03\n01|03|02", got.Grid.DisplayString())

	// A productive swap still goes through
	err = s.controller.RequestMove(s.ctx, session.ID,
		model.Position{Row: 0, Col: 1}, model.Position{Row: 1, Col: 1})
	s.Require().NoError(err)
	s.settle(session.ID)

	got, err = s.controller.GetSession(s.ctx, session.ID)
	s.Require().NoError(err)
	s.Equal(30, got.Score)
}

func (s *ControllerSuite) TestRequestMoveUnknownSession() {
	err := s.controller.RequestMove(s.ctx, "nonexistent",
		model.Position{Row: 0, Col: 0}, model.Position{Row: 0, Col: 1})
	s.ErrorIs(err, model.ErrSessionNotFound)
}

func (s *ControllerSuite) TestRequestMoveRejectsLockedPiece() {
	session, err := s.controller.CreateSession(s.ctx, s.cfg)
	s.Require().NoError(err)

	from := model.Position{Row: 0, Col: 0}
	rt := s.controller.runtime(session.ID)
	s.Require().NotNil(rt)
	rt.board.PieceAt(from).View().Lock()

	err = s.controller.RequestMove(s.ctx, session.ID, from, model.Position{Row: 0, Col: 1})
	s.ErrorIs(err, model.ErrPieceLocked)
}

func (s *ControllerSuite) TestHintSuggestsProductiveSwap() {
	session, err := s.controller.CreateSession(s.ctx, s.cfg)
	s.Require().NoError(err)

	swap, err := s.controller.Hint(s.ctx, session.ID)
	s.Require().NoError(err)

	// The initial board has exactly two swaps that line up a run
	s.Contains([]solver.Swap{
		{From: model.Position{Row: 0, Col: 1}, To: model.Position{Row: 1, Col: 1}},
		{From: model.Position{Row: 1, Col: 0}, To: model.Position{Row: 1, Col: 1}},
	}, swap)
}

func (s *ControllerSuite) TestHintUnknownSession() {
	_, err := s.controller.Hint(s.ctx, "nonexistent")
	s.ErrorIs(err, model.ErrSessionNotFound)
}

func (s *ControllerSuite) TestHintAfterEndIsRejected() {
	session, err := s.controller.CreateSession(s.ctx, s.cfg)
	s.Require().NoError(err)

	_, err = s.controller.EndSession(s.ctx, session.ID)
	s.Require().NoError(err)

	_, err = s.controller.Hint(s.ctx, session.ID)
	s.ErrorIs(err, model.ErrSessionOver)
}

func (s *ControllerSuite) TestEndSessionCreatesSummary() {
	session, err := s.controller.CreateSession(s.ctx, s.cfg)
	s.Require().NoError(err)

	err = s.controller.RequestMove(s.ctx, session.ID,
		model.Position{Row: 0, Col: 1}, model.Position{Row: 1, Col: 1})
	s.Require().NoError(err)
	s.settle(session.ID)

	summary, err := s.controller.EndSession(s.ctx, session.ID)
	s.Require().NoError(err)
	s.Equal(30, summary.FinalScore)
	s.Equal(1, summary.Rounds)

	stored, err := s.controller.GetSession(s.ctx, session.ID)
	s.Require().NoError(err)
	s.Equal(model.SessionStateOver, stored.State)

	got, err := s.controller.GetSummary(s.ctx, session.ID)
	s.Require().NoError(err)
	s.Equal(summary.FinalScore, got.FinalScore)

	types := s.notifier.types()
	s.Equal(model.EventSessionEnded, types[len(types)-1])
}

func (s *ControllerSuite) TestRequestMoveAfterEndIsRejected() {
	session, err := s.controller.CreateSession(s.ctx, s.cfg)
	s.Require().NoError(err)

	_, err = s.controller.EndSession(s.ctx, session.ID)
	s.Require().NoError(err)

	err = s.controller.RequestMove(s.ctx, session.ID,
		model.Position{Row: 0, Col: 0}, model.Position{Row: 0, Col: 1})
	s.ErrorIs(err, model.ErrSessionOver)
}

func (s *ControllerSuite) TestEndSessionUnknown() {
	_, err := s.controller.EndSession(s.ctx, "nonexistent")
	s.ErrorIs(err, model.ErrSessionNotFound)
}
