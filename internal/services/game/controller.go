package game

import (
	"context"
	"log/slog"
	"sync"

	"github.com/soval/gemgrid/internal/dependencies/clock"
	"github.com/soval/gemgrid/internal/dependencies/random"
	"github.com/soval/gemgrid/internal/model"
	"github.com/soval/gemgrid/internal/services/board"
	"github.com/soval/gemgrid/internal/services/match"
	"github.com/soval/gemgrid/internal/services/process"
	"github.com/soval/gemgrid/internal/services/scoring"
	"github.com/soval/gemgrid/internal/services/solver"
	"github.com/soval/gemgrid/internal/storage"
)

const sessionIDCharset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// runtime holds the live engine parts of one active session. Only
// active sessions have a runtime; ended sessions exist solely as
// storage records.
type runtime struct {
	board  *board.Controller
	proc   *process.Processor
	finder *match.Finder
	tally  *scoring.Tally
	cancel context.CancelFunc

	// moveMu serializes the gate's check-swap-start sequence so two
	// concurrent moves cannot both slip past the processing check
	moveMu sync.Mutex
}

// Controller manages session lifecycle and gates player moves into
// the processing pipeline
type Controller struct {
	storage        storage.Storage
	matchFinder    *match.Finder
	scoringService *scoring.Service
	hinter         solver.Strategy
	notifier       process.Notifier
	clock          clock.Clock
	random         random.Random
	logger         *slog.Logger

	mu       sync.RWMutex
	sessions map[model.SessionID]*runtime
}

// NewController creates a new session controller
func NewController(
	storage storage.Storage,
	matchFinder *match.Finder,
	scoringService *scoring.Service,
	hinter solver.Strategy,
	notifier process.Notifier,
	clock clock.Clock,
	random random.Random,
	logger *slog.Logger,
) *Controller {
	return &Controller{
		storage:        storage,
		matchFinder:    matchFinder,
		scoringService: scoringService,
		hinter:         hinter,
		notifier:       notifier,
		clock:          clock,
		random:         random,
		logger:         logger,
		sessions:       make(map[model.SessionID]*runtime),
	}
}

// CreateSession builds a new board, starts its processor loop, and
// persists the initial session record
func (c *Controller) CreateSession(ctx context.Context, cfg model.BoardConfig) (*model.Session, error) {
	now := c.clock.Now()
	sessionID := model.SessionID(c.random.String(12, sessionIDCharset))

	boardController := board.NewController(cfg, nil, c.random, c.logger)
	boardController.Setup()

	// Sessions may override the default match size
	finder := c.matchFinder
	if finder == nil || finder.MatchSize() != cfg.MatchSize {
		finder = match.New(cfg.MatchSize)
	}

	tally := c.scoringService.NewTally(sessionID)
	proc := process.NewProcessor(
		sessionID,
		boardController,
		finder,
		tally,
		c.notifier,
		c.clock,
		c.logger,
		len(cfg.Kinds()),
	)

	runCtx, cancel := context.WithCancel(context.Background())
	go proc.Run(runCtx)

	session := &model.Session{
		ID:        sessionID,
		State:     model.SessionStatePlaying,
		Config:    cfg,
		Kinds:     cfg.Kinds(),
		Grid:      boardController.Grid().Clone(),
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := c.storage.SaveSession(ctx, session); err != nil {
		cancel()
		proc.Close()
		c.logger.Error("failed to save session",
			slog.String("session_id", string(sessionID)),
			slog.String("error", err.Error()),
		)
		return nil, err
	}

	c.mu.Lock()
	c.sessions[sessionID] = &runtime{
		board:  boardController,
		proc:   proc,
		finder: finder,
		tally:  tally,
		cancel: cancel,
	}
	c.mu.Unlock()

	c.logger.Info("session created",
		slog.String("session_id", string(sessionID)),
		slog.Int("rows", cfg.Rows),
		slog.Int("cols", cfg.Cols),
		slog.String("mode", string(cfg.Mode)),
	)
	c.notify(sessionID, model.EventSessionCreated, model.SessionCreatedPayload{
		Rows: cfg.Rows,
		Cols: cfg.Cols,
		Mode: cfg.Mode,
	})

	return session, nil
}

// GetSession retrieves a session by ID. For active sessions the grid,
// score, and round counter reflect the live engine state rather than
// the last persisted snapshot.
func (c *Controller) GetSession(ctx context.Context, sessionID model.SessionID) (*model.Session, error) {
	session, err := c.storage.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if rt := c.runtime(sessionID); rt != nil {
		session.Grid = rt.board.Snapshot()
		session.Score = rt.tally.Total()
		session.Rounds = rt.proc.Rounds()
	}
	return session, nil
}

// RequestMove gates a player's swap of two cells. Once accepted the
// swap is applied and the processor started; there is no revert path,
// a matchless swap simply settles in one round. With CanSpin disabled
// a swap that creates no match is rejected up front instead. Moves
// arriving while a cascade is still settling are rejected, never
// folded into the running session.
func (c *Controller) RequestMove(ctx context.Context, sessionID model.SessionID, from, to model.Position) error {
	session, err := c.storage.GetSession(ctx, sessionID)
	if err != nil {
		return err
	}
	if session.State == model.SessionStateOver {
		return model.ErrSessionOver
	}

	rt := c.runtime(sessionID)
	if rt == nil {
		return model.ErrSessionNotFound
	}

	rt.moveMu.Lock()
	defer rt.moveMu.Unlock()

	if rt.proc.Processing() {
		return model.ErrBoardProcessing
	}

	grid := rt.board.Grid()
	if !grid.IsValidPosition(from) || !grid.IsValidPosition(to) {
		return model.ErrInvalidPosition
	}

	piece := rt.board.PieceAt(from)
	if piece == nil {
		return model.ErrNoPieceAtOrigin
	}
	if piece.IsLocked() {
		return model.ErrPieceLocked
	}
	if target := rt.board.PieceAt(to); target != nil && target.IsLocked() {
		return model.ErrPieceLocked
	}

	if !session.Config.CanSpin {
		trial := grid.Clone()
		trial.Swap(from, to)
		if len(rt.finder.FindTouching(trial, []model.Position{from, to})) == 0 {
			return model.ErrMoveCreatesNoMatch
		}
	}

	rt.board.SwapPieces(from, to)
	rt.proc.Start()

	// The processor may already be mutating the live grid
	session.Grid = rt.board.Snapshot()
	session.UpdatedAt = c.clock.Now()
	if err := c.storage.SaveSession(ctx, session); err != nil {
		return err
	}

	c.logger.Info("move accepted",
		slog.String("session_id", string(sessionID)),
		slog.Int("from_row", from.Row),
		slog.Int("from_col", from.Col),
		slog.Int("to_row", to.Row),
		slog.Int("to_col", to.Col),
	)
	return nil
}

// WaitSettled blocks until the session's current cascade settles or
// ctx is done. Returns immediately when no processing is active.
func (c *Controller) WaitSettled(ctx context.Context, sessionID model.SessionID) error {
	rt := c.runtime(sessionID)
	if rt == nil {
		return model.ErrSessionNotFound
	}
	return rt.proc.Wait(ctx)
}

// EndSession tears down a session's runtime, persists the final state,
// and records a summary
func (c *Controller) EndSession(ctx context.Context, sessionID model.SessionID) (*model.SessionSummary, error) {
	session, err := c.storage.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	rt := c.sessions[sessionID]
	delete(c.sessions, sessionID)
	c.mu.Unlock()

	now := c.clock.Now()
	if rt != nil {
		rt.proc.Reset()
		rt.proc.Close()
		rt.cancel()

		// An in-flight step may finish after the reset
		session.Grid = rt.board.Snapshot()
		session.Score = rt.tally.Total()
		session.Rounds = rt.proc.Rounds()
	}
	session.State = model.SessionStateOver
	session.UpdatedAt = now

	if err := c.storage.SaveSession(ctx, session); err != nil {
		return nil, err
	}

	summary := &model.SessionSummary{
		ID:         sessionID,
		FinalScore: session.Score,
		Rounds:     session.Rounds,
		EndedAt:    now,
	}
	if err := c.storage.SaveSummary(ctx, summary); err != nil {
		return nil, err
	}

	c.logger.Info("session ended",
		slog.String("session_id", string(sessionID)),
		slog.Int("final_score", summary.FinalScore),
		slog.Int("rounds", summary.Rounds),
	)
	c.notify(sessionID, model.EventSessionEnded, model.SessionEndedPayload{
		FinalScore: summary.FinalScore,
	})

	return summary, nil
}

// Hint suggests a swap that would produce a match on the session's
// current grid
func (c *Controller) Hint(ctx context.Context, sessionID model.SessionID) (solver.Swap, error) {
	session, err := c.storage.GetSession(ctx, sessionID)
	if err != nil {
		return solver.Swap{}, err
	}
	if session.State == model.SessionStateOver {
		return solver.Swap{}, model.ErrSessionOver
	}

	rt := c.runtime(sessionID)
	if rt == nil {
		return solver.Swap{}, model.ErrSessionNotFound
	}

	swap, ok := c.hinter.Choose(rt.board.Snapshot(), session.Config.MatchSize)
	if !ok {
		return solver.Swap{}, model.ErrNoMovesAvailable
	}
	return swap, nil
}

// GetSummary retrieves the summary of an ended session
func (c *Controller) GetSummary(ctx context.Context, sessionID model.SessionID) (*model.SessionSummary, error) {
	return c.storage.GetSummary(ctx, sessionID)
}

// Close shuts down every live session runtime without persisting state
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for id, rt := range c.sessions {
		rt.proc.Reset()
		rt.proc.Close()
		rt.cancel()
		delete(c.sessions, id)
	}
}

func (c *Controller) runtime(sessionID model.SessionID) *runtime {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.sessions[sessionID]
}

func (c *Controller) notify(sessionID model.SessionID, eventType model.EventType, payload any) {
	if c.notifier == nil {
		return
	}
	c.notifier.Notify(model.Event{
		Type:      eventType,
		Timestamp: c.clock.Now(),
		SessionID: sessionID,
		Payload:   payload,
	})
}

// Interface for dependency injection
type ControllerInterface interface {
	CreateSession(ctx context.Context, cfg model.BoardConfig) (*model.Session, error)
	GetSession(ctx context.Context, sessionID model.SessionID) (*model.Session, error)
	RequestMove(ctx context.Context, sessionID model.SessionID, from, to model.Position) error
	WaitSettled(ctx context.Context, sessionID model.SessionID) error
	Hint(ctx context.Context, sessionID model.SessionID) (solver.Swap, error)
	EndSession(ctx context.Context, sessionID model.SessionID) (*model.SessionSummary, error)
	GetSummary(ctx context.Context, sessionID model.SessionID) (*model.SessionSummary, error)
}

var _ ControllerInterface = (*Controller)(nil)
