package scoring

import (
	"context"
	"log/slog"
	"sync"

	"github.com/soval/gemgrid/internal/model"
	"github.com/soval/gemgrid/internal/services/process"
)

// basePoints is awarded per cleared piece before bonuses
const basePoints = 10

// longRunLength is the run length from which the long-run bonus kicks in
const longRunLength = 5

// Service computes points for cleared matches
type Service struct {
	logger *slog.Logger
}

// New creates a new scoring service
func New(logger *slog.Logger) *Service {
	return &Service{
		logger: logger.With(slog.String("component", "scoring")),
	}
}

// Score returns the points for one batch of matches cleared in the
// given combo round. Every piece in a match is worth basePoints; runs
// of longRunLength or more are worth double; the whole batch scales
// with the combo counter so later cascade rounds pay more.
func (s *Service) Score(matches []model.Match, combo int) int {
	if combo < 1 {
		combo = 1
	}

	points := 0
	for _, m := range matches {
		matchPoints := m.Length() * basePoints
		if m.Length() >= longRunLength {
			matchPoints *= 2
		}
		points += matchPoints
	}
	return points * combo
}

// Tally accumulates one session's score across processing rounds
type Tally struct {
	service   *Service
	sessionID model.SessionID

	mu    sync.Mutex
	total int
}

// NewTally creates a fresh score tally for a session
func (s *Service) NewTally(sessionID model.SessionID) *Tally {
	return &Tally{
		service:   s,
		sessionID: sessionID,
	}
}

// RegisterMatches scores a batch of cleared matches and adds it to
// the running total
func (t *Tally) RegisterMatches(_ context.Context, matches []model.Match, combo int) {
	points := t.service.Score(matches, combo)

	t.mu.Lock()
	t.total += points
	total := t.total
	t.mu.Unlock()

	t.service.logger.Info("matches scored",
		slog.String("session_id", string(t.sessionID)),
		slog.Int("matches", len(matches)),
		slog.Int("combo", combo),
		slog.Int("points", points),
		slog.Int("total", total),
	)
}

// Total returns the accumulated score
func (t *Tally) Total() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.total
}

// Tallies satisfy the processor's scoring hook
var _ process.ScoreSink = (*Tally)(nil)
