package process

import (
	"context"
	"log/slog"
	"sync"

	"github.com/soval/gemgrid/internal/dependencies/clock"
	"github.com/soval/gemgrid/internal/model"
	"github.com/soval/gemgrid/internal/services/board"
	"github.com/soval/gemgrid/internal/services/match"
)

// ScoreSink receives cleared matches for score accounting
type ScoreSink interface {
	RegisterMatches(ctx context.Context, matches []model.Match, combo int)
	Total() int
}

// Notifier receives engine events. Implementations must not block;
// events are fire-and-forget and a nil notifier is a safe state.
type Notifier interface {
	Notify(event model.Event)
}

// step is one queued unit of work. Steps run one at a time on the
// processor's queue; a step may itself fan out and join piece-level
// animations.
type step func(ctx context.Context)

// Processor orchestrates the round-based cascade: per round it scores
// and clears matches, applies gravity, refills, then checkpoints,
// repeating until the grid settles with no matches and no empty
// cells. All grid mutation happens inside queue steps, so no lock
// guards the grid itself.
type Processor struct {
	sessionID model.SessionID
	board     *board.Controller
	finder    *match.Finder
	scoring   ScoreSink
	notifier  Notifier
	clock     clock.Clock
	logger    *slog.Logger
	typeCount int

	mu         sync.Mutex
	queue      []step
	processing bool
	paused     bool
	round      int
	pending    []model.Match
	settled    chan struct{}

	kick chan struct{}
	done chan struct{}

	// falls tracks detached gravity animations; they overlap the
	// refill step on purpose and are joined at the checkpoint
	falls sync.WaitGroup
}

// NewProcessor creates a processor for one session's board
func NewProcessor(
	sessionID model.SessionID,
	boardController *board.Controller,
	finder *match.Finder,
	scoring ScoreSink,
	notifier Notifier,
	clk clock.Clock,
	logger *slog.Logger,
	typeCount int,
) *Processor {
	return &Processor{
		sessionID: sessionID,
		board:     boardController,
		finder:    finder,
		scoring:   scoring,
		notifier:  notifier,
		clock:     clk,
		logger:    logger.With(slog.String("component", "process"), slog.String("session_id", string(sessionID))),
		typeCount: typeCount,
		kick:      make(chan struct{}, 1),
		done:      make(chan struct{}),
	}
}

// Run consumes the step queue until Close or ctx cancellation. It is
// the single consumer: at most one step executes at a time.
func (p *Processor) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-p.done:
			return
		case <-p.kick:
			for {
				next := p.next()
				if next == nil {
					break
				}
				next(ctx)
			}
		}
	}
}

// Close stops the run loop. Queued steps are abandoned; an in-flight
// step completes first.
func (p *Processor) Close() {
	select {
	case <-p.done:
	default:
		close(p.done)
	}
}

// Start begins a processing session: resets the round counter, emits
// the process-start event, and enqueues the first round. No-op when
// already processing.
func (p *Processor) Start() {
	p.mu.Lock()
	if p.processing {
		p.mu.Unlock()
		return
	}
	p.processing = true
	p.round = 0
	p.pending = nil
	p.queue = nil
	p.settled = make(chan struct{})
	p.mu.Unlock()

	p.logger.Info("processing started")
	p.notify(model.EventProcessStarted, nil)
	p.enqueueRound()
}

// Stop ends the processing session: clears the pending queue and
// emits the process-complete event. No-op when not processing.
func (p *Processor) Stop() {
	p.mu.Lock()
	if !p.processing {
		p.mu.Unlock()
		return
	}
	p.processing = false
	p.queue = nil
	rounds := p.round
	settled := p.settled
	p.settled = nil
	p.mu.Unlock()

	p.logger.Info("processing completed", slog.Int("rounds", rounds))
	p.notify(model.EventProcessCompleted, model.ProcessCompletedPayload{
		Rounds: rounds,
		Score:  p.scoring.Total(),
	})
	if settled != nil {
		close(settled)
	}
}

// Reset hard-stops processing without emitting the completion event.
// Used for external interruption such as session teardown.
func (p *Processor) Reset() {
	p.mu.Lock()
	p.processing = false
	p.paused = false
	p.queue = nil
	p.pending = nil
	settled := p.settled
	p.settled = nil
	p.mu.Unlock()

	if settled != nil {
		close(settled)
	}
}

// Pause suspends queue execution without losing queued work or the
// round counter. The step currently in flight still completes.
func (p *Processor) Pause() {
	p.mu.Lock()
	p.paused = true
	p.mu.Unlock()
}

// Resume continues queue execution after a Pause
func (p *Processor) Resume() {
	p.mu.Lock()
	p.paused = false
	p.mu.Unlock()
	p.wake()
}

// Processing reports whether a processing session is active
func (p *Processor) Processing() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.processing
}

// Rounds returns the round counter of the current or last session
func (p *Processor) Rounds() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.round
}

// Wait blocks until the current processing session settles or ctx is
// done. Callers bound convergence with the context deadline.
func (p *Processor) Wait(ctx context.Context) error {
	p.mu.Lock()
	settled := p.settled
	p.mu.Unlock()
	if settled == nil {
		return nil
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-settled:
		return nil
	}
}

// enqueueRound appends one round's five steps. A new round is only
// ever enqueued from here: once at Start, and again from the
// checkpoint step of the previous round.
func (p *Processor) enqueueRound() {
	p.enqueue(
		p.stepBeginRound,
		p.stepClearMatches,
		p.stepGravity,
		p.stepRefill,
		p.stepCheckpoint,
	)
}

// stepBeginRound advances the round counter and registers this
// round's matches with the scoring sink. The round index doubles as
// the combo counter.
func (p *Processor) stepBeginRound(ctx context.Context) {
	p.mu.Lock()
	p.round++
	round := p.round
	p.mu.Unlock()

	matches := p.finder.Find(p.board.Grid())
	p.mu.Lock()
	p.pending = matches
	p.mu.Unlock()

	if len(matches) == 0 {
		return
	}

	p.scoring.RegisterMatches(ctx, matches, round)
	p.logger.Info("matches found",
		slog.Int("count", len(matches)),
		slog.Int("combo", round),
	)
	p.notify(model.EventMatchesFound, model.MatchesFoundPayload{
		Matches: matches,
		Combo:   round,
	})
}

// stepClearMatches batch-jumps every matched position and waits for
// all removal animations to finish
func (p *Processor) stepClearMatches(ctx context.Context) {
	p.mu.Lock()
	pending := p.pending
	p.pending = nil
	p.mu.Unlock()

	if len(pending) == 0 {
		return
	}

	positions := model.MatchPositions(pending)
	if err := p.board.JumpPieces(ctx, positions); err != nil {
		p.logger.Warn("clear animation failed", slog.String("error", err.Error()))
	}
}

// stepGravity settles the grid and starts the fall animations without
// awaiting them; they deliberately overlap the refill step
func (p *Processor) stepGravity(ctx context.Context) {
	moves := p.board.ApplyGravity()
	if len(moves) == 0 {
		return
	}

	p.falls.Add(1)
	go func() {
		defer p.falls.Done()
		if err := p.board.FallPieces(ctx, moves); err != nil {
			p.logger.Warn("fall animation failed", slog.String("error", err.Error()))
		}
	}()
}

// stepRefill fills the empty cells and waits for the new pieces to
// land
func (p *Processor) stepRefill(ctx context.Context) {
	filled := p.board.FillUp(p.typeCount)
	if len(filled) == 0 {
		return
	}

	if err := p.board.SpawnPieces(ctx, filled); err != nil {
		p.logger.Warn("spawn animation failed", slog.String("error", err.Error()))
	}
}

// stepCheckpoint joins the round's detached fall animations, then
// decides whether the cascade continues: any match or empty cell on
// the settled grid enqueues another full round, otherwise the session
// completes. Joining here keeps the gravity/refill overlap but stops
// a fall from still being airborne when the next round clears its
// piece.
func (p *Processor) stepCheckpoint(ctx context.Context) {
	p.falls.Wait()

	grid := p.board.Grid()
	remaining := p.finder.Find(grid)
	empties := grid.EmptyCount()

	if len(remaining) > 0 || empties > 0 {
		p.enqueueRound()
		return
	}
	p.Stop()
}

func (p *Processor) enqueue(steps ...step) {
	p.mu.Lock()
	p.queue = append(p.queue, steps...)
	p.mu.Unlock()
	p.wake()
}

// next pops the head of the queue, or returns nil when the queue is
// empty or paused
func (p *Processor) next() step {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.paused || len(p.queue) == 0 {
		return nil
	}
	head := p.queue[0]
	p.queue = p.queue[1:]
	return head
}

func (p *Processor) wake() {
	select {
	case p.kick <- struct{}{}:
	default:
	}
}

func (p *Processor) notify(eventType model.EventType, payload any) {
	if p.notifier == nil {
		return
	}
	p.notifier.Notify(model.Event{
		Type:      eventType,
		Timestamp: p.clock.Now(),
		SessionID: p.sessionID,
		Payload:   payload,
	})
}
