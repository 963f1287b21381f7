package process

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/soval/gemgrid/internal/dependencies/clock"
	"github.com/soval/gemgrid/internal/dependencies/random"
	"github.com/soval/gemgrid/internal/model"
	"github.com/soval/gemgrid/internal/services/board"
	"github.com/soval/gemgrid/internal/services/match"
	"github.com/soval/gemgrid/internal/testutil"
)

// scriptRandom plays back scripted values for the initial grid, then
// generates diagonal-stripe values for refills. Stripes never contain
// a run of two equal neighbors, so every cascade settles.
type scriptRandom struct {
	mu      sync.Mutex
	initial []int
	calls   int
	cols    int
}

var _ random.Random = (*scriptRandom)(nil)

func (r *scriptRandom) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	call := r.calls
	r.calls++
	if call < len(r.initial) {
		return r.initial[call]
	}
	helperIdx := call - len(r.initial)
	row := (helperIdx / r.cols)
	col := helperIdx % r.cols
	return (row + col) % n
}

func (r *scriptRandom) String(length int, alphabet string) string {
	return ""
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
	types := make([]model.EventType, len(r.events))
	for i, e := range r.events {
		types[i] = e.Type
	}
	return types
}

func (r *recorder) combos() []int {
	r.mu.Lock()
	defer r.mu.Unlock()
	var combos []int
	for _, e := range r.events {
		if payload, ok := e.Payload.(model.MatchesFoundPayload); ok {
			combos = append(combos, payload.Combo)
		}
	}
	return combos
}

// countingSink records score registrations
type countingSink struct {
	mu      sync.Mutex
	batches int
	pieces  int
}

func (c *countingSink) RegisterMatches(_ context.Context, matches []model.Match, combo int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.batches++
	for _, m := range matches {
		c.pieces += m.Length()
	}
}

func (c *countingSink) Total() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pieces * 10
}

// slowPool hands out views whose fall animations take real time.
// Views acquired after seal (i.e. refill pieces) fall instantly, so
// only the detached gravity falls stay airborne.
type slowPool struct {
	mu     sync.Mutex
	sealed bool

	started atomic.Int32 // slow falls begun
	falling atomic.Int32 // slow falls currently airborne
	overlap atomic.Int32 // jumps played while a fall was airborne
}

func (p *slowPool) Acquire(string) board.PieceView {
	p.mu.Lock()
	slow := !p.sealed
	p.mu.Unlock()
	return &slowView{pool: p, slow: slow}
}

func (p *slowPool) Release(board.PieceView) {}

func (p *slowPool) seal() {
	p.mu.Lock()
	p.sealed = true
	p.mu.Unlock()
}

type slowView struct {
	pool   *slowPool
	slow   bool
	locked atomic.Bool
}

func (v *slowView) Setup(board.PieceOptions) {}
func (v *slowView) Lock()                    { v.locked.Store(true) }
func (v *slowView) Unlock()                  { v.locked.Store(false) }
func (v *slowView) IsLocked() bool           { return v.locked.Load() }

func (v *slowView) AnimateFall(ctx context.Context, _, _ float64) error {
	if !v.slow {
		return nil
	}
	v.pool.started.Add(1)
	v.pool.falling.Add(1)
	defer v.pool.falling.Add(-1)
	select {
	case <-time.After(50 * time.Millisecond):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (v *slowView) AnimateJump(context.Context) error {
	if v.pool.falling.Load() > 0 {
		v.pool.overlap.Add(1)
	}
	return nil
}

type ProcessorSuite struct {
	suite.Suite
	cancel    context.CancelFunc
	processor *Processor
	events    *recorder
	sink      *countingSink
	ctx       context.Context
}

func TestProcessorSuite(t *testing.T) {
	suite.Run(t, new(ProcessorSuite))
}

func (s *ProcessorSuite) SetupTest() {
	s.events = &recorder{}
	s.sink = &countingSink{}
}

func (s *ProcessorSuite) TearDownTest() {
	if s.processor != nil {
		s.processor.Close()
	}
	if s.cancel != nil {
		s.cancel()
	}
}

// build wires a processor around a board whose initial grid is the
// given cell values (type codes, 1-based already)
func (s *ProcessorSuite) build(rows [][]int) {
	s.buildWithPool(rows, board.NopPool())
}

func (s *ProcessorSuite) buildWithPool(rows [][]int, pool board.Pool) {
	cfg := model.DefaultBoardConfig()
	cfg.Rows = len(rows)
	cfg.Cols = len(rows[0])

	initial := make([]int, 0, cfg.Rows*cfg.Cols)
	for _, row := range rows {
		for _, v := range row {
			initial = append(initial, v-1)
		}
	}
	rnd := &scriptRandom{initial: initial, cols: cfg.Cols}

	controller := board.NewController(cfg, pool, rnd, testutil.NopLogger())
	controller.Setup()

	s.processor = NewProcessor(
		"session-1",
		controller,
		match.New(cfg.MatchSize),
		s.sink,
		s.events,
		clock.New(),
		testutil.NopLogger(),
		len(cfg.Kinds()),
	)

	s.ctx, s.cancel = context.WithCancel(context.Background())
	go s.processor.Run(s.ctx)
}

func (s *ProcessorSuite) wait() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	s.Require().NoError(s.processor.Wait(ctx))
}

func (s *ProcessorSuite) TestMatchlessGridSettlesInOneRound() {
	s.build([][]int{
		{1, 2, 3},
		{2, 3, 1},
		{3, 1, 2},
	})

	s.processor.Start()
	s.wait()

	s.False(s.processor.Processing())
	s.Equal(1, s.processor.Rounds())
	s.Equal([]model.EventType{
		model.EventProcessStarted,
		model.EventProcessCompleted,
	}, s.events.types())
	s.Zero(s.sink.batches)
}

func (s *ProcessorSuite) TestSingleMatchClearsAndRefills() {
	s.build([][]int{
		{1, 1, 1},
		{2, 3, 2},
		{3, 2, 3},
	})

	s.processor.Start()
	s.wait()

	grid := s.processor.board.Grid()
	s.Zero(grid.EmptyCount())
	s.Empty(s.processor.finder.Find(grid))
	s.Equal(1, s.processor.Rounds())
	s.Equal([]int{1}, s.events.combos())
	s.Equal(1, s.sink.batches)
	s.Equal(3, s.sink.pieces)
	// Stripe refill lands 1|2|3 in the cleared top row
	s.Equal("01|02|03\n02|03|02\n03|02|03", grid.DisplayString())
}

func (s *ProcessorSuite) TestCascadeIncrementsCombo() {
	// Clearing the middle row drops the 4 in column 0, lining up a
	// vertical 4-run for the second round
	s.build([][]int{
		{4, 1, 2},
		{1, 1, 1},
		{4, 2, 3},
		{4, 3, 2},
	})

	s.processor.Start()
	s.wait()

	s.Equal(2, s.processor.Rounds())
	s.Equal([]int{1, 2}, s.events.combos())
	s.Equal([]model.EventType{
		model.EventProcessStarted,
		model.EventMatchesFound,
		model.EventMatchesFound,
		model.EventProcessCompleted,
	}, s.events.types())
	s.Equal(2, s.sink.batches)
	s.Equal(6, s.sink.pieces)

	grid := s.processor.board.Grid()
	s.Zero(grid.EmptyCount())
	s.Empty(s.processor.finder.Find(grid))
}

func (s *ProcessorSuite) TestFallsLandBeforeNextRoundClears() {
	// Round 2 clears the column-0 pieces that fell in round 1; their
	// falls must have landed before the clear animation plays
	pool := &slowPool{}
	s.buildWithPool([][]int{
		{4, 1, 2},
		{1, 1, 1},
		{4, 2, 3},
		{4, 3, 2},
	}, pool)
	pool.seal()

	s.processor.Start()
	s.wait()

	s.Equal(2, s.processor.Rounds())
	s.Positive(pool.started.Load())
	s.Zero(pool.overlap.Load())
	s.Zero(pool.falling.Load())
}

func (s *ProcessorSuite) TestCompletedEventCarriesRoundsAndScore() {
	s.build([][]int{
		{1, 1, 1},
		{2, 3, 2},
		{3, 2, 3},
	})

	s.processor.Start()
	s.wait()

	last := s.events.events[len(s.events.events)-1]
	payload, ok := last.Payload.(model.ProcessCompletedPayload)
	s.Require().True(ok)
	s.Equal(1, payload.Rounds)
	s.Equal(30, payload.Score)
}

func (s *ProcessorSuite) TestStartWhileProcessingIsNoOp() {
	s.build([][]int{
		{1, 2, 3},
		{2, 3, 1},
		{3, 1, 2},
	})

	s.processor.Pause()
	s.processor.Start()
	s.processor.Start()
	s.processor.Resume()
	s.wait()

	// A second Start would have emitted a second process_started
	s.Equal([]model.EventType{
		model.EventProcessStarted,
		model.EventProcessCompleted,
	}, s.events.types())
}

func (s *ProcessorSuite) TestStopWhenIdleIsNoOp() {
	s.build([][]int{
		{1, 2, 3},
		{2, 3, 1},
		{3, 1, 2},
	})

	s.processor.Stop()
	s.Empty(s.events.types())
}

func (s *ProcessorSuite) TestPauseHoldsQueuedWork() {
	s.build([][]int{
		{1, 1, 1},
		{2, 3, 2},
		{3, 2, 3},
	})

	s.processor.Pause()
	s.processor.Start()

	// Give the run loop a chance to (not) pick up work
	time.Sleep(50 * time.Millisecond)
	s.True(s.processor.Processing())
	s.Zero(s.processor.Rounds())

	s.processor.Resume()
	s.wait()
	s.Equal(1, s.processor.Rounds())
	s.Equal([]int{1}, s.events.combos())
}

func (s *ProcessorSuite) TestResetEmitsNoCompletionEvent() {
	s.build([][]int{
		{1, 1, 1},
		{2, 3, 2},
		{3, 2, 3},
	})

	s.processor.Pause()
	s.processor.Start()
	s.processor.Reset()

	s.False(s.processor.Processing())
	s.Equal([]model.EventType{model.EventProcessStarted}, s.events.types())

	// Wait returns immediately after a reset
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	s.NoError(s.processor.Wait(ctx))
}

func (s *ProcessorSuite) TestNilNotifierIsSafe() {
	cfg := model.DefaultBoardConfig()
	cfg.Rows = 3
	cfg.Cols = 3
	rnd := &scriptRandom{initial: []int{0, 0, 0, 1, 2, 1, 2, 1, 2}, cols: 3}
	controller := board.NewController(cfg, board.NopPool(), rnd, testutil.NopLogger())
	controller.Setup()

	s.processor = NewProcessor("session-1", controller, match.New(3), s.sink, nil,
		clock.New(), testutil.NopLogger(), len(cfg.Kinds()))
	s.ctx, s.cancel = context.WithCancel(context.Background())
	go s.processor.Run(s.ctx)

	s.processor.Start()
	s.wait()
	s.Equal(1, s.sink.batches)
}

func (s *ProcessorSuite) TestConvergesFromRandomBoard() {
	cfg := model.DefaultBoardConfig()
	cfg.Rows = 6
	cfg.Cols = 6
	rnd := random.New()
	controller := board.NewController(cfg, board.NopPool(), rnd, testutil.NopLogger())
	controller.Setup()

	s.processor = NewProcessor("session-1", controller, match.New(3), s.sink, s.events,
		clock.New(), testutil.NopLogger(), len(cfg.Kinds()))
	s.ctx, s.cancel = context.WithCancel(context.Background())
	go s.processor.Run(s.ctx)

	s.processor.Start()

	// The round ceiling is the caller's responsibility: a finite type
	// set settles with overwhelming probability well inside this window
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	s.Require().NoError(s.processor.Wait(ctx))

	grid := controller.Grid()
	s.False(s.processor.Processing())
	s.Zero(grid.EmptyCount())
	s.Empty(s.processor.finder.Find(grid))
	s.Equal(cfg.Rows*cfg.Cols, controller.PieceCount())
}
