package board

import (
	"context"
	"log/slog"
	"sync"

	"github.com/soval/gemgrid/internal/dependencies/random"
	"github.com/soval/gemgrid/internal/model"
	"github.com/soval/gemgrid/internal/services/cascade"
)

// Controller owns a session's live grid and its active piece
// entities. Grid mutation happens on the processing goroutine or the
// action gate; gridMu covers those writes so concurrent Snapshot
// readers always see a consistent grid. The active piece set is
// additionally touched by the animation fan-outs, so it has its own
// lock.
type Controller struct {
	config model.BoardConfig
	kinds  []string
	grid   *model.Grid
	pool   Pool
	random random.Random
	logger *slog.Logger

	gridMu sync.RWMutex

	mu     sync.RWMutex
	pieces []*Piece
}

// NewController creates a board controller. A nil pool gets the no-op
// pool, which keeps the engine runnable headless.
func NewController(config model.BoardConfig, pool Pool, rnd random.Random, logger *slog.Logger) *Controller {
	if pool == nil {
		pool = NopPool()
	}
	return &Controller{
		config: config,
		kinds:  config.Kinds(),
		pool:   pool,
		random: rnd,
		logger: logger.With(slog.String("component", "board")),
	}
}

// Setup generates the initial grid and binds one piece per cell.
// The generated grid may contain immediate matches; the first
// processing checkpoint clears them.
func (c *Controller) Setup() {
	c.gridMu.Lock()
	c.grid = cascade.NewFilledGrid(c.config.Rows, c.config.Cols, len(c.kinds), c.random)
	c.gridMu.Unlock()
	c.grid.ForEach(func(pos model.Position, typeCode int) {
		c.CreatePiece(pos, typeCode)
	})

	c.logger.Info("board ready",
		slog.Int("rows", c.config.Rows),
		slog.Int("cols", c.config.Cols),
		slog.Int("kinds", len(c.kinds)),
	)
}

// Grid returns the live grid. Only the processing goroutine and the
// action gate (which never overlap) may touch it; everyone else reads
// through Snapshot.
func (c *Controller) Grid() *model.Grid {
	return c.grid
}

// Snapshot returns a copy of the grid that is safe to read while
// processing steps mutate the live one
func (c *Controller) Snapshot() *model.Grid {
	c.gridMu.RLock()
	defer c.gridMu.RUnlock()
	return c.grid.Clone()
}

// ApplyGravity compacts the grid's columns under the write lock and
// returns the resulting moves
func (c *Controller) ApplyGravity() []cascade.Move {
	c.gridMu.Lock()
	defer c.gridMu.Unlock()
	return cascade.ApplyGravity(c.grid)
}

// FillUp populates the grid's empty cells under the write lock and
// returns the filled positions in fill order
func (c *Controller) FillUp(typeCount int) []model.Position {
	c.gridMu.Lock()
	defer c.gridMu.Unlock()
	return cascade.FillUp(c.grid, typeCount, c.random)
}

// KindName returns the kind name for a type code, or "" for empty and
// out-of-range codes
func (c *Controller) KindName(typeCode int) string {
	if typeCode < 1 || typeCode > len(c.kinds) {
		return ""
	}
	return c.kinds[typeCode-1]
}

// ViewPosition maps grid coordinates to view coordinates: a linear
// mapping with the whole board centered at the origin
func (c *Controller) ViewPosition(pos model.Position) (x, y float64) {
	xOffset := float64(c.config.Cols-1) * c.config.TileSize / 2
	yOffset := float64(c.config.Rows-1) * c.config.TileSize / 2
	x = float64(pos.Col)*c.config.TileSize - xOffset
	y = float64(pos.Row)*c.config.TileSize - yOffset
	return x, y
}

// CreatePiece acquires a view from the pool, binds it to the given
// cell, and registers the piece in the active set
func (c *Controller) CreatePiece(pos model.Position, typeCode int) *Piece {
	view := c.pool.Acquire(c.KindName(typeCode))
	view.Setup(PieceOptions{
		Name:        c.KindName(typeCode),
		Type:        typeCode,
		Size:        c.config.TileSize,
		Highlight:   false,
		Interactive: true,
	})

	x, y := c.ViewPosition(pos)
	piece := &Piece{
		Position: pos,
		Type:     typeCode,
		X:        x,
		Y:        y,
		view:     view,
	}

	c.mu.Lock()
	c.pieces = append(c.pieces, piece)
	c.mu.Unlock()
	return piece
}

// PieceAt returns the active piece bound to the given position, or
// nil when there is none. A nil result is expected, not exceptional:
// timing windows exist between grid mutation and piece rebinding.
func (c *Controller) PieceAt(pos model.Position) *Piece {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, p := range c.pieces {
		if p.Position == pos {
			return p
		}
	}
	return nil
}

// TypeAt returns the grid type code at the given position; ok is
// false out of bounds
func (c *Controller) TypeAt(pos model.Position) (int, bool) {
	return c.grid.Get(pos)
}

// PieceCount returns the size of the active piece set
func (c *Controller) PieceCount() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.pieces)
}

// JumpPiece clears the cell at the given position: empties the grid
// cell, plays the piece's removal animation, and disposes it. No-op
// when the position is out of bounds or no piece is bound there.
func (c *Controller) JumpPiece(ctx context.Context, pos model.Position) error {
	if _, ok := c.grid.Get(pos); !ok {
		return nil
	}
	piece := c.PieceAt(pos)
	if piece == nil {
		return nil
	}

	c.gridMu.Lock()
	c.grid.Set(pos, 0)
	c.gridMu.Unlock()
	piece.view.Lock()
	err := piece.view.AnimateJump(ctx)
	c.DisposePiece(piece)
	return err
}

// JumpPieces clears a batch of positions concurrently and returns
// once every jump has completed
func (c *Controller) JumpPieces(ctx context.Context, positions []model.Position) error {
	var wg sync.WaitGroup
	errCh := make(chan error, len(positions))
	for _, pos := range positions {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := c.JumpPiece(ctx, pos); err != nil {
				errCh <- err
			}
		}()
	}
	wg.Wait()
	close(errCh)
	return <-errCh
}

// SwapPieces exchanges the contents of two cells and rebinds their
// pieces. Returns false without touching anything when either position
// is out of bounds.
func (c *Controller) SwapPieces(a, b model.Position) bool {
	c.gridMu.Lock()
	swapped := c.grid.Swap(a, b)
	c.gridMu.Unlock()
	if !swapped {
		return false
	}

	pieceA := c.PieceAt(a)
	pieceB := c.PieceAt(b)
	if pieceA != nil {
		pieceA.Position = b
		pieceA.X, pieceA.Y = c.ViewPosition(b)
	}
	if pieceB != nil {
		pieceB.Position = a
		pieceB.X, pieceB.Y = c.ViewPosition(a)
	}
	return true
}

// DisposePiece removes a piece from the active set and returns its
// view to the pool. Disposing twice is harmless.
func (c *Controller) DisposePiece(piece *Piece) {
	c.mu.Lock()
	found := false
	for i, p := range c.pieces {
		if p == piece {
			c.pieces = append(c.pieces[:i], c.pieces[i+1:]...)
			found = true
			break
		}
	}
	c.mu.Unlock()

	if found {
		piece.view.Unlock()
		c.pool.Release(piece.view)
	}
}

// FallPieces rebinds pieces along the given gravity moves and
// animates their falls concurrently, returning when all have landed.
// Moves must be ordered bottom-up per column, which is how
// cascade.ApplyGravity reports them; that ordering guarantees no
// rebinding collides with a piece that has not moved yet.
func (c *Controller) FallPieces(ctx context.Context, moves []cascade.Move) error {
	falling := make([]*Piece, 0, len(moves))
	for _, move := range moves {
		piece := c.PieceAt(move.From)
		if piece == nil {
			continue
		}
		piece.Position = move.To
		piece.X, piece.Y = c.ViewPosition(move.To)
		falling = append(falling, piece)
	}

	var wg sync.WaitGroup
	errCh := make(chan error, len(falling))
	for _, piece := range falling {
		wg.Add(1)
		go func() {
			defer wg.Done()
			piece.view.Lock()
			defer piece.view.Unlock()
			if err := piece.view.AnimateFall(ctx, piece.X, piece.Y); err != nil {
				errCh <- err
			}
		}()
	}
	wg.Wait()
	close(errCh)
	return <-errCh
}

// SpawnPieces creates pieces for freshly filled cells and animates
// them falling in from above the board. Positions must be in reverse
// scan order (the fillUp contract): within a column the bottom-most
// cell comes first, so the per-column stack count spaces simultaneous
// arrivals.
func (c *Controller) SpawnPieces(ctx context.Context, filled []model.Position) error {
	stack := make(map[int]int)
	spawned := make([]*Piece, 0, len(filled))
	for _, pos := range filled {
		typeCode, ok := c.grid.Get(pos)
		if !ok || typeCode == 0 {
			continue
		}
		piece := c.CreatePiece(pos, typeCode)

		// Start above the top row, stacked by arrival order in the column
		drop := stack[pos.Col]
		stack[pos.Col] = drop + 1
		_, top := c.ViewPosition(model.Position{Row: 0, Col: pos.Col})
		piece.Y = top - float64(drop+1)*c.config.TileSize

		spawned = append(spawned, piece)
	}

	var wg sync.WaitGroup
	errCh := make(chan error, len(spawned))
	for _, piece := range spawned {
		wg.Add(1)
		go func() {
			defer wg.Done()
			piece.view.Lock()
			defer piece.view.Unlock()
			x, y := c.ViewPosition(piece.Position)
			err := piece.view.AnimateFall(ctx, x, y)
			piece.X, piece.Y = x, y
			if err != nil {
				errCh <- err
			}
		}()
	}
	wg.Wait()
	close(errCh)
	return <-errCh
}

// Interface for dependency injection
type ControllerInterface interface {
	Setup()
	Grid() *model.Grid
	Snapshot() *model.Grid
	ApplyGravity() []cascade.Move
	FillUp(typeCount int) []model.Position
	KindName(typeCode int) string
	ViewPosition(pos model.Position) (x, y float64)
	CreatePiece(pos model.Position, typeCode int) *Piece
	PieceAt(pos model.Position) *Piece
	TypeAt(pos model.Position) (int, bool)
	JumpPiece(ctx context.Context, pos model.Position) error
	JumpPieces(ctx context.Context, positions []model.Position) error
	SwapPieces(a, b model.Position) bool
	DisposePiece(piece *Piece)
	FallPieces(ctx context.Context, moves []cascade.Move) error
	SpawnPieces(ctx context.Context, filled []model.Position) error
}

var _ ControllerInterface = (*Controller)(nil)
