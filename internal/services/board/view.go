package board

import "context"

// PieceOptions configures a piece view when it is (re)bound to a cell
type PieceOptions struct {
	Name        string  // kind name, e.g. "ruby"
	Type        int     // type code
	Size        float64 // tile size in view pixels
	Highlight   bool
	Interactive bool
}

// PieceView is the presentation capability backing one piece entity.
// The engine never depends on a concrete rendering type; adapters
// implement this against whatever draws the board.
type PieceView interface {
	Setup(opts PieceOptions)
	Lock()
	Unlock()
	IsLocked() bool

	// AnimateFall moves the view to the given coordinates and returns
	// when the movement completes or ctx is done
	AnimateFall(ctx context.Context, x, y float64) error

	// AnimateJump plays the removal animation and returns when it
	// completes or ctx is done
	AnimateJump(ctx context.Context) error
}

// Pool supplies piece views and takes them back when pieces are
// cleared
type Pool interface {
	Acquire(kind string) PieceView
	Release(view PieceView)
}

// nopView is a PieceView that completes every animation immediately.
// It keeps the engine runnable headless.
type nopView struct {
	locked bool
}

func (v *nopView) Setup(PieceOptions) {}

func (v *nopView) Lock() { v.locked = true }

func (v *nopView) Unlock() { v.locked = false }

func (v *nopView) IsLocked() bool { return v.locked }

func (v *nopView) AnimateFall(ctx context.Context, _, _ float64) error {
	return ctx.Err()
}

func (v *nopView) AnimateJump(ctx context.Context) error {
	return ctx.Err()
}

type nopPool struct{}

func (nopPool) Acquire(string) PieceView { return &nopView{} }

func (nopPool) Release(PieceView) {}

// NopPool returns a pool of no-op views for headless operation
func NopPool() Pool {
	return nopPool{}
}
