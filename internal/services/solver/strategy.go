package solver

import (
	"github.com/soval/gemgrid/internal/dependencies/random"
	"github.com/soval/gemgrid/internal/model"
)

// Strategy defines how a hint or automated player chooses a swap
type Strategy interface {
	// Choose selects one productive swap, ok=false when none exists
	Choose(grid *model.Grid, matchSize int) (Swap, bool)
}

// RandomStrategy picks uniformly among all productive swaps
type RandomStrategy struct {
	solver *Solver
	random random.Random
}

// NewRandomStrategy creates a new RandomStrategy
func NewRandomStrategy(solver *Solver, rnd random.Random) *RandomStrategy {
	return &RandomStrategy{solver: solver, random: rnd}
}

// Choose picks a random productive swap
func (s *RandomStrategy) Choose(grid *model.Grid, matchSize int) (Swap, bool) {
	swaps := s.solver.FindSwaps(grid, matchSize)
	if len(swaps) == 0 {
		return Swap{}, false
	}
	return swaps[s.random.Intn(len(swaps))], true
}

var _ Strategy = (*RandomStrategy)(nil)
