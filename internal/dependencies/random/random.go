package random

import (
	"math/rand/v2"
	"sync"
)

// Random is the randomness source for grid generation and ID creation,
// mockable for deterministic tests
type Random interface {
	// Intn returns a random int in [0, n)
	Intn(n int) int

	// String generates a random string of the given length from the given alphabet
	String(length int, alphabet string) string
}

// PCGRandom implements Random with a locked PCG generator. Refills draw
// from it on the processor goroutine while session creation draws from
// the request goroutine, so access is serialized.
type PCGRandom struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// New creates a PCGRandom seeded from the global generator
func New() *PCGRandom {
	return &PCGRandom{
		rng: rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
	}
}

// Intn returns a random int in [0, n)
func (r *PCGRandom) Intn(n int) int {
	if n <= 0 {
		return 0
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rng.IntN(n)
}

// String generates a random string of the given length from the given alphabet
func (r *PCGRandom) String(length int, alphabet string) string {
	if length <= 0 || len(alphabet) == 0 {
		return ""
	}
	result := make([]byte, length)
	for i := range result {
		result[i] = alphabet[r.Intn(len(alphabet))]
	}
	return string(result)
}

var _ Random = (*PCGRandom)(nil)
