package quiz

import (
	"math/rand"
	"sync"
	"time"
)

var (
	rngMu sync.Mutex
	rng   = rand.New(rand.NewSource(time.Now().UnixNano()))
)

func randIntn(n int) int {
	rngMu.Lock()
	defer rngMu.Unlock()
	return rng.Intn(n)
}

// Shuffle returns a new slice holding the same elements as s in a
// uniformly random order (Fisher-Yates). The input is never mutated.
func Shuffle[T any](s []T) []T {
	out := make([]T, len(s))
	copy(out, s)
	for i := len(out) - 1; i > 0; i-- {
		j := randIntn(i + 1)
		out[i], out[j] = out[j], out[i]
	}
	return out
}

// perm returns a shuffled index permutation [0..n).
func perm(n int) []int {
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	return Shuffle(idx)
}
