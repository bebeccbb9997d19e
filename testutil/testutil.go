package testutil

import (
	"math/rand"
	"sync"
	"time"

	"gonum.org/v1/gonum/floats"
)

// RNG struct encapsulates the random number generator and seed.
// It is thread-safe.
type RNG struct {
	rand *rand.Rand
	seed int64
	mu   sync.Mutex
}

// NewRNG creates a new RNG instance with the specified seed.
func NewRNG(seed int64) *RNG {
	return &RNG{
		rand: rand.New(rand.NewSource(seed)),
		seed: seed,
	}
}

// Reset resets the RNG to its initial seed.
func (r *RNG) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rand.Seed(r.seed)
}

// Seed returns the initial seed.
func (r *RNG) Seed() int64 {
	return r.seed
}

// Intn returns a non-negative pseudo-random number in [0,n).
func (r *RNG) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Intn(n)
}

// Float64 returns a pseudo-random number in [0.0,1.0).
func (r *RNG) Float64() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Float64()
}

// Perm returns a pseudo-random permutation of [0,n).
func (r *RNG) Perm(n int) []int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Perm(n)
}

// FillUniformRange fills dst with random values in range [minVal, maxVal).
func (r *RNG) FillUniformRange(dst []float64, minVal, maxVal float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	span := maxVal - minVal
	for i := range dst {
		dst[i] = minVal + r.rand.Float64()*span
	}
}

// Ints returns n random integers in [0, maxVal).
func (r *RNG) Ints(n, maxVal int) []int {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]int, n)
	for i := range out {
		out[i] = r.rand.Intn(maxVal)
	}
	return out
}

// Shape returns a random shape of rank in [1, maxRank] with every axis in
// [1, maxLen].
func (r *RNG) Shape(maxRank, maxLen int) []int {
	r.mu.Lock()
	defer r.mu.Unlock()
	s := make([]int, 1+r.rand.Intn(maxRank))
	for i := range s {
		s[i] = 1 + r.rand.Intn(maxLen)
	}
	return s
}

// UnitVectors generates L2-normalized Gaussian vectors, the shape of
// embedding batches. Uses a single backing array.
func (r *RNG) UnitVectors(num, dimensions int) [][]float64 {
	r.mu.Lock()
	defer r.mu.Unlock()

	data := make([]float64, num*dimensions)
	vectors := make([][]float64, num)
	for i := range num {
		vec := data[i*dimensions : (i+1)*dimensions]
		for j := range vec {
			vec[j] = r.rand.NormFloat64()
		}
		if norm := floats.Norm(vec, 2); norm != 0 {
			floats.Scale(1/norm, vec)
		}
		vectors[i] = vec
	}
	return vectors
}

// ClusteredVectors generates unit vectors scattered around clusters random
// centroids with Gaussian noise of the given spread. Vector i belongs to
// cluster i % clusters.
func (r *RNG) ClusteredVectors(num, dim, clusters int, spread float64) [][]float64 {
	centroids := r.UnitVectors(clusters, dim)

	r.mu.Lock()
	defer r.mu.Unlock()

	vectors := make([][]float64, num)
	for i := range num {
		vec := make([]float64, dim)
		for j := range dim {
			vec[j] = centroids[i%clusters][j] + r.rand.NormFloat64()*spread
		}
		if norm := floats.Norm(vec, 2); norm != 0 {
			floats.Scale(1/norm, vec)
		}
		vectors[i] = vec
	}
	return vectors
}

// Jitter returns a random delay in [0, maxDelay).
func (r *RNG) Jitter(maxDelay time.Duration) time.Duration {
	r.mu.Lock()
	defer r.mu.Unlock()
	if maxDelay <= 0 {
		return 0
	}
	return time.Duration(r.rand.Int63n(int64(maxDelay)))
}

// Delays returns n jittered delays, used to scramble task completion order.
func (r *RNG) Delays(n int, maxDelay time.Duration) []time.Duration {
	out := make([]time.Duration, n)
	for i := range out {
		out[i] = r.Jitter(maxDelay)
	}
	return out
}
