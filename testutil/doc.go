// Package testutil provides testing utilities for pulse.
//
// This package is intended for use in tests and benchmarks only.
//
//	rng := testutil.NewRNG(seed)
//	s := rng.Shape(4, 5)                 // random shape, rank <= 4
//	emb := rng.UnitVectors(100, 384)     // normalized embeddings
//	delays := rng.Delays(24, time.Millisecond)
package testutil
