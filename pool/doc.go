// Package pool runs one task per cell of a Cartesian product with bounded
// concurrency.
//
// Coordinates are enumerated up front in row-major order, so every result
// lands in a fixed slot no matter which task finishes first. Admission is
// completion-driven: a finished task frees its slot for the next pending
// cell rather than waiting for a batch.
package pool
