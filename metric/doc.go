// Package metric provides similarity and distance functions over float64
// embeddings, backed by gonum.
package metric
