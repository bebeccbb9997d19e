// Package pulse provides the N-dimensional matrix engine of the Pulse SDK.
//
// A Matrix combines a strided view over a flat buffer with optional per-axis
// headers. It represents similarity matrices, embedding batches and quantized
// payloads produced by the analysis endpoints.
//
// # Quick Start
//
//	m, _ := pulse.From[float64]([][]float64{{1, 2, 3}, {4, 5, 6}})
//	t, _ := m.Transpose(0, 1)          // shape [3x2], no copy
//	row, _ := m.Get(1, pulse.Wildcard) // []float64{4, 5, 6}
//	med, _ := pulse.MedianAxis(m, 1)   // [2 5]
//
// # Structural Operations
//
// Slice, Transpose and Reshape alias the buffer of the source Matrix. Headers
// follow every structural operation: transposing swaps them, slicing trims the
// sliced axis, and reshaping keeps them only when every axis keeps its length.
// Matrices are immutable; AsView is the one escape hatch for writes.
//
// # Reductions
//
// Sum, Mean, Max, Min and Median fold the whole Matrix; their Axis variants
// fold each vector along an axis and drop it. Remove collapses an axis with a
// named aggregation chosen by element type (numeric, string or boolean).
//
// # Generation
//
// Generate fills a Matrix from the Cartesian product of per-axis inputs by
// calling a function per cell on a bounded pool:
//
//	m, rep, err := pulse.Generate(ctx, [][]string{{"a", "b"}, {"x", "y"}},
//	    func(ctx context.Context, items []string) (string, error) {
//	        return items[0] + "-" + items[1], nil
//	    },
//	    pulse.WithPoolSize(4),
//	)
//	fmt.Println(m.Value()) // [[a-x a-y] [b-x b-y]]
//	fmt.Println(rep)       // run ...: 4/4 cells in ...
//
// GenerateSelf computes the strictly lower triangle of an input compared with
// itself; Symmetrize completes it.
//
// # Storage
//
// Encode and Decode use the binary format of package codec. Package
// persistence stores matrices together with their headers in a
// blobstore.Store (memory, local disk, S3 or MinIO).
package pulse
