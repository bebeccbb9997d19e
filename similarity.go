package pulse

import (
	"context"
	"strconv"

	"github.com/researchwiseai/pulse-go/headers"
	"github.com/researchwiseai/pulse-go/metric"
)

func cosine(_ context.Context, pair [][]float64) (float64, error) {
	return metric.CosineSimilarity(pair[0], pair[1])
}

func indexLabels(n int) headers.Dimension {
	labels := make([]string, n)
	for i := range labels {
		labels[i] = strconv.Itoa(i)
	}
	return headers.FromLabels(labels)
}

// SelfSimilarity computes the symmetric cosine similarity matrix of
// embeddings. Only the lower triangle is computed; it is mirrored and the
// diagonal is 1. Axes are labelled with the embedding index unless
// WithAxisHeaders says otherwise.
func SelfSimilarity(ctx context.Context, embeddings [][]float64, opts ...GenerateOption) (*Matrix[float64], *Report, error) {
	labels := indexLabels(len(embeddings))
	opts = append([]GenerateOption{WithAxisHeaders(headers.Headers{labels, labels})}, opts...)

	m, rep, err := GenerateSelf[[]float64, float64](ctx, embeddings, cosine, opts...)
	if err != nil {
		return nil, rep, err
	}
	sym, err := Symmetrize(m, 1)
	if err != nil {
		return nil, rep, err
	}
	return sym, rep, nil
}

// CrossSimilarity computes the cosine similarity of every embedding in a
// against every embedding in b.
func CrossSimilarity(ctx context.Context, a, b [][]float64, opts ...GenerateOption) (*Matrix[float64], *Report, error) {
	opts = append([]GenerateOption{WithAxisHeaders(headers.Headers{indexLabels(len(a)), indexLabels(len(b))})}, opts...)
	return Generate[[]float64, float64](ctx, [][][]float64{a, b}, cosine, opts...)
}
