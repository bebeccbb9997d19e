package metric

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/floats"
)

// ErrDimensionMismatch is returned when two vectors differ in length.
var ErrDimensionMismatch = errors.New("metric: vector sizes do not match")

func check(v1, v2 []float64) error {
	if len(v1) != len(v2) {
		return fmt.Errorf("%w: %d vs %d", ErrDimensionMismatch, len(v1), len(v2))
	}
	return nil
}

// Magnitude calculates the Euclidean length of v.
func Magnitude(v []float64) float64 {
	return floats.Norm(v, 2)
}

// Dot calculates the inner product of v1 and v2.
func Dot(v1, v2 []float64) (float64, error) {
	if err := check(v1, v2); err != nil {
		return 0, err
	}
	return floats.Dot(v1, v2), nil
}

// CosineSimilarity calculates the cosine similarity between v1 and v2.
// A zero vector has similarity 0 with everything.
func CosineSimilarity(v1, v2 []float64) (float64, error) {
	if err := check(v1, v2); err != nil {
		return 0, err
	}

	magnitudeA := Magnitude(v1)
	magnitudeB := Magnitude(v2)
	if magnitudeA == 0 || magnitudeB == 0 {
		return 0, nil
	}

	return floats.Dot(v1, v2) / (magnitudeA * magnitudeB), nil
}

// SquaredL2 calculates the squared Euclidean distance between v1 and v2.
func SquaredL2(v1, v2 []float64) (float64, error) {
	if err := check(v1, v2); err != nil {
		return 0, err
	}
	d := floats.Distance(v1, v2, 2)
	return d * d, nil
}

// Normalize returns a unit-length copy of v. The zero vector is returned as a
// zero copy.
func Normalize(v []float64) []float64 {
	out := append([]float64(nil), v...)
	if m := Magnitude(out); m != 0 {
		floats.Scale(1/m, out)
	}
	return out
}
