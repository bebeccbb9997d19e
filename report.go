package pulse

import (
	"fmt"
	"time"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/dustin/go-humanize"

	"github.com/researchwiseai/pulse-go/pool"
	"github.com/researchwiseai/pulse-go/shape"
)

// CellTiming is the outcome of one generated cell.
type CellTiming struct {
	Coords  []int
	Start   time.Time
	End     time.Time
	Err     error
	Skipped bool
}

// Duration returns how long fn ran for the cell. Unrun cells report zero.
func (c CellTiming) Duration() time.Duration {
	if c.Start.IsZero() || c.End.IsZero() {
		return 0
	}
	return c.End.Sub(c.Start)
}

// Report describes a generation run.
type Report struct {
	RunID string
	Shape shape.Shape
	Start time.Time
	End   time.Time
	// Cells holds one entry per cell in row-major order.
	Cells   []CellTiming
	Failed  *roaring.Bitmap
	Skipped *roaring.Bitmap
}

func newReport[R any](runID string, res *pool.Result[R]) *Report {
	cells := make([]CellTiming, len(res.Slots))
	for i, s := range res.Slots {
		cells[i] = CellTiming{
			Coords:  shape.IndexToCoords(i, res.Shape),
			Start:   s.Start,
			End:     s.End,
			Err:     s.Err,
			Skipped: s.Skipped,
		}
	}
	return &Report{
		RunID:   runID,
		Shape:   res.Shape,
		Start:   res.Start,
		End:     res.End,
		Cells:   cells,
		Failed:  res.Failed,
		Skipped: res.Skipped,
	}
}

// Duration returns the wall time of the run.
func (r *Report) Duration() time.Duration { return r.End.Sub(r.Start) }

// Completed returns the number of cells computed without error.
func (r *Report) Completed() int {
	n := 0
	for _, c := range r.Cells {
		if !c.End.IsZero() && c.Err == nil {
			n++
		}
	}
	return n
}

// Throughput returns completed cells per second of wall time.
func (r *Report) Throughput() float64 {
	d := r.Duration().Seconds()
	if d <= 0 {
		return 0
	}
	return float64(r.Completed()) / d
}

// Cell returns the timing of the cell at coords.
func (r *Report) Cell(coords ...int) (CellTiming, error) {
	if len(coords) != len(r.Shape) {
		return CellTiming{}, fmt.Errorf("%w: %d coordinates for rank %d", ErrDimension, len(coords), len(r.Shape))
	}
	for i, c := range coords {
		if c < 0 || c >= r.Shape[i] {
			return CellTiming{}, fmt.Errorf("%w: coordinate %d on axis %d of length %d", ErrOutOfRange, c, i, r.Shape[i])
		}
	}
	return r.Cells[shape.CoordsToIndex(coords, shape.RowMajorStrides(r.Shape), 0)], nil
}

// Errors returns the error of every failed cell in row-major order.
func (r *Report) Errors() []error {
	out := make([]error, 0, r.Failed.GetCardinality())
	it := r.Failed.Iterator()
	for it.HasNext() {
		out = append(out, r.Cells[it.Next()].Err)
	}
	return out
}

func (r *Report) String() string {
	return fmt.Sprintf("run %s %s: %s/%s cells in %s (%s cells/s), %s failed, %s skipped",
		r.RunID,
		r.Shape,
		humanize.Comma(int64(r.Completed())),
		humanize.Comma(int64(len(r.Cells))),
		r.Duration().Round(time.Millisecond),
		humanize.FormatFloat("#,###.##", r.Throughput()),
		humanize.Comma(int64(r.Failed.GetCardinality())),
		humanize.Comma(int64(r.Skipped.GetCardinality())),
	)
}
