// Package partition divides the linear pixel index space between ranks.
//
// Every rank gets total/workers pixels, starting at rank*(total/workers).
// The last rank additionally takes the total%workers leftover pixels, so the
// ranges tile [0, total) with no gap and no overlap.
package partition

import (
	"errors"
	"fmt"
)

var ErrInvalid = errors.New("invalid partition")

// Range is the contiguous slice [Start, Start+Count) of linear pixel indices owned by Rank
type Range struct {
	Rank  int
	Start int
	Count int
}

// End returns the first index past the range
func (r Range) End() int {
	return r.Start + r.Count
}

func (r Range) String() string {
	return fmt.Sprintf("rank %d [%d, %d)", r.Rank, r.Start, r.End())
}

// For returns the range assigned to rank when total pixels are split across workers ranks.
func For(total, workers, rank int) (Range, error) {
	if total < 0 {
		return Range{}, fmt.Errorf("%w: negative pixel count %d", ErrInvalid, total)
	}
	if workers < 1 {
		return Range{}, fmt.Errorf("%w: worker count %d", ErrInvalid, workers)
	}
	if rank < 0 || rank >= workers {
		return Range{}, fmt.Errorf("%w: rank %d of %d", ErrInvalid, rank, workers)
	}

	base := total / workers
	count := base
	if rank == workers-1 {
		count += total % workers
	}
	return Range{Rank: rank, Start: rank * base, Count: count}, nil
}

// All returns the ranges of every rank, ordered by rank.
func All(total, workers int) ([]Range, error) {
	if workers < 1 {
		return nil, fmt.Errorf("%w: worker count %d", ErrInvalid, workers)
	}
	ranges := make([]Range, workers)
	for rank := range ranges {
		r, err := For(total, workers, rank)
		if err != nil {
			return nil, err
		}
		ranges[rank] = r
	}
	return ranges, nil
}
