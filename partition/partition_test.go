package partition

import (
	"errors"
	"testing"
)

func TestAllTilesIndexSpace(t *testing.T) {
	dims := [][2]int{{1, 1}, {7, 3}, {64, 48}, {37, 23}, {1920, 1080}, {5, 1}}
	for _, d := range dims {
		total := d[0] * d[1]
		for workers := 1; workers <= 17; workers++ {
			ranges, err := All(total, workers)
			if err != nil {
				t.Fatalf("All(%d, %d): %v", total, workers, err)
			}
			if len(ranges) != workers {
				t.Fatalf("All(%d, %d) returned %d ranges", total, workers, len(ranges))
			}

			next, sum := 0, 0
			for rank, r := range ranges {
				if r.Rank != rank {
					t.Errorf("All(%d, %d)[%d].Rank = %d", total, workers, rank, r.Rank)
				}
				if r.Start != next {
					t.Errorf("All(%d, %d): %v starts at %d, want %d (gap or overlap)", total, workers, r, r.Start, next)
				}
				if r.Count < 0 {
					t.Errorf("All(%d, %d): %v has negative count", total, workers, r)
				}
				next = r.End()
				sum += r.Count
			}
			if sum != total || next != total {
				t.Errorf("All(%d, %d): covered %d pixels ending at %d, want %d", total, workers, sum, next, total)
			}
		}
	}
}

func TestForRemainderGoesToLastRank(t *testing.T) {
	tests := []struct {
		total, workers, rank int
		want                 Range
	}{
		{10, 3, 0, Range{Rank: 0, Start: 0, Count: 3}},
		{10, 3, 1, Range{Rank: 1, Start: 3, Count: 3}},
		{10, 3, 2, Range{Rank: 2, Start: 6, Count: 4}},
		{10, 1, 0, Range{Rank: 0, Start: 0, Count: 10}},
		{3, 5, 0, Range{Rank: 0, Start: 0, Count: 0}},
		{3, 5, 4, Range{Rank: 4, Start: 0, Count: 3}},
		{0, 4, 3, Range{Rank: 3, Start: 0, Count: 0}},
	}
	for _, tt := range tests {
		got, err := For(tt.total, tt.workers, tt.rank)
		if err != nil {
			t.Fatalf("For(%d, %d, %d): %v", tt.total, tt.workers, tt.rank, err)
		}
		if got != tt.want {
			t.Errorf("For(%d, %d, %d) = %+v, want %+v", tt.total, tt.workers, tt.rank, got, tt.want)
		}
	}
}

func TestForRejectsInvalidInput(t *testing.T) {
	tests := []struct {
		name                 string
		total, workers, rank int
	}{
		{"no workers", 10, 0, 0},
		{"negative workers", 10, -2, 0},
		{"rank too large", 10, 3, 3},
		{"negative rank", 10, 3, -1},
		{"negative total", -1, 3, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := For(tt.total, tt.workers, tt.rank); !errors.Is(err, ErrInvalid) {
				t.Errorf("For(%d, %d, %d) = %v, want ErrInvalid", tt.total, tt.workers, tt.rank, err)
			}
		})
	}
	if _, err := All(10, 0); !errors.Is(err, ErrInvalid) {
		t.Errorf("All(10, 0) = %v, want ErrInvalid", err)
	}
}
