package launch

import (
	"context"
	"fmt"
	"log"

	mandel "github.com/marben/mpi_mandel"
	"github.com/marben/mpi_mandel/comm"
	"github.com/marben/mpi_mandel/comm/netcomm"
	"github.com/marben/mpi_mandel/config"
	"github.com/marben/mpi_mandel/gather"
	"github.com/marben/mpi_mandel/grid"
	"golang.org/x/sync/errgroup"
)

// Open returns the comm for p: an in-memory single rank for a group of one,
// otherwise the networked root or worker.
func Open(ctx context.Context, p config.Process) (comm.Comm, error) {
	switch {
	case p.Size == 1:
		return comm.NewLocalGroup(1)[0], nil
	case p.IsRoot():
		return netcomm.Listen(ctx, p)
	default:
		return netcomm.Dial(ctx, p)
	}
}

// Rank runs one rank's share of a render pass. Rank 0 writes the finished bitmap to out.
func Rank(ctx context.Context, p config.Process, rc mandel.RenderContext, out string) error {
	c, err := Open(ctx, p)
	if err != nil {
		return fmt.Errorf("open comm: %w", err)
	}
	defer c.Close()

	g, err := gather.Render(ctx, c, rc)
	if err != nil {
		return fmt.Errorf("render: %w", err)
	}
	if !p.IsRoot() {
		return nil
	}

	if err := grid.WriteFile(out, g); err != nil {
		return err
	}
	log.Printf("Mandelbrot set saved to %s", out)
	return nil
}

// InProcess renders rc on a group of ranks running as goroutines of this process.
func InProcess(ctx context.Context, ranks int, rc mandel.RenderContext) (*grid.Grid, error) {
	if ranks < 1 {
		return nil, fmt.Errorf("%w: %d ranks", config.ErrInvalidArgument, ranks)
	}

	var root *grid.Grid
	eg, ctx := errgroup.WithContext(ctx)
	for _, c := range comm.NewLocalGroup(ranks) {
		eg.Go(func() error {
			defer c.Close()
			g, err := gather.Render(ctx, c, rc)
			if err != nil {
				return fmt.Errorf("rank %d: %w", c.Rank(), err)
			}
			if c.Rank() == gather.RootRank {
				root = g
			}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return root, nil
}
