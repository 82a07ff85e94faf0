// Package gather runs one render pass across a process group.
//
// Every rank renders the range the partitioner assigns to it. Non-root ranks send
// their block to rank 0. Rank 0 renders its own range straight into the grid, then
// receives the remaining blocks one rank at a time in ascending rank order.
package gather

import (
	"context"
	"errors"
	"fmt"
	"log"

	mandel "github.com/marben/mpi_mandel"
	"github.com/marben/mpi_mandel/comm"
	"github.com/marben/mpi_mandel/grid"
	"github.com/marben/mpi_mandel/partition"
	"github.com/marben/mpi_mandel/render"
)

// RootRank assembles the grid
const RootRank = 0

var ErrProtocol = errors.New("gather protocol violation")

// Render renders rc on the group c belongs to.
// The root returns the fully populated grid, every other rank returns nil once its block was sent.
func Render(ctx context.Context, c comm.Comm, rc mandel.RenderContext) (*grid.Grid, error) {
	if err := rc.Validate(); err != nil {
		return nil, err
	}
	ranges, err := partition.All(rc.Pixels(), c.Size())
	if err != nil {
		return nil, err
	}
	own := ranges[c.Rank()]

	if c.Rank() != RootRank {
		block := render.ComputeBlock(rc, own)
		log.Printf("rank %d is ready to send %d pixels", c.Rank(), block.Count())
		if err := c.Send(ctx, RootRank, comm.BlockTag, block); err != nil {
			return nil, fmt.Errorf("send block to root: %w", err)
		}
		return nil, nil
	}

	g := grid.New(rc.Width, rc.Height)
	dst, err := g.Claim(own.Start, own.Count)
	if err != nil {
		return nil, fmt.Errorf("claim root range %v: %w", own, err)
	}
	render.ComputeInto(rc, own.Start, dst)

	for _, want := range ranges[1:] {
		block, err := c.Recv(ctx, want.Rank, comm.BlockTag)
		if err != nil {
			return nil, fmt.Errorf("receive block from rank %d: %w", want.Rank, err)
		}
		if err := check(block, want); err != nil {
			return nil, err
		}
		if err := g.Place(block); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrProtocol, err)
		}
		log.Printf("received %d pixels from rank %d, finished: %f", block.Count(), want.Rank, g.Progress())
	}

	if !g.Complete() {
		return nil, fmt.Errorf("%w: grid incomplete after gather (%f)", ErrProtocol, g.Progress())
	}
	return g, nil
}

// check compares a received block against the statically computed partition
func check(b mandel.Block, want partition.Range) error {
	switch {
	case b.Rank != want.Rank:
		return fmt.Errorf("%w: expected block from rank %d, got rank %d", ErrProtocol, want.Rank, b.Rank)
	case b.Start != want.Start:
		return fmt.Errorf("%w: rank %d block starts at %d, want %d", ErrProtocol, want.Rank, b.Start, want.Start)
	case b.Count() != want.Count:
		return fmt.Errorf("%w: rank %d sent %d pixels, want %d", ErrProtocol, want.Rank, b.Count(), want.Count)
	}
	return nil
}
