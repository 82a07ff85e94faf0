// Package comm is the process-group messaging substrate the gather protocol runs on.
//
// A group has Size ranks numbered 0..Size-1. Messages are blocks addressed to a
// destination rank and a tag; a receiver asks for the next message from one
// specific source rank and tag, regardless of what else has already arrived.
package comm

import (
	"context"
	"errors"
	"fmt"

	mandel "github.com/marben/mpi_mandel"
)

// BlockTag is the channel identifier every pixel block travels on
const BlockTag = 0

var (
	ErrClosed      = errors.New("comm closed")
	ErrRank        = errors.New("rank out of range")
	ErrUnsupported = errors.New("operation not supported by this rank")
	ErrProtocol    = errors.New("malformed message")
	ErrSender      = errors.New("block belongs to another rank")
)

type Comm interface {
	Rank() int
	Size() int

	// Send blocks until the destination has accepted the block.
	// The block's Rank must be the sender's own rank, receivers rely on it.
	Send(ctx context.Context, dest, tag int, b mandel.Block) error

	// Recv blocks until a block from src on tag is available.
	Recv(ctx context.Context, src, tag int) (mandel.Block, error)

	Close() error
}

// CheckSender rejects a block that rank is not allowed to send.
func CheckSender(rank int, b mandel.Block) error {
	if b.Rank != rank {
		return fmt.Errorf("rank %d sending block of rank %d: %w", rank, b.Rank, ErrSender)
	}
	return nil
}
