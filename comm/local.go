package comm

import (
	"context"
	"fmt"

	mandel "github.com/marben/mpi_mandel"
)

// local is one rank of an in-memory group.
// Blocks still pass through the wire codec, so ranks never share pixel memory.
type local struct {
	rank  int
	boxes []*Mailbox // indexed by destination rank, shared by the whole group
}

// NewLocalGroup returns the size ranks of an in-memory process group.
// Each rank is meant to be driven from its own goroutine.
func NewLocalGroup(size int) []Comm {
	if size < 1 {
		panic(fmt.Sprintf("group size must be positive, got %d", size))
	}
	boxes := make([]*Mailbox, size)
	for i := range boxes {
		boxes[i] = NewMailbox()
	}
	group := make([]Comm, size)
	for rank := range group {
		group[rank] = &local{rank: rank, boxes: boxes}
	}
	return group
}

func (l *local) Rank() int { return l.rank }
func (l *local) Size() int { return len(l.boxes) }

func (l *local) Send(ctx context.Context, dest, tag int, b mandel.Block) error {
	if dest < 0 || dest >= len(l.boxes) {
		return fmt.Errorf("send to %d: %w", dest, ErrRank)
	}
	if err := CheckSender(l.rank, b); err != nil {
		return err
	}
	msg, err := EncodeBlock(tag, b)
	if err != nil {
		return err
	}
	return l.boxes[dest].Deliver(ctx, msg)
}

func (l *local) Recv(ctx context.Context, src, tag int) (mandel.Block, error) {
	if src < 0 || src >= len(l.boxes) {
		return mandel.Block{}, fmt.Errorf("recv from %d: %w", src, ErrRank)
	}
	msg, err := l.boxes[l.rank].Take(ctx, src, tag)
	if err != nil {
		return mandel.Block{}, err
	}
	return DecodeBlock(msg)
}

// Close closes this rank's own mailbox.
func (l *local) Close() error {
	l.boxes[l.rank].Close()
	return nil
}
