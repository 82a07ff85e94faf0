package comm

import (
	"context"
	"sync"

	mandel "github.com/marben/mpi_mandel"
)

type mailboxKey struct {
	src, tag int
}

// Mailbox sorts incoming messages by (source rank, tag).
// Each key holds at most one undelivered message; a second Deliver on the same key
// waits until the first one is taken.
type Mailbox struct {
	m      sync.Mutex
	queues map[mailboxKey]chan mandel.BlockMessage

	done      chan struct{}
	closeOnce sync.Once
}

func NewMailbox() *Mailbox {
	return &Mailbox{
		queues: make(map[mailboxKey]chan mandel.BlockMessage),
		done:   make(chan struct{}),
	}
}

func (mb *Mailbox) queue(src, tag int) chan mandel.BlockMessage {
	mb.m.Lock()
	defer mb.m.Unlock()

	k := mailboxKey{src: src, tag: tag}
	q, found := mb.queues[k]
	if !found {
		q = make(chan mandel.BlockMessage, 1)
		mb.queues[k] = q
	}
	return q
}

// Deliver files msg under its sender rank and tag.
func (mb *Mailbox) Deliver(ctx context.Context, msg mandel.BlockMessage) error {
	select {
	case <-mb.done:
		return ErrClosed
	default:
	}

	select {
	case mb.queue(msg.Rank, msg.Tag) <- msg:
		return nil
	case <-mb.done:
		return ErrClosed
	case <-ctx.Done():
		return context.Cause(ctx)
	}
}

// Take waits for the next message sent by src on tag.
func (mb *Mailbox) Take(ctx context.Context, src, tag int) (mandel.BlockMessage, error) {
	select {
	case msg := <-mb.queue(src, tag):
		return msg, nil
	case <-mb.done:
		return mandel.BlockMessage{}, ErrClosed
	case <-ctx.Done():
		return mandel.BlockMessage{}, context.Cause(ctx)
	}
}

// Close wakes every blocked Deliver and Take with ErrClosed.
func (mb *Mailbox) Close() {
	mb.closeOnce.Do(func() { close(mb.done) })
}
