package netcomm

import (
	"context"
	"fmt"
	"log"
	"net"
	"time"

	"github.com/marben/irpc"
	mandel "github.com/marben/mpi_mandel"
	"github.com/marben/mpi_mandel/comm"
	"github.com/marben/mpi_mandel/config"
)

// RetryInterval is how long Dial waits between attempts to reach a root that is not up yet
var RetryInterval = 100 * time.Millisecond

// Worker is a non-root rank of a networked group.
type Worker struct {
	rank, size int
	conn       net.Conn
	gatherer   mandel.Gatherer
}

// Dial connects to the root at p.Addr, retrying until it answers or ctx is done.
func Dial(ctx context.Context, p config.Process) (*Worker, error) {
	if p.IsRoot() {
		return nil, fmt.Errorf("dial as rank 0: %w", comm.ErrUnsupported)
	}

	conn, err := dialRetry(ctx, p)
	if err != nil {
		return nil, err
	}

	ep := irpc.NewEndpoint(conn)
	client, err := mandel.NewGathererIrpcClient(ep)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("new Gatherer client: %w", err)
	}
	log.Printf("connected to root at %s", conn.RemoteAddr())

	return &Worker{rank: p.Rank, size: p.Size, conn: conn, gatherer: client}, nil
}

func dialRetry(ctx context.Context, p config.Process) (net.Conn, error) {
	var d net.Dialer
	for attempt := 1; ; attempt++ {
		var conn net.Conn
		var err error
		switch p.Transport {
		case config.TransportWebsocket:
			conn, err = dialWebsocket(ctx, p.Addr)
		default:
			conn, err = d.DialContext(ctx, "tcp", p.Addr)
		}
		if err == nil {
			return conn, nil
		}
		if attempt == 1 {
			log.Printf("root at %s not reachable yet: %v", p.Addr, err)
		}

		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("dial root %s after %d attempts: %w", p.Addr, attempt, context.Cause(ctx))
		case <-time.After(RetryInterval):
		}
	}
}

func (w *Worker) Rank() int { return w.rank }
func (w *Worker) Size() int { return w.size }

// Send delivers b to the root. It returns once the root has filed the block.
func (w *Worker) Send(ctx context.Context, dest, tag int, b mandel.Block) error {
	if dest != 0 {
		return fmt.Errorf("send to %d: %w", dest, comm.ErrUnsupported)
	}
	if err := comm.CheckSender(w.rank, b); err != nil {
		return err
	}
	if ctx.Err() != nil {
		return context.Cause(ctx)
	}

	msg, err := comm.EncodeBlock(tag, b)
	if err != nil {
		return err
	}

	// irpc calls take no context; a cancelled ctx tears the connection down instead
	stop := context.AfterFunc(ctx, func() { w.conn.Close() })
	defer stop()

	if err := w.gatherer.Deliver(msg); err != nil {
		if ctx.Err() != nil {
			return context.Cause(ctx)
		}
		return fmt.Errorf("deliver to root: %w", err)
	}
	return nil
}

func (w *Worker) Recv(ctx context.Context, src, tag int) (mandel.Block, error) {
	return mandel.Block{}, fmt.Errorf("worker recv from %d: %w", src, comm.ErrUnsupported)
}

func (w *Worker) Close() error {
	return w.conn.Close()
}
