// Package netcomm runs a comm group across processes.
//
// Rank 0 listens and serves the mandel.Gatherer irpc service over TCP or websocket.
// Every other rank dials it and delivers its blocks through a Gatherer client.
// Messages only ever flow towards the root: the root cannot Send and workers cannot Recv.
package netcomm

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"sync"

	"github.com/marben/irpc"
	mandel "github.com/marben/mpi_mandel"
	"github.com/marben/mpi_mandel/comm"
	"github.com/marben/mpi_mandel/config"
)

// Root is rank 0 of a networked group.
type Root struct {
	size    int
	mailbox *comm.Mailbox

	listener   net.Listener
	httpServer *http.Server // nil for tcp

	ctx       context.Context
	cancel    context.CancelCauseFunc
	closeOnce sync.Once
}

// gatherer files every delivered block in the root's mailbox
type gatherer struct {
	ctx     context.Context
	size    int
	mailbox *comm.Mailbox
}

func (g gatherer) Deliver(msg mandel.BlockMessage) error {
	if msg.Rank <= 0 || msg.Rank >= g.size {
		return fmt.Errorf("deliver from rank %d: %w", msg.Rank, comm.ErrRank)
	}
	return g.mailbox.Deliver(g.ctx, msg)
}

// Listen starts serving the Gatherer on p.Addr. p.Addr may use port 0, see Root.Addr.
func Listen(ctx context.Context, p config.Process) (*Root, error) {
	if !p.IsRoot() {
		return nil, fmt.Errorf("listen as rank %d: %w", p.Rank, comm.ErrUnsupported)
	}

	tcpListener, err := net.Listen("tcp", p.Addr)
	if err != nil {
		return nil, fmt.Errorf("net.Listen: %w", err)
	}

	ctx, cancel := context.WithCancelCause(ctx)
	r := &Root{
		size:    p.Size,
		mailbox: comm.NewMailbox(),
		ctx:     ctx,
		cancel:  cancel,
	}

	irpcServer := irpc.NewServer(irpc.WithOnConnect(func(ep *irpc.Endpoint) {
		log.Printf("got connection from: %s", ep.RemoteAddr())
	}))
	irpcServer.AddService(mandel.NewGathererIrpcService(gatherer{ctx: ctx, size: p.Size, mailbox: r.mailbox}))

	switch p.Transport {
	case config.TransportWebsocket:
		wsListener, httpServer := websocketServer(ctx, tcpListener.Addr().String())
		r.listener, r.httpServer = wsListener, httpServer
		go func() {
			if err := httpServer.Serve(tcpListener); err != nil && !errors.Is(err, http.ErrServerClosed) {
				r.fail(fmt.Errorf("httpServer: %w", err))
			}
		}()
		log.Printf("root waiting for %d ranks on %s", p.Size-1, wsListener.Addr())
	default:
		r.listener = tcpListener
		log.Printf("root waiting for %d ranks on tcp %s", p.Size-1, tcpListener.Addr())
	}

	go func() {
		if err := irpcServer.Serve(r.listener); err != nil && ctx.Err() == nil {
			r.fail(fmt.Errorf("server.Serve: %w", err))
		}
	}()

	return r, nil
}

// Addr is the host:port the root accepts connections on
func (r *Root) Addr() string {
	if r.httpServer != nil {
		return r.listener.(*WebsocketListener).addr.addr
	}
	return r.listener.Addr().String()
}

func (r *Root) Rank() int { return 0 }
func (r *Root) Size() int { return r.size }

func (r *Root) Send(ctx context.Context, dest, tag int, b mandel.Block) error {
	return fmt.Errorf("root send to %d: %w", dest, comm.ErrUnsupported)
}

func (r *Root) Recv(ctx context.Context, src, tag int) (mandel.Block, error) {
	if src <= 0 || src >= r.size {
		return mandel.Block{}, fmt.Errorf("recv from %d: %w", src, comm.ErrRank)
	}

	msg, err := r.mailbox.Take(ctx, src, tag)
	if err != nil {
		if cause := context.Cause(r.ctx); errors.Is(err, comm.ErrClosed) && cause != nil && !errors.Is(cause, comm.ErrClosed) {
			return mandel.Block{}, fmt.Errorf("recv from %d: %w", src, cause)
		}
		return mandel.Block{}, err
	}
	return comm.DecodeBlock(msg)
}

// fail stops the root after one of its servers died. Blocked Recv calls return err.
func (r *Root) fail(err error) {
	log.Printf("root failed: %v", err)
	r.cancel(err)
	r.mailbox.Close()
}

func (r *Root) Close() error {
	var err error
	r.closeOnce.Do(func() {
		r.cancel(comm.ErrClosed)
		r.mailbox.Close()
		if r.httpServer != nil {
			err = r.httpServer.Close()
		}
		err = errors.Join(err, r.listener.Close())
	})
	return err
}
