package netcomm

import (
	"context"
	"log"
	"net"
	"net/http"
	"time"

	"github.com/coder/websocket"
)

const websocketPath = "/ws"

func websocketURL(addr string) string {
	return "ws://" + addr + websocketPath
}

// websocketServer returns an http server exposing the websocket endpoint
// and a net.Listener that accepts the connections upgraded on it
func websocketServer(ctx context.Context, addr string) (*WebsocketListener, *http.Server) {
	l := NewWSListener(ctx, addr)
	mux := http.NewServeMux()
	mux.HandleFunc(websocketPath, websocketHandler(l))

	srv := &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	return l, srv
}

// websocketHandler upgrades the request and hands the connection over to l
func websocketHandler(l *WebsocketListener) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c, err := websocket.Accept(w, r, nil)
		if err != nil {
			log.Printf("websocket accept from %s: %v", r.RemoteAddr, err)
			return
		}

		select {
		case l.ch <- c:
		case <-l.ctx.Done():
			c.Close(websocket.StatusGoingAway, "root shutting down")
		}
	}
}

// WebsocketListener implements net.Listener on top of upgraded websocket connections
type WebsocketListener struct {
	ch     chan *websocket.Conn
	ctx    context.Context
	cancel context.CancelFunc
	addr   wsAddr
}

func NewWSListener(ctx context.Context, addr string) *WebsocketListener {
	ctx, cancel := context.WithCancel(ctx)
	return &WebsocketListener{
		ch:     make(chan *websocket.Conn),
		ctx:    ctx,
		cancel: cancel,
		addr:   wsAddr{addr: addr},
	}
}

func (l *WebsocketListener) Accept() (net.Conn, error) {
	select {
	case c := <-l.ch:
		return websocket.NetConn(l.ctx, c, websocket.MessageBinary), nil
	case <-l.ctx.Done():
		return nil, net.ErrClosed
	}
}

func (l *WebsocketListener) Addr() net.Addr {
	return l.addr
}

func (l *WebsocketListener) Close() error {
	l.cancel()
	return nil
}

// wsAddr implements net.Addr
type wsAddr struct {
	addr string
}

func (a wsAddr) Network() string {
	return "ws"
}

func (a wsAddr) String() string {
	return websocketURL(a.addr)
}

// dialWebsocket opens a binary websocket stream to the root at addr.
// The returned conn stays usable until it is closed, ctx only bounds the handshake.
func dialWebsocket(ctx context.Context, addr string) (net.Conn, error) {
	c, _, err := websocket.Dial(ctx, websocketURL(addr), nil)
	if err != nil {
		return nil, err
	}
	return websocket.NetConn(context.WithoutCancel(ctx), c, websocket.MessageBinary), nil
}
