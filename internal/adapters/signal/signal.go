package signal

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/dkeye/Pot/internal/app/orch"
	"github.com/dkeye/Pot/internal/core"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

type Options struct {
	ReadLimit    int64
	WriteWait    time.Duration
	PongWait     time.Duration
	PingPeriod   time.Duration
	SendBuffer   int
	RateLimit    int
	RateInterval time.Duration
}

type SignalWSController struct {
	Orch    *orch.Orchestrator
	opts    Options
	limiter *ConnRateLimiter
}

func NewSignalWSController(o *orch.Orchestrator, opts Options) *SignalWSController {
	ctl := &SignalWSController{Orch: o, opts: opts}
	if opts.RateLimit > 0 {
		ctl.limiter = NewConnRateLimiter(opts.RateLimit, opts.RateInterval)
	}
	return ctl
}

// wsConn is an indirection over *websocket.Conn to ease testing.
type wsConn interface {
	ReadMessage() (int, []byte, error)
	WriteMessage(mt int, data []byte) error
	SetReadLimit(limit int64)
	SetReadDeadline(t time.Time) error
	SetWriteDeadline(t time.Time) error
	SetPongHandler(h func(appData string) error)
	Close() error
}

// WsSignalConn is a transport endpoint (WebSocket).
// It implements core.SignalConnection.
type WsSignalConn struct {
	id   core.ConnID
	conn wsConn
	send chan core.Frame

	mu     sync.RWMutex
	closed bool
}

func newWsSignalConn(id core.ConnID, conn wsConn, buffer int) *WsSignalConn {
	return &WsSignalConn{
		id:   id,
		conn: conn,
		send: make(chan core.Frame, buffer),
	}
}

func (c *WsSignalConn) ID() core.ConnID { return c.id }

func (c *WsSignalConn) TrySend(f core.Frame) error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closed {
		return core.ErrConnClosed
	}
	select {
	case c.send <- f:
	default:
		return core.ErrBackpressure
	}
	return nil
}

func (c *WsSignalConn) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	close(c.send)
	_ = c.conn.Close()
}

func (c *WsSignalConn) IsClosed() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.closed
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

func (ctl *SignalWSController) HandleSignal(ctx context.Context, c *gin.Context) {
	token := c.GetString("client_token")

	ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("ws upgrade")
		return
	}

	conn := newWsSignalConn(core.ConnID(uuid.NewString()), ws, ctl.opts.SendBuffer)
	log.Info().Str("module", "signal").Str("conn", string(conn.ID())).Str("client_token", token).Msg("new WS connection")

	go ctl.writePump(conn)
	go ctl.readPump(ctx, conn)
}
