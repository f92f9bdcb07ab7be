package signal

import (
	"context"
	"errors"
	"time"

	"github.com/dkeye/Pot/internal/core"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
	"github.com/sourcegraph/conc/panics"
)

func (ctl *SignalWSController) writePump(c *WsSignalConn) {
	ticker := time.NewTicker(ctl.opts.PingPeriod)
	defer func() {
		ticker.Stop()
		c.Close()
	}()

	for {
		select {
		case data, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(ctl.opts.WriteWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				log.Debug().Str("module", "signal").Str("conn", string(c.ID())).Msg("writePump channel closed")
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				log.Error().Err(err).Str("module", "signal").Str("conn", string(c.ID())).Msg("writePump write error")
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(ctl.opts.WriteWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				log.Debug().Err(err).Str("module", "signal").Str("conn", string(c.ID())).Msg("writePump ping error")
				return
			}
		}
	}
}

// readPump owns the connection's lifetime: when it returns the connection is
// closed and the orchestrator is told about the disconnect.
func (ctl *SignalWSController) readPump(ctx context.Context, c *WsSignalConn) {
	stop := context.AfterFunc(ctx, c.Close)
	defer func() {
		stop()
		c.Close()
		ctl.Orch.OnDisconnect(c.ID())
		if ctl.limiter != nil {
			ctl.limiter.Forget(c.ID())
		}
		log.Info().Str("module", "signal").Str("conn", string(c.ID())).Msg("readPump closing")
	}()

	if ctl.opts.ReadLimit > 0 {
		c.conn.SetReadLimit(ctl.opts.ReadLimit)
	}
	_ = c.conn.SetReadDeadline(time.Now().Add(ctl.opts.PongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(ctl.opts.PongWait))
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseNoStatusReceived) {
				log.Warn().Err(err).Str("module", "signal").Str("conn", string(c.ID())).Msg("readPump read error")
			}
			return
		}
		ctl.handleSignal(c, data)
	}
}

// handleSignal processes one inbound message. Nothing it does can take the
// connection down: decode failures get an error reply, panics are logged.
func (ctl *SignalWSController) handleSignal(c *WsSignalConn, data []byte) {
	if ctl.limiter != nil && !ctl.limiter.Allow(c.ID()) {
		log.Warn().Str("module", "signal").Str("conn", string(c.ID())).Msg("rate limited")
		ctl.sendReply(c, NewError("Too many requests"))
		return
	}

	cmd, err := DecodeCommand(data)
	switch {
	case errors.Is(err, ErrUnknownType):
		log.Warn().Err(err).Str("module", "signal").Str("conn", string(c.ID())).Msg("unknown signal")
		return
	case err != nil:
		log.Warn().Err(err).Str("module", "signal").Str("conn", string(c.ID())).Msg("bad payload")
		ctl.sendReply(c, NewError(msgInvalid))
		return
	}

	var pc panics.Catcher
	pc.Try(func() { ctl.dispatch(c, cmd) })
	if r := pc.Recovered(); r != nil {
		log.Error().Err(r.AsError()).Str("module", "signal").Str("conn", string(c.ID())).Bytes("stack", r.Stack).Msg("handler panic")
	}
}

func (ctl *SignalWSController) dispatch(c *WsSignalConn, cmd Command) {
	switch cmd := cmd.(type) {
	case *CreateGame:
		ctl.handleCreate(c, cmd)
	case *JoinGame:
		ctl.handleJoin(c, cmd)
	case *StartGame:
		ctl.handleStart(c, cmd)
	case *Bet:
		ctl.handleBet(c, cmd)
	case *EndRound:
		ctl.handleEndRound(c, cmd)
	case *LeaveGame:
		ctl.handleLeave(c, cmd)
	case *Ping:
		ctl.handlePing(c)
	default:
		log.Error().Str("module", "signal").Type("command", cmd).Msg("command without handler")
	}
}

func (ctl *SignalWSController) sendReply(c core.SignalConnection, r Reply) {
	f, err := Encode(r)
	if err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("sendReply marshal")
		return
	}
	if err := c.TrySend(f); err != nil {
		log.Warn().Err(err).Str("module", "signal").Str("conn", string(c.ID())).Msg("reply not delivered")
	}
}
