package signal

import (
	"errors"

	"github.com/dkeye/Pot/internal/app"
	"github.com/dkeye/Pot/internal/core"
	"github.com/dkeye/Pot/internal/domain"
	"github.com/rs/zerolog/log"
)

const msgInvalid = "Invalid message"

// replyText maps an orchestrator error onto the text the sender sees.
// Errors without a text are swallowed: unauthorized actions and unknown
// usernames stay silent.
func replyText(err error) (string, bool) {
	switch {
	case errors.Is(err, core.ErrNotFound):
		return "Game not found", true
	case errors.Is(err, core.ErrFull):
		return "Game is full", true
	case errors.Is(err, core.ErrInsufficientBalance):
		return "Insufficient balance", true
	case errors.Is(err, core.ErrInvalidAmount):
		return "Invalid bet amount", true
	case errors.Is(err, core.ErrNotStarted):
		return "Game not started", true
	case errors.Is(err, app.ErrIDExhausted):
		return "Could not create game", true
	case errors.Is(err, ErrMalformed),
		errors.Is(err, app.ErrInvalidCapacity),
		errors.Is(err, domain.ErrUsernameEmpty),
		errors.Is(err, domain.ErrUsernameTooLong):
		return msgInvalid, true
	}
	return "", false
}

// replyErr reports err to the sender when it is user-visible. A missing game
// is only reported for joinGame; every other command ignores it.
func (ctl *SignalWSController) replyErr(c *WsSignalConn, err error, reportNotFound bool) {
	if err == nil {
		return
	}
	if !reportNotFound && errors.Is(err, core.ErrNotFound) {
		return
	}
	text, ok := replyText(err)
	if !ok {
		log.Debug().Err(err).Str("module", "signal").Str("conn", string(c.ID())).Msg("ignored command")
		return
	}
	ctl.sendReply(c, NewError(text))
}

func (ctl *SignalWSController) handleCreate(c *WsSignalConn, cmd *CreateGame) {
	id, err := ctl.Orch.CreateGame(c, cmd.Username, cmd.InitialBal, cmd.MaxPlayers)
	if err != nil {
		ctl.replyErr(c, err, true)
		return
	}
	log.Info().Str("module", "signal").Str("conn", string(c.ID())).Str("game_id", string(id)).Msg("createGame")
	ctl.sendReply(c, NewGameCreated(id))
}

func (ctl *SignalWSController) handleJoin(c *WsSignalConn, cmd *JoinGame) {
	ack, err := Encode(NewJoined(cmd.GameID))
	if err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("encode joined")
		return
	}
	err = ctl.Orch.JoinGame(c, cmd.GameID, cmd.Username, cmd.InitialBal, ack)
	ctl.replyErr(c, err, true)
}

func (ctl *SignalWSController) handleStart(c *WsSignalConn, cmd *StartGame) {
	ctl.replyErr(c, ctl.Orch.StartGame(c.ID(), cmd.GameID), false)
}

func (ctl *SignalWSController) handleBet(c *WsSignalConn, cmd *Bet) {
	ctl.replyErr(c, ctl.Orch.Bet(cmd.GameID, cmd.Username, cmd.Amount), false)
}

func (ctl *SignalWSController) handleEndRound(c *WsSignalConn, cmd *EndRound) {
	ctl.replyErr(c, ctl.Orch.EndRound(c.ID(), cmd.GameID), false)
}

func (ctl *SignalWSController) handleLeave(c *WsSignalConn, cmd *LeaveGame) {
	ctl.replyErr(c, ctl.Orch.LeaveGame(cmd.GameID, cmd.Username), false)
}
