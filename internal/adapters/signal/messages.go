package signal

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dkeye/Pot/internal/core"
	"github.com/dkeye/Pot/internal/domain"
	"github.com/go-playground/validator/v10"
)

var (
	ErrMalformed   = errors.New("malformed message")
	ErrUnknownType = errors.New("unknown message type")
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Command is one decoded inbound message. The set is closed: only the types
// in this file implement it.
type Command interface {
	isCommand()
}

type CreateGame struct {
	Username   string       `json:"username" validate:"required,max=36"`
	InitialBal domain.Chips `json:"initialBal" validate:"gte=0"`
	MaxPlayers int          `json:"maxPlayers" validate:"gte=1"`
}

type JoinGame struct {
	GameID     domain.GameID `json:"gameId" validate:"required"`
	Username   string        `json:"username" validate:"required,max=36"`
	InitialBal domain.Chips  `json:"initialBal" validate:"gte=0"`
}

type StartGame struct {
	GameID domain.GameID `json:"gameId" validate:"required"`
}

// Bet leaves amount unchecked here; the game rejects non-positive bets with a
// dedicated reply.
type Bet struct {
	GameID   domain.GameID `json:"gameId" validate:"required"`
	Username string        `json:"username" validate:"required"`
	Amount   domain.Chips  `json:"amount"`
}

type EndRound struct {
	GameID domain.GameID `json:"gameId" validate:"required"`
}

type LeaveGame struct {
	GameID   domain.GameID `json:"gameId" validate:"required"`
	Username string        `json:"username" validate:"required"`
}

type Ping struct{}

func (*CreateGame) isCommand() {}
func (*JoinGame) isCommand()   {}
func (*StartGame) isCommand()  {}
func (*Bet) isCommand()        {}
func (*EndRound) isCommand()   {}
func (*LeaveGame) isCommand()  {}
func (*Ping) isCommand()       {}

// DecodeCommand reads the type discriminant and decodes the matching variant.
// ErrUnknownType is returned for discriminants outside the protocol and
// ErrMalformed for anything that does not decode or validate.
func DecodeCommand(data []byte) (Command, error) {
	var env struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	var cmd Command
	switch env.Type {
	case "createGame":
		cmd = &CreateGame{}
	case "joinGame":
		cmd = &JoinGame{}
	case "startGame":
		cmd = &StartGame{}
	case "bet":
		cmd = &Bet{}
	case "endRound":
		cmd = &EndRound{}
	case "leaveGame":
		cmd = &LeaveGame{}
	case "ping":
		cmd = &Ping{}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownType, env.Type)
	}

	if err := json.Unmarshal(data, cmd); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrMalformed, env.Type, err)
	}
	if err := validate.Struct(cmd); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrMalformed, env.Type, err)
	}
	return cmd, nil
}

// Reply is one outbound message.
type Reply interface {
	isReply()
}

type GameCreatedReply struct {
	Type   string        `json:"type"`
	GameID domain.GameID `json:"gameId"`
}

type JoinedReply struct {
	Type   string        `json:"type"`
	GameID domain.GameID `json:"gameId"`
}

type ErrorReply struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// MessageNotice is the only reply that is broadcast.
type MessageNotice struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

type PongReply struct {
	Type string `json:"type"`
}

func (GameCreatedReply) isReply() {}
func (JoinedReply) isReply()      {}
func (ErrorReply) isReply()       {}
func (MessageNotice) isReply()    {}
func (PongReply) isReply()        {}

func NewGameCreated(id domain.GameID) GameCreatedReply {
	return GameCreatedReply{Type: "gameCreated", GameID: id}
}

func NewJoined(id domain.GameID) JoinedReply {
	return JoinedReply{Type: "joined", GameID: id}
}

func NewError(msg string) ErrorReply {
	return ErrorReply{Type: "error", Message: msg}
}

func NewMessage(text string) MessageNotice {
	return MessageNotice{Type: "message", Message: text}
}

func NewPong() PongReply {
	return PongReply{Type: "pong"}
}

func Encode(r Reply) (core.Frame, error) {
	b, err := json.Marshal(r)
	if err != nil {
		return nil, err
	}
	return core.Frame(b), nil
}

// JSONCodec encodes broadcasts as message envelopes.
type JSONCodec struct{}

func (JSONCodec) EncodeNotice(text string) (core.Frame, error) {
	return Encode(NewMessage(text))
}
