package core

import "errors"

var (
	ErrNotFound            = errors.New("game not found")
	ErrFull                = errors.New("game is full")
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrUnauthorized        = errors.New("not the game master")
	ErrUnknownParticipant  = errors.New("unknown participant")
	ErrInvalidAmount       = errors.New("invalid bet amount")
	ErrNotStarted          = errors.New("game not started")

	ErrConnClosed   = errors.New("connection closed")
	ErrBackpressure = errors.New("backpressure")
)
