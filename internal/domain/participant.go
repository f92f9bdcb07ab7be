// Package domain contains entity without logic, just meta-data
package domain

import (
	"errors"
	"unicode/utf8"
)

// MaxUsernameLen is counted in characters, not bytes.
const MaxUsernameLen = 36

var (
	ErrUsernameTooLong = errors.New("username too long")
	ErrUsernameEmpty   = errors.New("username empty")
)

// Chips is a whole number of chips; balances and the pot are kept in it.
type Chips int64

// Participant is a named seat inside a game.
// No transport or lifecycle logic here.
type Participant struct {
	Username string `json:"username"`
	Balance  Chips  `json:"balance"`
}

// NewParticipant avoids raw literals in adapters and keeps construction obvious.
func NewParticipant(username string, balance Chips) (*Participant, error) {
	if err := ValidateUsername(username); err != nil {
		return nil, err
	}
	return &Participant{Username: username, Balance: balance}, nil
}

func ValidateUsername(username string) error {
	if len(username) == 0 {
		return ErrUsernameEmpty
	}
	if utf8.RuneCountInString(username) > MaxUsernameLen {
		return ErrUsernameTooLong
	}
	return nil
}
