package app

import (
	"errors"

	"github.com/dkeye/Pot/internal/core"
)

type StaleAction int

const (
	NoAction StaleAction = iota
	MarkStale
	RemoveParticipant
)

func (a StaleAction) String() string {
	switch a {
	case MarkStale:
		return "mark_stale"
	case RemoveParticipant:
		return "remove"
	default:
		return "none"
	}
}

// Policy decides what happens to a seat whose connection could not be reached.
type Policy interface {
	OnUndeliverable(game core.GameService, d core.DroppedDelivery) StaleAction
}

// RemovePolicy frees seats of closed connections and only flags slow ones.
type RemovePolicy struct{}

func (RemovePolicy) OnUndeliverable(_ core.GameService, d core.DroppedDelivery) StaleAction {
	if errors.Is(d.Err, core.ErrConnClosed) {
		return RemoveParticipant
	}
	return MarkStale
}

// KeepPolicy never frees a seat implicitly; it has to be left explicitly.
type KeepPolicy struct{}

func (KeepPolicy) OnUndeliverable(core.GameService, core.DroppedDelivery) StaleAction {
	return MarkStale
}

// PolicyFor maps a config value to a policy; unknown names get RemovePolicy.
func PolicyFor(name string) Policy {
	if name == "keep" {
		return KeepPolicy{}
	}
	return RemovePolicy{}
}
