package orch

import (
	"github.com/dkeye/Pot/internal/app"
	"github.com/dkeye/Pot/internal/core"
	"github.com/rs/zerolog/log"
)

const farewell = "Game ended"

type Orchestrator struct {
	Registry *app.Registry
	Policy   app.Policy
}

// settle applies the stale policy to every recipient a broadcast missed.
// Removing a seat broadcasts again, so this recurses until nothing new drops.
func (o *Orchestrator) settle(g core.GameService, res core.PublishResult) {
	if o.Policy == nil || len(res.Dropped) == 0 {
		return
	}
	for _, d := range res.Dropped {
		o.apply(g, d)
	}
}

func (o *Orchestrator) apply(g core.GameService, d core.DroppedDelivery) {
	action := o.Policy.OnUndeliverable(g, d)
	log.Warn().
		Err(d.Err).
		Str("module", "orch").
		Str("game_id", string(g.Game().ID)).
		Str("username", d.Username).
		Str("conn", string(d.Conn)).
		Stringer("action", action).
		Msg("undeliverable participant")

	switch action {
	case app.MarkStale:
		g.MarkStale(d.Username, d.Conn)
	case app.RemoveParticipant:
		res, closed, err := g.Evict(d.Username, d.Conn)
		if err != nil {
			return
		}
		if closed {
			o.Registry.Remove(g.Game().ID)
		}
		o.settle(g, res)
	case app.NoAction:
	}
}
