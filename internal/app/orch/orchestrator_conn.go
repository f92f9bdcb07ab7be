package orch

import (
	"github.com/dkeye/Pot/internal/core"
	"github.com/rs/zerolog/log"
)

// OnDisconnect tears down every game conn was master of, then hands the seats
// conn still holds elsewhere to the stale policy.
func (o *Orchestrator) OnDisconnect(conn core.ConnID) {
	for _, g := range o.Registry.RemoveWhereAuthority(conn) {
		g.Close(farewell)
		log.Info().Str("module", "orch").Str("game_id", string(g.Game().ID)).Str("conn", string(conn)).Msg("game master disconnected, game ended")
	}

	for _, g := range o.Registry.GamesOf(conn) {
		for _, username := range g.SeatsOf(conn) {
			o.apply(g, core.DroppedDelivery{Username: username, Conn: conn, Err: core.ErrConnClosed})
		}
	}
}
