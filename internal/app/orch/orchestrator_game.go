package orch

import (
	"github.com/dkeye/Pot/internal/core"
	"github.com/dkeye/Pot/internal/domain"
	"github.com/rs/zerolog/log"
)

func (o *Orchestrator) CreateGame(
	conn core.SignalConnection,
	username string,
	balance domain.Chips,
	maxPlayers int,
) (domain.GameID, error) {
	g, err := o.Registry.Create(maxPlayers, conn, username, balance)
	if err != nil {
		return "", err
	}
	log.Info().Str("module", "orch").Str("game_id", string(g.Game().ID)).Str("username", username).Msg("game master created game")
	return g.Game().ID, nil
}

// JoinGame seats username in the game; ack reaches conn before the join notice.
func (o *Orchestrator) JoinGame(
	conn core.SignalConnection,
	id domain.GameID,
	username string,
	balance domain.Chips,
	ack core.Frame,
) error {
	g, ok := o.Registry.Get(id)
	if !ok {
		return core.ErrNotFound
	}
	p, err := domain.NewParticipant(username, balance)
	if err != nil {
		return err
	}
	res, err := g.Join(conn, p, ack)
	if err != nil {
		return err
	}
	o.settle(g, res)
	return nil
}

func (o *Orchestrator) StartGame(conn core.ConnID, id domain.GameID) error {
	g, ok := o.Registry.Get(id)
	if !ok {
		return core.ErrNotFound
	}
	res, err := g.Start(conn)
	if err != nil {
		return err
	}
	o.settle(g, res)
	return nil
}

func (o *Orchestrator) Bet(id domain.GameID, username string, amount domain.Chips) error {
	g, ok := o.Registry.Get(id)
	if !ok {
		return core.ErrNotFound
	}
	res, err := g.Bet(username, amount)
	if err != nil {
		return err
	}
	o.settle(g, res)
	return nil
}

func (o *Orchestrator) EndRound(conn core.ConnID, id domain.GameID) error {
	g, ok := o.Registry.Get(id)
	if !ok {
		return core.ErrNotFound
	}
	res, err := g.EndRound(conn)
	if err != nil {
		return err
	}
	o.settle(g, res)
	return nil
}

// LeaveGame frees the seat. When the game master's own seat leaves, the game
// ends exactly as if the master had disconnected.
func (o *Orchestrator) LeaveGame(id domain.GameID, username string) error {
	g, ok := o.Registry.Get(id)
	if !ok {
		return core.ErrNotFound
	}
	res, closed, err := g.Leave(username)
	if err != nil {
		return err
	}
	if closed {
		o.Registry.Remove(id)
		log.Info().Str("module", "orch").Str("game_id", string(id)).Msg("game master left, game ended")
		return nil
	}
	o.settle(g, res)
	return nil
}
