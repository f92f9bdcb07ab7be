package core

import (
	"fmt"
	"math"
	"sync"

	"github.com/dkeye/Pot/internal/domain"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type GameOptions struct {
	// RequireStart rejects bets until the game master started the game.
	RequireStart bool
}

// seat pairs a participant with its transport endpoint.
type seat struct {
	meta  *domain.Participant
	conn  SignalConnection
	stale bool
}

// gameImpl is a threadsafe in-memory game.
// It never closes adapter-owned resources.
type gameImpl struct {
	game       *domain.Game
	authority  ConnID
	masterName string
	opts       GameOptions
	dispatch   *Dispatcher

	mu        sync.Mutex
	seats     map[string]*seat
	order     []string
	pot       domain.Chips
	turnIndex int
	started   bool
	closed    bool
}

// NewGameService seats the game master as the first participant.
func NewGameService(game *domain.Game, master SignalConnection, first *domain.Participant, d *Dispatcher, opts GameOptions) GameService {
	g := &gameImpl{
		game:       game,
		authority:  master.ID(),
		masterName: first.Username,
		opts:       opts,
		dispatch:   d,
		seats:      make(map[string]*seat),
	}
	g.seat(master, first)
	return g
}

func (g *gameImpl) Game() *domain.Game { return g.game }
func (g *gameImpl) Authority() ConnID  { return g.authority }

func (g *gameImpl) logger() *zerolog.Logger {
	l := log.With().Str("module", "core.game").Str("game_id", string(g.game.ID)).Logger()
	return &l
}

func (g *gameImpl) Info() GameInfo {
	g.mu.Lock()
	defer g.mu.Unlock()
	return GameInfo{
		ID:         g.game.ID,
		Players:    len(g.seats),
		MaxPlayers: g.game.MaxPlayers,
		Pot:        g.pot,
		TurnIndex:  g.turnIndex,
		Started:    g.started,
	}
}

func (g *gameImpl) Participants() []ParticipantDTO {
	g.mu.Lock()
	defer g.mu.Unlock()
	out := make([]ParticipantDTO, 0, len(g.order))
	for _, name := range g.order {
		s := g.seats[name]
		out = append(out, ParticipantDTO{Username: s.meta.Username, Balance: s.meta.Balance, Stale: s.stale})
	}
	return out
}

func (g *gameImpl) SeatsOf(conn ConnID) []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	var out []string
	for _, name := range g.order {
		if g.seats[name].conn.ID() == conn {
			out = append(out, name)
		}
	}
	return out
}

func (g *gameImpl) Closed() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.closed
}

func (g *gameImpl) Join(conn SignalConnection, p *domain.Participant, ack Frame) (PublishResult, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.closed {
		return PublishResult{}, ErrNotFound
	}
	if len(g.seats) >= g.game.MaxPlayers {
		return PublishResult{}, ErrFull
	}
	if prev, ok := g.seats[p.Username]; ok {
		g.logger().Warn().Str("username", p.Username).Str("prev_conn", string(prev.conn.ID())).Str("conn", string(conn.ID())).Msg("seat replaced on rejoin")
	}
	g.seat(conn, p)
	if ack != nil {
		if err := Unicast(conn, ack); err != nil {
			g.logger().Warn().Err(err).Str("conn", string(conn.ID())).Msg("join ack not delivered")
		}
	}
	g.logger().Info().Str("username", p.Username).Str("conn", string(conn.ID())).Int("players", len(g.seats)).Msg("participant joined")
	return g.broadcast(fmt.Sprintf("%s joined the game", p.Username)), nil
}

func (g *gameImpl) Start(by ConnID) (PublishResult, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.closed {
		return PublishResult{}, ErrNotFound
	}
	if by != g.authority {
		return PublishResult{}, ErrUnauthorized
	}
	g.started = true
	g.logger().Info().Msg("game started")
	return g.broadcast("Game started!"), nil
}

func (g *gameImpl) Bet(username string, amount domain.Chips) (PublishResult, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.closed {
		return PublishResult{}, ErrNotFound
	}
	s, ok := g.seats[username]
	if !ok {
		return PublishResult{}, ErrUnknownParticipant
	}
	if amount <= 0 {
		return PublishResult{}, ErrInvalidAmount
	}
	if g.opts.RequireStart && !g.started {
		return PublishResult{}, ErrNotStarted
	}
	if s.meta.Balance < amount {
		return PublishResult{}, ErrInsufficientBalance
	}
	if g.pot > math.MaxInt64-amount {
		return PublishResult{}, ErrInvalidAmount
	}
	s.meta.Balance -= amount
	g.pot += amount
	g.logger().Info().Str("username", username).Int64("amount", int64(amount)).Int64("pot", int64(g.pot)).Msg("bet placed")
	return g.broadcast(fmt.Sprintf("%s bet %d chips. Pot: %d", username, amount, g.pot)), nil
}

func (g *gameImpl) EndRound(by ConnID) (PublishResult, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.closed {
		return PublishResult{}, ErrNotFound
	}
	if by != g.authority {
		return PublishResult{}, ErrUnauthorized
	}
	// The notice goes out before the reset; the pot is discarded, not paid out.
	res := g.broadcast("Round ended. Pot resets.")
	g.logger().Info().Int64("discarded_pot", int64(g.pot)).Msg("round ended")
	g.pot = 0
	return res, nil
}

func (g *gameImpl) Leave(username string) (PublishResult, bool, error) {
	return g.leave(username, "")
}

func (g *gameImpl) Evict(username string, conn ConnID) (PublishResult, bool, error) {
	return g.leave(username, conn)
}

func (g *gameImpl) leave(username string, guard ConnID) (PublishResult, bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.closed {
		return PublishResult{}, false, ErrNotFound
	}
	s, ok := g.seats[username]
	if !ok || (guard != "" && s.conn.ID() != guard) {
		return PublishResult{}, false, ErrUnknownParticipant
	}
	g.unseat(username)
	g.logger().Info().Str("username", username).Int("players", len(g.seats)).Msg("participant left")
	res := g.broadcast(fmt.Sprintf("%s left the game", username))
	if username != g.masterName || s.conn.ID() != g.authority {
		return res, false, nil
	}
	res.Merge(g.close("Game ended"))
	return res, true, nil
}

func (g *gameImpl) MarkStale(username string, conn ConnID) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if s, ok := g.seats[username]; ok && s.conn.ID() == conn && !s.stale {
		s.stale = true
		g.logger().Warn().Str("username", username).Str("conn", string(conn)).Msg("participant marked stale")
	}
}

func (g *gameImpl) Close(farewell string) PublishResult {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.close(farewell)
}

func (g *gameImpl) close(farewell string) PublishResult {
	if g.closed {
		return PublishResult{}
	}
	var res PublishResult
	if farewell != "" {
		res = g.broadcast(farewell)
	}
	g.closed = true
	g.seats = make(map[string]*seat)
	g.order = nil
	g.pot = 0
	g.logger().Info().Msg("game closed")
	return res
}

// seat inserts or replaces; a replaced seat keeps its join position.
func (g *gameImpl) seat(conn SignalConnection, p *domain.Participant) {
	if _, ok := g.seats[p.Username]; !ok {
		g.order = append(g.order, p.Username)
	}
	g.seats[p.Username] = &seat{meta: p, conn: conn}
}

func (g *gameImpl) unseat(username string) {
	delete(g.seats, username)
	for i, name := range g.order {
		if name == username {
			g.order = append(g.order[:i], g.order[i+1:]...)
			break
		}
	}
}

// broadcast must be called with g.mu held.
func (g *gameImpl) broadcast(text string) PublishResult {
	recipients := make([]Recipient, 0, len(g.order))
	for _, name := range g.order {
		recipients = append(recipients, Recipient{Username: name, Conn: g.seats[name].conn})
	}
	return g.dispatch.Broadcast(recipients, text)
}
