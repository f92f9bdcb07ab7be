package app

import (
	"errors"
	"fmt"
	"sync"

	"github.com/dkeye/Pot/internal/core"
	"github.com/dkeye/Pot/internal/domain"
	"github.com/rs/zerolog/log"
)

var (
	ErrIDExhausted     = errors.New("no free game id")
	ErrInvalidCapacity = errors.New("max players must be at least 1")
)

const defaultIDAttempts = 16

type RegistryOptions struct {
	IDs        IDGenerator
	IDAttempts int
	Game       core.GameOptions
}

// Registry owns every live game of the process.
type Registry struct {
	mu    sync.RWMutex
	games map[domain.GameID]core.GameService

	dispatch *core.Dispatcher
	ids      IDGenerator
	attempts int
	gameOpts core.GameOptions
}

func NewRegistry(dispatch *core.Dispatcher, opts RegistryOptions) *Registry {
	if opts.IDs == nil {
		opts.IDs = NewRandomIDs(DefaultIDLength)
	}
	if opts.IDAttempts <= 0 {
		opts.IDAttempts = defaultIDAttempts
	}
	return &Registry{
		games:    make(map[domain.GameID]core.GameService),
		dispatch: dispatch,
		ids:      opts.IDs,
		attempts: opts.IDAttempts,
		gameOpts: opts.Game,
	}
}

// Create builds a game with master seated as username and stores it under a
// fresh id. Ids are checked against live games and redrawn on collision.
func (r *Registry) Create(
	maxPlayers int,
	master core.SignalConnection,
	username string,
	balance domain.Chips,
) (core.GameService, error) {
	if maxPlayers < 1 {
		return nil, ErrInvalidCapacity
	}
	first, err := domain.NewParticipant(username, balance)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	for i := 0; i < r.attempts; i++ {
		id, err := r.ids.NewID()
		if err != nil {
			return nil, fmt.Errorf("generate game id: %w", err)
		}
		if _, taken := r.games[id]; taken {
			log.Warn().Str("module", "app.registry").Str("game_id", string(id)).Msg("game id collision, retrying")
			continue
		}
		game := &domain.Game{ID: id, MaxPlayers: maxPlayers}
		g := core.NewGameService(game, master, first, r.dispatch, r.gameOpts)
		r.games[id] = g
		log.Info().Str("module", "app.registry").Str("game_id", string(id)).Str("conn", string(master.ID())).Str("username", username).Int("max_players", maxPlayers).Msg("created game")
		return g, nil
	}
	return nil, ErrIDExhausted
}

func (r *Registry) Get(id domain.GameID) (core.GameService, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	g, ok := r.games[id]
	return g, ok
}

func (r *Registry) Remove(id domain.GameID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.games[id]; !ok {
		return
	}
	delete(r.games, id)
	log.Info().Str("module", "app.registry").Str("game_id", string(id)).Msg("removed game")
}

// RemoveWhereAuthority drops every game mastered by conn and returns them so
// the caller can close them.
func (r *Registry) RemoveWhereAuthority(conn core.ConnID) []core.GameService {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []core.GameService
	for id, g := range r.games {
		if g.Authority() == conn {
			out = append(out, g)
			delete(r.games, id)
			log.Info().Str("module", "app.registry").Str("game_id", string(id)).Str("conn", string(conn)).Msg("removed game of departed master")
		}
	}
	return out
}

// GamesOf lists games in which conn holds at least one seat.
func (r *Registry) GamesOf(conn core.ConnID) []core.GameService {
	var out []core.GameService
	for _, g := range r.snapshot() {
		if len(g.SeatsOf(conn)) > 0 {
			out = append(out, g)
		}
	}
	return out
}

func (r *Registry) List() []core.GameInfo {
	games := r.snapshot()
	out := make([]core.GameInfo, 0, len(games))
	for _, g := range games {
		out = append(out, g.Info())
	}
	return out
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.games)
}

// snapshot copies the game set so game locks are never taken under r.mu.
func (r *Registry) snapshot() []core.GameService {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]core.GameService, 0, len(r.games))
	for _, g := range r.games {
		out = append(out, g)
	}
	return out
}
