package core

import (
	"github.com/dkeye/Pot/internal/domain"
)

// DroppedDelivery is one recipient a broadcast could not reach.
type DroppedDelivery struct {
	Username string
	Conn     ConnID
	Err      error
}

// PublishResult reports delivery stats/backpressure to orchestrator.
type PublishResult struct {
	SendTo  int
	Dropped []DroppedDelivery
}

// Merge folds other into r, keeping drop order.
func (r *PublishResult) Merge(other PublishResult) {
	r.SendTo += other.SendTo
	r.Dropped = append(r.Dropped, other.Dropped...)
}

// ParticipantDTO is a read-only view for APIs (no transport fields).
type ParticipantDTO struct {
	Username string       `json:"username"`
	Balance  domain.Chips `json:"balance"`
	Stale    bool         `json:"stale,omitempty"`
}

type GameInfo struct {
	ID         domain.GameID `json:"id"`
	Players    int           `json:"players"`
	MaxPlayers int           `json:"max_players"`
	Pot        domain.Chips  `json:"pot"`
	TurnIndex  int           `json:"turn_index"`
	Started    bool          `json:"started"`
}

// GameService is the core-facing API of one game.
// It owns the participant set but never touches transport resources.
// Every mutating call is atomic with respect to the others, including the
// broadcast it produces.
type GameService interface {
	Game() *domain.Game
	Authority() ConnID
	Info() GameInfo
	Participants() []ParticipantDTO
	// SeatsOf lists the usernames whose seat is held by conn.
	SeatsOf(conn ConnID) []string

	// Join seats p, replacing any seat with the same username. ack is sent to
	// conn before the join broadcast so the requester sees it first.
	Join(conn SignalConnection, p *domain.Participant, ack Frame) (PublishResult, error)
	Start(by ConnID) (PublishResult, error)
	Bet(username string, amount domain.Chips) (PublishResult, error)
	EndRound(by ConnID) (PublishResult, error)
	// Leave removes the seat. The returned bool reports that the game was
	// closed because the game master's own seat left.
	Leave(username string) (PublishResult, bool, error)
	// Evict is Leave guarded by the seat still belonging to conn.
	Evict(username string, conn ConnID) (PublishResult, bool, error)
	MarkStale(username string, conn ConnID)
	// Close tears the game down; farewell, when set, is broadcast first.
	Close(farewell string) PublishResult
	Closed() bool
}
