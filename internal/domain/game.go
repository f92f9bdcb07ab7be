package domain

type GameID string

// Game is the immutable part of a game: what it is called and how many seats it has.
type Game struct {
	ID         GameID
	MaxPlayers int
}
