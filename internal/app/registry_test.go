package app

import (
	"testing"

	"github.com/dkeye/Pot/internal/core"
	"github.com/dkeye/Pot/internal/core/coretest"
	"github.com/dkeye/Pot/internal/domain"
	"github.com/stretchr/testify/require"
)

type seqIDs struct {
	ids []domain.GameID
	i   int
}

func (s *seqIDs) NewID() (domain.GameID, error) {
	id := s.ids[s.i%len(s.ids)]
	s.i++
	return id, nil
}

func newTestRegistry(ids IDGenerator) *Registry {
	return NewRegistry(core.NewDispatcher(coretest.TextEncoder{}), RegistryOptions{IDs: ids, IDAttempts: 3})
}

func TestRegistryCreateGet(t *testing.T) {
	r := newTestRegistry(nil)
	a := coretest.NewConn("a")

	g, err := r.Create(4, a, "A", 100)
	require.NoError(t, err)
	require.Len(t, string(g.Game().ID), DefaultIDLength)
	require.Equal(t, core.ConnID("a"), g.Authority())

	got, ok := r.Get(g.Game().ID)
	require.True(t, ok)
	require.Same(t, g, got)
	require.Equal(t, []core.ParticipantDTO{{Username: "A", Balance: 100}}, g.Participants())

	r.Remove(g.Game().ID)
	_, ok = r.Get(g.Game().ID)
	require.False(t, ok)
}

func TestRegistryCreateRetriesOnCollision(t *testing.T) {
	ids := &seqIDs{ids: []domain.GameID{"aaa", "aaa", "bbb"}}
	r := newTestRegistry(ids)

	g1, err := r.Create(2, coretest.NewConn("a"), "A", 10)
	require.NoError(t, err)
	g2, err := r.Create(2, coretest.NewConn("b"), "B", 10)
	require.NoError(t, err)

	require.Equal(t, domain.GameID("aaa"), g1.Game().ID)
	require.Equal(t, domain.GameID("bbb"), g2.Game().ID)
	require.Equal(t, 2, r.Len())
}

func TestRegistryCreateExhaustsIDs(t *testing.T) {
	r := newTestRegistry(&seqIDs{ids: []domain.GameID{"same"}})

	_, err := r.Create(2, coretest.NewConn("a"), "A", 10)
	require.NoError(t, err)
	_, err = r.Create(2, coretest.NewConn("b"), "B", 10)
	require.ErrorIs(t, err, ErrIDExhausted)
}

func TestRegistryCreateValidates(t *testing.T) {
	r := newTestRegistry(nil)

	_, err := r.Create(0, coretest.NewConn("a"), "A", 10)
	require.ErrorIs(t, err, ErrInvalidCapacity)
	_, err = r.Create(2, coretest.NewConn("a"), "", 10)
	require.ErrorIs(t, err, domain.ErrUsernameEmpty)
	require.Zero(t, r.Len())
}

func TestRegistryRemoveWhereAuthority(t *testing.T) {
	r := newTestRegistry(nil)
	a, b := coretest.NewConn("a"), coretest.NewConn("b")

	g1, err := r.Create(2, a, "A", 10)
	require.NoError(t, err)
	_, err = r.Create(2, a, "A2", 10)
	require.NoError(t, err)
	g3, err := r.Create(2, b, "B", 10)
	require.NoError(t, err)

	_, err = g3.Join(a, &domain.Participant{Username: "A", Balance: 5}, nil)
	require.NoError(t, err)

	removed := r.RemoveWhereAuthority("a")
	require.Len(t, removed, 2)
	_, ok := r.Get(g1.Game().ID)
	require.False(t, ok)

	games := r.GamesOf("a")
	require.Len(t, games, 1)
	require.Same(t, g3, games[0])

	list := r.List()
	require.Len(t, list, 1)
	require.Equal(t, 2, list[0].Players)
}

func TestRandomIDs(t *testing.T) {
	g := NewRandomIDs(6)
	seen := make(map[domain.GameID]bool)
	for i := 0; i < 100; i++ {
		id, err := g.NewID()
		require.NoError(t, err)
		require.Regexp(t, `^[0-9a-z]{6}$`, string(id))
		seen[id] = true
	}
	require.Greater(t, len(seen), 90)
}
