package orch

import (
	"testing"

	"github.com/dkeye/Pot/internal/app"
	"github.com/dkeye/Pot/internal/core"
	"github.com/dkeye/Pot/internal/core/coretest"
	"github.com/dkeye/Pot/internal/domain"
	"github.com/stretchr/testify/require"
)

func newTestOrchestrator(policy app.Policy) *Orchestrator {
	reg := app.NewRegistry(core.NewDispatcher(coretest.TextEncoder{}), app.RegistryOptions{})
	return &Orchestrator{Registry: reg, Policy: policy}
}

func TestScenarioTwoPlayerRound(t *testing.T) {
	o := newTestOrchestrator(app.RemovePolicy{})
	a, b, c := coretest.NewConn("a"), coretest.NewConn("b"), coretest.NewConn("c")

	id, err := o.CreateGame(a, "A", 100, 2)
	require.NoError(t, err)
	require.NotEmpty(t, id)

	require.NoError(t, o.JoinGame(b, id, "B", 50, core.Frame("joined")))
	require.Equal(t, []string{"joined", "B joined the game"}, b.Texts())
	require.Equal(t, []string{"B joined the game"}, a.Texts())

	require.NoError(t, o.Bet(id, "B", 30))
	g, ok := o.Registry.Get(id)
	require.True(t, ok)
	require.Equal(t, domain.Chips(30), g.Info().Pot)
	require.Equal(t, domain.Chips(20), g.Participants()[1].Balance)
	require.Equal(t, "B bet 30 chips. Pot: 30", a.Texts()[1])

	require.NoError(t, o.EndRound("a", id))
	require.Equal(t, domain.Chips(0), g.Info().Pot)
	require.Equal(t, "Round ended. Pot resets.", b.Texts()[3])

	err = o.JoinGame(c, id, "C", 10, nil)
	require.ErrorIs(t, err, core.ErrFull)
	require.Empty(t, c.Texts())
}

func TestJoinUnknownGame(t *testing.T) {
	o := newTestOrchestrator(app.RemovePolicy{})
	err := o.JoinGame(coretest.NewConn("b"), "nope", "B", 10, nil)
	require.ErrorIs(t, err, core.ErrNotFound)
}

func TestNonMasterCannotStartOrEndRound(t *testing.T) {
	o := newTestOrchestrator(app.RemovePolicy{})
	a, b := coretest.NewConn("a"), coretest.NewConn("b")
	id, err := o.CreateGame(a, "A", 100, 3)
	require.NoError(t, err)
	require.NoError(t, o.JoinGame(b, id, "B", 50, nil))
	require.NoError(t, o.Bet(id, "A", 40))
	a.Reset()
	b.Reset()

	require.ErrorIs(t, o.StartGame("b", id), core.ErrUnauthorized)
	require.ErrorIs(t, o.EndRound("b", id), core.ErrUnauthorized)

	g, _ := o.Registry.Get(id)
	require.False(t, g.Info().Started)
	require.Equal(t, domain.Chips(40), g.Info().Pot)
	require.Empty(t, a.Texts())
	require.Empty(t, b.Texts())

	require.NoError(t, o.StartGame("a", id))
	require.Equal(t, []string{"Game started!"}, b.Texts())
}

func TestMasterDisconnectRemovesGame(t *testing.T) {
	o := newTestOrchestrator(app.RemovePolicy{})
	a, b := coretest.NewConn("a"), coretest.NewConn("b")
	id, err := o.CreateGame(a, "A", 100, 3)
	require.NoError(t, err)
	require.NoError(t, o.JoinGame(b, id, "B", 50, nil))

	a.Close()
	o.OnDisconnect("a")

	require.Equal(t, "Game ended", b.Texts()[len(b.Texts())-1])
	require.ErrorIs(t, o.JoinGame(coretest.NewConn("c"), id, "C", 10, nil), core.ErrNotFound)
	require.Zero(t, o.Registry.Len())
}

func TestMasterLeaveEndsGame(t *testing.T) {
	o := newTestOrchestrator(app.RemovePolicy{})
	a, b := coretest.NewConn("a"), coretest.NewConn("b")
	id, err := o.CreateGame(a, "A", 100, 3)
	require.NoError(t, err)
	require.NoError(t, o.JoinGame(b, id, "B", 50, nil))

	require.NoError(t, o.LeaveGame(id, "A"))
	require.Equal(t, []string{"B joined the game", "A left the game", "Game ended"}, b.Texts())
	_, ok := o.Registry.Get(id)
	require.False(t, ok)
}

func TestPlayerDisconnectWithRemovePolicy(t *testing.T) {
	o := newTestOrchestrator(app.RemovePolicy{})
	a, b := coretest.NewConn("a"), coretest.NewConn("b")
	id, err := o.CreateGame(a, "A", 100, 3)
	require.NoError(t, err)
	require.NoError(t, o.JoinGame(b, id, "B", 50, nil))

	b.Close()
	o.OnDisconnect("b")

	g, _ := o.Registry.Get(id)
	require.Equal(t, 1, g.Info().Players)
	require.Equal(t, "B left the game", a.Texts()[len(a.Texts())-1])
}

func TestPlayerDisconnectWithKeepPolicy(t *testing.T) {
	o := newTestOrchestrator(app.KeepPolicy{})
	a, b := coretest.NewConn("a"), coretest.NewConn("b")
	id, err := o.CreateGame(a, "A", 100, 3)
	require.NoError(t, err)
	require.NoError(t, o.JoinGame(b, id, "B", 50, nil))

	b.Close()
	o.OnDisconnect("b")

	g, _ := o.Registry.Get(id)
	ps := g.Participants()
	require.Len(t, ps, 2)
	require.True(t, ps[1].Stale)

	// A broadcast still reaches everyone else.
	require.NoError(t, o.Bet(id, "A", 5))
	require.Equal(t, "A bet 5 chips. Pot: 5", a.Texts()[len(a.Texts())-1])

	require.NoError(t, o.LeaveGame(id, "B"))
	require.Equal(t, 1, g.Info().Players)
}

func TestClosedRecipientIsEvictedOnBroadcast(t *testing.T) {
	o := newTestOrchestrator(app.RemovePolicy{})
	a, b, c := coretest.NewConn("a"), coretest.NewConn("b"), coretest.NewConn("c")
	id, err := o.CreateGame(a, "A", 100, 3)
	require.NoError(t, err)
	require.NoError(t, o.JoinGame(b, id, "B", 50, nil))
	require.NoError(t, o.JoinGame(c, id, "C", 50, nil))

	b.Close()
	require.NoError(t, o.Bet(id, "C", 10))

	g, _ := o.Registry.Get(id)
	require.Equal(t, 2, g.Info().Players)
	texts := c.Texts()
	require.Equal(t, []string{"C bet 10 chips. Pot: 10", "B left the game"}, texts[len(texts)-2:])
}

func TestSilentNoOps(t *testing.T) {
	o := newTestOrchestrator(app.RemovePolicy{})
	a := coretest.NewConn("a")
	id, err := o.CreateGame(a, "A", 100, 3)
	require.NoError(t, err)

	require.ErrorIs(t, o.Bet(id, "ghost", 10), core.ErrUnknownParticipant)
	require.ErrorIs(t, o.LeaveGame(id, "ghost"), core.ErrUnknownParticipant)
	require.ErrorIs(t, o.Bet("nope", "A", 10), core.ErrNotFound)
	require.ErrorIs(t, o.StartGame("a", "nope"), core.ErrNotFound)
	require.Empty(t, a.Texts())
}
