package reconcile

import (
	"context"
	"errors"
	"testing"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/guessfeud/client-go/clients"
	"github.com/guessfeud/client-go/internal/game"
	"github.com/guessfeud/client-go/internal/notify"
)

type nopAlerter struct{}

func (nopAlerter) Alert(string)                {}
func (nopAlerter) Push(string, string, string) {}
func (nopAlerter) CanPush() bool               { return false }
func (nopAlerter) RequestPushPermission()      {}

type recordingAI struct {
	snaps []*game.Snapshot
}

func (a *recordingAI) Evaluate(snap *game.Snapshot) { a.snaps = append(a.snaps, snap) }

type fakeGuessAPI struct {
	resp  *clients.GuessResponse
	err   error
	calls []string
}

func (f *fakeGuessAPI) SubmitGuess(_ context.Context, _ clients.Credentials, word string) (*clients.GuessResponse, error) {
	f.calls = append(f.calls, word)
	return f.resp, f.err
}

type viewCollector struct {
	views []View
}

func (c *viewCollector) ViewUpdated(v View) { c.views = append(c.views, v) }

func creds() clients.Credentials {
	return clients.Credentials{GameCode: "ABCD", PlayerID: "me", SessionToken: "tok"}
}

func newTestReconciler(api GuessAPI, ai AIDriver) *Reconciler {
	if ai == nil {
		ai = &recordingAI{}
	}
	return New(creds(), api, notify.NewTurnNotifier(nopAlerter{}), ai, clockwork.NewFakeClock())
}

func playingSnap() *game.Snapshot {
	return &game.Snapshot{
		Status:          game.StatusPlaying,
		AllWordsSet:     true,
		CurrentPlayerID: "me",
		Theme:           "flowers",
		Players: []game.Player{
			{ID: "me", Name: "Me", Alive: true, HasWord: true},
			{ID: "a", Name: "Ada", Alive: true, HasWord: true},
		},
		History: []game.HistoryEntry{},
	}
}

func TestApplyWaitingForWordsProjection(t *testing.T) {
	r := newTestReconciler(&fakeGuessAPI{}, nil)

	snap := playingSnap()
	snap.Status = game.StatusWordSelection
	snap.AllWordsSet = false
	r.Apply(snap)

	v := r.View()
	assert.True(t, v.WaitingForWords)
	assert.False(t, v.InputEnabled)
	assert.False(t, v.MyTurn)
	assert.Len(t, v.Players, 2)
}

func TestApplyActiveProjectionMyTurn(t *testing.T) {
	r := newTestReconciler(&fakeGuessAPI{}, nil)
	r.Apply(playingSnap())

	v := r.View()
	assert.False(t, v.WaitingForWords)
	assert.True(t, v.MyTurn)
	assert.True(t, v.InputEnabled)
	assert.Equal(t, "Your turn", v.TurnBanner)
	assert.Equal(t, 1, v.Round)
}

func TestApplyMyTurnConjunction(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*game.Snapshot)
	}{
		{"other player's turn", func(s *game.Snapshot) { s.CurrentPlayerID = "a" }},
		{"viewer eliminated", func(s *game.Snapshot) { s.Players[0].Alive = false }},
		{"word change outstanding", func(s *game.Snapshot) { s.WaitingForWordChange = "a" }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := newTestReconciler(&fakeGuessAPI{}, nil)
			snap := playingSnap()
			tc.mutate(snap)
			r.Apply(snap)
			assert.False(t, r.View().MyTurn)
		})
	}
}

func TestApplySpectatorProjection(t *testing.T) {
	rec := New(clients.Credentials{GameCode: "ABCD"}, &fakeGuessAPI{},
		notify.NewTurnNotifier(nopAlerter{}), &recordingAI{}, clockwork.NewFakeClock())
	rec.Apply(playingSnap())

	v := rec.View()
	assert.True(t, v.Spectator)
	assert.False(t, v.MyTurn)
}

func TestApplyInvokesAIDriverLast(t *testing.T) {
	ai := &recordingAI{}
	r := newTestReconciler(&fakeGuessAPI{}, ai)

	snap := playingSnap()
	r.Apply(snap)
	require.Len(t, ai.snaps, 1)
	assert.Same(t, snap, ai.snaps[0])

	// Invoked on every reconciliation, whatever the phase.
	lobby := playingSnap()
	lobby.Status = game.StatusLobby
	lobby.AllWordsSet = false
	r.Apply(lobby)
	assert.Len(t, ai.snaps, 2)
}

func TestApplySimilarityFromLatestGuess(t *testing.T) {
	r := newTestReconciler(&fakeGuessAPI{}, nil)
	snap := playingSnap()
	snap.History = []game.HistoryEntry{
		game.Guess{PlayerID: "me", Word: "old", Similarity: map[string]float64{"a": 10}},
		game.Guess{PlayerID: "a", Word: "new", Similarity: map[string]float64{"a": 55.5}},
	}
	r.Apply(snap)

	v := r.View()
	for _, card := range v.Players {
		if card.ID == "a" {
			assert.True(t, card.HasSimilarity)
			assert.InDelta(t, 55.5, card.Similarity, 0.001)
		}
	}
}

func TestApplyNilSnapshotIgnored(t *testing.T) {
	ai := &recordingAI{}
	r := newTestReconciler(&fakeGuessAPI{}, ai)
	r.Apply(nil)
	assert.Empty(t, ai.snaps)
}

func TestObserversReceiveCopies(t *testing.T) {
	r := newTestReconciler(&fakeGuessAPI{}, nil)
	c := &viewCollector{}
	r.Register(c)

	r.Apply(playingSnap())
	require.Len(t, c.views, 1)

	c.views[0].Players[0].Name = "mutated"
	assert.Equal(t, "Me", r.View().Players[0].Name)

	r.Unregister(c)
	r.Apply(playingSnap())
	assert.Len(t, c.views, 1)
}

func TestSubmitGuessValidation(t *testing.T) {
	api := &fakeGuessAPI{}
	r := newTestReconciler(api, nil)
	r.Apply(playingSnap())

	assert.ErrorIs(t, r.SubmitGuess(context.Background(), "   "), ErrEmptyGuess)
	assert.ErrorIs(t, r.SubmitGuess(context.Background(), "two words"), ErrMultiWordGuess)
	assert.Empty(t, api.calls, "local validation failures never reach the transport")
}

func TestSubmitGuessSuccessAppliesResponseSnapshot(t *testing.T) {
	confirmed := playingSnap()
	confirmed.CurrentPlayerID = "a"
	confirmed.History = []game.HistoryEntry{
		game.Guess{PlayerID: "me", Word: "rose", Similarity: map[string]float64{}, Eliminated: []string{}},
	}

	api := &fakeGuessAPI{resp: &clients.GuessResponse{State: confirmed}}
	r := newTestReconciler(api, nil)
	r.Apply(playingSnap())

	require.NoError(t, r.SubmitGuess(context.Background(), "rose"))

	v := r.View()
	assert.Nil(t, v.Pending, "slot cleared on confirmation")
	assert.False(t, v.MyTurn, "response snapshot applied without waiting for a poll")
	assert.Len(t, v.History, 1)
}

func TestSubmitGuessFailureRollsBackOnlyPendingState(t *testing.T) {
	api := &fakeGuessAPI{err: &clients.APIError{StatusCode: 409, Message: "duplicate word"}}
	r := newTestReconciler(api, nil)
	r.Apply(playingSnap())
	before := r.View()

	err := r.SubmitGuess(context.Background(), "rose")
	var apiErr *clients.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "duplicate word", apiErr.Message)

	after := r.View()
	assert.Nil(t, after.Pending)
	assert.Equal(t, before.TurnBanner, after.TurnBanner)
	assert.Equal(t, before.MyTurn, after.MyTurn)
	assert.Equal(t, len(before.History), len(after.History))
}

func TestSubmitGuessPendingVisibleDuringFlight(t *testing.T) {
	r := newTestReconciler(&fakeGuessAPI{err: errors.New("network down")}, nil)
	c := &viewCollector{}
	r.Apply(playingSnap())
	r.Register(c)

	_ = r.SubmitGuess(context.Background(), "rose")

	// First refresh carries the pending entry, the rollback refresh drops it.
	require.GreaterOrEqual(t, len(c.views), 2)
	first := c.views[0]
	require.NotNil(t, first.Pending)
	assert.Equal(t, "rose", first.Pending.Word)
	assert.False(t, first.InputEnabled)
	assert.Nil(t, c.views[len(c.views)-1].Pending)
}
