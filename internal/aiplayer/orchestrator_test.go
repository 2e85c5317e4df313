package aiplayer

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/guessfeud/client-go/clients"
	"github.com/guessfeud/client-go/internal/game"
)

// blockingAPI counts calls and optionally holds each one open until released,
// standing in for a slow transport.
type blockingAPI struct {
	mu      sync.Mutex
	picks   int
	changes int
	guesses int

	guessGate chan struct{} // when non-nil, AIGuess blocks on it
	called    chan string   // receives one token per API call
}

func newBlockingAPI() *blockingAPI {
	return &blockingAPI{called: make(chan string, 16)}
}

func (a *blockingAPI) AIPickWords(context.Context, clients.Credentials) error {
	a.mu.Lock()
	a.picks++
	a.mu.Unlock()
	a.called <- "pick"
	return nil
}

func (a *blockingAPI) AIChangeWord(context.Context, clients.Credentials, string) error {
	a.mu.Lock()
	a.changes++
	a.mu.Unlock()
	a.called <- "change"
	return nil
}

func (a *blockingAPI) AIGuess(context.Context, clients.Credentials, string) error {
	a.mu.Lock()
	a.guesses++
	a.mu.Unlock()
	a.called <- "guess"
	if a.guessGate != nil {
		<-a.guessGate
	}
	return nil
}

func (a *blockingAPI) counts() (int, int, int) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.picks, a.changes, a.guesses
}

func waitForCall(t *testing.T, a *blockingAPI, want string) {
	t.Helper()
	select {
	case got := <-a.called:
		require.Equal(t, want, got)
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for %s call", want)
	}
}

func expectNoCall(t *testing.T, a *blockingAPI) {
	t.Helper()
	select {
	case got := <-a.called:
		t.Fatalf("unexpected %s call", got)
	case <-time.After(50 * time.Millisecond):
	}
}

func spSnap(status game.Status) *game.Snapshot {
	return &game.Snapshot{
		Status:       status,
		AllWordsSet:  true,
		SinglePlayer: true,
		Players: []game.Player{
			{ID: "me", Name: "Me", Alive: true, HasWord: true},
			{ID: "bot", Name: "Bot", Alive: true, HasWord: true, IsAI: true},
		},
	}
}

func newOrchestrator(api API, clock clockwork.Clock, enabled bool) *Orchestrator {
	return New(context.Background(), api, clients.Credentials{GameCode: "ABCD", PlayerID: "me"}, clock, time.Second, enabled)
}

func TestEvaluateNoOpOutsideSinglePlayer(t *testing.T) {
	api := newBlockingAPI()
	o := newOrchestrator(api, clockwork.NewFakeClock(), false)

	snap := spSnap(game.StatusPlaying)
	snap.CurrentPlayerID = "bot"
	o.Evaluate(snap)

	expectNoCall(t, api)
}

func TestWordPickFiresWhenAIPlayerLacksWord(t *testing.T) {
	api := newBlockingAPI()
	o := newOrchestrator(api, clockwork.NewFakeClock(), true)

	snap := spSnap(game.StatusWordSelection)
	snap.AllWordsSet = false
	snap.Players[1].HasWord = false
	o.Evaluate(snap)

	waitForCall(t, api, "pick")
	picks, changes, guesses := api.counts()
	assert.Equal(t, 1, picks)
	assert.Zero(t, changes)
	assert.Zero(t, guesses)
}

func TestGuessWaitsMoveDelay(t *testing.T) {
	api := newBlockingAPI()
	clock := clockwork.NewFakeClock()
	o := newOrchestrator(api, clock, true)

	snap := spSnap(game.StatusPlaying)
	snap.CurrentPlayerID = "bot"
	o.Evaluate(snap)

	// The request is not issued until the fixed delay elapses.
	clock.BlockUntil(1)
	expectNoCall(t, api)

	clock.Advance(time.Second)
	waitForCall(t, api, "guess")
}

func TestGuessSingleFlightUnderDelayedResponse(t *testing.T) {
	api := newBlockingAPI()
	api.guessGate = make(chan struct{})
	clock := clockwork.NewFakeClock()
	o := newOrchestrator(api, clock, true)

	snap := spSnap(game.StatusPlaying)
	snap.CurrentPlayerID = "bot"

	o.Evaluate(snap)
	clock.BlockUntil(1)
	clock.Advance(time.Second)
	waitForCall(t, api, "guess") // now blocked inside the transport

	// The next poll re-evaluates the same condition while the first request
	// is still outstanding; the in-flight flag must swallow it.
	o.Evaluate(snap)
	expectNoCall(t, api)

	close(api.guessGate)
	require.Eventually(t, func() bool {
		o.mu.Lock()
		defer o.mu.Unlock()
		return !o.guessInFlight
	}, time.Second, 5*time.Millisecond, "flag must clear once the response lands")

	// With the flag cleared, a later evaluation may fire again.
	o.Evaluate(snap)
	clock.BlockUntil(1)
	clock.Advance(time.Second)
	waitForCall(t, api, "guess")

	_, _, guesses := api.counts()
	assert.Equal(t, 2, guesses)
}

func TestWordChangeTakesPrecedenceOverGuess(t *testing.T) {
	api := newBlockingAPI()
	clock := clockwork.NewFakeClock()
	o := newOrchestrator(api, clock, true)

	snap := spSnap(game.StatusPlaying)
	snap.CurrentPlayerID = "bot"
	snap.WaitingForWordChange = "bot"
	o.Evaluate(snap)

	clock.BlockUntil(1)
	clock.Advance(time.Second)
	waitForCall(t, api, "change")

	_, changes, guesses := api.counts()
	assert.Equal(t, 1, changes)
	assert.Zero(t, guesses, "at most one of word-change/guess acts per reconciliation")
}

func TestHumanTurnIssuesNothing(t *testing.T) {
	api := newBlockingAPI()
	o := newOrchestrator(api, clockwork.NewFakeClock(), true)

	snap := spSnap(game.StatusPlaying)
	snap.CurrentPlayerID = "me"
	o.Evaluate(snap)

	expectNoCall(t, api)
}
