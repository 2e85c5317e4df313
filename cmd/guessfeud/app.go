package main

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/guessfeud/client-go/clients"
	"github.com/guessfeud/client-go/internal/game"
	"github.com/guessfeud/client-go/internal/poll"
	"github.com/guessfeud/client-go/internal/reconcile"
)

// app is the headless rendering collaborator: it logs view transitions and
// manages the word-selection poll loop around the game's lifecycle.
type app struct {
	cfg    *Config
	api    *clients.GameAPI
	creds  clients.Credentials
	poller *poll.Poller

	lastBanner string
	lastRound  int
	lastStatus game.Status
}

func (a *app) ViewUpdated(v reconcile.View) {
	if v.TurnBanner != a.lastBanner || v.Round != a.lastRound {
		log.Info().
			Str("banner", v.TurnBanner).
			Int("round", v.Round).
			Bool("my_turn", v.MyTurn).
			Int("alive", countAlive(v.Players)).
			Msg("game update")
		a.lastBanner = v.TurnBanner
		a.lastRound = v.Round
	}

	if v.Status == a.lastStatus {
		return
	}
	a.lastStatus = v.Status

	switch v.Status {
	case game.StatusWordSelection:
		a.poller.Start(poll.KindWordSelect, a.cfg.WordSelectInterval(), a.pollWordStatus)
	case game.StatusPlaying:
		a.poller.Stop(poll.KindWordSelect)
	case game.StatusFinished:
		a.poller.Stop(poll.KindWordSelect)
		log.Info().Str("result", v.TurnBanner).Msg("game finished")
	}
}

func (a *app) pollWordStatus(ctx context.Context) error {
	status, err := a.api.FetchWordStatus(ctx, a.creds)
	if err != nil {
		return err
	}
	log.Info().
		Bool("all_words_set", status.AllWordsSet).
		Int("still_picking", len(status.Waiting)).
		Msg("word selection progress")
	return nil
}

func countAlive(players []reconcile.PlayerCard) int {
	n := 0
	for _, p := range players {
		if p.Alive {
			n++
		}
	}
	return n
}
