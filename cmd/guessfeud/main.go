package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/guessfeud/client-go/clients"
	"github.com/guessfeud/client-go/internal/aiplayer"
	"github.com/guessfeud/client-go/internal/chat"
	"github.com/guessfeud/client-go/internal/notify"
	"github.com/guessfeud/client-go/internal/poll"
	"github.com/guessfeud/client-go/internal/reconcile"
	"github.com/guessfeud/client-go/internal/session"
)

func main() {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Debug().Err(err).Msg("could not load .env file")
	}

	cfg, err := loadConfig(os.Getenv("GUESSFEUD_CONFIG"))
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	// Setup logging
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	if level, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		zerolog.SetGlobalLevel(level)
	}
	instanceID := uuid.New().String()[:8]
	log.Logger = log.With().Str("instance", instanceID).Logger()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	storePath, err := session.DefaultPath()
	if err != nil {
		log.Warn().Err(err).Msg("no user config dir, session will not persist")
		storePath = ".guessfeud-session.json"
	}
	store := session.Open(storePath)

	api := clients.NewGameAPI(cfg.ServerURL)
	creds, singlePlayer := resolveSeat(ctx, cfg, api, store)

	log.Info().
		Str("server", cfg.ServerURL).
		Str("game_code", creds.GameCode).
		Bool("single_player", singlePlayer).
		Msg("starting guessfeud client")

	clock := clockwork.NewRealClock()
	chatLog := chat.NewLog(chat.DefaultMaxMessages)
	chatLog.SetCursor(store.ChatCursor())

	alerter := notify.LogAlerter{}
	notifier := notify.NewTurnNotifier(alerter)
	ai := aiplayer.New(ctx, api, creds, clock, aiplayer.DefaultMoveDelay, singlePlayer)
	rec := reconcile.New(creds, api, notifier, ai, clock)

	chatFn := func(ctx context.Context) error {
		batch, err := api.FetchChat(ctx, creds, chatLog.Cursor())
		if err != nil {
			return err
		}
		if n := chatLog.Merge(batch.Messages, batch.LastID); n > 0 {
			for _, m := range batch.Messages {
				log.Info().Str("sender", m.Sender).Str("text", m.Text).Msg("chat")
			}
		}
		store.SetChatCursor(chatLog.Cursor())
		return nil
	}

	poller := poll.New(ctx, clock, chatFn)

	app := &app{cfg: cfg, api: api, creds: creds, poller: poller}
	rec.Register(app)

	if creds.GameCode != "" {
		poller.Start(poll.KindGame, cfg.GameInterval(), func(ctx context.Context) error {
			snap, err := api.FetchGame(ctx, creds)
			if err != nil {
				return err
			}
			rec.Apply(snap)
			return nil
		})
	} else {
		// No seat: just watch the public listings.
		poller.Start(poll.KindLobby, cfg.LobbyInterval(), func(ctx context.Context) error {
			games, err := api.FetchGames(ctx)
			if err != nil {
				return err
			}
			log.Info().Int("open_games", len(games)).Msg("lobby listing")
			return nil
		})
		poller.Start(poll.KindSpectate, cfg.LobbyInterval(), func(ctx context.Context) error {
			games, err := api.FetchSpectate(ctx)
			if err != nil {
				return err
			}
			log.Info().Int("watchable_games", len(games)).Msg("spectate listing")
			return nil
		})
	}

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	log.Info().Msg("shutting down")
	poller.StopAll()
	store.SetChatCursor(chatLog.Cursor())
	cancel()
}

// resolveSeat produces the credentials for this run: explicit config first,
// then the persisted session, then creating or joining a game when the
// config names one.
func resolveSeat(ctx context.Context, cfg *Config, api *clients.GameAPI, store *session.Store) (clients.Credentials, bool) {
	if cfg.PlayerID != "" && cfg.SessionToken != "" {
		creds := clients.Credentials{
			GameCode:     cfg.GameCode,
			PlayerID:     cfg.PlayerID,
			SessionToken: cfg.SessionToken,
		}
		store.SetSession(session.Session{GameCode: creds.GameCode, PlayerID: creds.PlayerID, SessionToken: creds.SessionToken})
		return creds, cfg.SinglePlayer
	}

	if cfg.SinglePlayer && cfg.PlayerName != "" {
		resp, err := api.CreateGame(ctx, cfg.PlayerName, cfg.Theme, true)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to create single-player game")
		}
		if err := api.BeginGame(ctx, resp.Credentials); err != nil {
			log.Fatal().Err(err).Msg("failed to begin single-player game")
		}
		store.SetSession(session.Session{
			GameCode:     resp.Credentials.GameCode,
			PlayerID:     resp.Credentials.PlayerID,
			SessionToken: resp.Credentials.SessionToken,
		})
		return resp.Credentials, true
	}

	if cfg.GameCode != "" && cfg.PlayerName != "" {
		resp, err := api.JoinGame(ctx, cfg.GameCode, cfg.PlayerName)
		if err != nil {
			log.Fatal().Err(err).Str("game_code", cfg.GameCode).Msg("failed to join game")
		}
		store.SetSession(session.Session{
			GameCode:     resp.Credentials.GameCode,
			PlayerID:     resp.Credentials.PlayerID,
			SessionToken: resp.Credentials.SessionToken,
		})
		return resp.Credentials, resp.State != nil && resp.State.SinglePlayer
	}

	if sess := store.Session(); sess != nil {
		log.Info().Str("game_code", sess.GameCode).Msg("resuming persisted session")
		return clients.Credentials{
			GameCode:     sess.GameCode,
			PlayerID:     sess.PlayerID,
			SessionToken: sess.SessionToken,
		}, cfg.SinglePlayer
	}

	return clients.Credentials{}, false
}
