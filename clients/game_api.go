package clients

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/guessfeud/client-go/internal/chat"
	"github.com/guessfeud/client-go/internal/game"
)

// Credentials identify one seat in one game. The session token is issued by
// the server on create/join and must accompany every game-affecting call.
type Credentials struct {
	GameCode     string `json:"game_code"`
	PlayerID     string `json:"player_id"`
	SessionToken string `json:"session_token"`
}

// GameSummary is one row of the lobby or spectate listing.
type GameSummary struct {
	Code           string `json:"code"`
	Theme          string `json:"theme"`
	Status         string `json:"status"`
	PlayerCount    int    `json:"player_count"`
	SpectatorCount int    `json:"spectator_count"`
}

// WordStatus reports word-selection progress while a game is being set up.
type WordStatus struct {
	AllWordsSet bool     `json:"all_words_set"`
	Waiting     []string `json:"waiting"` // player ids still picking
}

// JoinResponse is returned by CreateGame and JoinGame.
type JoinResponse struct {
	Credentials Credentials    `json:"credentials"`
	State       *game.Snapshot `json:"state"`
}

// GuessResponse is returned by SubmitGuess. When the server includes a full
// snapshot, the reconciler applies it directly instead of waiting for the
// next poll tick.
type GuessResponse struct {
	State *game.Snapshot `json:"state"`
}

// ChatBatch is one incremental page of chat messages. LastID is the server's
// high-water mark for the page.
type ChatBatch struct {
	Messages []chat.Message `json:"messages"`
	LastID   int64          `json:"last_id"`
}

// SendChatResponse carries the id the server assigned to a sent message, so
// the local echo can be deduplicated against the next poll.
type SendChatResponse struct {
	ID int64 `json:"id"`
}

// GameAPI is the typed client for the guessfeud server. It is the transport
// adapter: every method returns either a decoded result or an error that is
// an *APIError for server rejections and a plain error for transport faults.
type GameAPI struct {
	*BaseClient
}

func NewGameAPI(baseURL string) *GameAPI {
	return &GameAPI{BaseClient: NewBaseClient(baseURL)}
}

// actingBody is the common request shape of game-affecting calls.
type actingBody struct {
	PlayerID     string `json:"player_id"`
	SessionToken string `json:"session_token"`
	Word         string `json:"word,omitempty"`
	TargetID     string `json:"target_id,omitempty"`
	Text         string `json:"text,omitempty"`
}

func gameQuery(creds Credentials) string {
	q := url.Values{}
	q.Set("player_id", creds.PlayerID)
	q.Set("session_token", creds.SessionToken)
	return "?" + q.Encode()
}

// FetchGames lists joinable games.
func (c *GameAPI) FetchGames(ctx context.Context) ([]GameSummary, error) {
	body, err := c.Get(ctx, epGames)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch game list: %w", err)
	}
	var out []GameSummary
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("failed to unmarshal game list: %w", err)
	}
	return out, nil
}

// FetchSpectate lists games open for spectating.
func (c *GameAPI) FetchSpectate(ctx context.Context) ([]GameSummary, error) {
	body, err := c.Get(ctx, epSpectate)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch spectate list: %w", err)
	}
	var out []GameSummary
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("failed to unmarshal spectate list: %w", err)
	}
	return out, nil
}

// CreateGame creates a game and seats the creator in it.
func (c *GameAPI) CreateGame(ctx context.Context, playerName, theme string, singlePlayer bool) (*JoinResponse, error) {
	body, err := c.Post(ctx, epGames, map[string]any{
		"player_name":   playerName,
		"theme":         theme,
		"single_player": singlePlayer,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create game: %w", err)
	}
	var out JoinResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("failed to unmarshal create response: %w", err)
	}
	return &out, nil
}

// JoinGame seats a player in an existing game.
func (c *GameAPI) JoinGame(ctx context.Context, code, playerName string) (*JoinResponse, error) {
	body, err := c.Post(ctx, fmt.Sprintf(epGame, code), map[string]any{
		"player_name": playerName,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to join game: %w", err)
	}
	var out JoinResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("failed to unmarshal join response: %w", err)
	}
	return &out, nil
}

// FetchGame retrieves the current snapshot of a game.
func (c *GameAPI) FetchGame(ctx context.Context, creds Credentials) (*game.Snapshot, error) {
	body, err := c.Get(ctx, fmt.Sprintf(epGame, creds.GameCode)+gameQuery(creds))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch game: %w", err)
	}
	var snap game.Snapshot
	if err := json.Unmarshal(body, &snap); err != nil {
		return nil, fmt.Errorf("failed to unmarshal snapshot: %w", err)
	}
	return &snap, nil
}

// FetchWordStatus retrieves word-selection progress.
func (c *GameAPI) FetchWordStatus(ctx context.Context, creds Credentials) (*WordStatus, error) {
	body, err := c.Get(ctx, fmt.Sprintf(epWordStatus, creds.GameCode)+gameQuery(creds))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch word status: %w", err)
	}
	var out WordStatus
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("failed to unmarshal word status: %w", err)
	}
	if out.Waiting == nil {
		out.Waiting = []string{}
	}
	return &out, nil
}

// BeginGame starts a game from its lobby.
func (c *GameAPI) BeginGame(ctx context.Context, creds Credentials) error {
	_, err := c.Post(ctx, fmt.Sprintf(epBegin, creds.GameCode), actingBody{
		PlayerID:     creds.PlayerID,
		SessionToken: creds.SessionToken,
	})
	if err != nil {
		return fmt.Errorf("failed to begin game: %w", err)
	}
	return nil
}

// SetWord submits the caller's secret word during word selection.
func (c *GameAPI) SetWord(ctx context.Context, creds Credentials, word string) error {
	_, err := c.Post(ctx, fmt.Sprintf(epSetWord, creds.GameCode), actingBody{
		PlayerID:     creds.PlayerID,
		SessionToken: creds.SessionToken,
		Word:         word,
	})
	if err != nil {
		return fmt.Errorf("failed to set word: %w", err)
	}
	return nil
}

// SubmitGuess submits a guess for the caller's turn.
func (c *GameAPI) SubmitGuess(ctx context.Context, creds Credentials, word string) (*GuessResponse, error) {
	body, err := c.Post(ctx, fmt.Sprintf(epGuess, creds.GameCode), actingBody{
		PlayerID:     creds.PlayerID,
		SessionToken: creds.SessionToken,
		Word:         word,
	})
	if err != nil {
		return nil, err
	}
	var out GuessResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("failed to unmarshal guess response: %w", err)
	}
	return &out, nil
}

// ChangeWord submits the replacement word for a pending word change.
func (c *GameAPI) ChangeWord(ctx context.Context, creds Credentials, word string) error {
	_, err := c.Post(ctx, fmt.Sprintf(epChangeWord, creds.GameCode), actingBody{
		PlayerID:     creds.PlayerID,
		SessionToken: creds.SessionToken,
		Word:         word,
	})
	if err != nil {
		return fmt.Errorf("failed to change word: %w", err)
	}
	return nil
}

// FetchChat retrieves messages with ids greater than afterID.
func (c *GameAPI) FetchChat(ctx context.Context, creds Credentials, afterID int64) (*ChatBatch, error) {
	endpoint := fmt.Sprintf(epChat, creds.GameCode) + gameQuery(creds) + fmt.Sprintf("&after=%d", afterID)
	body, err := c.Get(ctx, endpoint)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch chat: %w", err)
	}
	var out ChatBatch
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("failed to unmarshal chat batch: %w", err)
	}
	return &out, nil
}

// SendChat posts a chat message and returns its server-assigned id.
func (c *GameAPI) SendChat(ctx context.Context, creds Credentials, text string) (*SendChatResponse, error) {
	body, err := c.Post(ctx, fmt.Sprintf(epChat, creds.GameCode), actingBody{
		PlayerID:     creds.PlayerID,
		SessionToken: creds.SessionToken,
		Text:         text,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to send chat: %w", err)
	}
	var out SendChatResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("failed to unmarshal send response: %w", err)
	}
	return &out, nil
}

// AIPickWords asks the server to pick words for AI players still missing one.
func (c *GameAPI) AIPickWords(ctx context.Context, creds Credentials) error {
	_, err := c.Post(ctx, fmt.Sprintf(epAIPickWords, creds.GameCode), actingBody{
		PlayerID:     creds.PlayerID,
		SessionToken: creds.SessionToken,
	})
	if err != nil {
		return fmt.Errorf("failed to trigger AI word pick: %w", err)
	}
	return nil
}

// AIChangeWord asks the server to perform a pending word change for an AI player.
func (c *GameAPI) AIChangeWord(ctx context.Context, creds Credentials, playerID string) error {
	_, err := c.Post(ctx, fmt.Sprintf(epAIChange, creds.GameCode), actingBody{
		PlayerID:     creds.PlayerID,
		SessionToken: creds.SessionToken,
		TargetID:     playerID,
	})
	if err != nil {
		return fmt.Errorf("failed to trigger AI word change: %w", err)
	}
	return nil
}

// AIGuess asks the server to take the current AI player's turn.
func (c *GameAPI) AIGuess(ctx context.Context, creds Credentials, playerID string) error {
	_, err := c.Post(ctx, fmt.Sprintf(epAIGuess, creds.GameCode), actingBody{
		PlayerID:     creds.PlayerID,
		SessionToken: creds.SessionToken,
		TargetID:     playerID,
	})
	if err != nil {
		return fmt.Errorf("failed to trigger AI guess: %w", err)
	}
	return nil
}
