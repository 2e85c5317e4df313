package game

// Status is the server-reported lifecycle phase of a game.
type Status string

const (
	StatusLobby         Status = "lobby"
	StatusWordSelection Status = "word_selection"
	StatusPlaying       Status = "playing"
	StatusFinished      Status = "finished"
)

// Player is one roster entry inside a Snapshot. Word and WordPool are only
// populated for the requesting player, or after elimination reveals the word.
type Player struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Alive    bool     `json:"alive"`
	IsAI     bool     `json:"is_ai"`
	HasWord  bool     `json:"has_word"`
	Word     string   `json:"word,omitempty"`
	WordPool []string `json:"word_pool,omitempty"`
	Color    string   `json:"color,omitempty"`
	Emoji    string   `json:"emoji,omitempty"`
}

// Snapshot is one authoritative server-reported instant of a game. It is
// consumed by the reconciler and discarded; nothing holds on to it across
// poll cycles.
type Snapshot struct {
	Status               Status
	Players              []Player
	CurrentPlayerID      string
	WaitingForWordChange string // player id, empty when no change is pending
	AllWordsSet          bool
	Theme                string
	History              []HistoryEntry
	SpectatorCount       int
	SinglePlayer         bool
}

// PlayerByID returns the roster entry with the given id, or nil.
func (s *Snapshot) PlayerByID(id string) *Player {
	if id == "" {
		return nil
	}
	for i := range s.Players {
		if s.Players[i].ID == id {
			return &s.Players[i]
		}
	}
	return nil
}

// AliveCount returns the number of players still in the game.
func (s *Snapshot) AliveCount() int {
	n := 0
	for i := range s.Players {
		if s.Players[i].Alive {
			n++
		}
	}
	return n
}
