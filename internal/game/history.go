package game

import "encoding/json"

// HistoryEntry is one entry of a game's append-only history log. The three
// variants are Guess, WordChange and Forfeit; consumers type-switch over them.
type HistoryEntry interface{ historyEntry() }

// Guess records one guess and its consequences.
type Guess struct {
	PlayerID   string             `json:"player_id"`
	Word       string             `json:"word"`
	Similarity map[string]float64 `json:"similarity"`
	Eliminated []string           `json:"eliminated"`
}

// WordChange records that a player swapped their secret word.
type WordChange struct {
	PlayerID string `json:"player_id"`
}

// Forfeit records a player leaving the game, revealing their word.
type Forfeit struct {
	PlayerID string `json:"player_id"`
	Word     string `json:"word"`
}

func (Guess) historyEntry()      {}
func (WordChange) historyEntry() {}
func (Forfeit) historyEntry()    {}

const (
	entryTypeGuess      = "guess"
	entryTypeWordChange = "word_change"
	entryTypeForfeit    = "forfeit"
)

// decodeHistoryEntry resolves the wire "type" tag into one of the three
// variants. Entries with an unrecognized tag are dropped rather than failing
// the whole snapshot.
func decodeHistoryEntry(raw json.RawMessage) (HistoryEntry, error) {
	var tag struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(raw, &tag); err != nil {
		return nil, err
	}

	switch tag.Type {
	case entryTypeGuess:
		var e Guess
		if err := json.Unmarshal(raw, &e); err != nil {
			return nil, err
		}
		if e.Similarity == nil {
			e.Similarity = map[string]float64{}
		}
		if e.Eliminated == nil {
			e.Eliminated = []string{}
		}
		return e, nil
	case entryTypeWordChange:
		var e WordChange
		if err := json.Unmarshal(raw, &e); err != nil {
			return nil, err
		}
		return e, nil
	case entryTypeForfeit:
		var e Forfeit
		if err := json.Unmarshal(raw, &e); err != nil {
			return nil, err
		}
		return e, nil
	default:
		return nil, nil
	}
}
