package game

import "encoding/json"

// snapshotWire mirrors the server's JSON shape. Optional fields are pointers
// so that absence can be defaulted in one place instead of at every consumer.
type snapshotWire struct {
	Status               string            `json:"status"`
	Players              []Player          `json:"players"`
	CurrentPlayerID      string            `json:"current_player_id"`
	WaitingForWordChange *string           `json:"waiting_for_word_change"`
	AllWordsSet          bool              `json:"all_words_set"`
	Theme                string            `json:"theme"`
	History              []json.RawMessage `json:"history"`
	SpectatorCount       int               `json:"spectator_count"`
	SinglePlayer         bool              `json:"single_player"`
}

// UnmarshalJSON decodes a server snapshot, applying defensive defaults:
// missing rosters and history logs become empty slices, a missing
// waiting_for_word_change becomes the empty id, and history entries that
// fail to decode individually are skipped instead of poisoning the snapshot.
func (s *Snapshot) UnmarshalJSON(data []byte) error {
	var w snapshotWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}

	s.Status = Status(w.Status)
	s.Players = w.Players
	if s.Players == nil {
		s.Players = []Player{}
	}
	s.CurrentPlayerID = w.CurrentPlayerID
	s.WaitingForWordChange = ""
	if w.WaitingForWordChange != nil {
		s.WaitingForWordChange = *w.WaitingForWordChange
	}
	s.AllWordsSet = w.AllWordsSet
	s.Theme = w.Theme
	s.SpectatorCount = w.SpectatorCount
	s.SinglePlayer = w.SinglePlayer

	s.History = make([]HistoryEntry, 0, len(w.History))
	for _, raw := range w.History {
		entry, err := decodeHistoryEntry(raw)
		if err != nil || entry == nil {
			continue
		}
		s.History = append(s.History, entry)
	}
	return nil
}
