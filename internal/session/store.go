// Package session persists best-effort client state between runs: the last
// known seat, the chat cursor, and the push-permission-requested flag. None
// of it is required for correctness of a live session; load failures produce
// zero values and save failures are only logged.
package session

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/rs/zerolog/log"
)

// Session is the last seat this client held.
type Session struct {
	GameCode     string `json:"game_code"`
	PlayerID     string `json:"player_id"`
	SessionToken string `json:"session_token"`
}

type state struct {
	Session                 *Session `json:"session,omitempty"`
	ChatCursor              int64    `json:"chat_cursor,omitempty"`
	PushPermissionRequested bool     `json:"push_permission_requested,omitempty"`
}

// Store is a JSON-file-backed preference store. Every setter persists
// immediately.
type Store struct {
	mu    sync.Mutex
	path  string
	state state
}

// DefaultPath is the per-user location of the store file.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "guessfeud", "session.json"), nil
}

// Open loads the store at path, tolerating a missing or corrupt file.
func Open(path string) *Store {
	s := &Store{path: path}
	data, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			log.Warn().Err(err).Str("path", path).Msg("could not read session store, starting fresh")
		}
		return s
	}
	if err := json.Unmarshal(data, &s.state); err != nil {
		log.Warn().Err(err).Str("path", path).Msg("corrupt session store, starting fresh")
		s.state = state{}
	}
	return s
}

// Session returns the persisted seat, or nil.
func (s *Store) Session() *Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state.Session == nil {
		return nil
	}
	copied := *s.state.Session
	return &copied
}

// SetSession records the current seat.
func (s *Store) SetSession(sess Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Session = &sess
	s.save()
}

// ClearSession drops the persisted seat, e.g. after the game finished.
func (s *Store) ClearSession() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Session = nil
	s.save()
}

// ChatCursor returns the persisted chat merge cursor.
func (s *Store) ChatCursor() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.ChatCursor
}

// SetChatCursor records the chat merge cursor.
func (s *Store) SetChatCursor(id int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if id <= s.state.ChatCursor {
		return
	}
	s.state.ChatCursor = id
	s.save()
}

// PushPermissionRequested reports whether a push-permission request was ever
// made by this client.
func (s *Store) PushPermissionRequested() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.PushPermissionRequested
}

// SetPushPermissionRequested records that the one allowed permission request
// has been made.
func (s *Store) SetPushPermissionRequested() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.PushPermissionRequested = true
	s.save()
}

// save assumes s.mu is held.
func (s *Store) save() {
	data, err := json.MarshalIndent(s.state, "", "  ")
	if err != nil {
		log.Warn().Err(err).Msg("could not encode session store")
		return
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		log.Warn().Err(err).Str("path", s.path).Msg("could not create session store directory")
		return
	}
	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		log.Warn().Err(err).Str("path", s.path).Msg("could not write session store")
	}
}
