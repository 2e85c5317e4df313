// Package chat maintains the client-side chat log: a bounded, id-deduplicated
// message sequence merged incrementally from poll batches.
package chat

import (
	"sync"
	"time"
)

// DefaultMaxMessages is the cap applied when NewLog is given a non-positive max.
const DefaultMaxMessages = 200

// Message is one chat line. IDs are server-assigned and strictly increasing;
// locally echoed messages reuse the id the server hands back on send, or 0
// until the next poll confirms them.
type Message struct {
	ID     int64     `json:"id"`
	Sender string    `json:"sender"`
	Text   string    `json:"text"`
	SentAt time.Time `json:"sent_at"`
}

// Log is the merged chat sequence. Merge filters batches against already-seen
// ids so overlapping poll windows never duplicate a message, and the cursor
// it maintains is what the next incremental fetch passes as its after-id.
type Log struct {
	mu     sync.Mutex
	max    int
	msgs   []Message
	seen   map[int64]struct{}
	lastID int64
	unread int
}

// NewLog returns an empty log capped at max messages.
func NewLog(max int) *Log {
	if max <= 0 {
		max = DefaultMaxMessages
	}
	return &Log{
		max:  max,
		seen: make(map[int64]struct{}),
	}
}

// Merge appends the unseen messages of a poll batch in arrival order and
// advances the cursor. serverLastID is the server's high-water mark for the
// batch; when it is zero the cursor falls back to the highest id seen.
// It returns the number of messages actually appended.
func (l *Log) Merge(batch []Message, serverLastID int64) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	appended := 0
	for _, m := range batch {
		if _, ok := l.seen[m.ID]; ok {
			continue
		}
		l.append(m)
		appended++
	}

	if serverLastID > l.lastID {
		l.lastID = serverLastID
	}
	l.unread += appended
	return appended
}

// AppendLocal records the sender's own just-sent message immediately, without
// waiting for the next poll to return it. Local echoes never count as unread.
func (l *Log) AppendLocal(m Message) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.seen[m.ID]; ok {
		return
	}
	l.append(m)
}

// append assumes l.mu is held and m is unseen.
func (l *Log) append(m Message) {
	l.msgs = append(l.msgs, m)
	if m.ID != 0 {
		l.seen[m.ID] = struct{}{}
	}
	if m.ID > l.lastID {
		l.lastID = m.ID
	}
	for len(l.msgs) > l.max {
		dropped := l.msgs[0]
		l.msgs = l.msgs[1:]
		delete(l.seen, dropped.ID)
	}
}

// Messages returns a copy of the merged sequence in arrival order.
func (l *Log) Messages() []Message {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]Message, len(l.msgs))
	copy(out, l.msgs)
	return out
}

// Cursor returns the merge cursor: the id the next incremental fetch should
// request messages after.
func (l *Log) Cursor() int64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.lastID
}

// SetCursor restores a persisted cursor, e.g. across client restarts. It only
// ever moves the cursor forward.
func (l *Log) SetCursor(id int64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if id > l.lastID {
		l.lastID = id
	}
}

// Unread returns the number of merged messages not yet marked read.
func (l *Log) Unread() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.unread
}

// MarkRead clears the unread counter.
func (l *Log) MarkRead() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.unread = 0
}
