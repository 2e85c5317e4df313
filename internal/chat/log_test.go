package chat

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func msg(id int64) Message {
	return Message{ID: id, Sender: "p", Text: fmt.Sprintf("m%d", id)}
}

func ids(msgs []Message) []int64 {
	out := make([]int64, len(msgs))
	for i, m := range msgs {
		out[i] = m.ID
	}
	return out
}

func TestMergeOverlappingBatches(t *testing.T) {
	l := NewLog(10)

	appended := l.Merge([]Message{msg(1), msg(2), msg(3)}, 3)
	assert.Equal(t, 3, appended)

	// The second poll window overlaps the first.
	appended = l.Merge([]Message{msg(2), msg(3), msg(4), msg(5)}, 5)
	assert.Equal(t, 2, appended)

	assert.Equal(t, []int64{1, 2, 3, 4, 5}, ids(l.Messages()))
	assert.Equal(t, int64(5), l.Cursor())
}

func TestMergeCapDropsOldest(t *testing.T) {
	l := NewLog(3)
	l.Merge([]Message{msg(1), msg(2), msg(3), msg(4), msg(5)}, 5)

	assert.Equal(t, []int64{3, 4, 5}, ids(l.Messages()))

	// A dropped id may legitimately reappear in a stale window; the cap is
	// on length, the cursor still prevents re-fetching.
	l.Merge([]Message{msg(6)}, 6)
	assert.Equal(t, []int64{4, 5, 6}, ids(l.Messages()))
}

func TestMergeCursorFallsBackToMaxSeen(t *testing.T) {
	l := NewLog(10)
	l.Merge([]Message{msg(7), msg(9)}, 0)
	assert.Equal(t, int64(9), l.Cursor())
}

func TestSetCursorOnlyMovesForward(t *testing.T) {
	l := NewLog(10)
	l.SetCursor(42)
	assert.Equal(t, int64(42), l.Cursor())
	l.SetCursor(10)
	assert.Equal(t, int64(42), l.Cursor())
}

func TestAppendLocalEcho(t *testing.T) {
	l := NewLog(10)
	l.AppendLocal(Message{ID: 8, Sender: "me", Text: "hello"})

	require.Len(t, l.Messages(), 1)
	assert.Equal(t, 0, l.Unread(), "own messages are never unread")

	// The next poll returns the same message; it must not duplicate.
	l.Merge([]Message{{ID: 8, Sender: "me", Text: "hello"}}, 8)
	assert.Len(t, l.Messages(), 1)
}

func TestUnreadCounting(t *testing.T) {
	l := NewLog(10)
	l.Merge([]Message{msg(1), msg(2)}, 2)
	assert.Equal(t, 2, l.Unread())

	l.MarkRead()
	assert.Equal(t, 0, l.Unread())

	l.Merge([]Message{msg(2), msg(3)}, 3)
	assert.Equal(t, 1, l.Unread(), "only newly merged messages count")
}
