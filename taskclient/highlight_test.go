package taskclient

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestHighlighter_ExpiresAfterTTL(t *testing.T) {
	current := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	h := NewHighlighter(3 * time.Second)
	h.now = func() time.Time { return current }

	h.Mark("task-1")
	assert.True(t, h.IsHighlighted("task-1"))
	assert.False(t, h.IsHighlighted("task-2"))

	current = current.Add(2 * time.Second)
	assert.True(t, h.IsHighlighted("task-1"))

	current = current.Add(2 * time.Second)
	assert.False(t, h.IsHighlighted("task-1"))
}

func TestHighlighter_MarkDoesNotExtend(t *testing.T) {
	start := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	current := start
	h := NewHighlighter(3 * time.Second)
	h.now = func() time.Time { return current }

	h.Mark("task-1")

	// ハイライト中の再Markは期限を延長しない
	current = start.Add(2 * time.Second)
	h.Mark("task-1")

	current = start.Add(3500 * time.Millisecond)
	assert.False(t, h.IsHighlighted("task-1"))

	// 期限切れ後のMarkは新しいハイライトとして扱う
	h.Mark("task-1")
	assert.True(t, h.IsHighlighted("task-1"))
}
