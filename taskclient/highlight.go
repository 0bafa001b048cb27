package taskclient

import (
	"sync"
	"time"
)

// DefaultHighlightTTL は新規作成タスクをハイライト表示する時間です。
const DefaultHighlightTTL = 3 * time.Second

// Highlighter は新規作成タスクを一定時間ハイライトするための期限管理です。
// 壁時計の比較だけで判定するため、タイマーやゴルーチンは使いません。
// 見た目のための状態であり、リストの正しさには影響しません。
type Highlighter struct {
	mu        sync.Mutex
	ttl       time.Duration
	deadlines map[string]time.Time
	now       func() time.Time // テストで固定できるようにする
}

// NewHighlighter は新しいHighlighterを作成します。
func NewHighlighter(ttl time.Duration) *Highlighter {
	return &Highlighter{
		ttl:       ttl,
		deadlines: make(map[string]time.Time),
		now:       time.Now,
	}
}

// Mark はIDをハイライト対象にします。
// すでにハイライト中のIDを再度Markしても期限は延長されません。
func (h *Highlighter) Mark(id string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if deadline, ok := h.deadlines[id]; ok && h.now().Before(deadline) {
		return
	}
	h.deadlines[id] = h.now().Add(h.ttl)
}

// IsHighlighted は期限内かどうかを返します。期限切れの記録はその場で消します。
func (h *Highlighter) IsHighlighted(id string) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	deadline, ok := h.deadlines[id]
	if !ok {
		return false
	}
	if !h.now().Before(deadline) {
		delete(h.deadlines, id)
		return false
	}
	return true
}
