// Package ratelimitはRedisを使ったスライディングウィンドウ方式の
// リクエスト制限を提供します。REDIS_ADDR が未設定の場合は組み込まれません。
package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Limiter はRedisのソート済みセットでスライディングウィンドウを実装します。
type Limiter struct {
	client    *redis.Client
	keyPrefix string
}

// NewLimiter は新しいLimiterを作成します。
func NewLimiter(client *redis.Client, keyPrefix string) *Limiter {
	return &Limiter{client: client, keyPrefix: keyPrefix}
}

// Result はレート制限チェックの結果です。
type Result struct {
	Allowed   bool
	Remaining int
	ResetAt   time.Time
	Limit     int
}

// ウィンドウの掃除・計数・追加を1つのLuaスクリプトで原子的に行います。
// メンバーの一意性はINCRカウンターで担保します。
var allowScript = redis.NewScript(`
	local key = KEYS[1]
	local now = tonumber(ARGV[1])
	local window_start = tonumber(ARGV[2])
	local limit = tonumber(ARGV[3])
	local window_ms = tonumber(ARGV[4])

	redis.call('ZREMRANGEBYSCORE', key, '-inf', window_start)
	local current = redis.call('ZCARD', key)

	if current < limit then
		local counter = redis.call('INCR', key .. ':counter')
		redis.call('ZADD', key, now, now .. ':' .. counter)
		local expire_seconds = math.ceil(window_ms / 1000)
		redis.call('EXPIRE', key, expire_seconds)
		redis.call('EXPIRE', key .. ':counter', expire_seconds)
		return {1, limit - current - 1, 0}
	else
		local oldest = redis.call('ZRANGE', key, 0, 0, 'WITHSCORES')
		local reset_at = 0
		if oldest and #oldest >= 2 then
			reset_at = tonumber(oldest[2]) + window_ms
		end
		return {0, 0, reset_at}
	end
`)

// Allow はリクエストが制限内かどうかを判定します。
func (l *Limiter) Allow(ctx context.Context, key string, limit int, window time.Duration) (*Result, error) {
	now := time.Now()
	redisKey := l.keyPrefix + key

	nowMs := now.UnixMilli()
	windowStartMs := now.Add(-window).UnixMilli()
	windowMs := window.Milliseconds()

	values, err := allowScript.Run(ctx, l.client, []string{redisKey}, nowMs, windowStartMs, limit, windowMs).Int64Slice()
	if err != nil {
		return nil, fmt.Errorf("redis script error: %w", err)
	}
	if len(values) != 3 {
		return nil, fmt.Errorf("unexpected Redis response length: %d", len(values))
	}

	resetAt := now.Add(window)
	if values[2] > 0 {
		resetAt = time.UnixMilli(values[2])
	}

	return &Result{
		Allowed:   values[0] == 1,
		Remaining: int(values[1]),
		ResetAt:   resetAt,
		Limit:     limit,
	}, nil
}

// Reset は指定キーの制限状態をクリアします。
func (l *Limiter) Reset(ctx context.Context, key string) error {
	redisKey := l.keyPrefix + key
	return l.client.Del(ctx, redisKey, redisKey+":counter").Err()
}
