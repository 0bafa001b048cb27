// Package modelsはAPIで扱うドメインモデルを定義します。
package models

import (
	"strings"
	"time"
	"unicode/utf8"
)

// TaskStatus はタスクの状態を表します。pending / completed の2値のみ有効です。
type TaskStatus string

const (
	StatusPending   TaskStatus = "pending"
	StatusCompleted TaskStatus = "completed"
)

// Valid は定義済みの状態値かどうかを返します。
func (s TaskStatus) Valid() bool {
	return s == StatusPending || s == StatusCompleted
}

// Toggle は pending ⇔ completed を反転した値を返します。
func (s TaskStatus) Toggle() TaskStatus {
	if s == StatusCompleted {
		return StatusPending
	}
	return StatusCompleted
}

// Task は1件のタスクを表します。
// 所有者(UserID)以外からは参照も変更もできません。
type Task struct {
	ID          string     `json:"id"`          // UUID (作成時に採番、不変)
	UserID      int        `json:"user_id"`     // 所有者のユーザーID (不変)
	Title       string     `json:"title"`       // タイトル（必須、空白のみは不可）
	Description *string    `json:"description"` // 説明 (省略可、nullを許容)
	Status      TaskStatus `json:"status"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"` // 変更のたびに更新。常に CreatedAt 以降
}

// CreateTaskRequest はタスク作成のリクエストボディです。
type CreateTaskRequest struct {
	Title       string  `json:"title"`
	Description *string `json:"description"`
}

// UpdateTaskRequest はPATCH用の部分更新リクエストです。
// nilのフィールドは「変更しない」を意味します。
type UpdateTaskRequest struct {
	Title       *string     `json:"title"`
	Description *string     `json:"description"`
	Status      *TaskStatus `json:"status"`
}

// MaxTitleLength はタイトルの最大文字数です。
const MaxTitleLength = 255

// ValidTitle はタイトルが空・空白のみでなく、長さが上限内かを検証します。
func ValidTitle(title string) bool {
	trimmed := strings.TrimSpace(title)
	return trimmed != "" && utf8.RuneCountInString(trimmed) <= MaxTitleLength
}
