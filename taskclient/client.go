// Package taskclientはTask APIのGoクライアントです。
// フィルタ・検索・ソート状態のURL同期、追加読み込み、ローカル変更の
// リスト反映といったフロントエンドの一覧ロジックをまとめて提供します。
package taskclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mub7865/Hackathone-2-sub003/internal/models"
	"github.com/mub7865/Hackathone-2-sub003/internal/taskquery"
)

// HTTPステータスから変換される既知のエラー。
var (
	// ErrUnauthorized は401の場合のエラーです。再試行せずログイン画面へ誘導します。
	ErrUnauthorized = errors.New("unauthorized")
	// ErrNotFound は対象が存在しないか所有していない場合のエラーです。
	ErrNotFound = errors.New("task not found")
	// ErrServerUnavailable は5xxの場合のエラーです。リトライ可能です。
	ErrServerUnavailable = errors.New("server unavailable")
)

// ValidationError は422レスポンスの内容です。どのフィールドが不正かを保持します。
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"error"`
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed on %q: %s", e.Field, e.Message)
}

// Session は認証済みユーザーのAPIアクセス情報です。サインイン時に作成し、
// サインアウトで破棄します。モジュールグローバルには保持しません。
type Session struct {
	BaseURL string
	Token   string
}

// Client はTask APIへのHTTPクライアントです。
type Client struct {
	session    Session
	httpClient *http.Client
}

// NewClient は新しいClientを作成します。
func NewClient(session Session) *Client {
	return &Client{
		session:    session,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// NewClientWithHTTP はHTTPクライアントを差し替えてClientを作成します（テスト用）。
func NewClientWithHTTP(session Session, httpClient *http.Client) *Client {
	return &Client{session: session, httpClient: httpClient}
}

// do はリクエストを実行し、ステータスコードを既知のエラーへ変換します。
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body interface{}, out interface{}) error {
	u := strings.TrimRight(c.session.BaseURL, "/") + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.session.Token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		if out == nil {
			return nil
		}
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
		return nil
	case resp.StatusCode == http.StatusUnauthorized:
		return ErrUnauthorized
	case resp.StatusCode == http.StatusNotFound:
		return ErrNotFound
	case resp.StatusCode == http.StatusUnprocessableEntity:
		var ve ValidationError
		if err := json.NewDecoder(resp.Body).Decode(&ve); err == nil && ve.Field != "" {
			return &ve
		}
		return &ValidationError{Field: "request", Message: "invalid request"}
	case resp.StatusCode >= 500:
		return fmt.Errorf("server error %d: %w", resp.StatusCode, ErrServerUnavailable)
	default:
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
}

// ListTasks は一覧を取得します。レスポンスはエンベロープなしの配列です。
func (c *Client) ListTasks(ctx context.Context, q taskquery.Query) ([]models.Task, error) {
	var tasks []models.Task
	if err := c.do(ctx, http.MethodGet, "/api/v1/tasks", q.Encode(), nil, &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

// CreateTask は新しいタスクを作成します。
func (c *Client) CreateTask(ctx context.Context, req models.CreateTaskRequest) (*models.Task, error) {
	var task models.Task
	if err := c.do(ctx, http.MethodPost, "/api/v1/tasks", nil, req, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

// GetTask はタスクを1件取得します。
func (c *Client) GetTask(ctx context.Context, id string) (*models.Task, error) {
	var task models.Task
	if err := c.do(ctx, http.MethodGet, "/api/v1/tasks/"+id, nil, nil, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

// UpdateTask はタスクを部分更新します。
func (c *Client) UpdateTask(ctx context.Context, id string, req models.UpdateTaskRequest) (*models.Task, error) {
	var task models.Task
	if err := c.do(ctx, http.MethodPatch, "/api/v1/tasks/"+id, nil, req, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

// ToggleTask はタスクの完了状態を反転します。
func (c *Client) ToggleTask(ctx context.Context, id string) (*models.Task, error) {
	var task models.Task
	if err := c.do(ctx, http.MethodPost, "/api/v1/tasks/"+id+"/toggle", nil, nil, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

// DeleteTask はタスクを削除します。
func (c *Client) DeleteTask(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/v1/tasks/"+id, nil, nil, nil)
}

// LoginRedirectURL は401を受けた画面が遷移すべきログインURLを組み立てます。
func LoginRedirectURL(currentPath string) string {
	return "/login?redirect=" + url.QueryEscape(currentPath)
}
