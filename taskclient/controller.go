package taskclient

import (
	"context"
	"sync"

	"github.com/mub7865/Hackathone-2-sub003/internal/models"
	"github.com/mub7865/Hackathone-2-sub003/internal/taskquery"
)

// Phase はリストコントローラの状態機械の状態です。
//
//	idle → loading → ready
//	ready → loadingMore | refreshing → ready
//	任意の状態 → error (取得失敗時)、error → loading (再試行時)
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseLoading
	PhaseReady
	PhaseLoadingMore
	PhaseRefreshing
	PhaseError
)

// String はPhaseの表示名を返します。
func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseLoading:
		return "loading"
	case PhaseReady:
		return "ready"
	case PhaseLoadingMore:
		return "loadingMore"
	case PhaseRefreshing:
		return "refreshing"
	case PhaseError:
		return "error"
	default:
		return "unknown"
	}
}

// ListController は表示中のタスク列とページング(offset)を管理します。
//
// 取得のたびに世代番号を進め、完了時に世代が進んでいたら結果を破棄します。
// これにより、遅い古いレスポンスが速い新しいレスポンスを上書きすることは
// ありません（論理キャンセル・最後のリクエスト勝ち）。
type ListController struct {
	client     *Client
	state      *QueryStateStore
	highlights *Highlighter

	mu         sync.Mutex
	phase      Phase
	tasks      []models.Task
	hasMore    bool
	limit      int
	generation uint64
	lastErr    error
}

// NewListController は新しいListControllerを作成します。
// クエリ状態の変更を購読し、変更のたびに先頭ページから取り直します。
func NewListController(client *Client, state *QueryStateStore) *ListController {
	c := &ListController{
		client:     client,
		state:      state,
		highlights: NewHighlighter(DefaultHighlightTTL),
		phase:      PhaseIdle,
		limit:      taskquery.DefaultLimit,
	}
	// コールバックはストアのロック中に呼ばれるため、取得は別ゴルーチンで起動する
	state.OnChange(func(taskquery.Query) {
		go c.Refresh(context.Background())
	})
	return c
}

// Refresh は先頭ページを取り直し、表示中のリストを丸ごと置き換えます。
// 失敗した場合は直前のリストを保持したままエラー状態になります。
func (c *ListController) Refresh(ctx context.Context) error {
	q := c.state.Query()

	c.mu.Lock()
	c.generation++
	gen := c.generation
	q.Offset = 0
	q.Limit = c.limit
	switch c.phase {
	case PhaseIdle, PhaseError:
		c.phase = PhaseLoading
	case PhaseReady:
		c.phase = PhaseRefreshing
	}
	c.mu.Unlock()

	tasks, err := c.client.ListTasks(ctx, q)

	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.generation {
		// 既に新しい状態の取得が始まっている。古い結果は捨てる
		return nil
	}
	if err != nil {
		c.phase = PhaseError
		c.lastErr = err
		return err
	}
	c.tasks = tasks
	c.hasMore = len(tasks) == q.Limit
	c.phase = PhaseReady
	c.lastErr = nil
	return nil
}

// LoadMore は次のページを取得して末尾に追加します。
// 取得が進行中、またはこれ以上ページがないと推測される場合は何もしません。
func (c *ListController) LoadMore(ctx context.Context) error {
	q := c.state.Query()

	c.mu.Lock()
	if c.phase != PhaseReady || !c.hasMore {
		c.mu.Unlock()
		return nil
	}
	c.generation++
	gen := c.generation
	q.Offset = len(c.tasks)
	q.Limit = c.limit
	c.phase = PhaseLoadingMore
	c.mu.Unlock()

	page, err := c.client.ListTasks(ctx, q)

	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.generation {
		return nil
	}
	if err != nil {
		// 読み込み済みの項目はそのまま残す
		c.phase = PhaseError
		c.lastErr = err
		return err
	}
	c.tasks = append(c.tasks, page...)
	c.hasMore = len(page) == q.Limit
	c.phase = PhaseReady
	c.lastErr = nil
	return nil
}

// Create はタスクを作成し、サーバーが確定した後にだけリストへ反映します。
// アクティブなフィルタに合致する場合のみ先頭に追加し、ハイライトします。
func (c *ListController) Create(ctx context.Context, req models.CreateTaskRequest) (*models.Task, error) {
	task, err := c.client.CreateTask(ctx, req)
	if err != nil {
		// 失敗した変更はローカル状態に一切反映しない
		return nil, err
	}

	filter := c.state.Query().Status
	c.mu.Lock()
	c.tasks = Reconcile(c.tasks, MutationEvent{Kind: MutationCreate, Task: *task}, filter)
	c.mu.Unlock()

	c.highlights.Mark(task.ID)
	return task, nil
}

// Update はタスクを部分更新し、確定後にリストへ反映します。
// 状態の変更でフィルタから外れた項目は再取得なしで消えます。
func (c *ListController) Update(ctx context.Context, id string, req models.UpdateTaskRequest) (*models.Task, error) {
	task, err := c.client.UpdateTask(ctx, id, req)
	if err != nil {
		return nil, err
	}
	c.applyUpdate(*task)
	return task, nil
}

// Toggle はタスクの完了状態を反転し、確定後にリストへ反映します。
func (c *ListController) Toggle(ctx context.Context, id string) (*models.Task, error) {
	task, err := c.client.ToggleTask(ctx, id)
	if err != nil {
		return nil, err
	}
	c.applyUpdate(*task)
	return task, nil
}

func (c *ListController) applyUpdate(task models.Task) {
	filter := c.state.Query().Status
	c.mu.Lock()
	defer c.mu.Unlock()
	c.tasks = Reconcile(c.tasks, MutationEvent{Kind: MutationUpdate, Task: task}, filter)
}

// Delete はタスクを削除し、確定後にリストから取り除きます。
func (c *ListController) Delete(ctx context.Context, id string) error {
	if err := c.client.DeleteTask(ctx, id); err != nil {
		return err
	}

	filter := c.state.Query().Status
	c.mu.Lock()
	defer c.mu.Unlock()
	c.tasks = Reconcile(c.tasks, MutationEvent{Kind: MutationDelete, Task: models.Task{ID: id}}, filter)
	return nil
}

// Tasks は表示中のタスク列のコピーを返します。
func (c *ListController) Tasks() []models.Task {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]models.Task, len(c.tasks))
	copy(out, c.tasks)
	return out
}

// Phase は現在の状態を返します。
func (c *ListController) Phase() Phase {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.phase
}

// HasMore はさらにページがあると推測されるかどうかを返します。
// 直前のページがちょうどlimit件だった場合にtrueになります（件数は数えない）。
func (c *ListController) HasMore() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hasMore
}

// Err は直近の取得エラーを返します。成功すればクリアされます。
func (c *ListController) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastErr
}

// IsHighlighted はタスクがハイライト表示中かどうかを返します。
func (c *ListController) IsHighlighted(id string) bool {
	return c.highlights.IsHighlighted(id)
}

// SetPageSize は1ページの件数を変更します（既定は20、上限は100）。
func (c *ListController) SetPageSize(limit int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if limit < 1 {
		limit = 1
	}
	if limit > taskquery.MaxLimit {
		limit = taskquery.MaxLimit
	}
	c.limit = limit
}
