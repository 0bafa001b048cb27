// Package repositories はデータベース操作を行うリポジトリを提供します。
package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/mub7865/Hackathone-2-sub003/internal/models"
	"github.com/mub7865/Hackathone-2-sub003/internal/taskquery"
)

var (
	// ErrTaskNotFound は対象が存在しない、または呼び出し元の所有でない場合のエラーです。
	ErrTaskNotFound = errors.New("task not found")
	// ErrStorageUnavailable はストアに到達できない場合のエラーです。呼び出し側でリトライ可能。
	ErrStorageUnavailable = errors.New("storage unavailable")
)

// storageErr はストアのエラーを ErrStorageUnavailable として包みます。
func storageErr(op string, err error) error {
	return fmt.Errorf("could not %s: %v: %w", op, err, ErrStorageUnavailable)
}

// TaskRepository はタスクのデータベース操作を行うための構造体です。
// すべてのクエリは所有者IDでスコープされ、これを迂回する経路はありません。
type TaskRepository struct {
	DB *sql.DB
}

// NewTaskRepository は新しいTaskRepositoryインスタンスを作成します。
func NewTaskRepository(db *sql.DB) *TaskRepository {
	return &TaskRepository{DB: db}
}

const taskColumns = "id, user_id, title, description, status, created_at, updated_at"

// Create は新しいタスクをデータベースに挿入します。
func (r *TaskRepository) Create(t *models.Task) (*models.Task, error) {
	query := "INSERT INTO tasks (" + taskColumns + ") VALUES (?, ?, ?, ?, ?, ?, ?)"

	_, err := r.DB.Exec(query, t.ID, t.UserID, t.Title, t.Description, string(t.Status), t.CreatedAt, t.UpdatedAt)
	if err != nil {
		log.Printf("Failed to insert task: %v", err)
		return nil, storageErr("insert task", err)
	}
	return t, nil
}

// FindByID は所有者のタスクを1件取得します。
// 存在しない場合も他人の所有の場合も区別せず ErrTaskNotFound を返します。
func (r *TaskRepository) FindByID(ownerID int, id string) (*models.Task, error) {
	query := "SELECT " + taskColumns + " FROM tasks WHERE id = ? AND user_id = ?"

	var t models.Task
	err := r.DB.QueryRow(query, id, ownerID).Scan(
		&t.ID, &t.UserID, &t.Title, &t.Description, &t.Status, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTaskNotFound
		}
		log.Printf("Failed to query task by ID: %v", err)
		return nil, storageErr("query task", err)
	}
	return &t, nil
}

// List は検証済みのクエリ条件で所有者のタスクを検索します。
// フィルタ・検索・ソートを適用した後に offset/limit を切り出します。
// 結果が空でもエラーにはなりません。
func (r *TaskRepository) List(ownerID int, q taskquery.Query) ([]*models.Task, error) {
	var (
		sb   strings.Builder
		args []interface{}
	)
	sb.WriteString("SELECT " + taskColumns + " FROM tasks WHERE user_id = ?")
	args = append(args, ownerID)

	if q.Status != taskquery.StatusAll {
		sb.WriteString(" AND status = ?")
		args = append(args, string(q.Status))
	}

	if q.Search != "" {
		// タイトルと説明に対する大文字小文字を区別しない部分一致
		pattern := "%" + strings.ToLower(q.Search) + "%"
		sb.WriteString(" AND (LOWER(title) LIKE ? OR LOWER(COALESCE(description, '')) LIKE ?)")
		args = append(args, pattern, pattern)
	}

	dir := "DESC"
	if q.Order == taskquery.OrderAsc {
		dir = "ASC"
	}
	// q.Sort / dir は列挙値に検証済みなので文字列連結しても安全
	// created_at や title は衝突しうるため id で決定的にタイブレークする
	sb.WriteString(fmt.Sprintf(" ORDER BY %s %s, id %s", string(q.Sort), dir, dir))

	sb.WriteString(" LIMIT ? OFFSET ?")
	args = append(args, q.Limit, q.Offset)

	rows, err := r.DB.Query(sb.String(), args...)
	if err != nil {
		log.Printf("Failed to query tasks: %v", err)
		return nil, storageErr("query tasks", err)
	}
	defer rows.Close()

	tasks := make([]*models.Task, 0)
	for rows.Next() {
		var t models.Task
		err := rows.Scan(&t.ID, &t.UserID, &t.Title, &t.Description, &t.Status, &t.CreatedAt, &t.UpdatedAt)
		if err != nil {
			log.Printf("Failed to scan task: %v", err)
			return nil, storageErr("scan task", err)
		}
		tasks = append(tasks, &t)
	}
	if err = rows.Err(); err != nil {
		return nil, storageErr("iterate tasks", err)
	}

	return tasks, nil
}

// Update は所有者のタスクを全フィールド上書きで更新します。
// 更新前の読み出しとパッチ適用はサービス層が行います。
func (r *TaskRepository) Update(ownerID int, t *models.Task) (*models.Task, error) {
	query := "UPDATE tasks SET title = ?, description = ?, status = ?, updated_at = ? WHERE id = ? AND user_id = ?"

	result, err := r.DB.Exec(query, t.Title, t.Description, string(t.Status), t.UpdatedAt, t.ID, ownerID)
	if err != nil {
		log.Printf("Failed to update task: %v", err)
		return nil, storageErr("update task", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return nil, storageErr("get rows affected", err)
	}
	if rowsAffected == 0 {
		return nil, ErrTaskNotFound
	}

	return t, nil
}

// Delete は所有者のタスクを削除します。ソフトデリートは行いません。
func (r *TaskRepository) Delete(ownerID int, id string) error {
	query := "DELETE FROM tasks WHERE id = ? AND user_id = ?"

	result, err := r.DB.Exec(query, id, ownerID)
	if err != nil {
		log.Printf("Failed to delete task: %v", err)
		return storageErr("delete task", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return storageErr("get rows affected", err)
	}
	if rowsAffected == 0 {
		return ErrTaskNotFound
	}

	return nil
}
