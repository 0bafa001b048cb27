package services

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mub7865/Hackathone-2-sub003/internal/models"
	"github.com/mub7865/Hackathone-2-sub003/internal/repositories"
	"github.com/mub7865/Hackathone-2-sub003/internal/taskquery"
)

var (
	// ErrInvalidTitle はタイトルが空・空白のみ・長すぎる場合のエラーです。
	ErrInvalidTitle = errors.New("title must be 1 to 255 characters")
	// ErrInvalidStatus は定義外の状態値が指定された場合のエラーです。
	ErrInvalidStatus = errors.New("status must be pending or completed")
)

// TaskService はタスク関連のビジネスロジックを扱います。
// 所有者IDは常にリポジトリまで引き回され、認可はクエリ自体で担保されます。
type TaskService struct {
	taskRepo *repositories.TaskRepository
	now      func() time.Time // テストで固定できるように差し替え可能にする
}

// NewTaskService は新しいTaskServiceを作成します。
func NewTaskService(taskRepo *repositories.TaskRepository) *TaskService {
	return &TaskService{
		taskRepo: taskRepo,
		// DATETIME列は秒精度のため、丸めておくとDB往復で値が変わらない
		now: func() time.Time { return time.Now().UTC().Truncate(time.Second) },
	}
}

// CreateTask は新しいタスクを作成します。状態は必ず pending から始まります。
func (s *TaskService) CreateTask(ownerID int, req models.CreateTaskRequest) (*models.Task, error) {
	if !models.ValidTitle(req.Title) {
		return nil, ErrInvalidTitle
	}

	now := s.now()
	task := &models.Task{
		ID:          uuid.NewString(),
		UserID:      ownerID,
		Title:       strings.TrimSpace(req.Title),
		Description: req.Description,
		Status:      models.StatusPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	return s.taskRepo.Create(task)
}

// ListTasks は検証済みのクエリ条件で所有者のタスク一覧を取得します。
func (s *TaskService) ListTasks(ownerID int, q taskquery.Query) ([]*models.Task, error) {
	return s.taskRepo.List(ownerID, q)
}

// GetTask は所有者のタスクを1件取得します。
func (s *TaskService) GetTask(ownerID int, id string) (*models.Task, error) {
	return s.taskRepo.FindByID(ownerID, id)
}

// UpdateTask はタスクを部分更新します。nilのフィールドは変更されません。
func (s *TaskService) UpdateTask(ownerID int, id string, req models.UpdateTaskRequest) (*models.Task, error) {
	task, err := s.taskRepo.FindByID(ownerID, id)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		if !models.ValidTitle(*req.Title) {
			return nil, ErrInvalidTitle
		}
		task.Title = strings.TrimSpace(*req.Title)
	}
	if req.Description != nil {
		task.Description = req.Description
	}
	if req.Status != nil {
		if !req.Status.Valid() {
			return nil, ErrInvalidStatus
		}
		task.Status = *req.Status
	}

	task.UpdatedAt = s.now()
	return s.taskRepo.Update(ownerID, task)
}

// ToggleTask はタスクの pending / completed を反転します。
func (s *TaskService) ToggleTask(ownerID int, id string) (*models.Task, error) {
	task, err := s.taskRepo.FindByID(ownerID, id)
	if err != nil {
		return nil, err
	}

	task.Status = task.Status.Toggle()
	task.UpdatedAt = s.now()
	return s.taskRepo.Update(ownerID, task)
}

// DeleteTask はタスクを削除します。削除は即時で取り消せません。
func (s *TaskService) DeleteTask(ownerID int, id string) error {
	return s.taskRepo.Delete(ownerID, id)
}
