package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mub7865/Hackathone-2-sub003/internal/models"
	"github.com/mub7865/Hackathone-2-sub003/internal/repositories"
	"github.com/mub7865/Hackathone-2-sub003/internal/services"
	"github.com/mub7865/Hackathone-2-sub003/internal/taskquery"
)

// TaskHandler はタスク関連のハンドラーを管理します。
type TaskHandler struct {
	taskService *services.TaskService
}

// NewTaskHandler は新しいTaskHandlerを作成します。
func NewTaskHandler(taskService *services.TaskService) *TaskHandler {
	return &TaskHandler{taskService: taskService}
}

// currentUserID は認証ミドルウェアがセットしたユーザーIDを取り出します。
// 取り出せない場合はレスポンスを書いて false を返します。
func currentUserID(c *gin.Context) (int, bool) {
	userIDVal, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User ID not found in context"})
		return 0, false
	}
	userID, ok := userIDVal.(int)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Invalid user ID type in context"})
		return 0, false
	}
	return userID, true
}

// writeTaskError はサービス層のエラーをHTTPレスポンスに変換します。
func writeTaskError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, repositories.ErrTaskNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
	case errors.Is(err, repositories.ErrStorageUnavailable):
		// リトライ可能なエラー。クライアントは表示中のリストを保持したまま再試行する
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Storage unavailable, please retry"})
	case errors.Is(err, services.ErrInvalidTitle):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Title must be 1 to 255 characters", "field": "title"})
	case errors.Is(err, services.ErrInvalidStatus):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Status must be pending or completed", "field": "status"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}

// ListTasksHandler はフィルタ・検索・ソート・ページングを適用したタスク一覧を返します。
// レスポンスはエンベロープなしの生のJSON配列で、クライアントは
// len(結果) == limit から「まだ続きがある」と推測します。
func (h *TaskHandler) ListTasksHandler(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	q, err := taskquery.Parse(c.Request.URL.Query())
	if err != nil {
		var fieldErr *taskquery.FieldError
		if errors.As(err, &fieldErr) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": fieldErr.Detail, "field": fieldErr.Field})
			return
		}
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Invalid query parameters"})
		return
	}

	tasks, err := h.taskService.ListTasks(userID, q)
	if err != nil {
		writeTaskError(c, err)
		return
	}
	c.JSON(http.StatusOK, tasks)
}

// CreateTaskHandler は新しいタスクを作成します。
func (h *TaskHandler) CreateTaskHandler(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req models.CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload", "details": err.Error()})
		return
	}

	createdTask, err := h.taskService.CreateTask(userID, req)
	if err != nil {
		writeTaskError(c, err)
		return
	}
	c.JSON(http.StatusCreated, createdTask)
}

// GetTaskByIDHandler は指定IDのタスクを取得します。
// 存在しない場合と所有していない場合はどちらも404になります。
func (h *TaskHandler) GetTaskByIDHandler(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	task, err := h.taskService.GetTask(userID, c.Param("id"))
	if err != nil {
		writeTaskError(c, err)
		return
	}
	c.JSON(http.StatusOK, task)
}

// UpdateTaskHandler はタスクを部分更新します。
// ボディに含まれないフィールドは変更されません。
func (h *TaskHandler) UpdateTaskHandler(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req models.UpdateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload", "details": err.Error()})
		return
	}

	updatedTask, err := h.taskService.UpdateTask(userID, c.Param("id"), req)
	if err != nil {
		writeTaskError(c, err)
		return
	}
	c.JSON(http.StatusOK, updatedTask)
}

// ToggleTaskHandler はタスクの完了状態を反転します。
func (h *TaskHandler) ToggleTaskHandler(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	toggledTask, err := h.taskService.ToggleTask(userID, c.Param("id"))
	if err != nil {
		writeTaskError(c, err)
		return
	}
	c.JSON(http.StatusOK, toggledTask)
}

// DeleteTaskHandler はタスクを削除します。
func (h *TaskHandler) DeleteTaskHandler(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	if err := h.taskService.DeleteTask(userID, c.Param("id")); err != nil {
		writeTaskError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
