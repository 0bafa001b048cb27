// Package testutilはテスト用のデータベースとルーターのセットアップを提供します。
// テストは外部のMySQLに依存せず、純Goのインメモリ SQLite を使います。
package testutil

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mub7865/Hackathone-2-sub003/internal/models"
	"github.com/mub7865/Hackathone-2-sub003/internal/repositories"
	"github.com/mub7865/Hackathone-2-sub003/internal/routes"

	"github.com/gin-gonic/gin"
	_ "modernc.org/sqlite"
)

// SetupTestDB はテスト用のインメモリDBを作成し、テーブルとテストユーザーを投入します。
func SetupTestDB(t *testing.T) (*sql.DB, *gin.Engine, *repositories.TaskRepository, *repositories.UserRepository) {
	t.Helper()

	if os.Getenv("JWT_SECRET") == "" {
		os.Setenv("JWT_SECRET", "test-secret")
	}

	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("Failed to open database connection: %v", err)
	}
	// :memory: はコネクションごとに別のDBになるため、プールを1本に固定する
	db.SetMaxOpenConns(1)
	if err := db.Ping(); err != nil {
		db.Close()
		t.Fatalf("Failed to ping database: %v", err)
	}

	// ユーザーテーブルの作成
	createUserTableSQL := `
		CREATE TABLE users (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			username TEXT NOT NULL UNIQUE,
			email TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);`
	if _, err := db.Exec(createUserTableSQL); err != nil {
		t.Fatalf("Failed to create users table: %v", err)
	}

	// タスクテーブルの作成
	createTaskTableSQL := `
		CREATE TABLE tasks (
			id TEXT PRIMARY KEY,
			user_id INTEGER NOT NULL,
			title TEXT NOT NULL,
			description TEXT,
			status TEXT NOT NULL DEFAULT 'pending',
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL,
			FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE
		);`
	if _, err := db.Exec(createTaskTableSQL); err != nil {
		t.Fatalf("Failed to create tasks table: %v", err)
	}

	// テストユーザーの挿入
	userRepo := repositories.NewUserRepository(db)
	CreateTestUser(t, userRepo, "normal_user", "normal_user@example.com", "password123")
	CreateTestUser(t, userRepo, "second_user", "second_user@example.com", "password456")

	router := SetupTestRouter(t, db)
	taskRepo := repositories.NewTaskRepository(db)

	return db, router, taskRepo, userRepo
}

// SetupTestRouter はテスト用のGinルーターをセットアップします。
func SetupTestRouter(t *testing.T, db *sql.DB) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	return routes.SetupRouter(db)
}

// CreateTestUser はテスト用ユーザーを作成します。
func CreateTestUser(t *testing.T, userRepo *repositories.UserRepository, username, email, password string) *models.User {
	t.Helper()
	hashedPassword, err := repositories.HashPassword(password)
	require.NoError(t, err)

	newUser := models.User{
		Username:     username,
		Email:        email,
		PasswordHash: hashedPassword,
	}

	createdUser, err := userRepo.Create(&newUser)
	require.NoError(t, err)
	require.NotNil(t, createdUser)
	require.NotEqual(t, 0, createdUser.ID)
	return createdUser
}

// CreateTestTask はAPI経由でテスト用のタスクを作成します。
// completed が true の場合は作成後にトグルして完了状態にします。
func CreateTestTask(t *testing.T, router *gin.Engine, token, title string, completed bool) *models.Task {
	t.Helper()
	taskPayload := map[string]interface{}{
		"title": title,
	}
	body, _ := json.Marshal(taskPayload)

	req, _ := http.NewRequest(http.MethodPost, "/api/v1/tasks", bytes.NewBuffer(body))
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	require.Equal(t, http.StatusCreated, resp.Code, "failed to create task: %s", resp.Body.String())

	var createdTask models.Task
	err := json.Unmarshal(resp.Body.Bytes(), &createdTask)
	require.NoError(t, err)

	if completed {
		req, _ := http.NewRequest(http.MethodPost, "/api/v1/tasks/"+createdTask.ID+"/toggle", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, req)
		require.Equal(t, http.StatusOK, resp.Code, "failed to toggle task: %s", resp.Body.String())
		err := json.Unmarshal(resp.Body.Bytes(), &createdTask)
		require.NoError(t, err)
	}

	return &createdTask
}

// LoginAndGetToken はログインしてJWTトークンを取得します。
func LoginAndGetToken(t *testing.T, router *gin.Engine, email, password string) (string, error) {
	t.Helper()
	loginPayload := map[string]string{
		"email":    email,
		"password": password,
	}
	body, _ := json.Marshal(loginPayload)

	req, _ := http.NewRequest(http.MethodPost, "/api/login", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		return "", fmt.Errorf("login failed with status %d: %s", resp.Code, resp.Body.String())
	}

	var loginRes map[string]interface{}
	err := json.Unmarshal(resp.Body.Bytes(), &loginRes)
	if err != nil {
		return "", fmt.Errorf("failed to unmarshal login response: %w", err)
	}

	token, ok := loginRes["token"].(string)
	if !ok {
		return "", errors.New("token not found or not a string in login response")
	}
	return token, nil
}
