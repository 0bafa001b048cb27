// Package routesはroutingを行います。
package routes

import (
	"database/sql"
	"net/http"
	"os"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/mub7865/Hackathone-2-sub003/internal/handlers"
	"github.com/mub7865/Hackathone-2-sub003/internal/repositories"
	"github.com/mub7865/Hackathone-2-sub003/internal/services"
)

// SetupRouter はGinルーターをセットアップし、すべてのエンドポイントを登録します。
// extraMiddleware にはレートリミットなどの任意ミドルウェアを渡せます。
func SetupRouter(db *sql.DB, extraMiddleware ...gin.HandlerFunc) *gin.Engine {
	r := gin.Default()

	// CORS対策
	frontendURL := os.Getenv("FRONTEND_URL")
	if frontendURL == "" {
		frontendURL = "http://localhost:3000"
	}
	config := cors.DefaultConfig()
	config.AllowOrigins = []string{frontendURL}
	config.AllowMethods = []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"}
	config.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization"}
	config.AllowCredentials = true
	r.Use(cors.New(config))

	for _, mw := range extraMiddleware {
		r.Use(mw)
	}

	// リポジトリ
	taskRepo := repositories.NewTaskRepository(db)
	userRepo := repositories.NewUserRepository(db)

	// サービス
	taskService := services.NewTaskService(taskRepo)
	userService := services.NewUserService(userRepo)
	jwtService := services.NewJWTService()

	// ハンドラー
	userHandler := handlers.NewUserHandler(userService, jwtService)
	taskHandler := handlers.NewTaskHandler(taskService)

	// ルーティング
	r.GET("/api/healthz", func(c *gin.Context) {
		if err := db.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "error", "message": "Database connection failed", "error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok", "message": "Database connection is healthy"})
	})
	r.POST("/api/register", userHandler.RegisterHandler)
	r.POST("/api/login", userHandler.LoginHandler)

	authorized := r.Group("/api/v1")
	authorized.Use(AuthMiddleware(jwtService))
	{
		authorized.GET("/tasks", taskHandler.ListTasksHandler)
		authorized.GET("/tasks/:id", taskHandler.GetTaskByIDHandler)
		authorized.POST("/tasks", taskHandler.CreateTaskHandler)
		authorized.PATCH("/tasks/:id", taskHandler.UpdateTaskHandler)
		authorized.POST("/tasks/:id/toggle", taskHandler.ToggleTaskHandler)
		authorized.DELETE("/tasks/:id", taskHandler.DeleteTaskHandler)
	}

	return r
}
