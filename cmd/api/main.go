package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"github.com/mub7865/Hackathone-2-sub003/internal/database"
	"github.com/mub7865/Hackathone-2-sub003/internal/ratelimit"
	"github.com/mub7865/Hackathone-2-sub003/internal/routes"

	"github.com/gin-gonic/gin"
)

func main() {
	// .env が無くてもエラーにしない（本番はコンテナの環境変数を使う）
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	db, err := database.InitDB()
	if err != nil {
		log.Fatalf("Fatal: %v", err)
	}
	defer db.Close()
	log.Println("Successfully connected to MySQL database!")

	// REDIS_ADDR が設定されている場合のみレートリミットを有効化する
	var middleware []gin.HandlerFunc
	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     addr,
			Password: os.Getenv("REDIS_PASSWORD"),
		})
		if err := rdb.Ping(context.Background()).Err(); err != nil {
			log.Printf("Warning: failed to connect to Redis at %s, rate limiting disabled: %v", addr, err)
		} else {
			limiter := ratelimit.NewLimiter(rdb, "ratelimit:")
			middleware = append(middleware, ratelimit.Middleware(limiter, 100, time.Minute))
			log.Printf("Rate limiting enabled via Redis at %s", addr)
		}
		defer rdb.Close()
	}

	r := routes.SetupRouter(db, middleware...)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    ":" + port,
		Handler: r,
	}

	// SIGINT / SIGTERM でグレースフルに停止する
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Printf("Server listening on port %s...", port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		log.Println("Shutting down server...")
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Fatalf("Fatal: %v", err)
	}
	log.Println("Server stopped")
}
