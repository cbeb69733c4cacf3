package main

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"sessionbook/internal/config"
	"sessionbook/internal/core/auth"
	"sessionbook/internal/core/session"
	"sessionbook/internal/core/teacher"
	"sessionbook/internal/core/token"
	"sessionbook/internal/core/user"
	"sessionbook/internal/logger"
	"sessionbook/internal/storage/postgres"
	redisstore "sessionbook/internal/storage/redis"
	"sessionbook/internal/transport/rest"

	"github.com/redis/go-redis/v9"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := config.Load()
	log := logger.New(cfg)

	if cfg.JWTSecret == "" {
		panic("FATAL: JWT_SECRET is mandatory for Server!")
	}

	dbPool, err := postgres.InitDB(cfg.DatabaseURL, log)
	if err != nil {
		log.Error("failed to init DB", "error", err)
		return
	}
	defer dbPool.Close()

	var teacherCache teacher.Cache
	if cfg.RedisAddr != "" {
		redisClient := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		defer redisClient.Close()

		teacherCache = redisstore.NewCache(redisClient)
		log.Info("redis cache enabled", "addr", cfg.RedisAddr)
	}

	userRepo := postgres.NewUserRepository(dbPool)
	teacherRepo := postgres.NewTeacherRepository(dbPool)
	sessionRepo := postgres.NewSessionRepository(dbPool)

	codec := token.NewCodec([]byte(cfg.JWTSecret), cfg.JWTExpiry, time.Now)

	authService := auth.NewService(userRepo, codec)
	sessionService := session.NewService(sessionRepo, userRepo)
	teacherService := teacher.NewService(teacherRepo, teacherCache, log)
	userService := user.NewService(userRepo)

	router := rest.NewRouter(cfg, log, &rest.RouterDeps{
		Codec:    codec,
		Resolver: authService,

		Auth:    rest.NewAuthHandler(authService),
		Session: rest.NewSessionHandler(sessionService),
		Teacher: rest.NewTeacherHandler(teacherService),
		User:    rest.NewUserHandler(userService),
	})

	srv := rest.NewServer(router, cfg.Address)

	errCh := make(chan error, 1)
	go func() {
		log.Info("http: starting server", "address", cfg.Address)
		errCh <- srv.ListenAndServe()
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("http: server shutdown error", "error", err)
		}

	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			log.Error("http: server error", "error", err)
		}
	}

	log.Info("server stopped")
}
