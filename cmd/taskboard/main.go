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

	"taskboard/internal/config"
	"taskboard/internal/httpapi"
	"taskboard/internal/notify"
	"taskboard/internal/repository"
	"taskboard/internal/service"

	taskauth "taskboard/internal/auth"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	db, err := repository.NewDB(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	sqlDB, err := db.DB()
	if err == nil {
		defer sqlDB.Close()
	}

	userRepo := repository.NewUserRepository(db)
	tokenRepo := repository.NewTokenRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	subtaskRepo := repository.NewSubTaskRepository(db)

	var sink notify.Sink = notify.LogSink{}
	if cfg.TelegramToken != "" {
		telegramSink, err := notify.NewTelegramSink(cfg.TelegramToken)
		if err != nil {
			log.Fatalf("telegram sink: %v", err)
		}
		sink = telegramSink
	}
	notifier := notify.NewNotifier(sink)

	issuer, err := taskauth.NewTokenIssuer([]byte(cfg.JWTSecret), "taskboard", cfg.AccessTokenTTL, cfg.RefreshTokenTTL, nil)
	if err != nil {
		log.Fatalf("token issuer: %v", err)
	}

	authSvc := service.NewAuthService(userRepo, tokenRepo, issuer, nil, nil)
	taskSvc := service.NewTaskService(taskRepo, notifier, cfg.PageSize, nil)
	subtaskSvc := service.NewSubTaskService(subtaskRepo, cfg.PageSize, nil)
	categorySvc := service.NewCategoryService(categoryRepo, nil)
	digestSvc := service.NewDigestService(taskRepo, userRepo, notifier, nil)

	scheduler := service.NewScheduler(time.Local)
	if _, err := scheduler.ScheduleDaily(cfg.DigestTime, func() {
		jobCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := digestSvc.SendOverdueDigests(jobCtx); err != nil && !errors.Is(err, context.Canceled) {
			log.Printf("[warn] overdue digest: %v", err)
		}
	}); err != nil {
		log.Fatalf("schedule digest: %v", err)
	}
	if _, err := scheduler.ScheduleInterval(cfg.TokenCleanupPeriod, func() {
		jobCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if removed, err := authSvc.CleanupExpiredTokens(jobCtx); err != nil {
			log.Printf("[warn] token cleanup: %v", err)
		} else if removed > 0 {
			log.Printf("[info] removed %d expired refresh tokens", removed)
		}
	}); err != nil {
		log.Fatalf("schedule token cleanup: %v", err)
	}
	scheduler.Start()
	defer scheduler.Stop()

	api := httpapi.New(authSvc, taskSvc, subtaskSvc, categorySvc)
	server := &http.Server{
		Addr:    cfg.Addr,
		Handler: api.Router(cfg.CORSOrigins),
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Printf("[warn] shutdown: %v", err)
		}
	}()

	log.Printf("[info] taskboard listening on %s", cfg.Addr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("server stopped with error: %v", err)
	}

	notifier.Wait()
	log.Println("Shutdown complete.")
}
