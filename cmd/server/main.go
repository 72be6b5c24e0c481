package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/hperssn/unibalance/internal/cache"
	"github.com/hperssn/unibalance/internal/config"
	"github.com/hperssn/unibalance/internal/domain"
	"github.com/hperssn/unibalance/internal/http"
	"github.com/hperssn/unibalance/internal/media"
	"github.com/hperssn/unibalance/internal/notify"
	"github.com/hperssn/unibalance/internal/quiz"
	"github.com/hperssn/unibalance/internal/runner"
	"github.com/hperssn/unibalance/internal/storage"
)

const analysisDelay = 2 * time.Second

func main() {
	cfg := config.Load()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	repo, err := storage.Open(cfg)
	if err != nil {
		log.Fatalf("failed to open storage: %v", err)
	}
	defer repo.Close()

	quizStore, closeStore := openQuizStore(cfg)
	defer closeStore()

	publisher := openPublisher(cfg)
	defer publisher.Close()

	album, err := openAlbum(ctx, cfg)
	if err != nil {
		log.Fatalf("failed to open recordings album: %v", err)
	}

	manager := runner.NewManager(runner.ManagerConfig{})
	defer manager.Close()

	manager.OnComplete(func(s domain.Session, seconds int) {
		if err := repo.SaveExercise(storage.FromSession(s, seconds)); err != nil {
			log.Printf("failed to save exercise %s: %v", s.ID, err)
		}
	})
	manager.OnComplete(func(s domain.Session, seconds int) {
		pubCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := publisher.PublishCompleted(pubCtx, notify.NewExerciseCompleted(s, seconds)); err != nil {
			log.Printf("failed to publish completion of %s: %v", s.ID, err)
		}
	})

	studio := media.NewStudio(media.RecorderConfig{
		OnAutoStop: func(r media.Recording) {
			log.Printf("recording %s stopped at the time limit", r.ID)
		},
	})

	router := httpapi.NewRouter(httpapi.Deps{
		Manager:       manager,
		Quizzes:       quiz.NewService(quizStore),
		Repo:          repo,
		Studio:        studio,
		Album:         album,
		JWTSecret:     cfg.Auth.JWTSecret,
		StaticDir:     cfg.Server.StaticDir,
		AnalysisDelay: analysisDelay,
	})

	srv := &http.Server{
		Addr:    ":" + cfg.Server.HTTPPort,
		Handler: router,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("shutdown: %v", err)
		}
	}()

	log.Printf("listening on :%s", cfg.Server.HTTPPort)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal(err)
	}
}

func openQuizStore(cfg *config.Config) (quiz.Store, func()) {
	if !cfg.Redis.Enabled() {
		return quiz.NewMemoryStore(), func() {}
	}

	client, err := cache.NewRedisClient(cfg.Redis)
	if err != nil {
		log.Printf("redis unavailable, keeping quizzes in memory: %v", err)
		return quiz.NewMemoryStore(), func() {}
	}
	log.Printf("quiz sessions stored in redis at %s:%s", cfg.Redis.Host, cfg.Redis.Port)
	return quiz.NewRedisStore(client, cfg.Redis.QuizTTL), func() { client.Close() }
}

func openPublisher(cfg *config.Config) notify.Publisher {
	if !cfg.RabbitMQ.Enabled() {
		return notify.Nop{}
	}

	p, err := notify.NewRabbitMQPublisher(cfg.RabbitMQ)
	if err != nil {
		log.Printf("rabbitmq unavailable, completion events disabled: %v", err)
		return notify.Nop{}
	}
	return p
}

func openAlbum(ctx context.Context, cfg *config.Config) (media.Album, error) {
	if !cfg.S3.Enabled() {
		return media.NewDirAlbum(cfg.S3.LocalDir)
	}

	a, err := media.NewS3Album(cfg.S3)
	if err != nil {
		return nil, err
	}
	if err := a.EnsureBucket(ctx); err != nil {
		return nil, err
	}
	return a, nil
}
