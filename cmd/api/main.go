package main

import (
	"context"

	"github.com/arjunmehta/mockview/internal/auth"
	"github.com/arjunmehta/mockview/internal/config"
	"github.com/arjunmehta/mockview/internal/database"
	"github.com/arjunmehta/mockview/internal/fetcher"
	"github.com/arjunmehta/mockview/internal/gemini"
	"github.com/arjunmehta/mockview/internal/handler"
	"github.com/arjunmehta/mockview/internal/logger"
	"github.com/arjunmehta/mockview/internal/repository"
	"github.com/arjunmehta/mockview/internal/session"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/joho/godotenv/autoload"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type application struct {
	DB      *pgxpool.Pool
	Redis   *redis.Client
	Logger  *zap.Logger
	Config  *config.Config
	Handler *handler.Handler
}

func main() {
	ctx := context.Background()
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log, err := logger.NewLogger(cfg.Env)
	if err != nil {
		panic(err)
	}
	defer log.Sync()
	sugar := log.Sugar()
	sugar.Infof("config loaded, env=%s", cfg.Env)

	pool, err := database.Connect(ctx, cfg.DB.DSN, cfg.DB.MaxOpenConns, cfg.DB.MaxConnLife)
	if err != nil {
		sugar.Fatal(err)
	}
	defer pool.Close()

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		sugar.Fatalf("redis ping: %v", err)
	}
	defer rdb.Close()

	aiClient, err := gemini.NewClient(ctx, gemini.Options{
		APIKey:        cfg.Gemini.APIKey,
		QuestionModel: cfg.Gemini.QuestionModel,
		EvalModel:     cfg.Gemini.EvalModel,
		TTSModel:      cfg.Gemini.TTSModel,
		Voice:         cfg.Gemini.Voice,
		Timeout:       cfg.Gemini.Timeout,
	})
	if err != nil {
		sugar.Fatal(err)
	}

	repo := repository.NewRepository(pool)
	sessionStore := session.NewRedisStore(rdb, cfg.Redis.SessionTTL)
	orchestrator := session.NewOrchestrator(aiClient, repo, repo, log,
		cfg.Interview.QuestionLimit, cfg.Interview.DefaultPeerAverage)

	handlerApp := &handler.Handler{
		Logger:       log,
		Store:        repo,
		Sessions:     sessionStore,
		Orchestrator: orchestrator,
		Speech:       aiClient,
		Fetcher:      fetcher.NewFetcher(),
		TokenMaker:   auth.NewJWTMaker(cfg.JWT.Secret),
		AccessTTL:    cfg.JWT.AccessTokenTTL,
		RefreshTTL:   cfg.JWT.RefreshTokenTTL,
		Development:  cfg.IsDevelopment(),
	}

	app := &application{
		DB:      pool,
		Redis:   rdb,
		Logger:  log,
		Config:  cfg,
		Handler: handlerApp,
	}

	if err := app.serve(); err != nil {
		sugar.Fatal(err)
	}
}
