package main

import (
	"context"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/gustavo-prezzoti/lead-qualifier/internal/classifier"
	"github.com/gustavo-prezzoti/lead-qualifier/internal/gateway"
	"github.com/gustavo-prezzoti/lead-qualifier/internal/qualifier"
	"github.com/gustavo-prezzoti/lead-qualifier/internal/queue"
	"github.com/gustavo-prezzoti/lead-qualifier/internal/transcribe"
	"github.com/gustavo-prezzoti/lead-qualifier/pkg/openai"
)

// env bundles the wired pipeline components shared by the subcommands.
type env struct {
	Gateway   gateway.Client
	Queue     queue.Queue
	Qualifier *qualifier.Qualifier
	rdb       *redis.Client
}

// initEnv constructs every component from the loaded configuration.
func initEnv(ctx context.Context) (*env, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr: cfg.Redis.Addr(),
		DB:   cfg.Redis.DB,
	})

	q := queue.NewRedis(rdb, cfg.Queue.Name)
	if err := q.Ping(ctx); err != nil {
		zap.L().Warn("redis unreachable at startup, queue operations will fail open", zap.Error(err))
	}

	gw := gateway.NewClient(cfg.Backend.BaseURL, cfg.Backend.InternalKey)

	aiClient := openai.NewClient(cfg.OpenAI.Key,
		openai.WithChatModel(cfg.OpenAI.Model),
		openai.WithWhisperModel(cfg.OpenAI.WhisperModel),
	)
	transcriber := transcribe.New(aiClient, transcribe.WithLanguage(cfg.OpenAI.Language))
	decider := classifier.New(aiClient, transcriber, classifier.WithModel(cfg.OpenAI.Model))

	qf := qualifier.New(gw, q, decider,
		qualifier.WithMessageLimit(cfg.Qualifier.MessageLimit),
		qualifier.WithDequeueTimeout(cfg.Qualifier.DequeueTimeout()),
	)

	return &env{
		Gateway:   gw,
		Queue:     q,
		Qualifier: qf,
		rdb:       rdb,
	}, nil
}

// Close releases held connections.
func (e *env) Close() {
	_ = e.rdb.Close()
}
