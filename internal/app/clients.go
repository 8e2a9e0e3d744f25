package app

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/yungbote/studyflow-backend/internal/clients/redis"
	"github.com/yungbote/studyflow-backend/internal/modules/narrative"
	"github.com/yungbote/studyflow-backend/internal/platform/logger"
	"github.com/yungbote/studyflow-backend/internal/platform/openai"
)

type Clients struct {
	// RedisTimer is nil when REDIS_ADDR is unset.
	RedisTimer *redis.TimerStore
	Enhancer   narrative.Enhancer

	closers []io.Closer
}

func wireClients(ctx context.Context, log *logger.Logger, cfg Config) (Clients, error) {
	log.Info("Wiring clients...")
	var out Clients

	// Redis
	if strings.TrimSpace(cfg.RedisAddr) != "" {
		store, err := redis.NewTimerStore(ctx, log, redis.TimerStoreConfig{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
			TTL:      cfg.TimerTTL,
		})
		if err != nil {
			return Clients{}, fmt.Errorf("init redis timer store: %w", err)
		}
		out.RedisTimer = store
		out.closers = append(out.closers, store)
	}

	// Openai
	out.Enhancer = narrative.Disabled()
	if strings.TrimSpace(cfg.OpenAIAPIKey) != "" {
		client, err := openai.NewClient(log, openai.Config{
			APIKey:     cfg.OpenAIAPIKey,
			BaseURL:    cfg.OpenAIBaseURL,
			Model:      cfg.OpenAIModel,
			Timeout:    cfg.OpenAITimeout,
			MaxRetries: 2,
		})
		if err != nil {
			out.Close()
			return Clients{}, fmt.Errorf("init openai client: %w", err)
		}
		out.Enhancer = client
	} else {
		log.Info("OPENAI_API_KEY not set; narrative enhancer disabled")
	}
	return out, nil
}

func (c Clients) Close() {
	for _, cl := range c.closers {
		_ = cl.Close()
	}
}
