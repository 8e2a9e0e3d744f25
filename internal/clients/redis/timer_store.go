package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"

	"github.com/yungbote/studyflow-backend/internal/modules/timer"
	"github.com/yungbote/studyflow-backend/internal/platform/logger"
)

const timerKeyPrefix = "studyflow:timer:"

type TimerStoreConfig struct {
	Addr     string
	Password string
	DB       int
	// TTL expires abandoned timers. Zero keeps them forever.
	TTL time.Duration
}

// TimerStore keeps timer snapshots as JSON strings keyed by user.
type TimerStore struct {
	log *logger.Logger
	rdb *goredis.Client
	ttl time.Duration
}

func NewTimerStore(ctx context.Context, log *logger.Logger, cfg TimerStoreConfig) (*TimerStore, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	addr := strings.TrimSpace(cfg.Addr)
	if addr == "" {
		return nil, fmt.Errorf("missing REDIS_ADDR")
	}
	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		Password:    cfg.Password,
		DB:          cfg.DB,
		DialTimeout: 5 * time.Second,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return &TimerStore{
		log: log.With("service", "RedisTimerStore"),
		rdb: rdb,
		ttl: cfg.TTL,
	}, nil
}

func TimerKey(userID uuid.UUID) string {
	return timerKeyPrefix + userID.String()
}

func (s *TimerStore) Load(ctx context.Context, userID uuid.UUID) (timer.Snapshot, error) {
	raw, err := s.rdb.Get(ctx, TimerKey(userID)).Bytes()
	if errors.Is(err, goredis.Nil) {
		return timer.Snapshot{State: timer.StateIdle}, nil
	}
	if err != nil {
		return timer.Snapshot{}, err
	}
	var snap timer.Snapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		s.log.Warn("discarding unreadable timer snapshot", "user_id", userID.String(), "error", err)
		return timer.Snapshot{State: timer.StateIdle}, nil
	}
	return snap, nil
}

func (s *TimerStore) Save(ctx context.Context, userID uuid.UUID, snap timer.Snapshot) error {
	raw, err := json.Marshal(snap)
	if err != nil {
		return err
	}
	return s.rdb.Set(ctx, TimerKey(userID), raw, s.ttl).Err()
}

func (s *TimerStore) Close() error {
	if s == nil || s.rdb == nil {
		return nil
	}
	return s.rdb.Close()
}
