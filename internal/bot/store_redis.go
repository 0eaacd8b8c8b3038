// SPDX-License-Identifier: MIT

package bot

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

type redisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore keeps conversations in Redis so state survives restarts and
// can be shared between instances.
func NewRedisStore(addr, password string, db int, ttl time.Duration) (Store, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &redisStore{client: client, ttl: ttl}, nil
}

func redisKey(chatID int64) string {
	return fmt.Sprintf("conv:%d", chatID)
}

func (s *redisStore) Get(ctx context.Context, chatID int64) (Conversation, error) {
	raw, err := s.client.Get(ctx, redisKey(chatID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return Conversation{}, nil
	}
	if err != nil {
		return Conversation{}, fmt.Errorf("redis get conversation: %w", err)
	}

	var conv Conversation
	if err := json.Unmarshal(raw, &conv); err != nil {
		// Unreadable state is as good as no state.
		return Conversation{}, nil
	}
	return conv, nil
}

func (s *redisStore) Put(ctx context.Context, chatID int64, conv Conversation) error {
	conv.UpdatedAt = time.Now()

	raw, err := json.Marshal(conv)
	if err != nil {
		return fmt.Errorf("marshal conversation: %w", err)
	}
	if err := s.client.Set(ctx, redisKey(chatID), raw, s.ttl).Err(); err != nil {
		return fmt.Errorf("redis put conversation: %w", err)
	}
	return nil
}

func (s *redisStore) Delete(ctx context.Context, chatID int64) error {
	if err := s.client.Del(ctx, redisKey(chatID)).Err(); err != nil {
		return fmt.Errorf("redis delete conversation: %w", err)
	}
	return nil
}

func (s *redisStore) Close() error {
	return s.client.Close()
}
