// SPDX-License-Identifier: MIT

package bot

import (
	"context"
	"sync"
	"time"

	"github.com/vpolyany/polyansky-bot/internal/metrics"
)

type memoryStore struct {
	mu   sync.Mutex
	ttl  time.Duration
	data map[int64]Conversation

	stop     chan struct{}
	stopOnce sync.Once
}

// NewMemoryStore keeps conversations in process memory. Suitable for a
// single instance without Redis.
func NewMemoryStore(ttl time.Duration) Store {
	s := &memoryStore{
		ttl:  ttl,
		data: make(map[int64]Conversation),
		stop: make(chan struct{}),
	}
	go s.janitor()
	return s
}

func (s *memoryStore) Get(_ context.Context, chatID int64) (Conversation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	conv, ok := s.data[chatID]
	if !ok || s.expired(conv) {
		return Conversation{}, nil
	}
	return conv, nil
}

func (s *memoryStore) Put(_ context.Context, chatID int64, conv Conversation) error {
	conv.UpdatedAt = time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, existed := s.data[chatID]; !existed {
		metrics.ConversationsActive.Inc()
	}
	s.data[chatID] = conv
	return nil
}

func (s *memoryStore) Delete(_ context.Context, chatID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, existed := s.data[chatID]; existed {
		metrics.ConversationsActive.Dec()
	}
	delete(s.data, chatID)
	return nil
}

func (s *memoryStore) Close() error {
	s.stopOnce.Do(func() { close(s.stop) })
	return nil
}

func (s *memoryStore) expired(conv Conversation) bool {
	return s.ttl > 0 && time.Since(conv.UpdatedAt) > s.ttl
}

func (s *memoryStore) janitor() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.mu.Lock()
			for chatID, conv := range s.data {
				if s.expired(conv) {
					delete(s.data, chatID)
					metrics.ConversationsActive.Dec()
				}
			}
			s.mu.Unlock()
		case <-s.stop:
			return
		}
	}
}
