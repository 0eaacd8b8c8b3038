// SPDX-License-Identifier: MIT

package bot

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	badger "github.com/dgraph-io/badger/v4"
)

type badgerStore struct {
	db  *badger.DB
	ttl time.Duration
}

// NewBadgerStore keeps conversations in an embedded Badger database under
// dir. State survives restarts without an external Redis.
func NewBadgerStore(dir string, ttl time.Duration) (Store, error) {
	opts := badger.DefaultOptions(dir).WithLogger(nil)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("badger open %s: %w", dir, err)
	}
	return &badgerStore{db: db, ttl: ttl}, nil
}

func badgerKey(chatID int64) []byte {
	return []byte(fmt.Sprintf("conv:%d", chatID))
}

func (s *badgerStore) Get(_ context.Context, chatID int64) (Conversation, error) {
	var conv Conversation
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(badgerKey(chatID))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &conv)
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return Conversation{}, nil
	}
	if err != nil {
		return Conversation{}, fmt.Errorf("badger get conversation: %w", err)
	}
	return conv, nil
}

func (s *badgerStore) Put(_ context.Context, chatID int64, conv Conversation) error {
	conv.UpdatedAt = time.Now()

	raw, err := json.Marshal(conv)
	if err != nil {
		return fmt.Errorf("marshal conversation: %w", err)
	}
	err = s.db.Update(func(txn *badger.Txn) error {
		entry := badger.NewEntry(badgerKey(chatID), raw)
		if s.ttl > 0 {
			entry = entry.WithTTL(s.ttl)
		}
		return txn.SetEntry(entry)
	})
	if err != nil {
		return fmt.Errorf("badger put conversation: %w", err)
	}
	return nil
}

func (s *badgerStore) Delete(_ context.Context, chatID int64) error {
	err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(badgerKey(chatID))
	})
	if err != nil {
		return fmt.Errorf("badger delete conversation: %w", err)
	}
	return nil
}

func (s *badgerStore) Close() error {
	return s.db.Close()
}
