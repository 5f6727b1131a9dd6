package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"activityboard/internal/domain"
	"activityboard/pkg/redis"
)

// MemoryMessageStore keeps messages in process memory
type MemoryMessageStore struct {
	mu       sync.Mutex
	messages map[string]domain.Message
	now      func() time.Time
}

// NewMemoryMessageStore creates an in-memory store; now defaults to time.Now
func NewMemoryMessageStore(now func() time.Time) *MemoryMessageStore {
	if now == nil {
		now = time.Now
	}
	return &MemoryMessageStore{
		messages: make(map[string]domain.Message),
		now:      now,
	}
}

// Put stores msg for the session and drops anything that has expired
func (s *MemoryMessageStore) Put(_ context.Context, sessionID string, msg domain.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	for id, m := range s.messages {
		if !m.VisibleAt(now) {
			delete(s.messages, id)
		}
	}
	if msg.VisibleAt(now) {
		s.messages[sessionID] = msg
	} else {
		delete(s.messages, sessionID)
	}
	return nil
}

// Get returns the session's visible message
func (s *MemoryMessageStore) Get(_ context.Context, sessionID string) (*domain.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	msg, ok := s.messages[sessionID]
	if !ok {
		return nil, nil
	}
	if !msg.VisibleAt(s.now()) {
		delete(s.messages, sessionID)
		return nil, nil
	}
	return &msg, nil
}

// size reports how many messages are held, expired or not
func (s *MemoryMessageStore) size() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.messages)
}

// RedisMessageStore keeps messages in Redis so every board instance sees them.
// The key TTL is the remaining visible time, so Redis does the hiding.
type RedisMessageStore struct {
	client *redis.Client
	now    func() time.Time
}

// NewRedisMessageStore creates a Redis-backed store; now defaults to time.Now
func NewRedisMessageStore(client *redis.Client, now func() time.Time) *RedisMessageStore {
	if now == nil {
		now = time.Now
	}
	return &RedisMessageStore{client: client, now: now}
}

// Put stores msg under the session key with the message's remaining lifetime
func (s *RedisMessageStore) Put(ctx context.Context, sessionID string, msg domain.Message) error {
	key := s.client.KeyBuilder.KeyBoardMessage(sessionID)

	ttl := msg.Remaining(s.now())
	if ttl <= 0 {
		return s.client.Delete(ctx, key)
	}

	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}
	if err := s.client.Set(ctx, key, string(data), ttl); err != nil {
		return fmt.Errorf("store message: %w", err)
	}
	return nil
}

// Get loads the session's message; a missing key means it has been hidden
func (s *RedisMessageStore) Get(ctx context.Context, sessionID string) (*domain.Message, error) {
	key := s.client.KeyBuilder.KeyBoardMessage(sessionID)

	data, err := s.client.Get(ctx, key)
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load message: %w", err)
	}

	var msg domain.Message
	if err := json.Unmarshal([]byte(data), &msg); err != nil {
		return nil, fmt.Errorf("decode message: %w", err)
	}
	if !msg.VisibleAt(s.now()) {
		return nil, nil
	}
	return &msg, nil
}
