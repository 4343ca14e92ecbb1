package sessions

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/proserv/PS-BookingService/internal/domain"
)

var (
	// ErrSessionNotFound возвращается, когда сессия не найдена или истекла
	ErrSessionNotFound = errors.New("sessions: session not found or expired")

	// ErrInternal возвращается при ошибках Redis или сериализации
	ErrInternal = errors.New("sessions: internal error")
)

// Store хранилище сессий бронирования (черновиков) в Redis
//
// Черновик принадлежит ровно одной сессии и никогда не разделяется между
// вызывающими сторонами, поэтому хранилищу не нужны блокировки. TTL удаляет
// черновики брошенных сессий.
type Store struct {
	client *redis.Client
	ttl    time.Duration
}

// NewStore создает новое хранилище сессий
func NewStore(client *redis.Client, ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = domain.DefaultSessionTTLMinutes * time.Minute
	}
	return &Store{client: client, ttl: ttl}
}

// Save сохраняет черновик, продлевая TTL сессии
func (s *Store) Save(ctx context.Context, draft *domain.DraftBooking) error {
	data, err := json.Marshal(draft)
	if err != nil {
		return fmt.Errorf("%w: Save - marshal draft: %v", ErrInternal, err)
	}

	if err := s.client.Set(ctx, sessionKey(draft.SessionID), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("%w: Save - set: %v", ErrInternal, err)
	}

	return nil
}

// Get получает черновик по ID сессии
func (s *Store) Get(ctx context.Context, sessionID string) (*domain.DraftBooking, error) {
	data, err := s.client.Get(ctx, sessionKey(sessionID)).Result()
	if err == redis.Nil {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: Get - get: %v", ErrInternal, err)
	}

	var draft domain.DraftBooking
	if err := json.Unmarshal([]byte(data), &draft); err != nil {
		return nil, fmt.Errorf("%w: Get - unmarshal draft: %v", ErrInternal, err)
	}

	return &draft, nil
}

// Delete удаляет черновик; идемпотентна
func (s *Store) Delete(ctx context.Context, sessionID string) error {
	if err := s.client.Del(ctx, sessionKey(sessionID)).Err(); err != nil {
		return fmt.Errorf("%w: Delete - del: %v", ErrInternal, err)
	}
	return nil
}

func sessionKey(sessionID string) string {
	return "reservation-session:" + sessionID
}
