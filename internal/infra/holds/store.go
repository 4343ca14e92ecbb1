package holds

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/proserv/PS-BookingService/internal/domain"
	"github.com/proserv/PS-BookingService/pkg/types"
)

var (
	// ErrSlotHeld возвращается, когда слот уже удерживается другой сессией
	ErrSlotHeld = errors.New("holds: slot is already held")

	// ErrInternal возвращается при ошибках Redis
	ErrInternal = errors.New("holds: internal error")
)

// releaseScript удаляет холд, только если он принадлежит владельцу токена
// Сравнение и удаление атомарны, поэтому чужой холд снять невозможно
var releaseScript = redis.NewScript(`
if redis.call("get", KEYS[1]) == ARGV[1] then
	return redis.call("del", KEYS[1])
end
return 0
`)

// Store хранилище провизорных холдов слотов в Redis
//
// Холд - это атомарный compare-and-set по ключу (professional, date, startTime):
// SET NX гарантирует, что из конкурирующих запросов ровно один получает холд,
// остальные немедленно получают отказ. TTL автоматически снимает холды
// брошенных сессий бронирования.
type Store struct {
	client *redis.Client
	ttl    time.Duration
}

// NewStore создает новое хранилище холдов
func NewStore(client *redis.Client, ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = domain.DefaultHoldTTLMinutes * time.Minute
	}
	return &Store{client: client, ttl: ttl}
}

// Acquire пытается захватить холд на слот
// Ровно один из конкурирующих вызовов получает холд; проигравшие
// немедленно получают ErrSlotHeld без ожидания
func (s *Store) Acquire(ctx context.Context, professionalID int64, date time.Time, startTime types.TimeString) (*domain.SlotHold, error) {
	token := uuid.NewString()
	key := holdKey(professionalID, date, startTime)

	ok, err := s.client.SetNX(ctx, key, token, s.ttl).Result()
	if err != nil {
		return nil, fmt.Errorf("%w: Acquire - setnx: %v", ErrInternal, err)
	}
	if !ok {
		return nil, ErrSlotHeld
	}

	return &domain.SlotHold{
		Token:          token,
		ProfessionalID: professionalID,
		Date:           date,
		StartTime:      startTime,
		ExpiresAt:      time.Now().Add(s.ttl),
	}, nil
}

// Release снимает холд, если он все еще принадлежит владельцу токена
// Идемпотентна: повторный вызов и вызов по истекшему холду не являются ошибкой
func (s *Store) Release(ctx context.Context, hold *domain.SlotHold) error {
	key := holdKey(hold.ProfessionalID, hold.Date, hold.StartTime)

	if _, err := releaseScript.Run(ctx, s.client, []string{key}, hold.Token).Result(); err != nil {
		return fmt.Errorf("%w: Release - del: %v", ErrInternal, err)
	}

	return nil
}

// IsHeldBy проверяет, что холд на слот все еще принадлежит владельцу токена
// Возвращает false, если холд истек или перехвачен другой сессией
func (s *Store) IsHeldBy(ctx context.Context, professionalID int64, date time.Time, startTime types.TimeString, token string) (bool, error) {
	key := holdKey(professionalID, date, startTime)

	value, err := s.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("%w: IsHeldBy - get: %v", ErrInternal, err)
	}

	return value == token, nil
}

// IsHeld проверяет, есть ли на слоте живой холд (любого владельца)
func (s *Store) IsHeld(ctx context.Context, professionalID int64, date time.Time, startTime types.TimeString) (bool, error) {
	key := holdKey(professionalID, date, startTime)

	count, err := s.client.Exists(ctx, key).Result()
	if err != nil {
		return false, fmt.Errorf("%w: IsHeld - exists: %v", ErrInternal, err)
	}

	return count > 0, nil
}

func holdKey(professionalID int64, date time.Time, startTime types.TimeString) string {
	return fmt.Sprintf("slot-hold:%d:%s:%s", professionalID, date.Format(domain.DateFormat), startTime)
}
