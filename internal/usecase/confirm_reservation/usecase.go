package confirm_reservation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/proserv/PS-BookingService/internal/domain"
	"github.com/proserv/PS-BookingService/internal/infra/events"
	"github.com/proserv/PS-BookingService/internal/service/reservation"
	"github.com/proserv/PS-BookingService/pkg/ptr"
)

// UseCase use case подтверждения резервирования
//
// Превращает завершенный черновик в бронирование в статусе pending.
// Использует сериализуемую транзакцию: повторная проверка занятости слота и
// вставка бронирования выполняются атомарно, поэтому два подтверждения на
// один слот не могут пройти оба даже при гонке.
type UseCase struct {
	workflow    ReservationWorkflow
	bookingRepo BookingRepository
	events      EventPublisher
	txManager   TransactionManager
	logger      Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	workflow ReservationWorkflow,
	bookingRepo BookingRepository,
	events EventPublisher,
	txManager TransactionManager,
	logger Logger,
) *UseCase {
	return &UseCase{
		workflow:    workflow,
		bookingRepo: bookingRepo,
		events:      events,
		txManager:   txManager,
		logger:      logger,
	}
}

// Execute выполняет use case подтверждения резервирования
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("ConfirmReservation: session=%s, client=%d", req.SessionID, req.ClientID)

	// 1. Валидация входных данных
	if req.SessionID == "" {
		return nil, fmt.Errorf("%w: sessionID is required", ErrInvalidInput)
	}
	if req.ClientID <= 0 {
		return nil, fmt.Errorf("%w: clientID must be positive", ErrInvalidInput)
	}

	// 2. Получаем завершенный черновик с действующим удержанием
	draft, err := uc.workflow.CompletedDraft(ctx, req.SessionID, req.ClientID)
	if err != nil {
		return nil, uc.mapWorkflowError(req.SessionID, err)
	}

	// Переменная для хранения результата
	var result *domain.Booking

	// 3. Выполняем операции с БД в сериализуемой транзакции
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 3.1. Повторно проверяем занятость слота: удержание защищает от
		// параллельных сессий, но не от бронирования, созданного до него
		active, err := uc.bookingRepo.CountActiveBySlot(txCtx, draft.ProfessionalID, *draft.ScheduledDate, draft.ScheduledTime)
		if err != nil {
			uc.logger.Error("ConfirmReservation: failed to count active bookings: %v", err)
			return fmt.Errorf("%w: failed to count active bookings: %v", ErrInternal, err)
		}
		if active > 0 {
			uc.logger.Warn("ConfirmReservation: slot is already booked, session=%s", req.SessionID)
			return fmt.Errorf("%w: slot is already booked", ErrSlotUnavailable)
		}

		// 3.2. Создаем бронирование в статусе pending
		booking := &domain.Booking{
			ProfessionalID: draft.ProfessionalID,
			ClientID:       draft.ClientID,
			ServiceID:      *draft.ServiceID,
			Price:          ptr.Deref(draft.SlotPrice, 0),
			ScheduledDate:  *draft.ScheduledDate,
			ScheduledTime:  draft.ScheduledTime,
			Status:         domain.StatusPending,
			PaymentStatus:  domain.PaymentPending,
			ProjectTitle:   draft.ProjectTitle,
			Description:    draft.Description,
			Budget:         draft.Budget,
			ContactName:    draft.Contact.Name,
			ContactEmail:   draft.Contact.Email,
			ContactPhone:   draft.Contact.Phone,
		}

		created, err := uc.bookingRepo.Create(txCtx, booking)
		if err != nil {
			uc.logger.Error("ConfirmReservation: failed to create booking: %v", err)
			return fmt.Errorf("%w: failed to create booking: %v", ErrInternal, err)
		}

		// 3.3. Создание пишет первую запись истории, история никогда не пуста
		entry := &domain.HistoryEntry{
			BookingID: created.ID,
			Status:    domain.StatusPending,
			ActorID:   draft.ClientID,
			ActorRole: domain.RoleClient,
		}
		if _, err := uc.bookingRepo.AppendHistory(txCtx, entry); err != nil {
			uc.logger.Error("ConfirmReservation: failed to append history: %v", err)
			return fmt.Errorf("%w: failed to append history: %v", ErrInternal, err)
		}

		result = created
		return nil
	})

	if err != nil {
		return nil, err
	}

	// 4. Завершаем сессию: черновик и удержание больше не нужны
	uc.workflow.Finalize(ctx, draft)

	uc.logger.Info("ConfirmReservation: successfully created booking id=%d from session=%s",
		result.ID, req.SessionID)

	// 5. Публикуем событие создания; ошибка доставки не влияет на результат
	uc.emitCreated(ctx, result)

	return toResponse(result), nil
}

func (uc *UseCase) mapWorkflowError(sessionID string, err error) error {
	switch {
	case errors.Is(err, reservation.ErrSessionNotFound):
		uc.logger.Warn("ConfirmReservation: session=%s not found", sessionID)
		return ErrSessionNotFound
	case errors.Is(err, reservation.ErrAccessDenied):
		uc.logger.Warn("ConfirmReservation: access denied for session=%s", sessionID)
		return ErrAccessDenied
	case errors.Is(err, reservation.ErrIncompleteDraft):
		uc.logger.Warn("ConfirmReservation: session=%s is incomplete", sessionID)
		return fmt.Errorf("%w: %v", ErrIncompleteDraft, err)
	case errors.Is(err, reservation.ErrSlotUnavailable):
		uc.logger.Warn("ConfirmReservation: slot unavailable for session=%s", sessionID)
		return fmt.Errorf("%w: %v", ErrSlotUnavailable, err)
	default:
		uc.logger.Error("ConfirmReservation: failed to load draft for session=%s: %v", sessionID, err)
		return fmt.Errorf("%w: failed to load draft: %v", ErrInternal, err)
	}
}

func (uc *UseCase) emitCreated(ctx context.Context, booking *domain.Booking) {
	err := uc.events.Publish(ctx, events.LifecycleEvent{
		Event:      domain.EventBookingCreated,
		BookingID:  booking.ID,
		Status:     booking.Status,
		ActorID:    booking.ClientID,
		ActorRole:  domain.RoleClient,
		OccurredAt: time.Now().UTC(),
	})
	if err != nil {
		uc.logger.Error("ConfirmReservation: failed to publish event for booking_id=%d: %v", booking.ID, err)
	}
}
