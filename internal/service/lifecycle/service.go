package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/proserv/PS-BookingService/internal/domain"
	"github.com/proserv/PS-BookingService/internal/infra/events"
	bookingRepo "github.com/proserv/PS-BookingService/internal/infra/storage/booking"
	"github.com/proserv/PS-BookingService/internal/service/lifecycle/models"
)

// Service сервис жизненного цикла бронирований
//
// Единственная точка изменения статуса бронирования. Каждый переход
// проверяется по таблице переходов (легальность пары статусов, роль актора,
// обязательность причины), выполняется в сериализуемой транзакции с
// блокировкой строки бронирования и добавляет ровно одну запись в историю.
type Service struct {
	bookingRepo BookingRepository
	payments    PaymentClient
	events      EventPublisher
	txManager   TransactionManager
	logger      Logger
}

// NewService создает новый экземпляр сервиса жизненного цикла
func NewService(
	bookingRepo BookingRepository,
	payments PaymentClient,
	events EventPublisher,
	txManager TransactionManager,
	logger Logger,
) *Service {
	return &Service{
		bookingRepo: bookingRepo,
		payments:    payments,
		events:      events,
		txManager:   txManager,
		logger:      logger,
	}
}

// RequestTransition выполняет переход статуса бронирования
//
// Порядок проверок: бронирование существует -> пара (from, to) есть в таблице
// переходов -> роль актора допущена к переходу -> причина передана, если
// обязательна. Сторонние эффекты (списание, возврат) выполняются внутри
// транзакции: их отказ откатывает переход целиком, и вызывающая сторона
// получает ErrSideEffectFailed. Событие перехода публикуется после фиксации;
// ошибка публикации логируется и никогда не откатывает переход.
func (s *Service) RequestTransition(ctx context.Context, bookingID int64, req *models.TransitionRequest) (*models.BookingResponse, error) {
	s.logger.Info("RequestTransition: booking_id=%d, target=%s, actor_id=%d, role=%s",
		bookingID, req.TargetStatus, req.ActorID, req.ActorRole)

	role, err := models.ToDomainActorRole(req.ActorRole)
	if err != nil {
		s.logger.Warn("RequestTransition: invalid role=%s for booking_id=%d", req.ActorRole, bookingID)
		return nil, fmt.Errorf("%w: invalid actor role", ErrInvalidInput)
	}

	target, err := models.ToDomainBookingStatus(req.TargetStatus)
	if err != nil {
		s.logger.Warn("RequestTransition: invalid target status=%s for booking_id=%d", req.TargetStatus, bookingID)
		return nil, fmt.Errorf("%w: invalid target status", ErrInvalidInput)
	}

	var (
		result *domain.Booking
		rule   domain.TransitionRule
	)

	err = s.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// Чтение с FOR UPDATE: переходы одного бронирования сериализуются,
		// переходы разных бронирований идут полностью параллельно
		booking, err := s.bookingRepo.GetByID(txCtx, bookingID)
		if err != nil {
			if errors.Is(err, bookingRepo.ErrBookingNotFound) {
				return ErrBookingNotFound
			}
			return fmt.Errorf("%w: RequestTransition - repository error: %v", ErrInternal, err)
		}

		var ok bool
		rule, ok = domain.FindTransition(booking.Status, target)
		if !ok {
			s.logger.Warn("RequestTransition: illegal transition %s -> %s for booking_id=%d",
				booking.Status, target, bookingID)
			return ErrIllegalTransition
		}

		if !rule.AllowsRole(role) {
			s.logger.Warn("RequestTransition: role=%s not allowed for %s -> %s, booking_id=%d",
				role, booking.Status, target, bookingID)
			return ErrUnauthorized
		}

		if err := s.checkActorIsParty(booking, req.ActorID, role); err != nil {
			s.logger.Warn("RequestTransition: actor_id=%d is not a party of booking_id=%d", req.ActorID, bookingID)
			return err
		}

		reason := transitionReason(target, req)
		if rule.RequiresReason && (reason == nil || *reason == "") {
			s.logger.Warn("RequestTransition: missing reason for %s -> %s, booking_id=%d",
				booking.Status, target, bookingID)
			return ErrMissingReason
		}

		var cancellationReason *string
		if target == domain.StatusCancelled {
			cancellationReason = req.CancellationReason
		}

		if err := s.bookingRepo.UpdateStatus(txCtx, bookingID, target, cancellationReason); err != nil {
			return fmt.Errorf("%w: RequestTransition - update status: %v", ErrInternal, err)
		}

		entry := &domain.HistoryEntry{
			BookingID:          bookingID,
			Status:             target,
			ActorID:            req.ActorID,
			ActorRole:          role,
			Message:            req.Message,
			CancellationReason: cancellationReason,
		}
		if _, err := s.bookingRepo.AppendHistory(txCtx, entry); err != nil {
			return fmt.Errorf("%w: RequestTransition - append history: %v", ErrInternal, err)
		}

		paymentStatus, err := s.applySideEffects(txCtx, booking, rule, target)
		if err != nil {
			return err
		}

		result = booking
		result.Status = target
		result.CancellationReason = cancellationReason
		if paymentStatus != nil {
			result.PaymentStatus = *paymentStatus
		}
		return nil
	})

	if err != nil {
		return nil, err
	}

	s.logger.Info("RequestTransition: booking_id=%d moved to status=%s by actor_id=%d",
		bookingID, target, req.ActorID)

	s.emitEvent(ctx, rule.Event, result, req.ActorID, role)

	return models.FromDomainBooking(result), nil
}

// GetByID получает бронирование по ID
// Доступно только сторонам бронирования (клиенту и профессионалу)
func (s *Service) GetByID(ctx context.Context, bookingID int64, actorID int64, actorRole string) (*models.BookingResponse, error) {
	role, err := models.ToDomainActorRole(actorRole)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid actor role", ErrInvalidInput)
	}

	booking, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("GetByID: booking_id=%d not found", bookingID)
			return nil, ErrBookingNotFound
		}
		s.logger.Error("GetByID: repository error for booking_id=%d: %v", bookingID, err)
		return nil, fmt.Errorf("%w: GetByID - repository error: %v", ErrInternal, err)
	}

	if err := s.checkActorIsParty(booking, actorID, role); err != nil {
		s.logger.Warn("GetByID: access denied for actor_id=%d to booking_id=%d", actorID, bookingID)
		return nil, err
	}

	return models.FromDomainBooking(booking), nil
}

// GetHistory получает историю статусов бронирования в порядке добавления
// Доступна в любом статусе, включая терминальные
func (s *Service) GetHistory(ctx context.Context, bookingID int64) (*models.HistoryResponse, error) {
	entries, err := s.bookingRepo.GetHistory(ctx, bookingID)
	if err != nil {
		s.logger.Error("GetHistory: repository error for booking_id=%d: %v", bookingID, err)
		return nil, fmt.Errorf("%w: GetHistory - repository error: %v", ErrInternal, err)
	}

	// Пустая история означает, что бронирования не существует:
	// создание всегда пишет первую запись
	if len(entries) == 0 {
		s.logger.Warn("GetHistory: booking_id=%d not found", bookingID)
		return nil, ErrBookingNotFound
	}

	return models.FromDomainHistory(bookingID, entries), nil
}

// GetClientBookings получает историю бронирований клиента
// Опционально фильтрует по статусу
func (s *Service) GetClientBookings(ctx context.Context, req *models.GetClientBookingsRequest) (*models.BookingListResponse, error) {
	s.logger.Info("GetClientBookings: client_id=%d, status=%v", req.ClientID, req.Status)

	var domainStatus *domain.BookingStatus
	if req.Status != nil {
		status, err := models.ToDomainBookingStatus(*req.Status)
		if err != nil {
			s.logger.Warn("GetClientBookings: invalid status=%s for client_id=%d", *req.Status, req.ClientID)
			return nil, fmt.Errorf("%w: invalid status", ErrInvalidInput)
		}
		domainStatus = &status
	}

	bookings, err := s.bookingRepo.GetByClientID(ctx, req.ClientID, domainStatus)
	if err != nil {
		s.logger.Error("GetClientBookings: repository error for client_id=%d: %v", req.ClientID, err)
		return nil, fmt.Errorf("%w: GetClientBookings - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainBookingList(bookings), nil
}

// GetProfessionalBookings получает бронирования профессионала с фильтрацией
// по периоду и статусу
func (s *Service) GetProfessionalBookings(ctx context.Context, req *models.GetProfessionalBookingsRequest) (*models.BookingListResponse, error) {
	s.logger.Info("GetProfessionalBookings: professional_id=%d", req.ProfessionalID)

	filter, err := req.ToDomainFilter()
	if err != nil {
		s.logger.Warn("GetProfessionalBookings: invalid filter for professional_id=%d: %v", req.ProfessionalID, err)
		return nil, fmt.Errorf("%w: invalid filter", ErrInvalidInput)
	}

	bookings, err := s.bookingRepo.GetByProfessionalWithFilter(ctx, filter)
	if err != nil {
		s.logger.Error("GetProfessionalBookings: repository error for professional_id=%d: %v", req.ProfessionalID, err)
		return nil, fmt.Errorf("%w: GetProfessionalBookings - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainBookingList(bookings), nil
}

// Вспомогательные методы

// applySideEffects выполняет сторонние эффекты перехода внутри транзакции
// Возвращает новый платежный статус, если он изменился
func (s *Service) applySideEffects(ctx context.Context, booking *domain.Booking, rule domain.TransitionRule, target domain.BookingStatus) (*domain.PaymentStatus, error) {
	if rule.CapturesPayment {
		if err := s.payments.Capture(ctx, booking.ID, booking.Price); err != nil {
			s.logger.Error("RequestTransition: payment capture failed for booking_id=%d: %v", booking.ID, err)
			return nil, fmt.Errorf("%w: payment capture: %v", ErrSideEffectFailed, err)
		}

		paid := domain.PaymentPaid
		if err := s.bookingRepo.UpdatePaymentStatus(ctx, booking.ID, paid); err != nil {
			return nil, fmt.Errorf("%w: RequestTransition - update payment status: %v", ErrInternal, err)
		}
		return &paid, nil
	}

	// Отмена оплаченного бронирования возвращает средства
	if target == domain.StatusCancelled && booking.IsPaid() {
		if err := s.payments.Refund(ctx, booking.ID, booking.Price); err != nil {
			s.logger.Error("RequestTransition: payment refund failed for booking_id=%d: %v", booking.ID, err)
			return nil, fmt.Errorf("%w: payment refund: %v", ErrSideEffectFailed, err)
		}

		refunded := domain.PaymentRefunded
		if err := s.bookingRepo.UpdatePaymentStatus(ctx, booking.ID, refunded); err != nil {
			return nil, fmt.Errorf("%w: RequestTransition - update payment status: %v", ErrInternal, err)
		}
		return &refunded, nil
	}

	return nil, nil
}

// checkActorIsParty проверяет, что актор является стороной бронирования в своей роли
func (s *Service) checkActorIsParty(booking *domain.Booking, actorID int64, role domain.ActorRole) error {
	switch role {
	case domain.RoleClient:
		if booking.ClientID == actorID {
			return nil
		}
	case domain.RoleProfessional:
		if booking.ProfessionalID == actorID {
			return nil
		}
	}
	return ErrAccessDenied
}

// emitEvent публикует событие перехода
// Публикация происходит после фиксации транзакции; ошибка доставки
// логируется и не влияет на результат перехода
func (s *Service) emitEvent(ctx context.Context, event string, booking *domain.Booking, actorID int64, role domain.ActorRole) {
	err := s.events.Publish(ctx, events.LifecycleEvent{
		Event:      event,
		BookingID:  booking.ID,
		Status:     booking.Status,
		ActorID:    actorID,
		ActorRole:  role,
		OccurredAt: time.Now().UTC(),
	})
	if err != nil {
		s.logger.Error("emitEvent: failed to publish %s for booking_id=%d: %v", event, booking.ID, err)
	}
}

// transitionReason возвращает причину, требуемую переходом:
// для отмены - cancellationReason, для остальных переходов - message
func transitionReason(target domain.BookingStatus, req *models.TransitionRequest) *string {
	if target == domain.StatusCancelled {
		return req.CancellationReason
	}
	return req.Message
}
