package get_available_slots

import (
	"context"
	"fmt"

	"github.com/proserv/PS-BookingService/internal/domain"
)

// UseCase use case для получения слотов расписания профессионала
//
// Состояние booked приходит из хранилища (слот занят активным бронированием),
// состояние held накладывается поверх из хранилища удержаний. Просроченные
// удержания исчезают из Redis сами, поэтому слот с истекшим удержанием
// возвращается как open без отдельной очистки.
type UseCase struct {
	availability AvailabilityRepository
	holdStore    HoldStore
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	availability AvailabilityRepository,
	holdStore HoldStore,
	logger Logger,
) *UseCase {
	return &UseCase{
		availability: availability,
		holdStore:    holdStore,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute выполняет use case получения слотов расписания
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetAvailableSlots: user=%d, professional=%d, from=%s, to=%s",
		req.UserID, req.ProfessionalID,
		req.From.Format(domain.DateFormat), req.To.Format(domain.DateFormat))

	// 1. Валидация входных данных
	if err := validateRequest(req, uc.timeProvider.Now()); err != nil {
		uc.logger.Warn("GetAvailableSlots: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем слоты с состоянием open/booked из хранилища
	timeSlots, err := uc.availability.ListByDateRange(ctx, req.ProfessionalID, req.From, req.To)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to list slots for professional=%d: %v",
			req.ProfessionalID, err)
		return nil, fmt.Errorf("%w: failed to list slots: %v", ErrInternal, err)
	}

	// 3. Накладываем удержания: открытый слот с действующим удержанием
	// отдается как held
	slots := make([]Slot, 0, len(timeSlots))
	for _, ts := range timeSlots {
		state := ts.State
		if state == domain.SlotOpen {
			held, err := uc.holdStore.IsHeld(ctx, ts.ProfessionalID, ts.Date, ts.StartTime)
			if err != nil {
				uc.logger.Error("GetAvailableSlots: hold check failed for professional=%d, date=%s, time=%s: %v",
					ts.ProfessionalID, ts.Date.Format(domain.DateFormat), ts.StartTime, err)
				return nil, fmt.Errorf("%w: failed to check hold: %v", ErrInternal, err)
			}
			if held {
				state = domain.SlotHeld
			}
		}

		slots = append(slots, Slot{
			Date:      ts.Date.Format(domain.DateFormat),
			StartTime: ts.StartTime,
			Price:     ts.Price,
			State:     string(state),
		})
	}

	uc.logger.Info("GetAvailableSlots: returning %d slots for professional=%d",
		len(slots), req.ProfessionalID)

	return &Response{
		ProfessionalID: req.ProfessionalID,
		From:           req.From.Format(domain.DateFormat),
		To:             req.To.Format(domain.DateFormat),
		Slots:          slots,
	}, nil
}
