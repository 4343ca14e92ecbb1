package schedule

import (
	"context"
	"fmt"
	"time"

	"github.com/proserv/PS-BookingService/internal/domain"
	"github.com/proserv/PS-BookingService/internal/service/schedule/models"
	"github.com/proserv/PS-BookingService/pkg/types"
)

// Service сервис управления расписанием профессионала
type Service struct {
	availability AvailabilityRepository
	bookingRepo  BookingRepository
	txManager    TransactionManager
	logger       Logger
}

// NewService создает новый экземпляр сервиса расписания
func NewService(
	availability AvailabilityRepository,
	bookingRepo BookingRepository,
	txManager TransactionManager,
	logger Logger,
) *Service {
	return &Service{
		availability: availability,
		bookingRepo:  bookingRepo,
		txManager:    txManager,
		logger:       logger,
	}
}

// ReplaceDay заменяет слоты профессионала на одну дату
//
// Слот, на который существует активное бронирование, убрать нельзя:
// его время начала обязано присутствовать в новом списке.
func (s *Service) ReplaceDay(ctx context.Context, req *models.ReplaceDayRequest) (*models.ReplaceDayResponse, error) {
	s.logger.Info("ReplaceDay: professional_id=%d, date=%s, slots=%d", req.ProfessionalID, req.Date, len(req.Slots))

	if req.ActorID != req.ProfessionalID {
		s.logger.Warn("ReplaceDay: actor_id=%d is not professional_id=%d", req.ActorID, req.ProfessionalID)
		return nil, ErrAccessDenied
	}

	date, slots, err := parseReplaceDay(req)
	if err != nil {
		s.logger.Warn("ReplaceDay: validation failed for professional_id=%d: %v", req.ProfessionalID, err)
		return nil, err
	}

	err = s.txManager.Do(ctx, func(txCtx context.Context) error {
		filter := domain.BookingsFilter{
			ProfessionalID: req.ProfessionalID,
			StartDate:      &date,
			EndDate:        &date,
		}
		bookings, err := s.bookingRepo.GetByProfessionalWithFilter(txCtx, filter)
		if err != nil {
			return fmt.Errorf("%w: ReplaceDay - list bookings: %v", ErrInternal, err)
		}

		kept := make(map[types.TimeString]bool, len(slots))
		for _, slot := range slots {
			kept[slot.StartTime] = true
		}
		for _, b := range bookings {
			if b.IsActive() && !kept[b.ScheduledTime] {
				return fmt.Errorf("%w: active booking at %s", ErrSlotConflict, b.ScheduledTime)
			}
		}

		if err := s.availability.ReplaceDaySlots(txCtx, req.ProfessionalID, date, slots); err != nil {
			return fmt.Errorf("%w: ReplaceDay - replace slots: %v", ErrInternal, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("ReplaceDay: professional_id=%d, date=%s replaced with %d slots",
		req.ProfessionalID, req.Date, len(slots))

	return &models.ReplaceDayResponse{
		ProfessionalID: req.ProfessionalID,
		Date:           req.Date,
		SlotsCount:     len(slots),
	}, nil
}

func parseReplaceDay(req *models.ReplaceDayRequest) (time.Time, []domain.TimeSlot, error) {
	date, err := time.Parse(domain.DateFormat, req.Date)
	if err != nil {
		return time.Time{}, nil, fmt.Errorf("%w: date must be in YYYY-MM-DD format", ErrInvalidInput)
	}

	slots := make([]domain.TimeSlot, 0, len(req.Slots))
	seen := make(map[types.TimeString]bool, len(req.Slots))
	for _, in := range req.Slots {
		startTime, err := types.NewTimeStringFromString(in.StartTime)
		if err != nil {
			return time.Time{}, nil, fmt.Errorf("%w: start time %q must be in HH:MM format", ErrInvalidInput, in.StartTime)
		}
		if seen[startTime] {
			return time.Time{}, nil, fmt.Errorf("%w: duplicate start time %s", ErrInvalidInput, startTime)
		}
		if in.Price < 0 {
			return time.Time{}, nil, fmt.Errorf("%w: price must not be negative", ErrInvalidInput)
		}

		seen[startTime] = true
		slots = append(slots, domain.TimeSlot{
			ProfessionalID: req.ProfessionalID,
			Date:           date,
			StartTime:      startTime,
			Price:          in.Price,
			State:          domain.SlotOpen,
		})
	}

	return date, slots, nil
}
