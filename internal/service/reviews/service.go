package reviews

import (
	"context"
	"errors"
	"fmt"

	"github.com/proserv/PS-BookingService/internal/domain"
	bookingRepo "github.com/proserv/PS-BookingService/internal/infra/storage/booking"
	reviewRepo "github.com/proserv/PS-BookingService/internal/infra/storage/review"
	"github.com/proserv/PS-BookingService/internal/service/reviews/models"
)

// Service сервис отзывов о завершенных бронированиях
type Service struct {
	reviewRepo  ReviewRepository
	bookingRepo BookingRepository
	logger      Logger
}

// NewService создает новый экземпляр сервиса отзывов
func NewService(reviewRepo ReviewRepository, bookingRepo BookingRepository, logger Logger) *Service {
	return &Service{
		reviewRepo:  reviewRepo,
		bookingRepo: bookingRepo,
		logger:      logger,
	}
}

// Create создает отзыв о бронировании
//
// Отзыв допустим только для завершенного бронирования, только от его
// клиента и только один раз. Оценки лежат в диапазоне от 1 до 5.
func (s *Service) Create(ctx context.Context, req *models.CreateReviewRequest) (*models.ReviewResponse, error) {
	s.logger.Info("Create: booking_id=%d, client_id=%d, rating=%d", req.BookingID, req.ClientID, req.Rating)

	if err := validateRatings(req); err != nil {
		s.logger.Warn("Create: invalid ratings for booking_id=%d: %v", req.BookingID, err)
		return nil, err
	}

	booking, err := s.bookingRepo.GetByID(ctx, req.BookingID)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("Create: booking_id=%d not found", req.BookingID)
			return nil, ErrBookingNotFound
		}
		s.logger.Error("Create: repository error for booking_id=%d: %v", req.BookingID, err)
		return nil, fmt.Errorf("%w: Create - load booking: %v", ErrInternal, err)
	}

	if booking.ClientID != req.ClientID {
		s.logger.Warn("Create: client_id=%d is not the client of booking_id=%d", req.ClientID, req.BookingID)
		return nil, ErrAccessDenied
	}
	if !booking.CanBeReviewed() {
		s.logger.Warn("Create: booking_id=%d in status=%s is not reviewable", req.BookingID, booking.Status)
		return nil, fmt.Errorf("%w: booking is in status %q", ErrNotReviewable, booking.Status)
	}

	review := &domain.Review{
		BookingID:             req.BookingID,
		Rating:                req.Rating,
		Comment:               req.Comment,
		QualityRating:         req.QualityRating,
		PunctualityRating:     req.PunctualityRating,
		ProfessionalismRating: req.ProfessionalismRating,
	}

	created, err := s.reviewRepo.Create(ctx, review)
	if err != nil {
		if errors.Is(err, reviewRepo.ErrAlreadyExists) {
			s.logger.Warn("Create: booking_id=%d is already reviewed", req.BookingID)
			return nil, ErrAlreadyReviewed
		}
		s.logger.Error("Create: failed to create review for booking_id=%d: %v", req.BookingID, err)
		return nil, fmt.Errorf("%w: Create - create review: %v", ErrInternal, err)
	}

	s.logger.Info("Create: review_id=%d created for booking_id=%d", created.ID, req.BookingID)
	return models.FromDomainReview(created), nil
}

// GetByBookingID возвращает отзыв о бронировании
func (s *Service) GetByBookingID(ctx context.Context, bookingID int64) (*models.ReviewResponse, error) {
	review, err := s.reviewRepo.GetByBookingID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, reviewRepo.ErrReviewNotFound) {
			return nil, ErrReviewNotFound
		}
		s.logger.Error("GetByBookingID: repository error for booking_id=%d: %v", bookingID, err)
		return nil, fmt.Errorf("%w: GetByBookingID - repository error: %v", ErrInternal, err)
	}
	return models.FromDomainReview(review), nil
}

func validateRatings(req *models.CreateReviewRequest) error {
	if req.Rating < domain.MinRating || req.Rating > domain.MaxRating {
		return fmt.Errorf("%w: rating must be between %d and %d", ErrInvalidInput, domain.MinRating, domain.MaxRating)
	}
	if len(req.Comment) > domain.MaxReviewCommentLength {
		return fmt.Errorf("%w: comment must be at most %d characters", ErrInvalidInput, domain.MaxReviewCommentLength)
	}
	for _, sub := range []*int{req.QualityRating, req.PunctualityRating, req.ProfessionalismRating} {
		if sub != nil && (*sub < domain.MinRating || *sub > domain.MaxRating) {
			return fmt.Errorf("%w: sub-ratings must be between %d and %d", ErrInvalidInput, domain.MinRating, domain.MaxRating)
		}
	}
	return nil
}
