package lifecycle

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/proserv/PS-BookingService/internal/domain"
	"github.com/proserv/PS-BookingService/internal/infra/events"
	bookingRepo "github.com/proserv/PS-BookingService/internal/infra/storage/booking"
	"github.com/proserv/PS-BookingService/internal/service/lifecycle/models"
	"github.com/proserv/PS-BookingService/pkg/types"
)

// Фейки зависимостей

type fakeBookingRepo struct {
	booking *domain.Booking
	history []*domain.HistoryEntry

	getByIDErr         error
	updateStatusCalls  []domain.BookingStatus
	paymentStatusCalls []domain.PaymentStatus
	appendedEntries    []*domain.HistoryEntry
}

func (f *fakeBookingRepo) GetByID(_ context.Context, id int64) (*domain.Booking, error) {
	if f.getByIDErr != nil {
		return nil, f.getByIDErr
	}
	if f.booking == nil || f.booking.ID != id {
		return nil, bookingRepo.ErrBookingNotFound
	}
	copied := *f.booking
	return &copied, nil
}

func (f *fakeBookingRepo) GetByClientID(_ context.Context, clientID int64, status *domain.BookingStatus) ([]*domain.Booking, error) {
	if f.booking == nil || f.booking.ClientID != clientID {
		return []*domain.Booking{}, nil
	}
	if status != nil && f.booking.Status != *status {
		return []*domain.Booking{}, nil
	}
	return []*domain.Booking{f.booking}, nil
}

func (f *fakeBookingRepo) GetByProfessionalWithFilter(_ context.Context, filter domain.BookingsFilter) ([]*domain.Booking, error) {
	if f.booking == nil || f.booking.ProfessionalID != filter.ProfessionalID {
		return []*domain.Booking{}, nil
	}
	return []*domain.Booking{f.booking}, nil
}

func (f *fakeBookingRepo) UpdateStatus(_ context.Context, id int64, status domain.BookingStatus, _ *string) error {
	if f.booking == nil || f.booking.ID != id {
		return bookingRepo.ErrBookingNotFound
	}
	f.updateStatusCalls = append(f.updateStatusCalls, status)
	return nil
}

func (f *fakeBookingRepo) UpdatePaymentStatus(_ context.Context, id int64, status domain.PaymentStatus) error {
	if f.booking == nil || f.booking.ID != id {
		return bookingRepo.ErrBookingNotFound
	}
	f.paymentStatusCalls = append(f.paymentStatusCalls, status)
	return nil
}

func (f *fakeBookingRepo) AppendHistory(_ context.Context, entry *domain.HistoryEntry) (*domain.HistoryEntry, error) {
	entry.ID = int64(len(f.appendedEntries) + 1)
	entry.CreatedAt = time.Now()
	f.appendedEntries = append(f.appendedEntries, entry)
	return entry, nil
}

func (f *fakeBookingRepo) GetHistory(_ context.Context, bookingID int64) ([]*domain.HistoryEntry, error) {
	entries := make([]*domain.HistoryEntry, 0)
	for _, entry := range f.history {
		if entry.BookingID == bookingID {
			entries = append(entries, entry)
		}
	}
	return entries, nil
}

type fakePaymentClient struct {
	captureErr   error
	refundErr    error
	captureCalls int
	refundCalls  int
}

func (f *fakePaymentClient) Capture(_ context.Context, _ int64, _ float64) error {
	f.captureCalls++
	return f.captureErr
}

func (f *fakePaymentClient) Refund(_ context.Context, _ int64, _ float64) error {
	f.refundCalls++
	return f.refundErr
}

type fakeEventPublisher struct {
	published []events.LifecycleEvent
}

func (f *fakeEventPublisher) Publish(_ context.Context, event events.LifecycleEvent) error {
	f.published = append(f.published, event)
	return nil
}

// fakeTxManager выполняет функцию без транзакции; commitCount считает
// только успешно завершенные вызовы
type fakeTxManager struct {
	commitCount   int
	rollbackCount int
}

func (f *fakeTxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return f.run(ctx, fn)
}

func (f *fakeTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return f.run(ctx, fn)
}

func (f *fakeTxManager) run(ctx context.Context, fn func(ctx context.Context) error) error {
	if err := fn(ctx); err != nil {
		f.rollbackCount++
		return err
	}
	f.commitCount++
	return nil
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type lifecycleFixture struct {
	service  *Service
	repo     *fakeBookingRepo
	payments *fakePaymentClient
	events   *fakeEventPublisher
	tx       *fakeTxManager
}

func newLifecycleFixture(booking *domain.Booking) *lifecycleFixture {
	repo := &fakeBookingRepo{booking: booking}
	payments := &fakePaymentClient{}
	publisher := &fakeEventPublisher{}
	tx := &fakeTxManager{}

	return &lifecycleFixture{
		service:  NewService(repo, payments, publisher, tx, nopLogger{}),
		repo:     repo,
		payments: payments,
		events:   publisher,
		tx:       tx,
	}
}

func pendingBooking() *domain.Booking {
	return &domain.Booking{
		ID:             1,
		ProfessionalID: 7,
		ClientID:       42,
		ServiceID:      3,
		Price:          150,
		ScheduledDate:  time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC),
		ScheduledTime:  types.TimeString("10:00"),
		Status:         domain.StatusPending,
		PaymentStatus:  domain.PaymentPending,
	}
}

func strPtr(s string) *string { return &s }

func TestRequestTransition_Accept(t *testing.T) {
	fx := newLifecycleFixture(pendingBooking())

	resp, err := fx.service.RequestTransition(context.Background(), 1, &models.TransitionRequest{
		ActorID:      7,
		ActorRole:    "professional",
		TargetStatus: "accepted",
	})
	require.NoError(t, err)

	assert.Equal(t, "accepted", resp.Status)
	assert.Equal(t, []domain.BookingStatus{domain.StatusAccepted}, fx.repo.updateStatusCalls)
	require.Len(t, fx.repo.appendedEntries, 1)
	assert.Equal(t, domain.StatusAccepted, fx.repo.appendedEntries[0].Status)
	assert.Equal(t, domain.RoleProfessional, fx.repo.appendedEntries[0].ActorRole)
	assert.Equal(t, 1, fx.tx.commitCount)

	require.Len(t, fx.events.published, 1)
	assert.Equal(t, domain.EventBookingAccepted, fx.events.published[0].Event)
	assert.Equal(t, domain.StatusAccepted, fx.events.published[0].Status)
}

func TestRequestTransition_NotFound(t *testing.T) {
	fx := newLifecycleFixture(pendingBooking())

	_, err := fx.service.RequestTransition(context.Background(), 999, &models.TransitionRequest{
		ActorID:      7,
		ActorRole:    "professional",
		TargetStatus: "accepted",
	})
	assert.ErrorIs(t, err, ErrBookingNotFound)
	assert.Empty(t, fx.events.published)
}

func TestRequestTransition_Illegal(t *testing.T) {
	fx := newLifecycleFixture(pendingBooking())

	// Подтверждение возможно только после принятия
	_, err := fx.service.RequestTransition(context.Background(), 1, &models.TransitionRequest{
		ActorID:      42,
		ActorRole:    "client",
		TargetStatus: "confirmed",
	})
	assert.ErrorIs(t, err, ErrIllegalTransition)
	assert.Empty(t, fx.repo.updateStatusCalls)
	assert.Empty(t, fx.repo.appendedEntries)
}

func TestRequestTransition_TerminalStatus(t *testing.T) {
	booking := pendingBooking()
	booking.Status = domain.StatusCompleted
	fx := newLifecycleFixture(booking)

	_, err := fx.service.RequestTransition(context.Background(), 1, &models.TransitionRequest{
		ActorID:      7,
		ActorRole:    "professional",
		TargetStatus: "in-progress",
	})
	assert.ErrorIs(t, err, ErrIllegalTransition)
}

func TestRequestTransition_RoleNotAllowed(t *testing.T) {
	fx := newLifecycleFixture(pendingBooking())

	// Принятие доступно только профессионалу
	_, err := fx.service.RequestTransition(context.Background(), 1, &models.TransitionRequest{
		ActorID:      42,
		ActorRole:    "client",
		TargetStatus: "accepted",
	})
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestRequestTransition_ActorNotParty(t *testing.T) {
	fx := newLifecycleFixture(pendingBooking())

	_, err := fx.service.RequestTransition(context.Background(), 1, &models.TransitionRequest{
		ActorID:      100,
		ActorRole:    "professional",
		TargetStatus: "accepted",
	})
	assert.ErrorIs(t, err, ErrAccessDenied)
}

func TestRequestTransition_MissingReason(t *testing.T) {
	fx := newLifecycleFixture(pendingBooking())

	_, err := fx.service.RequestTransition(context.Background(), 1, &models.TransitionRequest{
		ActorID:      7,
		ActorRole:    "professional",
		TargetStatus: "cancelled",
	})
	assert.ErrorIs(t, err, ErrMissingReason)

	// Пустая причина равносильна отсутствующей
	_, err = fx.service.RequestTransition(context.Background(), 1, &models.TransitionRequest{
		ActorID:            7,
		ActorRole:          "professional",
		TargetStatus:       "cancelled",
		CancellationReason: strPtr(""),
	})
	assert.ErrorIs(t, err, ErrMissingReason)
}

func TestRequestTransition_CancelWithReason(t *testing.T) {
	fx := newLifecycleFixture(pendingBooking())

	resp, err := fx.service.RequestTransition(context.Background(), 1, &models.TransitionRequest{
		ActorID:            7,
		ActorRole:          "professional",
		TargetStatus:       "cancelled",
		CancellationReason: strPtr("schedule conflict"),
	})
	require.NoError(t, err)

	assert.Equal(t, "cancelled", resp.Status)
	require.NotNil(t, resp.CancellationReason)
	assert.Equal(t, "schedule conflict", *resp.CancellationReason)
	require.Len(t, fx.repo.appendedEntries, 1)
	require.NotNil(t, fx.repo.appendedEntries[0].CancellationReason)
	// Неоплаченное бронирование отменяется без возврата средств
	assert.Zero(t, fx.payments.refundCalls)
}

func TestRequestTransition_DisputeRequiresMessage(t *testing.T) {
	booking := pendingBooking()
	booking.Status = domain.StatusInProgress
	booking.PaymentStatus = domain.PaymentPaid
	fx := newLifecycleFixture(booking)

	_, err := fx.service.RequestTransition(context.Background(), 1, &models.TransitionRequest{
		ActorID:      42,
		ActorRole:    "client",
		TargetStatus: "disputed",
	})
	assert.ErrorIs(t, err, ErrMissingReason)

	resp, err := fx.service.RequestTransition(context.Background(), 1, &models.TransitionRequest{
		ActorID:      42,
		ActorRole:    "client",
		TargetStatus: "disputed",
		Message:      strPtr("work not finished"),
	})
	require.NoError(t, err)
	assert.Equal(t, "disputed", resp.Status)
}

func TestRequestTransition_ConfirmCapturesPayment(t *testing.T) {
	booking := pendingBooking()
	booking.Status = domain.StatusAccepted
	fx := newLifecycleFixture(booking)

	resp, err := fx.service.RequestTransition(context.Background(), 1, &models.TransitionRequest{
		ActorID:      42,
		ActorRole:    "client",
		TargetStatus: "confirmed",
	})
	require.NoError(t, err)

	assert.Equal(t, "confirmed", resp.Status)
	assert.Equal(t, string(domain.PaymentPaid), resp.PaymentStatus)
	assert.Equal(t, 1, fx.payments.captureCalls)
	assert.Equal(t, []domain.PaymentStatus{domain.PaymentPaid}, fx.repo.paymentStatusCalls)

	require.Len(t, fx.events.published, 1)
	assert.Equal(t, domain.EventBookingConfirmed, fx.events.published[0].Event)
}

func TestRequestTransition_CaptureFailureRollsBack(t *testing.T) {
	booking := pendingBooking()
	booking.Status = domain.StatusAccepted
	fx := newLifecycleFixture(booking)
	fx.payments.captureErr = errors.New("payment service unavailable")

	_, err := fx.service.RequestTransition(context.Background(), 1, &models.TransitionRequest{
		ActorID:      42,
		ActorRole:    "client",
		TargetStatus: "confirmed",
	})
	assert.ErrorIs(t, err, ErrSideEffectFailed)
	assert.Equal(t, 1, fx.tx.rollbackCount)
	assert.Zero(t, fx.tx.commitCount)
	assert.Empty(t, fx.events.published)
}

func TestRequestTransition_CancelPaidRefunds(t *testing.T) {
	booking := pendingBooking()
	booking.Status = domain.StatusConfirmed
	booking.PaymentStatus = domain.PaymentPaid
	fx := newLifecycleFixture(booking)

	resp, err := fx.service.RequestTransition(context.Background(), 1, &models.TransitionRequest{
		ActorID:            42,
		ActorRole:          "client",
		TargetStatus:       "cancelled",
		CancellationReason: strPtr("plans changed"),
	})
	require.NoError(t, err)

	assert.Equal(t, string(domain.PaymentRefunded), resp.PaymentStatus)
	assert.Equal(t, 1, fx.payments.refundCalls)
}

func TestRequestTransition_RefundFailureRollsBack(t *testing.T) {
	booking := pendingBooking()
	booking.Status = domain.StatusConfirmed
	booking.PaymentStatus = domain.PaymentPaid
	fx := newLifecycleFixture(booking)
	fx.payments.refundErr = errors.New("payment service unavailable")

	_, err := fx.service.RequestTransition(context.Background(), 1, &models.TransitionRequest{
		ActorID:            42,
		ActorRole:          "client",
		TargetStatus:       "cancelled",
		CancellationReason: strPtr("plans changed"),
	})
	assert.ErrorIs(t, err, ErrSideEffectFailed)
	assert.Equal(t, 1, fx.tx.rollbackCount)
}

func TestRequestTransition_InvalidInput(t *testing.T) {
	fx := newLifecycleFixture(pendingBooking())

	_, err := fx.service.RequestTransition(context.Background(), 1, &models.TransitionRequest{
		ActorID:      7,
		ActorRole:    "admin",
		TargetStatus: "accepted",
	})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = fx.service.RequestTransition(context.Background(), 1, &models.TransitionRequest{
		ActorID:      7,
		ActorRole:    "professional",
		TargetStatus: "in_progress",
	})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestGetByID_AccessControl(t *testing.T) {
	fx := newLifecycleFixture(pendingBooking())

	resp, err := fx.service.GetByID(context.Background(), 1, 42, "client")
	require.NoError(t, err)
	assert.Equal(t, int64(1), resp.ID)

	_, err = fx.service.GetByID(context.Background(), 1, 99, "client")
	assert.ErrorIs(t, err, ErrAccessDenied)

	_, err = fx.service.GetByID(context.Background(), 2, 42, "client")
	assert.ErrorIs(t, err, ErrBookingNotFound)
}

func TestGetHistory(t *testing.T) {
	fx := newLifecycleFixture(pendingBooking())
	fx.repo.history = []*domain.HistoryEntry{
		{ID: 1, BookingID: 1, Status: domain.StatusPending, ActorID: 42, ActorRole: domain.RoleClient},
		{ID: 2, BookingID: 1, Status: domain.StatusAccepted, ActorID: 7, ActorRole: domain.RoleProfessional},
	}

	resp, err := fx.service.GetHistory(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, int64(1), resp.BookingID)
	require.Len(t, resp.History, 2)
	assert.Equal(t, "pending", resp.History[0].Status)
	assert.Equal(t, "accepted", resp.History[1].Status)
}

func TestGetHistory_EmptyMeansNotFound(t *testing.T) {
	fx := newLifecycleFixture(pendingBooking())

	_, err := fx.service.GetHistory(context.Background(), 999)
	assert.ErrorIs(t, err, ErrBookingNotFound)
}

func TestGetClientBookings(t *testing.T) {
	fx := newLifecycleFixture(pendingBooking())

	resp, err := fx.service.GetClientBookings(context.Background(), &models.GetClientBookingsRequest{ClientID: 42})
	require.NoError(t, err)
	require.Len(t, resp.Bookings, 1)

	status := "completed"
	resp, err = fx.service.GetClientBookings(context.Background(), &models.GetClientBookingsRequest{
		ClientID: 42,
		Status:   &status,
	})
	require.NoError(t, err)
	assert.Empty(t, resp.Bookings)

	bad := "unknown"
	_, err = fx.service.GetClientBookings(context.Background(), &models.GetClientBookingsRequest{
		ClientID: 42,
		Status:   &bad,
	})
	assert.ErrorIs(t, err, ErrInvalidInput)
}
