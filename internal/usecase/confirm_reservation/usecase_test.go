package confirm_reservation

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/proserv/PS-BookingService/internal/domain"
	"github.com/proserv/PS-BookingService/internal/infra/events"
	"github.com/proserv/PS-BookingService/internal/service/reservation"
	"github.com/proserv/PS-BookingService/pkg/types"
)

type fakeWorkflow struct {
	draft     *domain.DraftBooking
	draftErr  error
	finalized bool
}

func (f *fakeWorkflow) CompletedDraft(_ context.Context, _ string, _ int64) (*domain.DraftBooking, error) {
	if f.draftErr != nil {
		return nil, f.draftErr
	}
	return f.draft, nil
}

func (f *fakeWorkflow) Finalize(_ context.Context, _ *domain.DraftBooking) {
	f.finalized = true
}

type fakeBookingWriter struct {
	activeCount int
	created     *domain.Booking
	appended    []*domain.HistoryEntry
}

func (f *fakeBookingWriter) Create(_ context.Context, booking *domain.Booking) (*domain.Booking, error) {
	booking.ID = 10
	booking.CreatedAt = time.Now()
	booking.UpdatedAt = booking.CreatedAt
	f.created = booking
	return booking, nil
}

func (f *fakeBookingWriter) CountActiveBySlot(_ context.Context, _ int64, _ time.Time, _ types.TimeString) (int, error) {
	return f.activeCount, nil
}

func (f *fakeBookingWriter) AppendHistory(_ context.Context, entry *domain.HistoryEntry) (*domain.HistoryEntry, error) {
	entry.ID = int64(len(f.appended) + 1)
	entry.CreatedAt = time.Now()
	f.appended = append(f.appended, entry)
	return entry, nil
}

type fakePublisher struct {
	published []events.LifecycleEvent
}

func (f *fakePublisher) Publish(_ context.Context, event events.LifecycleEvent) error {
	f.published = append(f.published, event)
	return nil
}

type fakeTxManager struct{}

func (fakeTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func completedDraft() *domain.DraftBooking {
	serviceID := int64(3)
	price := float64(150)
	date := time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC)
	expires := time.Now().Add(5 * time.Minute)

	return &domain.DraftBooking{
		SessionID:      "session-1",
		ClientID:       42,
		ProfessionalID: 7,
		Step:           domain.StepConfirmation,
		ServiceID:      &serviceID,
		ProjectTitle:   "Kitchen renovation",
		Description:    "Full renovation of a small kitchen with new cabinets",
		ScheduledDate:  &date,
		ScheduledTime:  "10:00",
		SlotPrice:      &price,
		HoldToken:      "token-1",
		HoldExpiresAt:  &expires,
		Contact: &domain.ContactInfo{
			Name:  "Ivan Petrov",
			Email: "ivan@example.com",
			Phone: "+79001234567",
		},
	}
}

type confirmFixture struct {
	usecase  *UseCase
	workflow *fakeWorkflow
	repo     *fakeBookingWriter
	events   *fakePublisher
}

func newConfirmFixture() *confirmFixture {
	workflow := &fakeWorkflow{draft: completedDraft()}
	repo := &fakeBookingWriter{}
	publisher := &fakePublisher{}

	return &confirmFixture{
		usecase:  NewUseCase(workflow, repo, publisher, fakeTxManager{}, nopLogger{}),
		workflow: workflow,
		repo:     repo,
		events:   publisher,
	}
}

func TestExecute(t *testing.T) {
	fx := newConfirmFixture()

	resp, err := fx.usecase.Execute(context.Background(), &Request{SessionID: "session-1", ClientID: 42})
	require.NoError(t, err)

	assert.Equal(t, int64(10), resp.ID)
	assert.Equal(t, "pending", resp.Status)
	assert.Equal(t, "pending", resp.PaymentStatus)
	assert.Equal(t, float64(150), resp.Price)
	assert.Equal(t, "2026-09-10", resp.ScheduledDate)
	assert.Equal(t, "10:00", resp.ScheduledTime)
	assert.Equal(t, "ivan@example.com", resp.ContactEmail)

	// Первая запись истории пишется вместе с созданием
	require.Len(t, fx.repo.appended, 1)
	assert.Equal(t, domain.StatusPending, fx.repo.appended[0].Status)
	assert.Equal(t, int64(42), fx.repo.appended[0].ActorID)
	assert.Equal(t, domain.RoleClient, fx.repo.appended[0].ActorRole)

	assert.True(t, fx.workflow.finalized)

	require.Len(t, fx.events.published, 1)
	assert.Equal(t, domain.EventBookingCreated, fx.events.published[0].Event)
	assert.Equal(t, int64(10), fx.events.published[0].BookingID)
}

func TestExecute_InvalidInput(t *testing.T) {
	fx := newConfirmFixture()

	_, err := fx.usecase.Execute(context.Background(), &Request{SessionID: "", ClientID: 42})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = fx.usecase.Execute(context.Background(), &Request{SessionID: "session-1", ClientID: 0})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestExecute_WorkflowErrors(t *testing.T) {
	tests := []struct {
		name        string
		workflowErr error
		wantErr     error
	}{
		{"session not found", reservation.ErrSessionNotFound, ErrSessionNotFound},
		{"access denied", reservation.ErrAccessDenied, ErrAccessDenied},
		{"incomplete draft", reservation.ErrIncompleteDraft, ErrIncompleteDraft},
		{"hold expired", reservation.ErrSlotUnavailable, ErrSlotUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fx := newConfirmFixture()
			fx.workflow.draftErr = tt.workflowErr

			_, err := fx.usecase.Execute(context.Background(), &Request{SessionID: "session-1", ClientID: 42})
			assert.ErrorIs(t, err, tt.wantErr)
			assert.False(t, fx.workflow.finalized)
			assert.Empty(t, fx.events.published)
		})
	}
}

func TestExecute_SlotAlreadyBooked(t *testing.T) {
	fx := newConfirmFixture()
	fx.repo.activeCount = 1

	_, err := fx.usecase.Execute(context.Background(), &Request{SessionID: "session-1", ClientID: 42})
	assert.ErrorIs(t, err, ErrSlotUnavailable)
	assert.Nil(t, fx.repo.created)
	assert.False(t, fx.workflow.finalized)
}
