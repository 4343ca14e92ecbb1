package reservation

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/proserv/PS-BookingService/internal/domain"
	"github.com/proserv/PS-BookingService/internal/infra/holds"
	"github.com/proserv/PS-BookingService/internal/infra/sessions"
	availabilityRepo "github.com/proserv/PS-BookingService/internal/infra/storage/availability"
	"github.com/proserv/PS-BookingService/internal/service/reservation/models"
	"github.com/proserv/PS-BookingService/pkg/types"
)

// Фейки зависимостей

type fakeSessionStore struct {
	drafts map[string]*domain.DraftBooking
}

func newFakeSessionStore() *fakeSessionStore {
	return &fakeSessionStore{drafts: make(map[string]*domain.DraftBooking)}
}

func (f *fakeSessionStore) Save(_ context.Context, draft *domain.DraftBooking) error {
	copied := *draft
	f.drafts[draft.SessionID] = &copied
	return nil
}

func (f *fakeSessionStore) Get(_ context.Context, sessionID string) (*domain.DraftBooking, error) {
	draft, ok := f.drafts[sessionID]
	if !ok {
		return nil, sessions.ErrSessionNotFound
	}
	copied := *draft
	return &copied, nil
}

func (f *fakeSessionStore) Delete(_ context.Context, sessionID string) error {
	delete(f.drafts, sessionID)
	return nil
}

type fakeHoldStore struct {
	held    map[string]string // ключ слота -> токен
	nextTok int

	acquireErr error
	expired    bool
}

func newFakeHoldStore() *fakeHoldStore {
	return &fakeHoldStore{held: make(map[string]string)}
}

func holdKey(professionalID int64, date time.Time, startTime types.TimeString) string {
	return fmt.Sprintf("%d:%s:%s", professionalID, date.Format(domain.DateFormat), startTime)
}

func (f *fakeHoldStore) Acquire(_ context.Context, professionalID int64, date time.Time, startTime types.TimeString) (*domain.SlotHold, error) {
	if f.acquireErr != nil {
		return nil, f.acquireErr
	}
	key := holdKey(professionalID, date, startTime)
	if _, ok := f.held[key]; ok {
		return nil, holds.ErrSlotHeld
	}
	f.nextTok++
	token := fmt.Sprintf("token-%d", f.nextTok)
	f.held[key] = token
	return &domain.SlotHold{
		Token:          token,
		ProfessionalID: professionalID,
		Date:           date,
		StartTime:      startTime,
		ExpiresAt:      time.Now().Add(10 * time.Minute),
	}, nil
}

func (f *fakeHoldStore) Release(_ context.Context, hold *domain.SlotHold) error {
	key := holdKey(hold.ProfessionalID, hold.Date, hold.StartTime)
	if f.held[key] == hold.Token {
		delete(f.held, key)
	}
	return nil
}

func (f *fakeHoldStore) IsHeldBy(_ context.Context, professionalID int64, date time.Time, startTime types.TimeString, token string) (bool, error) {
	if f.expired {
		return false, nil
	}
	return f.held[holdKey(professionalID, date, startTime)] == token, nil
}

type fakeAvailability struct {
	slots map[string]*domain.TimeSlot
}

func newFakeAvailability() *fakeAvailability {
	return &fakeAvailability{slots: make(map[string]*domain.TimeSlot)}
}

func (f *fakeAvailability) addSlot(professionalID int64, date time.Time, startTime types.TimeString, price float64, state domain.SlotState) {
	f.slots[holdKey(professionalID, date, startTime)] = &domain.TimeSlot{
		ProfessionalID: professionalID,
		Date:           date,
		StartTime:      startTime,
		Price:          price,
		State:          state,
	}
}

func (f *fakeAvailability) GetSlot(_ context.Context, professionalID int64, date time.Time, startTime types.TimeString) (*domain.TimeSlot, error) {
	slot, ok := f.slots[holdKey(professionalID, date, startTime)]
	if !ok {
		return nil, availabilityRepo.ErrSlotNotFound
	}
	return slot, nil
}

type nopLogger struct{}

func (nopLogger) Info(string, ...any)  {}
func (nopLogger) Warn(string, ...any)  {}
func (nopLogger) Error(string, ...any) {}

type workflowFixture struct {
	service      *Service
	sessions     *fakeSessionStore
	holds        *fakeHoldStore
	availability *fakeAvailability
	slotDate     time.Time
}

func newWorkflowFixture(t *testing.T) *workflowFixture {
	t.Helper()

	sessions := newFakeSessionStore()
	holds := newFakeHoldStore()
	availability := newFakeAvailability()

	slotDate := time.Now().UTC().Truncate(24 * time.Hour).AddDate(0, 0, 7)
	availability.addSlot(7, slotDate, "10:00", 150, domain.SlotOpen)
	availability.addSlot(7, slotDate, "11:00", 150, domain.SlotOpen)
	availability.addSlot(7, slotDate, "12:00", 200, domain.SlotBooked)

	return &workflowFixture{
		service:      NewService(sessions, holds, availability, nopLogger{}),
		sessions:     sessions,
		holds:        holds,
		availability: availability,
		slotDate:     slotDate,
	}
}

func (fx *workflowFixture) start(t *testing.T) *models.SessionResponse {
	t.Helper()

	resp, err := fx.service.Start(context.Background(), &models.StartRequest{ClientID: 42, ProfessionalID: 7})
	require.NoError(t, err)
	return resp
}

func (fx *workflowFixture) submit(t *testing.T, req *models.SubmitStepRequest) *models.SessionResponse {
	t.Helper()

	resp, err := fx.service.SubmitStep(context.Background(), req)
	require.NoError(t, err)
	return resp
}

// walkToConfirmation проходит все шаги мастера до шага подтверждения
func (fx *workflowFixture) walkToConfirmation(t *testing.T, startTime string) string {
	t.Helper()

	session := fx.start(t)
	sessionID := session.SessionID

	fx.submit(t, &models.SubmitStepRequest{
		SessionID: sessionID,
		ClientID:  42,
		Step:      "service-selection",
		ServiceID: int64Ptr(3),
	})
	fx.submit(t, &models.SubmitStepRequest{
		SessionID:    sessionID,
		ClientID:     42,
		Step:         "project-details",
		ProjectTitle: strPtr("Kitchen renovation"),
		Description:  strPtr("Full renovation of a small kitchen with new cabinets"),
	})
	fx.submit(t, &models.SubmitStepRequest{
		SessionID:     sessionID,
		ClientID:      42,
		Step:          "schedule-selection",
		ScheduledDate: strPtr(fx.slotDate.Format(domain.DateFormat)),
		ScheduledTime: strPtr(startTime),
	})
	fx.submit(t, &models.SubmitStepRequest{
		SessionID: sessionID,
		ClientID:  42,
		Step:      "contact-info",
		Contact: &models.ContactPayload{
			Name:  "Ivan Petrov",
			Email: "ivan@example.com",
			Phone: "+79001234567",
		},
	})

	return sessionID
}

func strPtr(s string) *string { return &s }

func int64Ptr(v int64) *int64 { return &v }

func floatPtr(v float64) *float64 { return &v }

func TestStart(t *testing.T) {
	fx := newWorkflowFixture(t)

	resp := fx.start(t)
	assert.NotEmpty(t, resp.SessionID)
	assert.Equal(t, "service-selection", resp.Step)
	assert.Equal(t, []string{
		"service-selection", "project-details", "schedule-selection", "contact-info", "confirmation",
	}, resp.Steps)
}

func TestStart_InvalidInput(t *testing.T) {
	fx := newWorkflowFixture(t)

	_, err := fx.service.Start(context.Background(), &models.StartRequest{ClientID: 0, ProfessionalID: 7})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestSubmitStep_FullWalk(t *testing.T) {
	fx := newWorkflowFixture(t)

	sessionID := fx.walkToConfirmation(t, "10:00")

	resp, err := fx.service.Get(context.Background(), sessionID, 42)
	require.NoError(t, err)

	assert.Equal(t, "confirmation", resp.Step)
	require.NotNil(t, resp.ServiceID)
	assert.Equal(t, int64(3), *resp.ServiceID)
	assert.Equal(t, "Kitchen renovation", resp.ProjectTitle)
	require.NotNil(t, resp.ScheduledDate)
	assert.Equal(t, "10:00", resp.ScheduledTime)
	require.NotNil(t, resp.SlotPrice)
	assert.Equal(t, float64(150), *resp.SlotPrice)
	assert.NotNil(t, resp.HoldExpiresAt)
	require.NotNil(t, resp.Contact)
	assert.Equal(t, "ivan@example.com", resp.Contact.Email)
}

func TestSubmitStep_WrongStepRejected(t *testing.T) {
	fx := newWorkflowFixture(t)
	session := fx.start(t)

	_, err := fx.service.SubmitStep(context.Background(), &models.SubmitStepRequest{
		SessionID:    session.SessionID,
		ClientID:     42,
		Step:         "project-details",
		ProjectTitle: strPtr("Kitchen renovation"),
		Description:  strPtr("Full renovation of a small kitchen with new cabinets"),
	})
	assert.ErrorIs(t, err, ErrInvalidStep)

	_, err = fx.service.SubmitStep(context.Background(), &models.SubmitStepRequest{
		SessionID: session.SessionID,
		ClientID:  42,
		Step:      "unknown-step",
	})
	assert.ErrorIs(t, err, ErrInvalidStep)
}

func TestSubmitStep_ServiceSelectionValidation(t *testing.T) {
	fx := newWorkflowFixture(t)
	session := fx.start(t)

	_, err := fx.service.SubmitStep(context.Background(), &models.SubmitStepRequest{
		SessionID: session.SessionID,
		ClientID:  42,
		Step:      "service-selection",
	})

	var verr *models.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "serviceId")
}

func TestSubmitStep_ProjectDetailsValidation(t *testing.T) {
	fx := newWorkflowFixture(t)
	session := fx.start(t)
	fx.submit(t, &models.SubmitStepRequest{
		SessionID: session.SessionID,
		ClientID:  42,
		Step:      "service-selection",
		ServiceID: int64Ptr(3),
	})

	_, err := fx.service.SubmitStep(context.Background(), &models.SubmitStepRequest{
		SessionID:    session.SessionID,
		ClientID:     42,
		Step:         "project-details",
		ProjectTitle: strPtr("ab"),
		Description:  strPtr("too short"),
		Budget:       floatPtr(-5),
	})

	var verr *models.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "projectTitle")
	assert.Contains(t, verr.Fields, "description")
	assert.Contains(t, verr.Fields, "budget")
}

func TestSubmitStep_ContactValidation(t *testing.T) {
	fx := newWorkflowFixture(t)
	sessionID := fx.walkToConfirmation(t, "10:00")

	// Возврат на шаг контактов и отправка некорректных данных
	_, err := fx.service.Back(context.Background(), sessionID, 42)
	require.NoError(t, err)

	_, err = fx.service.SubmitStep(context.Background(), &models.SubmitStepRequest{
		SessionID: sessionID,
		ClientID:  42,
		Step:      "contact-info",
		Contact: &models.ContactPayload{
			Name:  "I",
			Email: "not-an-email",
			Phone: "123",
		},
	})

	var verr *models.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "contact.name")
	assert.Contains(t, verr.Fields, "contact.email")
	assert.Contains(t, verr.Fields, "contact.phone")
}

func TestSubmitStep_BookedSlotRejected(t *testing.T) {
	fx := newWorkflowFixture(t)
	session := fx.start(t)
	sessionID := session.SessionID

	fx.submit(t, &models.SubmitStepRequest{
		SessionID: sessionID, ClientID: 42, Step: "service-selection", ServiceID: int64Ptr(3),
	})
	fx.submit(t, &models.SubmitStepRequest{
		SessionID:    sessionID,
		ClientID:     42,
		Step:         "project-details",
		ProjectTitle: strPtr("Kitchen renovation"),
		Description:  strPtr("Full renovation of a small kitchen with new cabinets"),
	})

	_, err := fx.service.SubmitStep(context.Background(), &models.SubmitStepRequest{
		SessionID:     sessionID,
		ClientID:      42,
		Step:          "schedule-selection",
		ScheduledDate: strPtr(fx.slotDate.Format(domain.DateFormat)),
		ScheduledTime: strPtr("12:00"),
	})
	assert.ErrorIs(t, err, ErrSlotUnavailable)

	// Несуществующий слот отклоняется так же
	_, err = fx.service.SubmitStep(context.Background(), &models.SubmitStepRequest{
		SessionID:     sessionID,
		ClientID:      42,
		Step:          "schedule-selection",
		ScheduledDate: strPtr(fx.slotDate.Format(domain.DateFormat)),
		ScheduledTime: strPtr("23:00"),
	})
	assert.ErrorIs(t, err, ErrSlotUnavailable)
}

func TestSubmitStep_HeldSlotRejected(t *testing.T) {
	fx := newWorkflowFixture(t)

	// Первая сессия захватывает удержание слота
	fx.walkToConfirmation(t, "10:00")

	second := fx.start(t)
	fx.submit(t, &models.SubmitStepRequest{
		SessionID: second.SessionID, ClientID: 42, Step: "service-selection", ServiceID: int64Ptr(3),
	})
	fx.submit(t, &models.SubmitStepRequest{
		SessionID:    second.SessionID,
		ClientID:     42,
		Step:         "project-details",
		ProjectTitle: strPtr("Bathroom renovation"),
		Description:  strPtr("Replace tiles and plumbing in the main bathroom"),
	})

	_, err := fx.service.SubmitStep(context.Background(), &models.SubmitStepRequest{
		SessionID:     second.SessionID,
		ClientID:      42,
		Step:          "schedule-selection",
		ScheduledDate: strPtr(fx.slotDate.Format(domain.DateFormat)),
		ScheduledTime: strPtr("10:00"),
	})
	assert.ErrorIs(t, err, ErrSlotUnavailable)
}

func TestSubmitStep_SlotChangeReleasesPreviousHold(t *testing.T) {
	fx := newWorkflowFixture(t)
	session := fx.start(t)
	sessionID := session.SessionID

	fx.submit(t, &models.SubmitStepRequest{
		SessionID: sessionID, ClientID: 42, Step: "service-selection", ServiceID: int64Ptr(3),
	})
	fx.submit(t, &models.SubmitStepRequest{
		SessionID:    sessionID,
		ClientID:     42,
		Step:         "project-details",
		ProjectTitle: strPtr("Kitchen renovation"),
		Description:  strPtr("Full renovation of a small kitchen with new cabinets"),
	})
	fx.submit(t, &models.SubmitStepRequest{
		SessionID:     sessionID,
		ClientID:      42,
		Step:          "schedule-selection",
		ScheduledDate: strPtr(fx.slotDate.Format(domain.DateFormat)),
		ScheduledTime: strPtr("10:00"),
	})

	// Возврат и выбор другого слота снимает прежнее удержание
	_, err := fx.service.Back(context.Background(), sessionID, 42)
	require.NoError(t, err)

	fx.submit(t, &models.SubmitStepRequest{
		SessionID:     sessionID,
		ClientID:      42,
		Step:          "schedule-selection",
		ScheduledDate: strPtr(fx.slotDate.Format(domain.DateFormat)),
		ScheduledTime: strPtr("11:00"),
	})

	_, firstHeld := fx.holds.held[holdKey(7, fx.slotDate, "10:00")]
	_, secondHeld := fx.holds.held[holdKey(7, fx.slotDate, "11:00")]
	assert.False(t, firstHeld)
	assert.True(t, secondHeld)
}

func TestBack_PreservesData(t *testing.T) {
	fx := newWorkflowFixture(t)
	sessionID := fx.walkToConfirmation(t, "10:00")

	resp, err := fx.service.Back(context.Background(), sessionID, 42)
	require.NoError(t, err)
	assert.Equal(t, "contact-info", resp.Step)

	resp, err = fx.service.Back(context.Background(), sessionID, 42)
	require.NoError(t, err)
	assert.Equal(t, "schedule-selection", resp.Step)

	// Данные всех шагов сохранены
	require.NotNil(t, resp.ServiceID)
	assert.Equal(t, "Kitchen renovation", resp.ProjectTitle)
	require.NotNil(t, resp.ScheduledDate)
	require.NotNil(t, resp.Contact)
	assert.Equal(t, "Ivan Petrov", resp.Contact.Name)
}

func TestBack_FirstStepRejected(t *testing.T) {
	fx := newWorkflowFixture(t)
	session := fx.start(t)

	_, err := fx.service.Back(context.Background(), session.SessionID, 42)
	assert.ErrorIs(t, err, ErrInvalidStep)
}

func TestGet_AccessDenied(t *testing.T) {
	fx := newWorkflowFixture(t)
	session := fx.start(t)

	_, err := fx.service.Get(context.Background(), session.SessionID, 99)
	assert.ErrorIs(t, err, ErrAccessDenied)

	_, err = fx.service.Get(context.Background(), "missing", 42)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestCompletedDraft(t *testing.T) {
	fx := newWorkflowFixture(t)
	sessionID := fx.walkToConfirmation(t, "10:00")

	draft, err := fx.service.CompletedDraft(context.Background(), sessionID, 42)
	require.NoError(t, err)

	assert.Equal(t, domain.StepConfirmation, draft.Step)
	require.NotNil(t, draft.ServiceID)
	require.NotNil(t, draft.ScheduledDate)
	assert.True(t, draft.HasHold())
	require.NotNil(t, draft.Contact)
}

func TestCompletedDraft_NotAtConfirmation(t *testing.T) {
	fx := newWorkflowFixture(t)
	session := fx.start(t)

	_, err := fx.service.CompletedDraft(context.Background(), session.SessionID, 42)
	assert.ErrorIs(t, err, ErrIncompleteDraft)
}

func TestCompletedDraft_ExpiredHoldRollsBackToSchedule(t *testing.T) {
	fx := newWorkflowFixture(t)
	sessionID := fx.walkToConfirmation(t, "10:00")

	fx.holds.expired = true

	_, err := fx.service.CompletedDraft(context.Background(), sessionID, 42)
	assert.ErrorIs(t, err, ErrSlotUnavailable)

	// Курсор откатился на выбор расписания, выбор слота очищен,
	// остальные данные сохранены
	resp, getErr := fx.service.Get(context.Background(), sessionID, 42)
	require.NoError(t, getErr)
	assert.Equal(t, "schedule-selection", resp.Step)
	assert.Nil(t, resp.ScheduledDate)
	assert.Nil(t, resp.HoldExpiresAt)
	require.NotNil(t, resp.ServiceID)
	require.NotNil(t, resp.Contact)
}

func TestFinalize(t *testing.T) {
	fx := newWorkflowFixture(t)
	sessionID := fx.walkToConfirmation(t, "10:00")

	draft, err := fx.service.CompletedDraft(context.Background(), sessionID, 42)
	require.NoError(t, err)

	fx.service.Finalize(context.Background(), draft)

	_, err = fx.service.Get(context.Background(), sessionID, 42)
	assert.ErrorIs(t, err, ErrSessionNotFound)
	assert.Empty(t, fx.holds.held)
}
