package get_available_slots

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/proserv/PS-BookingService/internal/domain"
	"github.com/proserv/PS-BookingService/pkg/types"
)

type fakeAvailability struct {
	slots []*domain.TimeSlot
}

func (f *fakeAvailability) ListByDateRange(_ context.Context, _ int64, _, _ time.Time) ([]*domain.TimeSlot, error) {
	return f.slots, nil
}

type fakeHoldStore struct {
	held map[string]bool
}

func (f *fakeHoldStore) IsHeld(_ context.Context, _ int64, date time.Time, startTime types.TimeString) (bool, error) {
	return f.held[date.Format(domain.DateFormat)+" "+startTime.String()], nil
}

type fakeTimeProvider struct {
	now time.Time
}

func (f *fakeTimeProvider) Now() time.Time {
	return f.now
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

var testNow = time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)

func newSlotsUseCase(slots []*domain.TimeSlot, held map[string]bool) *UseCase {
	uc := NewUseCase(&fakeAvailability{slots: slots}, &fakeHoldStore{held: held}, nopLogger{})
	uc.timeProvider = &fakeTimeProvider{now: testNow}
	return uc
}

func TestExecute(t *testing.T) {
	date := time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC)
	slots := []*domain.TimeSlot{
		{ProfessionalID: 7, Date: date, StartTime: "10:00", Price: 150, State: domain.SlotOpen},
		{ProfessionalID: 7, Date: date, StartTime: "11:00", Price: 150, State: domain.SlotOpen},
		{ProfessionalID: 7, Date: date, StartTime: "12:00", Price: 200, State: domain.SlotBooked},
	}
	held := map[string]bool{"2026-09-10 11:00": true}

	uc := newSlotsUseCase(slots, held)
	resp, err := uc.Execute(context.Background(), &Request{
		UserID:         42,
		ProfessionalID: 7,
		From:           date,
		To:             date,
	})
	require.NoError(t, err)

	assert.Equal(t, int64(7), resp.ProfessionalID)
	assert.Equal(t, "2026-09-10", resp.From)
	require.Len(t, resp.Slots, 3)

	assert.Equal(t, "open", resp.Slots[0].State)
	// Удержание накладывается поверх открытого слота
	assert.Equal(t, "held", resp.Slots[1].State)
	assert.Equal(t, "booked", resp.Slots[2].State)
	assert.Equal(t, types.TimeString("10:00"), resp.Slots[0].StartTime)
	assert.Equal(t, float64(200), resp.Slots[2].Price)
}

func TestExecute_HoldNotCheckedForBookedSlots(t *testing.T) {
	date := time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC)
	slots := []*domain.TimeSlot{
		{ProfessionalID: 7, Date: date, StartTime: "12:00", Price: 200, State: domain.SlotBooked},
	}
	// Удержание на занятом слоте не меняет его состояние
	held := map[string]bool{"2026-09-10 12:00": true}

	uc := newSlotsUseCase(slots, held)
	resp, err := uc.Execute(context.Background(), &Request{
		UserID: 42, ProfessionalID: 7, From: date, To: date,
	})
	require.NoError(t, err)
	require.Len(t, resp.Slots, 1)
	assert.Equal(t, "booked", resp.Slots[0].State)
}

func TestExecute_EmptyRange(t *testing.T) {
	date := time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC)

	uc := newSlotsUseCase(nil, nil)
	resp, err := uc.Execute(context.Background(), &Request{
		UserID: 42, ProfessionalID: 7, From: date, To: date,
	})
	require.NoError(t, err)
	assert.Empty(t, resp.Slots)
}

func TestExecute_Validation(t *testing.T) {
	from := time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		req     *Request
		wantErr error
	}{
		{
			name:    "non-positive professional id",
			req:     &Request{ProfessionalID: 0, From: from, To: from},
			wantErr: ErrInvalidInput,
		},
		{
			name:    "missing dates",
			req:     &Request{ProfessionalID: 7},
			wantErr: ErrInvalidInput,
		},
		{
			name:    "to before from",
			req:     &Request{ProfessionalID: 7, From: from, To: from.AddDate(0, 0, -1)},
			wantErr: ErrInvalidDateRange,
		},
		{
			name:    "range too wide",
			req:     &Request{ProfessionalID: 7, From: from, To: from.AddDate(0, 0, 40)},
			wantErr: ErrDateRangeTooWide,
		},
		{
			name: "range entirely in the past",
			req: &Request{
				ProfessionalID: 7,
				From:           testNow.AddDate(0, 0, -10),
				To:             testNow.AddDate(0, 0, -5),
			},
			wantErr: ErrInvalidDateRange,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := newSlotsUseCase(nil, nil)
			_, err := uc.Execute(context.Background(), tt.req)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}
