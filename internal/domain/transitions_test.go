package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindTransition_LegalPairs(t *testing.T) {
	tests := []struct {
		name            string
		from            BookingStatus
		to              BookingStatus
		roles           []ActorRole
		requiresReason  bool
		event           string
		capturesPayment bool
	}{
		{
			name:  "professional accepts pending",
			from:  StatusPending, to: StatusAccepted,
			roles: []ActorRole{RoleProfessional},
			event: EventBookingAccepted,
		},
		{
			name:           "professional declines pending",
			from:           StatusPending, to: StatusCancelled,
			roles:          []ActorRole{RoleProfessional},
			requiresReason: true,
			event:          EventBookingCancelled,
		},
		{
			name:            "client confirms accepted",
			from:            StatusAccepted, to: StatusConfirmed,
			roles:           []ActorRole{RoleClient},
			event:           EventBookingConfirmed,
			capturesPayment: true,
		},
		{
			name:           "either party cancels accepted",
			from:           StatusAccepted, to: StatusCancelled,
			roles:          []ActorRole{RoleClient, RoleProfessional},
			requiresReason: true,
			event:          EventBookingCancelled,
		},
		{
			name:  "professional starts confirmed",
			from:  StatusConfirmed, to: StatusInProgress,
			roles: []ActorRole{RoleProfessional},
			event: EventBookingStarted,
		},
		{
			name:           "either party cancels confirmed",
			from:           StatusConfirmed, to: StatusCancelled,
			roles:          []ActorRole{RoleClient, RoleProfessional},
			requiresReason: true,
			event:          EventBookingCancelled,
		},
		{
			name:  "professional completes in-progress",
			from:  StatusInProgress, to: StatusCompleted,
			roles: []ActorRole{RoleProfessional},
			event: EventBookingCompleted,
		},
		{
			name:           "either party disputes in-progress",
			from:           StatusInProgress, to: StatusDisputed,
			roles:          []ActorRole{RoleClient, RoleProfessional},
			requiresReason: true,
			event:          EventBookingDisputed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rule, ok := FindTransition(tt.from, tt.to)
			require.True(t, ok)

			assert.Equal(t, tt.from, rule.From)
			assert.Equal(t, tt.to, rule.To)
			assert.Equal(t, tt.roles, rule.Roles)
			assert.Equal(t, tt.requiresReason, rule.RequiresReason)
			assert.Equal(t, tt.event, rule.Event)
			assert.Equal(t, tt.capturesPayment, rule.CapturesPayment)
		})
	}
}

func TestFindTransition_IllegalPairs(t *testing.T) {
	illegal := []struct {
		from BookingStatus
		to   BookingStatus
	}{
		{StatusPending, StatusConfirmed},   // нельзя перепрыгнуть принятие
		{StatusPending, StatusInProgress},
		{StatusPending, StatusCompleted},
		{StatusAccepted, StatusInProgress}, // без подтверждения работа не начинается
		{StatusConfirmed, StatusCompleted},
		{StatusConfirmed, StatusAccepted},  // переходы назад запрещены
		{StatusAccepted, StatusPending},
		{StatusInProgress, StatusCancelled},
		{StatusCompleted, StatusDisputed},
		{StatusCancelled, StatusPending},
		{StatusCompleted, StatusPending},
		{StatusDisputed, StatusCompleted},  // спор разрешается вне этого сервиса
		{StatusPending, StatusPending},
	}

	for _, pair := range illegal {
		_, ok := FindTransition(pair.from, pair.to)
		assert.False(t, ok, "%s -> %s must be illegal", pair.from, pair.to)
	}
}

func TestTransitionRule_AllowsRole(t *testing.T) {
	accept, ok := FindTransition(StatusPending, StatusAccepted)
	require.True(t, ok)
	assert.True(t, accept.AllowsRole(RoleProfessional))
	assert.False(t, accept.AllowsRole(RoleClient))

	confirm, ok := FindTransition(StatusAccepted, StatusConfirmed)
	require.True(t, ok)
	assert.True(t, confirm.AllowsRole(RoleClient))
	assert.False(t, confirm.AllowsRole(RoleProfessional))

	cancel, ok := FindTransition(StatusAccepted, StatusCancelled)
	require.True(t, ok)
	assert.True(t, cancel.AllowsRole(RoleClient))
	assert.True(t, cancel.AllowsRole(RoleProfessional))
}

func TestBookingStatus_IsTerminal(t *testing.T) {
	assert.True(t, StatusCompleted.IsTerminal())
	assert.True(t, StatusCancelled.IsTerminal())

	for _, s := range []BookingStatus{StatusPending, StatusAccepted, StatusConfirmed, StatusInProgress, StatusDisputed} {
		assert.False(t, s.IsTerminal(), "%s must not be terminal", s)
	}

	// У терминальных статусов нет исходящих переходов
	assert.Empty(t, OutgoingTransitions(StatusCompleted))
	assert.Empty(t, OutgoingTransitions(StatusCancelled))
	assert.Empty(t, OutgoingTransitions(StatusDisputed))
}

func TestBookingStatus_IsValid(t *testing.T) {
	for _, s := range []BookingStatus{StatusPending, StatusAccepted, StatusConfirmed, StatusInProgress, StatusCompleted, StatusCancelled, StatusDisputed} {
		assert.True(t, s.IsValid())
	}

	assert.False(t, BookingStatus("in_progress").IsValid())
	assert.False(t, BookingStatus("unknown").IsValid())
	assert.False(t, BookingStatus("").IsValid())
}

func TestOutgoingTransitions(t *testing.T) {
	pending := OutgoingTransitions(StatusPending)
	assert.Len(t, pending, 2)

	targets := map[BookingStatus]bool{}
	for _, rule := range pending {
		targets[rule.To] = true
	}
	assert.True(t, targets[StatusAccepted])
	assert.True(t, targets[StatusCancelled])
}
