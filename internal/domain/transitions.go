package domain

// Lifecycle event names, one per transition. The notification collaborator
// receives every event; BookingConfirmed additionally triggers payment capture.
const (
	EventBookingCreated   = "BookingCreated"
	EventBookingAccepted  = "BookingAccepted"
	EventBookingConfirmed = "BookingConfirmed"
	EventBookingStarted   = "BookingStarted"
	EventBookingCompleted = "BookingCompleted"
	EventBookingCancelled = "BookingCancelled"
	EventBookingDisputed  = "BookingDisputed"
)

// TransitionRule describes one legal status transition: who may initiate it,
// whether a message/reason is mandatory, and which event it emits.
type TransitionRule struct {
	From            BookingStatus
	To              BookingStatus
	Roles           []ActorRole
	RequiresReason  bool
	Event           string
	CapturesPayment bool
}

// AllowsRole returns true if the given role may initiate this transition
func (r TransitionRule) AllowsRole(role ActorRole) bool {
	for _, allowed := range r.Roles {
		if allowed == role {
			return true
		}
	}
	return false
}

type transitionKey struct {
	from BookingStatus
	to   BookingStatus
}

var (
	professionalOnly = []ActorRole{RoleProfessional}
	clientOnly       = []ActorRole{RoleClient}
	eitherRole       = []ActorRole{RoleClient, RoleProfessional}
)

// transitionTable is the closed set of legal transitions. Anything absent
// from this table is rejected by construction.
var transitionTable = map[transitionKey]TransitionRule{
	{StatusPending, StatusAccepted}:     {From: StatusPending, To: StatusAccepted, Roles: professionalOnly, Event: EventBookingAccepted},
	{StatusPending, StatusCancelled}:    {From: StatusPending, To: StatusCancelled, Roles: professionalOnly, RequiresReason: true, Event: EventBookingCancelled},
	{StatusAccepted, StatusConfirmed}:   {From: StatusAccepted, To: StatusConfirmed, Roles: clientOnly, Event: EventBookingConfirmed, CapturesPayment: true},
	{StatusAccepted, StatusCancelled}:   {From: StatusAccepted, To: StatusCancelled, Roles: eitherRole, RequiresReason: true, Event: EventBookingCancelled},
	{StatusConfirmed, StatusInProgress}: {From: StatusConfirmed, To: StatusInProgress, Roles: professionalOnly, Event: EventBookingStarted},
	{StatusConfirmed, StatusCancelled}:  {From: StatusConfirmed, To: StatusCancelled, Roles: eitherRole, RequiresReason: true, Event: EventBookingCancelled},
	{StatusInProgress, StatusCompleted}: {From: StatusInProgress, To: StatusCompleted, Roles: professionalOnly, Event: EventBookingCompleted},
	{StatusInProgress, StatusDisputed}:  {From: StatusInProgress, To: StatusDisputed, Roles: eitherRole, RequiresReason: true, Event: EventBookingDisputed},
}

// FindTransition returns the rule for the (from, to) pair, if the transition is legal
func FindTransition(from, to BookingStatus) (TransitionRule, bool) {
	rule, ok := transitionTable[transitionKey{from, to}]
	return rule, ok
}

// IsValid returns true if the status is a recognized booking status
func (s BookingStatus) IsValid() bool {
	switch s {
	case StatusPending, StatusAccepted, StatusConfirmed, StatusInProgress,
		StatusCompleted, StatusCancelled, StatusDisputed:
		return true
	}
	return false
}

// IsTerminal returns true if the status has no outgoing transitions.
// Disputed is not terminal: it is resolved externally into completed or cancelled.
func (s BookingStatus) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// OutgoingTransitions returns the rules leaving the given status,
// used to report allowed actions per role
func OutgoingTransitions(from BookingStatus) []TransitionRule {
	rules := make([]TransitionRule, 0, 2)
	for key, rule := range transitionTable {
		if key.from == from {
			rules = append(rules, rule)
		}
	}
	return rules
}
