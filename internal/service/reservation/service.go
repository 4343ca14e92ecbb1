package reservation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/proserv/PS-BookingService/internal/domain"
	"github.com/proserv/PS-BookingService/internal/infra/holds"
	"github.com/proserv/PS-BookingService/internal/infra/sessions"
	availabilityRepo "github.com/proserv/PS-BookingService/internal/infra/storage/availability"
	"github.com/proserv/PS-BookingService/internal/service/reservation/models"
	"github.com/proserv/PS-BookingService/pkg/types"
)

// Service сервис пошагового мастера резервирования
//
// Ведет черновик бронирования через фиксированную последовательность шагов.
// Черновик живет в хранилище сессий с TTL и не касается таблицы бронирований
// до подтверждения. На шаге выбора расписания сервис захватывает временное
// удержание слота, исключающее параллельный захват другими сессиями.
type Service struct {
	sessionStore SessionStore
	holdStore    HoldStore
	availability AvailabilityRepository
	validate     *validator.Validate
	logger       Logger
}

// NewService создает новый экземпляр сервиса резервирования
func NewService(
	sessionStore SessionStore,
	holdStore HoldStore,
	availability AvailabilityRepository,
	logger Logger,
) *Service {
	return &Service{
		sessionStore: sessionStore,
		holdStore:    holdStore,
		availability: availability,
		validate:     validator.New(),
		logger:       logger,
	}
}

// Start открывает новую сессию резервирования на первом шаге мастера
func (s *Service) Start(ctx context.Context, req *models.StartRequest) (*models.SessionResponse, error) {
	s.logger.Info("Start: client_id=%d, professional_id=%d", req.ClientID, req.ProfessionalID)

	if req.ClientID <= 0 || req.ProfessionalID <= 0 {
		return nil, fmt.Errorf("%w: client and professional ids are required", ErrInvalidInput)
	}

	now := time.Now().UTC()
	draft := &domain.DraftBooking{
		SessionID:      uuid.NewString(),
		ClientID:       req.ClientID,
		ProfessionalID: req.ProfessionalID,
		Step:           domain.StepServiceSelection,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := s.sessionStore.Save(ctx, draft); err != nil {
		s.logger.Error("Start: failed to save session for client_id=%d: %v", req.ClientID, err)
		return nil, fmt.Errorf("%w: Start - save session: %v", ErrInternal, err)
	}

	s.logger.Info("Start: session=%s opened for client_id=%d", draft.SessionID, req.ClientID)
	return models.FromDomainDraft(draft), nil
}

// Get возвращает текущее состояние сессии резервирования
func (s *Service) Get(ctx context.Context, sessionID string, clientID int64) (*models.SessionResponse, error) {
	draft, err := s.getOwnedDraft(ctx, sessionID, clientID)
	if err != nil {
		return nil, err
	}
	return models.FromDomainDraft(draft), nil
}

// SubmitStep принимает данные текущего шага, валидирует их и продвигает
// мастер на следующий шаг. Отправка шага, не совпадающего с текущим
// положением курсора, отклоняется.
func (s *Service) SubmitStep(ctx context.Context, req *models.SubmitStepRequest) (*models.SessionResponse, error) {
	s.logger.Info("SubmitStep: session=%s, step=%s", req.SessionID, req.Step)

	draft, err := s.getOwnedDraft(ctx, req.SessionID, req.ClientID)
	if err != nil {
		return nil, err
	}

	step := domain.WorkflowStep(req.Step)
	if domain.StepIndex(step) < 0 {
		return nil, fmt.Errorf("%w: unknown step %q", ErrInvalidStep, req.Step)
	}
	if step != draft.Step {
		s.logger.Warn("SubmitStep: session=%s is at step=%s, got step=%s", req.SessionID, draft.Step, req.Step)
		return nil, fmt.Errorf("%w: session is at step %q", ErrInvalidStep, draft.Step)
	}

	switch step {
	case domain.StepServiceSelection:
		err = s.applyServiceSelection(draft, req)
	case domain.StepProjectDetails:
		err = s.applyProjectDetails(draft, req)
	case domain.StepScheduleSelection:
		err = s.applyScheduleSelection(ctx, draft, req)
	case domain.StepContactInfo:
		err = s.applyContactInfo(draft, req)
	default:
		// Шаг подтверждения не принимает данных, он завершается
		// отдельной операцией подтверждения
		err = fmt.Errorf("%w: step %q has no form data", ErrInvalidStep, step)
	}
	if err != nil {
		return nil, err
	}

	draft.Step = domain.NextStep(step)
	draft.UpdatedAt = time.Now().UTC()

	if err := s.sessionStore.Save(ctx, draft); err != nil {
		s.logger.Error("SubmitStep: failed to save session=%s: %v", req.SessionID, err)
		return nil, fmt.Errorf("%w: SubmitStep - save session: %v", ErrInternal, err)
	}

	s.logger.Info("SubmitStep: session=%s advanced to step=%s", req.SessionID, draft.Step)
	return models.FromDomainDraft(draft), nil
}

// Back возвращает мастер на предыдущий шаг, сохраняя введенные данные
func (s *Service) Back(ctx context.Context, sessionID string, clientID int64) (*models.SessionResponse, error) {
	s.logger.Info("Back: session=%s", sessionID)

	draft, err := s.getOwnedDraft(ctx, sessionID, clientID)
	if err != nil {
		return nil, err
	}

	if domain.StepIndex(draft.Step) == 0 {
		return nil, fmt.Errorf("%w: already at the first step", ErrInvalidStep)
	}

	draft.Step = domain.PrevStep(draft.Step)
	draft.UpdatedAt = time.Now().UTC()

	if err := s.sessionStore.Save(ctx, draft); err != nil {
		s.logger.Error("Back: failed to save session=%s: %v", sessionID, err)
		return nil, fmt.Errorf("%w: Back - save session: %v", ErrInternal, err)
	}

	return models.FromDomainDraft(draft), nil
}

// CompletedDraft возвращает черновик, готовый к подтверждению
//
// Черновик готов, когда мастер дошел до шага подтверждения и удержание
// слота еще действует. Истекшее удержание откатывает курсор на шаг выбора
// расписания и возвращает ErrSlotUnavailable.
func (s *Service) CompletedDraft(ctx context.Context, sessionID string, clientID int64) (*domain.DraftBooking, error) {
	draft, err := s.getOwnedDraft(ctx, sessionID, clientID)
	if err != nil {
		return nil, err
	}

	if draft.Step != domain.StepConfirmation {
		s.logger.Warn("CompletedDraft: session=%s is at step=%s", sessionID, draft.Step)
		return nil, fmt.Errorf("%w: session is at step %q", ErrIncompleteDraft, draft.Step)
	}
	if draft.ServiceID == nil || draft.ScheduledDate == nil || !draft.HasHold() || draft.Contact == nil {
		return nil, ErrIncompleteDraft
	}

	held, err := s.holdStore.IsHeldBy(ctx, draft.ProfessionalID, *draft.ScheduledDate, draft.ScheduledTime, draft.HoldToken)
	if err != nil {
		s.logger.Error("CompletedDraft: hold check failed for session=%s: %v", sessionID, err)
		return nil, fmt.Errorf("%w: CompletedDraft - hold check: %v", ErrInternal, err)
	}
	if !held {
		s.logger.Warn("CompletedDraft: hold expired for session=%s, rolling back to schedule selection", sessionID)
		s.dropScheduleSelection(ctx, draft)
		return nil, fmt.Errorf("%w: slot hold expired", ErrSlotUnavailable)
	}

	return draft, nil
}

// Finalize завершает сессию после успешного подтверждения:
// удаляет черновик и снимает удержание слота
func (s *Service) Finalize(ctx context.Context, draft *domain.DraftBooking) {
	if err := s.sessionStore.Delete(ctx, draft.SessionID); err != nil {
		s.logger.Error("Finalize: failed to delete session=%s: %v", draft.SessionID, err)
	}

	if draft.HasHold() && draft.ScheduledDate != nil {
		hold := &domain.SlotHold{
			Token:          draft.HoldToken,
			ProfessionalID: draft.ProfessionalID,
			Date:           *draft.ScheduledDate,
			StartTime:      draft.ScheduledTime,
		}
		if err := s.holdStore.Release(ctx, hold); err != nil {
			s.logger.Error("Finalize: failed to release hold for session=%s: %v", draft.SessionID, err)
		}
	}
}

// Шаги мастера

func (s *Service) applyServiceSelection(draft *domain.DraftBooking, req *models.SubmitStepRequest) error {
	if req.ServiceID == nil || *req.ServiceID <= 0 {
		return models.NewValidationError("serviceId", "a service must be selected")
	}
	draft.ServiceID = req.ServiceID
	return nil
}

func (s *Service) applyProjectDetails(draft *domain.DraftBooking, req *models.SubmitStepRequest) error {
	fields := map[string]string{}

	if req.ProjectTitle == nil || len(*req.ProjectTitle) < domain.MinProjectTitleLength {
		fields["projectTitle"] = fmt.Sprintf("must be at least %d characters", domain.MinProjectTitleLength)
	} else if len(*req.ProjectTitle) > domain.MaxProjectTitleLength {
		fields["projectTitle"] = fmt.Sprintf("must be at most %d characters", domain.MaxProjectTitleLength)
	}

	if req.Description == nil || len(*req.Description) < domain.MinDescriptionLength {
		fields["description"] = fmt.Sprintf("must be at least %d characters", domain.MinDescriptionLength)
	} else if len(*req.Description) > domain.MaxDescriptionLength {
		fields["description"] = fmt.Sprintf("must be at most %d characters", domain.MaxDescriptionLength)
	}

	if req.Budget != nil && *req.Budget <= 0 {
		fields["budget"] = "must be positive"
	}

	if len(fields) > 0 {
		return &models.ValidationError{Fields: fields}
	}

	draft.ProjectTitle = *req.ProjectTitle
	draft.Description = *req.Description
	draft.Budget = req.Budget
	return nil
}

func (s *Service) applyScheduleSelection(ctx context.Context, draft *domain.DraftBooking, req *models.SubmitStepRequest) error {
	if req.ScheduledDate == nil || req.ScheduledTime == nil {
		return models.NewValidationError("scheduledDate", "date and time are required")
	}

	date, err := time.Parse(domain.DateFormat, *req.ScheduledDate)
	if err != nil {
		return models.NewValidationError("scheduledDate", "must be in YYYY-MM-DD format")
	}
	if date.Before(time.Now().UTC().Truncate(24 * time.Hour)) {
		return models.NewValidationError("scheduledDate", "must not be in the past")
	}

	startTime, err := types.NewTimeStringFromString(*req.ScheduledTime)
	if err != nil {
		return models.NewValidationError("scheduledTime", "must be in HH:MM format")
	}

	slot, err := s.availability.GetSlot(ctx, draft.ProfessionalID, date, startTime)
	if err != nil {
		if errors.Is(err, availabilityRepo.ErrSlotNotFound) {
			return fmt.Errorf("%w: slot does not exist", ErrSlotUnavailable)
		}
		s.logger.Error("SubmitStep: slot lookup failed for session=%s: %v", draft.SessionID, err)
		return fmt.Errorf("%w: SubmitStep - slot lookup: %v", ErrInternal, err)
	}
	if slot.State == domain.SlotBooked {
		return fmt.Errorf("%w: slot is already booked", ErrSlotUnavailable)
	}

	// Повторная отправка того же слота сохраняет действующее удержание
	if draft.HasHold() && draft.ScheduledDate != nil &&
		draft.ScheduledDate.Equal(date) && draft.ScheduledTime == startTime {
		held, err := s.holdStore.IsHeldBy(ctx, draft.ProfessionalID, date, startTime, draft.HoldToken)
		if err == nil && held {
			draft.SlotPrice = &slot.Price
			return nil
		}
	}

	// Смена слота снимает прежнее удержание до захвата нового
	s.dropHold(ctx, draft)

	hold, err := s.holdStore.Acquire(ctx, draft.ProfessionalID, date, startTime)
	if err != nil {
		if errors.Is(err, holds.ErrSlotHeld) {
			return fmt.Errorf("%w: slot is held by another reservation", ErrSlotUnavailable)
		}
		s.logger.Error("SubmitStep: hold acquire failed for session=%s: %v", draft.SessionID, err)
		return fmt.Errorf("%w: SubmitStep - acquire hold: %v", ErrInternal, err)
	}

	draft.ScheduledDate = &date
	draft.ScheduledTime = startTime
	draft.SlotPrice = &slot.Price
	draft.HoldToken = hold.Token
	draft.HoldExpiresAt = &hold.ExpiresAt
	return nil
}

func (s *Service) applyContactInfo(draft *domain.DraftBooking, req *models.SubmitStepRequest) error {
	if req.Contact == nil {
		return models.NewValidationError("contact", "contact details are required")
	}

	if err := s.validate.Struct(req.Contact); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			fields := make(map[string]string, len(verrs))
			for _, fe := range verrs {
				fields[contactFieldName(fe.Field())] = contactFieldMessage(fe)
			}
			return &models.ValidationError{Fields: fields}
		}
		return fmt.Errorf("%w: contact validation: %v", ErrInvalidInput, err)
	}

	draft.Contact = &domain.ContactInfo{
		Name:  req.Contact.Name,
		Email: req.Contact.Email,
		Phone: req.Contact.Phone,
	}
	return nil
}

// Вспомогательные методы

func (s *Service) getOwnedDraft(ctx context.Context, sessionID string, clientID int64) (*domain.DraftBooking, error) {
	if sessionID == "" {
		return nil, fmt.Errorf("%w: session id is required", ErrInvalidInput)
	}

	draft, err := s.sessionStore.Get(ctx, sessionID)
	if err != nil {
		if errors.Is(err, sessions.ErrSessionNotFound) {
			s.logger.Warn("session=%s not found or expired", sessionID)
			return nil, ErrSessionNotFound
		}
		s.logger.Error("failed to load session=%s: %v", sessionID, err)
		return nil, fmt.Errorf("%w: load session: %v", ErrInternal, err)
	}

	if draft.ClientID != clientID {
		s.logger.Warn("session=%s belongs to client_id=%d, requested by client_id=%d",
			sessionID, draft.ClientID, clientID)
		return nil, ErrAccessDenied
	}

	return draft, nil
}

// dropScheduleSelection очищает выбор расписания и откатывает курсор
// на шаг выбора расписания. Вызывается при истечении удержания.
func (s *Service) dropScheduleSelection(ctx context.Context, draft *domain.DraftBooking) {
	draft.HoldToken = ""
	draft.HoldExpiresAt = nil
	draft.ScheduledDate = nil
	draft.ScheduledTime = ""
	draft.SlotPrice = nil
	draft.Step = domain.StepScheduleSelection
	draft.UpdatedAt = time.Now().UTC()

	if err := s.sessionStore.Save(ctx, draft); err != nil {
		s.logger.Error("failed to save session=%s after hold expiry: %v", draft.SessionID, err)
	}
}

// dropHold снимает действующее удержание черновика, если оно есть
func (s *Service) dropHold(ctx context.Context, draft *domain.DraftBooking) {
	if !draft.HasHold() || draft.ScheduledDate == nil {
		return
	}

	hold := &domain.SlotHold{
		Token:          draft.HoldToken,
		ProfessionalID: draft.ProfessionalID,
		Date:           *draft.ScheduledDate,
		StartTime:      draft.ScheduledTime,
	}
	if err := s.holdStore.Release(ctx, hold); err != nil {
		s.logger.Error("failed to release previous hold for session=%s: %v", draft.SessionID, err)
	}

	draft.HoldToken = ""
	draft.HoldExpiresAt = nil
}

func contactFieldName(field string) string {
	switch field {
	case "Name":
		return "contact.name"
	case "Email":
		return "contact.email"
	case "Phone":
		return "contact.phone"
	default:
		return field
	}
}

func contactFieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "min":
		return fmt.Sprintf("must be at least %s characters", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	default:
		return "is invalid"
	}
}
