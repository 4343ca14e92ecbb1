package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/proserv/PS-BookingService/internal/domain"
)

// StartRequest запрос на открытие сессии резервирования
type StartRequest struct {
	ClientID       int64
	ProfessionalID int64
}

// SubmitStepRequest запрос на отправку данных текущего шага мастера.
// Поля заполняются в зависимости от шага; валидация выполняется
// пошаговыми payload-структурами сервиса.
type SubmitStepRequest struct {
	SessionID string
	ClientID  int64
	Step      string

	// service-selection
	ServiceID *int64

	// project-details
	ProjectTitle *string
	Description  *string
	Budget       *float64

	// schedule-selection
	ScheduledDate *string
	ScheduledTime *string

	// contact-info
	Contact *ContactPayload
}

// ContactPayload контактные данные клиента
type ContactPayload struct {
	Name  string `validate:"required,min=2,max=100"`
	Email string `validate:"required,email"`
	Phone string `validate:"required,min=5,max=20"`
}

// SessionResponse DTO сессии резервирования для ответа API
type SessionResponse struct {
	SessionID      string           `json:"sessionId"`
	ClientID       int64            `json:"clientId"`
	ProfessionalID int64            `json:"professionalId"`
	Step           string           `json:"step"`
	Steps          []string         `json:"steps"`
	ServiceID      *int64           `json:"serviceId,omitempty"`
	ProjectTitle   string           `json:"projectTitle,omitempty"`
	Description    string           `json:"description,omitempty"`
	Budget         *float64         `json:"budget,omitempty"`
	ScheduledDate  *string          `json:"scheduledDate,omitempty"`
	ScheduledTime  string           `json:"scheduledTime,omitempty"`
	SlotPrice      *float64         `json:"slotPrice,omitempty"`
	HoldExpiresAt  *time.Time       `json:"holdExpiresAt,omitempty"`
	Contact        *ContactResponse `json:"contact,omitempty"`
	CreatedAt      time.Time        `json:"createdAt"`
	UpdatedAt      time.Time        `json:"updatedAt"`
}

// ContactResponse контактные данные в ответе API
type ContactResponse struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// ValidationError ошибка валидации шага с сообщениями по полям
type ValidationError struct {
	Fields map[string]string
}

// Error реализует интерфейс error
func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for field, msg := range e.Fields {
		parts = append(parts, fmt.Sprintf("%s: %s", field, msg))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// NewValidationError создает ошибку валидации для одного поля
func NewValidationError(field, msg string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: msg}}
}

// FromDomainDraft конвертирует доменный черновик в DTO
func FromDomainDraft(draft *domain.DraftBooking) *SessionResponse {
	steps := make([]string, 0, len(domain.WorkflowSteps))
	for _, step := range domain.WorkflowSteps {
		steps = append(steps, string(step))
	}

	resp := &SessionResponse{
		SessionID:      draft.SessionID,
		ClientID:       draft.ClientID,
		ProfessionalID: draft.ProfessionalID,
		Step:           string(draft.Step),
		Steps:          steps,
		ServiceID:      draft.ServiceID,
		ProjectTitle:   draft.ProjectTitle,
		Description:    draft.Description,
		Budget:         draft.Budget,
		SlotPrice:      draft.SlotPrice,
		HoldExpiresAt:  draft.HoldExpiresAt,
		CreatedAt:      draft.CreatedAt,
		UpdatedAt:      draft.UpdatedAt,
	}

	if draft.ScheduledDate != nil {
		date := draft.ScheduledDate.Format(domain.DateFormat)
		resp.ScheduledDate = &date
	}
	if !draft.ScheduledTime.IsZero() {
		resp.ScheduledTime = draft.ScheduledTime.String()
	}
	if draft.Contact != nil {
		resp.Contact = &ContactResponse{
			Name:  draft.Contact.Name,
			Email: draft.Contact.Email,
			Phone: draft.Contact.Phone,
		}
	}

	return resp
}
