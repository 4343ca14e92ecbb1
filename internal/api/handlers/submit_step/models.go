package submit_step

import (
	"github.com/proserv/PS-BookingService/internal/service/reservation/models"
)

// SubmitStepRequest HTTP request model
// Заполняются только поля текущего шага мастера
type SubmitStepRequest struct {
	Step string `json:"step"`

	// service-selection
	ServiceID *int64 `json:"serviceId,omitempty"`

	// project-details
	ProjectTitle *string  `json:"projectTitle,omitempty"`
	Description  *string  `json:"description,omitempty"`
	Budget       *float64 `json:"budget,omitempty"`

	// schedule-selection
	ScheduledDate *string `json:"scheduledDate,omitempty"` // "2025-10-15"
	ScheduledTime *string `json:"scheduledTime,omitempty"` // "10:00"

	// contact-info
	Contact *ContactRequest `json:"contact,omitempty"`
}

// ContactRequest контактные данные клиента
type ContactRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// ToServiceRequest конвертирует HTTP запрос в модель сервиса
func (r *SubmitStepRequest) ToServiceRequest(sessionID string, clientID int64) *models.SubmitStepRequest {
	req := &models.SubmitStepRequest{
		SessionID:     sessionID,
		ClientID:      clientID,
		Step:          r.Step,
		ServiceID:     r.ServiceID,
		ProjectTitle:  r.ProjectTitle,
		Description:   r.Description,
		Budget:        r.Budget,
		ScheduledDate: r.ScheduledDate,
		ScheduledTime: r.ScheduledTime,
	}

	if r.Contact != nil {
		req.Contact = &models.ContactPayload{
			Name:  r.Contact.Name,
			Email: r.Contact.Email,
			Phone: r.Contact.Phone,
		}
	}

	return req
}
