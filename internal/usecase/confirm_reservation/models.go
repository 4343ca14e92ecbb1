package confirm_reservation

import (
	"time"

	"github.com/proserv/PS-BookingService/internal/domain"
)

// Request модель запроса на подтверждение резервирования
type Request struct {
	SessionID string // ID сессии резервирования
	ClientID  int64  // ID клиента, владельца сессии
}

// Response модель созданного бронирования
type Response struct {
	ID             int64     `json:"id"`
	ProfessionalID int64     `json:"professionalId"`
	ClientID       int64     `json:"clientId"`
	ServiceID      int64     `json:"serviceId"`
	Price          float64   `json:"price"`
	ScheduledDate  string    `json:"scheduledDate"`
	ScheduledTime  string    `json:"scheduledTime"`
	Status         string    `json:"status"`
	PaymentStatus  string    `json:"paymentStatus"`
	ProjectTitle   string    `json:"projectTitle"`
	Description    string    `json:"description"`
	Budget         *float64  `json:"budget,omitempty"`
	ContactName    string    `json:"contactName"`
	ContactEmail   string    `json:"contactEmail"`
	ContactPhone   string    `json:"contactPhone"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

func toResponse(booking *domain.Booking) *Response {
	return &Response{
		ID:             booking.ID,
		ProfessionalID: booking.ProfessionalID,
		ClientID:       booking.ClientID,
		ServiceID:      booking.ServiceID,
		Price:          booking.Price,
		ScheduledDate:  booking.ScheduledDate.Format(domain.DateFormat),
		ScheduledTime:  booking.ScheduledTime.String(),
		Status:         string(booking.Status),
		PaymentStatus:  string(booking.PaymentStatus),
		ProjectTitle:   booking.ProjectTitle,
		Description:    booking.Description,
		Budget:         booking.Budget,
		ContactName:    booking.ContactName,
		ContactEmail:   booking.ContactEmail,
		ContactPhone:   booking.ContactPhone,
		CreatedAt:      booking.CreatedAt,
		UpdatedAt:      booking.UpdatedAt,
	}
}
