package models

import (
	"errors"
	"time"

	"github.com/proserv/PS-BookingService/internal/domain"
)

var (
	// ErrInvalidStatus возвращается при некорректном статусе
	ErrInvalidStatus = errors.New("invalid booking status")

	// ErrInvalidRole возвращается при некорректной роли актора
	ErrInvalidRole = errors.New("invalid actor role")
)

// Request модели

// TransitionRequest запрос на переход статуса бронирования
type TransitionRequest struct {
	ActorID            int64   `json:"actorId"`
	ActorRole          string  `json:"actorRole"`
	TargetStatus       string  `json:"targetStatus"`
	Message            *string `json:"message,omitempty"`
	CancellationReason *string `json:"cancellationReason,omitempty"`
}

// GetClientBookingsRequest запрос на получение бронирований клиента
type GetClientBookingsRequest struct {
	ClientID int64   `json:"clientId"`
	Status   *string `json:"status,omitempty"`
}

// GetProfessionalBookingsRequest запрос на получение бронирований профессионала
type GetProfessionalBookingsRequest struct {
	ProfessionalID   int64      `json:"professionalId"`
	StartDate        *time.Time `json:"startDate,omitempty"`
	EndDate          *time.Time `json:"endDate,omitempty"`
	Status           *string    `json:"status,omitempty"`
	IncludeCancelled bool       `json:"includeCancelled,omitempty"`
}

// ToDomainFilter конвертирует request в domain фильтр
func (r *GetProfessionalBookingsRequest) ToDomainFilter() (domain.BookingsFilter, error) {
	filter := domain.BookingsFilter{
		ProfessionalID:   r.ProfessionalID,
		StartDate:        r.StartDate,
		EndDate:          r.EndDate,
		IncludeCancelled: r.IncludeCancelled,
	}

	if r.Status != nil {
		status, err := ToDomainBookingStatus(*r.Status)
		if err != nil {
			return filter, err
		}
		filter.Status = &status
	}

	return filter, nil
}

// Response модели

// BookingResponse ответ с данными бронирования
type BookingResponse struct {
	ID             int64   `json:"id"`
	ProfessionalID int64   `json:"professionalId"`
	ClientID       int64   `json:"clientId"`
	ServiceID      int64   `json:"serviceId"`
	Price          float64 `json:"price"`
	ScheduledDate  string  `json:"scheduledDate"` // "2025-10-15"
	ScheduledTime  string  `json:"scheduledTime"` // "10:00"
	Status         string  `json:"status"`
	PaymentStatus  string  `json:"paymentStatus"`

	ProjectTitle string   `json:"projectTitle"`
	Description  string   `json:"description"`
	Budget       *float64 `json:"budget,omitempty"`

	ContactName  string `json:"contactName"`
	ContactEmail string `json:"contactEmail"`
	ContactPhone string `json:"contactPhone"`

	CancellationReason *string `json:"cancellationReason,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// BookingListResponse ответ со списком бронирований
type BookingListResponse struct {
	Bookings []BookingResponse `json:"bookings"`
}

// HistoryEntryResponse одна запись истории статусов
type HistoryEntryResponse struct {
	Status             string    `json:"status"`
	ActorID            int64     `json:"actorId"`
	ActorRole          string    `json:"actorRole"`
	Message            *string   `json:"message,omitempty"`
	CancellationReason *string   `json:"cancellationReason,omitempty"`
	Timestamp          time.Time `json:"timestamp"`
}

// HistoryResponse ответ с историей статусов бронирования
type HistoryResponse struct {
	BookingID int64                  `json:"bookingId"`
	History   []HistoryEntryResponse `json:"history"`
}

// Методы конвертации

// FromDomainBooking конвертирует domain модель в DTO
func FromDomainBooking(b *domain.Booking) *BookingResponse {
	if b == nil {
		return nil
	}

	return &BookingResponse{
		ID:                 b.ID,
		ProfessionalID:     b.ProfessionalID,
		ClientID:           b.ClientID,
		ServiceID:          b.ServiceID,
		Price:              b.Price,
		ScheduledDate:      b.ScheduledDate.Format(domain.DateFormat),
		ScheduledTime:      b.ScheduledTime.String(),
		Status:             string(b.Status),
		PaymentStatus:      string(b.PaymentStatus),
		ProjectTitle:       b.ProjectTitle,
		Description:        b.Description,
		Budget:             b.Budget,
		ContactName:        b.ContactName,
		ContactEmail:       b.ContactEmail,
		ContactPhone:       b.ContactPhone,
		CancellationReason: b.CancellationReason,
		CreatedAt:          b.CreatedAt,
		UpdatedAt:          b.UpdatedAt,
	}
}

// FromDomainBookingList конвертирует список domain моделей в DTO
func FromDomainBookingList(bookings []*domain.Booking) *BookingListResponse {
	resp := &BookingListResponse{
		Bookings: make([]BookingResponse, 0, len(bookings)),
	}

	for _, booking := range bookings {
		if bookingResp := FromDomainBooking(booking); bookingResp != nil {
			resp.Bookings = append(resp.Bookings, *bookingResp)
		}
	}

	return resp
}

// FromDomainHistory конвертирует историю статусов в DTO
func FromDomainHistory(bookingID int64, entries []*domain.HistoryEntry) *HistoryResponse {
	resp := &HistoryResponse{
		BookingID: bookingID,
		History:   make([]HistoryEntryResponse, 0, len(entries)),
	}

	for _, entry := range entries {
		resp.History = append(resp.History, HistoryEntryResponse{
			Status:             string(entry.Status),
			ActorID:            entry.ActorID,
			ActorRole:          string(entry.ActorRole),
			Message:            entry.Message,
			CancellationReason: entry.CancellationReason,
			Timestamp:          entry.CreatedAt,
		})
	}

	return resp
}

// ToDomainBookingStatus конвертирует строку в domain.BookingStatus с валидацией
func ToDomainBookingStatus(status string) (domain.BookingStatus, error) {
	s := domain.BookingStatus(status)
	if !s.IsValid() {
		return "", ErrInvalidStatus
	}
	return s, nil
}

// ToDomainActorRole конвертирует строку в domain.ActorRole с валидацией
func ToDomainActorRole(role string) (domain.ActorRole, error) {
	r := domain.ActorRole(role)
	if !r.IsValid() {
		return "", ErrInvalidRole
	}
	return r, nil
}
