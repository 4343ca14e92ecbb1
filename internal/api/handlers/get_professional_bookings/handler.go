package get_professional_bookings

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/proserv/PS-BookingService/internal/api/handlers"
	"github.com/proserv/PS-BookingService/internal/api/middleware"
	"github.com/proserv/PS-BookingService/internal/domain"
	"github.com/proserv/PS-BookingService/internal/service/lifecycle"
	"github.com/proserv/PS-BookingService/internal/service/lifecycle/models"
)

const (
	msgInvalidProfessionalID = "некорректный ID профессионала"
	msgInvalidDateParams     = "некорректные параметры from/to, ожидается YYYY-MM-DD"
	msgInvalidFilter         = "некорректные параметры фильтра"
	msgForbidden             = "доступ запрещен"
	msgMissingUserID         = "отсутствует ID пользователя"
)

type Handler struct {
	service LifecycleService
	logger  Logger
}

func NewHandler(service LifecycleService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/professionals/{professionalId}/bookings?from=&to=&status=&includeCancelled=
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	professionalID, err := strconv.ParseInt(vars["professionalId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /professionals/{id}/bookings - Invalid professional ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidProfessionalID)
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("GET /professionals/{id}/bookings - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	// Профессионал видит только свое расписание бронирований
	role, _ := middleware.GetUserRole(r.Context())
	if role != domain.RoleProfessional || userID != professionalID {
		h.logger.Warn("GET /professionals/{id}/bookings - Access denied: professional_id=%d, user_id=%d, role=%s",
			professionalID, userID, role)
		handlers.RespondForbidden(w, msgForbidden)
		return
	}

	req := &models.GetProfessionalBookingsRequest{ProfessionalID: professionalID}

	query := r.URL.Query()
	if from := query.Get("from"); from != "" {
		date, err := time.Parse(domain.DateFormat, from)
		if err != nil {
			h.logger.Warn("GET /professionals/{id}/bookings - Invalid from date: %v", err)
			handlers.RespondBadRequest(w, msgInvalidDateParams)
			return
		}
		req.StartDate = &date
	}
	if to := query.Get("to"); to != "" {
		date, err := time.Parse(domain.DateFormat, to)
		if err != nil {
			h.logger.Warn("GET /professionals/{id}/bookings - Invalid to date: %v", err)
			handlers.RespondBadRequest(w, msgInvalidDateParams)
			return
		}
		req.EndDate = &date
	}
	if status := query.Get("status"); status != "" {
		req.Status = &status
	}
	req.IncludeCancelled = query.Get("includeCancelled") == "true"

	result, err := h.service.GetProfessionalBookings(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, lifecycle.ErrInvalidInput):
			h.logger.Warn("GET /professionals/{id}/bookings - Invalid filter: professional_id=%d, error=%v",
				professionalID, err)
			handlers.RespondBadRequest(w, msgInvalidFilter)

		default:
			h.logger.Error("GET /professionals/{id}/bookings - Failed: professional_id=%d, error=%v",
				professionalID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /professionals/{id}/bookings - Returned %d bookings: professional_id=%d",
		len(result.Bookings), professionalID)
	handlers.RespondJSON(w, http.StatusOK, result)
}
