package get_available_slots

import (
	"fmt"
	"time"
)

// maxRangeDays максимальная ширина запрашиваемого диапазона дат
const maxRangeDays = 31

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request, now time.Time) error {
	if req.ProfessionalID <= 0 {
		return fmt.Errorf("%w: professionalID must be positive", ErrInvalidInput)
	}

	if req.From.IsZero() || req.To.IsZero() {
		return fmt.Errorf("%w: from and to dates are required", ErrInvalidInput)
	}

	if req.To.Before(req.From) {
		return fmt.Errorf("%w: to must not be before from", ErrInvalidDateRange)
	}

	if req.To.Sub(req.From) > maxRangeDays*24*time.Hour {
		return fmt.Errorf("%w: at most %d days per request", ErrDateRangeTooWide, maxRangeDays)
	}

	// Диапазон целиком в прошлом не имеет смысла
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	if req.To.Before(today) {
		return fmt.Errorf("%w: range is entirely in the past", ErrInvalidDateRange)
	}

	return nil
}
