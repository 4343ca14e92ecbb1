package get_available_slots

import (
	"time"

	"github.com/proserv/PS-BookingService/pkg/types"
)

// Request модель запроса на получение слотов расписания
type Request struct {
	UserID         int64     // ID пользователя (для логирования, не влияет на результат)
	ProfessionalID int64     // ID профессионала
	From           time.Time // Начало диапазона дат (включительно)
	To             time.Time // Конец диапазона дат (включительно)
}

// Response модель ответа со списком слотов
type Response struct {
	ProfessionalID int64  // ID профессионала
	From           string // Начало диапазона в формате YYYY-MM-DD
	To             string // Конец диапазона в формате YYYY-MM-DD
	Slots          []Slot // Слоты в диапазоне, упорядоченные по дате и времени
}

// Slot модель слота расписания
type Slot struct {
	Date      string           // Дата слота в формате YYYY-MM-DD
	StartTime types.TimeString // Время начала слота (например, "10:00")
	Price     float64          // Стоимость слота
	State     string           // Состояние: open, held или booked
}
