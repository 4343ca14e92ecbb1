package models

// ReplaceDayRequest запрос на замену слотов профессионала на одну дату
type ReplaceDayRequest struct {
	ProfessionalID int64
	ActorID        int64
	Date           string // YYYY-MM-DD
	Slots          []SlotInput
}

// SlotInput один слот нового расписания
type SlotInput struct {
	StartTime string  // HH:MM
	Price     float64
}

// ReplaceDayResponse результат замены расписания
type ReplaceDayResponse struct {
	ProfessionalID int64  `json:"professionalId"`
	Date           string `json:"date"`
	SlotsCount     int    `json:"slotsCount"`
}
