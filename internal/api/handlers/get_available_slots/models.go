package get_available_slots

import (
	getSlots "github.com/proserv/PS-BookingService/internal/usecase/get_available_slots"
)

// SlotsResponse HTTP response model
type SlotsResponse struct {
	ProfessionalID int64          `json:"professionalId"`
	From           string         `json:"from"`
	To             string         `json:"to"`
	Slots          []SlotResponse `json:"slots"`
}

// SlotResponse HTTP модель слота расписания
type SlotResponse struct {
	Date      string  `json:"date"`
	StartTime string  `json:"startTime"`
	Price     float64 `json:"price"`
	State     string  `json:"state"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getSlots.Response) *SlotsResponse {
	slots := make([]SlotResponse, 0, len(resp.Slots))
	for _, s := range resp.Slots {
		slots = append(slots, SlotResponse{
			Date:      s.Date,
			StartTime: s.StartTime.String(),
			Price:     s.Price,
			State:     s.State,
		})
	}

	return &SlotsResponse{
		ProfessionalID: resp.ProfessionalID,
		From:           resp.From,
		To:             resp.To,
		Slots:          slots,
	}
}
