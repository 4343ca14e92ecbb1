package paymentservice

// captureRequest запрос на списание средств
type captureRequest struct {
	BookingID int64   `json:"bookingId"`
	Amount    float64 `json:"amount"`
}

// refundRequest запрос на возврат средств
type refundRequest struct {
	BookingID int64   `json:"bookingId"`
	Amount    float64 `json:"amount"`
}

// paymentResponse ответ платежного сервиса
type paymentResponse struct {
	Status    string `json:"status"` // "captured" | "refunded" | "failed"
	PaymentID string `json:"paymentId,omitempty"`
	Reason    string `json:"reason,omitempty"`
}

// Статусы ответа платежного сервиса
const (
	statusCaptured = "captured"
	statusRefunded = "refunded"
)
