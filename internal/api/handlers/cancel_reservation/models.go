package cancel_reservation

// CancelReservationRequest HTTP модель запроса на отмену записи
type CancelReservationRequest struct {
	CancellationReason string `json:"cancellationReason"`
}
