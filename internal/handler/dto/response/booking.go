package response

import (
	"psyconnect/internal/usecase/commands"
	"psyconnect/internal/usecase/queries"
)

type ReserveResponse struct {
	Reservation *queries.ReservationView `json:"reservation"`
	Replayed    bool                     `json:"replayed"`
}

func FromReserveResult(r *commands.ReserveResult) ReserveResponse {
	return ReserveResponse{
		Reservation: r.Reservation,
		Replayed:    r.IsReplayed,
	}
}

type CheckoutResponse struct {
	SessionID   string `json:"session_id"`
	CheckoutURL string `json:"checkout_url"`
}

func FromCheckoutResult(r *commands.CheckoutResult) CheckoutResponse {
	return CheckoutResponse{
		SessionID:   r.SessionID,
		CheckoutURL: r.CheckoutURL,
	}
}
