package main

import (
	"context"
)

// PaymentService is the checkout/balance contract behind the HTTP layer.
type PaymentService interface {
	CreateCheckoutSession(ctx context.Context, req ProductRequest) (*StripeResponse, error)
	GetBalance(ctx context.Context) (*BalanceDTO, error)
}

// ProductRequest is the body of POST /product/v1/checkout.
// Amount is in major currency units; Currency defaults to USD.
type ProductRequest struct {
	Amount   int64  `json:"amount"`
	Currency string `json:"currency,omitempty"`
}

// StripeResponse is returned by the checkout endpoint and by every error
// path of the JSON endpoints.
type StripeResponse struct {
	Status     string `json:"status"`
	Message    string `json:"message"`
	SessionID  string `json:"sessionId,omitempty"`
	SessionURL string `json:"sessionUrl,omitempty"`
}

// BalanceDTO is a snapshot of the first available balance entry.
// AvailableAmount is in minor units.
type BalanceDTO struct {
	Currency        string `json:"currency"`
	AvailableAmount int64  `json:"availableAmount"`
	LiveMode        bool   `json:"liveMode"`
}
