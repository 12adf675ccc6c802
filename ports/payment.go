package ports

import (
	"context"

	"autostat/domain/core"
)

// CheckoutRequest describes a one-item payment
type CheckoutRequest struct {
	ProductName        string
	Currency           string
	UnitAmount         int64
	PaymentMethodTypes []string
	SuccessURL         string
	CancelURL          string
}

// CheckoutSession is the provider's answer to a checkout request
type CheckoutSession struct {
	ID  core.SessionID `json:"id"`
	URL string         `json:"url"`
}

// PaymentGateway creates checkouts and reports whether they were paid
type PaymentGateway interface {
	CreateCheckout(ctx context.Context, req CheckoutRequest) (*CheckoutSession, error)
	IsPaid(ctx context.Context, id core.SessionID) (bool, error)
}
