// Package payment adapts Stripe Checkout to the PaymentGateway port.
package payment

import (
	"context"
	"fmt"

	"autostat/domain/core"
	"autostat/internal/errors"
	"autostat/ports"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/checkout/session"
)

// checkoutBackend is the slice of the Stripe API the gateway needs
type checkoutBackend interface {
	New(params *stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error)
	Get(id string, params *stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error)
}

// StripeGateway creates one-item checkout sessions and checks their status
type StripeGateway struct {
	backend checkoutBackend
}

// NewStripeGateway creates a gateway authenticated with apiKey
func NewStripeGateway(apiKey string) *StripeGateway {
	return &StripeGateway{
		backend: &session.Client{B: stripe.GetBackend(stripe.APIBackend), Key: apiKey},
	}
}

// CreateCheckout opens a payment-mode checkout for a single line item
func (g *StripeGateway) CreateCheckout(ctx context.Context, req ports.CheckoutRequest) (*ports.CheckoutSession, error) {
	params := &stripe.CheckoutSessionParams{
		PaymentMethodTypes: stripe.StringSlice(req.PaymentMethodTypes),
		LineItems: []*stripe.CheckoutSessionLineItemParams{{
			PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
				Currency: stripe.String(req.Currency),
				ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
					Name: stripe.String(req.ProductName),
				},
				UnitAmount: stripe.Int64(req.UnitAmount),
			},
			Quantity: stripe.Int64(1),
		}},
		Mode:       stripe.String(string(stripe.CheckoutSessionModePayment)),
		SuccessURL: stripe.String(req.SuccessURL),
		CancelURL:  stripe.String(req.CancelURL),
	}
	params.Context = ctx

	s, err := g.backend.New(params)
	if err != nil {
		return nil, errors.ExternalServiceError("stripe", err)
	}
	return &ports.CheckoutSession{ID: core.SessionID(s.ID), URL: s.URL}, nil
}

// IsPaid reports whether the checkout's payment completed. An unknown session
// is reported as payment required.
func (g *StripeGateway) IsPaid(ctx context.Context, id core.SessionID) (bool, error) {
	params := &stripe.CheckoutSessionParams{}
	params.Context = ctx

	s, err := g.backend.Get(id.String(), params)
	if err != nil {
		return false, errors.PaymentRequired(fmt.Sprintf("invalid payment session: %v", err), core.ErrPaymentRequired)
	}
	return s.PaymentStatus == stripe.CheckoutSessionPaymentStatusPaid, nil
}
