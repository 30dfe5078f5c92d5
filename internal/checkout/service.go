// Package checkout creates Stripe payment intents for card orders. Orders are
// not persisted here; the payment webhook creates them once payment succeeds.
package checkout

import (
	"context"
	"strings"

	"github.com/stripe/stripe-go/v84"

	"github.com/SolutionSimple/obsicarte-backend/internal/tiers"
	"github.com/SolutionSimple/obsicarte-backend/pkg/enums"
	pkgerrors "github.com/SolutionSimple/obsicarte-backend/pkg/errors"
	"github.com/SolutionSimple/obsicarte-backend/pkg/types"
)

const (
	currency    = "eur"
	maxQuantity = 100
)

// PaymentIntentClient is the slice of the Stripe client this service needs.
type PaymentIntentClient interface {
	CreatePaymentIntent(ctx context.Context, params *stripe.PaymentIntentCreateParams) (*stripe.PaymentIntent, error)
}

// Input is a card order checkout request.
type Input struct {
	Tier          string
	Quantity      int
	CustomerEmail string
	CustomerName  string
	CustomerPhone string
	Shipping      types.ShippingAddress
}

// Result carries what the storefront needs to confirm the payment client-side.
type Result struct {
	PaymentIntentID string
	ClientSecret    string
	AmountCents     int64
	Currency        string
}

// Service builds payment intents for card orders.
type Service struct {
	payments PaymentIntentClient
}

// NewService constructs a checkout service.
func NewService(payments PaymentIntentClient) (*Service, error) {
	if payments == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "payment client required")
	}
	return &Service{payments: payments}, nil
}

// CreateIntent validates the order, prices it server-side and creates the
// payment intent. The full order payload travels in intent metadata so
// fulfillment never trusts client-supplied amounts.
func (s *Service) CreateIntent(ctx context.Context, input Input) (*Result, error) {
	details, err := s.validate(input)
	if err != nil {
		return nil, err
	}

	amount := tiers.ConfigFor(details.Tier).PriceCents * int64(details.Quantity)

	params := &stripe.PaymentIntentCreateParams{
		Amount:       stripe.Int64(amount),
		Currency:     stripe.String(currency),
		ReceiptEmail: stripe.String(details.CustomerEmail),
		Metadata:     buildMetadata(details),
		AutomaticPaymentMethods: &stripe.PaymentIntentCreateAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
	}

	intent, err := s.payments.CreatePaymentIntent(ctx, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create payment intent")
	}

	return &Result{
		PaymentIntentID: intent.ID,
		ClientSecret:    intent.ClientSecret,
		AmountCents:     amount,
		Currency:        currency,
	}, nil
}

func (s *Service) validate(input Input) (OrderDetails, error) {
	tier, err := enums.ParseTier(strings.TrimSpace(strings.ToLower(input.Tier)))
	if err != nil {
		return OrderDetails{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "tier")
	}
	if input.Quantity < 1 || input.Quantity > maxQuantity {
		return OrderDetails{}, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be between 1 and 100")
	}

	email := strings.ToLower(strings.TrimSpace(input.CustomerEmail))
	if email == "" || !strings.Contains(email, "@") {
		return OrderDetails{}, pkgerrors.New(pkgerrors.CodeValidation, "a valid customer email is required")
	}
	name := strings.TrimSpace(input.CustomerName)
	if name == "" {
		return OrderDetails{}, pkgerrors.New(pkgerrors.CodeValidation, "customer name is required")
	}

	shipping := input.Shipping.Normalize()
	if shipping.Line1 == "" || shipping.City == "" || shipping.PostalCode == "" {
		return OrderDetails{}, pkgerrors.New(pkgerrors.CodeValidation, "shipping address is incomplete")
	}
	if len(shipping.Country) != 2 {
		return OrderDetails{}, pkgerrors.New(pkgerrors.CodeValidation, "shipping country must be a 2-letter code")
	}

	return OrderDetails{
		Tier:          tier,
		Quantity:      input.Quantity,
		CustomerEmail: email,
		CustomerName:  name,
		CustomerPhone: strings.TrimSpace(input.CustomerPhone),
		Shipping:      shipping,
	}, nil
}
