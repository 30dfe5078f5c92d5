package controllers

import (
	"context"
	"net/http"

	"github.com/SolutionSimple/obsicarte-backend/api/responses"
	"github.com/SolutionSimple/obsicarte-backend/api/validators"
	"github.com/SolutionSimple/obsicarte-backend/internal/checkout"
	pkgerrors "github.com/SolutionSimple/obsicarte-backend/pkg/errors"
	"github.com/SolutionSimple/obsicarte-backend/pkg/logger"
	"github.com/SolutionSimple/obsicarte-backend/pkg/types"
)

// CheckoutService prices an order and opens a payment intent for it.
type CheckoutService interface {
	CreateIntent(ctx context.Context, input checkout.Input) (*checkout.Result, error)
}

type CreateIntentBody struct {
	Tier            string                `json:"tier" validate:"required"`
	Quantity        int                   `json:"quantity" validate:"required,min=1,max=100"`
	CustomerEmail   string                `json:"customerEmail" validate:"required,email"`
	CustomerName    string                `json:"customerName" validate:"required,min=2,max=128"`
	CustomerPhone   string                `json:"customerPhone" validate:"omitempty,max=32"`
	ShippingAddress types.ShippingAddress `json:"shippingAddress" validate:"required"`
}

type createIntentResponse struct {
	PaymentIntentID string `json:"paymentIntentId"`
	ClientSecret    string `json:"clientSecret"`
	AmountCents     int64  `json:"amountCents"`
	Currency        string `json:"currency"`
}

func CreatePaymentIntent(svc CheckoutService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout service unavailable"))
			return
		}

		var body CreateIntentBody
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		result, err := svc.CreateIntent(ctx, checkout.Input{
			Tier:          body.Tier,
			Quantity:      body.Quantity,
			CustomerEmail: body.CustomerEmail,
			CustomerName:  validators.SanitizeString(body.CustomerName, 128),
			CustomerPhone: validators.SanitizeString(body.CustomerPhone, 32),
			Shipping:      body.ShippingAddress,
		})
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, createIntentResponse{
			PaymentIntentID: result.PaymentIntentID,
			ClientSecret:    result.ClientSecret,
			AmountCents:     result.AmountCents,
			Currency:        result.Currency,
		})
	}
}
