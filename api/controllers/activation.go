package controllers

import (
	"context"
	"net/http"

	"github.com/SolutionSimple/obsicarte-backend/api/responses"
	"github.com/SolutionSimple/obsicarte-backend/api/validators"
	"github.com/SolutionSimple/obsicarte-backend/internal/activation"
	pkgerrors "github.com/SolutionSimple/obsicarte-backend/pkg/errors"
	"github.com/SolutionSimple/obsicarte-backend/pkg/logger"
)

// ActivationService redeems activation codes.
type ActivationService interface {
	Activate(ctx context.Context, input activation.Input) (*activation.Result, error)
}

type ActivateCardBody struct {
	ActivationCode string `json:"activationCode" validate:"required,min=9,max=16"`
	Email          string `json:"email" validate:"required,email"`
}

type activateCardResponse struct {
	Message       string `json:"message"`
	ProfileID     string `json:"profileId"`
	ShouldOnboard bool   `json:"shouldOnboard"`
}

func ActivateCard(svc ActivationService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "activation service unavailable"))
			return
		}

		var body ActivateCardBody
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		result, err := svc.Activate(ctx, activation.Input{
			ActivationCode: body.ActivationCode,
			Email:          body.Email,
		})
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		if logg != nil {
			logg.Info(logg.WithProfileID(ctx, result.ProfileID.String()), "card activated")
		}
		responses.WriteSuccess(w, activateCardResponse{
			Message:       "card activated",
			ProfileID:     result.ProfileID.String(),
			ShouldOnboard: result.ShouldOnboard,
		})
	}
}
