package controllers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/SolutionSimple/obsicarte-backend/api/responses"
	"github.com/SolutionSimple/obsicarte-backend/api/validators"
	"github.com/SolutionSimple/obsicarte-backend/internal/profiles"
	"github.com/SolutionSimple/obsicarte-backend/pkg/db/models"
	pkgerrors "github.com/SolutionSimple/obsicarte-backend/pkg/errors"
	"github.com/SolutionSimple/obsicarte-backend/pkg/logger"
)

// ProfileService serves public profile pages and entitlement lookups.
type ProfileService interface {
	GetPublic(ctx context.Context, username string) (*profiles.PublicProfile, error)
	QRCode(ctx context.Context, username string) ([]byte, error)
	AddCustomField(ctx context.Context, input profiles.AddFieldInput) (*models.CustomField, error)
	Entitlements(ctx context.Context, userID uuid.UUID) (*profiles.EntitlementSummary, error)
}

func PublicProfile(svc ProfileService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "profile service unavailable"))
			return
		}

		profile, err := svc.GetPublic(ctx, chi.URLParam(r, "username"))
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, profile)
	}
}

func PublicProfileQR(svc ProfileService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "profile service unavailable"))
			return
		}

		png, err := svc.QRCode(ctx, chi.URLParam(r, "username"))
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		w.Header().Set("Content-Type", "image/png")
		w.Header().Set("Cache-Control", "public, max-age=3600")
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write(png); err != nil && logg != nil {
			logg.Error(ctx, "write qr response", err)
		}
	}
}

type AddCustomFieldBody struct {
	Type     string `json:"type" validate:"required"`
	Label    string `json:"label" validate:"required,min=1,max=64"`
	Value    string `json:"value" validate:"required,max=2048"`
	IsPublic bool   `json:"isPublic"`
	Position int    `json:"position" validate:"min=0"`
}

func AddCustomField(svc ProfileService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "profile service unavailable"))
			return
		}

		profileID, err := uuid.Parse(chi.URLParam(r, "profileID"))
		if err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeValidation, "invalid profile id"))
			return
		}

		var body AddCustomFieldBody
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		field, err := svc.AddCustomField(ctx, profiles.AddFieldInput{
			ProfileID: profileID,
			Type:      body.Type,
			Label:     validators.SanitizeString(body.Label, 64),
			Value:     validators.SanitizeString(body.Value, 2048),
			IsPublic:  body.IsPublic,
			Position:  body.Position,
		})
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, field)
	}
}

func UserEntitlements(svc ProfileService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "profile service unavailable"))
			return
		}

		userID, err := uuid.Parse(chi.URLParam(r, "userID"))
		if err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeValidation, "invalid user id"))
			return
		}

		summary, err := svc.Entitlements(ctx, userID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, summary)
	}
}
