// Package activation redeems activation codes: it binds a physical card to a
// user account and a public profile, creating both when they do not exist.
package activation

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/SolutionSimple/obsicarte-backend/internal/cards"
	"github.com/SolutionSimple/obsicarte-backend/pkg/config"
	"github.com/SolutionSimple/obsicarte-backend/pkg/db"
	"github.com/SolutionSimple/obsicarte-backend/pkg/db/models"
	"github.com/SolutionSimple/obsicarte-backend/pkg/enums"
	pkgerrors "github.com/SolutionSimple/obsicarte-backend/pkg/errors"
	"github.com/SolutionSimple/obsicarte-backend/pkg/metrics"
	"github.com/SolutionSimple/obsicarte-backend/pkg/security"
)

const tempPasswordLength = 32

// Input carries the normalized-on-entry activation request.
type Input struct {
	ActivationCode string
	Email          string
}

// Result reports the outcome of a successful redemption.
type Result struct {
	ProfileID     uuid.UUID
	ShouldOnboard bool
}

// ServiceParams groups dependencies for the activation service.
type ServiceParams struct {
	TxRunner TxRunner
	Password config.PasswordConfig
	Metrics  *metrics.WorkflowMetrics
	Now      func() time.Time
}

// Service runs the card activation workflow.
type Service struct {
	txRunner TxRunner
	password config.PasswordConfig
	metrics  *metrics.WorkflowMetrics
	now      func() time.Time
}

// NewService builds an activation service with the required dependencies.
func NewService(params ServiceParams) (*Service, error) {
	if params.TxRunner == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "tx runner required")
	}
	if params.Now == nil {
		params.Now = func() time.Time { return time.Now().UTC() }
	}
	return &Service{
		txRunner: params.TxRunner,
		password: params.Password,
		metrics:  params.Metrics,
		now:      params.Now,
	}, nil
}

// Activate redeems an activation code for the given email. The whole workflow
// runs inside one transaction, and the card's pending->activated transition is
// a conditional write, so two racing redemptions cannot both succeed.
func (s *Service) Activate(ctx context.Context, input Input) (*Result, error) {
	code := strings.ToUpper(strings.TrimSpace(input.ActivationCode))
	email := strings.ToLower(strings.TrimSpace(input.Email))

	if !cards.ValidateActivationCode(code) {
		s.metrics.IncActivation("invalid")
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid activation code format")
	}
	if email == "" {
		s.metrics.IncActivation("invalid")
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "email is required")
	}

	var result Result
	err := s.txRunner.WithTx(ctx, func(store Store) error {
		card, err := store.FindCardByActivationCode(ctx, code)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "invalid activation code")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load card")
		}
		if card.Status == enums.CardStatusActivated {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "card already activated")
		}

		user, shouldOnboard, err := s.findOrCreateUser(ctx, store, email)
		if err != nil {
			return err
		}

		profile, err := s.findOrCreateProfile(ctx, store, user, email)
		if err != nil {
			return err
		}

		activated, err := store.ActivateCard(ctx, card.ID, profile.ID, s.now())
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "activate card")
		}
		if !activated {
			// Lost the race: another redemption flipped the card first.
			return pkgerrors.New(pkgerrors.CodeStateConflict, "card already activated")
		}

		result = Result{ProfileID: profile.ID, ShouldOnboard: shouldOnboard}
		return nil
	})
	if err != nil {
		s.metrics.IncActivation(outcomeLabel(err))
		return nil, err
	}

	s.metrics.IncActivation("success")
	return &result, nil
}

func (s *Service) findOrCreateUser(ctx context.Context, store Store, email string) (*models.User, bool, error) {
	user, err := store.FindUserByEmail(ctx, email)
	if err == nil {
		return user, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
	}

	// Sign-in happens through the magic-link flow; the placeholder password
	// just keeps the fresh account closed.
	tempPassword, err := security.GenerateTempPassword(tempPasswordLength)
	if err != nil {
		return nil, false, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "generate placeholder password")
	}
	hash, err := security.HashPassword(tempPassword, s.password)
	if err != nil {
		return nil, false, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash placeholder password")
	}

	created := &models.User{Email: email, PasswordHash: hash}
	if err := store.CreateUser(ctx, created); err != nil {
		return nil, false, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create user")
	}
	return created, true, nil
}

func (s *Service) findOrCreateProfile(ctx context.Context, store Store, user *models.User, email string) (*models.Profile, error) {
	profile, err := store.FindProfileByUserID(ctx, user.ID)
	if err == nil {
		return profile, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load profile")
	}

	created := &models.Profile{
		UserID:   user.ID,
		Username: UsernameFromEmail(email),
		Email:    email,
	}
	if err := store.CreateProfile(ctx, created); err != nil {
		if db.IsUniqueViolation(err, "idx_profiles_username") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "username already taken")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create profile")
	}
	return created, nil
}

// UsernameFromEmail derives the default public username from the email's
// local part. Uniqueness is the profiles table's concern, not ours.
func UsernameFromEmail(email string) string {
	local := email
	if at := strings.IndexByte(email, '@'); at >= 0 {
		local = email[:at]
	}
	var b strings.Builder
	for _, r := range strings.ToLower(local) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '.', r == '-', r == '_':
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return "carte"
	}
	return b.String()
}

func outcomeLabel(err error) string {
	typed := pkgerrors.As(err)
	if typed == nil {
		return "error"
	}
	switch typed.Code() {
	case pkgerrors.CodeNotFound:
		return "not_found"
	case pkgerrors.CodeStateConflict:
		return "conflict"
	case pkgerrors.CodeValidation:
		return "invalid"
	default:
		return "error"
	}
}
