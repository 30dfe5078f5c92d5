package subscriptions

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/SolutionSimple/obsicarte-backend/internal/tiers"
	"github.com/SolutionSimple/obsicarte-backend/pkg/db/models"
	"github.com/SolutionSimple/obsicarte-backend/pkg/enums"
	pkgerrors "github.com/SolutionSimple/obsicarte-backend/pkg/errors"
)

// ProvisionMonths is the subscription length granted with a card purchase.
const ProvisionMonths = 12

// Store is the persistence surface Provision needs. *Repository satisfies it;
// fulfillment passes a transaction-bound copy.
type Store interface {
	FindActiveByUserID(ctx context.Context, userID uuid.UUID) (*models.Subscription, error)
	Create(ctx context.Context, sub *models.Subscription) error
	Update(ctx context.Context, sub *models.Subscription) error
}

// Provision grants the user a 12-month subscription matching the purchased
// card tier. An existing active subscription is moved to the new tier and its
// period restarted rather than stacked.
func Provision(ctx context.Context, store Store, userID uuid.UUID, tier enums.Tier, now time.Time) (*models.Subscription, error) {
	if store == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "subscription store required")
	}
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	if !tier.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown tier")
	}

	subscriptionTier := tiers.ForTier(tier)
	periodEnd := now.AddDate(0, ProvisionMonths, 0)

	existing, err := store.FindActiveByUserID(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load subscription")
	}

	if existing != nil {
		existing.Tier = subscriptionTier
		existing.Status = enums.SubscriptionStatusActive
		existing.CurrentPeriodStart = now
		existing.CurrentPeriodEnd = periodEnd
		if err := store.Update(ctx, existing); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update subscription")
		}
		return existing, nil
	}

	sub := &models.Subscription{
		UserID:             userID,
		Tier:               subscriptionTier,
		Status:             enums.SubscriptionStatusActive,
		CurrentPeriodStart: now,
		CurrentPeriodEnd:   periodEnd,
	}
	if err := store.Create(ctx, sub); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create subscription")
	}
	return sub, nil
}
