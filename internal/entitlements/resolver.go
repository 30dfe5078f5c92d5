// Package entitlements turns a subscription row into the permission surface
// the rest of the API consults: feature predicates and numeric quotas.
package entitlements

import (
	"github.com/SolutionSimple/obsicarte-backend/internal/tiers"
	"github.com/SolutionSimple/obsicarte-backend/pkg/db/models"
	"github.com/SolutionSimple/obsicarte-backend/pkg/enums"
)

// Unlimited marks a quota without an upper bound.
const Unlimited = tiers.Unlimited

// FreeProfileAllowance is the number of profiles a user without any paid tier
// may hold. This is deliberately asymmetric with the feature flags: no paid
// tier means zero premium features, yet still one profile.
const FreeProfileAllowance = 1

// Entitlements is the resolved permission surface for one user.
type Entitlements struct {
	subscriptionTier enums.SubscriptionTier
	tier             enums.Tier
	hasTier          bool
}

// Resolve derives entitlements from a subscription row. A nil subscription or
// any status other than active resolves to free.
func Resolve(sub *models.Subscription) Entitlements {
	if sub == nil || sub.Status != enums.SubscriptionStatusActive {
		return Entitlements{subscriptionTier: enums.SubscriptionTierFree}
	}
	tier, ok := tiers.ForSubscription(sub.Tier)
	return Entitlements{
		subscriptionTier: sub.Tier,
		tier:             tier,
		hasTier:          ok,
	}
}

// SubscriptionTier reports the resolved billing vocabulary value.
func (e Entitlements) SubscriptionTier() enums.SubscriptionTier {
	if e.subscriptionTier == "" {
		return enums.SubscriptionTierFree
	}
	return e.subscriptionTier
}

// Tier returns the active display tier, if any.
func (e Entitlements) Tier() (enums.Tier, bool) {
	return e.tier, e.hasTier
}

// Config returns the active tier's configuration. Without an active tier the
// lowest paid tier's config is returned for display purposes only; every
// gated predicate still answers false.
func (e Entitlements) Config() tiers.Config {
	if e.hasTier {
		return tiers.ConfigFor(e.tier)
	}
	return tiers.ConfigFor(enums.TierRoc)
}

// CanAccessFeature reports whether the feature is unlocked.
func (e Entitlements) CanAccessFeature(key tiers.FeatureKey) bool {
	if !e.hasTier {
		return false
	}
	return tiers.ConfigFor(e.tier).Features.Has(key)
}

// MaxProfiles returns the profile quota (Unlimited sentinel allowed).
func (e Entitlements) MaxProfiles() int {
	if !e.hasTier {
		return FreeProfileAllowance
	}
	return tiers.ConfigFor(e.tier).MaxProfiles
}

// VideoStorageMB returns the video quota in megabytes.
func (e Entitlements) VideoStorageMB() int {
	if !e.hasTier {
		return 0
	}
	return tiers.ConfigFor(e.tier).VideoStorageMB
}

// MaxCustomFields returns the per-profile custom field quota.
func (e Entitlements) MaxCustomFields() int {
	if !e.hasTier {
		return 0
	}
	return tiers.ConfigFor(e.tier).MaxCustomFields
}

// CanAddProfile reports whether one more profile fits under the quota.
func (e Entitlements) CanAddProfile(currentCount int) bool {
	max := e.MaxProfiles()
	if max == Unlimited {
		return true
	}
	return currentCount < max
}

// RemainingProfiles returns the head room under the quota, clamped at zero,
// or Unlimited.
func (e Entitlements) RemainingProfiles(currentCount int) int {
	max := e.MaxProfiles()
	if max == Unlimited {
		return Unlimited
	}
	remaining := max - currentCount
	if remaining < 0 {
		return 0
	}
	return remaining
}

// CanAddCustomField reports whether one more custom field fits under the quota.
func (e Entitlements) CanAddCustomField(currentCount int) bool {
	max := e.MaxCustomFields()
	if max == Unlimited {
		return true
	}
	return currentCount < max
}
