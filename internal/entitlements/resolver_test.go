package entitlements

import (
	"testing"

	"github.com/SolutionSimple/obsicarte-backend/internal/tiers"
	"github.com/SolutionSimple/obsicarte-backend/pkg/db/models"
	"github.com/SolutionSimple/obsicarte-backend/pkg/enums"
)

func activeSub(tier enums.SubscriptionTier) *models.Subscription {
	return &models.Subscription{
		Tier:   tier,
		Status: enums.SubscriptionStatusActive,
	}
}

func TestResolveNilSubscriptionIsFree(t *testing.T) {
	e := Resolve(nil)

	if e.SubscriptionTier() != enums.SubscriptionTierFree {
		t.Fatalf("expected free, got %s", e.SubscriptionTier())
	}
	if _, ok := e.Tier(); ok {
		t.Fatalf("expected no active tier")
	}
	for _, key := range tiers.FeatureKeys() {
		if e.CanAccessFeature(key) {
			t.Fatalf("feature %s should be locked without a tier", key)
		}
	}
}

func TestResolveInactiveStatusesAreFree(t *testing.T) {
	statuses := []enums.SubscriptionStatus{
		enums.SubscriptionStatusCancelled,
		enums.SubscriptionStatusExpired,
		enums.SubscriptionStatusTrial,
	}
	for _, status := range statuses {
		sub := &models.Subscription{Tier: enums.SubscriptionTierEmeraude, Status: status}
		e := Resolve(sub)
		if _, ok := e.Tier(); ok {
			t.Fatalf("status %s should resolve to no tier", status)
		}
		for _, key := range tiers.FeatureKeys() {
			if e.CanAccessFeature(key) {
				t.Fatalf("status %s should lock feature %s", status, key)
			}
		}
	}
}

// A user without a paid tier gets exactly one profile and nothing else.
func TestFreeProfileAllowance(t *testing.T) {
	e := Resolve(nil)

	if !e.CanAddProfile(0) {
		t.Fatalf("first profile should be allowed on free")
	}
	if e.CanAddProfile(1) {
		t.Fatalf("second profile should be denied on free")
	}
	if got := e.RemainingProfiles(0); got != 1 {
		t.Fatalf("remaining profiles = %d, want 1", got)
	}
	if got := e.RemainingProfiles(2); got != 0 {
		t.Fatalf("remaining profiles should clamp at 0, got %d", got)
	}
	if e.MaxCustomFields() != 0 {
		t.Fatalf("free should carry no custom field quota")
	}
	if e.VideoStorageMB() != 0 {
		t.Fatalf("free should carry no video quota")
	}
}

func TestResolveActiveTiers(t *testing.T) {
	e := Resolve(activeSub(enums.SubscriptionTierPremiumPlus))

	tier, ok := e.Tier()
	if !ok || tier != enums.TierSaphir {
		t.Fatalf("premium_plus should resolve to saphir, got (%s, %t)", tier, ok)
	}
	if !e.CanAccessFeature(tiers.FeatureCRM) {
		t.Fatalf("saphir should unlock CRM")
	}
	if e.CanAccessFeature(tiers.FeatureVIPClub) {
		t.Fatalf("saphir should not unlock VIP club")
	}
	if got := e.MaxProfiles(); got != 3 {
		t.Fatalf("saphir profile quota = %d, want 3", got)
	}
	if !e.CanAddProfile(2) || e.CanAddProfile(3) {
		t.Fatalf("saphir should allow a third profile and deny a fourth")
	}
}

func TestResolveUnlimitedTier(t *testing.T) {
	e := Resolve(activeSub(enums.SubscriptionTierEmeraude))

	if !e.CanAddProfile(10_000) {
		t.Fatalf("emeraude profiles should be unlimited")
	}
	if got := e.RemainingProfiles(10_000); got != Unlimited {
		t.Fatalf("remaining = %d, want Unlimited", got)
	}
	if !e.CanAddCustomField(500) {
		t.Fatalf("emeraude custom fields should be unlimited")
	}
}

func TestConfigDefaultsToLowestPaidTierForDisplay(t *testing.T) {
	e := Resolve(nil)
	if got := e.Config().Tier; got != enums.TierRoc {
		t.Fatalf("display config tier = %s, want roc", got)
	}
}
