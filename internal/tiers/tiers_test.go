package tiers

import (
	"testing"

	"github.com/SolutionSimple/obsicarte-backend/pkg/enums"
)

func TestConfigForIsTotal(t *testing.T) {
	for _, tier := range enums.Tiers() {
		cfg := ConfigFor(tier)
		if cfg.Tier != tier {
			t.Fatalf("config for %s carries tier %s", tier, cfg.Tier)
		}
		if cfg.PriceCents <= 0 {
			t.Fatalf("tier %s has no price", tier)
		}
	}
}

func TestPriceTable(t *testing.T) {
	cases := map[enums.Tier]int64{
		enums.TierRoc:      2990,
		enums.TierSaphir:   4990,
		enums.TierEmeraude: 7990,
	}
	for tier, want := range cases {
		if got := ConfigFor(tier).PriceCents; got != want {
			t.Fatalf("price for %s = %d, want %d", tier, got, want)
		}
	}
	if got := ConfigFor(enums.TierRoc).Price().StringFixed(2); got != "29.90" {
		t.Fatalf("display price = %s, want 29.90", got)
	}
}

func TestOrdering(t *testing.T) {
	if Index(enums.TierRoc) != 0 || Index(enums.TierSaphir) != 1 || Index(enums.TierEmeraude) != 2 {
		t.Fatalf("tier order broken: %d %d %d",
			Index(enums.TierRoc), Index(enums.TierSaphir), Index(enums.TierEmeraude))
	}
	if !IsHigher(enums.TierEmeraude, enums.TierRoc) {
		t.Fatalf("emeraude should outrank roc")
	}
	if IsHigher(enums.TierRoc, enums.TierRoc) {
		t.Fatalf("tier should not outrank itself")
	}
}

func TestNext(t *testing.T) {
	next, ok := Next(enums.TierRoc)
	if !ok || next.Tier != enums.TierSaphir {
		t.Fatalf("next after roc = %v ok=%t", next.Tier, ok)
	}
	if _, ok := Next(enums.TierEmeraude); ok {
		t.Fatalf("emeraude should be the top of the order")
	}
}

// Higher tiers must never drop a flag or shrink a quota held by a lower tier.
func TestEntitlementsFormSupersets(t *testing.T) {
	order := enums.Tiers()
	for i := 1; i < len(order); i++ {
		lower := ConfigFor(order[i-1])
		higher := ConfigFor(order[i])

		for _, key := range FeatureKeys() {
			if lower.Features.Has(key) && !higher.Features.Has(key) {
				t.Fatalf("%s has %s but %s does not", lower.Tier, key, higher.Tier)
			}
		}
		if !quotaAtLeast(higher.MaxProfiles, lower.MaxProfiles) {
			t.Fatalf("%s profile quota below %s", higher.Tier, lower.Tier)
		}
		if !quotaAtLeast(higher.VideoStorageMB, lower.VideoStorageMB) {
			t.Fatalf("%s video quota below %s", higher.Tier, lower.Tier)
		}
		if !quotaAtLeast(higher.MaxCustomFields, lower.MaxCustomFields) {
			t.Fatalf("%s custom field quota below %s", higher.Tier, lower.Tier)
		}
	}
}

func quotaAtLeast(a, b int) bool {
	if a == Unlimited {
		return true
	}
	if b == Unlimited {
		return false
	}
	return a >= b
}

func TestSubscriptionTierBridge(t *testing.T) {
	cases := []struct {
		in   enums.SubscriptionTier
		want enums.Tier
		ok   bool
	}{
		{enums.SubscriptionTierFree, "", false},
		{enums.SubscriptionTierPremium, enums.TierRoc, true},
		{enums.SubscriptionTierPremiumPlus, enums.TierSaphir, true},
		{enums.SubscriptionTierEmeraude, enums.TierEmeraude, true},
	}
	for _, tc := range cases {
		got, ok := ForSubscription(tc.in)
		if got != tc.want || ok != tc.ok {
			t.Fatalf("ForSubscription(%s) = (%s, %t), want (%s, %t)", tc.in, got, ok, tc.want, tc.ok)
		}
	}

	// round trip through the reverse bridge
	for _, tier := range enums.Tiers() {
		back, ok := ForSubscription(ForTier(tier))
		if !ok || back != tier {
			t.Fatalf("round trip for %s = (%s, %t)", tier, back, ok)
		}
	}
}
