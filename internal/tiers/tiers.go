package tiers

import (
	"github.com/shopspring/decimal"

	"github.com/SolutionSimple/obsicarte-backend/pkg/enums"
)

// Unlimited marks a quota without an upper bound.
const Unlimited = -1

// FeatureKey names a gated product feature.
type FeatureKey string

const (
	FeatureVideoPitch        FeatureKey = "video_pitch"
	FeatureCRM               FeatureKey = "crm"
	FeatureAdvancedAnalytics FeatureKey = "advanced_analytics"
	FeatureCustomLogo        FeatureKey = "custom_logo"
	FeatureVIPClub           FeatureKey = "vip_club"
	FeaturePrioritySupport   FeatureKey = "priority_support"
	FeatureExclusiveEvents   FeatureKey = "exclusive_events"
	FeatureCustomTheme       FeatureKey = "custom_theme"
)

// Features is the fixed-shape flag set for a tier. A missing flag is a
// compile error, not a silent false.
type Features struct {
	VideoPitch        bool
	CRM               bool
	AdvancedAnalytics bool
	CustomLogo        bool
	VIPClub           bool
	PrioritySupport   bool
	ExclusiveEvents   bool
	CustomTheme       bool
}

// Has resolves a FeatureKey against the flag set. Unknown keys are false.
func (f Features) Has(key FeatureKey) bool {
	switch key {
	case FeatureVideoPitch:
		return f.VideoPitch
	case FeatureCRM:
		return f.CRM
	case FeatureAdvancedAnalytics:
		return f.AdvancedAnalytics
	case FeatureCustomLogo:
		return f.CustomLogo
	case FeatureVIPClub:
		return f.VIPClub
	case FeaturePrioritySupport:
		return f.PrioritySupport
	case FeatureExclusiveEvents:
		return f.ExclusiveEvents
	case FeatureCustomTheme:
		return f.CustomTheme
	default:
		return false
	}
}

// FeatureKeys lists every gated feature, in display order.
func FeatureKeys() []FeatureKey {
	return []FeatureKey{
		FeatureVideoPitch,
		FeatureCRM,
		FeatureAdvancedAnalytics,
		FeatureCustomLogo,
		FeatureVIPClub,
		FeaturePrioritySupport,
		FeatureExclusiveEvents,
		FeatureCustomTheme,
	}
}

// Config is the static entitlement record for one tier.
type Config struct {
	Tier            enums.Tier
	DisplayName     string
	PriceCents      int64
	Features        Features
	MaxProfiles     int
	VideoStorageMB  int
	MaxCustomFields int
}

// Price returns the tier price in major currency units for display.
func (c Config) Price() decimal.Decimal {
	return decimal.NewFromInt(c.PriceCents).Div(decimal.NewFromInt(100))
}

// The table is data, not policy: each tier's entitlements are a superset of
// the tier below it by convention, asserted in tests.
var configByTier = map[enums.Tier]Config{
	enums.TierRoc: {
		Tier:        enums.TierRoc,
		DisplayName: "Roc",
		PriceCents:  2990,
		Features: Features{
			VideoPitch: true,
			CustomLogo: true,
		},
		MaxProfiles:     1,
		VideoStorageMB:  100,
		MaxCustomFields: 3,
	},
	enums.TierSaphir: {
		Tier:        enums.TierSaphir,
		DisplayName: "Saphir",
		PriceCents:  4990,
		Features: Features{
			VideoPitch:        true,
			CRM:               true,
			AdvancedAnalytics: true,
			CustomLogo:        true,
			CustomTheme:       true,
		},
		MaxProfiles:     3,
		VideoStorageMB:  500,
		MaxCustomFields: 10,
	},
	enums.TierEmeraude: {
		Tier:        enums.TierEmeraude,
		DisplayName: "Emeraude",
		PriceCents:  7990,
		Features: Features{
			VideoPitch:        true,
			CRM:               true,
			AdvancedAnalytics: true,
			CustomLogo:        true,
			VIPClub:           true,
			PrioritySupport:   true,
			ExclusiveEvents:   true,
			CustomTheme:       true,
		},
		MaxProfiles:     Unlimited,
		VideoStorageMB:  2000,
		MaxCustomFields: Unlimited,
	},
}

var tierOrder = []enums.Tier{
	enums.TierRoc,
	enums.TierSaphir,
	enums.TierEmeraude,
}

// ConfigFor returns the entitlement record for a tier. Tier is a closed enum,
// so the lookup is total; unknown input falls back to the lowest tier.
func ConfigFor(tier enums.Tier) Config {
	if cfg, ok := configByTier[tier]; ok {
		return cfg
	}
	return configByTier[enums.TierRoc]
}

// Index reflects the fixed ordering roc < saphir < emeraude.
func Index(tier enums.Tier) int {
	for i, candidate := range tierOrder {
		if candidate == tier {
			return i
		}
	}
	return 0
}

// Next returns the config one tier up, or false at the top of the order.
func Next(tier enums.Tier) (Config, bool) {
	idx := Index(tier)
	if idx+1 >= len(tierOrder) {
		return Config{}, false
	}
	return ConfigFor(tierOrder[idx+1]), true
}

// IsHigher reports whether a outranks b.
func IsHigher(a, b enums.Tier) bool {
	return Index(a) > Index(b)
}

// ForSubscription bridges the billing vocabulary onto the display tiers.
// free carries no tier at all.
func ForSubscription(st enums.SubscriptionTier) (enums.Tier, bool) {
	switch st {
	case enums.SubscriptionTierPremium:
		return enums.TierRoc, true
	case enums.SubscriptionTierPremiumPlus:
		return enums.TierSaphir, true
	case enums.SubscriptionTierEmeraude:
		return enums.TierEmeraude, true
	case enums.SubscriptionTierFree:
		return "", false
	default:
		return "", false
	}
}

// ForTier is the reverse bridge, used when fulfillment provisions a
// subscription for a purchased card tier.
func ForTier(tier enums.Tier) enums.SubscriptionTier {
	switch tier {
	case enums.TierRoc:
		return enums.SubscriptionTierPremium
	case enums.TierSaphir:
		return enums.SubscriptionTierPremiumPlus
	case enums.TierEmeraude:
		return enums.SubscriptionTierEmeraude
	default:
		return enums.SubscriptionTierFree
	}
}
