package enums

import "fmt"

// Tier is the customer-facing entitlement level printed on card packaging.
type Tier string

const (
	TierRoc       Tier = "roc"
	TierSaphir    Tier = "saphir"
	TierEmeraude  Tier = "emeraude"
)

var validTiers = []Tier{
	TierRoc,
	TierSaphir,
	TierEmeraude,
}

// String implements fmt.Stringer.
func (t Tier) String() string {
	return string(t)
}

// IsValid reports whether the value is a known Tier.
func (t Tier) IsValid() bool {
	for _, candidate := range validTiers {
		if candidate == t {
			return true
		}
	}
	return false
}

// ParseTier converts raw input into a Tier.
func ParseTier(value string) (Tier, error) {
	for _, candidate := range validTiers {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid tier %q", value)
}

// Tiers returns every tier in ascending entitlement order.
func Tiers() []Tier {
	out := make([]Tier, len(validTiers))
	copy(out, validTiers)
	return out
}
