package cards

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"regexp"
	"strings"
	"time"
)

// codeAlphabet excludes the visually ambiguous I, O, 0 and 1 so codes survive
// being read off a printed card and typed by hand.
const codeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// cardCodePrefix is printed on every physical card.
const cardCodePrefix = "OBSI"

var (
	activationCodePattern = regexp.MustCompile(`(?i)^[A-Z0-9]{4}-[A-Z0-9]{4}$`)
	cardCodePattern       = regexp.MustCompile(`(?i)^OBSI-[A-Z0-9]{4}-[A-Z0-9]{4}-[A-Z0-9]{4}$`)
)

// GenerateActivationCode produces a short human-entered code, e.g. AB3D-7XQ2.
// Uniqueness is enforced by the cards table's unique index, not here.
func GenerateActivationCode() (string, error) {
	groups, err := randomGroups(2, 4)
	if err != nil {
		return "", err
	}
	return strings.Join(groups, "-"), nil
}

// GenerateCardCode produces the longer printed identifier,
// e.g. OBSI-AB3D-7XQ2-K9ZL.
func GenerateCardCode() (string, error) {
	groups, err := randomGroups(3, 4)
	if err != nil {
		return "", err
	}
	return cardCodePrefix + "-" + strings.Join(groups, "-"), nil
}

// GenerateOrderNumber produces ORD-YYYYMMDD-NNNN. The random suffix is not
// collision free; order identity rests on the payment intent id, the number
// is display only.
func GenerateOrderNumber(now time.Time) (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(10_000))
	if err != nil {
		return "", fmt.Errorf("generate order number: %w", err)
	}
	return fmt.Sprintf("ORD-%s-%04d", now.Format("20060102"), n.Int64()), nil
}

// ValidateActivationCode checks the XXXX-XXXX shape, case-insensitively.
func ValidateActivationCode(code string) bool {
	return activationCodePattern.MatchString(strings.TrimSpace(code))
}

// ValidateCardCode checks the OBSI-XXXX-XXXX-XXXX shape, case-insensitively.
func ValidateCardCode(code string) bool {
	return cardCodePattern.MatchString(strings.TrimSpace(code))
}

func randomGroups(count, size int) ([]string, error) {
	max := big.NewInt(int64(len(codeAlphabet)))
	groups := make([]string, count)
	for g := range groups {
		chars := make([]byte, size)
		for i := range chars {
			n, err := rand.Int(rand.Reader, max)
			if err != nil {
				return nil, fmt.Errorf("generate code: %w", err)
			}
			chars[i] = codeAlphabet[n.Int64()]
		}
		groups[g] = string(chars)
	}
	return groups, nil
}
