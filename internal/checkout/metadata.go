package checkout

import (
	"strconv"
	"strings"

	"github.com/SolutionSimple/obsicarte-backend/pkg/enums"
	pkgerrors "github.com/SolutionSimple/obsicarte-backend/pkg/errors"
	"github.com/SolutionSimple/obsicarte-backend/pkg/types"
)

// Metadata keys attached to every payment intent. The webhook reads the order
// back from these, so the intent is the single source of truth for
// fulfillment.
const (
	MetaTier            = "tier"
	MetaQuantity        = "quantity"
	MetaCustomerEmail   = "customer_email"
	MetaCustomerName    = "customer_name"
	MetaCustomerPhone   = "customer_phone"
	MetaShippingLine1   = "shipping_line1"
	MetaShippingLine2   = "shipping_line2"
	MetaShippingCity    = "shipping_city"
	MetaShippingPostal  = "shipping_postal_code"
	MetaShippingCountry = "shipping_country"
)

// OrderDetails is the order payload carried through payment intent metadata.
type OrderDetails struct {
	Tier          enums.Tier
	Quantity      int
	CustomerEmail string
	CustomerName  string
	CustomerPhone string
	Shipping      types.ShippingAddress
}

func buildMetadata(d OrderDetails) map[string]string {
	return map[string]string{
		MetaTier:            d.Tier.String(),
		MetaQuantity:        strconv.Itoa(d.Quantity),
		MetaCustomerEmail:   d.CustomerEmail,
		MetaCustomerName:    d.CustomerName,
		MetaCustomerPhone:   d.CustomerPhone,
		MetaShippingLine1:   d.Shipping.Line1,
		MetaShippingLine2:   d.Shipping.Line2,
		MetaShippingCity:    d.Shipping.City,
		MetaShippingPostal:  d.Shipping.PostalCode,
		MetaShippingCountry: d.Shipping.Country,
	}
}

// ParseMetadata reconstructs the order details from payment intent metadata.
func ParseMetadata(meta map[string]string) (OrderDetails, error) {
	tier, err := enums.ParseTier(meta[MetaTier])
	if err != nil {
		return OrderDetails{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "metadata tier")
	}
	quantity, err := strconv.Atoi(strings.TrimSpace(meta[MetaQuantity]))
	if err != nil || quantity < 1 {
		return OrderDetails{}, pkgerrors.New(pkgerrors.CodeValidation, "metadata quantity is invalid")
	}
	email := strings.ToLower(strings.TrimSpace(meta[MetaCustomerEmail]))
	if email == "" {
		return OrderDetails{}, pkgerrors.New(pkgerrors.CodeValidation, "metadata customer email is missing")
	}

	return OrderDetails{
		Tier:          tier,
		Quantity:      quantity,
		CustomerEmail: email,
		CustomerName:  strings.TrimSpace(meta[MetaCustomerName]),
		CustomerPhone: strings.TrimSpace(meta[MetaCustomerPhone]),
		Shipping: types.ShippingAddress{
			Line1:      strings.TrimSpace(meta[MetaShippingLine1]),
			Line2:      strings.TrimSpace(meta[MetaShippingLine2]),
			City:       strings.TrimSpace(meta[MetaShippingCity]),
			PostalCode: strings.TrimSpace(meta[MetaShippingPostal]),
			Country:    strings.ToUpper(strings.TrimSpace(meta[MetaShippingCountry])),
		},
	}, nil
}
