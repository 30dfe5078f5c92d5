package checkout

import (
	"context"
	"testing"

	"github.com/stripe/stripe-go/v84"

	"github.com/SolutionSimple/obsicarte-backend/pkg/enums"
	pkgerrors "github.com/SolutionSimple/obsicarte-backend/pkg/errors"
	"github.com/SolutionSimple/obsicarte-backend/pkg/types"
)

type stubPayments struct {
	params *stripe.PaymentIntentCreateParams
	err    error
}

func (s *stubPayments) CreatePaymentIntent(ctx context.Context, params *stripe.PaymentIntentCreateParams) (*stripe.PaymentIntent, error) {
	s.params = params
	if s.err != nil {
		return nil, s.err
	}
	return &stripe.PaymentIntent{
		ID:           "pi_test_123",
		ClientSecret: "pi_test_123_secret_abc",
	}, nil
}

func validInput() Input {
	return Input{
		Tier:          "saphir",
		Quantity:      3,
		CustomerEmail: "Buyer@Example.com",
		CustomerName:  "Jeanne Martin",
		CustomerPhone: "+33612345678",
		Shipping: types.ShippingAddress{
			Line1:      "12 rue de la Paix",
			City:       "Paris",
			PostalCode: "75002",
			Country:    "fr",
		},
	}
}

func TestCreateIntentPricesServerSide(t *testing.T) {
	payments := &stubPayments{}
	svc, err := NewService(payments)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	res, err := svc.CreateIntent(context.Background(), validInput())
	if err != nil {
		t.Fatalf("create intent: %v", err)
	}

	if res.AmountCents != 14970 {
		t.Fatalf("amount = %d, want 14970 (3 x 4990)", res.AmountCents)
	}
	if res.PaymentIntentID != "pi_test_123" {
		t.Fatalf("intent id = %q", res.PaymentIntentID)
	}
	if res.ClientSecret != "pi_test_123_secret_abc" {
		t.Fatalf("client secret = %q", res.ClientSecret)
	}

	if payments.params == nil {
		t.Fatalf("stripe params not built")
	}
	if got := *payments.params.Amount; got != 14970 {
		t.Fatalf("stripe amount = %d, want 14970", got)
	}
	if got := *payments.params.Currency; got != "eur" {
		t.Fatalf("stripe currency = %q, want eur", got)
	}
}

func TestCreateIntentEmbedsOrderMetadata(t *testing.T) {
	payments := &stubPayments{}
	svc, _ := NewService(payments)

	if _, err := svc.CreateIntent(context.Background(), validInput()); err != nil {
		t.Fatalf("create intent: %v", err)
	}

	meta := payments.params.Metadata
	details, err := ParseMetadata(meta)
	if err != nil {
		t.Fatalf("parse metadata: %v", err)
	}
	if details.Tier != enums.TierSaphir {
		t.Fatalf("tier = %s, want saphir", details.Tier)
	}
	if details.Quantity != 3 {
		t.Fatalf("quantity = %d, want 3", details.Quantity)
	}
	if details.CustomerEmail != "buyer@example.com" {
		t.Fatalf("email = %q, want lowercase", details.CustomerEmail)
	}
	if details.Shipping.Country != "FR" {
		t.Fatalf("country = %q, want FR", details.Shipping.Country)
	}
}

func TestCreateIntentRejectsBadInput(t *testing.T) {
	svc, _ := NewService(&stubPayments{})

	cases := []func(*Input){
		func(i *Input) { i.Tier = "gold" },
		func(i *Input) { i.Quantity = 0 },
		func(i *Input) { i.Quantity = 101 },
		func(i *Input) { i.CustomerEmail = "not-an-email" },
		func(i *Input) { i.CustomerName = "  " },
		func(i *Input) { i.Shipping.Line1 = "" },
		func(i *Input) { i.Shipping.Country = "FRA" },
	}
	for i, mutate := range cases {
		input := validInput()
		mutate(&input)
		_, err := svc.CreateIntent(context.Background(), input)
		if err == nil {
			t.Fatalf("case %d: expected error", i)
		}
		if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
			t.Fatalf("case %d: expected validation error, got %v", i, err)
		}
	}
}

func TestParseMetadataRejectsGarbage(t *testing.T) {
	cases := []map[string]string{
		{MetaTier: "gold", MetaQuantity: "1", MetaCustomerEmail: "a@b.com"},
		{MetaTier: "roc", MetaQuantity: "zero", MetaCustomerEmail: "a@b.com"},
		{MetaTier: "roc", MetaQuantity: "1"},
	}
	for i, meta := range cases {
		if _, err := ParseMetadata(meta); err == nil {
			t.Fatalf("case %d: expected error", i)
		}
	}
}
