// Package stripewebhook fulfills card orders from Stripe payment events. The
// payment intent's metadata is the source of truth for what was bought; the
// orders table's unique payment_intent_id column makes fulfillment idempotent.
package stripewebhook

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/stripe/stripe-go/v84"
	"gorm.io/gorm"

	"github.com/SolutionSimple/obsicarte-backend/internal/cards"
	"github.com/SolutionSimple/obsicarte-backend/internal/checkout"
	"github.com/SolutionSimple/obsicarte-backend/internal/subscriptions"
	"github.com/SolutionSimple/obsicarte-backend/internal/tiers"
	"github.com/SolutionSimple/obsicarte-backend/pkg/db"
	"github.com/SolutionSimple/obsicarte-backend/pkg/db/models"
	"github.com/SolutionSimple/obsicarte-backend/pkg/enums"
	pkgerrors "github.com/SolutionSimple/obsicarte-backend/pkg/errors"
	"github.com/SolutionSimple/obsicarte-backend/pkg/logger"
	"github.com/SolutionSimple/obsicarte-backend/pkg/metrics"
)

// ServiceParams groups dependencies for the fulfillment service.
type ServiceParams struct {
	TransactionRunner TxRunner
	Logger            *logger.Logger
	Metrics           *metrics.WorkflowMetrics
	Now               func() time.Time
}

// Service turns successful payment events into orders, cards and
// subscriptions.
type Service struct {
	txRunner TxRunner
	logg     *logger.Logger
	metrics  *metrics.WorkflowMetrics
	now      func() time.Time
}

// NewService builds the webhook fulfillment service.
func NewService(params ServiceParams) (*Service, error) {
	if params.TransactionRunner == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "transaction runner required")
	}
	if params.Now == nil {
		params.Now = func() time.Time { return time.Now().UTC() }
	}
	return &Service{
		txRunner: params.TransactionRunner,
		logg:     params.Logger,
		metrics:  params.Metrics,
		now:      params.Now,
	}, nil
}

// HandleEvent dispatches on the event type. Unhandled event types are ignored
// so new webhook subscriptions never break the endpoint.
func (s *Service) HandleEvent(ctx context.Context, event *stripe.Event) error {
	if event == nil || event.Data == nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "stripe event data required")
	}

	switch event.Type {
	case stripe.EventTypePaymentIntentSucceeded:
		var intent stripe.PaymentIntent
		if err := json.Unmarshal(event.Data.Raw, &intent); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "decode payment intent")
		}
		return s.fulfillOrder(ctx, &intent)
	case stripe.EventTypePaymentIntentPaymentFailed:
		var intent stripe.PaymentIntent
		if err := json.Unmarshal(event.Data.Raw, &intent); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "decode payment intent")
		}
		if s.logg != nil {
			s.logg.Warn(ctx, "payment failed for intent "+intent.ID)
		}
		return nil
	default:
		return nil
	}
}

func (s *Service) fulfillOrder(ctx context.Context, intent *stripe.PaymentIntent) error {
	if intent == nil || intent.ID == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "payment intent id required")
	}

	details, err := checkout.ParseMetadata(intent.Metadata)
	if err != nil {
		return err
	}

	cfg := tiers.ConfigFor(details.Tier)

	var fulfilled bool
	err = s.txRunner.WithTx(ctx, func(store Store) error {
		existing, err := store.FindOrderByPaymentIntentID(ctx, intent.ID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
		}
		if existing != nil {
			// Replayed event, the order is already there.
			return nil
		}

		now := s.now()
		orderNumber, err := cards.GenerateOrderNumber(now)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "generate order number")
		}

		order := &models.Order{
			OrderNumber:     orderNumber,
			PaymentIntentID: intent.ID,
			CustomerEmail:   details.CustomerEmail,
			CustomerName:    details.CustomerName,
			CustomerPhone:   details.CustomerPhone,
			ShippingLine1:   details.Shipping.Line1,
			ShippingLine2:   details.Shipping.Line2,
			ShippingCity:    details.Shipping.City,
			ShippingPostal:  details.Shipping.PostalCode,
			ShippingCountry: details.Shipping.Country,
			Tier:            details.Tier,
			Quantity:        details.Quantity,
			TotalCents:      cfg.PriceCents * int64(details.Quantity),
			Status:          enums.OrderStatusPaid,
			PaymentStatus:   enums.PaymentStatusPaid,
		}
		if err := store.CreateOrder(ctx, order); err != nil {
			if db.IsUniqueViolation(err, "idx_orders_payment_intent_id") {
				// A concurrent delivery won the insert race. Nothing left to do.
				return nil
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create order")
		}

		batch, err := buildCards(order)
		if err != nil {
			return err
		}
		if err := store.CreateCards(ctx, batch); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create cards")
		}

		if err := s.provisionBuyer(ctx, store, order, now); err != nil {
			return err
		}

		fulfilled = true
		return nil
	})
	if err != nil {
		return err
	}

	if fulfilled {
		s.metrics.IncOrderFulfilled()
		s.metrics.AddCardsGenerated(details.Quantity)
	}
	return nil
}

func buildCards(order *models.Order) ([]*models.Card, error) {
	batch := make([]*models.Card, 0, order.Quantity)
	for i := 0; i < order.Quantity; i++ {
		cardCode, err := cards.GenerateCardCode()
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "generate card code")
		}
		activationCode, err := cards.GenerateActivationCode()
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "generate activation code")
		}
		batch = append(batch, &models.Card{
			CardCode:       cardCode,
			ActivationCode: activationCode,
			Tier:           order.Tier,
			Status:         enums.CardStatusPending,
			OrderID:        &order.ID,
		})
	}
	return batch, nil
}

// provisionBuyer links the order to an existing account and grants the
// purchased subscription. When no account exists yet the subscription is
// granted later, at activation time, once the account is created.
func (s *Service) provisionBuyer(ctx context.Context, store Store, order *models.Order, now time.Time) error {
	user, err := store.FindUserByEmail(ctx, order.CustomerEmail)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
	}

	if err := store.AttachOrderUser(ctx, order.ID, user.ID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "attach order user")
	}
	if _, err := subscriptions.Provision(ctx, store.Subscriptions(), user.ID, order.Tier, now); err != nil {
		return err
	}
	return nil
}
