package stripewebhook

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stripe/stripe-go/v84"
	"gorm.io/gorm"

	"github.com/SolutionSimple/obsicarte-backend/internal/checkout"
	"github.com/SolutionSimple/obsicarte-backend/internal/subscriptions"
	"github.com/SolutionSimple/obsicarte-backend/pkg/db/models"
	"github.com/SolutionSimple/obsicarte-backend/pkg/enums"
)

type stubSubscriptionStore struct {
	created []*models.Subscription
}

func (s *stubSubscriptionStore) FindActiveByUserID(ctx context.Context, userID uuid.UUID) (*models.Subscription, error) {
	return nil, nil
}

func (s *stubSubscriptionStore) Create(ctx context.Context, sub *models.Subscription) error {
	s.created = append(s.created, sub)
	return nil
}

func (s *stubSubscriptionStore) Update(ctx context.Context, sub *models.Subscription) error {
	return nil
}

type stubStore struct {
	orders        map[string]*models.Order
	cards         []*models.Card
	users         map[string]*models.User
	attachedUsers map[uuid.UUID]uuid.UUID
	subs          *stubSubscriptionStore
}

func newStubStore() *stubStore {
	return &stubStore{
		orders:        map[string]*models.Order{},
		users:         map[string]*models.User{},
		attachedUsers: map[uuid.UUID]uuid.UUID{},
		subs:          &stubSubscriptionStore{},
	}
}

func (s *stubStore) FindOrderByPaymentIntentID(ctx context.Context, paymentIntentID string) (*models.Order, error) {
	return s.orders[paymentIntentID], nil
}

func (s *stubStore) CreateOrder(ctx context.Context, order *models.Order) error {
	order.ID = uuid.New()
	s.orders[order.PaymentIntentID] = order
	return nil
}

func (s *stubStore) AttachOrderUser(ctx context.Context, orderID, userID uuid.UUID) error {
	s.attachedUsers[orderID] = userID
	return nil
}

func (s *stubStore) CreateCards(ctx context.Context, batch []*models.Card) error {
	s.cards = append(s.cards, batch...)
	return nil
}

func (s *stubStore) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	user, ok := s.users[email]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return user, nil
}

func (s *stubStore) Subscriptions() subscriptions.Store {
	return s.subs
}

type stubTxRunner struct {
	store *stubStore
}

func (r stubTxRunner) WithTx(ctx context.Context, fn func(store Store) error) error {
	return fn(r.store)
}

func testService(t *testing.T, store *stubStore) *Service {
	t.Helper()
	svc, err := NewService(ServiceParams{
		TransactionRunner: stubTxRunner{store: store},
		Now:               func() time.Time { return time.Date(2026, 4, 2, 9, 0, 0, 0, time.UTC) },
	})
	if err != nil {
		t.Fatalf("setup service: %v", err)
	}
	return svc
}

func succeededEvent(t *testing.T, intentID string, meta map[string]string) *stripe.Event {
	t.Helper()
	raw, err := json.Marshal(&stripe.PaymentIntent{ID: intentID, Metadata: meta})
	if err != nil {
		t.Fatalf("marshal intent: %v", err)
	}
	return &stripe.Event{
		ID:   "evt_" + intentID,
		Type: stripe.EventTypePaymentIntentSucceeded,
		Data: &stripe.EventData{Raw: raw},
	}
}

func orderMetadata() map[string]string {
	return map[string]string{
		checkout.MetaTier:            "saphir",
		checkout.MetaQuantity:        "3",
		checkout.MetaCustomerEmail:   "buyer@example.com",
		checkout.MetaCustomerName:    "Jeanne Martin",
		checkout.MetaShippingLine1:   "12 rue de la Paix",
		checkout.MetaShippingCity:    "Paris",
		checkout.MetaShippingPostal:  "75002",
		checkout.MetaShippingCountry: "FR",
	}
}

func TestHandleEventFulfillsOrder(t *testing.T) {
	store := newStubStore()
	svc := testService(t, store)

	if err := svc.HandleEvent(context.Background(), succeededEvent(t, "pi_123", orderMetadata())); err != nil {
		t.Fatalf("handle event: %v", err)
	}

	order := store.orders["pi_123"]
	if order == nil {
		t.Fatalf("order not created")
	}
	if order.Tier != enums.TierSaphir || order.Quantity != 3 {
		t.Fatalf("order shape = %s x %d", order.Tier, order.Quantity)
	}
	if order.TotalCents != 14970 {
		t.Fatalf("total = %d, want 14970", order.TotalCents)
	}
	if order.Status != enums.OrderStatusPaid || order.PaymentStatus != enums.PaymentStatusPaid {
		t.Fatalf("order statuses = %s/%s", order.Status, order.PaymentStatus)
	}

	if len(store.cards) != 3 {
		t.Fatalf("expected 3 cards, got %d", len(store.cards))
	}
	seen := map[string]bool{}
	for _, card := range store.cards {
		if card.Tier != enums.TierSaphir {
			t.Fatalf("card tier = %s", card.Tier)
		}
		if card.Status != enums.CardStatusPending {
			t.Fatalf("card status = %s", card.Status)
		}
		if card.OrderID == nil || *card.OrderID != order.ID {
			t.Fatalf("card not linked to order")
		}
		if seen[card.ActivationCode] {
			t.Fatalf("duplicate activation code in batch")
		}
		seen[card.ActivationCode] = true
	}
}

func TestHandleEventReplayIsIdempotent(t *testing.T) {
	store := newStubStore()
	svc := testService(t, store)
	event := succeededEvent(t, "pi_replay", orderMetadata())

	if err := svc.HandleEvent(context.Background(), event); err != nil {
		t.Fatalf("first delivery: %v", err)
	}
	if err := svc.HandleEvent(context.Background(), event); err != nil {
		t.Fatalf("second delivery: %v", err)
	}

	if len(store.orders) != 1 {
		t.Fatalf("expected one order, got %d", len(store.orders))
	}
	if len(store.cards) != 3 {
		t.Fatalf("expected 3 cards after replay, got %d", len(store.cards))
	}
}

func TestHandleEventProvisionsExistingBuyer(t *testing.T) {
	store := newStubStore()
	user := &models.User{ID: uuid.New(), Email: "buyer@example.com"}
	store.users[user.Email] = user
	svc := testService(t, store)

	if err := svc.HandleEvent(context.Background(), succeededEvent(t, "pi_known", orderMetadata())); err != nil {
		t.Fatalf("handle event: %v", err)
	}

	order := store.orders["pi_known"]
	if got := store.attachedUsers[order.ID]; got != user.ID {
		t.Fatalf("order not attached to buyer")
	}
	if len(store.subs.created) != 1 {
		t.Fatalf("expected one subscription, got %d", len(store.subs.created))
	}
	sub := store.subs.created[0]
	if sub.Tier != enums.SubscriptionTierPremiumPlus {
		t.Fatalf("subscription tier = %s, want premium_plus", sub.Tier)
	}
	if sub.UserID != user.ID {
		t.Fatalf("subscription bound to wrong user")
	}
}

func TestHandleEventIgnoresUnknownBuyer(t *testing.T) {
	store := newStubStore()
	svc := testService(t, store)

	if err := svc.HandleEvent(context.Background(), succeededEvent(t, "pi_guest", orderMetadata())); err != nil {
		t.Fatalf("handle event: %v", err)
	}
	if len(store.subs.created) != 0 {
		t.Fatalf("guest checkout should not provision a subscription")
	}
	if len(store.attachedUsers) != 0 {
		t.Fatalf("guest order should not be attached to a user")
	}
}

func TestHandleEventIgnoresUnrelatedTypes(t *testing.T) {
	store := newStubStore()
	svc := testService(t, store)

	event := &stripe.Event{
		Type: stripe.EventTypeChargeRefunded,
		Data: &stripe.EventData{Raw: json.RawMessage(`{}`)},
	}
	if err := svc.HandleEvent(context.Background(), event); err != nil {
		t.Fatalf("unrelated event should be ignored: %v", err)
	}
	if len(store.orders) != 0 {
		t.Fatalf("no order should be created")
	}
}

func TestHandleEventRejectsBadMetadata(t *testing.T) {
	store := newStubStore()
	svc := testService(t, store)

	meta := orderMetadata()
	meta[checkout.MetaQuantity] = "many"
	if err := svc.HandleEvent(context.Background(), succeededEvent(t, "pi_bad", meta)); err == nil {
		t.Fatalf("bad metadata should fail")
	}
	if len(store.orders) != 0 {
		t.Fatalf("no order should be created on bad metadata")
	}
}
