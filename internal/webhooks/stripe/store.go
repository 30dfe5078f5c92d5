package stripewebhook

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/SolutionSimple/obsicarte-backend/internal/cards"
	"github.com/SolutionSimple/obsicarte-backend/internal/orders"
	"github.com/SolutionSimple/obsicarte-backend/internal/subscriptions"
	"github.com/SolutionSimple/obsicarte-backend/internal/users"
	"github.com/SolutionSimple/obsicarte-backend/pkg/db"
	"github.com/SolutionSimple/obsicarte-backend/pkg/db/models"
)

// Store is the persistence surface order fulfillment touches.
type Store interface {
	FindOrderByPaymentIntentID(ctx context.Context, paymentIntentID string) (*models.Order, error)
	CreateOrder(ctx context.Context, order *models.Order) error
	AttachOrderUser(ctx context.Context, orderID, userID uuid.UUID) error
	CreateCards(ctx context.Context, batch []*models.Card) error
	FindUserByEmail(ctx context.Context, email string) (*models.User, error)
	Subscriptions() subscriptions.Store
}

// TxRunner executes fn against a transaction-bound Store.
type TxRunner interface {
	WithTx(ctx context.Context, fn func(store Store) error) error
}

type gormStore struct {
	orders        *orders.Repository
	cards         *cards.Repository
	users         *users.Repository
	subscriptions *subscriptions.Repository
}

// NewStore binds the fulfillment persistence surface to a GORM connection.
func NewStore(conn *gorm.DB) Store {
	return gormStore{
		orders:        orders.NewRepository(conn),
		cards:         cards.NewRepository(conn),
		users:         users.NewRepository(conn),
		subscriptions: subscriptions.NewRepository(conn),
	}
}

func (s gormStore) FindOrderByPaymentIntentID(ctx context.Context, paymentIntentID string) (*models.Order, error) {
	return s.orders.FindByPaymentIntentID(ctx, paymentIntentID)
}

func (s gormStore) CreateOrder(ctx context.Context, order *models.Order) error {
	return s.orders.Create(ctx, order)
}

func (s gormStore) AttachOrderUser(ctx context.Context, orderID, userID uuid.UUID) error {
	return s.orders.AttachUser(ctx, orderID, userID)
}

func (s gormStore) CreateCards(ctx context.Context, batch []*models.Card) error {
	return s.cards.CreateBatch(ctx, batch)
}

func (s gormStore) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.users.FindByEmail(ctx, email)
}

func (s gormStore) Subscriptions() subscriptions.Store {
	return s.subscriptions
}

type clientTxRunner struct {
	client *db.Client
}

// NewTxRunner wraps the shared DB client so each fulfillment runs in a single
// transaction.
func NewTxRunner(client *db.Client) TxRunner {
	return clientTxRunner{client: client}
}

func (r clientTxRunner) WithTx(ctx context.Context, fn func(store Store) error) error {
	return r.client.WithTx(ctx, func(tx *gorm.DB) error {
		return fn(NewStore(tx))
	})
}
