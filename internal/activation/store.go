package activation

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/SolutionSimple/obsicarte-backend/internal/cards"
	"github.com/SolutionSimple/obsicarte-backend/internal/profiles"
	"github.com/SolutionSimple/obsicarte-backend/internal/users"
	"github.com/SolutionSimple/obsicarte-backend/pkg/db"
	"github.com/SolutionSimple/obsicarte-backend/pkg/db/models"
)

// Store is the persistence surface the activation workflow touches.
type Store interface {
	FindCardByActivationCode(ctx context.Context, code string) (*models.Card, error)
	ActivateCard(ctx context.Context, cardID, profileID uuid.UUID, at time.Time) (bool, error)
	FindUserByEmail(ctx context.Context, email string) (*models.User, error)
	CreateUser(ctx context.Context, user *models.User) error
	FindProfileByUserID(ctx context.Context, userID uuid.UUID) (*models.Profile, error)
	CreateProfile(ctx context.Context, profile *models.Profile) error
}

// TxRunner executes fn against a transaction-bound Store.
type TxRunner interface {
	WithTx(ctx context.Context, fn func(store Store) error) error
}

type gormStore struct {
	cards    *cards.Repository
	users    *users.Repository
	profiles *profiles.Repository
}

// NewStore binds the workflow's persistence surface to a GORM connection.
func NewStore(conn *gorm.DB) Store {
	return gormStore{
		cards:    cards.NewRepository(conn),
		users:    users.NewRepository(conn),
		profiles: profiles.NewRepository(conn),
	}
}

func (s gormStore) FindCardByActivationCode(ctx context.Context, code string) (*models.Card, error) {
	return s.cards.FindByActivationCode(ctx, code)
}

func (s gormStore) ActivateCard(ctx context.Context, cardID, profileID uuid.UUID, at time.Time) (bool, error) {
	return s.cards.Activate(ctx, cardID, profileID, at)
}

func (s gormStore) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.users.FindByEmail(ctx, email)
}

func (s gormStore) CreateUser(ctx context.Context, user *models.User) error {
	return s.users.Create(ctx, user)
}

func (s gormStore) FindProfileByUserID(ctx context.Context, userID uuid.UUID) (*models.Profile, error) {
	return s.profiles.FindByUserID(ctx, userID)
}

func (s gormStore) CreateProfile(ctx context.Context, profile *models.Profile) error {
	return s.profiles.Create(ctx, profile)
}

type clientTxRunner struct {
	client *db.Client
}

// NewTxRunner wraps the shared DB client so each workflow run executes in a
// single transaction.
func NewTxRunner(client *db.Client) TxRunner {
	return clientTxRunner{client: client}
}

func (r clientTxRunner) WithTx(ctx context.Context, fn func(store Store) error) error {
	return r.client.WithTx(ctx, func(tx *gorm.DB) error {
		return fn(NewStore(tx))
	})
}
