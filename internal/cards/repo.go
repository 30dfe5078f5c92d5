package cards

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/SolutionSimple/obsicarte-backend/pkg/db/models"
	"github.com/SolutionSimple/obsicarte-backend/pkg/enums"
)

// Repository exposes card persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a cards repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a copy of the repository bound to the transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// FindByActivationCode retrieves the card holding the provided code.
func (r *Repository) FindByActivationCode(ctx context.Context, code string) (*models.Card, error) {
	var card models.Card
	if err := r.db.WithContext(ctx).Where("activation_code = ?", code).First(&card).Error; err != nil {
		return nil, err
	}
	return &card, nil
}

// CreateBatch inserts the provided cards in one statement.
func (r *Repository) CreateBatch(ctx context.Context, cards []*models.Card) error {
	if len(cards) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(cards).Error
}

// Activate flips a pending card to activated and links it to the profile.
// The status predicate makes the write a conditional transition: two racing
// redemptions of the same code see exactly one row affected between them.
func (r *Repository) Activate(ctx context.Context, cardID, profileID uuid.UUID, at time.Time) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Card{}).
		Where("id = ? AND status = ?", cardID, enums.CardStatusPending).
		Updates(map[string]any{
			"status":       enums.CardStatusActivated,
			"activated_at": at,
			"profile_id":   profileID,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// ListByOrder returns the cards generated for an order.
func (r *Repository) ListByOrder(ctx context.Context, orderID uuid.UUID) ([]models.Card, error) {
	var out []models.Card
	if err := r.db.WithContext(ctx).Where("order_id = ?", orderID).Order("created_at ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
