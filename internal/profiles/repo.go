package profiles

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/SolutionSimple/obsicarte-backend/pkg/db/models"
)

// Repository exposes profile and custom field persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a profiles repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a copy of the repository bound to the transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// Create inserts a new profile row.
func (r *Repository) Create(ctx context.Context, profile *models.Profile) error {
	return r.db.WithContext(ctx).Create(profile).Error
}

// FindByUserID returns the first profile belonging to the user.
func (r *Repository) FindByUserID(ctx context.Context, userID uuid.UUID) (*models.Profile, error) {
	var profile models.Profile
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("created_at ASC").First(&profile).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}

// CountByUserID returns how many profiles the user holds.
func (r *Repository) CountByUserID(ctx context.Context, userID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Profile{}).Where("user_id = ?", userID).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// FindByID loads a profile by its UUID.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Profile, error) {
	var profile models.Profile
	if err := r.db.WithContext(ctx).First(&profile, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}

// FindByUsername retrieves a profile by its public username.
func (r *Repository) FindByUsername(ctx context.Context, username string) (*models.Profile, error) {
	var profile models.Profile
	if err := r.db.WithContext(ctx).Where("username = ?", username).First(&profile).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}

// IncrementViewCount bumps the public view counter in place.
func (r *Repository) IncrementViewCount(ctx context.Context, profileID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&models.Profile{}).
		Where("id = ?", profileID).
		UpdateColumn("view_count", gorm.Expr("view_count + 1")).Error
}

// CreateCustomField inserts a custom field row.
func (r *Repository) CreateCustomField(ctx context.Context, field *models.CustomField) error {
	return r.db.WithContext(ctx).Create(field).Error
}

// CountCustomFields returns how many custom fields a profile carries.
func (r *Repository) CountCustomFields(ctx context.Context, profileID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.CustomField{}).Where("profile_id = ?", profileID).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// ListCustomFields returns a profile's custom fields in display order.
// When publicOnly is set, private fields are filtered out.
func (r *Repository) ListCustomFields(ctx context.Context, profileID uuid.UUID, publicOnly bool) ([]models.CustomField, error) {
	query := r.db.WithContext(ctx).Where("profile_id = ?", profileID)
	if publicOnly {
		query = query.Where("is_public = ?", true)
	}
	var out []models.CustomField
	if err := query.Order("position ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
