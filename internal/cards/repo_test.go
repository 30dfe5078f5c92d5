package cards

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/SolutionSimple/obsicarte-backend/pkg/db/models"
	"github.com/SolutionSimple/obsicarte-backend/pkg/enums"
)

func setupCardsTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	cards := `
CREATE TABLE IF NOT EXISTS cards (
  id TEXT PRIMARY KEY,
  card_code TEXT NOT NULL UNIQUE,
  activation_code TEXT NOT NULL UNIQUE,
  tier TEXT NOT NULL,
  status TEXT NOT NULL DEFAULT 'pending',
  order_id TEXT,
  profile_id TEXT,
  activated_at DATETIME,
  created_at DATETIME,
  updated_at DATETIME
);`
	require.NoError(t, db.Exec(cards).Error)
	return db
}

func newPendingCard(t *testing.T, db *gorm.DB, activationCode string) *models.Card {
	t.Helper()

	card := &models.Card{
		ID:             uuid.New(),
		CardCode:       "OBSI-TEST-" + activationCode,
		ActivationCode: activationCode,
		Tier:           enums.TierSaphir,
		Status:         enums.CardStatusPending,
	}
	require.NoError(t, db.Create(card).Error)
	return card
}

func TestRepositoryFindByActivationCode(t *testing.T) {
	db := setupCardsTestDB(t)
	repo := NewRepository(db)
	created := newPendingCard(t, db, "AB3D-7XQ2")

	found, err := repo.FindByActivationCode(context.Background(), "AB3D-7XQ2")
	require.NoError(t, err)
	assert.Equal(t, created.ID, found.ID)
	assert.Equal(t, enums.CardStatusPending, found.Status)

	_, err = repo.FindByActivationCode(context.Background(), "ZZZZ-ZZZZ")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestRepositoryActivateIsConditional(t *testing.T) {
	db := setupCardsTestDB(t)
	repo := NewRepository(db)
	card := newPendingCard(t, db, "AB3D-7XQ2")
	profileID := uuid.New()
	now := time.Now().UTC()

	ok, err := repo.Activate(context.Background(), card.ID, profileID, now)
	require.NoError(t, err)
	assert.True(t, ok)

	// The second redemption sees zero rows affected.
	ok, err = repo.Activate(context.Background(), card.ID, uuid.New(), now)
	require.NoError(t, err)
	assert.False(t, ok)

	stored, err := repo.FindByActivationCode(context.Background(), "AB3D-7XQ2")
	require.NoError(t, err)
	assert.Equal(t, enums.CardStatusActivated, stored.Status)
	require.NotNil(t, stored.ProfileID)
	assert.Equal(t, profileID, *stored.ProfileID)
	require.NotNil(t, stored.ActivatedAt)
}

func TestRepositoryCreateBatchAndListByOrder(t *testing.T) {
	db := setupCardsTestDB(t)
	repo := NewRepository(db)
	orderID := uuid.New()

	batch := make([]*models.Card, 0, 3)
	for i := 0; i < 3; i++ {
		code, err := GenerateActivationCode()
		require.NoError(t, err)
		cardCode, err := GenerateCardCode()
		require.NoError(t, err)
		batch = append(batch, &models.Card{
			ID:             uuid.New(),
			CardCode:       cardCode,
			ActivationCode: code,
			Tier:           enums.TierRoc,
			Status:         enums.CardStatusPending,
			OrderID:        &orderID,
		})
	}
	require.NoError(t, repo.CreateBatch(context.Background(), batch))

	listed, err := repo.ListByOrder(context.Background(), orderID)
	require.NoError(t, err)
	assert.Len(t, listed, 3)
	for _, card := range listed {
		assert.Equal(t, enums.CardStatusPending, card.Status)
	}
}
