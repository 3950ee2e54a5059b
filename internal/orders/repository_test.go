package orders

import (
	"context"
	"testing"
	"time"

	"github.com/angelmondragon/adjourney-backend/pkg/db/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupOrdersTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	purchaseOrders := `
CREATE TABLE IF NOT EXISTS purchase_orders (
  id TEXT PRIMARY KEY,
  visitor_id TEXT NOT NULL,
  ordered_at DATETIME NOT NULL,
  final_payment_cents INTEGER NOT NULL,
  created_at DATETIME
);`
	orderTouches := `
CREATE TABLE IF NOT EXISTS order_touches (
  id TEXT PRIMARY KEY,
  order_id TEXT NOT NULL,
  position INTEGER NOT NULL,
  creative_name TEXT NOT NULL,
  utm_source TEXT NOT NULL,
  utm_medium TEXT NOT NULL,
  utm_campaign TEXT NOT NULL,
  created_at DATETIME,
  UNIQUE(order_id, position)
);`
	require.NoError(t, db.Exec(purchaseOrders).Error)
	require.NoError(t, db.Exec(orderTouches).Error)
	return db
}

func TestOrderRepositoryCreateAndGet(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	order := &models.PurchaseOrderRow{
		VisitorID:         "v-create",
		OrderedAt:         time.Date(2026, 2, 10, 14, 0, 0, 0, time.UTC),
		FinalPaymentCents: 1_000_000,
		Touches: []models.OrderTouchRow{
			{Position: 0, CreativeName: "hero-video", UTMSource: "newsletter", UTMMedium: "email", UTMCampaign: "spring-launch"},
			{Position: 1, CreativeName: "carousel", UTMSource: "social", UTMMedium: "cpc", UTMCampaign: "spring-launch"},
		},
	}
	created, err := repo.Create(ctx, order)
	require.NoError(t, err)
	require.NotEqual(t, uuid.Nil, created.ID)

	loaded, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "v-create", loaded.VisitorID)
	assert.Equal(t, int64(1_000_000), loaded.FinalPaymentCents)
	require.Len(t, loaded.Touches, 2)
	assert.Equal(t, "hero-video", loaded.Touches[0].CreativeName)
	assert.Equal(t, "carousel", loaded.Touches[1].CreativeName)
}

func TestOrderRepositoryTouchesComeBackInPositionOrder(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	order := &models.PurchaseOrderRow{
		VisitorID:         "v-order",
		OrderedAt:         time.Date(2026, 2, 11, 9, 0, 0, 0, time.UTC),
		FinalPaymentCents: 500,
		Touches: []models.OrderTouchRow{
			{Position: 2, CreativeName: "third", UTMSource: "s", UTMMedium: "m", UTMCampaign: "c"},
			{Position: 0, CreativeName: "first", UTMSource: "s", UTMMedium: "m", UTMCampaign: "c"},
			{Position: 1, CreativeName: "second", UTMSource: "s", UTMMedium: "m", UTMCampaign: "c"},
		},
	}
	_, err := repo.Create(ctx, order)
	require.NoError(t, err)

	rows, err := repo.ListByVisitor(ctx, "v-order")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.Len(t, rows[0].Touches, 3)
	assert.Equal(t, "first", rows[0].Touches[0].CreativeName)
	assert.Equal(t, "second", rows[0].Touches[1].CreativeName)
	assert.Equal(t, "third", rows[0].Touches[2].CreativeName)
}

func TestOrderRepositoryListByVisitorOrdersByPurchaseTime(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	later := &models.PurchaseOrderRow{
		VisitorID:         "v-multi",
		OrderedAt:         time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
		FinalPaymentCents: 200,
	}
	earlier := &models.PurchaseOrderRow{
		VisitorID:         "v-multi",
		OrderedAt:         time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC),
		FinalPaymentCents: 100,
	}
	_, err := repo.Create(ctx, later)
	require.NoError(t, err)
	_, err = repo.Create(ctx, earlier)
	require.NoError(t, err)

	rows, err := repo.ListByVisitor(ctx, "v-multi")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, int64(100), rows[0].FinalPaymentCents)
	assert.Equal(t, int64(200), rows[1].FinalPaymentCents)
}
