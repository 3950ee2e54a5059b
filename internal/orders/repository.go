package orders

import (
	"context"
	"time"

	"github.com/angelmondragon/adjourney-backend/pkg/db"
	"github.com/angelmondragon/adjourney-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/adjourney-backend/pkg/errors"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// OrderRepository exposes read and ingest access to purchase orders and
// their recorded creative touches.
type OrderRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.PurchaseOrderRow, error)
	ListAll(ctx context.Context) ([]models.PurchaseOrderRow, error)
	ListBetween(ctx context.Context, from, to time.Time) ([]models.PurchaseOrderRow, error)
	ListByVisitor(ctx context.Context, visitorID string) ([]models.PurchaseOrderRow, error)
	Create(ctx context.Context, order *models.PurchaseOrderRow) (*models.PurchaseOrderRow, error)
}

// Repository wires purchase-order persistence to GORM.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// GetByID loads one order with its touches in position order.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*models.PurchaseOrderRow, error) {
	var order models.PurchaseOrderRow
	if err := r.db.WithContext(ctx).
		Preload("Touches", touchOrder).
		First(&order, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

// ListAll returns every order with its touches, oldest order first.
func (r *Repository) ListAll(ctx context.Context) ([]models.PurchaseOrderRow, error) {
	var rows []models.PurchaseOrderRow
	if err := r.db.WithContext(ctx).
		Preload("Touches", touchOrder).
		Order("ordered_at ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// ListBetween returns orders placed in [from, to), oldest first, with touches.
func (r *Repository) ListBetween(ctx context.Context, from, to time.Time) ([]models.PurchaseOrderRow, error) {
	var rows []models.PurchaseOrderRow
	if err := r.db.WithContext(ctx).
		Preload("Touches", touchOrder).
		Where("ordered_at >= ? AND ordered_at < ?", from, to).
		Order("ordered_at ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// ListByVisitor returns the visitor's orders with touches, oldest first.
func (r *Repository) ListByVisitor(ctx context.Context, visitorID string) ([]models.PurchaseOrderRow, error) {
	var rows []models.PurchaseOrderRow
	if err := r.db.WithContext(ctx).
		Preload("Touches", touchOrder).
		Where("visitor_id = ?", visitorID).
		Order("ordered_at ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// Create inserts the order and its touch rows in one transaction.
func (r *Repository) Create(ctx context.Context, order *models.PurchaseOrderRow) (*models.PurchaseOrderRow, error) {
	if err := r.db.WithContext(ctx).Create(order).Error; err != nil {
		if db.IsUniqueViolation(err, "order_touches_order_id_position_key") {
			return nil, pkgerrors.Wrap(pkgerrors.CodeConflict, err, "order touch position already recorded")
		}
		return nil, err
	}
	return order, nil
}

func touchOrder(db *gorm.DB) *gorm.DB {
	return db.Order("position ASC")
}
