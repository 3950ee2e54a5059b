package visits

import (
	"context"

	"github.com/angelmondragon/adjourney-backend/pkg/db/models"
	"gorm.io/gorm"
)

// VisitRepository exposes read and ingest access to raw page-view rows.
type VisitRepository interface {
	ListByVisitor(ctx context.Context, visitorID string) ([]models.PageVisitRow, error)
	ListByVisitorBetween(ctx context.Context, visitorID, fromDate, toDate string) ([]models.PageVisitRow, error)
	CreateBatch(ctx context.Context, rows []models.PageVisitRow) error
}

// Repository wires page-visit persistence to GORM.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// ListByVisitor returns every page-view row for the visitor, oldest first.
func (r *Repository) ListByVisitor(ctx context.Context, visitorID string) ([]models.PageVisitRow, error) {
	var rows []models.PageVisitRow
	if err := r.db.WithContext(ctx).
		Where("visitor_id = ?", visitorID).
		Order("timestamp ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// ListByVisitorBetween returns the visitor's page-view rows whose visit date
// falls inside the inclusive [fromDate, toDate] range. Dates are stored as
// YYYY-MM-DD text so the range compares lexicographically.
func (r *Repository) ListByVisitorBetween(ctx context.Context, visitorID, fromDate, toDate string) ([]models.PageVisitRow, error) {
	var rows []models.PageVisitRow
	if err := r.db.WithContext(ctx).
		Where("visitor_id = ? AND visit_date >= ? AND visit_date <= ?", visitorID, fromDate, toDate).
		Order("timestamp ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// CreateBatch inserts page-view rows in one statement.
func (r *Repository) CreateBatch(ctx context.Context, rows []models.PageVisitRow) error {
	if len(rows) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&rows).Error
}
