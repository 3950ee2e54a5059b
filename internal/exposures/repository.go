package exposures

import (
	"context"

	"github.com/angelmondragon/adjourney-backend/pkg/db/models"
	"gorm.io/gorm"
)

// ExposureRepository exposes read and ingest access to campaign-exposure rows.
type ExposureRepository interface {
	ListByVisitor(ctx context.Context, visitorID string) ([]models.CampaignExposureRow, error)
	CreateBatch(ctx context.Context, rows []models.CampaignExposureRow) error
}

// Repository wires campaign-exposure persistence to GORM.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// ListByVisitor returns every campaign exposure for the visitor, oldest first.
func (r *Repository) ListByVisitor(ctx context.Context, visitorID string) ([]models.CampaignExposureRow, error) {
	var rows []models.CampaignExposureRow
	if err := r.db.WithContext(ctx).
		Where("visitor_id = ?", visitorID).
		Order("entry_time ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// CreateBatch inserts campaign-exposure rows in one statement.
func (r *Repository) CreateBatch(ctx context.Context, rows []models.CampaignExposureRow) error {
	if len(rows) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&rows).Error
}
