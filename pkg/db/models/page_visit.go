package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PageVisitRow is one raw page-view row from the visit store. Rows are
// append-only; the journey pipeline never mutates them.
type PageVisitRow struct {
	ID               uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	VisitorID        string    `gorm:"column:visitor_id;type:text;not null;index"`
	PageURL          string    `gorm:"column:page_url;type:text;not null"`
	CleanURL         string    `gorm:"column:clean_url;type:text;not null"`
	PageTitle        *string   `gorm:"column:page_title;type:text"`
	VisitDate        string    `gorm:"column:visit_date;type:text;not null;index"`
	Timestamp        time.Time `gorm:"column:timestamp;not null"`
	TimeSpentSeconds int       `gorm:"column:time_spent_seconds;not null;default:0"`
	CreatedAt        time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (PageVisitRow) TableName() string { return "page_visits" }

func (r *PageVisitRow) BeforeCreate(_ *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}
