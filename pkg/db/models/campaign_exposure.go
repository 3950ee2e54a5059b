package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CampaignExposureRow is one inbound campaign-exposure row (a UTM-tagged
// landing recorded by the measurement beacon).
type CampaignExposureRow struct {
	ID           uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	VisitorID    string    `gorm:"column:visitor_id;type:text;not null;index"`
	EntryTime    time.Time `gorm:"column:entry_time;not null"`
	UTMSource    string    `gorm:"column:utm_source;type:text;not null"`
	UTMMedium    string    `gorm:"column:utm_medium;type:text;not null"`
	UTMCampaign  string    `gorm:"column:utm_campaign;type:text;not null"`
	CreativeName string    `gorm:"column:creative_name;type:text;not null"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (CampaignExposureRow) TableName() string { return "campaign_exposures" }

func (r *CampaignExposureRow) BeforeCreate(_ *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}
