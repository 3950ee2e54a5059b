package journeys

import (
	"context"
	"encoding/json"
	"time"

	"github.com/angelmondragon/adjourney-backend/internal/journey"
	"github.com/angelmondragon/adjourney-backend/pkg/config"
	"github.com/angelmondragon/adjourney-backend/pkg/db/models"
	"github.com/angelmondragon/adjourney-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/adjourney-backend/pkg/errors"
	"github.com/angelmondragon/adjourney-backend/pkg/logger"
	"github.com/angelmondragon/adjourney-backend/pkg/metrics"
	"github.com/angelmondragon/adjourney-backend/pkg/redis"
)

// Service reconstructs and serves visitor journeys.
type Service interface {
	VisitorJourney(ctx context.Context, visitorID string, filter *journey.DateRange) (*JourneyView, error)
}

type visitReader interface {
	ListByVisitor(ctx context.Context, visitorID string) ([]models.PageVisitRow, error)
}

type exposureReader interface {
	ListByVisitor(ctx context.Context, visitorID string) ([]models.CampaignExposureRow, error)
}

type orderReader interface {
	ListByVisitor(ctx context.Context, visitorID string) ([]models.PurchaseOrderRow, error)
}

// VisitView is one rendered visit: the segmented day plus its column layout.
type VisitView struct {
	Date              string           `json:"date"`
	Kind              enums.VisitKind  `json:"kind"`
	Number            int              `json:"number"`
	Label             string           `json:"label"`
	TotalDwellSeconds int              `json:"total_dwell_seconds"`
	Columns           []journey.Column `json:"columns"`
}

// JourneyView is the full reconstructed journey for one visitor's latest
// purchase, ready to serve.
type JourneyView struct {
	VisitorID  string      `json:"visitor_id"`
	PurchaseAt time.Time   `json:"purchase_at"`
	Visits     []VisitView `json:"visits"`
}

type service struct {
	visits    visitReader
	exposures exposureReader
	orders    orderReader
	cache     redis.JourneyCache
	journey   config.JourneyConfig
	logg      *logger.Logger
	metrics   *metrics.PipelineMetrics
	now       func() time.Time
}

// NewService builds the journey service. The cache may be nil; reconstruction
// then runs uncached.
func NewService(
	visits visitReader,
	exposures exposureReader,
	orders orderReader,
	cache redis.JourneyCache,
	journeyCfg config.JourneyConfig,
	logg *logger.Logger,
	pipelineMetrics *metrics.PipelineMetrics,
) Service {
	return &service{
		visits:    visits,
		exposures: exposures,
		orders:    orders,
		cache:     cache,
		journey:   journeyCfg,
		logg:      logg,
		metrics:   pipelineMetrics,
		now:       time.Now,
	}
}

// VisitorJourney rebuilds the visitor's pre-purchase journey from raw rows.
// The cache only short-circuits the rebuild; a cache failure is logged and
// the journey is recomputed from the stores.
func (s *service) VisitorJourney(ctx context.Context, visitorID string, filter *journey.DateRange) (*JourneyView, error) {
	if visitorID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "visitor id is required")
	}

	cacheKey := ""
	if s.cacheEnabled() {
		cacheKey = s.cache.JourneyKey(visitorID, rangeTag(filter))
		if cached, err := s.cache.Get(ctx, cacheKey); err == nil {
			var view JourneyView
			if unmarshalErr := json.Unmarshal([]byte(cached), &view); unmarshalErr == nil {
				return &view, nil
			}
		} else if !s.cache.IsCacheMiss(err) {
			s.logg.Warn(s.logg.WithVisitorID(ctx, visitorID), "journey cache read failed")
		}
	}

	view, err := s.reconstruct(ctx, visitorID, filter)
	if err != nil {
		return nil, err
	}

	if cacheKey != "" {
		if payload, marshalErr := json.Marshal(view); marshalErr == nil {
			if setErr := s.cache.Set(ctx, cacheKey, payload, s.journey.CacheTTL); setErr != nil {
				s.logg.Warn(s.logg.WithVisitorID(ctx, visitorID), "journey cache write failed")
			}
		}
	}
	return view, nil
}

func (s *service) reconstruct(ctx context.Context, visitorID string, filter *journey.DateRange) (*JourneyView, error) {
	orderRows, err := s.orders.ListByVisitor(ctx, visitorID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to load purchase orders")
	}
	if len(orderRows) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "no purchase recorded for visitor").
			WithDetails(map[string]any{"visitor_id": visitorID})
	}
	purchaseAt := orderRows[len(orderRows)-1].OrderedAt

	visitRows, err := s.visits.ListByVisitor(ctx, visitorID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to load page visits")
	}
	exposureRows, err := s.exposures.ListByVisitor(ctx, visitorID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to load campaign exposures")
	}
	s.metrics.AddPages("loaded", len(visitRows))

	rawRows, purchasePages := splitPurchaseDay(visitRows, purchaseAt)
	purchase := journey.PurchaseDay{At: purchaseAt, Pages: purchasePages}

	segmentStart := s.now()
	visits, err := journey.Segment(rawRows, purchase, filter)
	if err != nil {
		return nil, err
	}
	s.metrics.ObserveStage("segment", s.now().Sub(segmentStart))

	correlateStart := s.now()
	visits = journey.Correlate(visits, toExposures(exposureRows))
	s.metrics.ObserveStage("correlate", s.now().Sub(correlateStart))

	matched := countMatched(visits)
	s.metrics.AddExposures("matched", matched)
	s.metrics.AddExposures("unmatched", len(exposureRows)-matched)

	layoutStart := s.now()
	view := &JourneyView{VisitorID: visitorID, PurchaseAt: purchaseAt, Visits: make([]VisitView, 0, len(visits))}
	for _, visit := range visits {
		view.Visits = append(view.Visits, VisitView{
			Date:              visit.Date,
			Kind:              visit.Kind,
			Number:            visit.Number,
			Label:             visit.Label(),
			TotalDwellSeconds: visit.TotalDwellSeconds,
			Columns:           journey.PlanColumns(visit.Pages, journey.DefaultColumnSlots),
		})
	}
	s.metrics.ObserveStage("layout", s.now().Sub(layoutStart))

	return view, nil
}

func (s *service) cacheEnabled() bool {
	return s.cache != nil && s.journey.CacheEnabled
}

func rangeTag(filter *journey.DateRange) string {
	if filter == nil {
		return "all"
	}
	return filter.Start + "_" + filter.End
}

// splitPurchaseDay separates historical rows from the purchase-day page path.
// Rows after the purchase moment are not part of the path that led to it.
func splitPurchaseDay(rows []models.PageVisitRow, purchaseAt time.Time) ([]journey.RawPageRow, []journey.PageEvent) {
	purchaseDate := purchaseAt.UTC().Format("2006-01-02")

	raw := make([]journey.RawPageRow, 0, len(rows))
	var purchasePages []journey.PageEvent
	for _, row := range rows {
		event := journey.PageEvent{
			URL:          row.PageURL,
			CleanURL:     row.CleanURL,
			Title:        row.PageTitle,
			Timestamp:    row.Timestamp,
			DwellSeconds: row.TimeSpentSeconds,
		}
		if row.VisitDate == purchaseDate {
			if !row.Timestamp.After(purchaseAt) {
				purchasePages = append(purchasePages, event)
			}
			continue
		}
		raw = append(raw, journey.RawPageRow{PageEvent: event, VisitDate: row.VisitDate})
	}
	return raw, purchasePages
}

func toExposures(rows []models.CampaignExposureRow) []journey.Exposure {
	exposures := make([]journey.Exposure, 0, len(rows))
	for _, row := range rows {
		exposures = append(exposures, journey.Exposure{
			EntryTime: row.EntryTime,
			Source:    row.UTMSource,
			Medium:    row.UTMMedium,
			Campaign:  row.UTMCampaign,
			Content:   row.CreativeName,
		})
	}
	return exposures
}

func countMatched(visits []journey.Visit) int {
	matched := 0
	for _, visit := range visits {
		for _, page := range visit.Pages {
			if page.AdEntry != nil {
				matched++
			}
		}
	}
	return matched
}
