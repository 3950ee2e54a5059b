package attribution

import (
	"context"
	"time"

	"github.com/angelmondragon/adjourney-backend/internal/journey"
	"github.com/angelmondragon/adjourney-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/adjourney-backend/pkg/errors"
	"github.com/angelmondragon/adjourney-backend/pkg/logger"
	"github.com/angelmondragon/adjourney-backend/pkg/metrics"
	"go.uber.org/multierr"
)

// Service exposes attribution over ad-hoc and stored purchase orders.
type Service interface {
	AttributeOrders(ctx context.Context, inputs []OrderInput) (*BatchResult, error)
	CreativeSummaries(ctx context.Context, window *ReportWindow) ([]CreativeSummary, error)
}

type orderLister interface {
	ListAll(ctx context.Context) ([]models.PurchaseOrderRow, error)
	ListBetween(ctx context.Context, from, to time.Time) ([]models.PurchaseOrderRow, error)
}

// ReportWindow bounds a creative report to orders placed in [From, To).
type ReportWindow struct {
	From time.Time
	To   time.Time
}

// OrderInput is one order submitted for attribution, with its creatives
// in the order they were first seen.
type OrderInput struct {
	OrderID           string   `json:"order_id" validate:"required"`
	FinalPaymentCents int64    `json:"final_payment_cents" validate:"gte=0"`
	CreativeKeys      []string `json:"creative_keys" validate:"dive,required"`
}

// OrderFailure records why one order in a batch could not be attributed.
type OrderFailure struct {
	OrderID string `json:"order_id"`
	Reason  string `json:"reason"`
}

// BatchResult carries the attributions that succeeded alongside the
// per-order failures. A bad order never sinks the batch.
type BatchResult struct {
	Results  []Result       `json:"results"`
	Failures []OrderFailure `json:"failures"`
}

type service struct {
	orders  orderLister
	logg    *logger.Logger
	metrics *metrics.PipelineMetrics
}

// NewService builds the attribution service.
func NewService(orders orderLister, logg *logger.Logger, pipelineMetrics *metrics.PipelineMetrics) Service {
	return &service{orders: orders, logg: logg, metrics: pipelineMetrics}
}

// AttributeOrders runs the split engine over each submitted order,
// collecting failures instead of aborting.
func (s *service) AttributeOrders(ctx context.Context, inputs []OrderInput) (*BatchResult, error) {
	batch := &BatchResult{Results: make([]Result, 0, len(inputs))}
	var errs error

	for _, input := range inputs {
		result, err := Attribute(input.OrderID, input.FinalPaymentCents, input.CreativeKeys)
		if err != nil {
			errs = multierr.Append(errs, err)
			batch.Failures = append(batch.Failures, OrderFailure{OrderID: input.OrderID, Reason: err.Error()})
			s.logg.Warn(s.logg.WithOrderID(ctx, input.OrderID), "order attribution failed")
			s.metrics.IncOrders("failed")
			continue
		}
		batch.Results = append(batch.Results, *result)
		s.metrics.IncOrders("ok")
	}

	if errs != nil {
		logCtx := s.logg.WithFields(ctx, map[string]any{
			"failed":     len(batch.Failures),
			"attributed": len(batch.Results),
			"errors":     errs.Error(),
		})
		s.logg.Warn(logCtx, "batch attribution finished with failures")
	}
	return batch, nil
}

// CreativeSummaries attributes every stored order and rolls the results up
// per creative. Malformed rows are skipped and logged; the report covers
// the rest.
func (s *service) CreativeSummaries(ctx context.Context, window *ReportWindow) ([]CreativeSummary, error) {
	var rows []models.PurchaseOrderRow
	var err error
	if window != nil {
		rows, err = s.orders.ListBetween(ctx, window.From, window.To)
	} else {
		rows, err = s.orders.ListAll(ctx)
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to load purchase orders")
	}

	results := make([]Result, 0, len(rows))
	var errs error
	for _, row := range rows {
		result, attrErr := Attribute(row.ID.String(), row.FinalPaymentCents, creativeKeysOf(row))
		if attrErr != nil {
			errs = multierr.Append(errs, attrErr)
			s.metrics.IncOrders("failed")
			continue
		}
		results = append(results, *result)
		s.metrics.IncOrders("ok")
	}

	if errs != nil {
		logCtx := s.logg.WithFields(ctx, map[string]any{
			"skipped": len(rows) - len(results),
			"errors":  errs.Error(),
		})
		s.logg.Warn(logCtx, "creative summary skipped malformed orders")
	}

	summaries := Summarize(results)
	for _, summary := range summaries {
		if !summary.Reconciled() {
			s.logg.Warn(s.logg.WithCreativeKey(ctx, summary.CreativeKey), "verification buckets do not reconcile")
			return nil, pkgerrors.New(pkgerrors.CodeInternal, "verification buckets do not reconcile").
				WithDetails(map[string]any{"creative_key": summary.CreativeKey})
		}
	}
	return summaries, nil
}

func creativeKeysOf(row models.PurchaseOrderRow) []string {
	keys := make([]string, 0, len(row.Touches))
	for _, touch := range row.Touches {
		exposure := journey.Exposure{
			Source:   touch.UTMSource,
			Medium:   touch.UTMMedium,
			Campaign: touch.UTMCampaign,
			Content:  touch.CreativeName,
		}
		keys = append(keys, exposure.CreativeKey())
	}
	return keys
}
