package controllers

import (
	"net/http"
	"time"

	"github.com/angelmondragon/adjourney-backend/api/responses"
	"github.com/angelmondragon/adjourney-backend/api/validators"
	"github.com/angelmondragon/adjourney-backend/internal/attribution"
	"github.com/angelmondragon/adjourney-backend/pkg/logger"
)

type attributeOrdersRequest struct {
	Orders []attribution.OrderInput `json:"orders" validate:"required,min=1,dive"`
}

// AttributeOrders splits each submitted order's payment across its creative
// touches. Orders that fail validation are reported per order; the batch
// itself still succeeds.
func AttributeOrders(svc attribution.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var req attributeOrdersRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		batch, err := svc.AttributeOrders(ctx, req.Orders)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, batch)
	}
}

// CreativeSummaries reports per-creative attribution aggregates across the
// stored orders, optionally limited to an inclusive order-date range.
func CreativeSummaries(svc attribution.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		window, err := resolveReportWindow(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		summaries, err := svc.CreativeSummaries(ctx, window)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, summaries)
	}
}

func resolveReportWindow(r *http.Request) (*attribution.ReportWindow, error) {
	dates, err := resolveDateRange(r)
	if err != nil {
		return nil, err
	}
	if dates == nil {
		return nil, nil
	}
	from, err := time.Parse("2006-01-02", dates.Start)
	if err != nil {
		return nil, err
	}
	to, err := time.Parse("2006-01-02", dates.End)
	if err != nil {
		return nil, err
	}
	return &attribution.ReportWindow{From: from, To: to.Add(24 * time.Hour)}, nil
}
