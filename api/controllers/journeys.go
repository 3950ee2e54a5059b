package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/angelmondragon/adjourney-backend/api/responses"
	"github.com/angelmondragon/adjourney-backend/api/validators"
	"github.com/angelmondragon/adjourney-backend/internal/journey"
	"github.com/angelmondragon/adjourney-backend/internal/journeys"
	pkgerrors "github.com/angelmondragon/adjourney-backend/pkg/errors"
	"github.com/angelmondragon/adjourney-backend/pkg/logger"
)

// VisitorJourney serves the reconstructed pre-purchase journey for a visitor,
// optionally limited to an inclusive visit-date range.
func VisitorJourney(svc journeys.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		visitorID := chi.URLParam(r, "visitorID")
		if logg != nil {
			ctx = logg.WithVisitorID(ctx, visitorID)
		}

		filter, err := resolveDateRange(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		view, err := svc.VisitorJourney(ctx, visitorID, filter)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, view)
	}
}

func resolveDateRange(r *http.Request) (*journey.DateRange, error) {
	from, err := validators.ParseQueryDate(r, "from")
	if err != nil {
		return nil, err
	}
	to, err := validators.ParseQueryDate(r, "to")
	if err != nil {
		return nil, err
	}
	if from == "" && to == "" {
		return nil, nil
	}
	if from == "" || to == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "from and to must be provided together")
	}
	if from > to {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "from must not be after to").
			WithDetails(map[string]any{"from": from, "to": to})
	}
	return &journey.DateRange{Start: from, End: to}, nil
}
