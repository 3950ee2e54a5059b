package journey

import (
	"sort"
	"time"

	"github.com/angelmondragon/adjourney-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/adjourney-backend/pkg/errors"
)

// PurchaseDay carries the purchase timestamp and the page path the visitor
// walked on the day of the purchase.
type PurchaseDay struct {
	At    time.Time
	Pages []PageEvent
}

// Segment groups raw visit rows into calendar-day visits, runs each through
// the normalizer, and appends the purchase-day visit synthesized from the
// purchase page path. Rows dated on or after the purchase date are discarded
// outright; a purchase cannot be journeyed against future or same-day
// duplicate visit records. When filter is non-nil only historical visits
// inside the inclusive range survive. Visits come back sorted ascending by
// date with 1-based numbers assigned after sorting.
func Segment(rows []RawPageRow, purchase PurchaseDay, filter *DateRange) ([]Visit, error) {
	if purchase.At.IsZero() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "purchase timestamp is required")
	}
	if filter != nil && filter.Start > filter.End {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "date range start must not be after end").
			WithDetails(map[string]any{"start": filter.Start, "end": filter.End})
	}

	purchaseDate := dateOf(purchase.At)

	grouped := make(map[string][]PageEvent)
	for _, row := range rows {
		if row.VisitDate >= purchaseDate {
			continue
		}
		if filter != nil && !filter.Contains(row.VisitDate) {
			continue
		}
		grouped[row.VisitDate] = append(grouped[row.VisitDate], row.PageEvent)
	}

	dates := make([]string, 0, len(grouped))
	for date := range grouped {
		dates = append(dates, date)
	}
	sort.Strings(dates)

	visits := make([]Visit, 0, len(dates)+1)
	for _, date := range dates {
		visits = append(visits, buildVisit(date, enums.VisitHistorical, grouped[date]))
	}
	visits = append(visits, buildVisit(purchaseDate, enums.VisitPurchaseDay, purchase.Pages))

	for i := range visits {
		visits[i].Number = i + 1
	}
	return visits, nil
}

func buildVisit(date string, kind enums.VisitKind, pages []PageEvent) Visit {
	ordered := make([]PageEvent, len(pages))
	copy(ordered, pages)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Timestamp.Before(ordered[j].Timestamp)
	})

	normalized := Normalize(ordered)

	visit := Visit{
		Date:  date,
		Kind:  kind,
		Pages: make([]AnnotatedPage, 0, len(normalized)),
	}
	for _, page := range normalized {
		visit.Pages = append(visit.Pages, AnnotatedPage{PageEvent: page})
		visit.TotalDwellSeconds += page.DwellSeconds
	}
	return visit
}
