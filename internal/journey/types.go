package journey

import (
	"fmt"
	"strings"
	"time"

	"github.com/angelmondragon/adjourney-backend/pkg/enums"
)

const (
	// MaxDwellSeconds caps a single page's dwell time. Anything above is an
	// instrumentation artifact, not real reading time. Tunable only with
	// domain-owner signoff.
	MaxDwellSeconds = 600

	// ExposureMatchWindow is how far a campaign beacon may fire before or
	// after the destination page view and still count as the same landing.
	ExposureMatchWindow = 30 * time.Second

	// DefaultColumnSlots is the display capacity of one journey column.
	DefaultColumnSlots = 4

	keyDelimiter = ":-:"

	dateLayout = "2006-01-02"
)

// PageEvent is one page view from the visit store.
type PageEvent struct {
	URL          string    `json:"url"`
	CleanURL     string    `json:"clean_url"`
	Title        *string   `json:"title,omitempty"`
	Timestamp    time.Time `json:"timestamp"`
	DwellSeconds int       `json:"dwell_seconds"`
}

// NormalizedURL is the identity used for duplicate collapsing.
func (p PageEvent) NormalizedURL() string {
	if p.CleanURL != "" {
		return p.CleanURL
	}
	return p.URL
}

// RawPageRow is a PageEvent tagged with the calendar day it belongs to.
type RawPageRow struct {
	PageEvent
	VisitDate string `json:"visit_date"`
}

// Exposure is one campaign landing recorded by the measurement beacon.
type Exposure struct {
	EntryTime time.Time `json:"entry_time"`
	Source    string    `json:"source"`
	Medium    string    `json:"medium"`
	Campaign  string    `json:"campaign"`
	Content   string    `json:"content"`
}

// CreativeKey is the composite identity of the ad creative behind this
// exposure. Two exposures with equal keys are the same advertising touch.
func (e Exposure) CreativeKey() string {
	return strings.Join([]string{e.Content, e.Source, e.Medium, e.Campaign}, keyDelimiter)
}

// AnnotatedPage is a page view optionally paired with the exposure that led
// the visitor to it.
type AnnotatedPage struct {
	PageEvent
	AdEntry *Exposure `json:"ad_entry,omitempty"`
}

// SlotCost is the display cost of the page: an exposure-annotated page is
// rendered as two linked cards.
func (p AnnotatedPage) SlotCost() int {
	if p.AdEntry != nil {
		return 2
	}
	return 1
}

// Visit is one calendar day of activity inside a journey.
type Visit struct {
	Date              string          `json:"date"`
	Kind              enums.VisitKind `json:"kind"`
	Number            int             `json:"number"`
	Pages             []AnnotatedPage `json:"pages"`
	TotalDwellSeconds int             `json:"total_dwell_seconds"`
}

// Label renders the visit heading shown on the journey timeline.
func (v Visit) Label() string {
	if v.Kind == enums.VisitPurchaseDay {
		return fmt.Sprintf("visit %d (purchase)", v.Number)
	}
	return fmt.Sprintf("visit %d (no purchase / bounce)", v.Number)
}

// Journey is the full ordered visit history reconstructed for one purchase.
type Journey struct {
	VisitorID string  `json:"visitor_id"`
	Visits    []Visit `json:"visits"`
}

// DateRange is an inclusive calendar-day filter.
type DateRange struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// Contains reports whether the given visit date falls inside the range.
func (r DateRange) Contains(date string) bool {
	return date >= r.Start && date <= r.End
}

func dateOf(t time.Time) string {
	return t.UTC().Format(dateLayout)
}
