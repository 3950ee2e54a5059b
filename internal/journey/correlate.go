package journey

import "time"

// Correlate threads the full exposure set through every visit in order,
// annotating pages whose timestamps sit within ExposureMatchWindow of an
// exposure's entry time. The pool is shared across visits so a single
// campaign click can only ever be credited to one page load in the whole
// journey. Unmatched exposures are dropped; they belong to no observed page.
func Correlate(visits []Visit, exposures []Exposure) []Visit {
	pool := make([]Exposure, len(exposures))
	copy(pool, exposures)

	out := make([]Visit, len(visits))
	for i, visit := range visits {
		out[i], pool = CorrelateVisit(visit, pool)
	}
	return out
}

// CorrelateVisit annotates a single visit's pages against the provided
// exposure pool, returning the updated visit and the remaining pool. The
// function is a pure fold; callers thread the pool explicitly.
func CorrelateVisit(visit Visit, pool []Exposure) (Visit, []Exposure) {
	pages := make([]AnnotatedPage, len(visit.Pages))
	copy(pages, visit.Pages)

	for i := range pages {
		matched, remaining := takeClosestExposure(pages[i].Timestamp, pool)
		if matched != nil {
			entry := *matched
			pages[i].AdEntry = &entry
			pool = remaining
		}
	}

	visit.Pages = pages
	return visit, pool
}

// takeClosestExposure picks the pool exposure nearest the page timestamp
// within the matching window and returns the pool without it. On an exact
// distance tie the earliest entry time wins, keeping the match
// deterministic regardless of pool order.
func takeClosestExposure(pageAt time.Time, pool []Exposure) (*Exposure, []Exposure) {
	bestIdx := -1
	for i, exposure := range pool {
		diff := absDuration(pageAt.Sub(exposure.EntryTime))
		if diff > ExposureMatchWindow {
			continue
		}
		if bestIdx == -1 {
			bestIdx = i
			continue
		}
		bestDiff := absDuration(pageAt.Sub(pool[bestIdx].EntryTime))
		switch {
		case diff < bestDiff:
			bestIdx = i
		case diff == bestDiff && exposure.EntryTime.Before(pool[bestIdx].EntryTime):
			bestIdx = i
		}
	}

	if bestIdx == -1 {
		return nil, pool
	}

	matched := pool[bestIdx]
	remaining := make([]Exposure, 0, len(pool)-1)
	remaining = append(remaining, pool[:bestIdx]...)
	remaining = append(remaining, pool[bestIdx+1:]...)
	return &matched, remaining
}

func absDuration(d time.Duration) time.Duration {
	if d < 0 {
		return -d
	}
	return d
}
