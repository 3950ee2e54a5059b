package journey

// Normalize collapses runs of consecutive page events sharing a normalized
// URL into a single record carrying the earliest timestamp and the summed
// dwell time, clamped to MaxDwellSeconds. Non-adjacent repeats of a URL are
// kept: a visitor returning to a page after viewing something else is a
// distinct data point. Normalize is idempotent.
func Normalize(events []PageEvent) []PageEvent {
	if len(events) == 0 {
		return nil
	}

	out := make([]PageEvent, 0, len(events))
	current := events[0]
	current.DwellSeconds = clampDwell(current.DwellSeconds)

	for _, next := range events[1:] {
		if next.NormalizedURL() == current.NormalizedURL() {
			current.DwellSeconds = clampDwell(current.DwellSeconds + clampDwell(next.DwellSeconds))
			if next.Timestamp.Before(current.Timestamp) {
				current.Timestamp = next.Timestamp
			}
			continue
		}
		out = append(out, current)
		current = next
		current.DwellSeconds = clampDwell(current.DwellSeconds)
	}

	return append(out, current)
}

func clampDwell(seconds int) int {
	if seconds < 0 {
		return 0
	}
	if seconds > MaxDwellSeconds {
		return MaxDwellSeconds
	}
	return seconds
}
