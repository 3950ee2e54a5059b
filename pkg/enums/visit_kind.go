package enums

import "fmt"

// VisitKind classifies a reconstructed visit within a journey.
type VisitKind string

const (
	VisitHistorical  VisitKind = "historical"
	VisitPurchaseDay VisitKind = "purchase_day"
)

var validVisitKinds = []VisitKind{
	VisitHistorical,
	VisitPurchaseDay,
}

// String implements fmt.Stringer.
func (v VisitKind) String() string {
	return string(v)
}

// IsValid reports whether the visit kind is recognized.
func (v VisitKind) IsValid() bool {
	for _, candidate := range validVisitKinds {
		if candidate == v {
			return true
		}
	}
	return false
}

// ParseVisitKind converts a raw string into a VisitKind.
func ParseVisitKind(value string) (VisitKind, error) {
	for _, candidate := range validVisitKinds {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid visit kind %q", value)
}
