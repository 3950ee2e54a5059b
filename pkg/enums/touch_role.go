package enums

import "fmt"

// TouchRole describes how a creative participated in a purchase order.
type TouchRole string

const (
	// TouchLastSingle marks the only creative seen before the purchase.
	TouchLastSingle TouchRole = "last_touch_single"
	// TouchLast marks the chronologically final creative of a multi-touch order.
	TouchLast TouchRole = "last_touch"
	// TouchAssist marks any non-final creative of a multi-touch order.
	TouchAssist TouchRole = "assist"
)

var validTouchRoles = []TouchRole{
	TouchLastSingle,
	TouchLast,
	TouchAssist,
}

// String implements fmt.Stringer.
func (r TouchRole) String() string {
	return string(r)
}

// IsValid reports whether the touch role is recognized.
func (r TouchRole) IsValid() bool {
	for _, candidate := range validTouchRoles {
		if candidate == r {
			return true
		}
	}
	return false
}

// IsLastTouch reports whether the role receives last-touch credit.
func (r TouchRole) IsLastTouch() bool {
	return r == TouchLast || r == TouchLastSingle
}

// ParseTouchRole converts a raw string into a TouchRole.
func ParseTouchRole(value string) (TouchRole, error) {
	for _, candidate := range validTouchRoles {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid touch role %q", value)
}
