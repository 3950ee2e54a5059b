package attribution

import (
	"testing"

	"github.com/angelmondragon/adjourney-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/adjourney-backend/pkg/errors"
	"github.com/shopspring/decimal"
)

func TestAttributeThreeTouchSplit(t *testing.T) {
	t.Parallel()

	result, err := Attribute("ord-1", 1_000_000, []string{"creative-a", "creative-b", "creative-c"})
	if err != nil {
		t.Fatalf("Attribute: %v", err)
	}
	if len(result.Touches) != 3 {
		t.Fatalf("expected 3 touches, got %d", len(result.Touches))
	}

	a, b, c := result.Touches[0], result.Touches[1], result.Touches[2]
	if a.Role != enums.TouchAssist || b.Role != enums.TouchAssist {
		t.Fatalf("expected assists, got %s / %s", a.Role, b.Role)
	}
	if c.Role != enums.TouchLast {
		t.Fatalf("expected last touch, got %s", c.Role)
	}
	if a.AttributedCents != 250_000 || b.AttributedCents != 250_000 {
		t.Fatalf("expected 250000 per assist, got %d / %d", a.AttributedCents, b.AttributedCents)
	}
	if c.AttributedCents != 500_000 {
		t.Fatalf("expected 500000 for last touch, got %d", c.AttributedCents)
	}
	if !a.ContributionRate.Equal(decimal.NewFromInt(25)) {
		t.Fatalf("expected 25%% assist rate, got %s", a.ContributionRate)
	}
	if !c.ContributionRate.Equal(decimal.NewFromInt(50)) {
		t.Fatalf("expected 50%% last-touch rate, got %s", c.ContributionRate)
	}
}

func TestAttributeSingleTouchTakesEverything(t *testing.T) {
	t.Parallel()

	result, err := Attribute("ord-2", 300_000, []string{"creative-a"})
	if err != nil {
		t.Fatalf("Attribute: %v", err)
	}
	if len(result.Touches) != 1 {
		t.Fatalf("expected 1 touch, got %d", len(result.Touches))
	}
	touch := result.Touches[0]
	if touch.Role != enums.TouchLastSingle {
		t.Fatalf("expected %s, got %s", enums.TouchLastSingle, touch.Role)
	}
	if touch.AttributedCents != 300_000 {
		t.Fatalf("expected full payment, got %d", touch.AttributedCents)
	}
	if !touch.ContributionRate.Equal(decimal.NewFromInt(100)) {
		t.Fatalf("expected 100%% rate, got %s", touch.ContributionRate)
	}
}

func TestAttributeAmountsAlwaysSumToPayment(t *testing.T) {
	t.Parallel()

	keys := []string{"a", "b", "c", "d", "e", "f", "g"}
	for n := 1; n <= len(keys); n++ {
		for _, payment := range []int64{0, 1, 99, 1000, 33_333, 1_000_001} {
			result, err := Attribute("ord", payment, keys[:n])
			if err != nil {
				t.Fatalf("Attribute n=%d payment=%d: %v", n, payment, err)
			}
			var sum int64
			for _, touch := range result.Touches {
				sum += touch.AttributedCents
			}
			if sum != payment {
				t.Fatalf("n=%d payment=%d: touches sum to %d", n, payment, sum)
			}
		}
	}
}

func TestAttributeFourTouchRemainderGoesToLast(t *testing.T) {
	t.Parallel()

	result, err := Attribute("ord-4", 1000, []string{"a", "b", "c", "d"})
	if err != nil {
		t.Fatalf("Attribute: %v", err)
	}
	// 50/3 percent of 1000 is 166.66, rounded to 167 per assist.
	for _, assist := range result.Touches[:3] {
		if assist.AttributedCents != 167 {
			t.Fatalf("expected 167 per assist, got %d", assist.AttributedCents)
		}
		if got := assist.DisplayRate(); got.String() != "16.7" {
			t.Fatalf("expected display rate 16.7, got %s", got)
		}
	}
	if last := result.Touches[3]; last.AttributedCents != 499 {
		t.Fatalf("expected 499 for last touch, got %d", last.AttributedCents)
	}
}

func TestAttributeNoTouchesIsValid(t *testing.T) {
	t.Parallel()

	result, err := Attribute("ord-5", 500, nil)
	if err != nil {
		t.Fatalf("Attribute: %v", err)
	}
	if len(result.Touches) != 0 {
		t.Fatalf("expected no touches, got %d", len(result.Touches))
	}
	if result.FinalPaymentCents != 500 {
		t.Fatalf("expected payment preserved, got %d", result.FinalPaymentCents)
	}
}

func TestAttributeDeduplicatesFirstSeen(t *testing.T) {
	t.Parallel()

	result, err := Attribute("ord-6", 900, []string{"a", "b", "a", "c", "b"})
	if err != nil {
		t.Fatalf("Attribute: %v", err)
	}
	got := make([]string, 0, len(result.Touches))
	for _, touch := range result.Touches {
		got = append(got, touch.CreativeKey)
	}
	want := []string{"a", "b", "c"}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}
	if result.Touches[2].Role != enums.TouchLast {
		t.Fatalf("expected c to be last touch, got %s", result.Touches[2].Role)
	}
}

func TestAttributeRejectsBadInput(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		orderID string
		payment int64
		keys    []string
	}{
		{name: "negative payment", orderID: "ord", payment: -1, keys: []string{"a"}},
		{name: "empty creative key", orderID: "ord", payment: 100, keys: []string{"a", ""}},
		{name: "missing order id", orderID: "", payment: 100, keys: []string{"a"}},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			_, err := Attribute(tc.orderID, tc.payment, tc.keys)
			if err == nil {
				t.Fatal("expected error")
			}
			typed := pkgerrors.As(err)
			if typed == nil || typed.Code() != pkgerrors.CodeValidation {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}
}
