package attribution

import (
	"github.com/angelmondragon/adjourney-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/adjourney-backend/pkg/errors"
	"github.com/shopspring/decimal"
)

var (
	hundred = decimal.NewFromInt(100)
	fifty   = decimal.NewFromInt(50)
)

// Touch is one creative's share of a single purchase.
type Touch struct {
	CreativeKey      string          `json:"creative_key"`
	Role             enums.TouchRole `json:"role"`
	ContributionRate decimal.Decimal `json:"contribution_rate"`
	AttributedCents  int64           `json:"attributed_cents"`
}

// DisplayRate is the contribution percentage rounded to one decimal place.
// Presentation only; money is always derived from the unrounded rate.
func (t Touch) DisplayRate() decimal.Decimal {
	return t.ContributionRate.Round(1)
}

// Result is the attribution of one purchase order across its touches.
type Result struct {
	OrderID           string  `json:"order_id"`
	FinalPaymentCents int64   `json:"final_payment_cents"`
	Touches           []Touch `json:"touches"`
}

// Attribute splits a purchase payment across the ordered distinct creatives
// seen before it. One creative takes everything; with N >= 2 the last touch
// takes 50% and the N-1 assists split the other 50% evenly. Every touch
// amount is computed independently from the unrounded fraction; whole-cent
// rounding happens per touch and the remainder lands on the last touch, so
// the amounts always sum exactly to the payment. An order with no preceding
// creatives returns an empty result, not an error.
func Attribute(orderID string, finalPaymentCents int64, creativeKeys []string) (*Result, error) {
	if orderID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id is required")
	}
	if finalPaymentCents < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "final payment must not be negative").
			WithDetails(map[string]any{"order_id": orderID, "final_payment_cents": finalPaymentCents})
	}

	keys, err := dedupeKeys(orderID, creativeKeys)
	if err != nil {
		return nil, err
	}

	result := &Result{OrderID: orderID, FinalPaymentCents: finalPaymentCents}
	n := len(keys)
	if n == 0 {
		return result, nil
	}

	if n == 1 {
		result.Touches = []Touch{{
			CreativeKey:      keys[0],
			Role:             enums.TouchLastSingle,
			ContributionRate: hundred,
			AttributedCents:  finalPaymentCents,
		}}
		return result, nil
	}

	assistRate := fifty.Div(decimal.NewFromInt(int64(n - 1)))
	payment := decimal.NewFromInt(finalPaymentCents)

	touches := make([]Touch, 0, n)
	var assistTotal int64
	for _, key := range keys[:n-1] {
		amount := payment.Mul(assistRate).Div(hundred).Round(0).IntPart()
		assistTotal += amount
		touches = append(touches, Touch{
			CreativeKey:      key,
			Role:             enums.TouchAssist,
			ContributionRate: assistRate,
			AttributedCents:  amount,
		})
	}

	touches = append(touches, Touch{
		CreativeKey:      keys[n-1],
		Role:             enums.TouchLast,
		ContributionRate: fifty,
		AttributedCents:  finalPaymentCents - assistTotal,
	})

	result.Touches = touches
	return result, nil
}

func dedupeKeys(orderID string, creativeKeys []string) ([]string, error) {
	seen := make(map[string]struct{}, len(creativeKeys))
	keys := make([]string, 0, len(creativeKeys))
	for _, key := range creativeKeys {
		if key == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "creative key must not be empty").
				WithDetails(map[string]any{"order_id": orderID})
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		keys = append(keys, key)
	}
	return keys, nil
}
