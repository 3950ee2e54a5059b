package attribution

import (
	"sort"

	"github.com/shopspring/decimal"
)

// VerificationBucket counts the orders and revenue a creative earned
// through one credit tier.
type VerificationBucket struct {
	Orders       int   `json:"orders"`
	RevenueCents int64 `json:"revenue_cents"`
}

// VerificationBreakdown splits a creative's attributed revenue into the
// three credit tiers. The tier revenues always sum to AttributedRevenueCents.
type VerificationBreakdown struct {
	LastTouch100 VerificationBucket `json:"last_touch_100"`
	LastTouch50  VerificationBucket `json:"last_touch_50"`
	Assist       VerificationBucket `json:"assist"`
}

// CreativeSummary aggregates attribution results for one creative across
// a batch of orders.
type CreativeSummary struct {
	CreativeKey            string                `json:"creative_key"`
	TotalOrders            int                   `json:"total_orders"`
	LastTouchOrders        int                   `json:"last_touch_orders"`
	LastTouchRatio         decimal.Decimal       `json:"last_touch_ratio"`
	AssistOrders           int                   `json:"assist_orders"`
	AssistRatio            decimal.Decimal       `json:"assist_ratio"`
	SingleTouchOrders      int                   `json:"single_touch_orders"`
	AttributedRevenueCents int64                 `json:"attributed_revenue_cents"`
	LastTouchRevenueCents  int64                 `json:"last_touch_revenue_cents"`
	AvgContributionRate    decimal.Decimal       `json:"avg_contribution_rate"`
	Verification           VerificationBreakdown `json:"verification"`
}

// Reconciled reports whether the verification tiers add back up to the
// creative's totals. A false return means an aggregation bug, never bad input.
func (s CreativeSummary) Reconciled() bool {
	tierRevenue := s.Verification.LastTouch100.RevenueCents +
		s.Verification.LastTouch50.RevenueCents +
		s.Verification.Assist.RevenueCents
	tierLastTouch := s.Verification.LastTouch100.Orders + s.Verification.LastTouch50.Orders
	return tierRevenue == s.AttributedRevenueCents && tierLastTouch == s.LastTouchOrders
}

type summaryAccumulator struct {
	summary   CreativeSummary
	rateSum   decimal.Decimal
	rateCount int64
}

// Summarize rolls a batch of order attributions up into per-creative
// aggregates, ordered by attributed revenue descending with the creative
// key breaking ties.
func Summarize(results []Result) []CreativeSummary {
	accumulators := make(map[string]*summaryAccumulator)

	for _, result := range results {
		for _, touch := range result.Touches {
			acc, ok := accumulators[touch.CreativeKey]
			if !ok {
				acc = &summaryAccumulator{summary: CreativeSummary{CreativeKey: touch.CreativeKey}}
				accumulators[touch.CreativeKey] = acc
			}
			acc.apply(touch, result.FinalPaymentCents)
		}
	}

	summaries := make([]CreativeSummary, 0, len(accumulators))
	for _, acc := range accumulators {
		summaries = append(summaries, acc.finish())
	}
	sort.Slice(summaries, func(i, j int) bool {
		if summaries[i].AttributedRevenueCents != summaries[j].AttributedRevenueCents {
			return summaries[i].AttributedRevenueCents > summaries[j].AttributedRevenueCents
		}
		return summaries[i].CreativeKey < summaries[j].CreativeKey
	})
	return summaries
}

func (a *summaryAccumulator) apply(touch Touch, paymentCents int64) {
	s := &a.summary
	s.TotalOrders++
	s.AttributedRevenueCents += touch.AttributedCents
	a.rateSum = a.rateSum.Add(touch.ContributionRate)
	a.rateCount++

	switch {
	case touch.Role.IsLastTouch():
		s.LastTouchOrders++
		s.LastTouchRevenueCents += paymentCents
		if touch.ContributionRate.Equal(hundred) {
			s.SingleTouchOrders++
			s.Verification.LastTouch100.Orders++
			s.Verification.LastTouch100.RevenueCents += touch.AttributedCents
		} else {
			s.Verification.LastTouch50.Orders++
			s.Verification.LastTouch50.RevenueCents += touch.AttributedCents
		}
	default:
		s.AssistOrders++
		s.Verification.Assist.Orders++
		s.Verification.Assist.RevenueCents += touch.AttributedCents
	}
}

func (a *summaryAccumulator) finish() CreativeSummary {
	s := a.summary
	if s.TotalOrders > 0 {
		total := decimal.NewFromInt(int64(s.TotalOrders))
		s.LastTouchRatio = decimal.NewFromInt(int64(s.LastTouchOrders)).Mul(hundred).Div(total).Round(1)
		s.AssistRatio = decimal.NewFromInt(int64(s.AssistOrders)).Mul(hundred).Div(total).Round(1)
	}
	if a.rateCount > 0 {
		s.AvgContributionRate = a.rateSum.Div(decimal.NewFromInt(a.rateCount)).Round(1)
	}
	return s
}
