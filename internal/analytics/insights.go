// Package analytics derives qualitative insights from a customer's
// transaction history. Everything here is heuristic and read-only: short or
// empty histories produce no insight rather than an error, and none of the
// results are authoritative business figures.
package analytics

import (
	"fmt"
	"math"
	"strings"
	"time"

	"roznamcha/internal/core"
)

const (
	dayMillis = 86_400_000.0

	highValueSalesThreshold = 50_000.0
	highValueRecencyDays    = 30
	regularRecencyDays      = 60
	regularSaleCount        = 5

	minRepaymentPairs = 2
	minSalesForMode   = 3
)

const (
	TagNew       = "new"
	TagRegular   = "regular"
	TagHighValue = "high-value"
)

// PredictRepaymentHabit estimates how long the customer takes to clear a debt
// or receivable. For every settled original it picks the latest payment
// referencing it and measures the gap in days; with fewer than two qualifying
// pairs there is no insight. Band boundaries are inclusive on the upper end.
func PredictRepaymentHabit(history []core.Transaction) (string, bool) {
	byID := make(map[int64]core.Transaction, len(history))
	for _, t := range history {
		byID[t.ID] = t
	}

	// Latest payment per parent.
	finalPayment := make(map[int64]core.Transaction)
	for _, t := range history {
		if t.ParentTransactionID == nil {
			continue
		}
		parent := *t.ParentTransactionID
		if cur, ok := finalPayment[parent]; !ok || t.DateMillis > cur.DateMillis {
			finalPayment[parent] = t
		}
	}

	var durations []float64
	for parentID, payment := range finalPayment {
		original, ok := byID[parentID]
		if !ok || !original.Settled {
			continue
		}
		if !original.Category.IsCredit() && !original.Category.IsDebit() {
			continue
		}
		gap := float64(payment.DateMillis-original.DateMillis) / dayMillis
		if gap >= 0 {
			durations = append(durations, gap)
		}
	}
	if len(durations) < minRepaymentPairs {
		return "", false
	}

	var sum float64
	for _, d := range durations {
		sum += d
	}
	days := int64(math.Round(sum / float64(len(durations))))

	switch {
	case days <= 1:
		return "usually pays within a day", true
	case days <= 7:
		return "usually pays within a week", true
	case days <= 25:
		return fmt.Sprintf("usually pays in about %d days, give or take 3", days), true
	case days <= 45:
		weeks := int64(math.Round(float64(days) / 7))
		return fmt.Sprintf("usually pays in about %d weeks", weeks), true
	default:
		return "usually takes more than a month to pay", true
	}
}

// PredictNextPurchase returns the customer's most frequently bought item,
// judged by the mode of non-blank sale descriptions. Requires at least three
// sales. On a frequency tie any maximal description may win.
func PredictNextPurchase(history []core.Transaction) (string, bool) {
	counts := make(map[string]int)
	total := 0
	for _, t := range history {
		if t.Category != core.CategorySale {
			continue
		}
		desc := strings.ToLower(strings.TrimSpace(t.Description))
		if desc == "" {
			continue
		}
		counts[desc]++
		total++
	}
	if total < minSalesForMode {
		return "", false
	}

	best, bestCount := "", 0
	for desc, n := range counts {
		if n > bestCount {
			best, bestCount = desc, n
		}
	}
	return best, true
}

// CustomerValueTag classifies a customer as new, regular or high-value from
// total sale volume, recency of the last sale and sale count. Thresholds are
// product constants with no deeper rationale.
func CustomerValueTag(history []core.Transaction, now time.Time) string {
	var (
		totalSales float64
		saleCount  int
		lastSale   int64
	)
	for _, t := range history {
		if t.Category != core.CategorySale {
			continue
		}
		saleCount++
		if t.Amount != nil {
			totalSales += *t.Amount
		}
		if t.DateMillis > lastSale {
			lastSale = t.DateMillis
		}
	}
	if saleCount == 0 {
		return TagNew
	}

	daysSinceLastSale := int64(math.MaxInt64)
	if lastSale > 0 {
		daysSinceLastSale = (now.UnixMilli() - lastSale) / int64(dayMillis)
	}

	switch {
	case totalSales > highValueSalesThreshold && daysSinceLastSale <= highValueRecencyDays:
		return TagHighValue
	case saleCount >= regularSaleCount && daysSinceLastSale <= regularRecencyDays:
		return TagRegular
	default:
		return TagNew
	}
}
