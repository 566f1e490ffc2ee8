package usecase

import (
	"sort"

	"github.com/shandysiswandi/goexemplar/internal/exemplar/entity"
	"github.com/shopspring/decimal"
)

const (
	transactionReturn = "Return"

	// removalOrderIDLen is the length of removal order ids, which are shorter
	// than marketplace order ids.
	removalOrderIDLen = 10
)

// orderTotals aggregates the two sides of an order across all its rows.
type orderTotals struct {
	invoice    decimal.Decimal
	hasInvoice bool
	net        decimal.Decimal
	hasNet     bool
}

func totalsByOrder(records []entity.StoredRecord) (map[string]*orderTotals, []string) {
	totals := make(map[string]*orderTotals)
	var order []string
	for _, rec := range records {
		if rec.OrderID == "" {
			continue
		}
		tot, ok := totals[rec.OrderID]
		if !ok {
			tot = &orderTotals{}
			totals[rec.OrderID] = tot
			order = append(order, rec.OrderID)
		}
		if rec.Source == entity.SourceMTR && rec.InvoiceAmount.Valid {
			tot.invoice = tot.invoice.Add(rec.InvoiceAmount.Decimal)
			tot.hasInvoice = true
		}
		if rec.Source == entity.SourcePayment && rec.NetAmount.Valid {
			tot.net = tot.net.Add(rec.NetAmount.Decimal)
			tot.hasNet = true
		}
	}
	return totals, order
}

// categorize applies the category rules in order. A later matching rule
// overrides an earlier one.
func categorize(records []entity.StoredRecord) ([]entity.CategorizedRecord, []entity.CategoryCount) {
	totals, _ := totalsByOrder(records)

	out := make([]entity.CategorizedRecord, len(records))
	counts := make(map[entity.Category]int)
	for i, rec := range records {
		cat := entity.CategoryUncategorized

		if len(rec.OrderID) == removalOrderIDLen {
			cat = entity.CategoryRemovalOrder
		}
		if rec.TransactionType == transactionReturn && rec.InvoiceAmount.Valid {
			cat = entity.CategoryReturn
		}
		if rec.TransactionType == transactionPayment && rec.NetAmount.Valid && rec.NetAmount.Decimal.IsNegative() {
			cat = entity.CategoryNegativePayout
		}
		if tot := totals[rec.OrderID]; tot != nil {
			switch {
			case tot.hasNet && tot.hasInvoice:
				cat = entity.CategoryOrderAndPayment
			case tot.hasNet:
				cat = entity.CategoryPaymentWithoutOrder
			case tot.hasInvoice:
				cat = entity.CategoryPaymentPending
			}
		}

		out[i] = entity.CategorizedRecord{StoredRecord: rec, Category: cat}
		counts[cat]++
	}

	summary := make([]entity.CategoryCount, 0, len(counts))
	for cat, n := range counts {
		summary = append(summary, entity.CategoryCount{Category: cat, Count: n})
	}
	sort.Slice(summary, func(i, j int) bool {
		if summary[i].Count != summary[j].Count {
			return summary[i].Count > summary[j].Count
		}
		return summary[i].Category < summary[j].Category
	})

	return out, summary
}

var hundred = decimal.NewFromInt(100)

// toleranceThreshold is the minimum paid percentage for a payment net amount.
func toleranceThreshold(pna decimal.Decimal) int {
	switch {
	case pna.IsPositive() && pna.LessThanOrEqual(decimal.NewFromInt(300)):
		return 50
	case pna.GreaterThan(decimal.NewFromInt(300)) && pna.LessThanOrEqual(decimal.NewFromInt(500)):
		return 45
	case pna.GreaterThan(decimal.NewFromInt(500)) && pna.LessThanOrEqual(decimal.NewFromInt(900)):
		return 43
	case pna.GreaterThan(decimal.NewFromInt(900)) && pna.LessThanOrEqual(decimal.NewFromInt(1500)):
		return 38
	default:
		return 30
	}
}

// toleranceAnalysis compares, per order, the payment net amount against the
// invoiced amount. Orders missing either side or invoiced at zero are skipped.
func toleranceAnalysis(records []entity.StoredRecord) []entity.ToleranceResult {
	totals, order := totalsByOrder(records)

	var out []entity.ToleranceResult
	for _, id := range order {
		tot := totals[id]
		if !tot.hasNet || !tot.hasInvoice || tot.invoice.IsZero() {
			continue
		}

		pct := tot.net.Div(tot.invoice).Mul(hundred).Round(2)
		threshold := toleranceThreshold(tot.net)

		status := entity.ToleranceBreached
		if pct.GreaterThanOrEqual(decimal.NewFromInt(int64(threshold))) {
			status = entity.ToleranceWithin
		}

		out = append(out, entity.ToleranceResult{
			OrderID:          id,
			PaymentNetAmount: tot.net,
			InvoiceAmount:    tot.invoice,
			Percentage:       pct,
			Threshold:        threshold,
			Status:           status,
		})
	}
	return out
}

// emptyOrderSummary groups rows without an order id by description.
func emptyOrderSummary(records []entity.StoredRecord) []entity.EmptyOrderSummary {
	groups := make(map[string]*entity.EmptyOrderSummary)
	for _, rec := range records {
		if rec.OrderID != "" {
			continue
		}
		g, ok := groups[rec.Description]
		if !ok {
			g = &entity.EmptyOrderSummary{Description: rec.Description}
			groups[rec.Description] = g
		}
		if rec.NetAmount.Valid {
			g.TotalNetAmount = g.TotalNetAmount.Add(rec.NetAmount.Decimal)
		}
		g.TransactionCount++
	}

	out := make([]entity.EmptyOrderSummary, 0, len(groups))
	for _, g := range groups {
		out = append(out, *g)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Description < out[j].Description })
	return out
}
