package usecase

import (
	"strings"

	"github.com/shandysiswandi/goexemplar/internal/pkg/pkgsheet"
)

// Payment report column names as exported by the marketplace.
const (
	payColType        = "type"
	payColDescription = "description"
	payColOrderID     = "order id"
	payColTotal       = "total"
	payColDateTime    = "date/time"
)

// Column names added to the transformed payment report.
const (
	colPaymentType     = "Payment Type"
	colTransactionType = "Transaction Type"
	transactionPayment = "Payment"
)

var paymentColumns = []string{payColType, payColDescription, payColOrderID, payColTotal, payColDateTime}

var paymentTypeMap = foldMap(map[string]string{
	"Refund":                "Return",
	"Adjustment":            "Order",
	"FBA Inventory Fee":     "Order",
	"Fulfilment Fee Refund": "Order",
	"Service Fee":           "Order",
})

var paymentDescriptionMap = foldMap(map[string]string{
	"Adjustment":             "Order",
	"FBA Inventory Fee":      "Order",
	"Fulfillment Fee Refund": "Order",
	"Service Fee":            "Order",

	"FBA Inventory Reimbursement - Customer Service Issue": "Order",
})

// paymentReport is a transformed payment report with its column positions.
type paymentReport struct {
	table       *pkgsheet.Table
	orderID     int
	paymentType int
	txType      int
	total       int
	description int
	dateTime    int
	dropped     int
}

// transformPayment cleans a payment report in place on a copy of src.
//
// Transfers are dropped, type and description are remapped, type becomes
// Payment Type and every row is tagged as a Payment transaction.
func transformPayment(src *pkgsheet.Table) (*paymentReport, error) {
	t := src.Clone()
	if err := t.Locate(paymentColumns...); err != nil {
		return nil, err
	}

	trimTable(t)

	typeCol := t.Column(payColType)
	descCol := t.Column(payColDescription)
	width := len(t.Header)

	rows := t.Rows[:0]
	dropped := 0
	for _, row := range t.Rows {
		if strings.Contains(strings.ToLower(row[typeCol]), "transfer") {
			dropped++
			continue
		}
		row = fitRow(row, width)
		row[typeCol] = remap(paymentTypeMap, row[typeCol])
		row[descCol] = remap(paymentDescriptionMap, row[descCol])
		rows = append(rows, append(row, transactionPayment))
	}

	t.Header[typeCol] = colPaymentType
	t.Header = append(t.Header, colTransactionType)
	t.Rows = rows

	return &paymentReport{
		table:       t,
		orderID:     t.Column(payColOrderID),
		paymentType: typeCol,
		txType:      len(t.Header) - 1,
		total:       t.Column(payColTotal),
		description: descCol,
		dateTime:    t.Column(payColDateTime),
		dropped:     dropped,
	}, nil
}

func foldMap(m map[string]string) map[string]string {
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[strings.ToLower(k)] = v
	}
	return out
}

func remap(m map[string]string, value string) string {
	if v, ok := m[strings.ToLower(value)]; ok {
		return v
	}
	return value
}

// fitRow pads or cuts row to exactly width cells.
func fitRow(row []string, width int) []string {
	if len(row) >= width {
		return row[:width:width]
	}
	out := make([]string, width)
	copy(out, row)
	return out
}

// trimTable strips surrounding whitespace and newlines from every cell.
func trimTable(t *pkgsheet.Table) {
	for i := range t.Header {
		t.Header[i] = strings.TrimSpace(t.Header[i])
	}
	for _, row := range t.Rows {
		for j := range row {
			row[j] = strings.TrimSpace(row[j])
		}
	}
}
