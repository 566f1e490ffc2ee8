package usecase

import (
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/shandysiswandi/goexemplar/internal/exemplar/entity"
	"github.com/shandysiswandi/goexemplar/internal/pkg/pkgsheet"
)

// Exemplar spreadsheet columns, in order.
const (
	exColOrderID         = "Order Id"
	exColTransactionType = "Transaction Type"
	exColPaymentType     = "Payment Type"
	exColInvoiceAmount   = "Invoice Amount"
	exColNetAmount       = "Net Amount"
	exColDescription     = "P Description"
	exColOrderDate       = "Order Date"
	exColPaymentDate     = "Payment Date"
)

var exemplarHeader = []string{
	exColOrderID, exColTransactionType, exColPaymentType, exColInvoiceAmount,
	exColNetAmount, exColDescription, exColOrderDate, exColPaymentDate,
}

// ErrUnmatchedRows is returned under PolicyError when a row has no
// counterpart in the other report.
var ErrUnmatchedRows = errors.New("unmatched rows")

// buildExemplar derives exemplar records: MTR rows first, then payment rows.
func buildExemplar(mtr *mtrReport, pay *paymentReport) ([]entity.ExemplarRecord, error) {
	records := make([]entity.ExemplarRecord, 0, len(mtr.table.Rows)+len(pay.table.Rows))

	for i, row := range mtr.table.Rows {
		invoice, err := parseAmount(row[mtr.invoiceAmount])
		if err != nil {
			return nil, fmt.Errorf("mtr_report row %d, %s: %w", i+1, mtrColInvoiceAmount, err)
		}
		if err := checkWidth(row[mtr.orderID], row[mtr.txType]); err != nil {
			return nil, fmt.Errorf("mtr_report row %d: %w", i+1, err)
		}

		records = append(records, entity.ExemplarRecord{
			OrderID:         row[mtr.orderID],
			TransactionType: row[mtr.txType],
			InvoiceAmount:   invoice,
			Description:     row[mtr.description],
			OrderDate:       parseDate(row[mtr.orderDate]),
			Source:          entity.SourceMTR,
		})
	}

	for i, row := range pay.table.Rows {
		net, err := parseAmount(row[pay.total])
		if err != nil {
			return nil, fmt.Errorf("payment_report row %d, %s: %w", i+1, payColTotal, err)
		}
		if err := checkWidth(row[pay.orderID], row[pay.txType], row[pay.paymentType]); err != nil {
			return nil, fmt.Errorf("payment_report row %d: %w", i+1, err)
		}

		records = append(records, entity.ExemplarRecord{
			OrderID:         row[pay.orderID],
			TransactionType: row[pay.txType],
			PaymentType:     row[pay.paymentType],
			NetAmount:       net,
			Description:     row[pay.description],
			PaymentDate:     parseDate(row[pay.dateTime]),
			Source:          entity.SourcePayment,
		})
	}

	return records, nil
}

// checkWidth rejects identifiers the table cannot hold. Truncating them would
// merge distinct orders.
func checkWidth(values ...string) error {
	for _, v := range values {
		if n := utf8.RuneCountInString(v); n > entity.IdentifierWidth {
			return fmt.Errorf("value of %d characters exceeds %d", n, entity.IdentifierWidth)
		}
	}
	return nil
}

// applyPolicy filters records whose order id is not present in the other
// report, according to policy.
func applyPolicy(records []entity.ExemplarRecord, policy UnmatchedPolicy) ([]entity.ExemplarRecord, error) {
	if policy == PolicyKeep {
		return records, nil
	}

	seen := map[entity.Source]map[string]bool{
		entity.SourceMTR:     {},
		entity.SourcePayment: {},
	}
	for _, rec := range records {
		if rec.OrderID != "" {
			seen[rec.Source][rec.OrderID] = true
		}
	}

	kept := make([]entity.ExemplarRecord, 0, len(records))
	unmatched := 0
	for _, rec := range records {
		other := entity.SourcePayment
		if rec.Source == entity.SourcePayment {
			other = entity.SourceMTR
		}
		if rec.OrderID == "" || !seen[other][rec.OrderID] {
			unmatched++
			continue
		}
		kept = append(kept, rec)
	}

	if policy == PolicyError && unmatched > 0 {
		return nil, fmt.Errorf("%w: %d of %d rows have no counterpart in the other report", ErrUnmatchedRows, unmatched, len(records))
	}
	return kept, nil
}

// exemplarTable lays records out as the exemplar spreadsheet with gap blank
// rows between the MTR and payment sections.
func exemplarTable(records []entity.ExemplarRecord, gap int) *pkgsheet.Table {
	t := &pkgsheet.Table{
		Header: append([]string(nil), exemplarHeader...),
		Rows:   make([][]string, 0, len(records)+gap),
	}

	gapDone := false
	for _, rec := range records {
		if rec.Source == entity.SourcePayment && !gapDone {
			t.Rows = appendGap(t.Rows, gap)
			gapDone = true
		}
		t.Rows = append(t.Rows, []string{
			rec.OrderID,
			rec.TransactionType,
			rec.PaymentType,
			formatAmount(rec.InvoiceAmount),
			formatAmount(rec.NetAmount),
			rec.Description,
			formatDate(rec.OrderDate),
			formatDate(rec.PaymentDate),
		})
	}
	if !gapDone {
		t.Rows = appendGap(t.Rows, gap)
	}

	return t
}

func appendGap(rows [][]string, gap int) [][]string {
	for range gap {
		rows = append(rows, make([]string, len(exemplarHeader)))
	}
	return rows
}
