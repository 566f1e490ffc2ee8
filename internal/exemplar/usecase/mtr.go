package usecase

import "github.com/shandysiswandi/goexemplar/internal/pkg/pkgsheet"

const (
	mtrColTransactionType = "Transaction Type"
	mtrColOrderID         = "Order Id"
	mtrColInvoiceAmount   = "Invoice Amount"
	mtrColItemDescription = "Item Description"
	mtrColOrderDate       = "Order Date"

	mtrTransactionCancel = "Cancel"
)

var mtrColumns = []string{mtrColTransactionType, mtrColOrderID, mtrColInvoiceAmount, mtrColItemDescription, mtrColOrderDate}

// MTR transaction types are matched exactly, unlike the payment remaps.
var mtrTransactionMap = map[string]string{
	"Refund":          "Return",
	"FreeReplacement": "Return",
}

type mtrReport struct {
	table         *pkgsheet.Table
	orderID       int
	txType        int
	invoiceAmount int
	description   int
	orderDate     int
	dropped       int
}

// transformMTR drops cancelled transactions and folds refunds and free
// replacements into returns.
func transformMTR(src *pkgsheet.Table) (*mtrReport, error) {
	t := src.Clone()
	if err := t.Locate(mtrColumns...); err != nil {
		return nil, err
	}

	trimTable(t)

	txCol := t.Column(mtrColTransactionType)

	rows := t.Rows[:0]
	dropped := 0
	for _, row := range t.Rows {
		if row[txCol] == mtrTransactionCancel {
			dropped++
			continue
		}
		if v, ok := mtrTransactionMap[row[txCol]]; ok {
			row[txCol] = v
		}
		rows = append(rows, row)
	}
	t.Rows = rows

	return &mtrReport{
		table:         t,
		orderID:       t.Column(mtrColOrderID),
		txType:        txCol,
		invoiceAmount: t.Column(mtrColInvoiceAmount),
		description:   t.Column(mtrColItemDescription),
		orderDate:     t.Column(mtrColOrderDate),
		dropped:       dropped,
	}, nil
}
