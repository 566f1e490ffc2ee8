package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Source tells which report an exemplar row came from.
type Source string

const (
	SourceMTR     Source = "mtr"
	SourcePayment Source = "payment"
)

// Column widths, in runes, of the exemplar_reports text columns.
const (
	IdentifierWidth  = 255 // order id, transaction type, payment type
	DescriptionWidth = 500
)

// ExemplarRecord is one row of the normalized exemplar table. Empty strings,
// invalid decimals and nil dates are stored as NULL.
type ExemplarRecord struct {
	OrderID         string
	TransactionType string
	PaymentType     string
	InvoiceAmount   decimal.NullDecimal
	NetAmount       decimal.NullDecimal
	Description     string
	OrderDate       *time.Time
	PaymentDate     *time.Time
	Source          Source
}

// StoredRecord is an exemplar row as persisted.
type StoredRecord struct {
	ID        int64
	UploadID  string
	CreatedAt time.Time
	ExemplarRecord
}
