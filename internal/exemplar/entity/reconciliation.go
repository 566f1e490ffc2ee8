package entity

import "github.com/shopspring/decimal"

type Category string

const (
	CategoryUncategorized       Category = "Uncategorized"
	CategoryRemovalOrder        Category = "Removal Order"
	CategoryReturn              Category = "Return"
	CategoryNegativePayout      Category = "Negative Payout"
	CategoryOrderAndPayment     Category = "Order & Payment Received"
	CategoryPaymentWithoutOrder Category = "Order Not Applicable but Payment Received"
	CategoryPaymentPending      Category = "Payment Pending"
)

type ToleranceStatus string

const (
	ToleranceWithin   ToleranceStatus = "Within Tolerance"
	ToleranceBreached ToleranceStatus = "Tolerance Breached"
)

// CategorizedRecord pairs a stored row with its category.
type CategorizedRecord struct {
	StoredRecord
	Category Category
}

// CategoryCount is how many rows of an upload fell in a category.
type CategoryCount struct {
	Category Category
	Count    int
}

// ToleranceResult compares what an order was paid against what it invoiced.
type ToleranceResult struct {
	OrderID          string
	PaymentNetAmount decimal.Decimal
	InvoiceAmount    decimal.Decimal
	Percentage       decimal.Decimal
	Threshold        int
	Status           ToleranceStatus
}

// EmptyOrderSummary groups rows with no order id by description.
type EmptyOrderSummary struct {
	Description      string
	TotalNetAmount   decimal.Decimal
	TransactionCount int
}
