package inbound

import (
	"time"

	"github.com/shandysiswandi/goexemplar/internal/exemplar/entity"
	"github.com/shandysiswandi/goexemplar/internal/exemplar/usecase"
	"github.com/shopspring/decimal"
)

// ErrorResponse documents the error envelope written by the router.
type ErrorResponse struct {
	Message string            `json:"message" example:"invalid input"`
	Error   map[string]string `json:"error,omitempty"`
}

type File struct {
	Name     string `json:"name" example:"exemplar_report.xlsx"`
	Path     string `json:"path"`
	Checksum string `json:"checksum" example:"9f2c4e1d7a3b5c60"`
	Size     int64  `json:"size"`
	Rows     int    `json:"rows"`
}

type UploadResponse struct {
	UploadID        string   `json:"upload_id"`
	FilesCreated    []string `json:"files_created"`
	Files           []File   `json:"files"`
	PaymentRows     int      `json:"payment_rows"`
	MTRRows         int      `json:"mtr_rows"`
	RecordsInserted int64    `json:"records_inserted"`
}

func (UploadResponse) Message() string {
	return "Processing completed successfully"
}

// Record is a stored exemplar row. Amounts are decimal strings and dates
// RFC 3339, both null when unknown.
type Record struct {
	ID              int64   `json:"id"`
	OrderID         string  `json:"order_id"`
	TransactionType string  `json:"transaction_type"`
	PaymentType     string  `json:"payment_type"`
	InvoiceAmount   *string `json:"invoice_amount"`
	NetAmount       *string `json:"net_amount"`
	Description     string  `json:"description"`
	OrderDate       *string `json:"order_date"`
	PaymentDate     *string `json:"payment_date"`
	Source          string  `json:"source"`
	CreatedAt       string  `json:"created_at"`
}

type RecordsResponse struct {
	UploadID string   `json:"upload_id"`
	Records  []Record `json:"records"`
	page     int
	pageSize int
	total    int
}

func (r RecordsResponse) Meta() map[string]any {
	return map[string]any{
		"page":      r.page,
		"page_size": r.pageSize,
		"total":     r.total,
	}
}

type CategorizedRecord struct {
	Record
	Category string `json:"category"`
}

type CategoryCount struct {
	Category string `json:"category"`
	Count    int    `json:"count"`
}

type Tolerance struct {
	OrderID          string `json:"order_id"`
	PaymentNetAmount string `json:"payment_net_amount"`
	InvoiceAmount    string `json:"invoice_amount"`
	Percentage       string `json:"percentage"`
	Threshold        int    `json:"threshold"`
	Status           string `json:"status"`
}

type EmptyOrder struct {
	Description      string `json:"description"`
	TotalNetAmount   string `json:"total_net_amount"`
	TransactionCount int    `json:"transaction_count"`
}

type ReconciliationResponse struct {
	UploadID    string              `json:"upload_id"`
	Categories  []CategoryCount     `json:"categories"`
	Tolerance   []Tolerance         `json:"tolerance"`
	EmptyOrders []EmptyOrder        `json:"empty_orders"`
	Records     []CategorizedRecord `json:"records"`
}

func toHTTPFile(f entity.WrittenArtifact) File {
	return File{Name: f.Name, Path: f.Path, Checksum: f.Checksum, Size: f.Size, Rows: f.Rows}
}

func toHTTPRecord(rec entity.StoredRecord) Record {
	return Record{
		ID:              rec.ID,
		OrderID:         rec.OrderID,
		TransactionType: rec.TransactionType,
		PaymentType:     rec.PaymentType,
		InvoiceAmount:   amountPtr(rec.InvoiceAmount),
		NetAmount:       amountPtr(rec.NetAmount),
		Description:     rec.Description,
		OrderDate:       timePtr(rec.OrderDate),
		PaymentDate:     timePtr(rec.PaymentDate),
		Source:          string(rec.Source),
		CreatedAt:       rec.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func toHTTPReconciliation(res usecase.ReconciliationResult) ReconciliationResponse {
	resp := ReconciliationResponse{
		UploadID:    res.UploadID,
		Categories:  make([]CategoryCount, 0, len(res.Categories)),
		Tolerance:   make([]Tolerance, 0, len(res.Tolerance)),
		EmptyOrders: make([]EmptyOrder, 0, len(res.EmptyOrders)),
		Records:     make([]CategorizedRecord, 0, len(res.Records)),
	}

	for _, c := range res.Categories {
		resp.Categories = append(resp.Categories, CategoryCount{Category: string(c.Category), Count: c.Count})
	}

	for _, t := range res.Tolerance {
		resp.Tolerance = append(resp.Tolerance, Tolerance{
			OrderID:          t.OrderID,
			PaymentNetAmount: t.PaymentNetAmount.StringFixed(2),
			InvoiceAmount:    t.InvoiceAmount.StringFixed(2),
			Percentage:       t.Percentage.StringFixed(2),
			Threshold:        t.Threshold,
			Status:           string(t.Status),
		})
	}

	for _, e := range res.EmptyOrders {
		resp.EmptyOrders = append(resp.EmptyOrders, EmptyOrder{
			Description:      e.Description,
			TotalNetAmount:   e.TotalNetAmount.StringFixed(2),
			TransactionCount: e.TransactionCount,
		})
	}

	for _, r := range res.Records {
		resp.Records = append(resp.Records, CategorizedRecord{
			Record:   toHTTPRecord(r.StoredRecord),
			Category: string(r.Category),
		})
	}

	return resp
}

func amountPtr(d decimal.NullDecimal) *string {
	if !d.Valid {
		return nil
	}
	s := d.Decimal.StringFixed(2)
	return &s
}

func timePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(time.RFC3339)
	return &s
}
