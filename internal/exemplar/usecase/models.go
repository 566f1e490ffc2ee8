package usecase

import (
	"fmt"
	"strings"

	"github.com/shandysiswandi/goexemplar/internal/exemplar/entity"
)

// UnmatchedPolicy decides what happens to rows whose order id is missing from
// the other report.
type UnmatchedPolicy string

const (
	PolicyKeep  UnmatchedPolicy = "keep"
	PolicySkip  UnmatchedPolicy = "skip"
	PolicyError UnmatchedPolicy = "error"
)

// ParsePolicy accepts keep, skip or error in any case. Empty means keep.
func ParsePolicy(s string) (UnmatchedPolicy, error) {
	switch p := UnmatchedPolicy(strings.ToLower(strings.TrimSpace(s))); p {
	case "":
		return PolicyKeep, nil
	case PolicyKeep, PolicySkip, PolicyError:
		return p, nil
	default:
		return "", fmt.Errorf("unknown unmatched policy %q", s)
	}
}

// DefaultGapRows is the number of blank rows between the MTR and payment
// sections of the exemplar spreadsheet.
const DefaultGapRows = 5

// Options tune the transformation.
type Options struct {
	GapRows int
	Policy  UnmatchedPolicy
}

func (o Options) withDefaults() Options {
	if o.GapRows < 0 {
		o.GapRows = 0
	}
	if o.Policy == "" {
		o.Policy = PolicyKeep
	}
	return o
}

// UploadInput is the pair of reports of one upload.
type UploadInput struct {
	Payment entity.UploadedFile
	MTR     entity.UploadedFile
}

type UploadResult struct {
	UploadID        string
	Files           []entity.WrittenArtifact
	PaymentRows     int
	MTRRows         int
	RecordsInserted int64
}

// FileNames lists the created files in write order.
func (r UploadResult) FileNames() []string {
	names := make([]string, len(r.Files))
	for i, f := range r.Files {
		names[i] = f.Name
	}
	return names
}

type RecordsResult struct {
	UploadID string
	Records  []entity.StoredRecord
	Page     int
	PageSize int
	Total    int
}

type ReconciliationResult struct {
	UploadID    string
	Records     []entity.CategorizedRecord
	Categories  []entity.CategoryCount
	Tolerance   []entity.ToleranceResult
	EmptyOrders []entity.EmptyOrderSummary
}
