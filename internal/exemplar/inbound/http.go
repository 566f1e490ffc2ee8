package inbound

import (
	"context"

	"github.com/shandysiswandi/goexemplar/internal/exemplar/usecase"
	"github.com/shandysiswandi/goexemplar/internal/pkg/pkgrouter"
)

type uc interface {
	Upload(ctx context.Context, in usecase.UploadInput) (usecase.UploadResult, error)
	Records(ctx context.Context, uploadID string, page, pageSize int) (usecase.RecordsResult, error)
	Reconcile(ctx context.Context, uploadID string) (usecase.ReconciliationResult, error)
}

// DefaultMaxUploadBytes bounds each uploaded report when no limit is configured.
const DefaultMaxUploadBytes int64 = 32 << 20

func RegisterHTTPEndpoint(r *pkgrouter.Router, uc uc, maxUploadBytes int64) {
	if maxUploadBytes <= 0 {
		maxUploadBytes = DefaultMaxUploadBytes
	}
	end := &HTTPEndpoint{uc: uc, maxUploadBytes: maxUploadBytes}

	r.POST("/upload/", end.Upload)

	r.GET("/uploads/:upload_id/records", end.Records) // ?page=&page_size=
	r.GET("/uploads/:upload_id/reconciliation", end.Reconciliation)
}
