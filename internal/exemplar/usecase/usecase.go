package usecase

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/shandysiswandi/goexemplar/internal/exemplar/entity"
	"github.com/shandysiswandi/goexemplar/internal/pkg/pkgerror"
	"github.com/shandysiswandi/goexemplar/internal/pkg/pkglog"
	"github.com/shandysiswandi/goexemplar/internal/pkg/pkgroutine"
	"github.com/shandysiswandi/goexemplar/internal/pkg/pkguid"
)

// MaxPageSize caps RecordsResult pages.
const MaxPageSize = 500

type Store interface {
	InsertRecords(ctx context.Context, uploadID string, records []entity.ExemplarRecord) (int64, error)
	ListRecords(ctx context.Context, uploadID string, page, pageSize int) ([]entity.StoredRecord, int, error)
	RecordsByUpload(ctx context.Context, uploadID string) ([]entity.StoredRecord, error)
}

type ArtifactWriter interface {
	Write(ctx context.Context, artifacts []entity.Artifact) ([]entity.WrittenArtifact, error)
}

// Mirror copies the encoded artifacts of an upload somewhere durable. It runs
// in the background, after the local files may have been replaced.
type Mirror interface {
	Mirror(ctx context.Context, uploadID string, artifacts []entity.Artifact) error
}

type Runner interface {
	Go(ctx context.Context, name string, task pkgroutine.Task)
}

type Dependency struct {
	Store     Store
	Artifacts ArtifactWriter
	Mirror    Mirror
	Runner    Runner
	ID        pkguid.StringID
	Options   Options
}

type Usecase struct {
	store     Store
	artifacts ArtifactWriter
	mirror    Mirror
	runner    Runner
	id        pkguid.StringID
	opts      Options
}

func New(dep Dependency) *Usecase {
	return &Usecase{
		store:     dep.Store,
		artifacts: dep.Artifacts,
		mirror:    dep.Mirror,
		runner:    dep.Runner,
		id:        dep.ID,
		opts:      dep.Options.withDefaults(),
	}
}

// Upload transforms the reports, writes the output files and persists the
// exemplar records.
//
// Files are written before the insert. A failed insert does not remove them.
func (u *Usecase) Upload(ctx context.Context, in UploadInput) (UploadResult, error) {
	if u.store == nil || u.artifacts == nil || u.id == nil {
		return UploadResult{}, pkgerror.NewServer(errors.New("missing dependency"))
	}

	started := time.Now()
	uploadID := u.id.Generate()
	ctx = pkglog.WithAttrs(ctx, slog.String("upload_id", uploadID))

	slog.InfoContext(ctx, "upload received",
		"payment_file", in.Payment.Filename,
		"payment_size", humanize.Bytes(uint64(len(in.Payment.Data))),
		"mtr_file", in.MTR.Filename,
		"mtr_size", humanize.Bytes(uint64(len(in.MTR.Data))),
	)

	tr, err := Transform(ctx, in, u.opts)
	if err != nil {
		slog.WarnContext(ctx, "upload rejected", "error", err)
		return UploadResult{}, err
	}

	files, err := u.artifacts.Write(ctx, tr.Artifacts)
	if err != nil {
		slog.ErrorContext(ctx, "failed to write output files", "error", err)
		return UploadResult{}, pkgerror.NewServer(err)
	}

	inserted, err := u.store.InsertRecords(ctx, uploadID, tr.Records)
	if err != nil {
		slog.ErrorContext(ctx, "failed to insert exemplar records", "error", err, "records", len(tr.Records))
		return UploadResult{}, pkgerror.NewServer(err)
	}

	if u.mirror != nil && u.runner != nil {
		u.runner.Go(pkglog.DetachContext(ctx), "artifact mirror", func(ctx context.Context) error {
			return u.mirror.Mirror(ctx, uploadID, tr.Artifacts)
		})
	}

	slog.InfoContext(ctx, "upload processed",
		"records_inserted", inserted,
		"took", time.Since(started).String(),
	)

	return UploadResult{
		UploadID:        uploadID,
		Files:           files,
		PaymentRows:     tr.PaymentRows,
		MTRRows:         tr.MTRRows,
		RecordsInserted: inserted,
	}, nil
}

// Records pages through the persisted rows of one upload.
func (u *Usecase) Records(ctx context.Context, uploadID string, page, pageSize int) (RecordsResult, error) {
	if err := validateUploadID(uploadID); err != nil {
		return RecordsResult{}, err
	}

	if page < 1 || pageSize < 1 || pageSize > MaxPageSize {
		return RecordsResult{}, pkgerror.NewInvalidInput(errors.New("invalid pagination"))
	}

	records, total, err := u.store.ListRecords(ctx, uploadID, page, pageSize)
	if err != nil {
		return RecordsResult{}, mapStoreErr(err)
	}
	if total == 0 {
		return RecordsResult{}, pkgerror.NewBusiness("upload not found", pkgerror.CodeNotFound)
	}

	return RecordsResult{
		UploadID: uploadID,
		Records:  records,
		Page:     page,
		PageSize: pageSize,
		Total:    total,
	}, nil
}

// Reconcile categorizes the rows of one upload and runs the tolerance and
// empty-order analyses over them.
func (u *Usecase) Reconcile(ctx context.Context, uploadID string) (ReconciliationResult, error) {
	if err := validateUploadID(uploadID); err != nil {
		return ReconciliationResult{}, err
	}

	records, err := u.store.RecordsByUpload(ctx, uploadID)
	if err != nil {
		return ReconciliationResult{}, mapStoreErr(err)
	}
	if len(records) == 0 {
		return ReconciliationResult{}, pkgerror.NewBusiness("upload not found", pkgerror.CodeNotFound)
	}

	categorized, counts := categorize(records)

	return ReconciliationResult{
		UploadID:    uploadID,
		Records:     categorized,
		Categories:  counts,
		Tolerance:   toleranceAnalysis(records),
		EmptyOrders: emptyOrderSummary(records),
	}, nil
}

func validateUploadID(uploadID string) error {
	if uploadID == "" {
		return pkgerror.NewInvalidInput(errors.New("upload_id is required"))
	}
	if !pkguid.IsUUID(uploadID) {
		return pkgerror.NewInvalidInput(errors.New("upload_id must be a uuid"))
	}
	return nil
}

func mapStoreErr(err error) error {
	if errors.Is(err, pkgerror.ErrNotFound) {
		return pkgerror.NewBusiness("upload not found", pkgerror.CodeNotFound)
	}

	var gerr *pkgerror.Error
	if errors.As(err, &gerr) {
		return err
	}

	return pkgerror.NewServer(err)
}
