package usecase

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/shandysiswandi/goexemplar/internal/exemplar/entity"
	"github.com/shandysiswandi/goexemplar/internal/pkg/pkgerror"
	"github.com/shandysiswandi/goexemplar/internal/pkg/pkgsheet"
)

// Transformation is the in-memory outcome of transforming one upload.
type Transformation struct {
	Records     []entity.ExemplarRecord
	Artifacts   []entity.Artifact
	PaymentRows int
	MTRRows     int
}

// Transform turns a payment and an MTR report into exemplar records and the
// three encoded output files. Nothing is written.
func Transform(ctx context.Context, in UploadInput, opts Options) (*Transformation, error) {
	opts = opts.withDefaults()

	payFormat, err := detect(in.Payment)
	if err != nil {
		return nil, err
	}
	mtrFormat, err := detect(in.MTR)
	if err != nil {
		return nil, err
	}

	payTable, err := read(in.Payment, payFormat)
	if err != nil {
		return nil, err
	}
	mtrTable, err := read(in.MTR, mtrFormat)
	if err != nil {
		return nil, err
	}

	pay, err := transformPayment(payTable)
	if err != nil {
		return nil, columnErr(in.Payment.Part, err)
	}
	slog.InfoContext(ctx, "payment report transformed", "rows", len(pay.table.Rows), "dropped_transfers", pay.dropped)

	mtr, err := transformMTR(mtrTable)
	if err != nil {
		return nil, columnErr(in.MTR.Part, err)
	}
	slog.InfoContext(ctx, "mtr report transformed", "rows", len(mtr.table.Rows), "dropped_cancels", mtr.dropped)

	records, err := buildExemplar(mtr, pay)
	if err != nil {
		return nil, pkgerror.NewUnprocessable(err)
	}

	kept, err := applyPolicy(records, opts.Policy)
	if err != nil {
		return nil, pkgerror.NewUnprocessable(err)
	}
	if skipped := len(records) - len(kept); skipped > 0 {
		slog.WarnContext(ctx, "unmatched rows skipped", "skipped", skipped, "policy", opts.Policy)
	}

	artifacts, err := encodeArtifacts(pay.table, mtr.table, exemplarTable(kept, opts.GapRows), len(kept))
	if err != nil {
		return nil, pkgerror.NewServer(err)
	}

	return &Transformation{
		Records:     kept,
		Artifacts:   artifacts,
		PaymentRows: len(pay.table.Rows),
		MTRRows:     len(mtr.table.Rows),
	}, nil
}

func detect(f entity.UploadedFile) (pkgsheet.Format, error) {
	if len(f.Data) == 0 {
		return "", pkgerror.NewInvalidInput(fmt.Errorf("%s is empty", f.Part))
	}

	head := f.Data[:min(len(f.Data), pkgsheet.SniffLen)]
	format, err := pkgsheet.DetectFormat(f.Filename, head)
	if err != nil {
		return "", pkgerror.NewInvalidFormat(fmt.Errorf("%s (%s): %w", f.Part, f.Filename, err))
	}
	return format, nil
}

func read(f entity.UploadedFile, format pkgsheet.Format) (*pkgsheet.Table, error) {
	t, err := pkgsheet.Read(format, bytes.NewReader(f.Data))
	if err != nil {
		return nil, pkgerror.NewInvalidFormat(fmt.Errorf("%s (%s): %w", f.Part, f.Filename, err))
	}
	return t, nil
}

func columnErr(part string, err error) error {
	if errors.Is(err, pkgsheet.ErrMissingColumns) {
		return pkgerror.NewInvalidInput(fmt.Errorf("%s: %w", part, err))
	}
	return pkgerror.NewServer(err)
}

func encodeArtifacts(pay, mtr, exemplar *pkgsheet.Table, records int) ([]entity.Artifact, error) {
	payCSV, err := pkgsheet.EncodeCSV(pay)
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", entity.FilePaymentReport, err)
	}

	mtrXLSX, err := pkgsheet.EncodeXLSX(mtr, "MTR", mtrColInvoiceAmount)
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", entity.FileMTRReport, err)
	}

	exXLSX, err := pkgsheet.EncodeXLSX(exemplar, "Exemplar", exColInvoiceAmount, exColNetAmount)
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", entity.FileExemplarReport, err)
	}

	return []entity.Artifact{
		{Name: entity.FilePaymentReport, Data: payCSV, Rows: len(pay.Rows)},
		{Name: entity.FileMTRReport, Data: mtrXLSX, Rows: len(mtr.Rows)},
		{Name: entity.FileExemplarReport, Data: exXLSX, Rows: records},
	}, nil
}
