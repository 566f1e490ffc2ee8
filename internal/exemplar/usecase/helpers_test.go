package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/shandysiswandi/goexemplar/internal/exemplar/entity"
	"github.com/shandysiswandi/goexemplar/internal/pkg/pkgerror"
	"github.com/shandysiswandi/goexemplar/internal/pkg/pkgsheet"
)

const samplePaymentCSV = `date/time,settlement id,type,order id,sku,description,total
01/02/2024 10:00:00 UTC,1, Order ,171-001,SKU1,Shirt,"1,200.50"
01/02/2024 11:00:00 UTC,1,Refund,171-002,SKU2,Pants,-300
01/02/2024 12:00:00 UTC,1,Transfer,,,To account,-5000
01/02/2024 13:00:00 UTC,1,Service Fee,,,Service Fee,-25.00
02/02/2024 09:00:00 UTC,1,fba inventory fee,,,FBA Inventory Fee,-10
`

func sampleMTRTable() *pkgsheet.Table {
	return &pkgsheet.Table{
		Header: []string{"Invoice Number", "Transaction Type", "Order Id", "Quantity", "Item Description", "Invoice Amount", "Order Date"},
		Rows: [][]string{
			{"INV1", "Shipment", "171-001", "1", "Shirt", "2000", "2024-01-01"},
			{"INV2", "Cancel", "171-003", "1", "Hat", "150", "2024-01-01"},
			{"INV3", "Refund", "171-002", "1", "Pants", "600", "2024-01-01"},
			{"INV4", "FreeReplacement", "171-004", "1", "Socks", "0", "2024-01-03"},
		},
	}
}

func sampleMTRXLSX(t *testing.T) []byte {
	t.Helper()
	data, err := pkgsheet.EncodeXLSX(sampleMTRTable(), "MTR", "Invoice Amount")
	if err != nil {
		t.Fatalf("encode mtr: %v", err)
	}
	return data
}

func sampleInput(t *testing.T) UploadInput {
	t.Helper()
	return UploadInput{
		Payment: entity.UploadedFile{Part: entity.PartPaymentReport, Filename: "payments.csv", Data: []byte(samplePaymentCSV)},
		MTR:     entity.UploadedFile{Part: entity.PartMTRReport, Filename: "mtr.xlsx", Data: sampleMTRXLSX(t)},
	}
}

type staticID struct {
	value string
}

func (s staticID) Generate() string {
	return s.value
}

const testUploadID = "0192f5d4-8f7e-7c1a-9b7e-2f0f4a1c9d33"

type fakeStore struct {
	mu       sync.Mutex
	inserted map[string][]entity.ExemplarRecord
	err      error
}

func (s *fakeStore) InsertRecords(_ context.Context, uploadID string, records []entity.ExemplarRecord) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return 0, s.err
	}
	if s.inserted == nil {
		s.inserted = make(map[string][]entity.ExemplarRecord)
	}
	s.inserted[uploadID] = append(s.inserted[uploadID], records...)
	return int64(len(records)), nil
}

func (s *fakeStore) ListRecords(context.Context, string, int, int) ([]entity.StoredRecord, int, error) {
	return nil, 0, errors.New("not implemented")
}

func (s *fakeStore) RecordsByUpload(_ context.Context, uploadID string) ([]entity.StoredRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]entity.StoredRecord, 0, len(s.inserted[uploadID]))
	for i, rec := range s.inserted[uploadID] {
		out = append(out, entity.StoredRecord{ID: int64(i + 1), UploadID: uploadID, ExemplarRecord: rec})
	}
	return out, nil
}

type fakeWriter struct {
	calls     int
	artifacts []entity.Artifact
	err       error
}

func (w *fakeWriter) Write(_ context.Context, artifacts []entity.Artifact) ([]entity.WrittenArtifact, error) {
	w.calls++
	if w.err != nil {
		return nil, w.err
	}
	w.artifacts = artifacts
	out := make([]entity.WrittenArtifact, len(artifacts))
	for i, a := range artifacts {
		out[i] = entity.WrittenArtifact{Name: a.Name, Path: "/out/" + a.Name, Size: int64(len(a.Data)), Rows: a.Rows}
	}
	return out, nil
}

func requireCode(t *testing.T, err error, code pkgerror.Code) {
	t.Helper()
	var gerr *pkgerror.Error
	if !errors.As(err, &gerr) {
		t.Fatalf("expected *pkgerror.Error, got %T (%v)", err, err)
	}
	if gerr.Code() != code {
		t.Fatalf("expected code %s, got %s (%v)", code, gerr.Code(), err)
	}
}
