package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/shandysiswandi/goexemplar/internal/exemplar/entity"
	"github.com/shandysiswandi/goexemplar/internal/pkg/pkgerror"
	"github.com/shandysiswandi/goexemplar/internal/pkg/pkgroutine"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockStore struct {
	mock.Mock
}

func (m *mockStore) InsertRecords(ctx context.Context, uploadID string, records []entity.ExemplarRecord) (int64, error) {
	args := m.Called(ctx, uploadID, records)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockStore) ListRecords(ctx context.Context, uploadID string, page, pageSize int) ([]entity.StoredRecord, int, error) {
	args := m.Called(ctx, uploadID, page, pageSize)
	return args.Get(0).([]entity.StoredRecord), args.Int(1), args.Error(2)
}

func (m *mockStore) RecordsByUpload(ctx context.Context, uploadID string) ([]entity.StoredRecord, error) {
	args := m.Called(ctx, uploadID)
	return args.Get(0).([]entity.StoredRecord), args.Error(1)
}

type recordingMirror struct {
	uploadID  string
	artifacts []entity.Artifact
}

func (m *recordingMirror) Mirror(_ context.Context, uploadID string, artifacts []entity.Artifact) error {
	m.uploadID = uploadID
	m.artifacts = artifacts
	return nil
}

func TestUploadWritesFilesAndPersists(t *testing.T) {
	store := &fakeStore{}
	writer := &fakeWriter{}
	uc := New(Dependency{Store: store, Artifacts: writer, ID: staticID{value: testUploadID}})

	res, err := uc.Upload(context.Background(), sampleInput(t))
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}

	if res.UploadID != testUploadID {
		t.Fatalf("unexpected upload id %q", res.UploadID)
	}
	if res.RecordsInserted != 7 || len(store.inserted[testUploadID]) != 7 {
		t.Fatalf("expected 7 records inserted, got %d", res.RecordsInserted)
	}
	want := []string{entity.FilePaymentReport, entity.FileMTRReport, entity.FileExemplarReport}
	got := res.FileNames()
	if len(got) != len(want) {
		t.Fatalf("unexpected files %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("unexpected files %v", got)
		}
	}
}

func TestUploadAppendsOnRepeat(t *testing.T) {
	store := &fakeStore{}
	uc := New(Dependency{Store: store, Artifacts: &fakeWriter{}, ID: staticID{value: testUploadID}})

	for range 2 {
		if _, err := uc.Upload(context.Background(), sampleInput(t)); err != nil {
			t.Fatalf("Upload: %v", err)
		}
	}

	if got := len(store.inserted[testUploadID]); got != 14 {
		t.Fatalf("expected 14 rows after two uploads, got %d", got)
	}
}

func TestUploadMissingColumnWritesNothing(t *testing.T) {
	store := &fakeStore{}
	writer := &fakeWriter{}
	uc := New(Dependency{Store: store, Artifacts: writer, ID: staticID{value: testUploadID}})

	in := sampleInput(t)
	in.Payment.Data = []byte("date/time,type,description,total\n2024-01-01,Order,Shirt,10\n")

	_, err := uc.Upload(context.Background(), in)
	requireCode(t, err, pkgerror.CodeInvalidInput)

	var gerr *pkgerror.Error
	if errors.As(err, &gerr) && gerr.StatusCode() != 400 {
		t.Fatalf("expected 400, got %d", gerr.StatusCode())
	}
	if writer.calls != 0 || len(store.inserted) != 0 {
		t.Fatalf("nothing should be written, writer calls=%d inserted=%d", writer.calls, len(store.inserted))
	}
}

func TestUploadBadAmountWritesNothing(t *testing.T) {
	writer := &fakeWriter{}
	uc := New(Dependency{Store: &fakeStore{}, Artifacts: writer, ID: staticID{value: testUploadID}})

	in := sampleInput(t)
	in.Payment.Data = []byte("date/time,type,order id,description,total\n2024-01-01,Order,1,Shirt,abc\n")

	_, err := uc.Upload(context.Background(), in)
	requireCode(t, err, pkgerror.CodeUnprocessable)
	if writer.calls != 0 {
		t.Fatalf("no files should be written on a processing error")
	}
}

func TestUploadStoreFailureKeepsFiles(t *testing.T) {
	store := &mockStore{}
	store.On("InsertRecords", mock.Anything, testUploadID, mock.Anything).Return(int64(0), errors.New("connection refused"))
	writer := &fakeWriter{}
	uc := New(Dependency{Store: store, Artifacts: writer, ID: staticID{value: testUploadID}})

	_, err := uc.Upload(context.Background(), sampleInput(t))
	requireCode(t, err, pkgerror.CodeInternal)

	assert.Equal(t, 1, writer.calls)
	store.AssertExpectations(t)
}

func TestUploadWriterFailure(t *testing.T) {
	store := &mockStore{}
	uc := New(Dependency{Store: store, Artifacts: &fakeWriter{err: errors.New("disk full")}, ID: staticID{value: testUploadID}})

	_, err := uc.Upload(context.Background(), sampleInput(t))
	requireCode(t, err, pkgerror.CodeInternal)
	store.AssertNotCalled(t, "InsertRecords", mock.Anything, mock.Anything, mock.Anything)
}

func TestUploadMirrorsInBackground(t *testing.T) {
	mirror := &recordingMirror{}
	runner := pkgroutine.NewManager(1)
	uc := New(Dependency{
		Store:     &fakeStore{},
		Artifacts: &fakeWriter{},
		Mirror:    mirror,
		Runner:    runner,
		ID:        staticID{value: testUploadID},
	})

	_, err := uc.Upload(context.Background(), sampleInput(t))
	require.NoError(t, err)
	require.NoError(t, runner.Wait())

	assert.Equal(t, testUploadID, mirror.uploadID)
	require.Len(t, mirror.artifacts, 3)
	for _, art := range mirror.artifacts {
		assert.NotEmpty(t, art.Data, art.Name)
	}
}

func TestUploadMissingDependency(t *testing.T) {
	_, err := New(Dependency{}).Upload(context.Background(), sampleInput(t))
	requireCode(t, err, pkgerror.CodeInternal)
}

func TestRecords(t *testing.T) {
	store := &mockStore{}
	rows := []entity.StoredRecord{{ID: 1, UploadID: testUploadID}}
	store.On("ListRecords", mock.Anything, testUploadID, 2, 10).Return(rows, 11, nil)

	res, err := New(Dependency{Store: store}).Records(context.Background(), testUploadID, 2, 10)
	require.NoError(t, err)

	assert.Equal(t, 11, res.Total)
	assert.Equal(t, 2, res.Page)
	assert.Equal(t, rows, res.Records)
	store.AssertExpectations(t)
}

func TestRecordsValidation(t *testing.T) {
	uc := New(Dependency{Store: &mockStore{}})

	_, err := uc.Records(context.Background(), "", 1, 10)
	requireCode(t, err, pkgerror.CodeInvalidInput)

	_, err = uc.Records(context.Background(), "not-a-uuid", 1, 10)
	requireCode(t, err, pkgerror.CodeInvalidInput)

	_, err = uc.Records(context.Background(), testUploadID, 0, 10)
	requireCode(t, err, pkgerror.CodeInvalidInput)

	_, err = uc.Records(context.Background(), testUploadID, 1, MaxPageSize+1)
	requireCode(t, err, pkgerror.CodeInvalidInput)
}

func TestRecordsUnknownUpload(t *testing.T) {
	store := &mockStore{}
	store.On("ListRecords", mock.Anything, testUploadID, 1, 10).Return([]entity.StoredRecord{}, 0, nil)

	_, err := New(Dependency{Store: store}).Records(context.Background(), testUploadID, 1, 10)
	requireCode(t, err, pkgerror.CodeNotFound)
}

func TestRecordsStoreError(t *testing.T) {
	store := &mockStore{}
	store.On("ListRecords", mock.Anything, testUploadID, 1, 10).Return([]entity.StoredRecord(nil), 0, errors.New("timeout"))

	_, err := New(Dependency{Store: store}).Records(context.Background(), testUploadID, 1, 10)
	requireCode(t, err, pkgerror.CodeInternal)
}
