package inbound

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/shandysiswandi/goexemplar/internal/exemplar/artifact"
	"github.com/shandysiswandi/goexemplar/internal/exemplar/entity"
	"github.com/shandysiswandi/goexemplar/internal/exemplar/store"
	"github.com/shandysiswandi/goexemplar/internal/exemplar/usecase"
	"github.com/shandysiswandi/goexemplar/internal/pkg/pkgrouter"
	"github.com/shandysiswandi/goexemplar/internal/pkg/pkgroutine"
	"github.com/shandysiswandi/goexemplar/internal/pkg/pkgsheet"
	"github.com/shandysiswandi/goexemplar/internal/pkg/pkguid"
)

type envelope[T any] struct {
	Message string            `json:"message"`
	Data    T                 `json:"data"`
	Meta    map[string]any    `json:"meta,omitempty"`
	Error   map[string]string `json:"error,omitempty"`
}

const paymentCSV = `date/time,settlement id,type,order id,sku,description,total
01/02/2024 10:00:00 UTC,1, Order ,171-001,SKU1,Shirt,"1,200.50"
01/02/2024 11:00:00 UTC,1,Refund,171-002,SKU2,Pants,-300
01/02/2024 12:00:00 UTC,1,Transfer,,,To account,-5000
01/02/2024 13:00:00 UTC,1,Service Fee,,,Service Fee,-25.00
`

func mtrXLSX(t *testing.T) []byte {
	t.Helper()

	data, err := pkgsheet.EncodeXLSX(&pkgsheet.Table{
		Header: []string{"Invoice Number", "Transaction Type", "Order Id", "Item Description", "Invoice Amount", "Order Date"},
		Rows: [][]string{
			{"INV1", "Shipment", "171-001", "Shirt", "2000", "2024-01-01"},
			{"INV2", "Cancel", "171-003", "Hat", "150", "2024-01-01"},
			{"INV3", "Refund", "171-002", "Pants", "600", "2024-01-01"},
		},
	}, "MTR", "Invoice Amount")
	if err != nil {
		t.Fatalf("encode mtr: %v", err)
	}
	return data
}

type testServer struct {
	router http.Handler
	outDir string
	runner *pkgroutine.Manager
}

func newTestServer(t *testing.T) testServer {
	t.Helper()

	outDir := t.TempDir()
	writer, err := artifact.NewLocalWriter(outDir)
	if err != nil {
		t.Fatalf("local writer: %v", err)
	}

	runner := pkgroutine.NewManager(2)
	uc := usecase.New(usecase.Dependency{
		Store:     store.NewInMemoryStore(nil),
		Artifacts: writer,
		Runner:    runner,
		ID:        pkguid.NewUUID(),
		Options:   usecase.Options{GapRows: usecase.DefaultGapRows, Policy: usecase.PolicyKeep},
	})

	router := pkgrouter.NewRouter(pkguid.NewUUID())
	RegisterHTTPEndpoint(router, uc, 1<<20)

	return testServer{router: router, outDir: outDir, runner: runner}
}

type formFile struct {
	part     string
	filename string
	data     []byte
}

func postUpload(t *testing.T, router http.Handler, files ...formFile) *httptest.ResponseRecorder {
	t.Helper()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	for _, f := range files {
		part, err := writer.CreateFormFile(f.part, f.filename)
		if err != nil {
			t.Fatalf("create form file: %v", err)
		}
		if _, err := part.Write(f.data); err != nil {
			t.Fatalf("write %s: %v", f.part, err)
		}
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/upload/", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) envelope[T] {
	t.Helper()
	var env envelope[T]
	if err := json.NewDecoder(rec.Body).Decode(&env); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return env
}

func get(router http.Handler, target string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestUploadRecordsReconciliation(t *testing.T) {
	srv := newTestServer(t)

	rec := postUpload(t, srv.router,
		formFile{part: entity.PartPaymentReport, filename: "payments.csv", data: []byte(paymentCSV)},
		formFile{part: entity.PartMTRReport, filename: "mtr.xlsx", data: mtrXLSX(t)},
	)
	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d body=%s", rec.Code, rec.Body.String())
	}

	upload := decode[UploadResponse](t, rec)
	if upload.Message != "Processing completed successfully" {
		t.Fatalf("unexpected message: %q", upload.Message)
	}
	if !pkguid.IsUUID(upload.Data.UploadID) {
		t.Fatalf("upload id is not a uuid: %q", upload.Data.UploadID)
	}
	if upload.Data.RecordsInserted != 5 {
		t.Fatalf("expected 5 records inserted, got %d", upload.Data.RecordsInserted)
	}

	want := []string{entity.FilePaymentReport, entity.FileMTRReport, entity.FileExemplarReport}
	if strings.Join(upload.Data.FilesCreated, ",") != strings.Join(want, ",") {
		t.Fatalf("unexpected files: %v", upload.Data.FilesCreated)
	}
	for _, name := range want {
		if _, err := os.Stat(filepath.Join(srv.outDir, name)); err != nil {
			t.Fatalf("output %s: %v", name, err)
		}
	}

	rec = get(srv.router, "/uploads/"+upload.Data.UploadID+"/records?page=1&page_size=2")
	if rec.Code != http.StatusOK {
		t.Fatalf("records status: %d body=%s", rec.Code, rec.Body.String())
	}
	records := decode[RecordsResponse](t, rec)
	if len(records.Data.Records) != 2 {
		t.Fatalf("expected 2 records on the page, got %d", len(records.Data.Records))
	}
	if total, _ := records.Meta["total"].(float64); total != 5 {
		t.Fatalf("unexpected total: %v", records.Meta["total"])
	}

	rec = get(srv.router, "/uploads/"+upload.Data.UploadID+"/reconciliation")
	if rec.Code != http.StatusOK {
		t.Fatalf("reconciliation status: %d body=%s", rec.Code, rec.Body.String())
	}
	recon := decode[ReconciliationResponse](t, rec)
	if len(recon.Data.Records) != 5 {
		t.Fatalf("expected 5 categorized records, got %d", len(recon.Data.Records))
	}
	if len(recon.Data.Tolerance) != 2 {
		t.Fatalf("expected 2 tolerance rows, got %d", len(recon.Data.Tolerance))
	}
	if len(recon.Data.EmptyOrders) != 1 || recon.Data.EmptyOrders[0].TotalNetAmount != "-25.00" {
		t.Fatalf("unexpected empty orders: %+v", recon.Data.EmptyOrders)
	}

	if err := srv.runner.Wait(); err != nil {
		t.Fatalf("runner wait: %v", err)
	}
}

func TestUploadRejectsBadRequests(t *testing.T) {
	srv := newTestServer(t)

	tests := []struct {
		name   string
		files  []formFile
		status int
		reason string
	}{
		{
			name:   "missing mtr part",
			files:  []formFile{{part: entity.PartPaymentReport, filename: "payments.csv", data: []byte(paymentCSV)}},
			status: http.StatusBadRequest,
			reason: "mtr_report is required",
		},
		{
			name: "not a spreadsheet",
			files: []formFile{
				{part: entity.PartPaymentReport, filename: "payments.png", data: []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")},
				{part: entity.PartMTRReport, filename: "mtr.xlsx", data: mtrXLSX(t)},
			},
			status: http.StatusBadRequest,
		},
		{
			name: "missing column",
			files: []formFile{
				{part: entity.PartPaymentReport, filename: "payments.csv", data: []byte("type,order id\nOrder,1\n")},
				{part: entity.PartMTRReport, filename: "mtr.xlsx", data: mtrXLSX(t)},
			},
			status: http.StatusBadRequest,
			reason: "missing required columns",
		},
		{
			name: "unparseable amount",
			files: []formFile{
				{part: entity.PartPaymentReport, filename: "payments.csv", data: []byte(strings.Replace(paymentCSV, "-300", "lots", 1))},
				{part: entity.PartMTRReport, filename: "mtr.xlsx", data: mtrXLSX(t)},
			},
			status: http.StatusUnprocessableEntity,
			reason: "invalid amount",
		},
		{
			name: "too large",
			files: []formFile{
				{part: entity.PartPaymentReport, filename: "payments.csv", data: bytes.Repeat([]byte("a"), 1<<20+1)},
				{part: entity.PartMTRReport, filename: "mtr.xlsx", data: mtrXLSX(t)},
			},
			status: http.StatusRequestEntityTooLarge,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := postUpload(t, srv.router, tt.files...)
			if rec.Code != tt.status {
				t.Fatalf("expected status %d, got %d body=%s", tt.status, rec.Code, rec.Body.String())
			}
			env := decode[json.RawMessage](t, rec)
			if tt.reason != "" && !strings.Contains(env.Error["reason"], tt.reason) {
				t.Fatalf("reason %q does not mention %q", env.Error["reason"], tt.reason)
			}
		})
	}

	entries, err := os.ReadDir(srv.outDir)
	if err != nil {
		t.Fatalf("read output dir: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("rejected uploads wrote %d files", len(entries))
	}
}

func TestUploadRequiresMultipart(t *testing.T) {
	srv := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/upload/", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	srv.router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestRecordsErrors(t *testing.T) {
	srv := newTestServer(t)

	tests := []struct {
		name   string
		target string
		status int
	}{
		{name: "unknown upload", target: "/uploads/0192f5d4-8f7e-7c1a-9b7e-2f0f4a1c9d33/records", status: http.StatusNotFound},
		{name: "bad upload id", target: "/uploads/nope/records", status: http.StatusBadRequest},
		{name: "bad page", target: "/uploads/0192f5d4-8f7e-7c1a-9b7e-2f0f4a1c9d33/records?page=0", status: http.StatusBadRequest},
		{name: "bad page size", target: "/uploads/0192f5d4-8f7e-7c1a-9b7e-2f0f4a1c9d33/records?page_size=x", status: http.StatusBadRequest},
		{name: "unknown reconciliation", target: "/uploads/0192f5d4-8f7e-7c1a-9b7e-2f0f4a1c9d33/reconciliation", status: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := get(srv.router, tt.target)
			if rec.Code != tt.status {
				t.Fatalf("expected %d, got %d body=%s", tt.status, rec.Code, rec.Body.String())
			}
		})
	}
}

func TestParsePagination(t *testing.T) {
	page, size, err := parsePagination("", "")
	if err != nil || page != 1 || size != 50 {
		t.Fatalf("defaults: page=%d size=%d err=%v", page, size, err)
	}

	_, size, err = parsePagination("2", "10000")
	if err != nil || size != usecase.MaxPageSize {
		t.Fatalf("expected size capped at %d, got %d err=%v", usecase.MaxPageSize, size, err)
	}
}
