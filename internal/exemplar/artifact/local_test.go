package artifact

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/shandysiswandi/goexemplar/internal/exemplar/entity"
)

func TestLocalWriterWritesAll(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "output")
	w, err := NewLocalWriter(dir)
	if err != nil {
		t.Fatalf("NewLocalWriter: %v", err)
	}

	files, err := w.Write(context.Background(), []entity.Artifact{
		{Name: entity.FilePaymentReport, Data: []byte("a,b\n1,2\n"), Rows: 1},
		{Name: entity.FileExemplarReport, Data: []byte("xlsx"), Rows: 3},
	})
	if err != nil {
		t.Fatalf("Write: %v", err)
	}

	if len(files) != 2 {
		t.Fatalf("expected 2 files, got %d", len(files))
	}
	got, err := os.ReadFile(files[0].Path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if string(got) != "a,b\n1,2\n" {
		t.Fatalf("unexpected content %q", got)
	}
	if files[0].Checksum != Checksum([]byte("a,b\n1,2\n")) || len(files[0].Checksum) != 16 {
		t.Fatalf("unexpected checksum %q", files[0].Checksum)
	}
	if files[1].Size != 4 || files[1].Rows != 3 {
		t.Fatalf("unexpected file info %+v", files[1])
	}

	assertNoTempFiles(t, dir)
}

func TestLocalWriterOverwrites(t *testing.T) {
	w, err := NewLocalWriter(t.TempDir())
	if err != nil {
		t.Fatalf("NewLocalWriter: %v", err)
	}

	for _, body := range []string{"first", "second"} {
		if _, err := w.Write(context.Background(), []entity.Artifact{{Name: "report.csv", Data: []byte(body)}}); err != nil {
			t.Fatalf("Write: %v", err)
		}
	}

	got, err := os.ReadFile(filepath.Join(w.Dir(), "report.csv"))
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if string(got) != "second" {
		t.Fatalf("expected latest content, got %q", got)
	}
}

func TestLocalWriterLeavesNothingOnFailure(t *testing.T) {
	dir := t.TempDir()
	w, err := NewLocalWriter(dir)
	if err != nil {
		t.Fatalf("NewLocalWriter: %v", err)
	}

	_, err = w.Write(context.Background(), []entity.Artifact{
		{Name: "good.csv", Data: []byte("ok")},
		{Name: "nested/bad.csv", Data: []byte("fails")},
	})
	if err == nil {
		t.Fatalf("expected staging error")
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("expected empty output dir, found %d entries", len(entries))
	}
}

func TestLocalWriterCanceled(t *testing.T) {
	dir := t.TempDir()
	w, err := NewLocalWriter(dir)
	if err != nil {
		t.Fatalf("NewLocalWriter: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := w.Write(ctx, []entity.Artifact{{Name: "a.csv", Data: []byte("x")}}); err == nil {
		t.Fatalf("expected context error")
	}
	assertNoTempFiles(t, dir)
}

func TestNewLocalWriterRequiresDir(t *testing.T) {
	if _, err := NewLocalWriter(""); err == nil {
		t.Fatalf("expected error for empty dir")
	}
}

func assertNoTempFiles(t *testing.T, dir string) {
	t.Helper()
	matches, err := filepath.Glob(filepath.Join(dir, ".*.tmp"))
	if err != nil {
		t.Fatalf("glob: %v", err)
	}
	if len(matches) != 0 {
		t.Fatalf("temp files left behind: %v", matches)
	}
}
