package delivery

import (
	"archive/zip"
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/ManuelReschke/NotesKart/app/models"
)

func writeTestFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}
}

func TestCheckDownloadable(t *testing.T) {
	t.Parallel()

	if err := CheckDownloadable(&models.Order{Status: models.OrderStatusCompleted}); err != nil {
		t.Fatalf("unexpected error for completed order: %v", err)
	}
	if err := CheckDownloadable(&models.Order{Status: "pending"}); !errors.Is(err, ErrPaymentIncomplete) {
		t.Fatalf("expected ErrPaymentIncomplete, got %v", err)
	}
}

func TestResolveFiles_SingleFile(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeTestFile(t, filepath.Join(root, "history.pdf"), "pdf-bytes")

	order := &models.Order{AssetPath: "history.pdf"}
	files, err := ResolveFiles(root, order)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(files) != 1 {
		t.Fatalf("expected 1 file, got %d", len(files))
	}
	if files[0].Name != "history.pdf" {
		t.Fatalf("file name = %q", files[0].Name)
	}
	if files[0].Size != int64(len("pdf-bytes")) {
		t.Fatalf("file size = %d", files[0].Size)
	}
}

func TestResolveFiles_Folder(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeTestFile(t, filepath.Join(root, "history", "unit1.pdf"), "a")
	writeTestFile(t, filepath.Join(root, "history", "unit2.PDF"), "bb")
	writeTestFile(t, filepath.Join(root, "history", "readme.txt"), "not delivered")
	writeTestFile(t, filepath.Join(root, "history", "nested", "unit3.pdf"), "not enumerated")

	order := &models.Order{AssetPath: "history", AssetIsFolder: true}
	files, err := ResolveFiles(root, order)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(files) != 2 {
		t.Fatalf("expected 2 pdf files, got %d", len(files))
	}
	for _, f := range files {
		if f.Name != "unit1.pdf" && f.Name != "unit2.PDF" {
			t.Fatalf("unexpected file %q", f.Name)
		}
	}
}

func TestResolveFiles_Missing(t *testing.T) {
	t.Parallel()

	root := t.TempDir()

	if _, err := ResolveFiles(root, &models.Order{AssetPath: "gone.pdf"}); !errors.Is(err, ErrAssetMissing) {
		t.Fatalf("expected ErrAssetMissing for missing file, got %v", err)
	}
	if _, err := ResolveFiles(root, &models.Order{AssetPath: "gone", AssetIsFolder: true}); !errors.Is(err, ErrAssetMissing) {
		t.Fatalf("expected ErrAssetMissing for missing folder, got %v", err)
	}

	// folder exists but holds no documents
	if err := os.MkdirAll(filepath.Join(root, "empty"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if _, err := ResolveFiles(root, &models.Order{AssetPath: "empty", AssetIsFolder: true}); !errors.Is(err, ErrAssetMissing) {
		t.Fatalf("expected ErrAssetMissing for empty folder, got %v", err)
	}
}

func TestResolveFiles_PathTraversal(t *testing.T) {
	t.Parallel()

	base := t.TempDir()
	root := filepath.Join(base, "pdfs")
	writeTestFile(t, filepath.Join(base, "secret.pdf"), "outside the root")

	order := &models.Order{AssetPath: "../secret.pdf"}
	if _, err := ResolveFiles(root, order); !errors.Is(err, ErrAssetMissing) {
		t.Fatalf("expected traversal to stay inside the root, got %v", err)
	}
}

func TestArchiveName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
	}{
		{in: "History Notes", want: "History_Notes_All_Notes.zip"},
		{in: "Maths (Vol. 2)", want: "Maths__Vol__2__All_Notes.zip"},
		{in: "combo2024", want: "combo2024_All_Notes.zip"},
	}

	for _, tt := range tests {
		if got := ArchiveName(tt.in); got != tt.want {
			t.Fatalf("ArchiveName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestWriteArchive(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeTestFile(t, filepath.Join(root, "unit1.pdf"), "first document")
	writeTestFile(t, filepath.Join(root, "unit2.pdf"), "second document")

	files := []File{
		{Name: "unit1.pdf", Path: filepath.Join(root, "unit1.pdf")},
		{Name: "unit2.pdf", Path: filepath.Join(root, "unit2.pdf")},
	}

	var buf bytes.Buffer
	if err := WriteArchive(&buf, files); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	zr, err := zip.NewReader(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	if err != nil {
		t.Fatalf("reading archive: %v", err)
	}
	if len(zr.File) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(zr.File))
	}

	want := map[string]string{
		"unit1.pdf": "first document",
		"unit2.pdf": "second document",
	}
	for _, entry := range zr.File {
		rc, err := entry.Open()
		if err != nil {
			t.Fatalf("opening entry %q: %v", entry.Name, err)
		}
		content, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			t.Fatalf("reading entry %q: %v", entry.Name, err)
		}
		if string(content) != want[entry.Name] {
			t.Fatalf("entry %q content = %q, want %q", entry.Name, content, want[entry.Name])
		}
	}
}

func TestWriteArchive_MissingSource(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	err := WriteArchive(&buf, []File{{Name: "gone.pdf", Path: filepath.Join(t.TempDir(), "gone.pdf")}})
	if err == nil {
		t.Fatalf("expected error for missing source file")
	}
}
