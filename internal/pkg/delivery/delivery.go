package delivery

import (
	"archive/zip"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ManuelReschke/NotesKart/app/models"
	"github.com/ManuelReschke/NotesKart/internal/pkg/env"
)

// Sentinel errors for the delivery gate.
var (
	ErrPaymentIncomplete = errors.New("payment not completed")
	ErrAssetMissing      = errors.New("no deliverable file found")
)

const documentExtension = ".pdf"

// File is a deliverable document resolved from an order's asset snapshot.
type File struct {
	Name string `json:"name"`
	Path string `json:"-"`
	Size int64  `json:"size"`
}

// StorageRoot returns the directory holding product assets.
func StorageRoot() string {
	return env.GetEnv("PDF_STORAGE_PATH", "./storage/pdfs")
}

// CheckDownloadable gates delivery on order state. Only completed orders
// may ever stream bytes.
func CheckDownloadable(order *models.Order) error {
	if order.Status != models.OrderStatusCompleted {
		return ErrPaymentIncomplete
	}
	return nil
}

// ResolveFiles locates the deliverable documents for an order using the
// asset snapshot taken at purchase time, never the live catalog. Folder
// assets enumerate every document inside; single-file assets resolve to
// exactly one entry.
func ResolveFiles(storageRoot string, order *models.Order) ([]File, error) {
	assetPath := filepath.Join(storageRoot, filepath.Clean("/"+order.AssetPath))

	if order.AssetIsFolder {
		entries, err := os.ReadDir(assetPath)
		if err != nil {
			if os.IsNotExist(err) {
				return nil, ErrAssetMissing
			}
			return nil, fmt.Errorf("reading asset folder: %w", err)
		}

		var files []File
		for _, entry := range entries {
			if entry.IsDir() || !strings.EqualFold(filepath.Ext(entry.Name()), documentExtension) {
				continue
			}
			info, err := entry.Info()
			if err != nil {
				continue
			}
			files = append(files, File{
				Name: entry.Name(),
				Path: filepath.Join(assetPath, entry.Name()),
				Size: info.Size(),
			})
		}
		if len(files) == 0 {
			return nil, ErrAssetMissing
		}
		return files, nil
	}

	info, err := os.Stat(assetPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrAssetMissing
		}
		return nil, fmt.Errorf("resolving asset file: %w", err)
	}
	return []File{{
		Name: filepath.Base(assetPath),
		Path: assetPath,
		Size: info.Size(),
	}}, nil
}

// ArchiveName derives a deterministic ZIP filename from the product's
// display name with non-alphanumeric characters normalized.
func ArchiveName(productName string) string {
	var b strings.Builder
	for _, r := range productName {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		} else {
			b.WriteByte('_')
		}
	}
	return b.String() + "_All_Notes.zip"
}

// WriteArchive streams the files as a ZIP archive into w.
func WriteArchive(w io.Writer, files []File) error {
	zw := zip.NewWriter(w)
	for _, file := range files {
		entry, err := zw.Create(file.Name)
		if err != nil {
			return err
		}
		src, err := os.Open(file.Path)
		if err != nil {
			return err
		}
		_, err = io.Copy(entry, src)
		src.Close()
		if err != nil {
			return err
		}
	}
	return zw.Close()
}
