package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/nguyentantai21042004/corpus-flow/internal/models"
)

// localStorage treats folder ids as directories on the local filesystem.
type localStorage struct{}

// NewLocal returns a Storage backed by local directories.
func NewLocal() Storage {
	return &localStorage{}
}

func (s *localStorage) ListFiles(ctx context.Context, folderIDs []string, format string) ([]models.File, error) {
	var files []models.File
	for _, root := range folderIDs {
		err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if d.IsDir() {
				return nil
			}
			f, ok := LocalFile(path)
			if !ok || !matchesFormat(f.Extension, format) {
				return nil
			}
			if info, err := d.Info(); err == nil {
				f.Size = info.Size()
			}
			files = append(files, f)
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("list %s: %w", root, err)
		}
	}
	return files, nil
}

// LocalFile describes a local path as a storage entry.
func LocalFile(path string) (models.File, bool) {
	base, ext := models.SplitName(filepath.Base(path))
	if base == "" {
		return models.File{}, false
	}
	return models.File{
		ID:        path,
		Name:      base,
		Extension: ext,
		MimeType:  models.MimeType(ext),
		Parents:   []string{filepath.Dir(path)},
	}, true
}

func (s *localStorage) Download(ctx context.Context, file models.File, w io.Writer) error {
	f, err := os.Open(file.ID)
	if err != nil {
		return err
	}
	defer f.Close()

	if _, err := io.Copy(w, f); err != nil {
		return fmt.Errorf("copy %s: %w", file.ID, err)
	}
	return nil
}

func (s *localStorage) Upload(ctx context.Context, parentID string, f models.FileToUpload) (string, error) {
	dst := filepath.Join(parentID, filepath.FromSlash(uploadName(f)))
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return "", err
	}

	var src io.Reader = bytes.NewReader(f.Content)
	if f.Path != "" {
		in, err := os.Open(f.Path)
		if err != nil {
			return "", err
		}
		defer in.Close()
		src = in
	}

	out, err := os.Create(dst)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(out, src); err != nil {
		out.Close()
		return "", fmt.Errorf("copy to %s: %w", dst, err)
	}
	if err := out.Close(); err != nil {
		return "", err
	}
	return dst, nil
}
