package processor

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// moveToArchived moves a handled inbox file into the archive folder
func (p *implProcessor) moveToArchived(ctx context.Context, path string) error {
	if p.opts.ArchiveDir == "" {
		return nil
	}
	if err := os.MkdirAll(p.opts.ArchiveDir, 0755); err != nil {
		return fmt.Errorf("create archive dir: %w", err)
	}
	dest := filepath.Join(p.opts.ArchiveDir, filepath.Base(path))

	p.logger.Info(ctx, "Archiving: %s -> %s", path, dest)

	if err := os.Rename(path, dest); err != nil {
		// Rename fails across devices, copy instead
		if err := copyFile(path, dest); err != nil {
			return fmt.Errorf("move to archived: %w", err)
		}
		if err := os.Remove(path); err != nil {
			return fmt.Errorf("remove archived source: %w", err)
		}
	}
	return nil
}

// copyFile copies a file from src to dst
func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("read source: %w", err)
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("write destination: %w", err)
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return fmt.Errorf("write destination: %w", err)
	}
	return out.Close()
}
