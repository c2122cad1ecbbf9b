package storage

import (
	"context"
	"io"

	"github.com/nguyentantai21042004/corpus-flow/internal/models"
)

// Storage browses source folders and receives uploaded artifacts.
type Storage interface {
	// ListFiles lists audio files under folderIDs recursively. A non-empty format keeps
	// only files with that extension.
	ListFiles(ctx context.Context, folderIDs []string, format string) ([]models.File, error)
	Download(ctx context.Context, file models.File, w io.Writer) error
	// Upload stores f under parentID, creating the folders named in f.Name. It returns the new file id.
	Upload(ctx context.Context, parentID string, f models.FileToUpload) (string, error)
}
