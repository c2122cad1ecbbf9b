package storage

import (
	"context"
	"fmt"
	"strings"

	"github.com/nguyentantai21042004/corpus-flow/internal/config"
	"github.com/nguyentantai21042004/corpus-flow/internal/models"
)

// New builds the backend selected by cfg.Backend.
func New(ctx context.Context, cfg config.StorageConfig) (Storage, error) {
	switch cfg.Backend {
	case "", "local":
		return NewLocal(), nil
	case "gdrive":
		return NewDrive(ctx, cfg.Credentials)
	case "s3":
		return NewS3(ctx, S3Options{
			Bucket:   cfg.Bucket,
			Region:   cfg.Region,
			Endpoint: cfg.Endpoint,
		})
	default:
		return nil, fmt.Errorf("unsupported storage backend %q", cfg.Backend)
	}
}

// matchesFormat reports whether ext is wanted by a listing filtered on format.
// An empty format accepts every audio extension.
func matchesFormat(ext, format string) bool {
	format = strings.ToLower(strings.TrimPrefix(format, "."))
	if format == "" {
		return models.IsAudioExtension(ext)
	}
	return ext == format
}

func uploadName(f models.FileToUpload) string {
	if f.Extension == "" {
		return f.Name
	}
	return f.Name + "." + strings.TrimPrefix(f.Extension, ".")
}
