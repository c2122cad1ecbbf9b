package storage

import (
	"context"
	"fmt"
	"sync"

	"github.com/nguyentantai21042004/corpus-flow/internal/models"
)

// Resolver finds files by normalized name. The folders are listed once, on first use.
type Resolver struct {
	source    Storage
	folders   []string
	format    string
	normalize func(string) string

	mu    sync.Mutex
	index map[string]models.File
}

func NewResolver(source Storage, folders []string, format string, normalize func(string) string) *Resolver {
	return &Resolver{
		source:    source,
		folders:   folders,
		format:    format,
		normalize: normalize,
	}
}

// Resolve returns the file whose normalized name equals name. A failed listing is
// retried on the next call.
func (r *Resolver) Resolve(ctx context.Context, name string) (models.File, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.index == nil {
		files, err := r.source.ListFiles(ctx, r.folders, r.format)
		if err != nil {
			return models.File{}, fmt.Errorf("list source folders: %w", err)
		}
		r.index = indexByName(files, r.normalize)
	}

	f, ok := r.index[name]
	if !ok {
		return models.File{}, fmt.Errorf("no file named %q in %d folder(s)", name, len(r.folders))
	}
	return f, nil
}

// indexByName maps normalized names to files. The first listed file wins on collisions.
func indexByName(files []models.File, normalize func(string) string) map[string]models.File {
	idx := make(map[string]models.File, len(files))
	for _, f := range files {
		key := normalize(f.Name)
		if _, ok := idx[key]; !ok {
			idx[key] = f
		}
	}
	return idx
}
