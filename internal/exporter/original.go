package exporter

import (
	"context"

	"github.com/nguyentantai21042004/corpus-flow/internal/audio"
	"github.com/nguyentantai21042004/corpus-flow/internal/storage"
)

// StorageOriginals finds original recordings in the source folders by normalized name.
type StorageOriginals struct {
	resolver *storage.Resolver
	loader   *audio.Loader
}

// NewStorageOriginals creates an OriginalSource. loader sets the output sample rate.
func NewStorageOriginals(source storage.Storage, loader *audio.Loader, folders []string, format string, normalize func(string) string) *StorageOriginals {
	return &StorageOriginals{
		resolver: storage.NewResolver(source, folders, format, normalize),
		loader:   loader,
	}
}

// Original returns the full, untrimmed recording stored under name.
func (o *StorageOriginals) Original(ctx context.Context, name string) (*audio.Audio, error) {
	file, err := o.resolver.Resolve(ctx, name)
	if err != nil {
		return nil, err
	}
	return o.loader.Load(ctx, file, name)
}
