package storage

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/nguyentantai21042004/corpus-flow/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStorage struct {
	files []models.File
	err   error
}

func (f *fakeStorage) ListFiles(ctx context.Context, folderIDs []string, format string) ([]models.File, error) {
	return f.files, f.err
}

func (f *fakeStorage) Download(ctx context.Context, file models.File, w io.Writer) error {
	return nil
}

func (f *fakeStorage) Upload(ctx context.Context, parentID string, u models.FileToUpload) (string, error) {
	return "", nil
}

func stripHeader(name string) string {
	return strings.TrimSuffix(name, "_sem_cabecalho")
}

type countingStorage struct {
	fakeStorage
	lists int
}

func (c *countingStorage) ListFiles(ctx context.Context, folderIDs []string, format string) ([]models.File, error) {
	c.lists++
	return c.fakeStorage.ListFiles(ctx, folderIDs, format)
}

func TestResolver(t *testing.T) {
	s := &countingStorage{fakeStorage: fakeStorage{files: []models.File{
		{ID: "1", Name: "talk_sem_cabecalho", Extension: "wav"},
		{ID: "2", Name: "talk", Extension: "wav"},
		{ID: "3", Name: "other", Extension: "mp3"},
	}}}
	r := NewResolver(s, []string{"root"}, "", stripHeader)
	ctx := context.Background()

	f, err := r.Resolve(ctx, "talk")
	require.NoError(t, err)
	assert.Equal(t, "1", f.ID)

	f, err = r.Resolve(ctx, "other")
	require.NoError(t, err)
	assert.Equal(t, "3", f.ID)

	_, err = r.Resolve(ctx, "missing")
	assert.Error(t, err)
	assert.Equal(t, 1, s.lists)
}

func TestResolverListingError(t *testing.T) {
	s := &fakeStorage{err: errors.New("offline")}
	r := NewResolver(s, nil, "", stripHeader)

	_, err := r.Resolve(context.Background(), "talk")
	assert.ErrorContains(t, err, "offline")

	s.err = nil
	s.files = []models.File{{ID: "9", Name: "talk", Extension: "wav"}}
	f, err := r.Resolve(context.Background(), "talk")
	require.NoError(t, err)
	assert.Equal(t, "9", f.ID)
}
