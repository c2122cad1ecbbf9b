package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"google.golang.org/api/drive/v3"
	"google.golang.org/api/option"

	"github.com/nguyentantai21042004/corpus-flow/internal/models"
)

const (
	folderMimeType = "application/vnd.google-apps.folder"
	listFields     = "nextPageToken, files(id, name, mimeType, size, fileExtension, parents)"
)

type driveStorage struct {
	service *drive.Service

	// folderMu serializes folder creation so concurrent uploads never create duplicates.
	folderMu sync.Mutex
	folders  map[string]string // parent id + "/" + name -> folder id
}

// NewDrive creates a Google Drive backend from a service account credentials file.
func NewDrive(ctx context.Context, credentialsFile string) (Storage, error) {
	srv, err := drive.NewService(ctx,
		option.WithCredentialsFile(credentialsFile),
		option.WithScopes(drive.DriveScope),
	)
	if err != nil {
		return nil, fmt.Errorf("create drive service: %w", err)
	}
	return &driveStorage{service: srv, folders: make(map[string]string)}, nil
}

func (s *driveStorage) ListFiles(ctx context.Context, folderIDs []string, format string) ([]models.File, error) {
	var files []models.File
	for _, id := range folderIDs {
		if err := s.listFolder(ctx, id, format, &files); err != nil {
			return nil, err
		}
	}
	return files, nil
}

func (s *driveStorage) listFolder(ctx context.Context, folderID, format string, out *[]models.File) error {
	var subfolders []string

	q := fmt.Sprintf("'%s' in parents and trashed = false", escapeQuery(folderID))
	err := s.service.Files.List().
		Q(q).
		Fields(listFields).
		SupportsAllDrives(true).
		IncludeItemsFromAllDrives(true).
		Pages(ctx, func(page *drive.FileList) error {
			for _, f := range page.Files {
				if f.MimeType == folderMimeType {
					subfolders = append(subfolders, f.Id)
					continue
				}
				base, ext := models.SplitName(f.Name)
				if f.FileExtension != "" {
					ext = strings.ToLower(f.FileExtension)
				}
				if !matchesFormat(ext, format) {
					continue
				}
				*out = append(*out, models.File{
					ID:        f.Id,
					Name:      base,
					Extension: ext,
					MimeType:  f.MimeType,
					Parents:   f.Parents,
					Size:      f.Size,
				})
			}
			return nil
		})
	if err != nil {
		return fmt.Errorf("list drive folder %s: %w", folderID, err)
	}

	for _, sub := range subfolders {
		if err := s.listFolder(ctx, sub, format, out); err != nil {
			return err
		}
	}
	return nil
}

func (s *driveStorage) Download(ctx context.Context, file models.File, w io.Writer) error {
	resp, err := s.service.Files.Get(file.ID).SupportsAllDrives(true).Context(ctx).Download()
	if err != nil {
		return fmt.Errorf("download %s: %w", file.ID, err)
	}
	defer resp.Body.Close()

	if _, err := io.Copy(w, resp.Body); err != nil {
		return fmt.Errorf("read %s: %w", file.ID, err)
	}
	return nil
}

func (s *driveStorage) Upload(ctx context.Context, parentID string, f models.FileToUpload) (string, error) {
	levels := strings.Split(strings.Trim(f.Name, "/"), "/")
	parent := parentID
	for _, level := range levels[:len(levels)-1] {
		id, err := s.ensureFolder(ctx, parent, level)
		if err != nil {
			return "", err
		}
		parent = id
	}

	var media io.Reader = bytes.NewReader(f.Content)
	if f.Path != "" {
		in, err := os.Open(f.Path)
		if err != nil {
			return "", err
		}
		defer in.Close()
		media = in
	}

	mimeType := f.MimeType
	if mimeType == "" {
		mimeType = models.MimeType(f.Extension)
	}
	name := levels[len(levels)-1]
	if f.Extension != "" {
		name += "." + strings.TrimPrefix(f.Extension, ".")
	}

	created, err := s.service.Files.Create(&drive.File{
		Name:     name,
		Parents:  []string{parent},
		MimeType: mimeType,
	}).Media(media).Fields("id").SupportsAllDrives(true).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("upload %s: %w", f.Name, err)
	}
	return created.Id, nil
}

// ensureFolder returns the id of the folder name under parent, creating it when missing.
func (s *driveStorage) ensureFolder(ctx context.Context, parent, name string) (string, error) {
	s.folderMu.Lock()
	defer s.folderMu.Unlock()

	key := parent + "/" + name
	if id, ok := s.folders[key]; ok {
		return id, nil
	}

	q := fmt.Sprintf("mimeType = '%s' and '%s' in parents and name = '%s' and trashed = false",
		folderMimeType, escapeQuery(parent), escapeQuery(name))
	list, err := s.service.Files.List().
		Q(q).
		Fields("files(id)").
		SupportsAllDrives(true).
		IncludeItemsFromAllDrives(true).
		Context(ctx).
		Do()
	if err != nil {
		return "", fmt.Errorf("find folder %s: %w", key, err)
	}
	if len(list.Files) > 0 {
		s.folders[key] = list.Files[0].Id
		return list.Files[0].Id, nil
	}

	created, err := s.service.Files.Create(&drive.File{
		Name:     name,
		Parents:  []string{parent},
		MimeType: folderMimeType,
	}).Fields("id").SupportsAllDrives(true).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("create folder %s: %w", key, err)
	}
	s.folders[key] = created.Id
	return created.Id, nil
}

func escapeQuery(s string) string {
	return strings.NewReplacer(`\`, `\\`, `'`, `\'`).Replace(s)
}
