package models

import (
	"path"
	"strings"
)

// File is an entry listed by a storage backend.
type File struct {
	ID        string
	Name      string // base name without extension
	Extension string // lower-case, without the leading dot
	MimeType  string
	Parents   []string
	Size      int64
}

// FullName returns the name with its extension.
func (f File) FullName() string {
	if f.Extension == "" {
		return f.Name
	}
	return f.Name + "." + f.Extension
}

// ParentID returns the first parent folder, or "" when the backend reports none.
func (f File) ParentID() string {
	if len(f.Parents) == 0 {
		return ""
	}
	return f.Parents[0]
}

// FileToUpload describes an artifact pushed to a storage backend.
// Name may contain "/" separated folders that the backend creates on demand.
type FileToUpload struct {
	Name      string
	Extension string
	Path      string
	Content   []byte
	MimeType  string
}

// SplitName splits a file name into its base and lower-case extension.
func SplitName(name string) (base, ext string) {
	ext = path.Ext(name)
	base = strings.TrimSuffix(name, ext)
	return base, strings.ToLower(strings.TrimPrefix(ext, "."))
}

var mimeTypes = map[string]string{
	"wav":  "audio/wav",
	"mp3":  "audio/mpeg",
	"mp4":  "video/mp4",
	"m4a":  "audio/mp4",
	"flac": "audio/flac",
	"ogg":  "audio/ogg",
	"txt":  "text/plain",
	"csv":  "text/csv",
	"json": "application/json",
}

// MimeType returns the MIME type for an extension, or application/octet-stream.
func MimeType(ext string) string {
	if m, ok := mimeTypes[strings.ToLower(strings.TrimPrefix(ext, "."))]; ok {
		return m
	}
	return "application/octet-stream"
}

// AudioExtensions lists the source formats the loader accepts.
var AudioExtensions = []string{"wav", "mp3", "mp4", "m4a", "flac", "ogg"}

// IsAudioExtension reports whether ext is one of AudioExtensions.
func IsAudioExtension(ext string) bool {
	ext = strings.ToLower(strings.TrimPrefix(ext, "."))
	for _, e := range AudioExtensions {
		if e == ext {
			return true
		}
	}
	return false
}
