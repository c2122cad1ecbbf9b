package resume

import (
	"path"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/nguyentantai21042004/corpus-flow/internal/models"
)

// DefaultStripSuffixes are header markers appended to recordings by the field teams.
var DefaultStripSuffixes = []string{"_sem_cabecalho", "_sem_cabecallho", "_sem_cabeçalho"}

// Normalizer maps source file names onto corpus audio names.
type Normalizer struct {
	suffixes []string
	// keyParts limits the search key to the first N "_" separated parts. 0 keeps the whole name.
	keyParts int
}

// NewNormalizer builds a Normalizer. A nil suffixes slice selects DefaultStripSuffixes.
func NewNormalizer(suffixes []string, keyParts int) *Normalizer {
	if suffixes == nil {
		suffixes = DefaultStripSuffixes
	}
	n := &Normalizer{keyParts: keyParts}
	for _, s := range suffixes {
		if s = norm.NFC.String(s); s != "" {
			n.suffixes = append(n.suffixes, s)
		}
	}
	return n
}

// Normalize drops a known audio extension and every configured suffix.
func (n *Normalizer) Normalize(name string) string {
	name = norm.NFC.String(strings.TrimSpace(name))
	if ext := path.Ext(name); ext != "" && models.IsAudioExtension(ext) {
		name = strings.TrimSuffix(name, ext)
	}
	for _, s := range n.suffixes {
		name = strings.ReplaceAll(name, s, "")
	}
	return name
}

// SearchKey returns the prefix used to look the audio up in the database.
func (n *Normalizer) SearchKey(normalized string) string {
	if n.keyParts <= 0 {
		return normalized
	}
	parts := strings.Split(normalized, "_")
	if len(parts) <= n.keyParts {
		return normalized
	}
	return strings.Join(parts[:n.keyParts], "_")
}
