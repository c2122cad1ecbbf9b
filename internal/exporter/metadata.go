package exporter

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
)

// writeMetadata pretty-prints the stored JSON metadata; a missing value becomes "{}".
func writeMetadata(path, raw string) error {
	if raw == "" {
		raw = "{}"
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, []byte(raw), "", "  "); err != nil {
		return fmt.Errorf("invalid json metadata: %w", err)
	}
	buf.WriteByte('\n')
	return os.WriteFile(path, buf.Bytes(), 0644)
}
