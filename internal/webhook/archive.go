package webhook

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"
)

// Archiver dumps raw payloads and headers to timestamped JSON files, as a
// debugging aid. A missing directory disables archiving.
type Archiver struct {
	dir string
}

func NewArchiver(dir string) *Archiver {
	return &Archiver{dir: dir}
}

// Archive writes <timestamp>_event.json and <timestamp>_headers.json.
func (a *Archiver) Archive(payload []byte, header http.Header) error {
	if a.dir == "" {
		return nil
	}
	if err := os.MkdirAll(a.dir, 0o755); err != nil {
		return fmt.Errorf("failed to create event log dir: %w", err)
	}

	now := time.Now()
	stamp := now.Format("20060102_150405") + fmt.Sprintf("_%06d", now.Nanosecond()/1000)
	eventPath := filepath.Join(a.dir, stamp+"_event.json")
	if err := os.WriteFile(eventPath, payload, 0o644); err != nil {
		return fmt.Errorf("failed to archive event: %w", err)
	}

	headers := make(map[string]string, len(header))
	for key := range header {
		headers[key] = header.Get(key)
	}
	raw, err := json.Marshal(headers)
	if err != nil {
		return fmt.Errorf("failed to marshal headers: %w", err)
	}
	headersPath := filepath.Join(a.dir, stamp+"_headers.json")
	if err := os.WriteFile(headersPath, raw, 0o644); err != nil {
		return fmt.Errorf("failed to archive headers: %w", err)
	}
	return nil
}
