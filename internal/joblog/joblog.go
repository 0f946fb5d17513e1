// Package joblog persists the per-job log artifacts the status endpoint
// serves back.
package joblog

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Store writes and reads job log files named <job id>.log.
type Store struct {
	dir string
}

func New(dir string) *Store {
	return &Store{dir: dir}
}

func (s *Store) path(jobID string) string {
	return filepath.Clean(filepath.Join(s.dir, jobID+".log"))
}

// Write creates (or truncates) the job's log with the given content.
func (s *Store) Write(jobID, content string) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("failed to create jobs log dir: %w", err)
	}
	if err := os.WriteFile(s.path(jobID), []byte(content), 0o644); err != nil {
		return fmt.Errorf("failed to write job log: %w", err)
	}
	return nil
}

// Append adds content to the job's log, creating it when needed.
func (s *Store) Append(jobID, content string) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("failed to create jobs log dir: %w", err)
	}
	f, err := os.OpenFile(s.path(jobID), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open job log: %w", err)
	}
	defer f.Close()
	if _, err := f.WriteString(content); err != nil {
		return fmt.Errorf("failed to append to job log: %w", err)
	}
	return nil
}

// ReadLines returns the job's log split into lines, or nil when the job has
// no log file.
func (s *Store) ReadLines(jobID string) ([]string, error) {
	raw, err := os.ReadFile(s.path(jobID))
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read job log: %w", err)
	}
	return strings.Split(string(raw), "\n"), nil
}
