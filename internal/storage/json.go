package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/goccy/go-json"

	"testbridge/internal/domain"
	"testbridge/internal/recorder"
)

// SaveDiscovery writes the discovery payload that was posted to the editor.
func (s *JSONStorage) SaveDiscovery(payload domain.DiscoveryPayload) error {
	return s.write(discoveryFile, payload)
}

// LoadDiscovery reads the last discovery payload.
func (s *JSONStorage) LoadDiscovery() (*domain.DiscoveryPayload, error) {
	var payload domain.DiscoveryPayload
	if err := s.read(discoveryFile, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// SaveExecution writes the recorded outcomes of a run.
func (s *JSONStorage) SaveExecution(rec *recorder.Recorder, notFound []string, duration time.Duration) error {
	stats := rec.Stats()
	output := domain.RunOutput{
		Meta: domain.RunMeta{
			Total:           stats.Total,
			Passed:          stats.Passed,
			Failed:          stats.Failed,
			Skipped:         stats.Skipped,
			Duration:        duration.String(),
			DurationSeconds: duration.Seconds(),
			Timestamp:       time.Now().Format(time.RFC3339),
		},
		Order:    rec.Keys(),
		Results:  rec.Snapshot(),
		NotFound: notFound,
	}
	return s.write(executionFile, output)
}

// LoadExecution reads the last execution results.
func (s *JSONStorage) LoadExecution() (*domain.RunOutput, error) {
	var output domain.RunOutput
	if err := s.read(executionFile, &output); err != nil {
		return nil, err
	}
	return &output, nil
}

func (s *JSONStorage) write(name string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal %s: %w", name, err)
	}

	path := s.cfg.GetStoragePath(name)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create storage dir: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	return nil
}

func (s *JSONStorage) read(name string, v any) error {
	data, err := os.ReadFile(s.cfg.GetStoragePath(name))
	if err != nil {
		return fmt.Errorf("read %s: %w", name, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("parse %s: %w", name, err)
	}
	return nil
}
