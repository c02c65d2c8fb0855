package storage

import (
	"time"

	"testbridge/internal/config"
	"testbridge/internal/domain"
	"testbridge/internal/recorder"
)

const (
	discoveryFile = "last-discovery.json"
	executionFile = "last-execution.json"
)

// Storage persists the last discovery tree and execution results (e.g. for the view command).
type Storage interface {
	SaveDiscovery(payload domain.DiscoveryPayload) error
	LoadDiscovery() (*domain.DiscoveryPayload, error)
	SaveExecution(rec *recorder.Recorder, notFound []string, duration time.Duration) error
	LoadExecution() (*domain.RunOutput, error)
}

// JSONStorage stores payloads as JSON files under the configured storage directory.
type JSONStorage struct {
	cfg *config.Config
}

// NewJSONStorage returns a Storage that reads/writes the config's storage directory.
func NewJSONStorage(cfg *config.Config) *JSONStorage {
	return &JSONStorage{cfg: cfg}
}
