package ui

import "testbridge/internal/domain"

// Viewer displays a discovery tree interactively
type Viewer interface {
	View(payload *domain.DiscoveryPayload, results *domain.RunOutput) error
}
