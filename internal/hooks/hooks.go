// Package hooks adapts framework lifecycle callbacks (collection finished,
// per-test outcome, session finished) to the tree builder, the recorder and
// the reporting client. Each session value owns the state of one run.
package hooks

import (
	"context"

	"testbridge/internal/domain"
)

// Poster delivers a payload to the editor
type Poster interface {
	Post(ctx context.Context, payload domain.Payload) error
}
