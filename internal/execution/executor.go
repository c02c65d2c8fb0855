package execution

import (
	"context"

	"testbridge/internal/parser"
)

// Executor runs a test framework command and hands its event stream to handle
type Executor interface {
	Run(ctx context.Context, argv []string, handle func(parser.Parser) error) error
}
