package hooks

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"testbridge/internal/domain"
	"testbridge/internal/logging"
	"testbridge/internal/tree"
)

// Discovery collects cases for one discovery run and reports the tree once
// collection has finished
type Discovery struct {
	cwd     string
	builder *tree.Builder
	poster  Poster
	log     zerolog.Logger

	cases  []domain.CaseRecord
	errors []string
	filter func([]domain.CaseRecord) []domain.CaseRecord
}

// NewDiscovery creates a discovery session reporting cwd as its working directory
func NewDiscovery(cwd string, builder *tree.Builder, poster Poster) *Discovery {
	return &Discovery{
		cwd:     cwd,
		builder: builder,
		poster:  poster,
		log:     logging.New("discovery"),
	}
}

// SetFilter restricts which collected cases end up in the tree. It is applied
// once collection has finished.
func (d *Discovery) SetFilter(filter func([]domain.CaseRecord) []domain.CaseRecord) {
	d.filter = filter
}

// Collected is called once per discovered case
func (d *Discovery) Collected(c domain.CaseRecord) {
	d.cases = append(d.cases, c)
}

// Error records a framework-level collection error
func (d *Discovery) Error(msg string) {
	d.errors = append(d.errors, msg)
}

// CollectionFinished builds the tree under root, posts it and then posts the
// end-of-transmission marker. The payload is returned even when posting fails.
func (d *Discovery) CollectionFinished(ctx context.Context, root string) (domain.DiscoveryPayload, error) {
	if root == "" {
		root = d.cwd
	}

	cases := d.cases
	if d.filter != nil {
		cases = d.filter(cases)
		d.log.Debug().Int("collected", len(d.cases)).Int("kept", len(cases)).Msg("cases filtered")
	}

	session, buildErrs := d.builder.Build(root, cases)
	errs := append(append([]string{}, d.errors...), buildErrs...)
	for _, e := range buildErrs {
		d.log.Warn().Str("error", e).Msg("test case skipped")
	}

	payload := domain.DiscoveryPayload{
		CWD:    d.cwd,
		Status: domain.StatusSuccess,
		Tests:  session,
		Errors: errs,
	}
	if len(errs) > 0 {
		payload.Status = domain.StatusError
	}

	d.log.Info().Int("cases", len(cases)).Int("errors", len(errs)).Msg("collection finished")

	var postErr error
	if err := d.poster.Post(ctx, payload); err != nil {
		postErr = fmt.Errorf("post discovery payload: %w", err)
	}
	if err := d.poster.Post(ctx, domain.NewEOT(domain.CommandDiscovery)); err != nil {
		postErr = errors.Join(postErr, fmt.Errorf("post end of transmission: %w", err))
	}
	return payload, postErr
}
