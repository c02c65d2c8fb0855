package hooks

import (
	"context"
	"errors"
	"io"

	"testbridge/internal/domain"
	"testbridge/internal/parser"
)

// DriveDiscovery feeds a discovery session from an event stream. A stream
// that ends without collection_finished is finished with the session's cwd
// as root. Lines that are not valid events become discovery errors; a failing
// stream still finishes the session so the editor gets the partial tree and
// the end-of-transmission marker.
func DriveDiscovery(ctx context.Context, p parser.Parser, d *Discovery) (domain.DiscoveryPayload, error) {
	for {
		ev, err := p.Next()
		if errors.Is(err, io.EOF) {
			return d.CollectionFinished(ctx, "")
		}
		var lineErr *parser.LineError
		if errors.As(err, &lineErr) {
			d.log.Warn().Err(err).Msg("event skipped")
			d.Error(err.Error())
			continue
		}
		if err != nil {
			d.Error(err.Error())
			payload, postErr := d.CollectionFinished(ctx, "")
			return payload, errors.Join(err, postErr)
		}

		switch ev.Kind {
		case parser.EventCollected:
			d.Collected(*ev.Case)
		case parser.EventError:
			d.Error(ev.Message)
		case parser.EventCollectionFinished:
			return d.CollectionFinished(ctx, ev.Root)
		}
	}
}

// DriveExecution feeds an execution session from an event stream until
// session_finished or the end of the stream. Failing posts and invalid lines
// do not stop the run; the first post failure is returned once the session
// is finished.
func DriveExecution(ctx context.Context, p parser.Parser, e *Execution) error {
	var firstErr error
	for {
		ev, err := p.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		var lineErr *parser.LineError
		if errors.As(err, &lineErr) {
			e.log.Warn().Err(err).Msg("event skipped")
			continue
		}
		if err != nil {
			return errors.Join(firstErr, err, e.SessionFinished(ctx))
		}

		if ev.Kind == parser.EventSessionFinished {
			break
		}
		if ev.Kind != parser.EventOutcome {
			continue
		}
		if err := e.Outcome(ctx, ev.Raw()); err != nil {
			e.log.Error().Err(err).Msg("outcome not reported")
			if firstErr == nil {
				firstErr = err
			}
		}
	}

	if err := e.SessionFinished(ctx); err != nil {
		return errors.Join(firstErr, err)
	}
	return firstErr
}
