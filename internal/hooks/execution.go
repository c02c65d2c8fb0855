package hooks

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"testbridge/internal/domain"
	"testbridge/internal/logging"
	"testbridge/internal/recorder"
)

// NoTestIDsMessage is reported when the editor sent an empty selection
const NoTestIDsMessage = "No test ids received from buffer"

// Execution records outcomes of one execution run and streams each of them
// to the editor as it arrives
type Execution struct {
	cwd       string
	poster    Poster
	recorder  *recorder.Recorder
	log       zerolog.Logger
	selection []string
	selected  map[string]bool
	onOutcome func(domain.Outcome)
}

// NewExecution creates an execution session. A non-empty selection limits
// reporting to those test ids; selected ids that never report an outcome
// are returned as not found when the session finishes.
func NewExecution(cwd string, poster Poster, selection []string) *Execution {
	e := &Execution{
		cwd:       cwd,
		poster:    poster,
		recorder:  recorder.New(),
		log:       logging.New("execution"),
		selection: selection,
		selected:  make(map[string]bool, len(selection)),
	}
	for _, id := range selection {
		e.selected[id] = true
	}
	return e
}

// OnOutcome registers a callback run after each recorded outcome
func (e *Execution) OnOutcome(fn func(domain.Outcome)) {
	e.onOutcome = fn
}

// Recorder exposes the run's recorded outcomes
func (e *Execution) Recorder() *recorder.Recorder {
	return e.recorder
}

// Outcome classifies, records and posts a single outcome
func (e *Execution) Outcome(ctx context.Context, raw recorder.Raw) error {
	if len(e.selected) > 0 && !e.selected[raw.TestID] {
		e.log.Debug().Str("test", raw.TestID).Msg("outcome outside selection ignored")
		return nil
	}

	outcome, err := recorder.Normalize(raw)
	if err != nil {
		return fmt.Errorf("test %s: %w", raw.TestID, err)
	}
	if prev, ok := e.recorder.Get(outcome.Key()); ok {
		e.log.Debug().Str("test", outcome.Key()).Str("previous", string(prev.Outcome)).Msg("outcome replaced")
	}
	e.recorder.Record(outcome)
	if e.onOutcome != nil {
		e.onOutcome(outcome)
	}

	payload := domain.ExecutionPayload{
		CWD:    e.cwd,
		Status: domain.StatusSuccess,
		Result: map[string]domain.Outcome{outcome.Key(): outcome},
	}
	if err := e.poster.Post(ctx, payload); err != nil {
		return fmt.Errorf("post outcome of %s: %w", outcome.Key(), err)
	}
	return nil
}

// NotFound returns the selected ids that have no recorded outcome, in
// selection order
func (e *Execution) NotFound() []string {
	var missing []string
	for _, id := range e.selection {
		if !e.recorder.Seen(id) {
			missing = append(missing, id)
		}
	}
	return missing
}

// SessionFinished reports selected tests that never ran and closes the
// stream with the end-of-transmission marker
func (e *Execution) SessionFinished(ctx context.Context) error {
	var postErr error

	if missing := e.NotFound(); len(missing) > 0 {
		payload := domain.ExecutionPayload{
			CWD:      e.cwd,
			Status:   domain.StatusSuccess,
			Result:   map[string]domain.Outcome{},
			NotFound: missing,
		}
		if err := e.poster.Post(ctx, payload); err != nil {
			postErr = fmt.Errorf("post not found ids: %w", err)
		}
	}

	stats := e.recorder.Stats()
	e.log.Info().Int("total", stats.Total).Int("failed", stats.Failed).Msg("session finished")

	if err := e.poster.Post(ctx, domain.NewEOT(domain.CommandExecution)); err != nil {
		postErr = errors.Join(postErr, fmt.Errorf("post end of transmission: %w", err))
	}
	return postErr
}

// Abort reports a run that could not start, followed by the end-of-transmission marker
func (e *Execution) Abort(ctx context.Context, message string) error {
	payload := domain.ExecutionPayload{
		CWD:    e.cwd,
		Status: domain.StatusError,
		Error:  message,
	}
	var postErr error
	if err := e.poster.Post(ctx, payload); err != nil {
		postErr = fmt.Errorf("post error payload: %w", err)
	}
	if err := e.poster.Post(ctx, domain.NewEOT(domain.CommandExecution)); err != nil {
		postErr = errors.Join(postErr, fmt.Errorf("post end of transmission: %w", err))
	}
	return postErr
}
