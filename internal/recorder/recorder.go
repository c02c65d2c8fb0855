package recorder

import (
	"fmt"

	"testbridge/internal/domain"
)

// Signal is the raw outcome a framework reports for a test
type Signal string

const (
	SignalSuccess           Signal = "success"
	SignalFailure           Signal = "failure"
	SignalError             Signal = "error"
	SignalSkipped           Signal = "skipped"
	SignalExpectedFailure   Signal = "expected-failure"
	SignalUnexpectedSuccess Signal = "unexpected-success"
	SignalSubtest           Signal = "subtest"
)

// Raw is an outcome as delivered by the framework hook
type Raw struct {
	TestID          string
	Signal          Signal
	Message         string
	Traceback       string
	DurationSeconds float64
	// SubtestID is set for parametrized sub-cases
	SubtestID string
	// Errored marks a failed subtest; only read for SignalSubtest
	Errored bool
}

// Classify maps a raw framework signal to the reported outcome kind
func Classify(signal Signal, errored bool) (domain.OutcomeKind, error) {
	switch signal {
	case SignalSuccess:
		return domain.OutcomeSuccess, nil
	case SignalFailure:
		return domain.OutcomeFailure, nil
	case SignalError:
		return domain.OutcomeError, nil
	case SignalSkipped:
		return domain.OutcomeSkipped, nil
	case SignalExpectedFailure:
		return domain.OutcomeExpectedFailure, nil
	case SignalUnexpectedSuccess:
		return domain.OutcomeUnexpectedSuccess, nil
	case SignalSubtest:
		if errored {
			return domain.OutcomeSubtestFailure, nil
		}
		return domain.OutcomeSubtestSuccess, nil
	}
	return "", fmt.Errorf("unknown outcome signal %q", signal)
}

// Normalize converts a raw framework outcome into a record
func Normalize(raw Raw) (domain.Outcome, error) {
	kind, err := Classify(raw.Signal, raw.Errored)
	if err != nil {
		return domain.Outcome{}, err
	}

	out := domain.Outcome{
		TestID:          raw.TestID,
		Outcome:         kind,
		Message:         raw.Message,
		DurationSeconds: raw.DurationSeconds,
	}
	if raw.Traceback != "" {
		tb := raw.Traceback
		out.Traceback = &tb
	}
	if raw.SubtestID != "" {
		sub := raw.SubtestID
		out.SubtestID = &sub
	}
	return out, nil
}

// Recorder accumulates the outcomes of one execution run. It is owned by a
// single run and is not safe for concurrent use.
type Recorder struct {
	results map[string]domain.Outcome
	order   []string
}

// New creates an empty Recorder
func New() *Recorder {
	return &Recorder{results: make(map[string]domain.Outcome)}
}

// Record stores an outcome under its subtest id, or its test id when it has
// none. A later outcome for the same key replaces the earlier one.
func (r *Recorder) Record(o domain.Outcome) {
	key := o.Key()
	if _, ok := r.results[key]; !ok {
		r.order = append(r.order, key)
	}
	r.results[key] = o
}

// Get returns the outcome stored under key
func (r *Recorder) Get(key string) (domain.Outcome, bool) {
	o, ok := r.results[key]
	return o, ok
}

// Snapshot returns a copy of the recorded outcomes keyed by id
func (r *Recorder) Snapshot() map[string]domain.Outcome {
	out := make(map[string]domain.Outcome, len(r.results))
	for k, v := range r.results {
		out[k] = v
	}
	return out
}

// Keys returns the recorded keys in first-recorded order
func (r *Recorder) Keys() []string {
	keys := make([]string, len(r.order))
	copy(keys, r.order)
	return keys
}

// Len returns the number of recorded keys
func (r *Recorder) Len() int {
	return len(r.results)
}

// Seen reports whether any outcome was recorded for a test id, either
// directly or through one of its subtests
func (r *Recorder) Seen(testID string) bool {
	if _, ok := r.results[testID]; ok {
		return true
	}
	for _, o := range r.results {
		if o.TestID == testID {
			return true
		}
	}
	return false
}

// Stats counts outcomes per kind
type Stats struct {
	Total   int
	Passed  int
	Failed  int
	Skipped int
}

// Stats summarizes the recorded outcomes
func (r *Recorder) Stats() Stats {
	return Summarize(r.results)
}

// Summarize counts a set of outcomes by kind
func Summarize(results map[string]domain.Outcome) Stats {
	var s Stats
	for _, o := range results {
		s.Total++
		switch {
		case o.Outcome.Failed():
			s.Failed++
		case o.Outcome == domain.OutcomeSkipped:
			s.Skipped++
		default:
			s.Passed++
		}
	}
	return s
}
