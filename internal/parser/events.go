package parser

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/goccy/go-json"

	"testbridge/internal/domain"
	"testbridge/internal/recorder"
)

// EventKind names a framework lifecycle event
type EventKind string

const (
	EventCollected          EventKind = "collected"
	EventCollectionFinished EventKind = "collection_finished"
	EventOutcome            EventKind = "outcome"
	EventSessionFinished    EventKind = "session_finished"
	EventError              EventKind = "error"
)

const maxLineSize = 4 * 1024 * 1024

// Event is one line of the framework's event stream
type Event struct {
	Kind EventKind `json:"event"`

	// collected
	Case *domain.CaseRecord `json:"case,omitempty"`

	// collection_finished
	Root string `json:"root,omitempty"`

	// outcome
	Test      string          `json:"test,omitempty"`
	Signal    recorder.Signal `json:"signal,omitempty"`
	Message   string          `json:"message,omitempty"`
	Traceback string          `json:"traceback,omitempty"`
	Duration  float64         `json:"duration,omitempty"`
	Subtest   string          `json:"subtest,omitempty"`
	Errored   bool            `json:"errored,omitempty"`
}

// Raw converts an outcome event for the recorder. A subtest with a
// traceback counts as errored even when the flag is missing.
func (e Event) Raw() recorder.Raw {
	return recorder.Raw{
		TestID:          e.Test,
		Signal:          e.Signal,
		Message:         e.Message,
		Traceback:       e.Traceback,
		DurationSeconds: e.Duration,
		SubtestID:       e.Subtest,
		Errored:         e.Errored || (e.Signal == recorder.SignalSubtest && e.Traceback != ""),
	}
}

// LineError reports a line of the stream that is not a valid event. The
// parser can continue past it.
type LineError struct {
	Line int
	Err  error
}

func (e *LineError) Error() string {
	return fmt.Sprintf("line %d: %v", e.Line, e.Err)
}

func (e *LineError) Unwrap() error {
	return e.Err
}

// EventParser decodes a JSON-lines event stream
type EventParser struct {
	scanner *bufio.Scanner
	line    int
}

// NewEventParser creates a new EventParser reading from r
func NewEventParser(r io.Reader) *EventParser {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), maxLineSize)
	return &EventParser{scanner: scanner}
}

// Next returns the next event. Blank lines are skipped.
func (p *EventParser) Next() (Event, error) {
	for p.scanner.Scan() {
		p.line++
		line := bytes.TrimSpace(p.scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		return p.decode(line)
	}
	if err := p.scanner.Err(); err != nil {
		return Event{}, fmt.Errorf("read event stream: %w", err)
	}
	return Event{}, io.EOF
}

func (p *EventParser) decode(line []byte) (Event, error) {
	var ev Event
	if err := json.Unmarshal(line, &ev); err != nil {
		return Event{}, &LineError{Line: p.line, Err: err}
	}

	switch ev.Kind {
	case EventCollected:
		if ev.Case == nil {
			return Event{}, &LineError{Line: p.line, Err: errors.New("collected event without case")}
		}
	case EventOutcome:
		if ev.Test == "" || ev.Signal == "" {
			return Event{}, &LineError{Line: p.line, Err: errors.New("outcome event needs test and signal")}
		}
	case EventCollectionFinished, EventSessionFinished, EventError:
	default:
		return Event{}, &LineError{Line: p.line, Err: fmt.Errorf("unknown event %q", ev.Kind)}
	}
	return ev, nil
}
