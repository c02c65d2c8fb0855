package domain

// OutcomeKind classifies the terminal state of a test or subtest
type OutcomeKind string

const (
	OutcomeSuccess           OutcomeKind = "success"
	OutcomeFailure           OutcomeKind = "failure"
	OutcomeError             OutcomeKind = "error"
	OutcomeSkipped           OutcomeKind = "skipped"
	OutcomeExpectedFailure   OutcomeKind = "expected-failure"
	OutcomeUnexpectedSuccess OutcomeKind = "unexpected-success"
	OutcomeSubtestSuccess    OutcomeKind = "subtest-success"
	OutcomeSubtestFailure    OutcomeKind = "subtest-failure"
)

// Failed reports whether the outcome should be shown as a failing test
func (k OutcomeKind) Failed() bool {
	switch k {
	case OutcomeFailure, OutcomeError, OutcomeUnexpectedSuccess, OutcomeSubtestFailure:
		return true
	}
	return false
}

// Outcome is the recorded result of one test or subtest
type Outcome struct {
	TestID          string      `json:"test"`
	Outcome         OutcomeKind `json:"outcome"`
	Message         string      `json:"message"`
	DurationSeconds float64     `json:"duration"`
	Traceback       *string     `json:"traceback"`
	SubtestID       *string     `json:"subtest"`
}

// Key is the identifier the outcome is stored and reported under
func (o Outcome) Key() string {
	if o.SubtestID != nil && *o.SubtestID != "" {
		return *o.SubtestID
	}
	return o.TestID
}
