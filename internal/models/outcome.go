package models

// Outcome represents the terminal result of one notice's pipeline pass
type Outcome int

const (
	OutcomeFailedExtraction Outcome = iota
	OutcomeFailedSink
	OutcomeCreated
	OutcomeSkippedExcluded
)

// Handled reports whether the notice reached a terminal state that allows
// its message to be marked as seen.
func (o Outcome) Handled() bool {
	return o == OutcomeCreated || o == OutcomeSkippedExcluded
}

func (o Outcome) String() string {
	switch o {
	case OutcomeCreated:
		return "created"
	case OutcomeSkippedExcluded:
		return "skipped-excluded"
	case OutcomeFailedExtraction:
		return "failed-extraction"
	case OutcomeFailedSink:
		return "failed-sink"
	}
	return "unknown"
}
