package analysis

type Status string

const (
	StatusIdle        Status = "idle"
	StatusAnalyzing   Status = "analyzing"
	StatusResearching Status = "researching"
	StatusScoring     Status = "scoring"
	StatusComplete    Status = "complete"
	StatusError       Status = "error"
)

// InFlight reports whether an evaluation request is outstanding.
func (s Status) InFlight() bool {
	switch s {
	case StatusAnalyzing, StatusResearching, StatusScoring:
		return true
	}
	return false
}

// AcceptsSubmission reports whether a new evaluation may start.
func (s Status) AcceptsSubmission() bool {
	switch s {
	case StatusIdle, StatusComplete, StatusError:
		return true
	}
	return false
}

func (s Status) Terminal() bool {
	return s == StatusComplete || s == StatusError
}

// phase orders the in-flight statuses; cosmetic transitions only move forward.
func (s Status) phase() int {
	switch s {
	case StatusAnalyzing:
		return 1
	case StatusResearching:
		return 2
	case StatusScoring:
		return 3
	}
	return 0
}
