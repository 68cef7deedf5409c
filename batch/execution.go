package batch

import "time"

// Status is the lifecycle state of a StepExecution. Transitions only move
// forward: Starting -> Started -> {Success | Failed | Stopped}.
type Status int

const (
	StatusStarting Status = iota
	StatusStarted
	StatusSuccess
	StatusFailed
	StatusStopped
)

func (s Status) String() string {
	switch s {
	case StatusStarting:
		return `STARTING`
	case StatusStarted:
		return `STARTED`
	case StatusSuccess:
		return `SUCCESS`
	case StatusFailed:
		return `FAILED`
	case StatusStopped:
		return `STOPPED`
	default:
		return `UNKNOWN`
	}
}

// Terminal reports whether the status is one a step cannot leave.
func (s Status) Terminal() bool {
	return s == StatusSuccess || s == StatusFailed || s == StatusStopped
}

// StepExecution is an immutable snapshot of the metrics and status of one
// step run. It is published once, when the step terminates; no counter
// changes after that point.
type StepExecution struct {
	Name      string
	Status    Status
	StartTime time.Time
	EndTime   time.Time

	ReadCount  int
	WriteCount int

	ReadSkipCount    int
	ProcessSkipCount int
	WriteSkipCount   int

	// ReadErrorCount and WriteErrorCount are alias views retained for
	// reporting: they stay 0 while failures of the corresponding kind are
	// tolerated, and are incremented by exactly one when a failure of that
	// kind exhausts the skip budget and terminates the step.
	ReadErrorCount  int
	WriteErrorCount int
}

// SkipCount is the sum of the three skip counters, compared against a
// step's skip limit to decide tolerance.
func (e StepExecution) SkipCount() int {
	return e.ReadSkipCount + e.ProcessSkipCount + e.WriteSkipCount
}

// Duration is EndTime minus StartTime. It is zero for a step that hasn't
// terminated yet (EndTime is the zero Time).
func (e StepExecution) Duration() time.Duration {
	if e.EndTime.IsZero() {
		return 0
	}
	return e.EndTime.Sub(e.StartTime)
}

// executionState is the mutable record the orchestrator mutates while a
// step runs. It is never exposed to callers; Step.Execute publishes a
// detached StepExecution value copy on return.
type executionState struct {
	name      string
	status    Status
	startTime time.Time
	endTime   time.Time

	readCount  int
	writeCount int

	readSkipCount    int
	processSkipCount int
	writeSkipCount   int

	readErrorCount  int
	writeErrorCount int
}

func newExecutionState(name string) *executionState {
	return &executionState{name: name, status: StatusStarting, startTime: now()}
}

func (e *executionState) totalSkips() int {
	return e.readSkipCount + e.processSkipCount + e.writeSkipCount
}

func (e *executionState) snapshot() StepExecution {
	return StepExecution{
		Name:             e.name,
		Status:           e.status,
		StartTime:        e.startTime,
		EndTime:          e.endTime,
		ReadCount:        e.readCount,
		WriteCount:       e.writeCount,
		ReadSkipCount:    e.readSkipCount,
		ProcessSkipCount: e.processSkipCount,
		WriteSkipCount:   e.writeSkipCount,
		ReadErrorCount:   e.readErrorCount,
		WriteErrorCount:  e.writeErrorCount,
	}
}
