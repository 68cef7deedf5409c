package batch

import (
	"context"

	"github.com/joeycumines/logiface"
)

type (
	// Runnable is the non-generic view of a Step used by Job, satisfied by
	// *Step[I, O] for any I, O.
	Runnable interface {
		Name() string
		run(ctx context.Context) (StepExecution, error)
	}

	// Job runs an ordered list of steps sequentially, stopping at the first
	// step that terminates with a status other than SUCCESS.
	Job struct {
		Name   string
		Steps  []Runnable
		Logger *logiface.Logger[logiface.Event]
	}

	// JobExecution aggregates the step executions of one job run, in
	// declared order.
	JobExecution struct {
		Name           string
		Status         Status
		Steps          []StepExecution
		FailedStepName string
	}
)

// RunJob is a convenience constructor-and-run for a one-off sequential job.
func RunJob(ctx context.Context, name string, steps ...Runnable) (JobExecution, error) {
	return (&Job{Name: name, Steps: steps}).Run(ctx)
}

// Run executes each step in order. If a step terminates with a status other
// than SUCCESS, the job stops immediately: subsequent steps are not
// executed, and the job's status is FAILED with FailedStepName set to the
// terminating step's name. Otherwise the job's status is SUCCESS once every
// step has run.
func (j *Job) Run(ctx context.Context) (JobExecution, error) {
	j.Logger.Info().Str(`job`, j.Name).Log(`job starting`)

	exec := JobExecution{Name: j.Name, Status: StatusSuccess, Steps: make([]StepExecution, 0, len(j.Steps))}

	var runErr error

	for _, step := range j.Steps {
		stepExec, err := step.run(ctx)
		exec.Steps = append(exec.Steps, stepExec)
		if stepExec.Status != StatusSuccess {
			exec.Status = StatusFailed
			exec.FailedStepName = step.Name()
			runErr = err
			break
		}
	}

	if exec.Status == StatusFailed {
		j.Logger.Err().Str(`job`, j.Name).Str(`failed_step`, exec.FailedStepName).Err(runErr).Log(`job failed`)
	} else {
		j.Logger.Info().Str(`job`, j.Name).Log(`job succeeded`)
	}

	return exec, runErr
}
