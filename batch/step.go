package batch

import (
	"context"

	"github.com/joeycumines/logiface"
)

// Step is a single reader/processor/writer pipeline, run to exhaustion
// under one fault-tolerance policy. Instances are constructed via
// StepBuilder/NewStepBuilder and are safe to Execute more than once,
// though each call runs independently and returns its own StepExecution.
type Step[I, O any] struct {
	name      string
	reader    ItemReader[I]
	processor ItemProcessor[I, O]
	writer    ItemWriter[O]
	chunkSize int
	skipLimit int
	logger    *logiface.Logger[logiface.Event]
	sink      DiagnosticSink
}

// Name returns the step's stable identifier.
func (s *Step[I, O]) Name() string { return s.name }

// Execute drives the step to a terminal status: it opens the reader/writer
// (if they implement ItemStreamOpener), runs the chunk loop until the
// reader is exhausted, a fatal failure occurs, or ctx is canceled between
// chunks, then closes the reader/writer (if they implement
// ItemStreamCloser) and returns the frozen StepExecution.
//
// ctx cancellation is the step's cooperative stop signal: it is observed
// only between chunks, never pre-empting an in-flight Read/Process/Write
// call, and causes a STOPPED status rather than FAILED.
func (s *Step[I, O]) Execute(ctx context.Context) (StepExecution, error) {
	exec := newExecutionState(s.name)

	s.logger.Info().Str(`step`, s.name).Log(`step starting`)

	var runErr error

	if err := s.open(ctx); err != nil {
		exec.status = StatusFailed
		runErr = err
	} else {
		exec.status = StatusStarted

		for {
			exhausted, fatal := s.runChunk(ctx, exec)
			if fatal != nil {
				exec.status = StatusFailed
				runErr = fatal
				break
			}
			if exhausted {
				break
			}
			if err := ctx.Err(); err != nil {
				exec.status = StatusStopped
				runErr = ErrStopped
				break
			}
		}

		if err := s.close(ctx); err != nil && !exec.status.Terminal() {
			exec.status = StatusFailed
			runErr = err
		} else if err != nil && runErr == nil {
			runErr = err
		}
	}

	if !exec.status.Terminal() {
		exec.status = StatusSuccess
		runErr = nil
	}

	exec.endTime = now()

	if exec.status == StatusFailed {
		s.logger.Err().Str(`step`, s.name).Err(runErr).Log(`step failed`)
	} else {
		s.logger.Info().Str(`step`, s.name).Str(`status`, exec.status.String()).Log(`step terminated`)
	}

	return exec.snapshot(), runErr
}

// open opens the reader then the writer (if they implement
// ItemStreamOpener). If the writer fails to open, the already-opened
// reader is closed before returning, so a failed open never leaks a
// resource the reader acquired.
func (s *Step[I, O]) open(ctx context.Context) error {
	readerOpened := false
	if opener, ok := any(s.reader).(ItemStreamOpener); ok {
		if err := opener.Open(ctx); err != nil {
			return err
		}
		readerOpened = true
	}
	if opener, ok := any(s.writer).(ItemStreamOpener); ok {
		if err := opener.Open(ctx); err != nil {
			if readerOpened {
				if closer, ok := any(s.reader).(ItemStreamCloser); ok {
					_ = closer.Close(ctx)
				}
			}
			return err
		}
	}
	return nil
}

// close invokes Close on the writer then the reader (if implemented),
// always attempting both, and returns the first error encountered.
func (s *Step[I, O]) close(ctx context.Context) error {
	var first error
	if closer, ok := any(s.writer).(ItemStreamCloser); ok {
		if err := closer.Close(ctx); err != nil {
			first = err
		}
	}
	if closer, ok := any(s.reader).(ItemStreamCloser); ok {
		if err := closer.Close(ctx); err != nil && first == nil {
			first = err
		}
	}
	return first
}

func (s *Step[I, O]) notify(kind FailureKind, cause error, tolerated bool, chunkSize int) {
	s.sink.OnFailure(FailureRecord{
		Step:      s.name,
		Kind:      kind,
		Cause:     cause,
		Tolerated: tolerated,
		ChunkSize: chunkSize,
	})
	if tolerated {
		s.logger.Warning().
			Str(`step`, s.name).
			Str(`kind`, kind.String()).
			Err(cause).
			Log(`tolerated failure`)
	}
}

// run implements the non-generic Runnable interface, used by Job.
func (s *Step[I, O]) run(ctx context.Context) (StepExecution, error) {
	return s.Execute(ctx)
}
