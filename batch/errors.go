package batch

import (
	"errors"
	"fmt"
)

type (
	// ReaderError wraps any cause surfaced by an ItemReader.
	ReaderError struct{ Cause error }

	// ProcessorError wraps any cause surfaced by an ItemProcessor.
	ProcessorError struct{ Cause error }

	// WriterError wraps any cause surfaced by an ItemWriter. It always
	// pertains to the entire chunk that was being flushed.
	WriterError struct{ Cause error }

	// ConfigurationError is surfaced only at build time, from StepBuilder.
	// It is never tolerated by the skip policy.
	ConfigurationError struct{ Cause error }
)

// ErrStopped indicates a step terminated via cooperative cancellation
// (context cancellation observed between chunks), rather than failure.
// It is not an error condition from the engine's perspective.
var ErrStopped = errors.New(`batch: step stopped`)

func (e *ReaderError) Error() string { return fmt.Sprintf(`batch: reader error: %v`, e.Cause) }
func (e *ReaderError) Unwrap() error { return e.Cause }

func (e *ProcessorError) Error() string { return fmt.Sprintf(`batch: processor error: %v`, e.Cause) }
func (e *ProcessorError) Unwrap() error { return e.Cause }

func (e *WriterError) Error() string { return fmt.Sprintf(`batch: writer error: %v`, e.Cause) }
func (e *WriterError) Unwrap() error { return e.Cause }

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf(`batch: configuration error: %v`, e.Cause)
}
func (e *ConfigurationError) Unwrap() error { return e.Cause }

func newConfigurationError(msg string) error {
	return &ConfigurationError{Cause: errors.New(msg)}
}
