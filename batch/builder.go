package batch

import (
	"github.com/joeycumines/logiface"
)

// StepBuilder constructs a validated Step[I, O]. Use NewStepBuilder for an
// identity (I = O) pipeline, or NewTypedStepBuilder when a processor
// transforms I into a distinct O - the latter is the only way to obtain a
// StepBuilder[I, O] with O != I, which is how the package enforces, at
// compile time, that a processor must be supplied whenever the types
// differ.
type StepBuilder[I, O any] struct {
	name      string
	reader    ItemReader[I]
	processor ItemProcessor[I, O]
	writer    ItemWriter[O]
	chunkSize int
	skipLimit int
	logger    *logiface.Logger[logiface.Event]
	sink      DiagnosticSink
}

// NewStepBuilder starts a builder for a step whose processor, if any, does
// not change the item type. If Processor is never called, Build installs
// an identity processor.
func NewStepBuilder[I any](name string) *StepBuilder[I, I] {
	return &StepBuilder[I, I]{name: name}
}

// NewTypedStepBuilder starts a builder for a step whose processor
// transforms I into O. processor must be non-nil.
func NewTypedStepBuilder[I, O any](name string, processor ItemProcessor[I, O]) *StepBuilder[I, O] {
	return &StepBuilder[I, O]{name: name, processor: processor}
}

// Reader sets the step's ItemReader. Required.
func (b *StepBuilder[I, O]) Reader(r ItemReader[I]) *StepBuilder[I, O] {
	b.reader = r
	return b
}

// Writer sets the step's ItemWriter. Required.
func (b *StepBuilder[I, O]) Writer(w ItemWriter[O]) *StepBuilder[I, O] {
	b.writer = w
	return b
}

// Processor overrides the step's ItemProcessor.
func (b *StepBuilder[I, O]) Processor(p ItemProcessor[I, O]) *StepBuilder[I, O] {
	b.processor = p
	return b
}

// ChunkSize sets the maximum number of output items per write call.
// Required, must be positive.
func (b *StepBuilder[I, O]) ChunkSize(n int) *StepBuilder[I, O] {
	b.chunkSize = n
	return b
}

// SkipLimit sets the total tolerated read+process+write failures before the
// step is terminated as FAILED. Defaults to 0 (strict mode).
func (b *StepBuilder[I, O]) SkipLimit(n int) *StepBuilder[I, O] {
	b.skipLimit = n
	return b
}

// Logger sets the structured logger used for step lifecycle and tolerated-
// failure events. A nil logger (the default) is a safe no-op: every
// logiface.Logger method tolerates a nil receiver.
func (b *StepBuilder[I, O]) Logger(l *logiface.Logger[logiface.Event]) *StepBuilder[I, O] {
	b.logger = l
	return b
}

// DiagnosticSink sets the sink notified once per observed item-scoped
// failure. Defaults to a no-op sink.
func (b *StepBuilder[I, O]) DiagnosticSink(sink DiagnosticSink) *StepBuilder[I, O] {
	b.sink = sink
	return b
}

// Build validates the accumulated configuration and returns a Step, or a
// *ConfigurationError describing the first problem found.
func (b *StepBuilder[I, O]) Build() (*Step[I, O], error) {
	if b.reader == nil {
		return nil, newConfigurationError(`missing reader`)
	}
	if b.writer == nil {
		return nil, newConfigurationError(`missing writer`)
	}
	if b.chunkSize <= 0 {
		return nil, newConfigurationError(`chunk size must be positive`)
	}
	if b.skipLimit < 0 {
		return nil, newConfigurationError(`skip limit must not be negative`)
	}

	processor := b.processor
	if processor == nil {
		identity, ok := any(identityProcessor[I]{}).(ItemProcessor[I, O])
		if !ok {
			return nil, newConfigurationError(`processor required: input and output types differ`)
		}
		processor = identity
	}

	sink := b.sink
	if sink == nil {
		sink = noopDiagnosticSink{}
	}

	return &Step[I, O]{
		name:      b.name,
		reader:    b.reader,
		processor: processor,
		writer:    b.writer,
		chunkSize: b.chunkSize,
		skipLimit: b.skipLimit,
		logger:    b.logger,
		sink:      sink,
	}, nil
}
