// Package batch implements a chunk-oriented batch processing engine: steps
// read items from an ItemReader, optionally transform them through an
// ItemProcessor, and flush them to an ItemWriter in fixed-size chunks, under
// a configurable fault-tolerance (skip limit) policy.
//
// A Step is constructed via StepBuilder/NewStepBuilder, executed with
// Execute, and returns a StepExecution snapshot once it reaches a terminal
// status. Job composes steps sequentially with short-circuit-on-failure
// semantics.
package batch
