package core

import (
	"context"
)

// JobDispatcher defines the contract for a system that accepts review items
// and queues their extraction runs for asynchronous processing. It decouples
// the submission path from the worker pool that executes the runs.
type JobDispatcher interface {
	// Dispatch queues an extraction run for the given item. It returns an
	// error if the run cannot be queued, for example when the queue is full,
	// providing a mechanism for backpressure.
	Dispatch(ctx context.Context, item *ReviewItem) error

	// Cancel stops the in-flight extraction run for the given id, if any.
	// Called on deletion so an expensive recognition does not keep running
	// for an item that no longer exists. Unknown ids are ignored.
	Cancel(id string)

	// Stop shuts the dispatcher down, waiting for in-flight runs to finish.
	Stop()
}

// Job represents a single, executable unit of work processed by the job
// dispatcher: one extraction run for one review item.
type Job interface {
	// Run executes the extraction for item. Failures local to the item are
	// captured into the item's error state; the returned error reports only
	// faults worth logging at the dispatcher level.
	Run(ctx context.Context, item *ReviewItem) error
}
