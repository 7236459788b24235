// Package task models the asynchronous job dispatcher the pipeline
// runs on: independently schedulable units of work with per-job time
// limits and retry counts, delivered at least once.
//
// The Runner is a minimal in-process implementation good enough for a
// single worker binary; a distributed queue can replace it behind the
// same Queue interface.
package task
