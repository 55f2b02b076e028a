package domain

import "context"

// Status is the view the presentation layer renders after each job
// lifecycle event: the latest human-readable message, the output path of
// the last successful job, and whether a job is currently in flight.
type Status struct {
	Message    string
	OutputPath string
	Processing bool
}

type ProcessorService interface {
	ProcessJob(ctx context.Context, job *Job) (string, error)
}

type StatusService interface {
	Snapshot() Status
}
