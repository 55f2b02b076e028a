package worker

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/wb-go/wbf/zlog"
	"github.com/yokitheyo/coverart/internal/domain"
	"github.com/yokitheyo/coverart/internal/infrastructure/processor"
)

const (
	readyMessage      = "Drop an image into the watch folder"
	processingMessage = "Processing..."
	processedMessage  = "Image processed and saved"
	errorPrefix       = "Error: "
)

type jobResult struct {
	jobID      string
	outputPath string
	err        error
}

// JobWorker consumes dropped paths and runs at most one job at a time.
// The Run loop is the only writer of the in-flight flag and the status
// record; paths offered while a job is unresolved are discarded, never
// queued. A started job always runs to completion.
type JobWorker struct {
	service domain.ProcessorService
	drops   <-chan string
	results chan jobResult

	mu     sync.RWMutex
	status domain.Status
}

func NewJobWorker(service domain.ProcessorService, drops <-chan string) *JobWorker {
	return &JobWorker{
		service: service,
		drops:   drops,
		results: make(chan jobResult, 1),
		status:  domain.Status{Message: readyMessage},
	}
}

// Run processes drop and completion events until the context is cancelled.
// Cancellation does not abort an in-flight job; Run waits for its outcome
// before returning.
func (w *JobWorker) Run(ctx context.Context) {
	inFlight := false

	for {
		select {
		case <-ctx.Done():
			if inFlight {
				zlog.Logger.Info().Msg("waiting for in-flight job to finish")
				w.finish(<-w.results)
			}
			zlog.Logger.Info().Msg("job worker stopped")
			return

		case path, ok := <-w.drops:
			if !ok {
				if inFlight {
					w.finish(<-w.results)
				}
				zlog.Logger.Info().Msg("drop channel closed, job worker stopped")
				return
			}
			if inFlight {
				zlog.Logger.Debug().Str("path", path).Msg("job in flight, dropped path ignored")
				continue
			}
			if !processor.AcceptedExtension(path) {
				zlog.Logger.Warn().Str("path", path).Msg("unsupported extension")
				w.setStatus(domain.Status{Message: errorPrefix + domain.ErrUnsupportedExtension.Error()})
				continue
			}

			job := domain.NewJob(uuid.New().String(), path)
			if err := job.Advance(domain.StageValidating); err != nil {
				zlog.Logger.Error().Err(err).Str("job_id", job.ID).Msg("failed to start job")
				continue
			}

			inFlight = true
			w.setStatus(domain.Status{Message: processingMessage, Processing: true})
			zlog.Logger.Info().
				Str("job_id", job.ID).
				Str("path", path).
				Msg("job accepted")

			go w.runJob(ctx, job)

		case res := <-w.results:
			inFlight = false
			w.finish(res)
		}
	}
}

func (w *JobWorker) runJob(ctx context.Context, job *domain.Job) {
	outputPath, err := w.service.ProcessJob(ctx, job)
	w.results <- jobResult{jobID: job.ID, outputPath: outputPath, err: err}
}

func (w *JobWorker) finish(res jobResult) {
	if res.err != nil {
		zlog.Logger.Error().Err(res.err).Str("job_id", res.jobID).Msg("job failed")
		w.setStatus(domain.Status{Message: errorPrefix + res.err.Error()})
		return
	}

	zlog.Logger.Info().
		Str("job_id", res.jobID).
		Str("output_path", res.outputPath).
		Msg("job succeeded")
	w.setStatus(domain.Status{Message: processedMessage, OutputPath: res.outputPath})
}

func (w *JobWorker) setStatus(status domain.Status) {
	w.mu.Lock()
	w.status = status
	w.mu.Unlock()
}

// Snapshot returns the latest status for the presentation layer.
func (w *JobWorker) Snapshot() domain.Status {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.status
}
