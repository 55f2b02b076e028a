package domain

import (
	"fmt"
	"time"
)

type JobStage string

const (
	StageIdle        JobStage = "idle"
	StageValidating  JobStage = "validating"
	StageDecoding    JobStage = "decoding"
	StageClassifying JobStage = "classifying"
	StageResampling  JobStage = "resampling"
	StageSaving      JobStage = "saving"
	StageSucceeded   JobStage = "succeeded"
	StageFailed      JobStage = "failed"
)

// IsTerminal reports whether the stage is terminal (job finished).
func (s JobStage) IsTerminal() bool {
	return s == StageSucceeded || s == StageFailed
}

// Job is a single resize request. It lives exactly as long as one pipeline
// invocation: created when a dropped path passes the extension gate,
// discarded once it reaches a terminal stage.
type Job struct {
	ID           string
	InputPath    string
	OutputPath   string
	Stage        JobStage
	Width        int
	Height       int
	TargetWidth  int
	TargetHeight int
	ErrorMessage string
	CreatedAt    time.Time
	UpdatedAt    time.Time
	FinishedAt   *time.Time
}

func NewJob(id, inputPath string) *Job {
	now := time.Now()
	return &Job{
		ID:        id,
		InputPath: inputPath,
		Stage:     StageIdle,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Advance performs a validated stage transition. The pipeline stages run
// strictly in sequence; only decoding and saving may fail directly.
func (j *Job) Advance(to JobStage) error {
	if !isAllowedTransition(j.Stage, to) {
		return fmt.Errorf("disallowed transition for job %s: %s -> %s", j.ID, j.Stage, to)
	}
	j.Stage = to
	j.UpdatedAt = time.Now()
	return nil
}

func isAllowedTransition(from, to JobStage) bool {
	switch from {
	case StageIdle:
		return to == StageValidating
	case StageValidating:
		return to == StageDecoding || to == StageFailed
	case StageDecoding:
		return to == StageClassifying || to == StageFailed
	case StageClassifying:
		return to == StageResampling
	case StageResampling:
		return to == StageSaving
	case StageSaving:
		return to == StageSucceeded || to == StageFailed
	default:
		return false
	}
}

func (j *Job) MarkSucceeded(outputPath string) {
	j.Stage = StageSucceeded
	j.OutputPath = outputPath
	j.ErrorMessage = ""
	now := time.Now()
	j.FinishedAt = &now
	j.UpdatedAt = now
}

func (j *Job) MarkFailed(errMsg string) {
	j.Stage = StageFailed
	j.ErrorMessage = errMsg
	now := time.Now()
	j.FinishedAt = &now
	j.UpdatedAt = now
}

func (j *Job) IsFailed() bool {
	return j.Stage == StageFailed
}
