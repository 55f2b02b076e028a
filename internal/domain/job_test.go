package domain

import (
	"errors"
	"testing"
)

func TestJob_AdvanceHappyPath(t *testing.T) {
	job := NewJob("j1", "/covers/cover.png")

	stages := []JobStage{
		StageValidating,
		StageDecoding,
		StageClassifying,
		StageResampling,
		StageSaving,
		StageSucceeded,
	}
	for _, stage := range stages {
		if err := job.Advance(stage); err != nil {
			t.Fatalf("expected valid transition to %s, got %v", stage, err)
		}
	}
	if !job.Stage.IsTerminal() {
		t.Fatalf("expected terminal stage, got %s", job.Stage)
	}
}

func TestJob_AdvanceInvalidTransitions(t *testing.T) {
	tests := []struct {
		name string
		from JobStage
		to   JobStage
	}{
		{"skip validating", StageIdle, StageDecoding},
		{"skip decoding", StageValidating, StageClassifying},
		{"classifying cannot fail", StageClassifying, StageFailed},
		{"resampling cannot fail", StageResampling, StageFailed},
		{"no reordering", StageSaving, StageDecoding},
		{"succeeded is terminal", StageSucceeded, StageValidating},
		{"failed is terminal", StageFailed, StageValidating},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			job := NewJob("j1", "/covers/cover.png")
			job.Stage = tt.from
			if err := job.Advance(tt.to); err == nil {
				t.Fatalf("expected error for %s -> %s", tt.from, tt.to)
			}
		})
	}
}

func TestJob_FailableStages(t *testing.T) {
	for _, from := range []JobStage{StageValidating, StageDecoding, StageSaving} {
		job := NewJob("j1", "/covers/cover.png")
		job.Stage = from
		if err := job.Advance(StageFailed); err != nil {
			t.Errorf("expected %s -> failed to be allowed, got %v", from, err)
		}
	}
}

func TestJob_MarkSucceeded(t *testing.T) {
	job := NewJob("j1", "/covers/cover.png")
	job.MarkSucceeded("/covers/cover_processed.png")

	if job.Stage != StageSucceeded {
		t.Fatalf("expected succeeded, got %s", job.Stage)
	}
	if job.OutputPath != "/covers/cover_processed.png" {
		t.Fatalf("unexpected output path %q", job.OutputPath)
	}
	if job.FinishedAt == nil {
		t.Fatal("expected FinishedAt to be set")
	}
}

func TestJob_MarkFailed(t *testing.T) {
	job := NewJob("j1", "/covers/cover.png")
	job.MarkFailed("Image cannot be opened: unexpected EOF")

	if !job.IsFailed() {
		t.Fatalf("expected failed, got %s", job.Stage)
	}
	if job.ErrorMessage == "" {
		t.Fatal("expected error message")
	}
	if job.FinishedAt == nil {
		t.Fatal("expected FinishedAt to be set")
	}
}

func TestDecodeError_MessageAndUnwrap(t *testing.T) {
	cause := errors.New("unexpected EOF")
	err := &DecodeError{Reason: cause}

	if err.Error() != "Image cannot be opened: unexpected EOF" {
		t.Fatalf("unexpected message %q", err.Error())
	}
	if !errors.Is(err, cause) {
		t.Fatal("expected Unwrap to expose the cause")
	}
}

func TestEncodeError_MessageAndUnwrap(t *testing.T) {
	cause := errors.New("permission denied")
	err := &EncodeError{Reason: cause}

	if err.Error() != "could not save image: permission denied" {
		t.Fatalf("unexpected message %q", err.Error())
	}
	if !errors.Is(err, cause) {
		t.Fatal("expected Unwrap to expose the cause")
	}
}
