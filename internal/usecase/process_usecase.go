package usecase

import (
	"context"
	"fmt"

	"github.com/wb-go/wbf/zlog"
	"github.com/yokitheyo/coverart/internal/domain"
	"github.com/yokitheyo/coverart/internal/infrastructure/processor"
)

// ProcessorUsecase runs one accepted job through the pipeline stages in
// strict sequence: decode, classify, resample, derive output path, save.
// It runs to completion once started; there is no cancellation point
// between stages.
type ProcessorUsecase struct {
	processor *processor.ImageProcessor
}

func NewProcessorUsecase(processor *processor.ImageProcessor) *ProcessorUsecase {
	return &ProcessorUsecase{processor: processor}
}

// ProcessJob consumes the job and returns the output path on success. On
// failure the returned error carries the display reason and the job is
// marked failed.
func (u *ProcessorUsecase) ProcessJob(_ context.Context, job *domain.Job) (string, error) {
	zlog.Logger.Info().
		Str("job_id", job.ID).
		Str("input_path", job.InputPath).
		Msg("starting image processing")

	if err := job.Advance(domain.StageDecoding); err != nil {
		return "", fmt.Errorf("advance to decoding: %w", err)
	}
	img, err := u.processor.Decode(job.InputPath)
	if err != nil {
		job.MarkFailed(err.Error())
		return "", err
	}
	job.Width, job.Height = processor.GetImageDimensions(img)

	if err := job.Advance(domain.StageClassifying); err != nil {
		return "", fmt.Errorf("advance to classifying: %w", err)
	}
	job.TargetWidth, job.TargetHeight = processor.Classify(job.Width, job.Height)

	if err := job.Advance(domain.StageResampling); err != nil {
		return "", fmt.Errorf("advance to resampling: %w", err)
	}
	processed := u.processor.Resample(img, job.TargetWidth, job.TargetHeight)

	if err := job.Advance(domain.StageSaving); err != nil {
		return "", fmt.Errorf("advance to saving: %w", err)
	}
	outputPath := processor.DeriveOutputPath(job.InputPath)
	if err := u.processor.Save(processed, outputPath); err != nil {
		job.MarkFailed(err.Error())
		return "", err
	}

	job.MarkSucceeded(outputPath)

	zlog.Logger.Info().
		Str("job_id", job.ID).
		Str("output_path", outputPath).
		Int("width", job.TargetWidth).
		Int("height", job.TargetHeight).
		Msg("image processed")

	return outputPath, nil
}
