package usecase

import (
	"context"

	"github.com/bnema/walcache/internal/application/port"
)

// ProcessDirectoryUseCase computes artifacts for every image in a directory.
type ProcessDirectoryUseCase struct {
	lister port.ImageLister
	batch  *ProcessBatchUseCase
}

// NewProcessDirectoryUseCase creates a new ProcessDirectoryUseCase.
func NewProcessDirectoryUseCase(lister port.ImageLister, batch *ProcessBatchUseCase) *ProcessDirectoryUseCase {
	return &ProcessDirectoryUseCase{lister: lister, batch: batch}
}

// ProcessDirectoryInput describes the directory run.
type ProcessDirectoryInput struct {
	Directory  string
	Recursive  bool
	Backends   []string
	IsLight    bool
	Saturation string
}

// ProcessDirectoryOutput is the batch output plus the listed images, in
// lexical order, so callers can report the ones that failed.
type ProcessDirectoryOutput struct {
	ProcessBatchOutput
	Images []string
}

// Execute lists the directory and processes all of it as one batch.
func (uc *ProcessDirectoryUseCase) Execute(ctx context.Context, input ProcessDirectoryInput) (ProcessDirectoryOutput, error) {
	images, err := uc.lister.ListImages(ctx, input.Directory, input.Recursive)
	if err != nil {
		return ProcessDirectoryOutput{}, err
	}
	out := uc.batch.Execute(ctx, ProcessBatchInput{
		Images:     images,
		Backends:   input.Backends,
		IsLight:    input.IsLight,
		Saturation: input.Saturation,
	})
	return ProcessDirectoryOutput{ProcessBatchOutput: out, Images: images}, nil
}
