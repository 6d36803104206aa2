package classifier

import (
	"context"
	"image"
)

// Prediction is the label and confidence assigned to one frame.
type Prediction struct {
	Label      string  `json:"label"`
	Confidence float64 `json:"confidence"`
}

// Classifier labels batches of frames. Implementations must return exactly
// one prediction per input frame, in input order.
type Classifier interface {
	ClassifyBatch(ctx context.Context, frames []image.Image) ([]Prediction, error)
}

// Func adapts a function to the Classifier interface.
type Func func(ctx context.Context, frames []image.Image) ([]Prediction, error)

// ClassifyBatch calls f.
func (f Func) ClassifyBatch(ctx context.Context, frames []image.Image) ([]Prediction, error) {
	return f(ctx, frames)
}
