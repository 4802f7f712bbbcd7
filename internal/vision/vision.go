// Package vision defines the boundary contract for screenshot
// classification (the "eyeballer"-style ONNX model in the original
// design). Running ONNX inference is out of scope for this build — no
// example repo in the corpus carries an ONNX runtime binding — so this
// package exposes only the Runner interface a future implementation would
// satisfy, plus a NullRunner that reports itself unconfigured.
package vision

import (
	"context"
	"errors"
)

// ErrNotConfigured is returned by NullRunner for every Classify call.
var ErrNotConfigured = errors.New("vision: no runner configured")

// Prediction is one screenshot's classification result.
type Prediction struct {
	Path     string
	TopLabel string
	TopProb  float64
}

// Runner classifies a batch of screenshot images.
type Runner interface {
	Classify(ctx context.Context, imagePaths []string) ([]Prediction, error)
}

// NullRunner is the default Runner: always unconfigured.
type NullRunner struct{}

// Classify always returns ErrNotConfigured.
func (NullRunner) Classify(context.Context, []string) ([]Prediction, error) {
	return nil, ErrNotConfigured
}
