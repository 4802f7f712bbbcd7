package vision

import (
	"context"
	"errors"
	"testing"
)

func TestNullRunnerReportsUnconfigured(t *testing.T) {
	var r Runner = NullRunner{}
	_, err := r.Classify(context.Background(), []string{"screenshot.png"})
	if !errors.Is(err, ErrNotConfigured) {
		t.Errorf("Classify err = %v, want ErrNotConfigured", err)
	}
}
