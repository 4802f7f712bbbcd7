package progress

import "testing"

func TestNilBarMethodsAreNoops(t *testing.T) {
	var b *Bar
	b.Inc()
	b.Finish()
}

func TestNewScanProgressIncAndFinish(t *testing.T) {
	b := NewScanProgress(3)
	b.Inc()
	b.Inc()
	b.Finish()
}
