package analysis

import (
	"math"
	"testing"
)

func TestFFTPadsToPowerOfTwo(t *testing.T) {
	if got := len(FFT(make([]float64, 5))); got != 8 {
		t.Errorf("expected 8 bins, got %d", got)
	}
	if got := len(FFT(nil)); got != 1 {
		t.Errorf("expected 1 bin for empty input, got %d", got)
	}
}

func TestFFTConstant(t *testing.T) {
	out := FFT([]float64{1, 1, 1, 1})
	if math.Abs(real(out[0])-4) > 1e-12 {
		t.Errorf("expected DC 4, got %v", out[0])
	}
	for k := 1; k < 4; k++ {
		if math.Hypot(real(out[k]), imag(out[k])) > 1e-12 {
			t.Errorf("bin %d should be empty, got %v", k, out[k])
		}
	}
}

func TestDominantFrequency(t *testing.T) {
	tests := []struct {
		name string
		freq float64
		dt   float64
		n    int
	}{
		{"2.5 Hz", 2.5, 0.01, 512},
		{"8 Hz", 8, 0.005, 1000},
		{"slow", 0.5, 0.02, 1024},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := make([]float64, tt.n)
			for i := range data {
				data[i] = 3 + math.Sin(2*math.Pi*tt.freq*float64(i)*tt.dt)
			}
			got := DominantFrequency(data, tt.dt)
			resolution := 1 / (float64(nextPow2(tt.n)) * tt.dt)
			if math.Abs(got-tt.freq) > resolution {
				t.Errorf("expected %.3f Hz (+/- %.3f), got %.3f", tt.freq, resolution, got)
			}
		})
	}
}

func TestDominantFrequencyDegenerate(t *testing.T) {
	if DominantFrequency([]float64{1, 2}, 0.01) != 0 {
		t.Error("short input should give 0")
	}
	if DominantFrequency([]float64{2, 2, 2, 2, 2, 2}, 0.01) != 0 {
		t.Error("constant input should give 0")
	}
	if DominantFrequency([]float64{0, 1, 0, 1}, 0) != 0 {
		t.Error("zero dt should give 0")
	}
}
