package crtbp

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gonum/floats"
)

func TestLoadSamples(t *testing.T) {
	in := `# averaged disturbing function
-1.5201 -1.5202	-1.5203
nan  inf
  -1.5e-3 # trailing comment

4
`
	samples, err := LoadSamples(strings.NewReader(in))
	if err != nil {
		t.Fatal(err)
	}
	if len(samples) != 7 {
		t.Fatalf("read %d samples instead of 7", len(samples))
	}
	if !floats.Equal(samples[:3], []float64{-1.5201, -1.5202, -1.5203}) {
		t.Fatalf("first row incorrect: %v", samples[:3])
	}
	if !math.IsNaN(samples[3]) || !math.IsInf(samples[4], 1) {
		t.Fatalf("nan and inf not kept: %v", samples[3:5])
	}
	if samples[5] != -1.5e-3 || samples[6] != 4 {
		t.Fatalf("tail incorrect: %v", samples[5:])
	}
}

func TestLoadSamplesMalformed(t *testing.T) {
	_, err := LoadSamples(strings.NewReader("1 2\n3 x4\n"))
	if err == nil {
		t.Fatal("malformed token accepted")
	}
	if !strings.Contains(err.Error(), "line 2, sample 3") {
		t.Fatalf("error does not locate the token: %s", err)
	}
}

func TestLoadSampleFile(t *testing.T) {
	if _, err := LoadSampleFile(filepath.Join(t.TempDir(), "missing.txt")); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected a not exist error, got %v", err)
	}
	fn := filepath.Join(t.TempDir(), "SingleAve.txt")
	if err := os.WriteFile(fn, []byte("1 2 3\n4 5 6\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	samples, err := LoadSampleFile(fn)
	if err != nil {
		t.Fatal(err)
	}
	if !floats.Equal(samples, []float64{1, 2, 3, 4, 5, 6}) {
		t.Fatalf("samples %v", samples)
	}
}

func TestLoadStates(t *testing.T) {
	states, err := LoadStates(strings.NewReader("0.5 0 0 0 0.9 0\n0.6 0 0\n0 0.8 0\n"))
	if err != nil {
		t.Fatal(err)
	}
	if len(states) != 2 {
		t.Fatalf("read %d states", len(states))
	}
	if states[0] != (State{0.5, 0, 0, 0, 0.9, 0}) || states[1] != (State{0.6, 0, 0, 0, 0.8, 0}) {
		t.Fatalf("states incorrect: %v", states)
	}
	if _, err := LoadStates(strings.NewReader("1 2 3 4 5\n")); !errors.Is(err, ErrShape) {
		t.Fatalf("expected ErrShape, got %v", err)
	}
}
