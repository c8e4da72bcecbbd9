package crtbp

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// LoadSamples reads every whitespace separated number of r, in order.
// Text after a `#` is ignored; nan and inf are valid samples.
func LoadSamples(r io.Reader) ([]float64, error) {
	var samples []float64
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 16*1024*1024)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		if idx := strings.IndexByte(line, '#'); idx >= 0 {
			line = line[:idx]
		}
		for _, tok := range strings.Fields(line) {
			v, err := strconv.ParseFloat(tok, 64)
			if err != nil {
				return nil, fmt.Errorf("line %d, sample %d: %w", lineNo, len(samples), err)
			}
			samples = append(samples, v)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return samples, nil
}

// LoadSampleFile reads the samples of the named file.
func LoadSampleFile(filename string) ([]float64, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	samples, err := LoadSamples(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	return samples, nil
}

// LoadStates reads six-component states, in any line layout.
func LoadStates(r io.Reader) ([]State, error) {
	samples, err := LoadSamples(r)
	if err != nil {
		return nil, err
	}
	if len(samples)%6 != 0 {
		return nil, fmt.Errorf("%d values do not make whole states: %w", len(samples), ErrShape)
	}
	states := make([]State, len(samples)/6)
	for i := range states {
		copy(states[i][:], samples[6*i:6*i+6])
	}
	return states, nil
}

// LoadStateFile reads the states of the named file.
func LoadStateFile(filename string) ([]State, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	states, err := LoadStates(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	return states, nil
}
