// Package fft provides a thin abstraction around a real-input fourier
// transformer.
package fft

import (
	"gonum.org/v1/gonum/dsp/fourier"
)

// Plan holds a gonum FFT plan over fixed input/output buffers.
type Plan struct {
	Input  []float64
	Output []complex128
	fft    *fourier.FFT
}

// InitPlan initializes a plan over the given buffers. Output must have
// len(input)/2+1 slots for the non-negative frequency coefficients.
func InitPlan(pointer **Plan, input []float64, output []complex128) {
	(*pointer) = &Plan{
		Input:  input,
		Output: output,
	}
}

// Execute runs the transform, filling Output from Input.
func (p *Plan) Execute() {
	if p.fft == nil {
		p.fft = fourier.NewFFT(len(p.Input))
	}
	p.fft.Coefficients(p.Output, p.Input)
}
