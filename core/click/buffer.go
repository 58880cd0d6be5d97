// Package click synthesizes one measure of metronome clicks into a mono
// floating-point sample buffer and encodes it as an IEEE-float WAV file.
package click

import "math"

// DefaultSampleRate is CD quality; the only rate the WAV writer is tested against.
const DefaultSampleRate = 44100

// Buffer is an append-only mono sample sequence. Append order is playback order.
// A Buffer belongs to exactly one render request.
type Buffer struct {
	sampleRate int
	samples    []float64
}

// NewBuffer creates an empty buffer at sampleRate (DefaultSampleRate when <= 0).
func NewBuffer(sampleRate int) *Buffer {
	if sampleRate <= 0 {
		sampleRate = DefaultSampleRate
	}
	return &Buffer{sampleRate: sampleRate}
}

// SampleRate returns the buffer's rate in Hz.
func (b *Buffer) SampleRate() int { return b.sampleRate }

// Len returns the number of samples appended so far.
func (b *Buffer) Len() int { return len(b.samples) }

// Samples returns the underlying samples. Callers must not modify them.
func (b *Buffer) Samples() []float64 { return b.samples }

// DurationMs is the playback length of the buffer.
func (b *Buffer) DurationMs() float64 {
	return float64(len(b.samples)) * 1000 / float64(b.sampleRate)
}

// Append adds a rendered segment to the end of the buffer.
func (b *Buffer) Append(segment ...float64) {
	b.samples = append(b.samples, segment...)
}

// AppendSilence appends round(durationMs * rate / 1000) zero samples.
// Negative or non-finite durations append nothing.
func (b *Buffer) AppendSilence(durationMs float64) {
	n := b.SampleCount(durationMs)
	if n == 0 {
		return
	}
	b.samples = append(b.samples, make([]float64, n)...)
}

// SampleCount converts a duration to a whole number of samples at the buffer rate.
func (b *Buffer) SampleCount(durationMs float64) int {
	return sampleCount(durationMs, b.sampleRate)
}

func sampleCount(durationMs float64, sampleRate int) int {
	if durationMs <= 0 || math.IsNaN(durationMs) || math.IsInf(durationMs, 0) {
		return 0
	}
	return int(math.Round(durationMs * float64(sampleRate) / 1000))
}
