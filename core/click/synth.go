package click

import (
	"fmt"
	"math"
	"math/rand/v2"

	"metronome/core/tempo"
)

// NoiseSource yields uniform values in [0, 1). *rand.Rand satisfies it.
type NoiseSource interface {
	Float64() float64
}

// NewSeededNoise returns a deterministic noise source: equal seeds render equal bytes.
func NewSeededNoise(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// Options configures a Synth. Zero values fall back to the defaults.
type Options struct {
	SampleRate      int
	ClickDurationMs float64
	Style           Style
	Accent          *Profile
	Regular         *Profile
	Noise           NoiseSource

	// DisableAccent renders the first beat like every other beat.
	DisableAccent bool
}

// Synth renders clicks and measures. It keeps no sample state of its own;
// every method writes into the Buffer it is handed.
type Synth struct {
	sampleRate      int
	clickDurationMs float64
	style           Style
	accent          Profile
	regular         Profile
	noise           NoiseSource
	disableAccent   bool
}

// NewSynth builds a Synth from opts.
func NewSynth(opts Options) (*Synth, error) {
	s := &Synth{
		sampleRate:      opts.SampleRate,
		clickDurationMs: opts.ClickDurationMs,
		style:           opts.Style,
		accent:          AccentProfile,
		regular:         RegularProfile,
		noise:           opts.Noise,
		disableAccent:   opts.DisableAccent,
	}
	if s.sampleRate <= 0 {
		s.sampleRate = DefaultSampleRate
	}
	if s.style == "" {
		s.style = StyleClick
	}
	if s.clickDurationMs <= 0 {
		s.clickDurationMs = DefaultClickDurationMs
		if s.style == StyleBeep {
			s.clickDurationMs = defaultBeepLengthMs
		}
	}
	if opts.Accent != nil {
		s.accent = *opts.Accent
	}
	if opts.Regular != nil {
		s.regular = *opts.Regular
	}
	if s.noise == nil {
		s.noise = NewSeededNoise(0)
	}
	if err := s.accent.validate(); err != nil {
		return nil, fmt.Errorf("accent: %w", err)
	}
	if err := s.regular.validate(); err != nil {
		return nil, fmt.Errorf("regular: %w", err)
	}
	return s, nil
}

// SampleRate returns the rate buffers produced by this Synth use.
func (s *Synth) SampleRate() int { return s.sampleRate }

// ClickDurationMs returns the length of every click in a measure.
func (s *Synth) ClickDurationMs() float64 { return s.clickDurationMs }

// Click renders one percussive transient of durationMs, peak-normalized and then
// scaled by volume. A click whose raw peak is zero is returned silent.
func (s *Synth) Click(durationMs, volume float64, accent bool) []float64 {
	p := s.regular
	if accent {
		p = s.accent
	}
	n := sampleCount(durationMs, s.sampleRate)
	out := make([]float64, n)
	rate := float64(s.sampleRate)

	peak := 0.0
	for i := range out {
		t := float64(i) / rate
		harmonics := 0.0
		for j, f := range p.Frequencies {
			harmonics += p.Weights[j] * math.Sin(2*math.Pi*f*t)
		}
		noise := (s.noise.Float64()*2*noiseAmplitude - noiseAmplitude) * math.Exp(-noiseDecayRate*t)
		v := (harmonics + noise) * math.Exp(-p.DecayRate*t)
		out[i] = v
		if a := math.Abs(v); a > peak {
			peak = a
		}
	}

	normalize(out, peak, volume)
	return out
}

// normalize scales samples so that peak maps to volume. Zero or non-finite peaks
// leave samples untouched rather than filling them with NaN.
func normalize(samples []float64, peak, volume float64) {
	if peak == 0 || math.IsNaN(peak) || math.IsInf(peak, 0) {
		return
	}
	g := volume / peak
	for i := range samples {
		samples[i] *= g
	}
}

// AppendClick renders a click and appends it to buf.
func (s *Synth) AppendClick(buf *Buffer, durationMs, volume float64, accent bool) {
	buf.Append(s.Click(durationMs, volume, accent)...)
}

// AppendTone appends a plain sine of freq Hz at the given volume.
func (s *Synth) AppendTone(buf *Buffer, freq, durationMs, volume float64) {
	out := make([]float64, sampleCount(durationMs, s.sampleRate))
	rate := float64(s.sampleRate)
	for i := range out {
		out[i] = volume * math.Sin(2*math.Pi*freq*float64(i)/rate)
	}
	buf.Append(out...)
}

// AppendChord appends the sum of sines at freqs. Volumes are first normalized to sum
// to one so the chord never exceeds unit amplitude; an all-zero set appends silence.
func (s *Synth) AppendChord(buf *Buffer, freqs, volumes []float64, durationMs float64) {
	n := sampleCount(durationMs, s.sampleRate)
	out := make([]float64, n)

	total := 0.0
	for _, v := range volumes {
		total += v
	}
	if total == 0 || len(freqs) != len(volumes) {
		buf.Append(out...)
		return
	}

	rate := float64(s.sampleRate)
	for i := range out {
		t := float64(i) / rate
		for j, f := range freqs {
			out[i] += volumes[j] / total * math.Sin(2*math.Pi*f*t)
		}
	}
	buf.Append(out...)
}

// Measure renders beats clicks, each followed by silence up to the next beat onset.
// The first beat is accented unless DisableAccent is set.
func (s *Synth) Measure(beatIntervalMs float64, beats int) (*Buffer, error) {
	if beats < 1 {
		return nil, fmt.Errorf("%w: beats must be positive (got %d)", tempo.ErrInvalidParameter, beats)
	}
	if math.IsNaN(beatIntervalMs) || math.IsInf(beatIntervalMs, 0) || beatIntervalMs <= s.clickDurationMs {
		return nil, fmt.Errorf("%w: beat interval %.3fms does not fit a %.3fms click",
			tempo.ErrInvalidParameter, beatIntervalMs, s.clickDurationMs)
	}

	buf := NewBuffer(s.sampleRate)
	for i := 0; i < beats; i++ {
		accent := i == 0 && !s.disableAccent
		switch s.style {
		case StyleBeep:
			freq, vol := beepRegularFreq, beepRegularVolume
			if accent {
				freq, vol = beepAccentFreq, beepAccentVolume
			}
			s.AppendTone(buf, freq, s.clickDurationMs, vol)
		default:
			p := s.regular
			if accent {
				p = s.accent
			}
			s.AppendClick(buf, s.clickDurationMs, p.Volume, accent)
		}
		buf.AppendSilence(beatIntervalMs - s.clickDurationMs)
	}
	return buf, nil
}
