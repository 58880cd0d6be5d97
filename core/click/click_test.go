package click

import (
	"bytes"
	"encoding/binary"
	"errors"
	"math"
	"testing"

	"metronome/core/tempo"
)

// constNoise always yields v; 0.5 maps to a zero noise burst.
type constNoise float64

func (c constNoise) Float64() float64 { return float64(c) }

func newTestSynth(t *testing.T, opts Options) *Synth {
	t.Helper()
	if opts.Noise == nil {
		opts.Noise = NewSeededNoise(42)
	}
	s, err := NewSynth(opts)
	if err != nil {
		t.Fatalf("NewSynth: %v", err)
	}
	return s
}

func peakOf(samples []float64) float64 {
	peak := 0.0
	for _, v := range samples {
		peak = math.Max(peak, math.Abs(v))
	}
	return peak
}

func TestAppendSilence(t *testing.T) {
	tests := []struct {
		ms   float64
		want int
	}{
		{500, 22050},
		{470, 20727},
		{0.5, 22},
		{0, 0},
		{-10, 0},
		{math.NaN(), 0},
		{math.Inf(1), 0},
		{math.Inf(-1), 0},
	}
	for _, tt := range tests {
		b := NewBuffer(DefaultSampleRate)
		b.AppendSilence(tt.ms)
		if b.Len() != tt.want {
			t.Errorf("AppendSilence(%v) len = %d, want %d", tt.ms, b.Len(), tt.want)
		}
		for i, v := range b.Samples() {
			if v != 0 {
				t.Fatalf("AppendSilence(%v) sample[%d] = %v, want 0", tt.ms, i, v)
			}
		}
	}
}

func TestBufferAppendOrder(t *testing.T) {
	b := NewBuffer(0)
	if b.SampleRate() != DefaultSampleRate {
		t.Fatalf("SampleRate = %d, want %d", b.SampleRate(), DefaultSampleRate)
	}
	b.Append(1, 2)
	b.AppendSilence(1000.0 / DefaultSampleRate) // one sample
	b.Append(3)
	want := []float64{1, 2, 0, 3}
	got := b.Samples()
	if len(got) != len(want) {
		t.Fatalf("len = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("sample[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestClickNormalizedToVolume(t *testing.T) {
	s := newTestSynth(t, Options{})
	tests := []struct {
		accent bool
		volume float64
	}{
		{true, 1.0},
		{false, 0.8},
		{false, 0.25},
	}
	for _, tt := range tests {
		c := s.Click(DefaultClickDurationMs, tt.volume, tt.accent)
		if len(c) != 1323 {
			t.Fatalf("click length = %d, want 1323", len(c))
		}
		if got := peakOf(c); math.Abs(got-tt.volume) > 1e-12 {
			t.Errorf("Click(accent=%v, volume=%v) peak = %v", tt.accent, tt.volume, got)
		}
	}
}

func TestClickDecays(t *testing.T) {
	s := newTestSynth(t, Options{})
	c := s.Click(DefaultClickDurationMs, 1.0, false)
	head := peakOf(c[:100])
	tail := peakOf(c[len(c)-100:])
	if tail >= head/10 {
		t.Errorf("click does not decay: head peak %v, tail peak %v", head, tail)
	}
}

func TestClickZeroPeakStaysFinite(t *testing.T) {
	silent := Profile{
		Frequencies: []float64{1000, 2000},
		Weights:     []float64{0, 0},
		DecayRate:   150,
		Volume:      1,
	}
	s := newTestSynth(t, Options{Accent: &silent, Regular: &silent, Noise: constNoise(0.5)})
	for _, accent := range []bool{true, false} {
		c := s.Click(DefaultClickDurationMs, 1.0, accent)
		for i, v := range c {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				t.Fatalf("sample[%d] = %v, want finite", i, v)
			}
			if v != 0 {
				t.Fatalf("sample[%d] = %v, want 0 for an all-zero click", i, v)
			}
		}
	}
}

func TestNewSynthRejectsMismatchedProfile(t *testing.T) {
	bad := Profile{Frequencies: []float64{1000, 2000}, Weights: []float64{1}}
	if _, err := NewSynth(Options{Accent: &bad}); err == nil {
		t.Fatal("NewSynth accepted a profile with mismatched weights")
	}
}

func TestMeasureLayout(t *testing.T) {
	s := newTestSynth(t, Options{})
	buf, err := s.Measure(500, 4)
	if err != nil {
		t.Fatalf("Measure: %v", err)
	}
	const perBeat = 22050
	const clickLen = 1323
	if buf.Len() != 4*perBeat {
		t.Fatalf("Len = %d, want %d", buf.Len(), 4*perBeat)
	}
	if got := buf.DurationMs(); got != 2000 {
		t.Errorf("DurationMs = %v, want 2000", got)
	}

	samples := buf.Samples()
	for beat := 0; beat < 4; beat++ {
		start := beat * perBeat
		peak := peakOf(samples[start : start+clickLen])
		want := RegularProfile.Volume
		if beat == 0 {
			want = AccentProfile.Volume
		}
		if math.Abs(peak-want) > 1e-12 {
			t.Errorf("beat %d click peak = %v, want %v", beat, peak, want)
		}
		// 470ms of silence after every click
		gap := samples[start+clickLen : start+perBeat]
		if len(gap) != 20727 {
			t.Errorf("beat %d gap = %d samples, want 20727", beat, len(gap))
		}
		if p := peakOf(gap); p != 0 {
			t.Errorf("beat %d gap not silent: peak %v", beat, p)
		}
	}
}

func TestMeasureSampleCountAllTempos(t *testing.T) {
	s := newTestSynth(t, Options{})
	for bpm := tempo.BPMMin; bpm <= tempo.BPMMax; bpm++ {
		ms := tempo.MillisecondsPerBeat(bpm)
		for beats := tempo.BeatsMin; beats <= tempo.BeatsMax; beats++ {
			buf, err := s.Measure(ms, beats)
			if err != nil {
				t.Fatalf("Measure(bpm=%d, beats=%d): %v", bpm, beats, err)
			}
			want := int(math.Round(ms * float64(beats) * DefaultSampleRate / 1000))
			diff := buf.Len() - want
			if diff < 0 {
				diff = -diff
			}
			// each beat contributes one rounded silence segment
			if diff > beats {
				t.Errorf("bpm=%d beats=%d: %d samples, want %d ±%d", bpm, beats, buf.Len(), want, beats)
			}
		}
	}
}

func TestMeasureRejectsInvalid(t *testing.T) {
	s := newTestSynth(t, Options{})
	tests := []struct {
		name  string
		ms    float64
		beats int
	}{
		{"zero beats", 500, 0},
		{"negative beats", 500, -1},
		{"zero interval", 0, 4},
		{"interval equals click", DefaultClickDurationMs, 4},
		{"interval shorter than click", 10, 4},
		{"nan interval", math.NaN(), 4},
		{"infinite interval", math.Inf(1), 1},
		{"negative infinite interval", math.Inf(-1), 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.Measure(tt.ms, tt.beats)
			if !errors.Is(err, tempo.ErrInvalidParameter) {
				t.Errorf("Measure(%v, %d) error = %v, want ErrInvalidParameter", tt.ms, tt.beats, err)
			}
		})
	}
}

func TestMeasureAccentToggle(t *testing.T) {
	beat := DefaultSampleRate / 2
	tests := []struct {
		name     string
		disable  bool
		wantPeak float64
	}{
		{"accent on", false, AccentProfile.Volume},
		{"accent off", true, RegularProfile.Volume},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestSynth(t, Options{Noise: constNoise(0.5), DisableAccent: tt.disable})
			buf, err := s.Measure(500, 2)
			if err != nil {
				t.Fatalf("Measure: %v", err)
			}
			click := buf.SampleCount(DefaultClickDurationMs)
			first := buf.Samples()[:click]
			second := buf.Samples()[beat : beat+click]
			if p := peakOf(first); math.Abs(p-tt.wantPeak) > 1e-9 {
				t.Errorf("first beat peak = %v, want %v", p, tt.wantPeak)
			}
			same := true
			for i := range first {
				if first[i] != second[i] {
					same = false
					break
				}
			}
			if same != tt.disable {
				t.Errorf("first beat identical to second = %v, want %v", same, tt.disable)
			}
		})
	}

	beep := newTestSynth(t, Options{Style: StyleBeep, DisableAccent: true})
	buf, err := beep.Measure(500, 1)
	if err != nil {
		t.Fatalf("Measure: %v", err)
	}
	if p := peakOf(buf.Samples()); p > beepRegularVolume+1e-9 {
		t.Errorf("unaccented beep peak %v exceeds the regular volume", p)
	}
}

func TestMeasureDeterministic(t *testing.T) {
	render := func(seed uint64) []byte {
		s := newTestSynth(t, Options{Noise: NewSeededNoise(seed)})
		buf, err := s.Measure(500, 4)
		if err != nil {
			t.Fatalf("Measure: %v", err)
		}
		return buf.EncodeWAV()
	}
	a, b := render(7), render(7)
	if !bytes.Equal(a, b) {
		t.Error("equal seeds produced different WAV bytes")
	}
	if bytes.Equal(a, render(8)) {
		t.Error("different seeds produced identical WAV bytes")
	}
}

func TestBeepStyle(t *testing.T) {
	s := newTestSynth(t, Options{Style: StyleBeep})
	if s.ClickDurationMs() != 50 {
		t.Fatalf("beep ClickDurationMs = %v, want 50", s.ClickDurationMs())
	}
	buf, err := s.Measure(1000, 2)
	if err != nil {
		t.Fatalf("Measure: %v", err)
	}
	if buf.Len() != 2*44100 {
		t.Fatalf("Len = %d, want %d", buf.Len(), 2*44100)
	}
	beep := buf.SampleCount(50)
	accent := peakOf(buf.Samples()[:beep])
	regular := peakOf(buf.Samples()[44100 : 44100+beep])
	if accent <= regular {
		t.Errorf("accent beep peak %v should exceed regular %v", accent, regular)
	}
	if regular > 0.7+1e-9 {
		t.Errorf("regular beep peak %v exceeds its volume", regular)
	}
}

func TestAppendChord(t *testing.T) {
	s := newTestSynth(t, Options{})

	buf := NewBuffer(DefaultSampleRate)
	s.AppendChord(buf, []float64{880, 660}, []float64{1, 1}, 100)
	if buf.Len() != 4410 {
		t.Fatalf("Len = %d, want 4410", buf.Len())
	}
	if p := peakOf(buf.Samples()); p > 1 {
		t.Errorf("chord peak %v exceeds unit amplitude", p)
	}

	silent := NewBuffer(DefaultSampleRate)
	s.AppendChord(silent, []float64{880}, []float64{0}, 100)
	if silent.Len() != 4410 || peakOf(silent.Samples()) != 0 {
		t.Errorf("zero-volume chord: len %d peak %v, want 4410 silent samples", silent.Len(), peakOf(silent.Samples()))
	}
}

func TestParseStyle(t *testing.T) {
	tests := []struct {
		in      string
		want    Style
		wantErr bool
	}{
		{"", StyleClick, false},
		{"click", StyleClick, false},
		{"beep", StyleBeep, false},
		{"cowbell", "", true},
	}
	for _, tt := range tests {
		got, err := ParseStyle(tt.in)
		if got != tt.want || (err != nil) != tt.wantErr {
			t.Errorf("ParseStyle(%q) = (%q, %v), want (%q, err=%v)", tt.in, got, err, tt.want, tt.wantErr)
		}
	}
}

func TestWAVHeader(t *testing.T) {
	buf := NewBuffer(DefaultSampleRate)
	buf.Append(0, 0.5, -0.5, 1)
	data := buf.EncodeWAV()

	if len(data) != WAVSize(4) || len(data) != 58+16 {
		t.Fatalf("encoded size = %d, want %d", len(data), 58+16)
	}
	le := binary.LittleEndian
	checks := []struct {
		name string
		got  any
		want any
	}{
		{"riff", string(data[0:4]), "RIFF"},
		{"riff size", le.Uint32(data[4:]), uint32(len(data) - 8)},
		{"wave", string(data[8:12]), "WAVE"},
		{"fmt", string(data[12:16]), "fmt "},
		{"fmt size", le.Uint32(data[16:]), uint32(18)},
		{"format", le.Uint16(data[20:]), uint16(3)},
		{"channels", le.Uint16(data[22:]), uint16(1)},
		{"rate", le.Uint32(data[24:]), uint32(44100)},
		{"byte rate", le.Uint32(data[28:]), uint32(44100 * 4)},
		{"block align", le.Uint16(data[32:]), uint16(4)},
		{"bits", le.Uint16(data[34:]), uint16(32)},
		{"fact", string(data[38:42]), "fact"},
		{"fact frames", le.Uint32(data[46:]), uint32(4)},
		{"data", string(data[50:54]), "data"},
		{"data size", le.Uint32(data[54:]), uint32(16)},
		{"sample 1", math.Float32frombits(le.Uint32(data[62:])), float32(0.5)},
	}
	for _, c := range checks {
		if c.got != c.want {
			t.Errorf("%s = %v, want %v", c.name, c.got, c.want)
		}
	}
}

func TestDecodeWAV(t *testing.T) {
	s := newTestSynth(t, Options{})
	buf, err := s.Measure(tempo.MillisecondsPerBeat(90), 3)
	if err != nil {
		t.Fatalf("Measure: %v", err)
	}
	got, err := DecodeWAV(bytes.NewReader(buf.EncodeWAV()))
	if err != nil {
		t.Fatalf("DecodeWAV: %v", err)
	}
	if got.SampleRate() != buf.SampleRate() || got.Len() != buf.Len() {
		t.Fatalf("decoded rate/len = %d/%d, want %d/%d", got.SampleRate(), got.Len(), buf.SampleRate(), buf.Len())
	}
	for i, v := range buf.Samples() {
		if got.Samples()[i] != float64(float32(v)) {
			t.Fatalf("sample[%d] = %v, want %v", i, got.Samples()[i], float32(v))
		}
	}

	if _, err := DecodeWAV(bytes.NewReader([]byte("not a wav file at all"))); !errors.Is(err, ErrNotFloatWAV) {
		t.Errorf("DecodeWAV(garbage) error = %v, want ErrNotFloatWAV", err)
	}
}
