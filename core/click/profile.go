package click

import "fmt"

// Profile is the timbre of one click: weighted sine partials under an exponential decay.
type Profile struct {
	Frequencies []float64 // Hz
	Weights     []float64
	DecayRate   float64 // k in exp(-k·t), t in seconds
	Volume      float64 // peak amplitude after normalization
}

// AccentProfile is the brighter, slower-decaying click on the first beat.
var AccentProfile = Profile{
	Frequencies: []float64{1800, 2400, 3200, 4000},
	Weights:     []float64{1.0, 0.6, 0.3, 0.15},
	DecayRate:   150,
	Volume:      1.0,
}

// RegularProfile is the click on every other beat.
var RegularProfile = Profile{
	Frequencies: []float64{1200, 1800, 2400, 3000},
	Weights:     []float64{1.0, 0.5, 0.25, 0.1},
	DecayRate:   200,
	Volume:      0.8,
}

const (
	// DefaultClickDurationMs is the length of a synthesized click.
	DefaultClickDurationMs = 30.0

	// noise burst layered on the attack
	noiseAmplitude = 0.3
	noiseDecayRate = 300.0
)

func (p Profile) validate() error {
	if len(p.Frequencies) != len(p.Weights) {
		return fmt.Errorf("click profile has %d frequencies but %d weights", len(p.Frequencies), len(p.Weights))
	}
	return nil
}

// Style selects how beats sound.
type Style string

const (
	// StyleClick is the percussive multi-partial click with a noise attack.
	StyleClick Style = "click"
	// StyleBeep is a plain sine beep: 880 Hz on the accent, 440 Hz otherwise.
	StyleBeep Style = "beep"
)

const (
	beepAccentFreq      = 880.0
	beepRegularFreq     = 440.0
	beepAccentVolume    = 1.0
	beepRegularVolume   = 0.7
	defaultBeepLengthMs = 50.0
)

// ParseStyle maps a config or flag value to a Style.
func ParseStyle(s string) (Style, error) {
	switch Style(s) {
	case StyleClick, "":
		return StyleClick, nil
	case StyleBeep:
		return StyleBeep, nil
	}
	return "", fmt.Errorf("unknown click style %q (want %q or %q)", s, StyleClick, StyleBeep)
}
