// Package measure renders the click track and the beat animation for one
// (bpm, beats) request. Both artifacts derive their timing from the same beat
// interval, which is all that keeps them in sync on playback.
package measure

import (
	"encoding/base64"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"metronome/core/animation"
	"metronome/core/click"
	"metronome/core/tempo"
	"metronome/core/utils"
)

// Renderer builds fresh artifacts per request. It is safe for concurrent use:
// every Render call owns its buffer, document and noise source.
type Renderer struct {
	synth     click.Options
	seed      uint64
	animation animation.Options
}

// NewRenderer checks synth options once so Render never fails on configuration.
// Noise in synthOpts is ignored; each render seeds its own source from seed.
func NewRenderer(synthOpts click.Options, seed uint64, animOpts animation.Options) (*Renderer, error) {
	synthOpts.Noise = nil
	if _, err := click.NewSynth(synthOpts); err != nil {
		return nil, fmt.Errorf("synth options: %w", err)
	}
	return &Renderer{synth: synthOpts, seed: seed, animation: animOpts}, nil
}

// Result is one rendered measure.
type Result struct {
	Params          tempo.Params
	TempoName       string
	BeatIntervalMs  float64
	TotalDurationMs float64
	ClickDurationMs float64

	Audio     *click.Buffer
	Animation *animation.Document
}

// Render validates p and builds both artifacts in memory.
func (r *Renderer) Render(p tempo.Params) (*Result, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	ms := p.BeatIntervalMs()

	opts := r.synth
	opts.Noise = click.NewSeededNoise(r.seed)
	synth, err := click.NewSynth(opts)
	if err != nil {
		return nil, fmt.Errorf("synth: %w", err)
	}
	audio, err := synth.Measure(ms, p.Beats)
	if err != nil {
		return nil, fmt.Errorf("click track: %w", err)
	}
	doc, err := animation.Generate(ms, p.Beats, p.BPM, r.animation)
	if err != nil {
		return nil, fmt.Errorf("animation: %w", err)
	}

	name, _ := tempo.Name(p.BPM)
	return &Result{
		Params:          p,
		TempoName:       name,
		BeatIntervalMs:  ms,
		TotalDurationMs: p.TotalDurationMs(),
		ClickDurationMs: synth.ClickDurationMs(),
		Audio:           audio,
		Animation:       doc,
	}, nil
}

// SampleCount is the number of audio frames in the click track.
func (res *Result) SampleCount() int { return res.Audio.Len() }

// Schedule lists the animation's first-loop timeline.
func (res *Result) Schedule() []animation.Event { return res.Animation.Schedule() }

// WriteTo streams the WAV to audio and the SVG to svg.
func (res *Result) WriteTo(audio, svg io.Writer) error {
	if err := click.WriteWAV(audio, res.Audio); err != nil {
		return fmt.Errorf("write audio: %w", err)
	}
	if _, err := res.Animation.WriteTo(svg); err != nil {
		return fmt.Errorf("write animation: %w", err)
	}
	return nil
}

// SaveFiles writes both artifacts into dir. Each file is replaced atomically,
// so a failed render never leaves a truncated artifact behind.
func (res *Result) SaveFiles(dir, audioName, svgName string) (audioPath, svgPath string, err error) {
	audioPath = filepath.Join(dir, audioName)
	svgPath = filepath.Join(dir, svgName)

	if err = utils.WriteFileAtomic(audioPath, func(w io.Writer) error {
		return click.WriteWAV(w, res.Audio)
	}); err != nil {
		return "", "", err
	}
	if err = utils.WriteFileAtomic(svgPath, func(w io.Writer) error {
		_, err := res.Animation.WriteTo(w)
		return err
	}); err != nil {
		return "", "", err
	}
	return audioPath, svgPath, nil
}

// Embedded holds both artifacts base64-encoded for inline display.
type Embedded struct {
	Audio string `json:"audio"`
	SVG   string `json:"svg"`
}

// AudioDataURI is the src of an <audio> element.
func (e Embedded) AudioDataURI() string { return "data:audio/wav;base64," + e.Audio }

// SVGDataURI is the src of an <img> element.
func (e Embedded) SVGDataURI() string { return "data:image/svg+xml;base64," + e.SVG }

// Embed encodes res without touching the filesystem.
func Embed(res *Result) (Embedded, error) {
	svg, err := res.Animation.Encode()
	if err != nil {
		return Embedded{}, fmt.Errorf("encode animation: %w", err)
	}
	return Embedded{
		Audio: base64.StdEncoding.EncodeToString(res.Audio.EncodeWAV()),
		SVG:   base64.StdEncoding.EncodeToString(svg),
	}, nil
}

// EmbedFiles reads previously saved artifacts back and encodes them.
func EmbedFiles(audioPath, svgPath string) (Embedded, error) {
	audio, err := os.ReadFile(audioPath)
	if err != nil {
		return Embedded{}, fmt.Errorf("read %s: %w", audioPath, err)
	}
	svg, err := os.ReadFile(svgPath)
	if err != nil {
		return Embedded{}, fmt.Errorf("read %s: %w", svgPath, err)
	}
	return Embedded{
		Audio: base64.StdEncoding.EncodeToString(audio),
		SVG:   base64.StdEncoding.EncodeToString(svg),
	}, nil
}
