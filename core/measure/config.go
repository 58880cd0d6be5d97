package measure

import (
	"fmt"

	"metronome/config"
	"metronome/core/animation"
	"metronome/core/click"
)

// FromConfig builds a Renderer from the application configuration.
func FromConfig(cfg *config.Config) (*Renderer, error) {
	style, err := click.ParseStyle(cfg.ClickStyle)
	if err != nil {
		return nil, fmt.Errorf("CLICK_STYLE: %w", err)
	}

	anim := animation.DefaultOptions()
	if cfg.Spacing > 0 {
		anim.Spacing = cfg.Spacing
	}
	// the default offset tracks the spacing unless configured explicitly
	anim.Offset = cfg.Offset
	if cfg.Height > 0 {
		anim.Height = cfg.Height
	}
	if cfg.Radius > 0 {
		anim.Radius = cfg.Radius
	}
	anim.ResetAccentOnLoop = cfg.ResetAccentOnLoop
	anim.DisableAccent = !cfg.AccentEnabled

	return NewRenderer(click.Options{
		SampleRate:      cfg.SampleRate,
		ClickDurationMs: cfg.ClickDurationMs,
		Style:           style,
		DisableAccent:   !cfg.AccentEnabled,
	}, cfg.NoiseSeed, anim)
}
