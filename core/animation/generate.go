package animation

import (
	"fmt"
	"math"
	"strconv"

	"metronome/core/tempo"
)

// Options controls the geometry and palette of the generated document.
type Options struct {
	Spacing     float64 // distance between indicators
	Offset      float64 // x of the first indicator, half the spacing when unset
	Height      float64
	Radius      float64
	StrokeWidth float64

	LineColor    string
	AccentColor  string
	NeutralColor string
	ActiveColor  string

	// ResetAccentOnLoop gives the first indicator its own pulse on every loop
	// instead of holding its initial accent color. Off by default.
	ResetAccentOnLoop bool

	// DisableAccent draws the first indicator in the regular highlight color
	// instead of the accent color, matching an unaccented click track.
	DisableAccent bool
}

// DefaultOptions is the canonical layout: 100-unit spacing on a 200-unit tall canvas.
func DefaultOptions() Options {
	return Options{
		Spacing:      100,
		Offset:       50,
		Height:       200,
		Radius:       20,
		StrokeWidth:  2,
		LineColor:    "#fff",
		AccentColor:  "#e76f51",
		NeutralColor: "#fff",
		ActiveColor:  "#2a9d8f",
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.Spacing <= 0 {
		o.Spacing = d.Spacing
	}
	if o.Offset <= 0 {
		o.Offset = o.Spacing / 2
	}
	if o.Height <= 0 {
		o.Height = d.Height
	}
	if o.Radius <= 0 {
		o.Radius = d.Radius
	}
	if o.StrokeWidth <= 0 {
		o.StrokeWidth = d.StrokeWidth
	}
	if o.LineColor == "" {
		o.LineColor = d.LineColor
	}
	if o.AccentColor == "" {
		o.AccentColor = d.AccentColor
	}
	if o.NeutralColor == "" {
		o.NeutralColor = d.NeutralColor
	}
	if o.ActiveColor == "" {
		o.ActiveColor = d.ActiveColor
	}
	return o
}

// PulseMs is how long an indicator takes to switch to its highlight color.
const PulseMs = 1.0

// SegmentID names the line animation that sweeps towards indicator i+1 (0-based segment).
func SegmentID(i int) string { return "line1a" + strconv.Itoa(i+1) }

func pulseID(i int) string { return "c" + strconv.Itoa(i+1) + "f1" }
func holdID(i int) string  { return "c" + strconv.Itoa(i+1) + "f2" }

// Generate builds the animation for one measure. Segment i of the sweep begins when
// segment i-1 ends, and the first segment is re-triggered by the last, so the sweep
// loops without ever being scheduled against wall-clock offsets.
func Generate(beatIntervalMs float64, beats, bpm int, opts Options) (*Document, error) {
	if beats < 1 {
		return nil, fmt.Errorf("%w: beats must be positive (got %d)", tempo.ErrInvalidParameter, beats)
	}
	if bpm < 1 {
		return nil, fmt.Errorf("%w: bpm must be positive (got %d)", tempo.ErrInvalidParameter, bpm)
	}
	if math.IsNaN(beatIntervalMs) || math.IsInf(beatIntervalMs, 0) || beatIntervalMs <= PulseMs {
		return nil, fmt.Errorf("%w: beat interval must exceed %vms (got %v)", tempo.ErrInvalidParameter, PulseMs, beatIntervalMs)
	}
	o := opts.withDefaults()

	total := beatIntervalMs * float64(beats)
	midY := o.Height / 2

	doc := &Document{
		XMLNS:          svgNamespace,
		BaseProfile:    "full",
		Version:        "1.1",
		Width:          formatNum(float64(beats+1)*o.Spacing) + "px",
		Height:         formatNum(o.Height) + "px",
		Title:          title(bpm, beats),
		beatIntervalMs: beatIntervalMs,
		beats:          beats,
	}

	line := Line{
		ID:          "line",
		X1:          o.Offset,
		Y1:          midY,
		X2:          o.Offset,
		Y2:          midY,
		Stroke:      o.LineColor,
		StrokeWidth: o.StrokeWidth,
	}
	for i := 0; i < beats; i++ {
		begin := SegmentID(i-1) + ".end"
		if i == 0 {
			begin = "0s;" + SegmentID(beats-1) + ".end"
		}
		a := newAnimate(SegmentID(i), "x2", begin, beatIntervalMs,
			formatNum(o.Spacing*float64(i)+o.Offset),
			formatNum(o.Spacing*float64(i+1)+o.Offset))
		a.Fill = "freeze"
		line.Animations = append(line.Animations, a)
	}
	doc.Elements = append(doc.Elements, line)

	for i := 0; i < beats; i++ {
		cx := o.Spacing*float64(i) + o.Offset
		c := Circle{
			ID:          indicatorID(i),
			CX:          cx,
			CY:          midY,
			R:           o.Radius,
			Fill:        o.NeutralColor,
			Stroke:      o.ActiveColor,
			StrokeWidth: o.StrokeWidth,
		}
		switch {
		case i == 0:
			first := o.AccentColor
			if o.DisableAccent {
				first = o.ActiveColor
			}
			c.Fill = first
			c.Stroke = first
			if o.ResetAccentOnLoop {
				c.Animations = []Animate{
					newAnimate(pulseID(i), "fill", "0s;"+SegmentID(beats-1)+".end", PulseMs, o.NeutralColor, first),
					newAnimate(holdID(i), "fill", pulseID(i)+".end", total-PulseMs, first, first),
				}
			}
		default:
			// highlight the moment the sweep reaches this indicator, hold until the loop ends
			c.Animations = []Animate{
				newAnimate(pulseID(i), "fill", SegmentID(i-1)+".end", PulseMs, o.NeutralColor, o.ActiveColor),
				newAnimate(holdID(i), "fill", pulseID(i)+".end", total-beatIntervalMs*float64(i)-PulseMs, o.ActiveColor, o.ActiveColor),
			}
		}
		doc.Elements = append(doc.Elements, c, Text{
			X:          cx - 5,
			Y:          midY + 5,
			FontSize:   "16px",
			FontFamily: "monospace",
			Fill:       o.LineColor,
			Content:    strconv.Itoa(i + 1),
		})
	}

	endX := o.Offset + float64(beats)*o.Spacing
	doc.Elements = append(doc.Elements, Line{
		ID:          "end_line",
		X1:          endX,
		Y1:          midY - 10,
		X2:          endX,
		Y2:          midY + 10,
		Stroke:      o.LineColor,
		StrokeWidth: o.StrokeWidth,
	})
	return doc, nil
}

func indicatorID(i int) string { return "c" + strconv.Itoa(i+1) }

func title(bpm, beats int) string {
	if name, ok := tempo.Name(bpm); ok {
		return fmt.Sprintf("%d BPM (%s), %d beats", bpm, name, beats)
	}
	return fmt.Sprintf("%d BPM, %d beats", bpm, beats)
}
