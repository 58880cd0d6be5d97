// Package animation builds the beat indicator SVG: a line sweeping across one
// circle per beat, timed with SMIL animations chained on each other's end events.
package animation

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strconv"
)

const svgNamespace = "http://www.w3.org/2000/svg"

// Document is the root <svg> element.
type Document struct {
	XMLName     xml.Name `xml:"svg"`
	XMLNS       string   `xml:"xmlns,attr"`
	BaseProfile string   `xml:"baseProfile,attr"`
	Version     string   `xml:"version,attr"`
	Width       string   `xml:"width,attr"`
	Height      string   `xml:"height,attr"`
	Title       string   `xml:"title,omitempty"`
	Elements    []any

	beatIntervalMs float64
	beats          int
}

// Line is an SVG <line>.
type Line struct {
	XMLName     xml.Name  `xml:"line"`
	ID          string    `xml:"id,attr,omitempty"`
	X1          float64   `xml:"x1,attr"`
	Y1          float64   `xml:"y1,attr"`
	X2          float64   `xml:"x2,attr"`
	Y2          float64   `xml:"y2,attr"`
	Stroke      string    `xml:"stroke,attr"`
	StrokeWidth float64   `xml:"stroke-width,attr"`
	Animations  []Animate `xml:"animate"`
}

// Circle is an SVG <circle>; beat indicators are circles.
type Circle struct {
	XMLName     xml.Name  `xml:"circle"`
	ID          string    `xml:"id,attr,omitempty"`
	CX          float64   `xml:"cx,attr"`
	CY          float64   `xml:"cy,attr"`
	R           float64   `xml:"r,attr"`
	Fill        string    `xml:"fill,attr"`
	Stroke      string    `xml:"stroke,attr"`
	StrokeWidth float64   `xml:"stroke-width,attr"`
	Animations  []Animate `xml:"animate"`
}

// Text is an SVG <text> label.
type Text struct {
	XMLName    xml.Name `xml:"text"`
	X          float64  `xml:"x,attr"`
	Y          float64  `xml:"y,attr"`
	FontSize   string   `xml:"font-size,attr"`
	FontFamily string   `xml:"font-family,attr"`
	Fill       string   `xml:"fill,attr"`
	Content    string   `xml:",chardata"`
}

// Animate is a SMIL <animate>. Begin may list several ";"-separated triggers.
type Animate struct {
	XMLName       xml.Name `xml:"animate"`
	ID            string   `xml:"id,attr"`
	AttributeName string   `xml:"attributeName,attr"`
	Begin         string   `xml:"begin,attr"`
	Dur           string   `xml:"dur,attr"`
	From          string   `xml:"from,attr"`
	To            string   `xml:"to,attr"`
	Fill          string   `xml:"fill,attr,omitempty"`

	durMs float64
}

func newAnimate(id, attr, begin string, durMs float64, from, to string) Animate {
	return Animate{
		ID:            id,
		AttributeName: attr,
		Begin:         begin,
		Dur:           formatMs(durMs),
		From:          from,
		To:            to,
		durMs:         durMs,
	}
}

// DurationMs is the measure length the document loops over.
func (d *Document) DurationMs() float64 {
	return d.beatIntervalMs * float64(d.beats)
}

// Beats returns the number of indicators.
func (d *Document) Beats() int { return d.beats }

// WriteTo writes the pretty-printed document with an XML declaration.
func (d *Document) WriteTo(w io.Writer) (int64, error) {
	data, err := d.Encode()
	if err != nil {
		return 0, err
	}
	n, err := w.Write(data)
	return int64(n), err
}

// Encode returns the pretty-printed UTF-8 document.
func (d *Document) Encode() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(xml.Header)
	enc := xml.NewEncoder(&buf)
	enc.Indent("", "  ")
	if err := enc.Encode(d); err != nil {
		return nil, fmt.Errorf("encode svg: %w", err)
	}
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}

// formatMs renders a duration the way SMIL clock values expect, e.g. "857.1428571428571ms".
func formatMs(ms float64) string {
	return strconv.FormatFloat(ms, 'f', -1, 64) + "ms"
}

func formatNum(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
