// Package tempo holds the shared timing vocabulary of a measure: the BPM and beat
// limits, the beat interval derivation and the classical tempo names.
package tempo

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Supported request ranges, inclusive. The validate tags on Params repeat
// these values and must be kept in step with them.
const (
	BPMMin     = 40
	BPMMax     = 208
	BPMDefault = 120

	BeatsMin     = 1 // beats per measure
	BeatsMax     = 8
	BeatsDefault = 4
)

// ErrInvalidParameter marks a request that must not be rendered at all:
// out-of-range bpm or beats, or a non-positive derived duration.
var ErrInvalidParameter = errors.New("invalid parameter")

// Params is one render request as supplied by a caller.
// Tag limits mirror BPMMin..BPMMax and BeatsMin..BeatsMax.
type Params struct {
	BPM   int `json:"bpm" validate:"min=40,max=208"`
	Beats int `json:"beats" validate:"min=1,max=8"`
}

var validate = validator.New()

// Validate checks p against the supported slider ranges.
func (p Params) Validate() error {
	if err := validate.Struct(p); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				op := fe.Tag()
				switch op {
				case "min":
					op = ">="
				case "max":
					op = "<="
				}
				msgs = append(msgs, fmt.Sprintf("%s must be %s %s (got %v)", strings.ToLower(fe.Field()), op, fe.Param(), fe.Value()))
			}
			return fmt.Errorf("%w: %s", ErrInvalidParameter, strings.Join(msgs, ", "))
		}
		return fmt.Errorf("%w: %v", ErrInvalidParameter, err)
	}
	return nil
}

// BeatIntervalMs is the derived per-beat duration for p.
func (p Params) BeatIntervalMs() float64 {
	return MillisecondsPerBeat(p.BPM)
}

// TotalDurationMs is the length of one measure.
func (p Params) TotalDurationMs() float64 {
	return p.BeatIntervalMs() * float64(p.Beats)
}

// MillisecondsPerBeat returns 60000 / bpm. Callers validate bpm first.
func MillisecondsPerBeat(bpm int) float64 {
	return 60000 / float64(bpm)
}
