package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strconv"

	"metronome/core/animation"
	"metronome/core/click"
	"metronome/core/measure"
	"metronome/core/tempo"
	"metronome/core/utils"
	"metronome/logger"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Warn("encode response", logger.ErrorField(err))
	}
}

// statusFor maps invalid parameters to 400 and everything else to 500.
func statusFor(err error) int {
	if errors.Is(err, tempo.ErrInvalidParameter) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func writeError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		logger.Error("request failed", logger.ErrorField(err))
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func intParam(r *http.Request, name string, fallback int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be an integer (got %q)", tempo.ErrInvalidParameter, name, raw)
	}
	return v, nil
}

func (s *Server) params(r *http.Request) (tempo.Params, error) {
	cfg, _ := s.current()
	bpm, err := intParam(r, "bpm", cfg.DefaultBPM)
	if err != nil {
		return tempo.Params{}, err
	}
	beats, err := intParam(r, "beats", cfg.DefaultBeats)
	if err != nil {
		return tempo.Params{}, err
	}
	p := tempo.Params{BPM: bpm, Beats: beats}
	return p, p.Validate()
}

func (s *Server) render(r *http.Request) (*measure.Result, error) {
	p, err := s.params(r)
	if err != nil {
		return nil, err
	}
	_, renderer := s.current()
	return renderer.Render(p)
}

// renderEmbedded renders into a fresh request directory, reads the files back and
// removes the directory again.
func (s *Server) renderEmbedded(r *http.Request) (*measure.Result, measure.Embedded, error) {
	res, err := s.render(r)
	if err != nil {
		return nil, measure.Embedded{}, err
	}
	cfg, _ := s.current()
	id, dir, err := utils.RequestDir(cfg.OutputDir)
	if err != nil {
		return nil, measure.Embedded{}, err
	}
	defer func() {
		if err := os.RemoveAll(dir); err != nil {
			logger.Warn("remove request directory", logger.String("dir", dir), logger.ErrorField(err))
		}
	}()

	audioPath, svgPath, err := res.SaveFiles(dir, cfg.AudioFile, cfg.SVGFile)
	if err != nil {
		return nil, measure.Embedded{}, err
	}
	embedded, err := measure.EmbedFiles(audioPath, svgPath)
	if err != nil {
		return nil, measure.Embedded{}, err
	}
	logger.Debug("measure rendered",
		logger.String("renderId", id),
		logger.Int("bpm", res.Params.BPM),
		logger.Int("beats", res.Params.Beats),
		logger.Int("samples", res.SampleCount()))
	return res, embedded, nil
}

// MeasureResponse is the JSON body of /api/measure.
type MeasureResponse struct {
	BPM             int               `json:"bpm"`
	Beats           int               `json:"beats"`
	Tempo           string            `json:"tempo"`
	BeatIntervalMs  float64           `json:"beatIntervalMs"`
	TotalDurationMs float64           `json:"totalDurationMs"`
	ClickDurationMs float64           `json:"clickDurationMs"`
	SampleRate      int               `json:"sampleRate"`
	SampleCount     int               `json:"sampleCount"`
	Audio           string            `json:"audio"`
	SVG             string            `json:"svg"`
	Schedule        []animation.Event `json:"schedule"`
}

// MeasureHandler returns the metadata of one measure with both artifacts base64-encoded.
func (s *Server) MeasureHandler(w http.ResponseWriter, r *http.Request) {
	res, embedded, err := s.renderEmbedded(r)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, MeasureResponse{
		BPM:             res.Params.BPM,
		Beats:           res.Params.Beats,
		Tempo:           res.TempoName,
		BeatIntervalMs:  res.BeatIntervalMs,
		TotalDurationMs: res.TotalDurationMs,
		ClickDurationMs: res.ClickDurationMs,
		SampleRate:      res.Audio.SampleRate(),
		SampleCount:     res.SampleCount(),
		Audio:           embedded.Audio,
		SVG:             embedded.SVG,
		Schedule:        res.Schedule(),
	})
}

// AudioHandler streams the click track as WAV.
func (s *Server) AudioHandler(w http.ResponseWriter, r *http.Request) {
	res, err := s.render(r)
	if err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "audio/wav")
	w.Header().Set("Content-Length", strconv.Itoa(click.WAVSize(res.SampleCount())))
	if err := click.WriteWAV(w, res.Audio); err != nil {
		logger.Warn("stream audio", logger.ErrorField(err))
	}
}

// AnimationHandler streams the beat animation as SVG.
func (s *Server) AnimationHandler(w http.ResponseWriter, r *http.Request) {
	res, err := s.render(r)
	if err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	if _, err := res.Animation.WriteTo(w); err != nil {
		logger.Warn("stream animation", logger.ErrorField(err))
	}
}

// TempoResponse is the JSON body of /api/tempo.
type TempoResponse struct {
	BPM            int     `json:"bpm"`
	Name           string  `json:"name"`
	Named          bool    `json:"named"`
	BeatIntervalMs float64 `json:"beatIntervalMs"`
}

// TempoHandler names a tempo. Any positive bpm is accepted; the name is empty
// outside the table.
func TempoHandler(w http.ResponseWriter, r *http.Request) {
	bpm, err := intParam(r, "bpm", tempo.BPMDefault)
	if err != nil {
		writeError(w, err)
		return
	}
	if bpm < 1 {
		writeError(w, fmt.Errorf("%w: bpm must be positive (got %d)", tempo.ErrInvalidParameter, bpm))
		return
	}
	name, ok := tempo.Name(bpm)
	writeJSON(w, http.StatusOK, TempoResponse{
		BPM:            bpm,
		Name:           name,
		Named:          ok,
		BeatIntervalMs: tempo.MillisecondsPerBeat(bpm),
	})
}

// HealthHandler reports liveness.
func HealthHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
