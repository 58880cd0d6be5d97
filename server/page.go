package server

import (
	"html/template"
	"net/http"

	"metronome/core/tempo"
	"metronome/logger"
)

var pageTemplate = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Metronome</title>
<style>
body { background: #264653; color: #fff; font-family: monospace; text-align: center; }
form { margin: 1.5em auto; }
label { display: block; margin: .5em; }
.error { color: #e76f51; }
</style>
</head>
<body>
<h1>Metronome</h1>
<form method="get" action="/">
<label>BPM <input type="range" name="bpm" min="{{.BPMMin}}" max="{{.BPMMax}}" value="{{.BPM}}" oninput="this.nextElementSibling.value=this.value"> <output>{{.BPM}}</output></label>
<label>Beats <input type="range" name="beats" min="{{.BeatsMin}}" max="{{.BeatsMax}}" value="{{.Beats}}" oninput="this.nextElementSibling.value=this.value"> <output>{{.Beats}}</output></label>
<button type="submit">Start</button>
</form>
{{if .Error}}<p class="error">{{.Error}}</p>{{end}}
{{if .Audio}}
<h2>{{.BPM}} BPM{{if .Tempo}} &middot; {{.Tempo}}{{end}}</h2>
<img src="{{.SVG}}" alt="beat animation">
<audio src="{{.Audio}}" autoplay loop></audio>
{{end}}
</body>
</html>
`))

type pageData struct {
	BPMMin, BPMMax     int
	BeatsMin, BeatsMax int
	BPM, Beats         int
	Tempo              string
	Error              string
	Audio, SVG         template.URL
}

// IndexHandler renders the page with a fresh measure embedded inline.
func (s *Server) IndexHandler(w http.ResponseWriter, r *http.Request) {
	cfg, _ := s.current()
	data := pageData{
		BPMMin: tempo.BPMMin, BPMMax: tempo.BPMMax,
		BeatsMin: tempo.BeatsMin, BeatsMax: tempo.BeatsMax,
		BPM: cfg.DefaultBPM, Beats: cfg.DefaultBeats,
	}

	status := http.StatusOK
	res, embedded, err := s.renderEmbedded(r)
	if err != nil {
		status = statusFor(err)
		if status == http.StatusInternalServerError {
			logger.Error("render page", logger.ErrorField(err))
		}
		data.Error = err.Error()
	} else {
		data.BPM, data.Beats = res.Params.BPM, res.Params.Beats
		data.Tempo = res.TempoName
		// data URIs are built from our own base64 output
		data.Audio = template.URL(embedded.AudioDataURI())
		data.SVG = template.URL(embedded.SVGDataURI())
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := pageTemplate.Execute(w, data); err != nil {
		logger.Warn("render page template", logger.ErrorField(err))
	}
}
