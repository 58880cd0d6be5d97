package animation

import (
	"sort"
	"strconv"
	"strings"
)

// Event is one animation resolved to the start and end time of its first run.
type Event struct {
	ID        string  `json:"id"`
	Target    string  `json:"target"`
	Attribute string  `json:"attribute"`
	StartMs   float64 `json:"startMs"`
	EndMs     float64 `json:"endMs"`
	From      string  `json:"from"`
	To        string  `json:"to"`
}

type scheduled struct {
	target string
	anim   Animate
}

// Schedule resolves the begin chain of every animation into explicit times for the
// first pass through the measure, ordered by start time then id. Triggers that only
// fire on a later loop (such as the first sweep segment's restart) are ignored.
func (d *Document) Schedule() []Event {
	var all []scheduled
	for _, el := range d.Elements {
		switch v := el.(type) {
		case Line:
			for _, a := range v.Animations {
				all = append(all, scheduled{target: v.ID, anim: a})
			}
		case Circle:
			for _, a := range v.Animations {
				all = append(all, scheduled{target: v.ID, anim: a})
			}
		}
	}

	start := make(map[string]float64, len(all))
	for changed := true; changed; {
		changed = false
		for _, s := range all {
			t, ok := resolveBegin(s.anim.Begin, start, all)
			if !ok {
				continue
			}
			if cur, seen := start[s.anim.ID]; !seen || t < cur {
				start[s.anim.ID] = t
				changed = true
			}
		}
	}

	events := make([]Event, 0, len(all))
	for _, s := range all {
		t, ok := start[s.anim.ID]
		if !ok {
			continue
		}
		events = append(events, Event{
			ID:        s.anim.ID,
			Target:    s.target,
			Attribute: s.anim.AttributeName,
			StartMs:   t,
			EndMs:     t + s.anim.durMs,
			From:      s.anim.From,
			To:        s.anim.To,
		})
	}
	sort.SliceStable(events, func(i, j int) bool {
		if events[i].StartMs != events[j].StartMs {
			return events[i].StartMs < events[j].StartMs
		}
		return events[i].ID < events[j].ID
	})
	return events
}

// resolveBegin returns the earliest trigger time currently known for a begin list
// such as "0s;line1a4.end".
func resolveBegin(begin string, start map[string]float64, all []scheduled) (float64, bool) {
	best, found := 0.0, false
	for _, tok := range strings.Split(begin, ";") {
		tok = strings.TrimSpace(tok)
		var t float64
		switch {
		case strings.HasSuffix(tok, ".end"):
			id := strings.TrimSuffix(tok, ".end")
			s, ok := start[id]
			if !ok {
				continue
			}
			t = s + durationOf(id, all)
		case strings.HasSuffix(tok, "ms"):
			v, err := strconv.ParseFloat(strings.TrimSuffix(tok, "ms"), 64)
			if err != nil {
				continue
			}
			t = v
		case strings.HasSuffix(tok, "s"):
			v, err := strconv.ParseFloat(strings.TrimSuffix(tok, "s"), 64)
			if err != nil {
				continue
			}
			t = v * 1000
		default:
			continue
		}
		if !found || t < best {
			best, found = t, true
		}
	}
	return best, found
}

func durationOf(id string, all []scheduled) float64 {
	for _, s := range all {
		if s.anim.ID == id {
			return s.anim.durMs
		}
	}
	return 0
}
