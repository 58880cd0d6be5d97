package tempo

// Range is an inclusive BPM range carrying a tempo marking.
type Range struct {
	Name string
	Min  int
	Max  int
}

// Ranges is checked in order; adjacent ranges share their boundary value,
// which therefore resolves to the earlier (slower) marking.
var Ranges = []Range{
	{Name: "Largo", Min: 40, Max: 58},
	{Name: "Larghetto", Min: 58, Max: 63},
	{Name: "Adagio", Min: 63, Max: 72},
	{Name: "Andante", Min: 72, Max: 104},
	{Name: "Moderato", Min: 104, Max: 116},
	{Name: "Allegro", Min: 116, Max: 160},
	{Name: "Presto", Min: 160, Max: 192},
	{Name: "Prestissimo", Min: 192, Max: 216},
}

// Name returns the tempo marking for bpm, or "" and false when no range covers it.
func Name(bpm int) (string, bool) {
	for _, r := range Ranges {
		if bpm >= r.Min && bpm <= r.Max {
			return r.Name, true
		}
	}
	return "", false
}
