// Package pitchtype maps Statcast pitch codes to display names.
package pitchtype

// names maps short pitch codes to human-readable pitch names.
var names = map[string]string{
	"FF": "4-Seam Fastball",
	"SI": "Sinker",
	"FC": "Cutter",
	"SL": "Slider",
	"CU": "Curveball",
	"KC": "Knuckle Curve",
	"CH": "Changeup",
	"FS": "Splitter",
	"KN": "Knuckleball",
	"EP": "Eephus",
	"SC": "Screwball",
	"SV": "Sweeper",
	"ST": "Sweeping Curve",
}

// Name returns the display name for a pitch code. Unknown codes resolve
// to themselves so new classifications degrade gracefully.
func Name(code string) string {
	if n, ok := names[code]; ok {
		return n
	}
	return code
}

// Known reports whether code has a display-name mapping.
func Known(code string) bool {
	_, ok := names[code]
	return ok
}
