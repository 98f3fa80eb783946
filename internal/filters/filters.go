// Package filters holds the closed table of look filters the filter stage
// can apply. The table is built once and never mutated; accessors hand out
// copies.
package filters

import (
	"slices"
	"strings"

	"shortsmith/internal/textutil"
)

// GraphOutputLabel names the final pad of multi-node graphs.
const GraphOutputLabel = "[out]"

// Filter maps a stable name onto an ffmpeg filter expression.
type Filter struct {
	Name        string
	Graph       string
	Description string
}

// DisplayName returns a title-cased label for listings.
func (f Filter) DisplayName() string {
	return textutil.DisplayName(f.Name)
}

// MultiNode reports whether the graph needs -filter_complex.
func (f Filter) MultiNode() bool {
	return IsGraph(f.Graph)
}

var table = map[string]Filter{
	"grayscale": {
		Graph:       "format=gray",
		Description: "Black and white",
	},
	"sepia": {
		Graph:       "colorchannelmixer=.393:.769:.189:0:.349:.686:.168:0:.272:.534:.131",
		Description: "Warm brown monochrome tint",
	},
	"vignette": {
		Graph:       "vignette",
		Description: "Darkened corners",
	},
	"vintage": {
		Graph:       "curves=r='0/0.11:0.25/0.24:0.5/0.51:1/0.92':g='0/0.09:0.25/0.23:0.5/0.48:1/0.93':b='0/0.12:0.25/0.20:0.5/0.52:1/0.90'",
		Description: "Faded film curves",
	},
	"sharpen": {
		Graph:       "unsharp=5:5:1.0:5:5:0.0",
		Description: "Luma unsharp mask",
	},
	"warm": {
		Graph:       "eq=contrast=1.1:saturation=1.2:gamma=1.1",
		Description: "Boosted contrast and saturation",
	},
	"grain": {
		Graph:       "noise=alls=7:allf=t+u",
		Description: "Temporal film grain",
	},
	"technicolor": {
		Graph:       "colorchannelmixer=.59:.32:.14:0:.30:.60:.12:0:.22:.34:.72",
		Description: "Two-strip colour mix",
	},
	"cinematic": {
		Graph:       "split=2[base][soft];[soft]gblur=sigma=12[glow];[base][glow]blend=all_mode=screen:all_opacity=0.25,eq=saturation=1.1,vignette=PI/5" + GraphOutputLabel,
		Description: "Soft glow with vignette",
	},
}

func init() {
	for name, f := range table {
		f.Name = name
		table[name] = f
	}
}

// Lookup returns the filter registered under name.
func Lookup(name string) (Filter, bool) {
	f, ok := table[strings.TrimSpace(name)]
	return f, ok
}

// Names returns every filter name in sorted order.
func Names() []string {
	names := make([]string, 0, len(table))
	for name := range table {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// All returns every filter sorted by name.
func All() []Filter {
	names := Names()
	out := make([]Filter, 0, len(names))
	for _, name := range names {
		out = append(out, table[name])
	}
	return out
}

// IsGraph reports whether expr uses labeled pads or chains joined with ';'.
func IsGraph(expr string) bool {
	return strings.ContainsAny(expr, "[;")
}
