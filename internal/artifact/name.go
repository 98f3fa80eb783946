// Package artifact implements the file naming convention that records how a
// derived video was produced:
//
//	<stem>[_filter_<name>][_subtitled].<ext>
//
// Stems are sanitized on creation so they never contain either marker; the
// markers only ever appear where the pipeline inserts them.
package artifact

import (
	"fmt"
	"path/filepath"
	"strings"

	"shortsmith/internal/textutil"
)

const (
	// FilterMarker separates a stem from the name of the applied filter.
	FilterMarker = "_filter_"
	// SubtitledMarker is appended once captions have been burned in.
	SubtitledMarker = "_subtitled"
	// DefaultExt is the container used for every derived output.
	DefaultExt = ".mp4"
)

// Name is the parsed form of an artifact filename.
type Name struct {
	Stem      string
	Filter    string
	Subtitled bool
	Ext       string
}

// Parse splits a path or filename into its naming components.
func Parse(path string) Name {
	base := filepath.Base(path)
	ext := filepath.Ext(base)
	rest := strings.TrimSuffix(base, ext)

	n := Name{Ext: ext}
	if trimmed, ok := strings.CutSuffix(rest, SubtitledMarker); ok {
		n.Subtitled = true
		rest = trimmed
	}
	if stem, filter, ok := strings.Cut(rest, FilterMarker); ok {
		n.Stem = stem
		n.Filter = filter
	} else {
		n.Stem = rest
	}
	return n
}

// String renders the filename.
func (n Name) String() string {
	var b strings.Builder
	b.WriteString(n.Stem)
	if n.Filter != "" {
		b.WriteString(FilterMarker)
		b.WriteString(n.Filter)
	}
	if n.Subtitled {
		b.WriteString(SubtitledMarker)
	}
	b.WriteString(n.Ext)
	return b.String()
}

// HasFilter reports whether the name carries a filter marker.
func (n Name) HasFilter() bool { return n.Filter != "" }

// Base drops every lineage marker.
func (n Name) Base() Name {
	return Name{Stem: n.Stem, Ext: n.Ext}
}

// WithFilter returns the base name with filter applied.
func (n Name) WithFilter(filter string) Name {
	return Name{Stem: n.Stem, Filter: filter, Ext: n.Ext}
}

// WithSubtitles returns n marked as captioned.
func (n Name) WithSubtitles() Name {
	n.Subtitled = true
	return n
}

// FilterPrefix is the prefix shared by every filtered variant of stem.
func FilterPrefix(stem string) string {
	return stem + FilterMarker
}

// SanitizeStem makes value filesystem safe and strips any lineage marker it
// happens to contain.
func SanitizeStem(value string) string {
	token := textutil.SanitizeToken(value)
	for {
		next := strings.ReplaceAll(token, FilterMarker, "_")
		next = strings.ReplaceAll(next, SubtitledMarker, "")
		next = strings.Trim(next, "_-")
		if next == token {
			break
		}
		token = next
	}
	if token == "" {
		return "unknown"
	}
	return token
}

// NewStem builds the stem for a video record: short_<source>_<id>.
func NewStem(sourceID string, videoID int64) string {
	return SanitizeStem(fmt.Sprintf("short_%s_%d", sourceID, videoID))
}
