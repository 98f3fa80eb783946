package subtitles

import (
	"fmt"
	"io"
	"math"
	"strings"
)

// Segment is one timed caption.
type Segment struct {
	Start float64
	End   float64
	Text  string
}

// Canvas is the PlayRes the track is authored against; it should match the
// video the captions are burned into.
type Canvas struct {
	Width  int
	Height int
}

// Layout constants for caption placement.
const (
	outlineWidth   = 3
	bottomMargin   = 220
	sideMargin     = 60
	alignBottomMid = 2
)

// FormatTimestamp renders seconds as H:MM:SS.CC, truncating to centiseconds.
func FormatTimestamp(seconds float64) string {
	if seconds < 0 || math.IsNaN(seconds) {
		seconds = 0
	}
	total := int64(math.Floor(seconds*100 + 1e-6))
	cs := total % 100
	total /= 100
	s := total % 60
	total /= 60
	m := total % 60
	h := total / 60
	return fmt.Sprintf("%d:%02d:%02d.%02d", h, m, s, cs)
}

// EscapeText makes segment text safe for a Dialogue line: braces would open
// override blocks and raw newlines would end the event.
func EscapeText(text string) string {
	text = strings.TrimSpace(text)
	text = strings.ReplaceAll(text, "\\", "\\\\")
	text = strings.ReplaceAll(text, "{", "\\{")
	text = strings.ReplaceAll(text, "}", "\\}")
	text = strings.ReplaceAll(text, "\r\n", "\\N")
	text = strings.ReplaceAll(text, "\n", "\\N")
	return text
}

// RenderASS writes a complete ASS track with one Dialogue per segment.
// Segments with empty text or non-positive duration are skipped.
func RenderASS(w io.Writer, style Style, canvas Canvas, segments []Segment) (int, error) {
	if err := style.Validate(); err != nil {
		return 0, err
	}
	primary, _ := ASSColor(style.Color)
	if canvas.Width <= 0 || canvas.Height <= 0 {
		canvas = Canvas{Width: 1080, Height: 1920}
	}

	var b strings.Builder
	b.WriteString("[Script Info]\n")
	b.WriteString("ScriptType: v4.00+\n")
	fmt.Fprintf(&b, "PlayResX: %d\n", canvas.Width)
	fmt.Fprintf(&b, "PlayResY: %d\n", canvas.Height)
	b.WriteString("WrapStyle: 0\n")
	b.WriteString("ScaledBorderAndShadow: yes\n\n")

	b.WriteString("[V4+ Styles]\n")
	b.WriteString("Format: Name, Fontname, Fontsize, PrimaryColour, SecondaryColour, OutlineColour, BackColour, Bold, Italic, Underline, StrikeOut, ScaleX, ScaleY, Spacing, Angle, BorderStyle, Outline, Shadow, Alignment, MarginL, MarginR, MarginV, Encoding\n")
	fmt.Fprintf(&b, "Style: Default,%s,%d,%s,%s,&H00000000,&H80000000,%s,0,0,0,100,100,0,0,1,%d,0,%d,%d,%d,%d,1\n\n",
		strings.TrimSpace(style.Font), style.FontSize, primary, primary, ASSBold(style.BoldWeight),
		outlineWidth, alignBottomMid, sideMargin, sideMargin, bottomMargin)

	b.WriteString("[Events]\n")
	b.WriteString("Format: Layer, Start, End, Style, Name, MarginL, MarginR, MarginV, Effect, Text\n")
	written := 0
	for _, seg := range segments {
		text := EscapeText(seg.Text)
		if text == "" || seg.End <= seg.Start {
			continue
		}
		fmt.Fprintf(&b, "Dialogue: 0,%s,%s,Default,,0,0,0,,%s\n", FormatTimestamp(seg.Start), FormatTimestamp(seg.End), text)
		written++
	}

	if _, err := io.WriteString(w, b.String()); err != nil {
		return 0, fmt.Errorf("write ass track: %w", err)
	}
	return written, nil
}

// FilterPath escapes a path for use as a filter option value, e.g.
// ass=<path>. ffmpeg unescapes the graph first and each option value second,
// so the option level is escaped first here.
func FilterPath(path string) string {
	return graphEscaper.Replace(optionEscaper.Replace(path))
}

var (
	optionEscaper = strings.NewReplacer(`\`, `\\`, `:`, `\:`, `'`, `\'`)
	graphEscaper  = strings.NewReplacer(`\`, `\\`, `'`, `\'`, `[`, `\[`, `]`, `\]`, `,`, `\,`, `;`, `\;`)
)
