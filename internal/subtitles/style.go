package subtitles

import (
	"fmt"
	"strconv"
	"strings"

	"shortsmith/internal/services"
)

// BoldThreshold is the CSS weight at and above which text renders bold.
const BoldThreshold = 700

// Default style values.
const (
	DefaultFont       = "Impact"
	DefaultFontSize   = 80
	DefaultBoldWeight = 400
	DefaultColor      = "#FF0000"
)

// Style describes how caption text is drawn.
type Style struct {
	Font       string `json:"font"`
	FontSize   int    `json:"font_size"`
	BoldWeight int    `json:"bold_weight"`
	Color      string `json:"color"`
}

// DefaultStyle returns the built-in caption style.
func DefaultStyle() Style {
	return Style{
		Font:       DefaultFont,
		FontSize:   DefaultFontSize,
		BoldWeight: DefaultBoldWeight,
		Color:      DefaultColor,
	}
}

// Validate rejects styles the renderer cannot express.
func (s Style) Validate() error {
	switch {
	case strings.TrimSpace(s.Font) == "":
		return invalidStyle("font is required")
	case strings.ContainsAny(s.Font, ",\n\r"):
		return invalidStyle(fmt.Sprintf("font %q may not contain commas or newlines", s.Font))
	case s.FontSize <= 0 || s.FontSize > 1000:
		return invalidStyle(fmt.Sprintf("font size %d out of range 1-1000", s.FontSize))
	case s.BoldWeight < 100 || s.BoldWeight > 900:
		return invalidStyle(fmt.Sprintf("bold weight %d out of range 100-900", s.BoldWeight))
	}
	if _, err := ASSColor(s.Color); err != nil {
		return err
	}
	return nil
}

func invalidStyle(message string) error {
	return services.Wrap(services.ErrValidation, "caption", "style", message, nil)
}

// IsBold reports whether weight crosses the bold threshold.
func IsBold(weight int) bool {
	return weight >= BoldThreshold
}

// ASSBold renders the ASS Bold field: -1 for bold, 0 otherwise.
func ASSBold(weight int) string {
	if IsBold(weight) {
		return "-1"
	}
	return "0"
}

// ASSColor converts "#RRGGBB" into the ASS colour form "&H00BBGGRR".
// The leading byte is alpha, 00 meaning opaque.
func ASSColor(hex string) (string, error) {
	r, g, b, err := parseHex(hex)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("&H00%02X%02X%02X", b, g, r), nil
}

// DecodeASSColor reverses ASSColor, returning the red, green and blue channels.
func DecodeASSColor(value string) (uint8, uint8, uint8, error) {
	trimmed := strings.TrimSpace(value)
	digits, ok := strings.CutPrefix(strings.ToUpper(trimmed), "&H")
	if !ok || len(digits) != 8 {
		return 0, 0, 0, services.Wrap(services.ErrValidation, "caption", "color", fmt.Sprintf("invalid ASS colour %q", value), nil)
	}
	packed, err := strconv.ParseUint(digits, 16, 32)
	if err != nil {
		return 0, 0, 0, services.Wrap(services.ErrValidation, "caption", "color", fmt.Sprintf("invalid ASS colour %q", value), err)
	}
	b := uint8(packed >> 16)
	g := uint8(packed >> 8)
	r := uint8(packed)
	return r, g, b, nil
}

func parseHex(hex string) (uint8, uint8, uint8, error) {
	digits, ok := strings.CutPrefix(strings.TrimSpace(hex), "#")
	if !ok || len(digits) != 6 {
		return 0, 0, 0, services.Wrap(services.ErrValidation, "caption", "color", fmt.Sprintf("colour %q must be #RRGGBB", hex), nil)
	}
	packed, err := strconv.ParseUint(digits, 16, 32)
	if err != nil {
		return 0, 0, 0, services.Wrap(services.ErrValidation, "caption", "color", fmt.Sprintf("colour %q must be #RRGGBB", hex), err)
	}
	return uint8(packed >> 16), uint8(packed >> 8), uint8(packed), nil
}
