package ffprobe

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"strings"
	"time"

	"shortsmith/internal/media/ffmpeg"
	"shortsmith/internal/services"
)

// Result represents the parsed output from an ffprobe inspection.
type Result struct {
	Streams []Stream `json:"streams"`
	Format  Format   `json:"format"`
}

// Stream describes a single stream in the media container.
type Stream struct {
	Index        int    `json:"index"`
	CodecName    string `json:"codec_name"`
	CodecType    string `json:"codec_type"`
	Width        int    `json:"width"`
	Height       int    `json:"height"`
	RFrameRate   string `json:"r_frame_rate"`
	AvgFrameRate string `json:"avg_frame_rate"`
	Duration     string `json:"duration"`
}

// Format captures container-level metadata extracted by ffprobe.
type Format struct {
	Filename   string `json:"filename"`
	Duration   string `json:"duration"`
	Size       string `json:"size"`
	FormatName string `json:"format_name"`
}

// Prober runs ffprobe with a per-call time limit.
type Prober struct {
	Binary  string
	Timeout time.Duration
	Grace   time.Duration
	Logger  *slog.Logger
}

// Inspect executes ffprobe against the provided path and decodes the JSON response.
func (p Prober) Inspect(ctx context.Context, path string) (Result, error) {
	binary := strings.TrimSpace(p.Binary)
	if binary == "" {
		binary = "ffprobe"
	}
	path = strings.TrimSpace(path)
	if path == "" {
		return Result{}, services.Wrap(services.ErrValidation, "probe", "inspect", "empty path", nil)
	}

	out, err := ffmpeg.Exec(ctx, p.Logger, ffmpeg.Request{
		Binary:    binary,
		Args:      []string{"-v", "error", "-hide_banner", "-show_format", "-show_streams", "-of", "json", "--", path},
		Timeout:   p.Timeout,
		Grace:     p.Grace,
		Stage:     "probe",
		Operation: "inspect",
	})
	if err != nil {
		return Result{}, err
	}

	var result Result
	if err := json.Unmarshal(out.Stdout, &result); err != nil {
		return Result{}, services.Wrap(services.ErrExternalTool, "probe", "parse", fmt.Sprintf("decode ffprobe output for %s", path), err)
	}
	return result, nil
}

// Inspect probes path using the given binary and no extra time limit.
func Inspect(ctx context.Context, binary, path string) (Result, error) {
	return Prober{Binary: binary}.Inspect(ctx, path)
}

// VideoStream returns the first video stream.
func (r Result) VideoStream() (Stream, bool) {
	for _, stream := range r.Streams {
		if strings.EqualFold(stream.CodecType, "video") {
			return stream, true
		}
	}
	return Stream{}, false
}

// VideoDimensions returns the width and height of the first video stream.
func (r Result) VideoDimensions() (int, int, bool) {
	stream, ok := r.VideoStream()
	if !ok || stream.Width <= 0 || stream.Height <= 0 {
		return 0, 0, false
	}
	return stream.Width, stream.Height, true
}

// FrameRate returns the first video stream's rate in frames per second,
// preferring r_frame_rate over avg_frame_rate.
func (r Result) FrameRate() (float64, bool) {
	stream, ok := r.VideoStream()
	if !ok {
		return 0, false
	}
	for _, candidate := range []string{stream.RFrameRate, stream.AvgFrameRate} {
		if fps, ok := ParseRate(candidate); ok {
			return fps, true
		}
	}
	return 0, false
}

// AudioStreamCount returns the number of audio streams discovered.
func (r Result) AudioStreamCount() int {
	count := 0
	for _, stream := range r.Streams {
		if strings.EqualFold(stream.CodecType, "audio") {
			count++
		}
	}
	return count
}

// DurationSeconds returns the container duration in seconds, or 0 when unavailable.
func (r Result) DurationSeconds() float64 {
	return parseFloat(r.Format.Duration)
}

// SizeBytes returns the reported container size in bytes, or 0 when unavailable.
func (r Result) SizeBytes() int64 {
	size := parseFloat(r.Format.Size)
	if math.IsNaN(size) || size < 0 {
		return 0
	}
	return int64(size)
}

// ParseRate parses ffprobe rationals such as "30000/1001" or plain numbers.
func ParseRate(value string) (float64, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, false
	}
	num, den, found := strings.Cut(value, "/")
	if !found {
		rate := parseFloat(num)
		return rate, rate > 0 && !math.IsNaN(rate)
	}
	n := parseFloat(num)
	d := parseFloat(den)
	if math.IsNaN(n) || math.IsNaN(d) || d == 0 || n <= 0 {
		return 0, false
	}
	return n / d, true
}

func parseFloat(value string) float64 {
	cleaned := strings.TrimSpace(value)
	if cleaned == "" {
		return 0
	}
	if parsed, err := strconv.ParseFloat(cleaned, 64); err == nil {
		return parsed
	}
	return math.NaN()
}
