// Package signals extracts the two inputs the highlight selector fuses:
// speech-active intervals from a transcription pass and a per-second motion
// series from ffmpeg frame differencing.
package signals

import (
	"bufio"
	"bytes"
	"context"
	"log/slog"
	"strconv"
	"strings"

	"shortsmith/internal/logging"
	"shortsmith/internal/media/ffmpeg"
	"shortsmith/internal/media/ffprobe"
	"shortsmith/internal/services"
	"shortsmith/internal/services/whisperx"
)

// SpeechInterval is an inclusive [Start, End] range of whole seconds.
type SpeechInterval struct {
	Start int
	End   int
}

// Contains reports whether second falls inside the interval, bounds included.
func (s SpeechInterval) Contains(second int) bool {
	return s.Start <= second && second <= s.End
}

// MotionSeries holds one motion score per whole second of footage.
type MotionSeries []float64

// Signals bundles both extractor outputs for one file.
type Signals struct {
	Speech []SpeechInterval
	Motion MotionSeries
	FPS    float64
}

// Transcriber returns timed segments for a media file.
type Transcriber interface {
	Transcribe(ctx context.Context, videoPath string) ([]whisperx.Segment, error)
}

// Prober inspects a media file.
type Prober interface {
	Inspect(ctx context.Context, path string) (ffprobe.Result, error)
}

// FallbackFPS is used when the container reports no usable frame rate.
const FallbackFPS = 30

// motionGraph turns each frame into its luma difference from the previous
// frame and prints the mean (YAVG) per frame to stdout.
const motionGraph = "format=gray,tblend=all_mode=difference,signalstats,metadata=print:file=-"

const yavgKey = "lavfi.signalstats.YAVG="

// Extractor produces speech and motion signals.
type Extractor struct {
	transcriber Transcriber
	prober      Prober
	runner      *ffmpeg.Runner
	logger      *slog.Logger
}

// NewExtractor wires an extractor. runner should carry the motion timeout.
func NewExtractor(transcriber Transcriber, prober Prober, runner *ffmpeg.Runner, logger *slog.Logger) *Extractor {
	return &Extractor{
		transcriber: transcriber,
		prober:      prober,
		runner:      runner,
		logger:      logging.NewComponentLogger(logger, "signals"),
	}
}

// SpeechIntervals transcribes path and truncates segment bounds to whole seconds.
func (e *Extractor) SpeechIntervals(ctx context.Context, path string) ([]SpeechInterval, error) {
	segments, err := e.transcriber.Transcribe(ctx, path)
	if err != nil {
		return nil, err
	}
	return IntervalsFromSegments(segments), nil
}

// IntervalsFromSegments converts transcription segments into speech intervals.
func IntervalsFromSegments(segments []whisperx.Segment) []SpeechInterval {
	intervals := make([]SpeechInterval, 0, len(segments))
	for _, seg := range segments {
		intervals = append(intervals, SpeechInterval{Start: int(seg.Start), End: int(seg.End)})
	}
	return intervals
}

// MotionSeries computes per-frame difference scores and buckets them by
// whole seconds using the stream's frame rate.
func (e *Extractor) MotionSeries(ctx context.Context, path string) (MotionSeries, float64, error) {
	fps := float64(FallbackFPS)
	if e.prober != nil {
		probe, err := e.prober.Inspect(ctx, path)
		if err != nil {
			return nil, 0, err
		}
		if rate, ok := probe.FrameRate(); ok {
			fps = rate
		} else {
			logging.WarnWithContext(logging.WithContext(ctx, e.logger), "frame rate unavailable; assuming default", "probe_fallback",
				logging.String("path", path),
				logging.Int("fps", FallbackFPS),
				logging.String(logging.FieldImpact, "motion buckets may not align to whole seconds"),
			)
		}
	}

	out, err := e.runner.Run(ctx, "highlight", "motion",
		"-i", path,
		"-map", "0:v:0",
		"-an", "-sn",
		"-vf", motionGraph,
		"-f", "null", "-",
	)
	if err != nil {
		return nil, fps, err
	}
	scores, err := ParseFrameScores(out.Stdout)
	if err != nil {
		return nil, fps, services.Wrap(services.ErrExternalTool, "highlight", "motion", "parse frame scores", err)
	}
	return BucketByFrames(scores, int(fps)), fps, nil
}

// Extract runs both extraction passes against path.
func (e *Extractor) Extract(ctx context.Context, path string) (Signals, error) {
	speech, err := e.SpeechIntervals(ctx, path)
	if err != nil {
		return Signals{}, err
	}
	motion, fps, err := e.MotionSeries(ctx, path)
	if err != nil {
		return Signals{}, err
	}
	logging.WithContext(ctx, e.logger).Info("signals extracted",
		logging.Int("speech_intervals", len(speech)),
		logging.Int("motion_seconds", len(motion)),
		logging.Float64("fps", fps),
	)
	return Signals{Speech: speech, Motion: motion, FPS: fps}, nil
}

// ParseFrameScores reads YAVG values from ffmpeg metadata=print output.
func ParseFrameScores(data []byte) ([]float64, error) {
	var scores []float64
	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		idx := strings.Index(line, yavgKey)
		if idx < 0 {
			continue
		}
		value, err := strconv.ParseFloat(strings.TrimSpace(line[idx+len(yavgKey):]), 64)
		if err != nil {
			return nil, err
		}
		scores = append(scores, value)
	}
	return scores, scanner.Err()
}

// BucketByFrames averages consecutive runs of framesPerBucket scores. A
// trailing partial run becomes its own final bucket.
func BucketByFrames(scores []float64, framesPerBucket int) MotionSeries {
	if framesPerBucket < 1 {
		framesPerBucket = 1
	}
	series := make(MotionSeries, 0, len(scores)/framesPerBucket+1)
	for i := 0; i < len(scores); i += framesPerBucket {
		end := min(i+framesPerBucket, len(scores))
		var sum float64
		for _, v := range scores[i:end] {
			sum += v
		}
		series = append(series, sum/float64(end-i))
	}
	return series
}
