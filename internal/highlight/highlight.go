// Package highlight picks where in a source video the short should begin.
package highlight

import "shortsmith/internal/signals"

// LeadInSeconds is subtracted from the best second so the clip opens on
// the build-up rather than the peak.
const LeadInSeconds = 4

// SelectStart returns the trim offset for a source.
//
// Only seconds covered by a speech interval are eligible. The eligible
// second with the highest motion score wins, earliest first on ties, and
// the result is that second minus LeadInSeconds, floored at zero. No
// eligible second yields 0.
func SelectStart(speech []signals.SpeechInterval, motion signals.MotionSeries) int {
	best, ok := BestSecond(speech, motion)
	if !ok {
		return 0
	}
	return max(best-LeadInSeconds, 0)
}

// BestSecond returns the highest-scoring speech-covered second.
func BestSecond(speech []signals.SpeechInterval, motion signals.MotionSeries) (int, bool) {
	bestSecond := 0
	var bestScore float64
	found := false
	for second, score := range motion {
		if !covered(speech, second) {
			continue
		}
		if !found || score > bestScore {
			bestSecond = second
			bestScore = score
			found = true
		}
	}
	return bestSecond, found
}

func covered(speech []signals.SpeechInterval, second int) bool {
	for _, interval := range speech {
		if interval.Contains(second) {
			return true
		}
	}
	return false
}
