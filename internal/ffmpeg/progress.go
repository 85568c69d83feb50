package ffmpeg

import (
	"regexp"
	"strconv"
)

// timeMarker matches the elapsed-time field ffmpeg prints on its stats lines:
// time=HH:MM:SS or time=HH:MM:SS.fraction.
var timeMarker = regexp.MustCompile(`time=(\d+):(\d+):(\d+(?:\.\d+)?)`)

// parseElapsedSeconds extracts the elapsed seconds from a stderr line.
func parseElapsedSeconds(line string) (float64, bool) {
	m := timeMarker.FindStringSubmatch(line)
	if m == nil {
		return 0, false
	}
	hours, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	minutes, err := strconv.Atoi(m[2])
	if err != nil {
		return 0, false
	}
	seconds, err := strconv.ParseFloat(m[3], 64)
	if err != nil {
		return 0, false
	}
	return float64(hours)*3600 + float64(minutes)*60 + seconds, true
}

// progressState tracks de-duplicated percentage reporting for one run.
type progressState struct {
	total float64
	// last starts below 0 so the first computed value always reports.
	last int
}

func newProgressState(total float64) *progressState {
	return &progressState{total: total, last: -1}
}

// observe converts an elapsed-seconds sample into a percentage to report.
// The boolean is false when the sample is a duplicate of the last report or
// no usable total duration exists.
func (s *progressState) observe(elapsed float64) (int, bool) {
	if s.total <= 0 {
		return 0, false
	}
	// once 100 is reached the run is complete regardless of further output
	if s.last == 100 {
		return 0, false
	}
	percent := int(elapsed / s.total * 100)
	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}
	if percent == s.last {
		return 0, false
	}
	s.last = percent
	return percent, true
}
