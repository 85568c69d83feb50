package ffprobe

// RelativeIndex returns the 0-based ordinal of the stream with the given
// absolute index among streams of its own codec type. This is the numbering
// ffmpeg -map selectors such as 0:s:N use. The boolean is false when the
// absolute index is not present.
func (r Result) RelativeIndex(absIndex int) (int, bool) {
	for _, s := range r.Streams {
		if s.Index != absIndex {
			continue
		}
		rel := 0
		for _, prev := range r.Streams {
			if prev.Index == absIndex {
				break
			}
			if prev.CodecType == s.CodecType {
				rel++
			}
		}
		return rel, true
	}
	return 0, false
}

// Subtitles returns the subtitle streams in probe order.
func (r Result) Subtitles() []Stream {
	var subs []Stream
	for _, s := range r.Streams {
		if s.CodecType == TypeSubtitle {
			subs = append(subs, s)
		}
	}
	return subs
}

// SubtitleByRelativeIndex returns the subtitle stream at the given per-type
// relative index.
func (r Result) SubtitleByRelativeIndex(rel int) (Stream, bool) {
	ordinal := -1
	for _, s := range r.Streams {
		if s.CodecType != TypeSubtitle {
			continue
		}
		ordinal++
		if ordinal == rel {
			return s, true
		}
	}
	return Stream{}, false
}

// CountType returns the number of streams of the given codec type.
func (r Result) CountType(codecType string) int {
	count := 0
	for _, s := range r.Streams {
		if s.CodecType == codecType {
			count++
		}
	}
	return count
}
