package ffprobe

import (
	"context"
	"errors"
	"testing"

	"subtool/internal/logging"
)

const sampleProbeJSON = `{
  "streams": [
    {"index": 0, "codec_type": "video", "codec_name": "h264"},
    {"index": 1, "codec_type": "audio", "codec_name": "aac",
     "tags": {"language": "eng"}, "disposition": {"default": 1, "forced": 0}},
    {"index": 2, "codec_type": "subtitle", "codec_name": "subrip",
     "tags": {"LANGUAGE": "eng", "title": "Full"}, "disposition": {"default": 1, "forced": 0}},
    {"index": 3, "codec_type": "audio", "codec_name": "ac3"},
    {"index": 4, "codec_type": "subtitle", "codec_name": "hdmv_pgs_subtitle",
     "tags": {"title": "Forced"}, "disposition": {"forced": 1}},
    {"index": 5}
  ]
}`

func fakeProber(t *testing.T, output []byte, err error) *Prober {
	t.Helper()
	p := NewProber("ffprobe", logging.NewNop())
	p.WithCommandRunner(func(context.Context, string, ...string) ([]byte, error) {
		return output, err
	})
	return p
}

func TestProbeParsesStreams(t *testing.T) {
	p := fakeProber(t, []byte(sampleProbeJSON), nil)
	result, err := p.Probe(context.Background(), "movie.mkv")
	if err != nil {
		t.Fatalf("Probe: %v", err)
	}

	// the entry with no codec_type is skipped
	if len(result.Streams) != 5 {
		t.Fatalf("expected 5 streams, got %d", len(result.Streams))
	}

	seen := map[int]bool{}
	for _, s := range result.Streams {
		if seen[s.Index] {
			t.Fatalf("duplicate absolute index %d", s.Index)
		}
		seen[s.Index] = true
	}

	sub := result.Streams[2]
	if sub.CodecType != TypeSubtitle || sub.Language != "eng" || sub.Title != "Full" {
		t.Fatalf("uppercase tag keys not handled: %+v", sub)
	}
	if !sub.Default || sub.Forced {
		t.Fatalf("disposition flags wrong: %+v", sub)
	}
	forced := result.Streams[4]
	if !forced.Forced {
		t.Fatalf("forced disposition not parsed: %+v", forced)
	}
}

func TestProbeWrapsToolFailure(t *testing.T) {
	p := fakeProber(t, []byte("movie.mkv: Invalid data found"), errors.New("exit status 1"))
	_, err := p.Probe(context.Background(), "movie.mkv")
	if err == nil {
		t.Fatal("expected error")
	}
	var probeErr *ProbeError
	if !errors.As(err, &probeErr) {
		t.Fatalf("expected ProbeError, got %T", err)
	}
	if probeErr.Output == "" {
		t.Fatal("ProbeError should carry the tool output")
	}
}

func TestProbeRejectsMalformedJSON(t *testing.T) {
	p := fakeProber(t, []byte("not json"), nil)
	_, err := p.Probe(context.Background(), "movie.mkv")
	var probeErr *ProbeError
	if !errors.As(err, &probeErr) {
		t.Fatalf("expected ProbeError, got %v", err)
	}
}

func TestDurationSeconds(t *testing.T) {
	cases := []struct {
		name   string
		output string
		err    error
		want   float64
		ok     bool
	}{
		{"plain", "5425.33\n", nil, 5425.33, true},
		{"empty", "", nil, 0, false},
		{"non-numeric", "N/A\n", nil, 0, false},
		{"tool failure", "boom", errors.New("exit status 1"), 0, false},
		{"zero", "0\n", nil, 0, false},
	}
	for _, tc := range cases {
		p := fakeProber(t, []byte(tc.output), tc.err)
		got, ok := p.DurationSeconds(context.Background(), "movie.mkv")
		if ok != tc.ok || got != tc.want {
			t.Fatalf("%s: DurationSeconds = (%v, %v), want (%v, %v)", tc.name, got, ok, tc.want, tc.ok)
		}
	}
}

func TestRelativeIndexArithmetic(t *testing.T) {
	result := Result{Streams: []Stream{
		{Index: 0, CodecType: TypeVideo},
		{Index: 1, CodecType: TypeAudio},
		{Index: 2, CodecType: TypeSubtitle},
		{Index: 3, CodecType: TypeAudio},
		{Index: 4, CodecType: TypeSubtitle},
	}}

	expect := map[int]int{0: 0, 1: 0, 2: 0, 3: 1, 4: 1}
	for abs, want := range expect {
		rel, ok := result.RelativeIndex(abs)
		if !ok {
			t.Fatalf("abs %d not found", abs)
		}
		if rel != want {
			t.Fatalf("abs %d: relative = %d, want %d", abs, rel, want)
		}
	}
	if _, ok := result.RelativeIndex(99); ok {
		t.Fatal("expected missing index to report false")
	}

	if got := len(result.Subtitles()); got != 2 {
		t.Fatalf("expected 2 subtitles, got %d", got)
	}
	if s, ok := result.SubtitleByRelativeIndex(1); !ok || s.Index != 4 {
		t.Fatalf("SubtitleByRelativeIndex(1) = (%+v, %v)", s, ok)
	}
	if _, ok := result.SubtitleByRelativeIndex(2); ok {
		t.Fatal("relative index 2 should not exist")
	}
	if result.CountType(TypeAudio) != 2 {
		t.Fatal("audio count wrong")
	}
}
