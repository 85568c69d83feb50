package ffmpeg

import "testing"

func TestParseElapsedSeconds(t *testing.T) {
	cases := []struct {
		line string
		want float64
		ok   bool
	}{
		{"frame= 100 fps=25 time=00:00:04.00 bitrate=...", 4, true},
		{"size=  12kB time=01:02:03.5 speed=30x", 3723.5, true},
		{"time=00:10:00", 600, true},
		{"frame= 100 fps=25 bitrate=...", 0, false},
		{"", 0, false},
	}
	for _, tc := range cases {
		got, ok := parseElapsedSeconds(tc.line)
		if ok != tc.ok || got != tc.want {
			t.Fatalf("parseElapsedSeconds(%q) = (%v, %v), want (%v, %v)", tc.line, got, ok, tc.want, tc.ok)
		}
	}
}

func TestProgressStateDeduplicates(t *testing.T) {
	state := newProgressState(100)
	var reported []int
	for _, elapsed := range []float64{10, 10.4, 10.9, 11, 55, 55} {
		if percent, changed := state.observe(elapsed); changed {
			reported = append(reported, percent)
		}
	}
	want := []int{10, 11, 55}
	if len(reported) != len(want) {
		t.Fatalf("reported = %v, want %v", reported, want)
	}
	for i := range want {
		if reported[i] != want[i] {
			t.Fatalf("reported = %v, want %v", reported, want)
		}
	}
}

func TestProgressStateClampsAndCompletes(t *testing.T) {
	state := newProgressState(10)
	if percent, changed := state.observe(25); !changed || percent != 100 {
		t.Fatalf("overshoot = (%d, %v)", percent, changed)
	}
	// after 100 nothing else reports, even a backward jump
	if _, changed := state.observe(5); changed {
		t.Fatal("observed a sample after completion")
	}
}

func TestProgressStateNoTotal(t *testing.T) {
	state := newProgressState(0)
	if _, changed := state.observe(5); changed {
		t.Fatal("reported a percentage without a total duration")
	}
}
