// Package ffmpeg executes planned muxing commands and reports progress.
//
// ffmpeg has no machine-readable progress channel worth trusting across
// versions, so the runner scans the diagnostic stderr stream line by line for
// time=HH:MM:SS markers and converts them into 0-100 percentages against the
// container duration probed up front. Progress consumers receive events only
// when the percentage changes, and always a terminal 100 after the process
// exits - including on failure, so 100 means "no more updates", never
// "success".
package ffmpeg
