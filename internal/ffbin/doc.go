// Package ffbin locates the ffmpeg and ffprobe executables.
//
// Resolution walks a layered candidate list: a user-configured path, a
// vendored binary under a fixed bundle layout, and the system PATH. The
// prefer_bundled setting controls the order. Nothing is cached; every call
// re-checks the filesystem so configuration or binary changes between calls
// are picked up.
package ffbin
