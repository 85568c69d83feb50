// Package ffprobe invokes ffprobe and parses its JSON stream listing into a
// typed inventory.
//
// Key types:
//   - Result: one probe of one file, an ordered immutable stream list
//   - Stream: a single stream with codec type, tags, and disposition flags
//
// The per-type relative index arithmetic used by ffmpeg -map selectors lives
// here (Result.RelativeIndex) so every consumer computes it identically.
package ffprobe
