// Package plan computes ffmpeg command plans from probed stream inventories.
//
// A Plan is a pure value: ordered inputs, -map selectors, disposition and
// metadata overrides, codec mode, and the output path. Planning never touches
// the filesystem or runs a process; execution belongs to the ffmpeg package.
//
// Three operation shapes are supported: exporting one subtitle stream to a
// standalone file, stripping subtitles down to a kept classification set, and
// building a new MKV from separate video/audio/subtitle inputs.
package plan
