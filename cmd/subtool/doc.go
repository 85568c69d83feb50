// Command subtool inspects, exports, strips, and assembles subtitle streams
// in video containers using ffmpeg and ffprobe.
package main
