// Package ffmpeg assembles ffmpeg command lines for compression presets and
// executes them, capturing stderr so failures can be reported per file.
package ffmpeg
