// Package preset holds the compression preset catalog.
//
// A preset pairs a codec family with the ffmpeg arguments for each supported
// hardware encoder, a CPU fallback, optional filter arguments, and audio
// arguments. Built-in presets can be replaced or extended by [[presets]]
// tables in the configuration file.
package preset
