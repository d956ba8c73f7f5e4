// Package main hosts the mvc CLI entrypoint and command graph.
//
// The Cobra-based command tree resolves configuration, presets and the ffmpeg
// binary, then hands batches to internal/batch. Run "mvc compress" with no
// flags for the interactive menu, or pass --preset, --source and --dest for
// unattended use.
package main
