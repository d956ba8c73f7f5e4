// Package preflight runs cheap checks before a batch starts: the ffmpeg binary
// resolves, the source directory is readable, the destination is writable, and
// the destination filesystem has room for the outputs.
//
// Checks return Result values rather than errors so callers can render every
// outcome at once and decide which failures are fatal.
package preflight
