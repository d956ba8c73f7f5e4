// Package services defines shared helpers consumed by the batch runner and the
// encoding engines.
//
// Key responsibilities:
//   - Context helpers that stamp run IDs, preset keys, and task inputs so log
//     lines emitted deep inside an engine can be correlated with their batch.
//   - Structured error markers plus the Wrap helper that tags failures with
//     the stage and operation that produced them.
//
// Engine adapters live in subpackages (see services/drapto).
package services
