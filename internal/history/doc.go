// Package history persists compression runs and their per-file outcomes in a
// SQLite database so past batches can be listed, inspected, and pruned.
//
// The store uses WAL journaling with a busy timeout, retries writes that hit
// SQLITE_BUSY, and refuses to open a database written by a different schema
// version.
package history
