// Package watch monitors a source directory and hands newly arrived videos to
// a handler once they have stopped growing.
package watch
