// Package drapto runs AV1 encodes through the Drapto Go library.
//
// Engine satisfies the batch FileEncoder contract: it encodes one input into
// an explicit output path, translating Drapto's Reporter callbacks into
// structured log lines and optional percent-complete updates. Tests swap the
// encode function to avoid running the real encoder.
package drapto
