// Package hwaccel finds a working hardware video encoder.
//
// Detection is empirical: each candidate runs a one second synthetic encode
// through ffmpeg and counts as available only when ffmpeg exits cleanly. A
// compiled-in encoder without a matching driver or device fails this probe,
// which is the point. Probe results are cached for the lifetime of a Prober.
package hwaccel
