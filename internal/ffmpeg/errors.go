package ffmpeg

import (
	"fmt"
	"regexp"
	"strings"
)

// UnknownError is reported when ffmpeg fails without writing to stderr.
const UnknownError = "Unknown Error"

// Kind classifies an ffmpeg failure.
type Kind string

const (
	KindUnknown            Kind = "unknown"
	KindEncoderUnavailable Kind = "encoder_unavailable"
	KindInvalidInput       Kind = "invalid_input"
	KindDiskFull           Kind = "disk_full"
	KindPermissionDenied   Kind = "permission_denied"
	KindOutputExists       Kind = "output_exists"
)

var (
	reEncoderUnavailable = regexp.MustCompile(
		`(?i)Unknown encoder|Cannot load|No capable devices found|` +
			`Error while opening encoder|Could not open encoder|` +
			`No NVENC capable devices found|OpenEncodeSessionEx failed|` +
			`Device creation failed|Failed to initialise VAAPI|DLL .* failed to open|` +
			`Could not find tag for codec`)

	reInvalidInput = regexp.MustCompile(
		`(?i)Invalid data found when processing input|moov atom not found|` +
			`No such file or directory|Error opening input|could not find codec parameters|` +
			`End of file`)

	reDiskFull = regexp.MustCompile(`(?i)No space left on device|Disk quota exceeded`)

	rePermissionDenied = regexp.MustCompile(`(?i)Permission denied|Operation not permitted`)

	reOutputExists = regexp.MustCompile(`(?i)already exists\. Exiting|Not overwriting - exiting`)
)

// Classify tags ffmpeg stderr with the most specific known failure kind.
func Classify(stderr string) Kind {
	switch {
	case reOutputExists.MatchString(stderr):
		return KindOutputExists
	case reDiskFull.MatchString(stderr):
		return KindDiskFull
	case rePermissionDenied.MatchString(stderr):
		return KindPermissionDenied
	case reEncoderUnavailable.MatchString(stderr):
		return KindEncoderUnavailable
	case reInvalidInput.MatchString(stderr):
		return KindInvalidInput
	default:
		return KindUnknown
	}
}

// ExitError reports a failed ffmpeg invocation.
type ExitError struct {
	Argv     []string
	ExitCode int
	Stderr   string
	Kind     Kind
	Err      error
}

// Error returns the trimmed ffmpeg stderr, which is the message users need.
func (e *ExitError) Error() string {
	if msg := strings.TrimSpace(e.Stderr); msg != "" {
		return msg
	}
	if e.Err != nil && e.ExitCode < 0 {
		return fmt.Sprintf("%s (%v)", UnknownError, e.Err)
	}
	return UnknownError
}

func (e *ExitError) Unwrap() error { return e.Err }
