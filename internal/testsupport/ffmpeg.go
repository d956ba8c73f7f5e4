package testsupport

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// FakeFailMarker makes the fake ffmpeg fail for any input whose path contains it.
const FakeFailMarker = "__corrupt__"

// WriteFakeFFmpeg writes a shell script into dir that imitates ffmpeg:
//   - "-hide_banner -encoders" lists the working encoders plus libx264.
//   - lavfi probes succeed only for the named working encoders.
//   - inputs containing FakeFailMarker fail with an ffmpeg-style stderr line.
//   - "-n" with an existing output fails like ffmpeg does.
//   - otherwise the output path (last argument) receives a few bytes.
//
// Every invocation is appended to dir/calls.log.
func WriteFakeFFmpeg(t testing.TB, dir string, workingEncoders ...string) string {
	t.Helper()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", dir, err)
	}
	logPath := filepath.Join(dir, "calls.log")

	var listing, probes strings.Builder
	listing.WriteString("  echo ' V....D libx264              libx264 H.264'\n")
	for _, name := range workingEncoders {
		listing.WriteString("  echo ' V....D " + name + "              hardware'\n")
		probes.WriteString("    *\"-c:v " + name + " \"*) exit 0 ;;\n")
	}

	script := `#!/bin/sh
echo "$*" >> '` + logPath + `'
if [ "$1" = "-hide_banner" ]; then
  echo 'Encoders:'
` + listing.String() + `  exit 0
fi
for last; do :; done
if [ "$last" = "-" ]; then
  case "$*" in
` + probes.String() + `  esac
  echo 'Cannot load encoder' >&2
  exit 1
fi
case "$*" in
  *` + FakeFailMarker + `*) echo "$last: Invalid data found when processing input" >&2; exit 1 ;;
esac
if [ "$1" = "-n" ] && [ -e "$last" ]; then
  echo "File '$last' already exists. Exiting." >&2
  exit 1
fi
printf 'encoded' > "$last"
exit 0
`
	path := filepath.Join(dir, "ffmpeg")
	if err := os.WriteFile(path, []byte(script), 0o755); err != nil {
		t.Fatalf("write fake ffmpeg: %v", err)
	}
	return path
}

// FakeFFmpegCalls returns the argument lines recorded by a fake ffmpeg.
func FakeFFmpegCalls(t testing.TB, binary string) []string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(filepath.Dir(binary), "calls.log"))
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		t.Fatalf("read calls log: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) == 1 && lines[0] == "" {
		return nil
	}
	return lines
}
