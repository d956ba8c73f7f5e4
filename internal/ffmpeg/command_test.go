package ffmpeg_test

import (
	"slices"
	"strings"
	"testing"

	"mvc/internal/ffmpeg"
	"mvc/internal/preset"
)

func lookup(t *testing.T, key string) preset.Preset {
	t.Helper()
	p, ok := preset.Builtin().Lookup(key)
	if !ok {
		t.Fatalf("preset %s not found", key)
	}
	return p
}

func TestBuild(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		encoder string
		want    string
	}{
		{
			name: "lecture cpu",
			key:  "1",
			want: "ffmpeg -y -v error -i in.mp4 -threads 4 -c:v libx264 -preset slow -tune animation -crf 26 -g 300 -pix_fmt yuv420p -c:a aac -b:a 64k -ac 1 out.mp4",
		},
		{
			name:    "hq nvenc",
			key:     "2",
			encoder: "h264_nvenc",
			want:    "ffmpeg -y -v error -i in.mp4 -c:v h264_nvenc -rc constqp -qp 20 -preset p7 -c:a aac -b:a 128k -ac 2 out.mp4",
		},
		{
			name:    "social gpu keeps scale filter",
			key:     "3",
			encoder: "h264_amf",
			want:    "ffmpeg -y -v error -i in.mp4 -c:v h264_amf -usage transcoding -rc vbr_peak -b:v 1M -maxrate 1.5M -vf scale=-2:720 -c:a aac -b:a 128k -ac 2 out.mp4",
		},
		{
			name: "social cpu keeps codec args",
			key:  "3",
			want: "ffmpeg -y -v error -i in.mp4 -threads 4 -c:v libx264 -preset fast -crf 28 -vf scale=-2:720 -c:a aac -b:a 128k -ac 2 out.mp4",
		},
		{
			name:    "proxy encoder without flags",
			key:     "4",
			encoder: "h264_qsv",
			want:    "ffmpeg -y -v error -i in.mp4 -c:v h264_qsv -vf scale=-2:720 -c:a pcm_s16le out.mp4",
		},
		{
			name:    "lecture ignores gpu encoder",
			key:     "1",
			encoder: "h264_nvenc",
			want:    "ffmpeg -y -v error -i in.mp4 -threads 4 -c:v libx264 -preset slow -tune animation -crf 26 -g 300 -pix_fmt yuv420p -c:a aac -b:a 64k -ac 1 out.mp4",
		},
		{
			name:    "archive hevc qsv",
			key:     "5",
			encoder: "hevc_qsv",
			want:    "ffmpeg -y -v error -i in.mp4 -c:v hevc_qsv -preset veryslow -global_quality 16 -c:a aac -b:a 320k -ac 2 out.mp4",
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := strings.Join(ffmpeg.Build("ffmpeg", "in.mp4", "out.mp4", lookup(t, tc.key), tc.encoder), " ")
			if got != tc.want {
				t.Fatalf("unexpected command:\n got %q\nwant %q", got, tc.want)
			}
		})
	}
}

func TestBuildNoOverwrite(t *testing.T) {
	argv := ffmpeg.Build("/opt/ffmpeg", "a b.mp4", "out/a b.mp4", lookup(t, "2"), "", ffmpeg.WithOverwrite(false))
	if argv[0] != "/opt/ffmpeg" || argv[1] != "-n" {
		t.Fatalf("unexpected prefix: %v", argv[:2])
	}
	if slices.Contains(argv, "-y") {
		t.Fatalf("-y must not appear when overwrite is disabled: %v", argv)
	}
	if argv[5] != "a b.mp4" || argv[len(argv)-1] != "out/a b.mp4" {
		t.Fatalf("paths with spaces must stay single arguments: %v", argv)
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		stderr string
		want   ffmpeg.Kind
	}{
		{"[h264_nvenc @ 0x1] Cannot load libnvidia-encode.so.1", ffmpeg.KindEncoderUnavailable},
		{"in.mp4: Invalid data found when processing input", ffmpeg.KindInvalidInput},
		{"av_interleaved_write_frame(): No space left on device", ffmpeg.KindDiskFull},
		{"out.mp4: Permission denied", ffmpeg.KindPermissionDenied},
		{"File 'out.mp4' already exists. Exiting.", ffmpeg.KindOutputExists},
		{"something odd", ffmpeg.KindUnknown},
		{"", ffmpeg.KindUnknown},
	}
	for _, tc := range tests {
		if got := ffmpeg.Classify(tc.stderr); got != tc.want {
			t.Fatalf("Classify(%q) = %q want %q", tc.stderr, got, tc.want)
		}
	}
}
