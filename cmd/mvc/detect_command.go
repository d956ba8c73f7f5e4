package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"mvc/internal/deps"
	"mvc/internal/hwaccel"
	"mvc/internal/logging"
	"mvc/internal/preset"
)

func newDetectCommand(ctx *commandContext) *cobra.Command {
	var codecFlag string

	cmd := &cobra.Command{
		Use:   "detect",
		Short: "Probe which hardware encoders work on this machine",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}
			defer ctx.closeLogger()

			codecs, err := parseCodecs(codecFlag)
			if err != nil {
				return err
			}
			binary, err := deps.ResolveFFmpeg(cfg.FFmpeg.Binary)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "FFmpeg: %s\n", binary)
			prober := hwaccel.NewProber(binary,
				hwaccel.WithTimeout(time.Duration(cfg.FFmpeg.ProbeTimeoutSeconds)*time.Second),
				hwaccel.WithTestPattern(cfg.FFmpeg.ProbeSize, cfg.FFmpeg.ProbeRate),
				hwaccel.WithLogger(logging.NewComponentLogger(logger, "detect")),
			)
			results, surveyErr := prober.Survey(cmd.Context(), codecs)
			if surveyErr != nil && len(results) == 0 {
				return surveyErr
			}

			colors := newPalette(shouldColorize(out))
			g := newGrid(textCol("Codec"), textCol("Encoder"), textCol("Vendor"), textCol("Compiled"), textCol("Working"))
			for _, r := range results {
				working := colors.muted.Sprint("no")
				if r.Working {
					working = colors.ok.Sprint("yes")
				}
				g.row(string(r.Codec), r.Encoder, r.Vendor, yesNo(r.Compiled), working)
			}
			fmt.Fprintln(out, g)
			if surveyErr != nil {
				fmt.Fprintln(out, colors.warn.Sprintf("⚠ %v", surveyErr))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&codecFlag, "codec", "all", "Codec family to probe: h264, hevc, av1 or all")
	return cmd
}

func parseCodecs(value string) ([]preset.Codec, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "all":
		return []preset.Codec{preset.CodecH264, preset.CodecHEVC, preset.CodecAV1}, nil
	case string(preset.CodecH264):
		return []preset.Codec{preset.CodecH264}, nil
	case string(preset.CodecHEVC):
		return []preset.Codec{preset.CodecHEVC}, nil
	case string(preset.CodecAV1):
		return []preset.Codec{preset.CodecAV1}, nil
	default:
		return nil, fmt.Errorf("unknown codec %q (expected h264, hevc, av1 or all)", value)
	}
}
