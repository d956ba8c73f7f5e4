package preset

func args(values ...string) []string { return values }

var scale720 = args("-vf", "scale=-2:720")

var stereo128 = args("-c:a", "aac", "-b:a", "128k", "-ac", "2")

// builtins mirrors the five classic profiles plus the AV1 drapto archive.
var builtins = []Preset{
	{
		Key:         "1",
		Slug:        "lecture",
		Name:        "Lecture Mode (Slides + Voice)",
		Description: "High CPU compression, readable text, clear mono voice.",
		Codec:       CodecH264,
		Engine:      EngineFFmpeg,
		CPUArgs: args("-threads", "4", "-c:v", "libx264", "-preset", "slow", "-tune", "animation",
			"-crf", "26", "-g", "300", "-pix_fmt", "yuv420p"),
		AudioArgs: args("-c:a", "aac", "-b:a", "64k", "-ac", "1"),
	},
	{
		Key:         "2",
		Slug:        "hq",
		Name:        "High Quality / Music",
		Description: "GPU accelerated, near lossless video, low-mid audio.",
		Codec:       CodecH264,
		Engine:      EngineFFmpeg,
		UseGPU:      true,
		GPUFlags: map[string][]string{
			"h264_nvenc":        args("-rc", "constqp", "-qp", "20", "-preset", "p7"),
			"h264_amf":          args("-usage", "transcoding", "-quality", "quality", "-rc", "cqp", "-qp_i", "20", "-qp_p", "20", "-qp_b", "20"),
			"h264_qsv":          args("-preset", "veryslow", "-global_quality", "20"),
			"h264_videotoolbox": args("-q", "80"),
		},
		CPUArgs:   args("-threads", "4", "-c:v", "libx264", "-preset", "medium", "-crf", "18"),
		AudioArgs: stereo128,
	},
	{
		Key:         "3",
		Slug:        "social",
		Name:        "Social Media (720p limit)",
		Description: "Downscales to 720p with bitrate caps. Fits most chat app limits.",
		Codec:       CodecH264,
		Engine:      EngineFFmpeg,
		UseGPU:      true,
		GPUFlags: map[string][]string{
			"h264_nvenc": args("-rc", "vbr", "-b:v", "1M", "-maxrate", "1.5M", "-bufsize", "2M"),
			"h264_amf":   args("-usage", "transcoding", "-rc", "vbr_peak", "-b:v", "1M", "-maxrate", "1.5M"),
		},
		CPUArgs:    args("-threads", "4", "-c:v", "libx264", "-preset", "fast", "-crf", "28"),
		FilterArgs: scale720,
		AudioArgs:  stereo128,
	},
	{
		Key:         "4",
		Slug:        "proxy",
		Name:        "Editing Proxy (Ultrafast)",
		Description: "Low quality, high speed. Optimized for smooth timeline scrubbing.",
		Codec:       CodecH264,
		Engine:      EngineFFmpeg,
		UseGPU:      true,
		GPUFlags: map[string][]string{
			"h264_nvenc": args("-preset", "p1", "-g", "15"),
		},
		CPUArgs:    args("-threads", "4", "-c:v", "libx264", "-preset", "ultrafast", "-tune", "fastdecode", "-g", "15"),
		FilterArgs: scale720,
		AudioArgs:  args("-c:a", "pcm_s16le"),
	},
	{
		Key:         "5",
		Slug:        "archive",
		Name:        "Archive Master (No Compromises)",
		Description: "H.265/HEVC at max quality. Visually lossless preservation.",
		Codec:       CodecHEVC,
		Engine:      EngineFFmpeg,
		UseGPU:      true,
		GPUFlags: map[string][]string{
			"hevc_nvenc":        args("-rc", "constqp", "-qp", "16", "-preset", "p7", "-tier", "high"),
			"hevc_amf":          args("-usage", "transcoding", "-quality", "quality", "-rc", "cqp", "-qp_i", "16", "-qp_p", "16", "-tier", "high"),
			"hevc_qsv":          args("-preset", "veryslow", "-global_quality", "16"),
			"hevc_videotoolbox": args("-q", "90"),
		},
		CPUArgs:   args("-threads", "4", "-c:v", "libx265", "-preset", "veryslow", "-crf", "16"),
		AudioArgs: args("-c:a", "aac", "-b:a", "320k", "-ac", "2"),
	},
	{
		Key:         "6",
		Slug:        "av1",
		Name:        "AV1 Archive (Drapto)",
		Description: "SVT-AV1 via drapto with automatic crop detection. Writes .mkv.",
		Codec:       CodecAV1,
		Engine:      EngineDrapto,
	},
}
