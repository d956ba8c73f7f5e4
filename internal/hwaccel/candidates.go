package hwaccel

import "mvc/internal/preset"

// Vendor identifies a hardware encoder family.
type Vendor struct {
	Suffix string
	Label  string
}

// Vendors lists hardware families in detection priority order.
var Vendors = []Vendor{
	{Suffix: "nvenc", Label: "NVIDIA NVENC"},
	{Suffix: "amf", Label: "AMD AMF"},
	{Suffix: "qsv", Label: "Intel QuickSync"},
	{Suffix: "videotoolbox", Label: "Apple VideoToolbox"},
}

// Candidates returns the hardware encoder names for a codec family in
// priority order.
func Candidates(codec preset.Codec) []string {
	out := make([]string, 0, len(Vendors))
	for _, v := range Vendors {
		if codec == preset.CodecAV1 && v.Suffix == "videotoolbox" {
			continue
		}
		out = append(out, string(codec)+"_"+v.Suffix)
	}
	return out
}

// VendorOf returns the vendor label for an encoder name, or "" when unknown.
func VendorOf(encoder string) string {
	for _, v := range Vendors {
		if len(encoder) > len(v.Suffix) && encoder[len(encoder)-len(v.Suffix):] == v.Suffix {
			return v.Label
		}
	}
	return ""
}
