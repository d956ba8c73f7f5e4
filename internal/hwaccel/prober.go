package hwaccel

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os/exec"
	"regexp"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"

	"mvc/internal/logging"
	"mvc/internal/preset"
)

var commandContext = exec.CommandContext

const (
	defaultTimeout = 15 * time.Second
	defaultSize    = "1280x720"
	defaultRate    = 30
)

var encoderLine = regexp.MustCompile(`^\s*([VAS][A-Z.]{5})\s+(\S+)\s+(.*)$`)

// Option configures a Prober.
type Option func(*Prober)

// WithTimeout bounds each probe encode.
func WithTimeout(d time.Duration) Option {
	return func(p *Prober) {
		if d > 0 {
			p.timeout = d
		}
	}
}

// WithTestPattern sets the lavfi frame size ("WxH") and rate used by probes.
func WithTestPattern(size string, rate int) Option {
	return func(p *Prober) {
		if strings.TrimSpace(size) != "" {
			p.size = strings.TrimSpace(size)
		}
		if rate > 0 {
			p.rate = rate
		}
	}
}

// WithLogger sets the logger used for probe diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Prober) {
		p.logger = logging.NewComponentLogger(logger, "hwaccel")
	}
}

// Prober runs encoder probes against one ffmpeg binary.
type Prober struct {
	binary  string
	timeout time.Duration
	size    string
	rate    int
	logger  *slog.Logger

	mu       sync.Mutex
	results  map[string]bool
	compiled map[string]bool
}

// NewProber constructs a Prober for the given ffmpeg binary.
func NewProber(binary string, opts ...Option) *Prober {
	p := &Prober{
		binary:  binary,
		timeout: defaultTimeout,
		size:    defaultSize,
		rate:    defaultRate,
		logger:  logging.NewComponentLogger(nil, "hwaccel"),
		results: make(map[string]bool),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// ProbeArgs returns the argument list (without the binary) used to test an encoder.
func (p *Prober) ProbeArgs(encoder string) []string {
	return []string{
		"-y", "-v", "error",
		"-f", "lavfi", "-i", fmt.Sprintf("color=c=black:s=%s:r=%s", p.size, strconv.Itoa(p.rate)),
		"-c:v", encoder,
		"-t", "1",
		"-f", "null", "-",
	}
}

// CheckEncoder reports whether a one second test encode with the encoder
// succeeds. Missing binaries, timeouts, and non-zero exits all count as
// unavailable.
func (p *Prober) CheckEncoder(ctx context.Context, encoder string) bool {
	p.mu.Lock()
	if ok, cached := p.results[encoder]; cached {
		p.mu.Unlock()
		return ok
	}
	p.mu.Unlock()

	ok := p.probe(ctx, encoder)
	if ctx.Err() != nil {
		return ok
	}

	p.mu.Lock()
	p.results[encoder] = ok
	p.mu.Unlock()
	return ok
}

func (p *Prober) probe(ctx context.Context, encoder string) bool {
	probeCtx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	var stderr bytes.Buffer
	cmd := commandContext(probeCtx, p.binary, p.ProbeArgs(encoder)...) //nolint:gosec
	cmd.Stdout = nil
	cmd.Stderr = &stderr
	start := time.Now()
	err := cmd.Run()
	if err != nil {
		p.logger.Debug("encoder probe failed",
			logging.String(logging.FieldEncoder, encoder),
			logging.Duration("elapsed", time.Since(start)),
			logging.String("stderr", strings.TrimSpace(stderr.String())),
			logging.Error(err),
		)
		return false
	}
	p.logger.Debug("encoder probe succeeded",
		logging.String(logging.FieldEncoder, encoder),
		logging.Duration("elapsed", time.Since(start)),
	)
	return true
}

// Detect returns the first working hardware encoder for the codec family in
// vendor priority order, restricted to the names in supported. An empty
// supported list places no restriction. The empty string means no hardware
// encoder works and callers should use the CPU path.
func (p *Prober) Detect(ctx context.Context, codec preset.Codec, supported []string) string {
	for _, candidate := range Candidates(codec) {
		if len(supported) > 0 && !slices.Contains(supported, candidate) {
			continue
		}
		if ctx.Err() != nil {
			return ""
		}
		if p.CheckEncoder(ctx, candidate) {
			p.logger.Info("hardware encoder selected",
				logging.String(logging.FieldEncoder, candidate),
				logging.String("codec", string(codec)),
			)
			return candidate
		}
	}
	p.logger.Info("no hardware encoder available", logging.String("codec", string(codec)))
	return ""
}

// SurveyResult describes one probed encoder.
type SurveyResult struct {
	Codec    preset.Codec
	Encoder  string
	Vendor   string
	Compiled bool
	Working  bool
}

// Survey probes every hardware candidate for the given codec families.
// Compiled reflects whether ffmpeg lists the encoder. Unlisted encoders are
// only probed when the listing itself failed.
func (p *Prober) Survey(ctx context.Context, codecs []preset.Codec) ([]SurveyResult, error) {
	compiled, listErr := p.CompiledEncoders(ctx)
	results := make([]SurveyResult, 0, len(codecs)*len(Vendors))
	for _, codec := range codecs {
		for _, candidate := range Candidates(codec) {
			if err := ctx.Err(); err != nil {
				return results, err
			}
			result := SurveyResult{
				Codec:   codec,
				Encoder: candidate,
				Vendor:  VendorOf(candidate),
			}
			if listErr == nil {
				result.Compiled = compiled[candidate]
			}
			if listErr != nil || result.Compiled {
				result.Working = p.CheckEncoder(ctx, candidate)
			}
			results = append(results, result)
		}
	}
	if listErr != nil {
		return results, fmt.Errorf("list encoders: %w", listErr)
	}
	return results, nil
}

// CompiledEncoders returns the set of video encoders reported by
// "ffmpeg -hide_banner -encoders".
func (p *Prober) CompiledEncoders(ctx context.Context) (map[string]bool, error) {
	p.mu.Lock()
	if p.compiled != nil {
		defer p.mu.Unlock()
		return p.compiled, nil
	}
	p.mu.Unlock()

	listCtx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()
	out, err := commandContext(listCtx, p.binary, "-hide_banner", "-encoders").Output() //nolint:gosec
	if err != nil {
		return nil, err
	}
	parsed := ParseEncoderList(string(out))

	p.mu.Lock()
	p.compiled = parsed
	p.mu.Unlock()
	return parsed, nil
}

// ParseEncoderList extracts video encoder names from ffmpeg -encoders output.
func ParseEncoderList(output string) map[string]bool {
	encoders := make(map[string]bool)
	for _, line := range strings.Split(output, "\n") {
		match := encoderLine.FindStringSubmatch(line)
		if match == nil {
			continue
		}
		flags, name := match[1], match[2]
		if flags[0] != 'V' || name == "=" {
			continue
		}
		encoders[name] = true
	}
	return encoders
}
