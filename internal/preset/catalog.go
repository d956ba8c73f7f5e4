package preset

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"golang.org/x/text/cases"

	"mvc/internal/config"
)

// Catalog is an ordered, immutable set of presets.
type Catalog struct {
	presets []Preset
}

// Builtin returns the catalog of presets that ship with mvc.
func Builtin() *Catalog {
	out := make([]Preset, 0, len(builtins))
	for _, p := range builtins {
		out = append(out, clonePreset(p))
	}
	return &Catalog{presets: out}
}

// WithOverrides returns a new catalog where custom presets replace built-ins
// sharing the same key and new keys are appended.
func (c *Catalog) WithOverrides(custom []Preset) *Catalog {
	merged := make([]Preset, 0, len(c.presets)+len(custom))
	merged = append(merged, c.presets...)
	for _, p := range custom {
		idx := slices.IndexFunc(merged, func(existing Preset) bool { return existing.Key == p.Key })
		if idx >= 0 {
			merged[idx] = clonePreset(p)
			continue
		}
		merged = append(merged, clonePreset(p))
	}
	return &Catalog{presets: merged}
}

// Load builds the catalog for a configuration: built-ins plus [[presets]].
func Load(cfg *config.Config) (*Catalog, error) {
	catalog := Builtin()
	if cfg == nil || len(cfg.Presets) == 0 {
		return catalog, nil
	}
	custom := FromConfig(cfg.Presets)
	for _, p := range custom {
		if err := p.Validate(); err != nil {
			return nil, fmt.Errorf("custom preset: %w", err)
		}
	}
	return catalog.WithOverrides(custom), nil
}

// FromConfig converts TOML preset tables into presets.
func FromConfig(entries []config.Preset) []Preset {
	out := make([]Preset, 0, len(entries))
	for _, entry := range entries {
		p := Preset{
			Key:         entry.Key,
			Slug:        entry.Slug,
			Name:        entry.Name,
			Description: entry.Description,
			Codec:       Codec(entry.Codec),
			Engine:      Engine(entry.Engine),
			UseGPU:      entry.UseGPU,
			CPUArgs:     slices.Clone(entry.CPUArgs),
			FilterArgs:  slices.Clone(entry.FilterArgs),
			AudioArgs:   slices.Clone(entry.AudioArgs),
		}
		if len(entry.GPUFlags) > 0 {
			p.GPUFlags = make(map[string][]string, len(entry.GPUFlags))
			for name, flags := range entry.GPUFlags {
				p.GPUFlags[strings.ToLower(strings.TrimSpace(name))] = slices.Clone(flags)
			}
		}
		out = append(out, p)
	}
	return out
}

// Lookup finds a preset by key or slug. Matching ignores case.
func (c *Catalog) Lookup(keyOrSlug string) (Preset, bool) {
	folder := cases.Fold()
	needle := folder.String(strings.TrimSpace(keyOrSlug))
	if needle == "" {
		return Preset{}, false
	}
	for _, p := range c.presets {
		if folder.String(p.Key) == needle || (p.Slug != "" && folder.String(p.Slug) == needle) {
			return clonePreset(p), true
		}
	}
	return Preset{}, false
}

// Sorted returns the presets ordered by key, numeric keys first in numeric
// order, then the rest alphabetically.
func (c *Catalog) Sorted() []Preset {
	out := make([]Preset, 0, len(c.presets))
	for _, p := range c.presets {
		out = append(out, clonePreset(p))
	}
	slices.SortStableFunc(out, func(a, b Preset) int { return compareKeys(a.Key, b.Key) })
	return out
}

// Keys returns the sorted preset keys.
func (c *Catalog) Keys() []string {
	sorted := c.Sorted()
	keys := make([]string, 0, len(sorted))
	for _, p := range sorted {
		keys = append(keys, p.Key)
	}
	return keys
}

// Len reports the number of presets.
func (c *Catalog) Len() int { return len(c.presets) }

func compareKeys(a, b string) int {
	ai, aErr := strconv.Atoi(a)
	bi, bErr := strconv.Atoi(b)
	switch {
	case aErr == nil && bErr == nil:
		return ai - bi
	case aErr == nil:
		return -1
	case bErr == nil:
		return 1
	default:
		return strings.Compare(a, b)
	}
}

func clonePreset(p Preset) Preset {
	p.CPUArgs = slices.Clone(p.CPUArgs)
	p.FilterArgs = slices.Clone(p.FilterArgs)
	p.AudioArgs = slices.Clone(p.AudioArgs)
	if p.GPUFlags != nil {
		flags := make(map[string][]string, len(p.GPUFlags))
		for name, values := range p.GPUFlags {
			flags[name] = slices.Clone(values)
		}
		p.GPUFlags = flags
	}
	return p
}
