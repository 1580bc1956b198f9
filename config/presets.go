package config

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Presets is a named set of reusable size lists, e.g.
//
//	presets:
//	  lightbox:
//	    width: [300, 600, 900, 1200]
//	    quality: 85
type Presets struct {
	Presets map[string]Preset `yaml:"presets"`
}

type Preset struct {
	Width     []int  `yaml:"width"`
	Height    []int  `yaml:"height"`
	Quality   int    `yaml:"quality"`
	OutputDir string `yaml:"output_dir"`
}

// LoadPresets reads and validates a presets file.
func LoadPresets(path string) (*Presets, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read presets file: %w", err)
	}

	var p Presets
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("failed to parse presets: %w", err)
	}

	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("invalid presets: %w", err)
	}

	return &p, nil
}

// Validate checks that every preset names exactly one axis with sizes.
func (p *Presets) Validate() error {
	if len(p.Presets) == 0 {
		return fmt.Errorf("no presets defined")
	}
	for _, name := range p.Names() {
		preset := p.Presets[name]
		switch {
		case len(preset.Width) > 0 && len(preset.Height) > 0:
			return fmt.Errorf("preset %q: width and height are mutually exclusive", name)
		case len(preset.Width) == 0 && len(preset.Height) == 0:
			return fmt.Errorf("preset %q: width or height is required", name)
		}
		if preset.Quality != 0 && (preset.Quality < 1 || preset.Quality > 100) {
			return fmt.Errorf("preset %q: quality must be between 1 and 100", name)
		}
	}
	return nil
}

// Get returns the named preset.
func (p *Presets) Get(name string) (Preset, error) {
	preset, ok := p.Presets[name]
	if !ok {
		return Preset{}, fmt.Errorf("unknown preset %q (available: %s)", name, strings.Join(p.Names(), ", "))
	}
	return preset, nil
}

func (p *Presets) Names() []string {
	names := make([]string, 0, len(p.Presets))
	for name := range p.Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// SizeList renders the preset's sizes as the comma-separated list the CLI
// accepts, and reports which axis they belong to.
func (p Preset) SizeList() (axis string, sizes string) {
	list := p.Width
	axis = "width"
	if len(p.Height) > 0 {
		list = p.Height
		axis = "height"
	}

	parts := make([]string, len(list))
	for i, n := range list {
		parts[i] = strconv.Itoa(n)
	}
	return axis, strings.Join(parts, ",")
}
