package cli

import (
	"flag"
	"fmt"

	"imagepro/config"
	"imagepro/validation"
)

// optionalString is a flag.Value that remembers whether it was given, so an
// explicit empty --width="" is distinguishable from no --width at all.
type optionalString struct {
	value string
	set   bool
}

func (o *optionalString) String() string { return o.value }

func (o *optionalString) Set(s string) error {
	o.value = s
	o.set = true
	return nil
}

func (o *optionalString) ptr() *string {
	if !o.set {
		return nil
	}
	v := o.value
	return &v
}

// jobFlags are the flags shared by every subcommand that runs jobs.
type jobFlags struct {
	width       optionalString
	height      optionalString
	quality     int
	output      string
	onExisting  string
	concurrency int
	preset      string
	presetsPath string
	srcset      bool
	urlPrefix   string
}

func (f *jobFlags) register(fs *flag.FlagSet, cfg *config.Config) {
	fs.Var(&f.width, "width", "Comma-separated list of target widths (e.g. 300,600,900)")
	fs.Var(&f.height, "height", "Comma-separated list of target heights (e.g. 400,800)")
	fs.IntVar(&f.quality, "quality", cfg.Quality, "JPEG quality 1-100")
	fs.StringVar(&f.output, "output", cfg.OutputDir, "Output directory")
	fs.StringVar(&f.onExisting, "on-existing", cfg.OnExisting, "Existing output files: overwrite|skip|fail")
	fs.IntVar(&f.concurrency, "concurrency", cfg.Concurrency, "Variants rendered at once per image")
	fs.StringVar(&f.preset, "preset", "", "Named preset from the presets file")
	fs.StringVar(&f.presetsPath, "presets", cfg.PresetsPath, "Path to a YAML presets file")
	fs.BoolVar(&f.srcset, "srcset", false, "Print an <img> snippet with a srcset for each image")
	fs.StringVar(&f.urlPrefix, "url-prefix", "", "URL prefix used in srcset snippets")
}

// args builds the shared validation.Args, folding in a preset when one is
// named. Flags given explicitly on the command line win over the preset.
func (f *jobFlags) args(fs *flag.FlagSet) (validation.Args, error) {
	explicit := map[string]bool{}
	fs.Visit(func(fl *flag.Flag) { explicit[fl.Name] = true })

	quality := f.quality
	args := validation.Args{
		Width:      f.width.ptr(),
		Height:     f.height.ptr(),
		Quality:    &quality,
		OutputDir:  f.output,
		OnExisting: f.onExisting,
	}

	if f.preset == "" {
		return args, nil
	}
	if f.presetsPath == "" {
		return validation.Args{}, usageErrorf("--preset requires --presets or IMAGEPRO_PRESETS")
	}

	presets, err := config.LoadPresets(f.presetsPath)
	if err != nil {
		return validation.Args{}, usageErrorf("%v", err)
	}
	preset, err := presets.Get(f.preset)
	if err != nil {
		return validation.Args{}, usageErrorf("%v", err)
	}

	if args.Width == nil && args.Height == nil {
		axis, sizes := preset.SizeList()
		if axis == "height" {
			args.Height = &sizes
		} else {
			args.Width = &sizes
		}
	}
	if preset.Quality != 0 && !explicit["quality"] {
		quality = preset.Quality
	}
	if preset.OutputDir != "" && !explicit["output"] {
		args.OutputDir = preset.OutputDir
	}
	return args, nil
}

type usageError struct {
	msg string
}

func (e *usageError) Error() string { return e.msg }

func usageErrorf(format string, a ...any) error {
	return &usageError{msg: fmt.Sprintf(format, a...)}
}
