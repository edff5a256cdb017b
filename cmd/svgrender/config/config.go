// Package config loads the rendering settings of the svgrender
// command from TOML or YAML files.
package config

import (
	"errors"
	"fmt"
	"image/color"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/benoitkugler/svgpaint/canvas"
	"github.com/benoitkugler/svgpaint/svgdom"
	"github.com/benoitkugler/svgpaint/svgdraw"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// ErrUnknownFormat is returned for config files
// with an unsupported extension.
var ErrUnknownFormat = errors.New("unknown config file format")

// Config stores the rendering settings.
type Config struct {
	// Format is the output format, "png" or "pdf".
	// Empty means guessed from the output file.
	Format string `toml:"format" yaml:"format"`
	// Scale multiplies the document size, for PNG output.
	Scale float64 `toml:"scale" yaml:"scale"`
	// Background is a CSS color filling PNG images.
	Background string `toml:"background" yaml:"background"`
	// ErrorMode is one of "ignore", "warn" or "strict".
	ErrorMode string `toml:"error_mode" yaml:"error_mode"`
	// Fonts lists font files added to the Go fonts.
	Fonts []string `toml:"fonts" yaml:"fonts"`
	// Ignore lists the SVG features to disable,
	// like "opacity" or "clip-path".
	Ignore []string `toml:"ignore" yaml:"ignore"`
	// RasterResolution is the resolution, in pixels per point,
	// of the paints rasterized in PDF output.
	RasterResolution float64 `toml:"raster_resolution" yaml:"raster_resolution"`
}

// Default returns the settings used without config file.
func Default() Config {
	return Config{Scale: 1, ErrorMode: "warn", RasterResolution: 2}
}

// Load reads the file at path, whose format is given by
// its extension (.toml, .yaml or .yml). Missing fields keep
// their default values.
func Load(path string) (Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return Config{}, err
	}
	defer f.Close()

	cfg := Default()
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		err = DecodeTOML(f, &cfg)
	case ".yaml", ".yml":
		err = DecodeYAML(f, &cfg)
	default:
		return Config{}, fmt.Errorf("%w: %q", ErrUnknownFormat, ext)
	}
	if err != nil {
		return Config{}, fmt.Errorf("invalid config file %s: %w", path, err)
	}
	return cfg, nil
}

// DecodeTOML decodes into cfg, rejecting unknown fields.
func DecodeTOML(r io.Reader, cfg *Config) error {
	dec := toml.NewDecoder(r)
	dec.DisallowUnknownFields()
	return dec.Decode(cfg)
}

// DecodeYAML decodes into cfg, rejecting unknown fields.
// An empty document is valid.
func DecodeYAML(r io.Reader, cfg *Config) error {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && err != io.EOF {
		return err
	}
	return nil
}

var ignoreNames = map[string]svgdraw.Attributes{
	"display":             svgdraw.IgnoreDisplay,
	"visibility":          svgdraw.IgnoreVisibility,
	"opacity":             svgdraw.IgnoreOpacity,
	"filter":              svgdraw.IgnoreFilter,
	"clip-path":           svgdraw.IgnoreClipPath,
	"mask":                svgdraw.IgnoreMask,
	"required-features":   svgdraw.IgnoreRequiredFeatures,
	"required-extensions": svgdraw.IgnoreRequiredExtensions,
	"system-language":     svgdraw.IgnoreSystemLanguage,
}

// IgnoreAttributes returns the flags matching Ignore.
func (c Config) IgnoreAttributes() (svgdraw.Attributes, error) {
	var out svgdraw.Attributes
	for _, name := range c.Ignore {
		flag, ok := ignoreNames[strings.ToLower(strings.TrimSpace(name))]
		if !ok {
			return 0, fmt.Errorf("unknown SVG feature %q", name)
		}
		out |= flag
	}
	return out, nil
}

// ParseMode returns the parser error mode.
func (c Config) ParseMode() (svgdom.ErrorMode, error) {
	switch strings.ToLower(c.ErrorMode) {
	case "ignore":
		return svgdom.IgnoreErrorMode, nil
	case "", "warn":
		return svgdom.WarnErrorMode, nil
	case "strict":
		return svgdom.StrictErrorMode, nil
	default:
		return 0, fmt.Errorf("unknown error mode %q", c.ErrorMode)
	}
}

// BackgroundColor returns nil if no background is set.
func (c Config) BackgroundColor() (color.Color, error) {
	if c.Background == "" {
		return nil, nil
	}
	bg, err := svgdom.ParseColor(c.Background)
	if err != nil {
		return nil, fmt.Errorf("invalid background: %w", err)
	}
	return bg, nil
}

// FontManager returns nil if no font file is listed,
// so that the renderers use the Go fonts.
func (c Config) FontManager() (canvas.FontManager, error) {
	if len(c.Fonts) == 0 {
		return nil, nil
	}
	fm := canvas.NewFontManager()
	for _, file := range c.Fonts {
		data, err := os.ReadFile(file)
		if err != nil {
			return nil, err
		}
		if err := fm.AddFont(data); err != nil {
			return nil, fmt.Errorf("%s: %w", file, err)
		}
	}
	return fm, nil
}
