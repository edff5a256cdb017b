package config

import (
	"errors"
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/benoitkugler/svgpaint/svgdom"
	"github.com/benoitkugler/svgpaint/svgdraw"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	tomlFile := writeFile(t, "render.toml", `
format = "pdf"
scale = 2.5
ignore = ["opacity", "clip-path"]
`)
	cfg, err := Load(tomlFile)
	require.NoError(t, err)
	assert.Equal(t, "pdf", cfg.Format)
	assert.Equal(t, 2.5, cfg.Scale)
	assert.Equal(t, "warn", cfg.ErrorMode) // default kept
	assert.Equal(t, 2., cfg.RasterResolution)

	yamlFile := writeFile(t, "render.yml", `
background: "#ff0000"
error_mode: strict
fonts: []
`)
	cfg, err = Load(yamlFile)
	require.NoError(t, err)
	assert.Equal(t, "#ff0000", cfg.Background)
	assert.Equal(t, 1., cfg.Scale)

	cfg, err = Load(writeFile(t, "empty.yaml", ""))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)

	_, err = Load(writeFile(t, "render.json", "{}"))
	assert.True(t, errors.Is(err, ErrUnknownFormat))

	_, err = Load(writeFile(t, "bad.toml", `colour = "red"`))
	assert.Error(t, err)

	_, err = Load(writeFile(t, "bad.yaml", `colour: red`))
	assert.Error(t, err)

	_, err = Load(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)
}

func TestDecodeTOML(t *testing.T) {
	cfg := Default()
	err := DecodeTOML(strings.NewReader(`raster_resolution = 4`), &cfg)
	require.NoError(t, err)
	assert.Equal(t, 4., cfg.RasterResolution)
	assert.Equal(t, 1., cfg.Scale)
}

func TestIgnoreAttributes(t *testing.T) {
	cfg := Config{Ignore: []string{"Opacity", " mask", "system-language"}}
	flags, err := cfg.IgnoreAttributes()
	require.NoError(t, err)
	assert.Equal(t, svgdraw.IgnoreOpacity|svgdraw.IgnoreMask|svgdraw.IgnoreSystemLanguage, flags)

	cfg.Ignore = append(cfg.Ignore, "animation")
	_, err = cfg.IgnoreAttributes()
	assert.Error(t, err)

	flags, err = Default().IgnoreAttributes()
	require.NoError(t, err)
	assert.Equal(t, svgdraw.IgnoreNone, flags)
}

func TestParseMode(t *testing.T) {
	for _, test := range []struct {
		mode     string
		expected svgdom.ErrorMode
	}{
		{"", svgdom.WarnErrorMode},
		{"ignore", svgdom.IgnoreErrorMode},
		{"Strict", svgdom.StrictErrorMode},
	} {
		mode, err := Config{ErrorMode: test.mode}.ParseMode()
		require.NoError(t, err)
		assert.Equal(t, test.expected, mode)
	}
	_, err := Config{ErrorMode: "panic"}.ParseMode()
	assert.Error(t, err)
}

func TestBackgroundColor(t *testing.T) {
	bg, err := Config{}.BackgroundColor()
	require.NoError(t, err)
	assert.Nil(t, bg)

	bg, err = Config{Background: "#00ff00"}.BackgroundColor()
	require.NoError(t, err)
	assert.Equal(t, color.NRGBA{G: 0xff, A: 0xff}, bg)

	_, err = Config{Background: "#zz"}.BackgroundColor()
	assert.Error(t, err)
}

func TestFontManager(t *testing.T) {
	fm, err := Config{}.FontManager()
	require.NoError(t, err)
	assert.Nil(t, fm)

	_, err = Config{Fonts: []string{filepath.Join(t.TempDir(), "missing.ttf")}}.FontManager()
	assert.Error(t, err)

	_, err = Config{Fonts: []string{writeFile(t, "bad.ttf", "not a font")}}.FontManager()
	assert.Error(t, err)
}
