package backend

import (
	"context"
	"errors"
	"fmt"
	osexec "os/exec"
	"regexp"
	"strconv"
	"strings"

	"github.com/bnema/walcache/internal/domain/entity"
	"github.com/bnema/walcache/internal/domain/validation"
	"github.com/bnema/walcache/internal/logging"
	"github.com/jmgilman/go/exec"
	"github.com/lucasb-eyer/go-colorful"
)

// ImageMagickName is the registry name of the ImageMagick backend.
const ImageMagickName = "wal"

const (
	defaultColorCount = 16
	// extraColorAttempts bounds how far the requested color count is raised
	// when ImageMagick returns too few unique colors.
	extraColorAttempts = 20
)

var hexColorPattern = regexp.MustCompile(`#[0-9A-Fa-f]{6}`)

// ImageMagickConfig configures the ImageMagick backend.
type ImageMagickConfig struct {
	// Binary is tried first; "convert" is tried when it is missing.
	Binary string
	Colors int
	Resize string
}

// DefaultImageMagickConfig returns magick, 16 colors, 25% resize.
func DefaultImageMagickConfig() ImageMagickConfig {
	return ImageMagickConfig{Binary: "magick", Colors: defaultColorCount, Resize: "25%"}
}

// ImageMagick extracts palettes by quantizing the image with ImageMagick.
type ImageMagick struct {
	cfg      ImageMagickConfig
	executor exec.Executor
	lookPath func(string) (string, error)
}

// NewImageMagick returns an ImageMagick backend running commands through executor.
func NewImageMagick(cfg ImageMagickConfig, executor exec.Executor) *ImageMagick {
	if cfg.Binary == "" {
		cfg.Binary = "magick"
	}
	if cfg.Colors < defaultColorCount {
		cfg.Colors = defaultColorCount
	}
	if cfg.Resize == "" {
		cfg.Resize = "25%"
	}
	return &ImageMagick{cfg: cfg, executor: executor, lookPath: osexec.LookPath}
}

// WithLookPath replaces the binary lookup.
func (m *ImageMagick) WithLookPath(fn func(string) (string, error)) *ImageMagick {
	m.lookPath = fn
	return m
}

func (m *ImageMagick) Name() string { return ImageMagickName }

func (m *ImageMagick) IsAvailable(context.Context) bool {
	_, err := m.binary()
	return err == nil
}

// Compute quantizes the image and derives a 16-color scheme from the result.
func (m *ImageMagick) Compute(ctx context.Context, image string, isLight bool, saturation string) (*entity.Artifact, error) {
	log := logging.FromContext(ctx)

	binary, err := m.binary()
	if err != nil {
		return nil, err
	}

	var colors []string
	for attempt := range extraColorAttempts {
		count := m.cfg.Colors + attempt
		colors, err = m.quantize(ctx, binary, image, count)
		if err != nil {
			return nil, err
		}
		if len(colors) >= entity.PaletteSize {
			break
		}
		log.Debug().Int("requested", count).Int("got", len(colors)).Msg("imagemagick returned too few colors, retrying")
	}
	if len(colors) < entity.PaletteSize {
		return nil, fmt.Errorf("%w: %s: only %d unique colors", entity.ErrBackendFailed, image, len(colors))
	}

	palette, err := adjustPalette(colors[:entity.PaletteSize], isLight, saturation)
	if err != nil {
		return nil, err
	}

	artifact := &entity.Artifact{
		Wallpaper: image,
		Alpha:     "100",
		Special: entity.SpecialColors{
			Background: palette[0],
			Foreground: palette[15],
			Cursor:     palette[15],
		},
		Colors: palette,
	}
	if errs := validation.ValidateArtifact(artifact); len(errs) > 0 {
		return nil, fmt.Errorf("%w: %s: %s", entity.ErrBackendFailed, image, strings.Join(errs, "; "))
	}
	return artifact, nil
}

func (m *ImageMagick) binary() (string, error) {
	candidates := []string{m.cfg.Binary}
	if m.cfg.Binary == "magick" {
		candidates = append(candidates, "convert")
	}
	for _, c := range candidates {
		if path, err := m.lookPath(c); err == nil {
			return path, nil
		}
	}
	return "", fmt.Errorf("%w: %s not found in PATH", entity.ErrBackendUnavailable, m.cfg.Binary)
}

func (m *ImageMagick) quantize(ctx context.Context, binary, image string, count int) ([]string, error) {
	res, err := m.executor.Clone().WithContext(ctx).WithInheritEnv().Run(
		binary,
		image+"[0]",
		"-resize", m.cfg.Resize,
		"-colors", strconv.Itoa(count),
		"-unique-colors",
		"txt:-",
	)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, fmt.Errorf("%w: %s: %w", entity.ErrBackendFailed, image, ctxErr)
		}
		var execErr *exec.ExecError
		if errors.As(err, &execErr) {
			return nil, fmt.Errorf("%w: %s: exit %d: %s", entity.ErrBackendFailed, image, execErr.ExitCode, strings.TrimSpace(execErr.Stderr))
		}
		return nil, fmt.Errorf("%w: %s: %w", entity.ErrBackendFailed, image, err)
	}
	return parseUniqueColors(res.Stdout), nil
}

// parseUniqueColors reads ImageMagick txt: output. The first line is a header.
func parseUniqueColors(out string) []string {
	var colors []string
	for i, line := range strings.Split(strings.TrimSpace(out), "\n") {
		if i == 0 && strings.HasPrefix(line, "#") {
			continue
		}
		if hex := hexColorPattern.FindString(line); hex != "" {
			colors = append(colors, strings.ToLower(hex))
		}
	}
	return colors
}

// adjustPalette turns quantized colors, darkest first, into a terminal scheme:
// color0 is the background, 1-6 and 9-14 the accents, 7/8/15 the foregrounds.
func adjustPalette(raw []string, isLight bool, saturation string) (entity.Palette, error) {
	parsed := make([]colorful.Color, len(raw))
	for i, h := range raw {
		c, err := colorful.Hex(h)
		if err != nil {
			return entity.Palette{}, fmt.Errorf("%w: bad color %q: %w", entity.ErrBackendFailed, h, err)
		}
		parsed[i] = c
	}

	// Same layout as the classic wal backend: darkest, then the brightest eight twice.
	base := make([]colorful.Color, 0, entity.PaletteSize)
	base = append(base, parsed[0])
	base = append(base, parsed[8:16]...)
	base = append(base, parsed[8:15]...)

	var sat float64
	applySat := false
	if saturation != "" && saturation != "0" {
		v, err := strconv.ParseFloat(saturation, 64)
		if err != nil || v < 0 || v > 1 {
			return entity.Palette{}, fmt.Errorf("%w: saturation %q not in [0,1]", entity.ErrBackendFailed, saturation)
		}
		sat, applySat = v, true
	}

	white := colorful.Color{R: 0.93, G: 0.93, B: 0.93}
	black := colorful.Color{}
	if isLight {
		base[0] = blend(base[len(base)-1], white, 0.85)
		base[7] = blend(parsed[0], black, 0.5)
		base[8] = blend(base[7], white, 0.3)
		base[15] = base[7]
	} else {
		base[0] = blend(base[0], black, 0.4)
		base[7] = blend(base[7], white, 0.55)
		base[8] = blend(base[7], black, 0.3)
		base[15] = blend(base[15], white, 0.55)
	}

	var p entity.Palette
	for i, c := range base {
		if applySat && i != 0 && i != 7 && i != 8 && i != 15 {
			h, _, v := c.Hsv()
			c = colorful.Hsv(h, sat, v)
		}
		p[i] = c.Clamped().Hex()
	}
	return p, nil
}

func blend(c, with colorful.Color, amount float64) colorful.Color {
	return c.BlendRgb(with, amount)
}
