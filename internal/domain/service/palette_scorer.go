package service

import (
	"fmt"
	"math"
	"strings"

	"github.com/bnema/walcache/internal/domain/entity"
	"github.com/lucasb-eyer/go-colorful"
)

// maxContrastRatio is the WCAG contrast of black on white.
const maxContrastRatio = 21.0

// saturationSampleSize is how many leading palette slots feed the
// saturation variance component.
const saturationSampleSize = 8

// ScoringWeights weights the three score components.
type ScoringWeights struct {
	Diversity          float64 `mapstructure:"diversity_weight" toml:"diversity_weight"`
	Contrast           float64 `mapstructure:"contrast_weight" toml:"contrast_weight"`
	SaturationVariance float64 `mapstructure:"saturation_variance_weight" toml:"saturation_variance_weight"`
}

// DefaultScoringWeights returns 0.3 diversity, 0.4 contrast, 0.3 saturation variance.
func DefaultScoringWeights() ScoringWeights {
	return ScoringWeights{
		Diversity:          0.3,
		Contrast:           0.4,
		SaturationVariance: 0.3,
	}
}

// PaletteScorer ranks artifacts by a color quality heuristic.
type PaletteScorer struct {
	weights ScoringWeights
}

// NewPaletteScorer creates a scorer with the given weights.
func NewPaletteScorer(weights ScoringWeights) *PaletteScorer {
	return &PaletteScorer{weights: weights}
}

// Score returns the weighted sum of palette diversity, background/foreground
// contrast and saturation variance. With default weights the result lies in
// [0,1]. A malformed color zeroes only the component that needed it.
func (s *PaletteScorer) Score(artifact *entity.Artifact) float64 {
	if artifact == nil {
		return 0
	}
	return s.diversity(artifact.Colors) +
		s.contrast(artifact.Special) +
		s.saturationVariance(artifact.Colors)
}

func (s *PaletteScorer) diversity(p entity.Palette) float64 {
	unique := make(map[string]struct{}, entity.PaletteSize)
	for _, c := range p {
		if c != "" {
			unique[c] = struct{}{}
		}
	}
	n := min(len(unique), entity.PaletteSize)
	return float64(n) / entity.PaletteSize * s.weights.Diversity
}

func (s *PaletteScorer) contrast(special entity.SpecialColors) float64 {
	ratio, err := ContrastRatio(special.Background, special.Foreground)
	if err != nil {
		return 0
	}
	return math.Min(ratio/maxContrastRatio, 1) * s.weights.Contrast
}

func (s *PaletteScorer) saturationVariance(p entity.Palette) float64 {
	sats := make([]float64, 0, saturationSampleSize)
	for _, c := range p[:saturationSampleSize] {
		if c == "" {
			continue
		}
		sat, err := Saturation(c)
		if err != nil {
			return 0
		}
		sats = append(sats, sat)
	}
	return math.Min(populationVariance(sats), 1) * s.weights.SaturationVariance
}

// ParseColor parses #rrggbb (the leading # is optional).
func ParseColor(value string) (colorful.Color, error) {
	v := strings.TrimSpace(value)
	if !strings.HasPrefix(v, "#") {
		v = "#" + v
	}
	if len(v) != 7 {
		return colorful.Color{}, fmt.Errorf("malformed color %q", value)
	}
	c, err := colorful.Hex(v)
	if err != nil {
		return colorful.Color{}, fmt.Errorf("malformed color %q: %w", value, err)
	}
	return c, nil
}

// RelativeLuminance returns the WCAG relative luminance of a color.
func RelativeLuminance(value string) (float64, error) {
	c, err := ParseColor(value)
	if err != nil {
		return 0, err
	}
	return 0.2126*linearize(c.R) + 0.7152*linearize(c.G) + 0.0722*linearize(c.B), nil
}

func linearize(ch float64) float64 {
	if ch <= 0.03928 {
		return ch / 12.92
	}
	return math.Pow((ch+0.055)/1.055, 2.4)
}

// ContrastRatio returns (lighter+0.05)/(darker+0.05), from 1 to 21.
func ContrastRatio(a, b string) (float64, error) {
	l1, err := RelativeLuminance(a)
	if err != nil {
		return 0, err
	}
	l2, err := RelativeLuminance(b)
	if err != nil {
		return 0, err
	}
	return (math.Max(l1, l2) + 0.05) / (math.Min(l1, l2) + 0.05), nil
}

// Saturation returns the HSV saturation (max-min)/max of a color.
func Saturation(value string) (float64, error) {
	c, err := ParseColor(value)
	if err != nil {
		return 0, err
	}
	hi := math.Max(c.R, math.Max(c.G, c.B))
	lo := math.Min(c.R, math.Min(c.G, c.B))
	if hi == 0 {
		return 0, nil
	}
	return (hi - lo) / hi, nil
}

func populationVariance(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	mean := sum / float64(len(values))
	var sq float64
	for _, v := range values {
		sq += (v - mean) * (v - mean)
	}
	return sq / float64(len(values))
}
