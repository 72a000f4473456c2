package entity

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// PaletteSize is the number of slots in a color scheme palette.
const PaletteSize = 16

// Palette holds color0..color15. Empty slots are omitted when encoded.
type Palette [PaletteSize]string

// SpecialColors holds the terminal colors derived from the palette.
type SpecialColors struct {
	Background string `json:"background"`
	Foreground string `json:"foreground"`
	Cursor     string `json:"cursor"`
}

// Artifact is a computed color scheme for one image and parameter set.
// Colors are opaque strings here; they are only interpreted by the scorer.
type Artifact struct {
	Wallpaper string        `json:"wallpaper"`
	Alpha     string        `json:"alpha"`
	Special   SpecialColors `json:"special"`
	Colors    Palette       `json:"colors"`
}

// Populated returns the number of non-empty palette slots.
func (p Palette) Populated() int {
	n := 0
	for _, c := range p {
		if c != "" {
			n++
		}
	}
	return n
}

// MarshalJSON encodes the palette as {"color0": ..., "color15": ...}.
func (p Palette) MarshalJSON() ([]byte, error) {
	var b strings.Builder
	b.WriteByte('{')
	first := true
	for i, c := range p {
		if c == "" {
			continue
		}
		if !first {
			b.WriteByte(',')
		}
		first = false
		val, err := json.Marshal(c)
		if err != nil {
			return nil, err
		}
		b.WriteString(`"color`)
		b.WriteString(strconv.Itoa(i))
		b.WriteString(`":`)
		b.Write(val)
	}
	b.WriteByte('}')
	return []byte(b.String()), nil
}

// UnmarshalJSON decodes a color map. Keys outside color0..color15 are rejected.
func (p *Palette) UnmarshalJSON(data []byte) error {
	var raw map[string]string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	var out Palette
	for k, v := range raw {
		idx, ok := paletteIndex(k)
		if !ok {
			return fmt.Errorf("unexpected palette key %q", k)
		}
		out[idx] = v
	}
	*p = out
	return nil
}

func paletteIndex(key string) (int, bool) {
	num, ok := strings.CutPrefix(key, "color")
	if !ok {
		return 0, false
	}
	idx, err := strconv.Atoi(num)
	if err != nil || idx < 0 || idx >= PaletteSize || strconv.Itoa(idx) != num {
		return 0, false
	}
	return idx, true
}
