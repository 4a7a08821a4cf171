package gamedata

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gdamore/tcell/v2"
)

// ParseHexColor converts "#RRGGBB" or "RRGGBB" to a tcell color.
func ParseHexColor(hex string) (tcell.Color, error) {
	digits := strings.TrimPrefix(hex, "#")
	if len(digits) != 6 {
		return tcell.ColorDefault, fmt.Errorf("color %q: want 6 hex digits", hex)
	}
	v, err := strconv.ParseUint(digits, 16, 32)
	if err != nil {
		return tcell.ColorDefault, fmt.Errorf("color %q: %w", hex, err)
	}
	return tcell.NewHexColor(int32(v)), nil
}

// Palette holds the terminal display colors.
type Palette struct {
	// Terrain by light tier, and explored cells outside the view.
	Near, Mid, Far, Remembered tcell.Color
	// Newest log line and the ones before it.
	Message, OldMessage tcell.Color
	Cursor              tcell.Color
}

type paletteFile struct {
	Near       string `json:"near"`
	Mid        string `json:"mid"`
	Far        string `json:"far"`
	Remembered string `json:"remembered"`
	Message    string `json:"message"`
	OldMessage string `json:"oldMessage"`
	Cursor     string `json:"cursor"`
}

// LoadPalette loads the embedded palette.json. Every entry must be a valid hex color.
func LoadPalette() (Palette, error) {
	file, err := Load[paletteFile]("palette.json")
	if err != nil {
		return Palette{}, err
	}

	var p Palette
	fields := []struct {
		name string
		hex  string
		dst  *tcell.Color
	}{
		{"near", file.Near, &p.Near},
		{"mid", file.Mid, &p.Mid},
		{"far", file.Far, &p.Far},
		{"remembered", file.Remembered, &p.Remembered},
		{"message", file.Message, &p.Message},
		{"oldMessage", file.OldMessage, &p.OldMessage},
		{"cursor", file.Cursor, &p.Cursor},
	}
	for _, f := range fields {
		c, err := ParseHexColor(f.hex)
		if err != nil {
			return Palette{}, fmt.Errorf("palette.json %s: %w", f.name, err)
		}
		*f.dst = c
	}
	return p, nil
}

// MustLoadPalette loads the palette, panicking on error.
func MustLoadPalette() Palette {
	p, err := LoadPalette()
	if err != nil {
		panic(err)
	}
	return p
}
