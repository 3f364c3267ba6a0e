package theme

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"
)

type Mode string

const (
	Light  Mode = "light"
	Dark   Mode = "dark"
	System Mode = "system"
)

// Next cycles light -> dark -> system -> light.
func (m Mode) Next() Mode {
	switch m {
	case Light:
		return Dark
	case Dark:
		return System
	default:
		return Light
	}
}

func (m Mode) Label() string {
	switch m {
	case Light:
		return "Light"
	case Dark:
		return "Dark"
	default:
		return "System"
	}
}

func ParseMode(s string) (Mode, error) {
	switch m := Mode(strings.ToLower(strings.TrimSpace(s))); m {
	case Light, Dark, System:
		return m, nil
	case "":
		return System, nil
	}
	return System, fmt.Errorf("unknown theme %q", s)
}

type Palette struct {
	Background string
	Surface    string
	Text       string
	Primary    string
	Secondary  string
	Border     string
	Danger     string
	Success    string
	Selection  string
}

var (
	lightPalette = Palette{
		Background: "#FFFFFF",
		Surface:    "#F5F5F5",
		Text:       "#000000",
		Primary:    "#6200EE",
		Secondary:  "#03DAC5",
		Border:     "#E0E0E0",
		Danger:     "#B00020",
		Success:    "#00C853",
		Selection:  "#6200EE",
	}
	darkPalette = Palette{
		Background: "#121212",
		Surface:    "#1E1E1E",
		Text:       "#FFFFFF",
		Primary:    "#BB86FC",
		Secondary:  "#03DAC6",
		Border:     "#333333",
		Danger:     "#CF6679",
		Success:    "#69F0AE",
		Selection:  "#BB86FC",
	}
)

// Resolve picks the palette for a mode. System follows the platform setting.
func Resolve(m Mode, systemDark bool) Palette {
	switch m {
	case Light:
		return lightPalette
	case Dark:
		return darkPalette
	}
	if systemDark {
		return darkPalette
	}
	return lightPalette
}

func (p Palette) IsDark() bool {
	return p.Background == darkPalette.Background
}

// StrokeColor is the ink used for new strokes. Black ink would vanish on a
// dark page, so dark palettes always draw in white.
func StrokeColor(p Palette, configured string) string {
	if p.IsDark() {
		return "#FFFFFF"
	}
	if configured == "" {
		return "#000000"
	}
	return configured
}

// BackgroundFor picks the page colour that keeps most of the given inks
// visible: the dark background when light inks outnumber dark ones, the
// light background otherwise.
func BackgroundFor(inks []string) string {
	light := 0
	for _, ink := range inks {
		c, err := ParseHex(ink)
		if err != nil {
			continue
		}
		if isLight(c) {
			light++
		} else {
			light--
		}
	}
	if light > 0 {
		return darkPalette.Background
	}
	return lightPalette.Background
}

// isLight uses Rec. 601 luma.
func isLight(c color.NRGBA) bool {
	return 299*int(c.R)+587*int(c.G)+114*int(c.B) > 128*1000
}

// ParseHex reads #RGB, #RRGGBB or #RRGGBBAA.
func ParseHex(s string) (color.NRGBA, error) {
	h := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(h) == 3 {
		h = string([]byte{h[0], h[0], h[1], h[1], h[2], h[2]})
	}
	if len(h) == 6 {
		h += "ff"
	}
	if len(h) != 8 {
		return color.NRGBA{}, fmt.Errorf("invalid colour %q", s)
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("invalid colour %q: %w", s, err)
	}
	return color.NRGBA{R: uint8(v >> 24), G: uint8(v >> 16), B: uint8(v >> 8), A: uint8(v)}, nil
}

// Color is ParseHex with a fallback for bad input.
func Color(s string, fallback color.Color) color.Color {
	c, err := ParseHex(s)
	if err != nil {
		return fallback
	}
	return c
}

// Hex formats a colour as #RRGGBB, dropping alpha.
func Hex(c color.Color) string {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	return fmt.Sprintf("#%02X%02X%02X", n.R, n.G, n.B)
}
