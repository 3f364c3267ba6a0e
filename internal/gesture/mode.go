package gesture

import "fmt"

// Mode decides what pointer events do on the canvas. Exactly one is active.
type Mode string

const (
	ModeDraw   Mode = "draw"
	ModeSelect Mode = "select"
	ModeErase  Mode = "erase"
	ModeExport Mode = "export"
)

var Modes = []Mode{ModeDraw, ModeSelect, ModeErase, ModeExport}

func ParseMode(s string) (Mode, error) {
	for _, m := range Modes {
		if string(m) == s {
			return m, nil
		}
	}
	return "", fmt.Errorf("unknown canvas mode %q", s)
}

func (m Mode) Label() string {
	switch m {
	case ModeDraw:
		return "Draw"
	case ModeSelect:
		return "Select"
	case ModeErase:
		return "Erase"
	case ModeExport:
		return "Export"
	}
	return string(m)
}

// tracksBox reports whether the mode drags out a selection rectangle.
func (m Mode) tracksBox() bool {
	return m == ModeSelect || m == ModeExport
}
