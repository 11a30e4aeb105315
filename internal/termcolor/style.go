package termcolor

import (
	"fmt"
	"strconv"
	"strings"
)

type Style struct {
	Bold      bool
	Underline bool
	Dim       bool
	FGBasic   *int
	FGBright  bool
	FG256     *int
	FGTrue    *[3]uint8
}

var basicColors = map[string]int{
	"black":   0,
	"red":     1,
	"green":   2,
	"yellow":  3,
	"blue":    4,
	"magenta": 5,
	"cyan":    6,
	"white":   7,
}

// ParseColor builds a foreground style from a color spec: a basic name
// ("cyan"), a "bright-" name, a 256-color index ("208") or "#rrggbb".
// Specs richer than profile are downgraded to the nearest supported color.
func ParseColor(spec string, profile Profile) (Style, error) {
	s := strings.ToLower(strings.TrimSpace(spec))
	if s == "" || s == "none" {
		return Style{}, nil
	}
	if strings.HasPrefix(s, "bold-") {
		inner, err := ParseColor(strings.TrimPrefix(s, "bold-"), profile)
		if err != nil {
			return Style{}, err
		}
		inner.Bold = true
		return inner, nil
	}
	if strings.HasPrefix(s, "bright-") {
		code, ok := basicColors[strings.TrimPrefix(s, "bright-")]
		if !ok {
			return Style{}, fmt.Errorf("unknown color: %s", spec)
		}
		return Style{FGBasic: &code, FGBright: true}, nil
	}
	if code, ok := basicColors[s]; ok {
		return Style{FGBasic: &code}, nil
	}
	if strings.HasPrefix(s, "#") {
		r, g, b, err := parseHex(s)
		if err != nil {
			return Style{}, fmt.Errorf("unknown color: %s", spec)
		}
		switch profile {
		case ProfileTrueColor:
			rgb := [3]uint8{r, g, b}
			return Style{FGTrue: &rgb}, nil
		case ProfileANSI256:
			idx := rgbToANSI256(r, g, b)
			return Style{FG256: &idx}, nil
		default:
			code := rgbToBasic(r, g, b)
			return Style{FGBasic: &code}, nil
		}
	}
	if n, err := strconv.Atoi(s); err == nil {
		if n < 0 || n > 255 {
			return Style{}, fmt.Errorf("color index out of range: %s", spec)
		}
		if profile == ProfileBasic8 && n < 8 {
			return Style{FGBasic: &n}, nil
		}
		return Style{FG256: &n}, nil
	}
	return Style{}, fmt.Errorf("unknown color: %s", spec)
}

func Apply(s Style, text string, enabled bool) string {
	if !enabled || text == "" {
		return text
	}
	codes := sgrCodes(s)
	if len(codes) == 0 {
		return text
	}
	return "\x1b[" + strings.Join(codes, ";") + "m" + text + "\x1b[0m"
}

func (s Style) IsZero() bool {
	return len(sgrCodes(s)) == 0
}

func sgrCodes(s Style) []string {
	codes := make([]string, 0, 6)
	if s.Bold {
		codes = append(codes, "1")
	}
	if s.Dim {
		codes = append(codes, "2")
	}
	if s.Underline {
		codes = append(codes, "4")
	}
	if s.FGTrue != nil {
		rgb := *s.FGTrue
		codes = append(codes, fmt.Sprintf("38;2;%d;%d;%d", rgb[0], rgb[1], rgb[2]))
	} else if s.FG256 != nil {
		codes = append(codes, fmt.Sprintf("38;5;%d", *s.FG256))
	} else if s.FGBasic != nil {
		if s.FGBright {
			codes = append(codes, fmt.Sprintf("9%d", *s.FGBasic))
		} else {
			codes = append(codes, fmt.Sprintf("3%d", *s.FGBasic))
		}
	}
	return codes
}

func parseHex(s string) (uint8, uint8, uint8, error) {
	hex := strings.TrimPrefix(s, "#")
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if len(hex) != 6 {
		return 0, 0, 0, fmt.Errorf("invalid hex color: %s", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return 0, 0, 0, err
	}
	return uint8(v >> 16), uint8(v >> 8), uint8(v), nil
}

func rgbToANSI256(r, g, b uint8) int {
	if r == g && g == b {
		if r < 8 {
			return 16
		}
		if r > 248 {
			return 231
		}
		return 232 + (int(r)-8)*24/247
	}
	rr := int(r) * 5 / 255
	gg := int(g) * 5 / 255
	bb := int(b) * 5 / 255
	return 16 + 36*rr + 6*gg + bb
}

// rgbToBasic maps a color onto the 8-color cube by thresholding each channel.
func rgbToBasic(r, g, b uint8) int {
	code := 0
	if r >= 128 {
		code |= 1
	}
	if g >= 128 {
		code |= 2
	}
	if b >= 128 {
		code |= 4
	}
	return code
}
