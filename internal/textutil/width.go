package textutil

import (
	"regexp"
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/rivo/uniseg"
)

// ANSI escape sequences (covers common CSI and OSC forms).
var ansiRe = regexp.MustCompile(`\x1b\[[0-?]*[ -/]*[@-~]|\x1b\][^\x07\x1b]*(?:\x07|\x1b\\)`)

// StripANSI removes terminal escape sequences from s.
func StripANSI(s string) string {
	if s == "" {
		return ""
	}
	if !strings.ContainsRune(s, 0x1b) {
		return s
	}
	return ansiRe.ReplaceAllString(s, "")
}

// VisibleWidth returns terminal display width (wcwidth-based).
func VisibleWidth(s string) int {
	if s == "" {
		return 0
	}
	g := uniseg.NewGraphemes(StripANSI(s))
	width := 0
	for g.Next() {
		width += runewidth.StringWidth(g.Str())
	}
	return width
}

// TruncateByWidth truncates s to fit width w without breaking graphemes.
// If truncation happens and the ellipsis fits, it is appended at the cut.
// Escape sequences are zero width and survive truncation, so a trailing
// reset still follows the cut text.
func TruncateByWidth(s string, w int, ellipsis string) string {
	if s == "" || w <= 0 {
		return ""
	}
	if VisibleWidth(s) <= w {
		return s
	}
	ellW := runewidth.StringWidth(ellipsis)
	budget := w - ellW
	if ellipsis == "" || budget < 0 {
		budget = w
		ellipsis = ""
	}
	var b strings.Builder
	used, cut := 0, false
	text := func(t string) {
		if cut {
			return
		}
		g := uniseg.NewGraphemes(t)
		for g.Next() {
			seg := g.Str()
			segW := runewidth.StringWidth(seg)
			if used+segW > budget {
				b.WriteString(ellipsis)
				cut = true
				return
			}
			b.WriteString(seg)
			used += segW
		}
	}
	pos := 0
	for _, loc := range ansiRe.FindAllStringIndex(s, -1) {
		text(s[pos:loc[0]])
		b.WriteString(s[loc[0]:loc[1]])
		pos = loc[1]
	}
	text(s[pos:])
	return b.String()
}
