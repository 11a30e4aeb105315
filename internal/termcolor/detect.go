// Package termcolor decides whether output is painted and renders the
// SGR sequences that paint it.
package termcolor

import (
	"fmt"
	"os"
	"strings"

	"golang.org/x/term"
)

// ColorMode is the user's --color choice.
type ColorMode int

const (
	ModeAuto ColorMode = iota
	ModeAlways
	ModeNever
)

var modeNames = map[ColorMode]string{
	ModeAuto:   "auto",
	ModeAlways: "always",
	ModeNever:  "never",
}

func (m ColorMode) String() string {
	if name, ok := modeNames[m]; ok {
		return name
	}
	return "auto"
}

func ParseMode(v string) (ColorMode, error) {
	want := strings.ToLower(strings.TrimSpace(v))
	if want == "" {
		return ModeAuto, nil
	}
	for mode, name := range modeNames {
		if name == want {
			return mode, nil
		}
	}
	return ModeAuto, fmt.Errorf("unknown color mode: %s", v)
}

// Profile is the richest color encoding the terminal understands.
type Profile int

const (
	ProfileBasic8 Profile = iota
	ProfileANSI256
	ProfileTrueColor
)

// EnvMap splits KEY=VALUE entries as returned by os.Environ.
func EnvMap(entries []string) map[string]string {
	env := make(map[string]string, len(entries))
	for _, entry := range entries {
		if key, value, _ := strings.Cut(entry, "="); key != "" {
			env[key] = value
		}
	}
	return env
}

// envRule inspects one variable and may settle the auto decision.
type envRule struct {
	key    string
	decide func(v string) (ColorMode, bool)
}

// autoRules are checked in order; the first rule that decides wins.
// Anything that turns color off outranks anything that forces it on.
var autoRules = []envRule{
	{"TERM", func(v string) (ColorMode, bool) { return ModeNever, strings.EqualFold(v, "dumb") }},
	{"NO_COLOR", func(v string) (ColorMode, bool) { return ModeNever, v != "" }},
	{"CLICOLOR", func(v string) (ColorMode, bool) { return ModeNever, v == "0" }},
	{"CLICOLOR_FORCE", forced},
	{"FORCE_COLOR", forced},
}

func forced(v string) (ColorMode, bool) {
	return ModeAlways, v != "" && v != "0"
}

// DetectMode settles ModeAuto into ModeAlways or ModeNever from the
// environment and, failing that, from whether stdout is a terminal.
func DetectMode(stdout *os.File, env map[string]string) ColorMode {
	if stdout == nil {
		return ModeNever
	}
	for _, rule := range autoRules {
		if mode, ok := rule.decide(strings.TrimSpace(env[rule.key])); ok {
			return mode
		}
	}
	if IsTerminal(stdout) {
		return ModeAlways
	}
	return ModeNever
}

// Resolve reports whether output should be painted.
func Resolve(mode ColorMode, stdout *os.File, env map[string]string) bool {
	if mode == ModeAuto {
		mode = DetectMode(stdout, env)
	}
	return mode == ModeAlways
}

// DetectProfile reads COLORTERM and TERM.
func DetectProfile(env map[string]string) Profile {
	colorterm := strings.ToLower(env["COLORTERM"])
	for _, marker := range []string{"truecolor", "24bit", "24-bit"} {
		if strings.Contains(colorterm, marker) {
			return ProfileTrueColor
		}
	}
	if strings.Contains(strings.ToLower(env["TERM"]), "256color") {
		return ProfileANSI256
	}
	return ProfileBasic8
}

// IsTerminal reports whether f is attached to a terminal.
func IsTerminal(f *os.File) bool {
	return f != nil && term.IsTerminal(int(f.Fd()))
}
