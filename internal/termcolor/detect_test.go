package termcolor

import (
	"os"
	"testing"

	"github.com/creack/pty"
)

func TestParseMode(t *testing.T) {
	cases := map[string]ColorMode{
		"":         ModeAuto,
		"auto":     ModeAuto,
		"always":   ModeAlways,
		" ALWAYS ": ModeAlways,
		"never":    ModeNever,
	}
	for in, want := range cases {
		got, err := ParseMode(in)
		if err != nil {
			t.Fatalf("ParseMode(%q) unexpected error: %v", in, err)
		}
		if got != want {
			t.Fatalf("ParseMode(%q)=%v want %v", in, got, want)
		}
	}
	if _, err := ParseMode("sometimes"); err == nil {
		t.Fatal("ParseMode should reject unknown modes")
	}
	if ModeNever.String() != "never" || ColorMode(42).String() != "auto" {
		t.Fatal("String should name known modes and fall back to auto")
	}
}

func pipeWriter(t *testing.T) *os.File {
	t.Helper()
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("pipe: %v", err)
	}
	t.Cleanup(func() {
		_ = r.Close()
		_ = w.Close()
	})
	return w
}

func TestDetectModeOnPipe(t *testing.T) {
	w := pipeWriter(t)
	cases := []struct {
		name string
		env  map[string]string
		want ColorMode
	}{
		{"nothing set", nil, ModeNever},
		{"NO_COLOR", map[string]string{"NO_COLOR": "1"}, ModeNever},
		{"CLICOLOR=0", map[string]string{"CLICOLOR": "0"}, ModeNever},
		{"CLICOLOR=1 alone", map[string]string{"CLICOLOR": "1"}, ModeNever},
		{"CLICOLOR_FORCE", map[string]string{"CLICOLOR_FORCE": "1"}, ModeAlways},
		{"CLICOLOR_FORCE=0", map[string]string{"CLICOLOR_FORCE": "0"}, ModeNever},
		{"FORCE_COLOR=3", map[string]string{"FORCE_COLOR": "3"}, ModeAlways},
		{"NO_COLOR beats CLICOLOR_FORCE", map[string]string{"NO_COLOR": "1", "CLICOLOR_FORCE": "1"}, ModeNever},
		{"NO_COLOR beats FORCE_COLOR", map[string]string{"NO_COLOR": "x", "FORCE_COLOR": "1"}, ModeNever},
		{"CLICOLOR=0 beats FORCE_COLOR", map[string]string{"CLICOLOR": "0", "FORCE_COLOR": "1"}, ModeNever},
		{"dumb terminal", map[string]string{"TERM": "dumb", "FORCE_COLOR": "1"}, ModeNever},
	}
	for _, tc := range cases {
		if got := DetectMode(w, tc.env); got != tc.want {
			t.Fatalf("%s: DetectMode=%v want %v", tc.name, got, tc.want)
		}
	}
	if got := DetectMode(nil, map[string]string{"FORCE_COLOR": "1"}); got != ModeNever {
		t.Fatalf("nil stdout should never be painted, got %v", got)
	}
}

func TestResolve(t *testing.T) {
	w := pipeWriter(t)
	force := map[string]string{"FORCE_COLOR": "1"}

	if !Resolve(ModeAlways, nil, nil) {
		t.Fatal("ModeAlways should paint regardless of stdout")
	}
	if Resolve(ModeNever, w, force) {
		t.Fatal("ModeNever should ignore FORCE_COLOR")
	}
	if Resolve(ModeAuto, w, nil) {
		t.Fatal("ModeAuto on a pipe should not paint")
	}
	if !Resolve(ModeAuto, w, force) {
		t.Fatal("ModeAuto should honour FORCE_COLOR on a pipe")
	}
}

func TestDetectModeOnPseudoTerminal(t *testing.T) {
	ptmx, tty, err := pty.Open()
	if err != nil {
		t.Skipf("pty unavailable: %v", err)
	}
	defer func() {
		_ = tty.Close()
		_ = ptmx.Close()
	}()

	if !IsTerminal(tty) {
		t.Fatal("pty slave should be reported as a terminal")
	}
	if got := DetectMode(tty, nil); got != ModeAlways {
		t.Fatalf("terminal stdout should be painted, got %v", got)
	}
	if got := DetectMode(tty, map[string]string{"NO_COLOR": "1"}); got != ModeNever {
		t.Fatalf("NO_COLOR should win over a terminal, got %v", got)
	}
}

func TestIsTerminalNil(t *testing.T) {
	if IsTerminal(nil) {
		t.Fatal("nil file is not a terminal")
	}
}

func TestDetectProfile(t *testing.T) {
	cases := []struct {
		env  map[string]string
		want Profile
	}{
		{map[string]string{"COLORTERM": "truecolor"}, ProfileTrueColor},
		{map[string]string{"COLORTERM": "24bit", "TERM": "xterm"}, ProfileTrueColor},
		{map[string]string{"TERM": "xterm-256color"}, ProfileANSI256},
		{map[string]string{"TERM": "screen"}, ProfileBasic8},
		{nil, ProfileBasic8},
	}
	for _, tc := range cases {
		if got := DetectProfile(tc.env); got != tc.want {
			t.Fatalf("DetectProfile(%v)=%v want %v", tc.env, got, tc.want)
		}
	}
}

func TestEnvMap(t *testing.T) {
	env := EnvMap([]string{"FOO=bar", "BAZ", "QUX=1=2", "=ignored"})
	if env["FOO"] != "bar" || env["QUX"] != "1=2" {
		t.Fatalf("unexpected values: %v", env)
	}
	if v, ok := env["BAZ"]; !ok || v != "" {
		t.Fatalf("entry without '=' should map to empty value, got %q ok=%t", v, ok)
	}
	if _, ok := env[""]; ok {
		t.Fatal("empty keys should be dropped")
	}
}
