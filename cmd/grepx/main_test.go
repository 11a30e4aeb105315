package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

const poem = "I'm nobody! Who are you?\nAre you nobody, too?\nThen there's a pair of us - don't tell!\nThey'd banish us, you know.\n"

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

// baseEnv isolates the run from the caller's config files and terminal.
func baseEnv(t *testing.T, extra ...string) []string {
	home := t.TempDir()
	env := []string{
		"HOME=" + home,
		"XDG_CONFIG_HOME=" + filepath.Join(home, ".config"),
		"GREPX_PROGRESS=0",
		"TERM=xterm",
	}
	return append(env, extra...)
}

func runCLI(t *testing.T, env []string, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := run(context.Background(), args, env, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestRunPrintsMatchingLines(t *testing.T) {
	path := writeFile(t, t.TempDir(), "poem.txt", poem)
	code, out, errOut := runCLI(t, baseEnv(t), "nobody", path)
	if code != exitOK {
		t.Fatalf("exit=%d stderr=%s", code, errOut)
	}
	want := "I'm nobody! Who are you?\nAre you nobody, too?\n"
	if diff := cmp.Diff(want, out); diff != "" {
		t.Fatalf("stdout mismatch (-want +got):\n%s", diff)
	}
	if errOut != "" {
		t.Fatalf("stderr should be empty, got %q", errOut)
	}
}

func TestRunNoMatchesIsSuccess(t *testing.T) {
	path := writeFile(t, t.TempDir(), "poem.txt", poem)
	code, out, _ := runCLI(t, baseEnv(t), "Nobody", path)
	if code != exitOK || out != "" {
		t.Fatalf("case-sensitive miss should print nothing and exit 0: code=%d out=%q", code, out)
	}
}

func TestRunMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.txt")
	code, out, errOut := runCLI(t, baseEnv(t), "x", path)
	if code != exitFailure {
		t.Fatalf("expected exit %d, got %d", exitFailure, code)
	}
	if out != "" {
		t.Fatalf("nothing should reach stdout, got %q", out)
	}
	if !strings.HasPrefix(errOut, "grepx: could not read file") || !strings.Contains(errOut, path) {
		t.Fatalf("diagnostic should mention the path: %q", errOut)
	}
}

func TestRunUsageErrors(t *testing.T) {
	for _, args := range [][]string{nil, {"only"}, {"a", "b", "c"}, {"--nope", "a", "b"}} {
		code, out, errOut := runCLI(t, baseEnv(t), args...)
		if code != exitUsage {
			t.Fatalf("args %q: expected exit %d, got %d", args, exitUsage, code)
		}
		if out != "" || !strings.Contains(errOut, "--help") {
			t.Fatalf("args %q: usage hint expected on stderr, got out=%q err=%q", args, out, errOut)
		}
	}
}

func TestRunHelp(t *testing.T) {
	code, out, _ := runCLI(t, baseEnv(t), "--help")
	if code != exitOK {
		t.Fatalf("help should exit 0, got %d", code)
	}
	if !strings.Contains(out, "grepx [flags] PATTERN PATH") {
		t.Fatalf("help output missing usage line: %s", out)
	}
}

func TestRunColorAlways(t *testing.T) {
	path := writeFile(t, t.TempDir(), "poem.txt", poem)
	code, out, errOut := runCLI(t, baseEnv(t, "NO_COLOR=1"), "--color=always", "--highlight", "red", "banish", path)
	if code != exitOK {
		t.Fatalf("exit=%d stderr=%s", code, errOut)
	}
	want := "\x1b[31mThey'd banish us, you know.\x1b[0m\n"
	if diff := cmp.Diff(want, out); diff != "" {
		t.Fatalf("painted output mismatch (-want +got):\n%s", diff)
	}
}

func TestRunColorAutoOffWhenPiped(t *testing.T) {
	path := writeFile(t, t.TempDir(), "poem.txt", poem)
	_, out, _ := runCLI(t, baseEnv(t, "FORCE_COLOR=1"), "banish", path)
	if strings.Contains(out, "\x1b[") {
		t.Fatalf("auto mode should not paint a non-file writer: %q", out)
	}
}

func TestRunInvalidHighlight(t *testing.T) {
	path := writeFile(t, t.TempDir(), "poem.txt", poem)
	code, _, errOut := runCLI(t, baseEnv(t), "--highlight", "mauve", "x", path)
	if code != exitUsage || !strings.Contains(errOut, "highlight") {
		t.Fatalf("expected usage error for bad highlight: code=%d err=%q", code, errOut)
	}
}

func TestRunNDJSON(t *testing.T) {
	path := writeFile(t, t.TempDir(), "poem.txt", poem)
	code, out, errOut := runCLI(t, baseEnv(t), "-o", "ndjson", "us", path)
	if code != exitOK {
		t.Fatalf("exit=%d stderr=%s", code, errOut)
	}
	lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 records, got %q", out)
	}
	var rec struct {
		Path  string `json:"path"`
		Match int    `json:"match"`
		Text  string `json:"text"`
	}
	if err := json.Unmarshal([]byte(lines[1]), &rec); err != nil {
		t.Fatalf("invalid JSON %q: %v", lines[1], err)
	}
	if rec.Path != path || rec.Match != 2 || rec.Text != "They'd banish us, you know." {
		t.Fatalf("unexpected record: %+v", rec)
	}
}

func TestRunMaxColumns(t *testing.T) {
	path := writeFile(t, t.TempDir(), "poem.txt", poem)
	code, out, _ := runCLI(t, baseEnv(t), "-M", "8", "nobody", path)
	if code != exitOK {
		t.Fatalf("exit=%d", code)
	}
	if out != "I'm nob…\nAre you…\n" {
		t.Fatalf("clipped output mismatch: %q", out)
	}
}

func TestRunConfigPrecedence(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "poem.txt", poem)
	cfgPath := writeFile(t, dir, "grepx.toml", "output = \"ndjson\"\nmax_columns = 5\n")

	_, out, errOut := runCLI(t, baseEnv(t), "-c", cfgPath, "banish", path)
	if !strings.HasPrefix(out, "{") {
		t.Fatalf("config file should select ndjson: out=%q err=%q", out, errOut)
	}

	_, out, _ = runCLI(t, baseEnv(t, "GREPX_OUTPUT=text"), "-c", cfgPath, "banish", path)
	if out != "They…\n" {
		t.Fatalf("env should override the file and keep its max_columns: %q", out)
	}

	_, out, _ = runCLI(t, baseEnv(t, "GREPX_OUTPUT=text", "GREPX_CONFIG="+cfgPath), "-M", "0", "banish", path)
	if out != "They'd banish us, you know.\n" {
		t.Fatalf("flag should override the file: %q", out)
	}
}

func TestRunConfigErrors(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "poem.txt", poem)
	bad := writeFile(t, dir, "bad.yaml", "shade: blue\n")

	code, _, errOut := runCLI(t, baseEnv(t), "-c", bad, "x", path)
	if code != exitFailure || !strings.Contains(errOut, "shade") {
		t.Fatalf("unknown config key should fail: code=%d err=%q", code, errOut)
	}

	code, _, errOut = runCLI(t, baseEnv(t, "GREPX_MAX_COLUMNS=lots", "GREPX_PROGRESS=maybe"), "x", path)
	if code != exitFailure {
		t.Fatalf("bad env should fail with %d, got %d", exitFailure, code)
	}
	if !strings.Contains(errOut, "GREPX_MAX_COLUMNS") || !strings.Contains(errOut, "GREPX_PROGRESS") {
		t.Fatalf("every bad env value should be reported: %q", errOut)
	}

	code, _, _ = runCLI(t, baseEnv(t, "GREPX_COLOR=sometimes"), "x", path)
	if code != exitUsage {
		t.Fatalf("invalid color value should be a usage error, got %d", code)
	}

	code, _, _ = runCLI(t, baseEnv(t, "GREPX_LOG=loud"), "x", path)
	if code != exitUsage {
		t.Fatalf("invalid log level should be a usage error, got %d", code)
	}
}

func TestRunLogLevelInfo(t *testing.T) {
	path := writeFile(t, t.TempDir(), "poem.txt", poem)
	code, _, errOut := runCLI(t, baseEnv(t, "GREPX_LOG=info"), "nobody", path)
	if code != exitOK {
		t.Fatalf("exit=%d", code)
	}
	if !strings.Contains(errOut, "grepx: info: 2 matching lines") {
		t.Fatalf("info log should report the match count: %q", errOut)
	}
}

var errClosed = errors.New("broken pipe")

type closedWriter struct{}

func (closedWriter) Write([]byte) (int, error) { return 0, errClosed }

func TestRunWriteFailure(t *testing.T) {
	path := writeFile(t, t.TempDir(), "poem.txt", poem)
	var stderr bytes.Buffer
	code := run(context.Background(), []string{"nobody", path}, baseEnv(t), closedWriter{}, &stderr)
	if code != exitFailure {
		t.Fatalf("write failure should exit %d, got %d", exitFailure, code)
	}
	if !strings.Contains(stderr.String(), "write output: ") || !strings.Contains(stderr.String(), "broken pipe") {
		t.Fatalf("diagnostic should describe the write failure: %q", stderr.String())
	}
}

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (s *syncBuffer) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.buf.Write(p)
}

func (s *syncBuffer) String() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.buf.String()
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(10 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatal("timed out waiting for condition")
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestRunWatchRescansOnChange(t *testing.T) {
	path := writeFile(t, t.TempDir(), "log.txt", "ok 1\n")
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var stdout, stderr syncBuffer
	done := make(chan int, 1)
	go func() {
		done <- run(ctx, []string{"--watch", "100ms", "ok", path}, baseEnv(t), &stdout, &stderr)
	}()

	waitFor(t, func() bool { return stdout.String() == "ok 1\n" })

	next := writeFile(t, t.TempDir(), "next.txt", "ok 1\nok 2\n")
	later := time.Now().Add(time.Minute)
	if err := os.Chtimes(next, later, later); err != nil {
		t.Fatalf("chtimes: %v", err)
	}
	if err := os.Rename(next, path); err != nil {
		t.Fatalf("rename: %v", err)
	}
	waitFor(t, func() bool { return stdout.String() == "ok 1\nok 1\nok 2\n" })

	cancel()
	select {
	case code := <-done:
		if code != exitInterrupted {
			t.Fatalf("interrupted watch should exit %d, got %d (stderr=%q)", exitInterrupted, code, stderr.String())
		}
	case <-time.After(10 * time.Second):
		t.Fatal("watch did not stop after cancel")
	}
}

func TestRunInterruptedBeforeScan(t *testing.T) {
	path := writeFile(t, t.TempDir(), "poem.txt", poem)
	for _, args := range [][]string{
		{"nobody", path},
		{"-w", "1s", "nobody", path},
	} {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		var stdout, stderr bytes.Buffer
		code := run(ctx, args, baseEnv(t), &stdout, &stderr)
		if code != exitInterrupted {
			t.Fatalf("%v: exit=%d want %d stderr=%s", args, code, exitInterrupted, stderr.String())
		}
		if stderr.Len() != 0 {
			t.Fatalf("%v: interrupt should be silent, got %q", args, stderr.String())
		}
	}
}

func TestRunWatchRejectsTinyInterval(t *testing.T) {
	path := writeFile(t, t.TempDir(), "log.txt", "ok\n")
	code, _, errOut := runCLI(t, baseEnv(t), "--watch", "1ms", "ok", path)
	if code != exitUsage || !strings.Contains(errOut, "watch interval") {
		t.Fatalf("tiny interval should be rejected: code=%d err=%q", code, errOut)
	}
}
