// Package source loads the text to be searched into memory.
package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/phyten/grepx/internal/progress"
)

const chunkSize = 64 * 1024

// ErrIsDirectory is returned when the path names a directory.
var ErrIsDirectory = errors.New("is a directory")

// ReadError reports a failure to obtain the content of Path.
type ReadError struct {
	Path string
	Err  error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("could not read file %q: %v", e.Path, e.Err)
}

func (e *ReadError) Unwrap() error { return e.Err }

// Read returns the full content of path. Bytes read are reported to obs;
// a nil observer disables reporting. Cancelling ctx aborts the read.
func Read(ctx context.Context, path string, obs progress.Observer) (string, error) {
	if strings.TrimSpace(path) == "" {
		return "", &ReadError{Path: path, Err: os.ErrNotExist}
	}
	f, err := os.Open(path)
	if err != nil {
		return "", &ReadError{Path: path, Err: unwrapPathError(err)}
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return "", &ReadError{Path: path, Err: unwrapPathError(err)}
	}
	if info.IsDir() {
		return "", &ReadError{Path: path, Err: ErrIsDirectory}
	}

	total := info.Size()
	if !info.Mode().IsRegular() {
		total = -1
	}
	rep := progress.NewReporter(filepath.Base(path), total, progress.Config{}, obs)
	defer rep.Finish()

	var b strings.Builder
	if total > 0 {
		b.Grow(int(total))
	}
	r := progress.NewReader(f, rep)
	buf := make([]byte, chunkSize)
	for {
		if err := ctx.Err(); err != nil {
			return "", &ReadError{Path: path, Err: err}
		}
		n, err := r.Read(buf)
		b.Write(buf[:n])
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return "", &ReadError{Path: path, Err: err}
		}
	}
	return b.String(), nil
}

// Stat describes the file state used to detect changes between reads.
type Stat struct {
	Size    int64
	ModUnix int64
}

// StatOf returns the current Stat of path.
func StatOf(path string) (Stat, error) {
	info, err := os.Stat(path)
	if err != nil {
		return Stat{}, &ReadError{Path: path, Err: unwrapPathError(err)}
	}
	return Stat{Size: info.Size(), ModUnix: info.ModTime().UnixNano()}, nil
}

// unwrapPathError drops the *fs.PathError layer so ReadError does not
// repeat the path.
func unwrapPathError(err error) error {
	var pe *os.PathError
	if errors.As(err, &pe) {
		return pe.Err
	}
	return err
}
