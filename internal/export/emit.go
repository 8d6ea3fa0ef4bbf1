package export

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Emitter hands a finished payload to whatever stores it.
type Emitter interface {
	Emit(ctx context.Context, payload []byte, filename string) error
}

// DirEmitter writes the payload to Dir/filename, creating Dir if needed.
type DirEmitter struct {
	Dir string
	// Perm defaults to 0o644.
	Perm os.FileMode
}

func (e DirEmitter) Emit(ctx context.Context, payload []byte, filename string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if strings.TrimSpace(filename) == "" || filepath.Base(filename) != filename {
		return fmt.Errorf("invalid export filename %q", filename)
	}
	path := e.Path(filename)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir %s: %w", filepath.Dir(path), err)
	}
	perm := e.Perm
	if perm == 0 {
		perm = 0o644
	}
	if err := os.WriteFile(path, payload, perm); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// WriterEmitter copies the payload to W and ignores the filename.
type WriterEmitter struct {
	W io.Writer
}

func (e WriterEmitter) Emit(ctx context.Context, payload []byte, _ string) error {
	if e.W == nil {
		return errors.New("no writer configured")
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	_, err := e.W.Write(payload)
	return err
}

// Path reports where a DirEmitter puts filename.
func (e DirEmitter) Path(filename string) string {
	dir := e.Dir
	if dir == "" {
		dir = "."
	}
	return filepath.Join(dir, filename)
}
