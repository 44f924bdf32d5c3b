package report

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/nao1215/scopecrawl/internal/model"
)

// Emitter receives statistics snapshots.
type Emitter interface {
	Emit(snap model.Snapshot) error
}

// FileEmitter renders each snapshot with a Writer and replaces the file at
// path with the result.
type FileEmitter struct {
	path      string
	newWriter func(io.Writer) Writer
}

// NewFileEmitter creates a FileEmitter writing to path with the Writer
// returned by newWriter.
func NewFileEmitter(path string, newWriter func(io.Writer) Writer) *FileEmitter {
	return &FileEmitter{path: path, newWriter: newWriter}
}

// NewTextFileEmitter creates a FileEmitter producing the plain-text report.
func NewTextFileEmitter(path string, opts ...TextWriterOption) *FileEmitter {
	return NewFileEmitter(path, func(w io.Writer) Writer {
		return NewTextWriter(w, opts...)
	})
}

// NewMarkdownFileEmitter creates a FileEmitter producing the Markdown report.
func NewMarkdownFileEmitter(path string) *FileEmitter {
	return NewFileEmitter(path, func(w io.Writer) Writer {
		return NewMarkdownWriter(w)
	})
}

// Path returns the destination file.
func (e *FileEmitter) Path() string {
	return e.path
}

// Emit overwrites the file with the rendered snapshot.
func (e *FileEmitter) Emit(snap model.Snapshot) error {
	var buf bytes.Buffer
	if _, err := e.newWriter(&buf).Write(snap); err != nil {
		return fmt.Errorf("render report %s: %w", e.path, err)
	}

	if dir := filepath.Dir(e.path); dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("create report directory %s: %w", dir, err)
		}
	}

	if err := os.WriteFile(e.path, buf.Bytes(), 0600); err != nil {
		return fmt.Errorf("write report %s: %w", e.path, err)
	}
	return nil
}

// MultiEmitter calls every emitter and joins their errors.
type MultiEmitter struct {
	emitters []Emitter
}

// NewMultiEmitter creates an Emitter fanning out to emitters.
func NewMultiEmitter(emitters ...Emitter) *MultiEmitter {
	return &MultiEmitter{emitters: emitters}
}

// Emit calls every emitter even when an earlier one fails.
func (m *MultiEmitter) Emit(snap model.Snapshot) error {
	var errs []error
	for _, e := range m.emitters {
		if err := e.Emit(snap); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
