package engine

import (
	"fmt"
	"io"
)

// IO is the caller's pair of line sinks: Out receives result lines, Err
// receives failures. The engine never writes anywhere else.
type IO interface {
	Out(line string)
	Err(line string)
}

// WriterIO adapts two io.Writers (typically stdout/stderr) to the IO
// interface.
type WriterIO struct {
	Stdout io.Writer
	Stderr io.Writer
}

func (w WriterIO) Out(line string) { fmt.Fprintln(w.Stdout, line) }
func (w WriterIO) Err(line string) { fmt.Fprintln(w.Stderr, line) }

// BufferIO captures output in memory, for the HTTP API and for tests.
type BufferIO struct {
	Lines  []string
	Errors []string
}

func (b *BufferIO) Out(line string) { b.Lines = append(b.Lines, line) }
func (b *BufferIO) Err(line string) { b.Errors = append(b.Errors, line) }
