package stream

import (
	"bufio"
	"io"

	"github.com/redkite/resp/resp"
)

// Writer writes protocol values to a byte stream through a buffered,
// dialect-bound encoder.
type Writer struct {
	bw  *bufio.Writer
	enc *resp.Encoder
}

// NewWriter creates a value writer over w speaking the given dialect.
func NewWriter(w io.Writer, dialect resp.Dialect) *Writer {
	bw := bufio.NewWriter(w)
	enc := resp.NewEncoder2(bw)
	if dialect == resp.Dialect3 {
		enc = resp.NewEncoder3(bw)
	}
	return &Writer{bw: bw, enc: enc}
}

// Write encodes one value into the buffer. Call Flush to push buffered
// bytes to the underlying stream.
func (w *Writer) Write(v *resp.Value) error {
	return w.enc.Encode(v)
}

// WriteCommand encodes a client command: an array of bulk strings, one per
// argument, which is the request shape both dialects share.
func (w *Writer) WriteCommand(args ...string) error {
	elems := make([]*resp.Value, len(args))
	for i, arg := range args {
		elems[i] = resp.BulkString([]byte(arg))
	}
	return w.enc.Encode(resp.Array(elems...))
}

// Flush writes buffered bytes to the underlying stream.
func (w *Writer) Flush() error {
	return w.bw.Flush()
}
