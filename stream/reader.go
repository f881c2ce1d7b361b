// Package stream reads and writes protocol values over byte streams such as
// network connections and capture files.
//
// Unlike the core codec, which operates on a complete in-memory buffer, this
// package consumes input incrementally and returns values that own their
// data. It is the layer that faces untrusted network peers, so it enforces
// the ceilings the core deliberately leaves to callers: a maximum declared
// payload size and a maximum nesting depth.
package stream

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/redkite/resp/resp"
)

// Default resource ceilings for a Reader.
const (
	DefaultMaxBulkLen = 64 << 20 // 64 MiB
	DefaultMaxDepth   = 64
)

// Reader failure sentinels, wrapped in the returned errors.
var (
	ErrBulkTooLarge = errors.New("declared bulk length exceeds limit")
	ErrTooDeep      = errors.New("nesting exceeds depth limit")
)

// Reader reads whole protocol values from a byte stream. It decodes the same
// marker subset the core parser does.
type Reader struct {
	r          *bufio.Reader
	maxBulkLen int64
	maxDepth   int
}

// ReaderOption configures a Reader.
type ReaderOption func(*Reader)

// WithMaxBulkLen caps the declared payload length accepted for a single
// bulk string (default: 64 MiB).
func WithMaxBulkLen(n int64) ReaderOption {
	return func(r *Reader) {
		r.maxBulkLen = n
	}
}

// WithMaxDepth caps aggregate nesting (default: 64). The wire dialects place
// no bound of their own, so adversarially deep input is cut off here.
func WithMaxDepth(n int) ReaderOption {
	return func(r *Reader) {
		r.maxDepth = n
	}
}

// NewReader creates a value reader over r.
func NewReader(r io.Reader, opts ...ReaderOption) *Reader {
	reader := &Reader{
		r:          bufio.NewReader(r),
		maxBulkLen: DefaultMaxBulkLen,
		maxDepth:   DefaultMaxDepth,
	}
	for _, opt := range opts {
		opt(reader)
	}
	return reader
}

// Next reads and returns the next value. The value owns its data; it does
// not alias the reader's buffer. Returns io.EOF on a clean end of stream
// between values.
func (r *Reader) Next() (*resp.Value, error) {
	return r.readValue(0)
}

func (r *Reader) readValue(depth int) (*resp.Value, error) {
	if depth > r.maxDepth {
		return nil, fmt.Errorf("stream: %w (%d)", ErrTooDeep, r.maxDepth)
	}

	line, err := r.readLine(depth == 0)
	if err != nil {
		return nil, err
	}
	if len(line) == 0 {
		return nil, fmt.Errorf("stream: empty line where a value was expected")
	}

	marker, rest := line[0], line[1:]
	switch marker {
	case '+':
		return resp.SimpleString(rest), nil
	case '-':
		return resp.Error(rest), nil
	case ':':
		n, err := strconv.ParseInt(string(rest), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("stream: invalid integer %q: %w", rest, err)
		}
		return resp.Integer(n), nil
	case '$':
		return r.readBulk(rest)
	case '*':
		size, err := parseSize(rest)
		if err != nil {
			return nil, err
		}
		if size == -1 {
			return resp.NullArray(), nil
		}
		var elems []*resp.Value
		for i := int64(0); i < size; i++ {
			elem, err := r.readValue(depth + 1)
			if err != nil {
				if err == io.EOF {
					err = io.ErrUnexpectedEOF
				}
				return nil, err
			}
			elems = append(elems, elem)
		}
		return resp.Array(elems...), nil
	default:
		return nil, fmt.Errorf("stream: unknown marker %q", marker)
	}
}

func (r *Reader) readBulk(sizeText []byte) (*resp.Value, error) {
	size, err := parseSize(sizeText)
	if err != nil {
		return nil, err
	}
	if size == -1 {
		return resp.NullString(), nil
	}
	if size > r.maxBulkLen {
		return nil, fmt.Errorf("stream: %w: %d > %d", ErrBulkTooLarge, size, r.maxBulkLen)
	}

	// The declared length is authoritative on a stream: read exactly that
	// many payload bytes plus the trailing terminator.
	payload := make([]byte, size+2)
	if _, err := io.ReadFull(r.r, payload); err != nil {
		if err == io.EOF {
			err = io.ErrUnexpectedEOF
		}
		return nil, fmt.Errorf("stream: read bulk payload: %w", err)
	}
	if payload[size] != '\r' || payload[size+1] != '\n' {
		return nil, fmt.Errorf("stream: bulk payload not followed by terminator")
	}
	return resp.BulkString(payload[:size]), nil
}

// readLine reads one CRLF-terminated line, excluding the terminator. A clean
// EOF before any byte of a top-level value maps to io.EOF; anywhere else the
// stream was cut mid-value.
func (r *Reader) readLine(top bool) ([]byte, error) {
	line, err := r.r.ReadBytes('\n')
	if err != nil {
		if err == io.EOF {
			if top && len(line) == 0 {
				return nil, io.EOF
			}
			return nil, fmt.Errorf("stream: truncated value: %w", io.ErrUnexpectedEOF)
		}
		return nil, fmt.Errorf("stream: read line: %w", err)
	}
	if len(line) < 2 || line[len(line)-2] != '\r' {
		return nil, fmt.Errorf("stream: line not terminated by CRLF")
	}
	return line[:len(line)-2], nil
}

func parseSize(text []byte) (int64, error) {
	size, err := strconv.ParseInt(string(text), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("stream: invalid size %q: %w", text, err)
	}
	if size < -1 {
		return 0, fmt.Errorf("stream: invalid size %d", size)
	}
	return size, nil
}
