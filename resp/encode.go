package resp

import (
	"bytes"
	"io"
	"math"
	"strconv"
)

// Dialect selects the protocol generation the encoder writes.
type Dialect uint8

const (
	// Dialect2 is the legacy generation: base types only, and no aggregate
	// nesting beyond one level.
	Dialect2 Dialect = 2
	// Dialect3 is the extended generation: the full tag repertoire with no
	// nesting cap.
	Dialect3 Dialect = 3
)

// Encoder writes value trees to a byte sink in one protocol dialect.
// Encoding is fail-fast: the first illegal tag, illegal nesting, or sink
// error aborts with a structured *EncodeError. Output already written before
// the failure stays in the sink.
type Encoder struct {
	w       io.Writer
	dialect Dialect
}

// NewEncoder2 creates an encoder producing legacy (RESP2) output.
func NewEncoder2(w io.Writer) *Encoder {
	return &Encoder{w: w, dialect: Dialect2}
}

// NewEncoder3 creates an encoder producing extended (RESP3) output.
func NewEncoder3(w io.Writer) *Encoder {
	return &Encoder{w: w, dialect: Dialect3}
}

// Dialect returns the dialect this encoder writes.
func (e *Encoder) Dialect() Dialect {
	return e.dialect
}

// Encode writes one value. Errors are always *EncodeError.
func (e *Encoder) Encode(v *Value) error {
	return e.encode(v, 0)
}

func (e *Encoder) encode(v *Value, depth int) error {
	if v == nil {
		return &EncodeError{Kind: EncodeMessage, Message: "nil value"}
	}

	// Depth starts at 0 for the top-level value and increments for every
	// element recursed into from an aggregate. Under the legacy dialect a
	// flat aggregate of scalars is the deepest legal shape.
	if e.dialect == Dialect2 && depth >= 2 {
		return &EncodeError{Kind: EncodeNestedDataNotAllowed}
	}

	switch v.kind {
	case KindSimpleString:
		return e.writeInline(markerSimpleString, v.data)
	case KindError:
		return e.writeInline(markerError, v.data)
	case KindInteger:
		return e.writeInline(markerInteger, strconv.AppendInt(nil, v.num, 10))
	case KindBulkString:
		return e.writeBulk(markerBulkString, v.data)
	case KindNullString:
		return e.write(nullBulk)
	case KindArray:
		if err := e.writeHeader(markerArray, len(v.elems)); err != nil {
			return err
		}
		return e.writeElems(v.elems, depth)
	case KindNullArray:
		return e.write(nullArray)
	}

	if e.dialect == Dialect2 {
		return &EncodeError{Kind: EncodeProtocolError}
	}

	switch v.kind {
	case KindNull:
		return e.writeInline(markerNull, nil)
	case KindBoolean:
		lit := falseLit
		if v.b {
			lit = trueLit
		}
		if err := e.write(lit); err != nil {
			return err
		}
		return e.write(newline)
	case KindDouble:
		return e.writeDouble(v.fl)
	case KindBulkError:
		return e.writeBulk(markerBulkError, v.data)
	case KindVerbatimString:
		return e.writeVerbatim(v.vkind, v.data)
	case KindBigInteger:
		digits, _ := v.BigDigits()
		return e.writeInline(markerBigInteger, digits)
	case KindMap:
		if err := e.writeHeader(markerMap, len(v.pairs)); err != nil {
			return err
		}
		for _, p := range v.pairs {
			if err := e.encode(p.Key, depth+1); err != nil {
				return err
			}
			if err := e.encode(p.Value, depth+1); err != nil {
				return err
			}
		}
		return nil
	case KindSet:
		if err := e.writeHeader(markerSet, len(v.elems)); err != nil {
			return err
		}
		return e.writeElems(v.elems, depth)
	case KindAttribute:
		if err := e.writeHeader(markerAttribute, len(v.elems)); err != nil {
			return err
		}
		if err := e.writeElems(v.elems, depth); err != nil {
			return err
		}
		return e.encode(v.inner, depth+1)
	case KindPush:
		if err := e.writeHeader(markerPush, len(v.elems)); err != nil {
			return err
		}
		return e.writeElems(v.elems, depth)
	case KindHello:
		return e.writeHello(v.hello)
	default:
		return &EncodeError{Kind: EncodeProtocolError}
	}
}

func (e *Encoder) writeElems(elems []*Value, depth int) error {
	for _, elem := range elems {
		if err := e.encode(elem, depth+1); err != nil {
			return err
		}
	}
	return nil
}

// writeInline renders marker + data + terminator.
func (e *Encoder) writeInline(marker byte, data []byte) error {
	if err := e.write([]byte{marker}); err != nil {
		return err
	}
	if len(data) > 0 {
		if err := e.write(data); err != nil {
			return err
		}
	}
	return e.write(newline)
}

// writeBulk renders marker + decimal length + terminator + data + terminator.
func (e *Encoder) writeBulk(marker byte, data []byte) error {
	if err := e.writeHeader(marker, len(data)); err != nil {
		return err
	}
	if err := e.write(data); err != nil {
		return err
	}
	return e.write(newline)
}

// writeHeader renders marker + decimal count + terminator.
func (e *Encoder) writeHeader(marker byte, n int) error {
	buf := append([]byte{marker}, strconv.AppendInt(nil, int64(n), 10)...)
	if err := e.write(buf); err != nil {
		return err
	}
	return e.write(newline)
}

func (e *Encoder) writeDouble(f float64) error {
	switch {
	case math.IsNaN(f):
		if err := e.write(nanLit); err != nil {
			return err
		}
	case math.IsInf(f, 1):
		if err := e.write(infLit); err != nil {
			return err
		}
	case math.IsInf(f, -1):
		if err := e.write(negInfLit); err != nil {
			return err
		}
	default:
		// Shortest round-trip decimal without an exponent.
		return e.writeInline(markerDouble, strconv.AppendFloat(nil, f, 'f', -1, 64))
	}
	return e.write(newline)
}

func (e *Encoder) writeVerbatim(kind, data []byte) error {
	// Declared length covers the three-byte kind tag and separator.
	if err := e.writeHeader(markerVerbatimString, len(data)+verbatimKindLength+1); err != nil {
		return err
	}
	if err := e.write(kind); err != nil {
		return err
	}
	if err := e.write([]byte{verbatimSeparator}); err != nil {
		return err
	}
	if err := e.write(data); err != nil {
		return err
	}
	return e.write(newline)
}

// writeHello renders the textual handshake command. Unlike every other tag
// it is not terminator-delimited.
func (e *Encoder) writeHello(h *Hello) error {
	if err := e.write(helloWord); err != nil {
		return err
	}
	if err := e.write([]byte(" " + h.Version)); err != nil {
		return err
	}
	if h.Auth != nil {
		if err := e.write([]byte{' '}); err != nil {
			return err
		}
		if err := e.write(authWord); err != nil {
			return err
		}
		if err := e.write([]byte(" " + h.Auth.Username + " " + h.Auth.Password)); err != nil {
			return err
		}
	}
	return nil
}

func (e *Encoder) write(p []byte) error {
	if _, err := e.w.Write(p); err != nil {
		return &EncodeError{Kind: EncodeMessage, Err: err}
	}
	return nil
}

// Encode2 renders a value as legacy-dialect bytes.
func Encode2(v *Value) ([]byte, error) {
	var buf bytes.Buffer
	if err := NewEncoder2(&buf).Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Encode3 renders a value as extended-dialect bytes.
func Encode3(v *Value) ([]byte, error) {
	var buf bytes.Buffer
	if err := NewEncoder3(&buf).Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
