package resp

import (
	"fmt"
	"unicode/utf8"
)

// SimpleKind discriminates the collapsed value forms.
type SimpleKind uint8

const (
	SimpleNull SimpleKind = iota
	SimpleBytes
	SimpleText
	SimpleInt
	SimpleList
)

// String returns the kind name.
func (k SimpleKind) String() string {
	switch k {
	case SimpleNull:
		return "null"
	case SimpleBytes:
		return "bytes"
	case SimpleText:
		return "text"
	case SimpleInt:
		return "int"
	case SimpleList:
		return "list"
	default:
		return "unknown"
	}
}

// Simple is the convenience collapse of the full value union into a handful
// of host-friendly kinds: raw bytes, UTF-8 text, a 64-bit integer, a list of
// the same, or null. It always owns its data.
type Simple struct {
	kind  SimpleKind
	data  []byte
	text  string
	n     int64
	items []*Simple
}

// SimpleNullValue creates a null simplified value.
func SimpleNullValue() *Simple {
	return &Simple{kind: SimpleNull}
}

// SimpleBytesValue creates a bytes simplified value.
func SimpleBytesValue(data []byte) *Simple {
	return &Simple{kind: SimpleBytes, data: data}
}

// SimpleTextValue creates a text simplified value.
func SimpleTextValue(text string) *Simple {
	return &Simple{kind: SimpleText, text: text}
}

// SimpleIntValue creates an integer simplified value.
func SimpleIntValue(n int64) *Simple {
	return &Simple{kind: SimpleInt, n: n}
}

// SimpleListValue creates a list simplified value.
func SimpleListValue(items ...*Simple) *Simple {
	return &Simple{kind: SimpleList, items: items}
}

// Kind returns the simplified value's discriminant.
func (s *Simple) Kind() SimpleKind {
	if s == nil {
		return SimpleNull
	}
	return s.kind
}

// IsNull reports whether the simplified value is null.
func (s *Simple) IsNull() bool {
	return s == nil || s.kind == SimpleNull
}

// Bytes returns the payload of a bytes value.
func (s *Simple) Bytes() ([]byte, bool) {
	if s == nil || s.kind != SimpleBytes {
		return nil, false
	}
	return s.data, true
}

// Text returns the payload of a text value.
func (s *Simple) Text() (string, bool) {
	if s == nil || s.kind != SimpleText {
		return "", false
	}
	return s.text, true
}

// Int returns the payload of an integer value.
func (s *Simple) Int() (int64, bool) {
	if s == nil || s.kind != SimpleInt {
		return 0, false
	}
	return s.n, true
}

// List returns the items of a list value.
func (s *Simple) List() ([]*Simple, bool) {
	if s == nil || s.kind != SimpleList {
		return nil, false
	}
	return s.items, true
}

// Equal reports deep structural equality.
func (s *Simple) Equal(o *Simple) bool {
	if s == nil || o == nil {
		return s.IsNull() && o.IsNull()
	}
	if s.kind != o.kind {
		return false
	}
	switch s.kind {
	case SimpleNull:
		return true
	case SimpleBytes:
		return string(s.data) == string(o.data)
	case SimpleText:
		return s.text == o.text
	case SimpleInt:
		return s.n == o.n
	case SimpleList:
		if len(s.items) != len(o.items) {
			return false
		}
		for i := range s.items {
			if !s.items[i].Equal(o.items[i]) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// String renders the simplified value for diagnostics.
func (s *Simple) String() string {
	switch s.Kind() {
	case SimpleNull:
		return "null"
	case SimpleBytes:
		return fmt.Sprintf("%q", s.data)
	case SimpleText:
		return s.text
	case SimpleInt:
		return fmt.Sprintf("%d", s.n)
	case SimpleList:
		out := "["
		for i, item := range s.items {
			if i > 0 {
				out += " "
			}
			out += item.String()
		}
		return out + "]"
	default:
		return "unknown"
	}
}

// Value lifts the simplified value back into the full union: text and bytes
// become bulk strings, null becomes the null bulk string.
func (s *Simple) Value() *Value {
	switch s.Kind() {
	case SimpleBytes:
		return BulkString(s.data)
	case SimpleText:
		return BulkString([]byte(s.text))
	case SimpleInt:
		return Integer(s.n)
	case SimpleList:
		elems := make([]*Value, len(s.items))
		for i, item := range s.items {
			elems[i] = item.Value()
		}
		return Array(elems...)
	default:
		return NullString()
	}
}

// ServerError carries a server-reported error value through the error
// channel of Simplify.
type ServerError struct {
	Value *Simple
}

func (e *ServerError) Error() string {
	return "resp: server error: " + e.Value.String()
}

// Simplify collapses the value tree into the small Simple repertoire. Both
// typed nulls map to the null form; string payloads become text when valid
// UTF-8 and bytes otherwise. Any error-tagged value, including one embedded
// anywhere in an array, short-circuits the whole conversion into a
// *ServerError at the first error encountered. Tags outside the decodable
// subset have no collapsed form and yield a generic conversion error.
func (v *Value) Simplify() (*Simple, error) {
	if v == nil {
		return nil, MessageError("cannot simplify nil value")
	}

	if v.IsNull() {
		return SimpleNullValue(), nil
	}

	if data, ok := v.ErrorBytes(); ok {
		return nil, &ServerError{Value: flattenPayload(data)}
	}

	switch v.kind {
	case KindSimpleString, KindBulkString:
		return flattenPayload(v.data), nil
	case KindInteger:
		return SimpleIntValue(v.num), nil
	case KindArray:
		items := make([]*Simple, len(v.elems))
		for i, elem := range v.elems {
			item, err := elem.Simplify()
			if err != nil {
				return nil, err
			}
			items[i] = item
		}
		return SimpleListValue(items...), nil
	default:
		return nil, MessageError(fmt.Sprintf("cannot simplify %s value", v.kind))
	}
}

// ParseSimple decodes one value from wire bytes and collapses it in a
// single step. A server-reported error comes back as *ServerError, a
// malformed stream as *ParseError.
func ParseSimple(data []byte) (*Simple, error) {
	v, err := Parse(data)
	if err != nil {
		return nil, err
	}
	return v.Simplify()
}

func flattenPayload(data []byte) *Simple {
	if utf8.Valid(data) {
		return SimpleTextValue(string(data))
	}
	return SimpleBytesValue(data)
}
