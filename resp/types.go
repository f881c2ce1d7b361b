package resp

import (
	"bytes"
	"fmt"
	"math"
	"math/big"
	"unicode/utf8"
)

// Kind discriminates the tags of the Value union.
type Kind uint8

const (
	KindSimpleString Kind = iota
	KindError
	KindInteger
	KindBulkString
	KindNullString
	KindArray
	KindNullArray
	KindNull
	KindDouble
	KindBoolean
	KindBulkError
	KindVerbatimString
	KindBigInteger
	KindMap
	KindSet
	KindAttribute
	KindPush
	KindHello
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindSimpleString:
		return "simple string"
	case KindError:
		return "error"
	case KindInteger:
		return "integer"
	case KindBulkString:
		return "bulk string"
	case KindNullString:
		return "null string"
	case KindArray:
		return "array"
	case KindNullArray:
		return "null array"
	case KindNull:
		return "null"
	case KindDouble:
		return "double"
	case KindBoolean:
		return "boolean"
	case KindBulkError:
		return "bulk error"
	case KindVerbatimString:
		return "verbatim string"
	case KindBigInteger:
		return "big integer"
	case KindMap:
		return "map"
	case KindSet:
		return "set"
	case KindAttribute:
		return "attribute"
	case KindPush:
		return "push"
	case KindHello:
		return "hello"
	default:
		return "unknown"
	}
}

// Pair is one key/value entry of a Map. Entries preserve declaration order;
// no deduplication is ever applied.
type Pair struct {
	Key   *Value
	Value *Value
}

// Hello describes the RESP3 handshake command: a protocol version and an
// optional credential pair.
type Hello struct {
	Version string
	Auth    *HelloAuth
}

// HelloAuth is the optional AUTH clause of a Hello.
type HelloAuth struct {
	Username string
	Password string
}

// Value is a tagged union over every wire type of both protocol dialects.
//
// A Value produced by the parser aliases the parsed input buffer: its byte
// payloads are subslices of that buffer and must not outlive or mutate it.
// Detach converts such a view into an independently owned copy. Values are
// read-only after construction.
type Value struct {
	kind  Kind
	data  []byte   // simple string, error, bulk string, bulk error, verbatim payload, big integer digits
	vkind []byte   // verbatim string three-byte kind tag
	num   int64    // integer
	fl    float64  // double
	b     bool     // boolean
	big   *big.Int // big integer, detached form only
	elems []*Value // array, set, push, attribute entries
	pairs []Pair   // map
	inner *Value   // attribute carried value
	hello *Hello
}

// ============================================================
// Constructors
// ============================================================

// SimpleString creates a simple string value. The data is referenced, not
// copied.
func SimpleString(data []byte) *Value {
	return &Value{kind: KindSimpleString, data: data}
}

// Error creates an error value.
func Error(data []byte) *Value {
	return &Value{kind: KindError, data: data}
}

// Integer creates an integer value.
func Integer(n int64) *Value {
	return &Value{kind: KindInteger, num: n}
}

// BulkString creates a bulk string value.
func BulkString(data []byte) *Value {
	return &Value{kind: KindBulkString, data: data}
}

// NullString creates the null bulk string sentinel. Distinct from an empty
// bulk string.
func NullString() *Value {
	return &Value{kind: KindNullString}
}

// Array creates an array value.
func Array(elems ...*Value) *Value {
	return &Value{kind: KindArray, elems: elems}
}

// NullArray creates the null array sentinel. Distinct from an empty array.
func NullArray() *Value {
	return &Value{kind: KindNullArray}
}

// Null creates the RESP3 plain null value.
func Null() *Value {
	return &Value{kind: KindNull}
}

// Double creates a double value. NaN and the infinities are representable
// and render as fixed wire literals.
func Double(f float64) *Value {
	return &Value{kind: KindDouble, fl: f}
}

// Boolean creates a boolean value.
func Boolean(b bool) *Value {
	return &Value{kind: KindBoolean, b: b}
}

// BulkError creates a bulk error value.
func BulkError(data []byte) *Value {
	return &Value{kind: KindBulkError, data: data}
}

// VerbatimString creates a verbatim string with a three-byte kind tag such
// as "txt" or "mkd".
func VerbatimString(kind, data []byte) *Value {
	return &Value{kind: KindVerbatimString, vkind: kind, data: data}
}

// BigInteger creates a big integer value in detached form.
func BigInteger(n *big.Int) *Value {
	return &Value{kind: KindBigInteger, big: n}
}

// BigIntegerDigits creates a big integer value from pre-rendered decimal
// digit bytes (sign included) without parsing them. Detach parses the digits
// and fails if they are not a valid decimal integer.
func BigIntegerDigits(digits []byte) *Value {
	return &Value{kind: KindBigInteger, data: digits}
}

// Map creates a map value from ordered key/value pairs.
func Map(pairs ...Pair) *Value {
	return &Value{kind: KindMap, pairs: pairs}
}

// Set creates a set value. Elements keep declaration order and are never
// deduplicated.
func Set(elems ...*Value) *Value {
	return &Value{kind: KindSet, elems: elems}
}

// Attribute creates an attribute value: side-channel metadata entries
// carried alongside one data value. The attrs sequence is a flat list, not
// pairs.
func Attribute(attrs []*Value, data *Value) *Value {
	return &Value{kind: KindAttribute, elems: attrs, inner: data}
}

// Push creates an out-of-band push message.
func Push(elems ...*Value) *Value {
	return &Value{kind: KindPush, elems: elems}
}

// HelloValue creates a HELLO handshake value.
func HelloValue(h Hello) *Value {
	return &Value{kind: KindHello, hello: &h}
}

// ============================================================
// Accessors
// ============================================================

// Kind returns the value's discriminant.
func (v *Value) Kind() Kind {
	if v == nil {
		return KindNull
	}
	return v.kind
}

// IsNull reports whether the value is one of the two typed null sentinels
// (null bulk string or null array). The RESP3 plain null has its own tag and
// is not covered here, matching the wire model's distinction.
func (v *Value) IsNull() bool {
	return v != nil && (v.kind == KindNullString || v.kind == KindNullArray)
}

// Bytes returns the payload of a simple string or bulk string.
func (v *Value) Bytes() ([]byte, bool) {
	if v == nil {
		return nil, false
	}
	switch v.kind {
	case KindSimpleString, KindBulkString:
		return v.data, true
	}
	return nil, false
}

// Text returns the payload of a simple string or bulk string when it is
// valid UTF-8.
func (v *Value) Text() (string, bool) {
	data, ok := v.Bytes()
	if !ok || !utf8.Valid(data) {
		return "", false
	}
	return string(data), true
}

// ErrorBytes returns the payload of an error value.
func (v *Value) ErrorBytes() ([]byte, bool) {
	if v == nil || v.kind != KindError {
		return nil, false
	}
	return v.data, true
}

// ErrorText returns the payload of an error value when it is valid UTF-8.
func (v *Value) ErrorText() (string, bool) {
	data, ok := v.ErrorBytes()
	if !ok || !utf8.Valid(data) {
		return "", false
	}
	return string(data), true
}

// Int returns the payload of an integer value.
func (v *Value) Int() (int64, bool) {
	if v == nil || v.kind != KindInteger {
		return 0, false
	}
	return v.num, true
}

// Double returns the payload of a double value.
func (v *Value) Double() (float64, bool) {
	if v == nil || v.kind != KindDouble {
		return 0, false
	}
	return v.fl, true
}

// Bool returns the payload of a boolean value.
func (v *Value) Bool() (bool, bool) {
	if v == nil || v.kind != KindBoolean {
		return false, false
	}
	return v.b, true
}

// Elems returns the elements of an array, set, or push value.
func (v *Value) Elems() ([]*Value, bool) {
	if v == nil {
		return nil, false
	}
	switch v.kind {
	case KindArray, KindSet, KindPush:
		return v.elems, true
	}
	return nil, false
}

// Pairs returns the ordered entries of a map value.
func (v *Value) Pairs() ([]Pair, bool) {
	if v == nil || v.kind != KindMap {
		return nil, false
	}
	return v.pairs, true
}

// Attribute returns the metadata entries and carried value of an attribute.
func (v *Value) Attribute() (attrs []*Value, data *Value, ok bool) {
	if v == nil || v.kind != KindAttribute {
		return nil, nil, false
	}
	return v.elems, v.inner, true
}

// Verbatim returns the kind tag and payload of a verbatim string.
func (v *Value) Verbatim() (kind, data []byte, ok bool) {
	if v == nil || v.kind != KindVerbatimString {
		return nil, nil, false
	}
	return v.vkind, v.data, true
}

// BigInt returns the big integer payload. For a view-form value holding
// unparsed digits the second result is false; Detach materializes the
// *big.Int.
func (v *Value) BigInt() (*big.Int, bool) {
	if v == nil || v.kind != KindBigInteger || v.big == nil {
		return nil, false
	}
	return v.big, true
}

// BigDigits returns the decimal digit rendering of a big integer.
func (v *Value) BigDigits() ([]byte, bool) {
	if v == nil || v.kind != KindBigInteger {
		return nil, false
	}
	if v.big != nil {
		return []byte(v.big.Text(10)), true
	}
	return v.data, true
}

// Hello returns the handshake payload of a hello value.
func (v *Value) Hello() (Hello, bool) {
	if v == nil || v.kind != KindHello || v.hello == nil {
		return Hello{}, false
	}
	return *v.hello, true
}

// ============================================================
// Detach
// ============================================================

// Detach deep-copies the value into a form that owns all of its data and no
// longer references the buffer it was parsed from. For big integers the
// digit view is parsed into an arbitrary-precision integer; invalid digits
// fail the whole detach, since they can only arise from a corrupted
// programmatic construction, never from validated parser output.
func (v *Value) Detach() (*Value, error) {
	if v == nil {
		return nil, nil
	}

	out := &Value{kind: v.kind, num: v.num, fl: v.fl, b: v.b}

	if v.data != nil {
		out.data = append([]byte(nil), v.data...)
	}
	if v.vkind != nil {
		out.vkind = append([]byte(nil), v.vkind...)
	}
	if v.hello != nil {
		h := *v.hello
		if v.hello.Auth != nil {
			auth := *v.hello.Auth
			h.Auth = &auth
		}
		out.hello = &h
	}

	if v.kind == KindBigInteger {
		if v.big != nil {
			out.big = new(big.Int).Set(v.big)
			out.data = nil
		} else {
			n, ok := new(big.Int).SetString(string(v.data), 10)
			if !ok {
				return nil, fmt.Errorf("resp: detach: invalid big integer digits %q", v.data)
			}
			out.big = n
			out.data = nil
		}
	}

	if v.elems != nil {
		out.elems = make([]*Value, len(v.elems))
		for i, e := range v.elems {
			d, err := e.Detach()
			if err != nil {
				return nil, err
			}
			out.elems[i] = d
		}
	}
	if v.pairs != nil {
		out.pairs = make([]Pair, len(v.pairs))
		for i, p := range v.pairs {
			k, err := p.Key.Detach()
			if err != nil {
				return nil, err
			}
			val, err := p.Value.Detach()
			if err != nil {
				return nil, err
			}
			out.pairs[i] = Pair{Key: k, Value: val}
		}
	}
	if v.inner != nil {
		d, err := v.inner.Detach()
		if err != nil {
			return nil, err
		}
		out.inner = d
	}

	return out, nil
}

// ============================================================
// Equality
// ============================================================

// Equal reports deep structural equality. Aggregate comparison is
// order-sensitive; doubles compare by bit pattern so NaN equals NaN and
// negative zero differs from zero, keeping equality total and consistent
// with the order-preserving map/set model.
func (v *Value) Equal(o *Value) bool {
	if v == nil || o == nil {
		return v == o
	}
	if v.kind != o.kind {
		return false
	}

	switch v.kind {
	case KindSimpleString, KindError, KindBulkString, KindBulkError:
		return bytes.Equal(v.data, o.data)
	case KindInteger:
		return v.num == o.num
	case KindNullString, KindNullArray, KindNull:
		return true
	case KindDouble:
		return math.Float64bits(v.fl) == math.Float64bits(o.fl)
	case KindBoolean:
		return v.b == o.b
	case KindVerbatimString:
		return bytes.Equal(v.vkind, o.vkind) && bytes.Equal(v.data, o.data)
	case KindBigInteger:
		vd, _ := v.BigDigits()
		od, _ := o.BigDigits()
		return bytes.Equal(vd, od)
	case KindArray, KindSet, KindPush:
		return equalElems(v.elems, o.elems)
	case KindMap:
		if len(v.pairs) != len(o.pairs) {
			return false
		}
		for i := range v.pairs {
			if !v.pairs[i].Key.Equal(o.pairs[i].Key) || !v.pairs[i].Value.Equal(o.pairs[i].Value) {
				return false
			}
		}
		return true
	case KindAttribute:
		return equalElems(v.elems, o.elems) && v.inner.Equal(o.inner)
	case KindHello:
		if v.hello.Version != o.hello.Version {
			return false
		}
		if (v.hello.Auth == nil) != (o.hello.Auth == nil) {
			return false
		}
		return v.hello.Auth == nil || *v.hello.Auth == *o.hello.Auth
	default:
		return false
	}
}

func equalElems(a, b []*Value) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].Equal(b[i]) {
			return false
		}
	}
	return true
}
