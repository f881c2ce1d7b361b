// Package bind maps protocol values onto native Go values and back.
//
// It is an adapter over the codec core's narrow surface: the stepwise
// parser, the non-consuming kind lookahead, and detach. Nothing here reaches
// into wire bytes directly.
//
// The wire type repertoire is small, so the mapping is lossy by design:
// booleans travel as integers 0/1 and floats as the decimal text of a simple
// string, mirroring how clients of the protocol conventionally encode them.
package bind

import (
	"fmt"
	"math"
	"reflect"
	"strconv"

	"github.com/redkite/resp/resp"
)

// Marshal encodes a Go value as legacy-dialect wire bytes.
//
// Supported: nil (null bulk string), bool (integer 0/1), signed and unsigned
// integers, floats (decimal text as a simple string), string and []byte
// (bulk strings), and slices/arrays of the above. The legacy dialect's
// nesting restrictions apply and surface as encode errors.
func Marshal(v any) ([]byte, error) {
	val, err := lower(reflect.ValueOf(v))
	if err != nil {
		return nil, err
	}
	return resp.Encode2(val)
}

func lower(rv reflect.Value) (*resp.Value, error) {
	if !rv.IsValid() {
		return resp.NullString(), nil
	}

	switch rv.Kind() {
	case reflect.Bool:
		if rv.Bool() {
			return resp.Integer(1), nil
		}
		return resp.Integer(0), nil

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return resp.Integer(rv.Int()), nil

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		u := rv.Uint()
		if u > math.MaxInt64 {
			return nil, fmt.Errorf("bind: %d overflows the wire integer", u)
		}
		return resp.Integer(int64(u)), nil

	case reflect.Float32:
		text := strconv.FormatFloat(rv.Float(), 'f', -1, 32)
		return resp.SimpleString([]byte(text)), nil

	case reflect.Float64:
		text := strconv.FormatFloat(rv.Float(), 'f', -1, 64)
		return resp.SimpleString([]byte(text)), nil

	case reflect.String:
		return resp.BulkString([]byte(rv.String())), nil

	case reflect.Slice:
		if rv.IsNil() {
			return resp.NullString(), nil
		}
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			return resp.BulkString(rv.Bytes()), nil
		}
		return lowerSeq(rv)

	case reflect.Array:
		return lowerSeq(rv)

	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return resp.NullString(), nil
		}
		return lower(rv.Elem())

	default:
		return nil, fmt.Errorf("bind: cannot marshal %s", rv.Type())
	}
}

func lowerSeq(rv reflect.Value) (*resp.Value, error) {
	elems := make([]*resp.Value, rv.Len())
	for i := 0; i < rv.Len(); i++ {
		elem, err := lower(rv.Index(i))
		if err != nil {
			return nil, err
		}
		elems[i] = elem
	}
	return resp.Array(elems...), nil
}

// Unmarshal decodes one wire value from data into the Go value pointed to
// by v.
//
// Supported targets: *string and *[]byte (from any string-carrying tag,
// error payloads included), signed and unsigned integer pointers (from
// integers, bounds checked), pointer targets (typed nulls become nil),
// slice targets (from arrays), and *any (null, string, []byte for non-UTF-8
// payloads, int64, or []any). Assigned data never aliases the input buffer.
func Unmarshal(data []byte, v any) error {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return fmt.Errorf("bind: target must be a non-nil pointer, got %T", v)
	}

	parsed, err := resp.NewParser(data).Parse()
	if err != nil {
		return err
	}
	return assign(parsed, rv.Elem())
}

func assign(v *resp.Value, rv reflect.Value) error {
	if v.IsNull() {
		return assignNull(rv)
	}

	switch rv.Kind() {
	case reflect.Pointer:
		elem := reflect.New(rv.Type().Elem())
		if err := assign(v, elem.Elem()); err != nil {
			return err
		}
		rv.Set(elem)
		return nil

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, ok := v.Int()
		if !ok {
			return conversionError(v, rv)
		}
		if rv.OverflowInt(n) {
			return fmt.Errorf("bind: %d overflows %s", n, rv.Type())
		}
		rv.SetInt(n)
		return nil

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		n, ok := v.Int()
		if !ok {
			return conversionError(v, rv)
		}
		if n < 0 || rv.OverflowUint(uint64(n)) {
			return fmt.Errorf("bind: %d overflows %s", n, rv.Type())
		}
		rv.SetUint(uint64(n))
		return nil

	case reflect.String:
		data, ok := payload(v)
		if !ok {
			return conversionError(v, rv)
		}
		rv.SetString(string(data))
		return nil

	case reflect.Slice:
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			data, ok := payload(v)
			if !ok {
				return conversionError(v, rv)
			}
			rv.SetBytes(append([]byte(nil), data...))
			return nil
		}
		elems, ok := v.Elems()
		if !ok {
			return conversionError(v, rv)
		}
		out := reflect.MakeSlice(rv.Type(), len(elems), len(elems))
		for i, elem := range elems {
			if err := assign(elem, out.Index(i)); err != nil {
				return err
			}
		}
		rv.Set(out)
		return nil

	case reflect.Interface:
		if rv.NumMethod() != 0 {
			return conversionError(v, rv)
		}
		native, err := toNative(v)
		if err != nil {
			return err
		}
		rv.Set(reflect.ValueOf(native))
		return nil

	default:
		return conversionError(v, rv)
	}
}

func assignNull(rv reflect.Value) error {
	switch rv.Kind() {
	case reflect.Pointer, reflect.Slice, reflect.Map, reflect.Interface:
		rv.Set(reflect.Zero(rv.Type()))
		return nil
	default:
		return fmt.Errorf("bind: cannot store null into %s", rv.Type())
	}
}

// payload extracts the byte payload of any string-carrying tag, including
// server errors, which callers sometimes want as plain data.
func payload(v *resp.Value) ([]byte, bool) {
	if data, ok := v.Bytes(); ok {
		return data, true
	}
	return v.ErrorBytes()
}

// toNative maps a value onto untyped Go data via the simplified form.
func toNative(v *resp.Value) (any, error) {
	s, err := v.Simplify()
	if err != nil {
		return nil, err
	}
	return simpleToNative(s), nil
}

func simpleToNative(s *resp.Simple) any {
	if text, ok := s.Text(); ok {
		return text
	}
	if data, ok := s.Bytes(); ok {
		return append([]byte(nil), data...)
	}
	if n, ok := s.Int(); ok {
		return n
	}
	if items, ok := s.List(); ok {
		out := make([]any, len(items))
		for i, item := range items {
			out[i] = simpleToNative(item)
		}
		return out
	}
	return nil
}

func conversionError(v *resp.Value, rv reflect.Value) error {
	return fmt.Errorf("bind: cannot store %s value into %s", v.Kind(), rv.Type())
}
