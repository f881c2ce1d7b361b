package resp

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func mustParse(t *testing.T, input string) *Value {
	t.Helper()
	v, err := Parse([]byte(input))
	if err != nil {
		t.Fatalf("Parse(%q) failed: %v", input, err)
	}
	return v
}

func parseErr(t *testing.T, input string) *ParseError {
	t.Helper()
	_, err := Parse([]byte(input))
	if err == nil {
		t.Fatalf("Parse(%q) unexpectedly succeeded", input)
	}
	var perr *ParseError
	if !errors.As(err, &perr) {
		t.Fatalf("Parse(%q) returned %T, want *ParseError", input, err)
	}
	return perr
}

func TestParse_Values(t *testing.T) {
	tests := []struct {
		input string
		want  *Value
	}{
		{"+OK\r\n", SimpleString([]byte("OK"))},
		{"-ERROR\r\n", Error([]byte("ERROR"))},
		{":1234\r\n", Integer(1234)},
		{":-42\r\n", Integer(-42)},
		{"$5\r\nhello\r\n", BulkString([]byte("hello"))},
		{"$0\r\n\r\n", BulkString([]byte{})},
		{"$-1\r\n", NullString()},
		{"*3\r\n:1\r\n:2\r\n:3\r\n", Array(Integer(1), Integer(2), Integer(3))},
		{"*0\r\n", Array()},
		{"*-1\r\n", NullArray()},
		{"*2\r\n$-1\r\n:1\r\n", Array(NullString(), Integer(1))},
		{"*2\r\n$0\r\n\r\n+OK\r\n", Array(BulkString([]byte{}), SimpleString([]byte("OK")))},
		{"*2\r\n*2\r\n+a\r\n+b\r\n:9\r\n", Array(Array(SimpleString([]byte("a")), SimpleString([]byte("b"))), Integer(9))},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := mustParse(t, tt.input)
			if !got.Equal(tt.want) {
				t.Errorf("Parse(%q) = %v, want %v", tt.input, got.Kind(), tt.want.Kind())
			}
		})
	}
}

func TestParse_NullsAreDistinct(t *testing.T) {
	nullStr := mustParse(t, "$-1\r\n")
	nullArr := mustParse(t, "*-1\r\n")
	emptyStr := mustParse(t, "$0\r\n\r\n")
	emptyArr := mustParse(t, "*0\r\n")

	if nullStr.Kind() != KindNullString || nullArr.Kind() != KindNullArray {
		t.Fatalf("null sentinels decoded as %s / %s", nullStr.Kind(), nullArr.Kind())
	}
	if !nullStr.IsNull() || !nullArr.IsNull() {
		t.Error("typed nulls must report IsNull")
	}
	if emptyStr.IsNull() || emptyArr.IsNull() {
		t.Error("empty values must not report IsNull")
	}
	if nullStr.Equal(emptyStr) || nullArr.Equal(emptyArr) || nullStr.Equal(nullArr) {
		t.Error("null sentinels must be distinct from empty values and each other")
	}
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		kind  ParseErrorKind
	}{
		{"empty input", "", ParseInvalidStart},
		{"unknown marker", "&5\r\n", ParseInvalidStart},
		{"integer not numeric", ":abc\r\n", ParseInvalidInteger},
		{"integer overflow", ":9223372036854775808\r\n", ParseInvalidInteger},
		{"size below sentinel", "$-2\r\nxx\r\n", ParseInvalidSize},
		{"array size below sentinel", "*-3\r\n", ParseInvalidSize},
		{"declared too long", "$100\r\nTesting\r\n", ParseInvalidSize},
		{"declared too short", "$3\r\nTesting\r\n", ParseInvalidSize},
		{"marker without payload", "+", ParseInvalidData},
		{"size then nothing", "$5\r\n", ParseInvalidData},
		{"array element missing", "*2\r\n:1\r\n", ParseInvalidStart},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			perr := parseErr(t, tt.input)
			if perr.Kind != tt.kind {
				t.Errorf("Parse(%q) error kind = %s, want %s", tt.input, perr.Kind, tt.kind)
			}
		})
	}
}

func TestParse_InvalidSizeCarriesPayloadToken(t *testing.T) {
	data := []byte("$100\r\nTesting\r\n")
	perr := parseErr(t, string(data))

	if perr.Kind != ParseInvalidSize {
		t.Fatalf("error kind = %s, want %s", perr.Kind, ParseInvalidSize)
	}
	if perr.Token == nil {
		t.Fatal("error carries no token")
	}
	if diff := cmp.Diff([]byte("Testing"), perr.Token.Data); diff != "" {
		t.Errorf("token data mismatch (-want +got):\n%s", diff)
	}
	// The token's byte span pins the failure exactly past the header.
	if string(data[:perr.Token.Start]) != "$100\r\n" {
		t.Errorf("token start %d does not follow the size header", perr.Token.Start)
	}
	if perr.Token.End-perr.Token.Start != len("Testing") {
		t.Errorf("token span = %d bytes, want %d", perr.Token.End-perr.Token.Start, len("Testing"))
	}
}

func TestParse_FailFastInsideArray(t *testing.T) {
	// The third element is malformed; the whole parse aborts with that
	// element's error and no partial tree.
	v, err := Parse([]byte("*3\r\n:1\r\n:2\r\n:x\r\n"))
	if v != nil {
		t.Errorf("expected no partial tree, got %v", v.Kind())
	}
	var perr *ParseError
	if !errors.As(err, &perr) || perr.Kind != ParseInvalidInteger {
		t.Errorf("expected InvalidInteger, got %v", err)
	}
}

func TestParse_ConsecutiveValues(t *testing.T) {
	p := NewParser([]byte("+first\r\n:2\r\n$5\r\nthird\r\n"))

	wants := []*Value{
		SimpleString([]byte("first")),
		Integer(2),
		BulkString([]byte("third")),
	}
	for i, want := range wants {
		got, err := p.Parse()
		if err != nil {
			t.Fatalf("value %d: %v", i, err)
		}
		if !got.Equal(want) {
			t.Errorf("value %d: got %s", i, got.Kind())
		}
	}

	if _, err := p.Parse(); err == nil {
		t.Error("expected InvalidStart after the last value")
	}
}

func TestParser_PeekKind(t *testing.T) {
	p := NewParser([]byte(":1\r\n*1\r\n+x\r\n"))

	kind, ok := p.PeekKind()
	if !ok || kind != KindInteger {
		t.Fatalf("PeekKind = %v, %v; want integer", kind, ok)
	}
	// Peek must not consume.
	if kind, ok = p.PeekKind(); !ok || kind != KindInteger {
		t.Fatalf("second PeekKind = %v, %v; want integer", kind, ok)
	}
	if _, err := p.Parse(); err != nil {
		t.Fatalf("parse after peek: %v", err)
	}

	if kind, ok = p.PeekKind(); !ok || kind != KindArray {
		t.Fatalf("PeekKind after integer = %v, %v; want array", kind, ok)
	}
	if _, err := p.Parse(); err != nil {
		t.Fatalf("parse array: %v", err)
	}

	if _, ok = p.PeekKind(); ok {
		t.Error("PeekKind at end of input must report false")
	}
}
