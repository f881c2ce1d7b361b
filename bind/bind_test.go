package bind

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

// ============================================================
// Marshal
// ============================================================

func TestMarshal_Scalars(t *testing.T) {
	cases := []struct {
		name string
		in   any
		want string
	}{
		{"nil", nil, "$-1\r\n"},
		{"true", true, ":1\r\n"},
		{"false", false, ":0\r\n"},
		{"int", 42, ":42\r\n"},
		{"negative int", int64(-7), ":-7\r\n"},
		{"uint", uint16(1000), ":1000\r\n"},
		{"float", 3.25, "+3.25\r\n"},
		{"float32", float32(0.5), "+0.5\r\n"},
		{"string", "hello", "$5\r\nhello\r\n"},
		{"empty string", "", "$0\r\n\r\n"},
		{"bytes", []byte{0x00, 0x0d, 0x0a}, "$3\r\n\x00\r\n\r\n"},
		{"nil slice", []int(nil), "$-1\r\n"},
		{"nil pointer", (*int)(nil), "$-1\r\n"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Marshal(tc.in)
			if err != nil {
				t.Fatalf("Marshal(%v): %v", tc.in, err)
			}
			if string(got) != tc.want {
				t.Fatalf("Marshal(%v) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestMarshal_Sequences(t *testing.T) {
	got, err := Marshal([]string{"GET", "key"})
	if err != nil {
		t.Fatal(err)
	}
	want := "*2\r\n$3\r\nGET\r\n$3\r\nkey\r\n"
	if string(got) != want {
		t.Fatalf("got %q, want %q", got, want)
	}

	got, err = Marshal([3]int{1, 2, 3})
	if err != nil {
		t.Fatal(err)
	}
	want = "*3\r\n:1\r\n:2\r\n:3\r\n"
	if string(got) != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestMarshal_PointerDereference(t *testing.T) {
	n := 9
	got, err := Marshal(&n)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != ":9\r\n" {
		t.Fatalf("got %q", got)
	}
}

func TestMarshal_NestedSequenceHitsDialectCap(t *testing.T) {
	if _, err := Marshal([][]int{{1}}); err == nil {
		t.Fatal("nested sequence should fail under the legacy dialect")
	}
}

func TestMarshal_UnsupportedType(t *testing.T) {
	if _, err := Marshal(map[string]int{"a": 1}); err == nil {
		t.Fatal("maps have no wire mapping, want error")
	}
	if _, err := Marshal(uint64(1) << 63); err == nil {
		t.Fatal("uint64 beyond int64 range, want error")
	}
}

// ============================================================
// Unmarshal
// ============================================================

func TestUnmarshal_Integers(t *testing.T) {
	var n int
	if err := Unmarshal([]byte(":42\r\n"), &n); err != nil {
		t.Fatal(err)
	}
	if n != 42 {
		t.Fatalf("n = %d, want 42", n)
	}

	var u uint8
	if err := Unmarshal([]byte(":200\r\n"), &u); err != nil {
		t.Fatal(err)
	}
	if u != 200 {
		t.Fatalf("u = %d, want 200", u)
	}
}

func TestUnmarshal_IntegerOverflow(t *testing.T) {
	var b int8
	if err := Unmarshal([]byte(":300\r\n"), &b); err == nil {
		t.Fatal("300 into int8 should overflow")
	}
	var u uint32
	if err := Unmarshal([]byte(":-1\r\n"), &u); err == nil {
		t.Fatal("-1 into uint32 should fail")
	}
}

func TestUnmarshal_Strings(t *testing.T) {
	cases := []struct {
		name string
		data string
		want string
	}{
		{"simple string", "+OK\r\n", "OK"},
		{"bulk string", "$5\r\nhello\r\n", "hello"},
		{"error payload", "-ERR nope\r\n", "ERR nope"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var s string
			if err := Unmarshal([]byte(tc.data), &s); err != nil {
				t.Fatal(err)
			}
			if s != tc.want {
				t.Fatalf("s = %q, want %q", s, tc.want)
			}
		})
	}
}

func TestUnmarshal_BytesDoNotAliasInput(t *testing.T) {
	data := []byte("$3\r\nabc\r\n")
	var b []byte
	if err := Unmarshal(data, &b); err != nil {
		t.Fatal(err)
	}
	data[4] = 'X'
	if string(b) != "abc" {
		t.Fatalf("b = %q, want the pre-clobber payload", b)
	}
}

func TestUnmarshal_Slices(t *testing.T) {
	var ints []int
	if err := Unmarshal([]byte("*3\r\n:1\r\n:2\r\n:3\r\n"), &ints); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]int{1, 2, 3}, ints); diff != "" {
		t.Fatalf("slice mismatch (-want +got):\n%s", diff)
	}

	var strs []string
	if err := Unmarshal([]byte("*2\r\n$1\r\na\r\n+b\r\n"), &strs); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"a", "b"}, strs); diff != "" {
		t.Fatalf("slice mismatch (-want +got):\n%s", diff)
	}
}

func TestUnmarshal_NullsBecomeNil(t *testing.T) {
	p := new(int)
	if err := Unmarshal([]byte("$-1\r\n"), &p); err != nil {
		t.Fatal(err)
	}
	if p != nil {
		t.Fatal("null bulk string should clear the pointer")
	}

	s := []int{1}
	if err := Unmarshal([]byte("*-1\r\n"), &s); err != nil {
		t.Fatal(err)
	}
	if s != nil {
		t.Fatal("null array should clear the slice")
	}

	var n int
	if err := Unmarshal([]byte("$-1\r\n"), &n); err == nil {
		t.Fatal("null into a bare int should fail")
	}
}

func TestUnmarshal_PointerAllocates(t *testing.T) {
	var p *string
	if err := Unmarshal([]byte("+OK\r\n"), &p); err != nil {
		t.Fatal(err)
	}
	if p == nil || *p != "OK" {
		t.Fatalf("p = %v, want pointer to OK", p)
	}
}

func TestUnmarshal_Any(t *testing.T) {
	var v any
	if err := Unmarshal([]byte("*3\r\n:1\r\n$2\r\nhi\r\n$-1\r\n"), &v); err != nil {
		t.Fatal(err)
	}
	want := []any{int64(1), "hi", nil}
	if diff := cmp.Diff(want, v); diff != "" {
		t.Fatalf("native mismatch (-want +got):\n%s", diff)
	}
}

func TestUnmarshal_Mismatch(t *testing.T) {
	var n int
	if err := Unmarshal([]byte("+OK\r\n"), &n); err == nil {
		t.Fatal("string into int should fail")
	}
	var s []int
	if err := Unmarshal([]byte(":1\r\n"), &s); err == nil {
		t.Fatal("integer into slice should fail")
	}
}

func TestUnmarshal_BadTarget(t *testing.T) {
	if err := Unmarshal([]byte(":1\r\n"), nil); err == nil {
		t.Fatal("nil target, want error")
	}
	var n int
	if err := Unmarshal([]byte(":1\r\n"), n); err == nil {
		t.Fatal("non-pointer target, want error")
	}
}

func TestUnmarshal_ParseErrorsPropagate(t *testing.T) {
	var n int
	if err := Unmarshal([]byte("@1\r\n"), &n); err == nil {
		t.Fatal("invalid start byte, want parse error")
	}
}
