package resp

import (
	"bytes"
	"fmt"
	"strconv"
)

// TokenKind represents the type of a lexer token.
type TokenKind uint8

const (
	TokenSimpleStringStart TokenKind = iota // +
	TokenSimpleString                       // payload of a simple string
	TokenErrorStart                         // -
	TokenError                              // payload of an error
	TokenIntegerStart                       // :
	TokenInteger                            // decimal text of an integer
	TokenBulkStringStart                    // $
	TokenBulkStringSize                     // declared bulk string length
	TokenBulkString                         // raw bulk string payload
	TokenArrayStart                         // *
	TokenArraySize                          // declared array element count
	TokenNewline                            // \r\n
)

// String returns the token kind name.
func (k TokenKind) String() string {
	switch k {
	case TokenSimpleStringStart:
		return "SIMPLE_STRING_START"
	case TokenSimpleString:
		return "SIMPLE_STRING"
	case TokenErrorStart:
		return "ERROR_START"
	case TokenError:
		return "ERROR"
	case TokenIntegerStart:
		return "INTEGER_START"
	case TokenInteger:
		return "INTEGER"
	case TokenBulkStringStart:
		return "BULK_STRING_START"
	case TokenBulkStringSize:
		return "BULK_STRING_SIZE"
	case TokenBulkString:
		return "BULK_STRING"
	case TokenArrayStart:
		return "ARRAY_START"
	case TokenArraySize:
		return "ARRAY_SIZE"
	case TokenNewline:
		return "NEWLINE"
	default:
		return "UNKNOWN"
	}
}

// KnownKind maps a start-marker token to the value kind it introduces.
// Continuation tokens (payloads, sizes, newlines) carry no standalone kind.
func (k TokenKind) KnownKind() (Kind, bool) {
	switch k {
	case TokenSimpleStringStart:
		return KindSimpleString, true
	case TokenErrorStart:
		return KindError, true
	case TokenIntegerStart:
		return KindInteger, true
	case TokenBulkStringStart:
		return KindBulkString, true
	case TokenArrayStart:
		return KindArray, true
	default:
		return 0, false
	}
}

// Token is one lexeme of wire input. Data aliases the lexer's input buffer;
// Start and End are byte offsets into that buffer.
type Token struct {
	Start int
	End   int
	Data  []byte
	Kind  TokenKind
}

// String returns a debug representation of the token.
func (t Token) String() string {
	return fmt.Sprintf("%s(%q)@%d", t.Kind, t.Data, t.Start)
}

// Lexer scans a byte slice into a lazy sequence of tokens. Classification of
// digit runs is context-sensitive: a digit-or-minus byte is a size field only
// when the previous significant token was a bulk string or array marker.
//
// A Lexer is not restartable; construct a fresh one to rescan.
type Lexer struct {
	data   []byte
	start  int
	prev   TokenKind
	primed bool  // prev holds a real kind
	size   int64 // declared length from the last bulk string size token
}

// NewLexer creates a lexer over data. The slice must not be mutated while
// tokens derived from it are in use.
func NewLexer(data []byte) *Lexer {
	return &Lexer{data: data}
}

// Next returns the next token. The second result is false when the input is
// exhausted or the leading byte matches no rule; after that the lexer emits
// nothing further. Distinguishing clean exhaustion from a malformed stream
// is the parser's job.
func (l *Lexer) Next() (Token, bool) {
	length, kind, ok := l.take(l.data[l.start:])
	if !ok {
		return Token{}, false
	}

	end := l.start + length
	tok := Token{
		Start: l.start,
		End:   end,
		Data:  l.data[l.start:end],
		Kind:  kind,
	}

	l.start = end
	if kind != TokenNewline {
		l.prev = kind
		l.primed = true
	}
	if kind == TokenBulkStringSize {
		// Remember the declared length so the next digit run is only
		// treated as raw payload when a payload is actually expected.
		// A null (-1) or empty (0) bulk string has none.
		l.size, _ = strconv.ParseInt(string(tok.Data), 10, 64)
	}

	return tok, true
}

// take classifies the token at the head of input, returning its length.
func (l *Lexer) take(input []byte) (int, TokenKind, bool) {
	if len(input) == 0 {
		return 0, 0, false
	}

	// The exact two-byte terminator always wins, so a terminator is never
	// found mid-token by accident.
	if len(input) >= 2 && input[0] == '\r' && input[1] == '\n' {
		return 2, TokenNewline, true
	}

	if l.primed {
		switch l.prev {
		case TokenSimpleStringStart:
			return l.untilNewline(input, TokenSimpleString)
		case TokenErrorStart:
			return l.untilNewline(input, TokenError)
		case TokenIntegerStart:
			return l.untilNewline(input, TokenInteger)
		case TokenBulkStringStart:
			if isSizeByte(input[0]) {
				return l.untilNewline(input, TokenBulkStringSize)
			}
		case TokenArrayStart:
			if isSizeByte(input[0]) {
				return l.untilNewline(input, TokenArraySize)
			}
		case TokenBulkStringSize:
			if l.size > 0 {
				return l.untilNewline(input, TokenBulkString)
			}
		}
	}

	switch input[0] {
	case markerSimpleString:
		return 1, TokenSimpleStringStart, true
	case markerError:
		return 1, TokenErrorStart, true
	case markerInteger:
		return 1, TokenIntegerStart, true
	case markerBulkString:
		return 1, TokenBulkStringStart, true
	case markerArray:
		return 1, TokenArrayStart, true
	}

	return 0, 0, false
}

// untilNewline spans a variable-length token up to (excluding) the next
// terminator, located by substring search rather than per-byte comparison.
func (l *Lexer) untilNewline(input []byte, kind TokenKind) (int, TokenKind, bool) {
	found := bytes.Index(input, newline)
	if found < 0 {
		return 0, 0, false
	}
	return found, kind, true
}

func isSizeByte(b byte) bool {
	return (b >= '0' && b <= '9') || b == '-'
}
