package resp

import "fmt"

// ParseErrorKind classifies parse failures.
type ParseErrorKind uint8

const (
	// ParseInvalidStart: no recognizable leading marker, or input was
	// exhausted where a value was expected.
	ParseInvalidStart ParseErrorKind = iota
	// ParseInvalidData: a token of unexpected kind appeared where a
	// specific continuation was required.
	ParseInvalidData
	// ParseNewLineMissing: the expected terminator token is absent.
	ParseNewLineMissing
	// ParseInvalidInteger: numeric text failed to parse.
	ParseInvalidInteger
	// ParseInvalidSize: a declared size is negative but not the null
	// sentinel, or does not match the actual payload length.
	ParseInvalidSize
	// ParseMessage: a collaborator-raised error carrying free text.
	ParseMessage
)

// String returns the error kind name.
func (k ParseErrorKind) String() string {
	switch k {
	case ParseInvalidStart:
		return "invalid start"
	case ParseInvalidData:
		return "invalid data"
	case ParseNewLineMissing:
		return "newline missing"
	case ParseInvalidInteger:
		return "invalid integer"
	case ParseInvalidSize:
		return "invalid size"
	case ParseMessage:
		return "message"
	default:
		return "unknown"
	}
}

// ParseError is a structured decode failure. Token, when present, pins the
// failure to the exact byte span of the offending element; it is nil when
// the input was exhausted.
type ParseError struct {
	Kind    ParseErrorKind
	Token   *Token
	Message string // set for ParseMessage only
}

func (e *ParseError) Error() string {
	if e.Kind == ParseMessage {
		return "resp: " + e.Message
	}
	if e.Token != nil {
		return fmt.Sprintf("resp: %s at byte %d: %q", e.Kind, e.Token.Start, e.Token.Data)
	}
	return fmt.Sprintf("resp: %s: input exhausted", e.Kind)
}

// MessageError creates a ParseError carrying free text, for collaborators
// layered on the core that need to surface their own failures through the
// same channel.
func MessageError(msg string) *ParseError {
	return &ParseError{Kind: ParseMessage, Message: msg}
}

// EncodeErrorKind classifies encode failures.
type EncodeErrorKind uint8

const (
	// EncodeNestedDataNotAllowed: the RESP2 nesting cap was exceeded.
	EncodeNestedDataNotAllowed EncodeErrorKind = iota
	// EncodeProtocolError: a RESP3-only tag was encoded under RESP2.
	EncodeProtocolError
	// EncodeMessage: a collaborator-raised error, including sink I/O
	// failures.
	EncodeMessage
)

// String returns the error kind name.
func (k EncodeErrorKind) String() string {
	switch k {
	case EncodeNestedDataNotAllowed:
		return "nested data not allowed"
	case EncodeProtocolError:
		return "protocol error"
	case EncodeMessage:
		return "message"
	default:
		return "unknown"
	}
}

// EncodeError is a structured encode failure.
type EncodeError struct {
	Kind    EncodeErrorKind
	Message string // set for EncodeMessage only
	Err     error  // wrapped sink error, when one caused the failure
}

func (e *EncodeError) Error() string {
	if e.Kind == EncodeMessage {
		if e.Err != nil {
			return "resp: encode: " + e.Err.Error()
		}
		return "resp: encode: " + e.Message
	}
	return "resp: encode: " + e.Kind.String()
}

// Unwrap exposes a wrapped sink error.
func (e *EncodeError) Unwrap() error {
	return e.Err
}
