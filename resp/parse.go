package resp

import "strconv"

// Parser decodes wire bytes into a value tree by recursive descent over the
// lexer's token sequence. Dispatch covers the RESP2 marker set; richer RESP3
// tags are representable and encodable but not yet decoded here.
//
// A Parser consumes its lexer as it goes. Parse may be called repeatedly to
// read consecutive top-level values from one buffer; each call returns one
// value or the structured error that aborted it.
type Parser struct {
	lex    *Lexer
	peeked *Token
}

// NewParser creates a parser over data. Payloads of the returned values
// alias data; use Detach to outlive it.
func NewParser(data []byte) *Parser {
	return &Parser{lex: NewLexer(data)}
}

// Parse decodes the next value. Errors are always *ParseError; the first
// failure anywhere in the recursion aborts the whole call with no partial
// tree.
func (p *Parser) Parse() (*Value, error) {
	tok, ok := p.next()
	if !ok {
		return nil, &ParseError{Kind: ParseInvalidStart}
	}

	switch tok.Kind {
	case TokenSimpleStringStart:
		return p.parseSimpleString()
	case TokenErrorStart:
		return p.parseError()
	case TokenIntegerStart:
		return p.parseInteger()
	case TokenBulkStringStart:
		return p.parseBulkString()
	case TokenArrayStart:
		return p.parseArray()
	default:
		return nil, &ParseError{Kind: ParseInvalidStart, Token: &tok}
	}
}

// PeekKind reports the value kind the next token would introduce, without
// consuming anything. It returns false when the next token is exhausted or
// is a continuation carrying no standalone kind.
func (p *Parser) PeekKind() (Kind, bool) {
	tok, ok := p.peek()
	if !ok {
		return 0, false
	}
	return tok.Kind.KnownKind()
}

func (p *Parser) next() (Token, bool) {
	if p.peeked != nil {
		tok := *p.peeked
		p.peeked = nil
		return tok, true
	}
	return p.lex.Next()
}

func (p *Parser) peek() (Token, bool) {
	if p.peeked == nil {
		tok, ok := p.lex.Next()
		if !ok {
			return Token{}, false
		}
		p.peeked = &tok
	}
	return *p.peeked, true
}

func (p *Parser) parseSimpleString() (*Value, error) {
	tok, ok := p.next()
	if !ok {
		return nil, &ParseError{Kind: ParseInvalidData}
	}
	if tok.Kind != TokenSimpleString {
		return nil, &ParseError{Kind: ParseInvalidData, Token: &tok}
	}
	if err := p.expectNewline(); err != nil {
		return nil, err
	}
	return SimpleString(tok.Data), nil
}

func (p *Parser) parseError() (*Value, error) {
	tok, ok := p.next()
	if !ok {
		return nil, &ParseError{Kind: ParseInvalidData}
	}
	if tok.Kind != TokenError {
		return nil, &ParseError{Kind: ParseInvalidData, Token: &tok}
	}
	if err := p.expectNewline(); err != nil {
		return nil, err
	}
	return Error(tok.Data), nil
}

func (p *Parser) parseInteger() (*Value, error) {
	tok, ok := p.next()
	if !ok {
		return nil, &ParseError{Kind: ParseInvalidData}
	}
	if tok.Kind != TokenInteger {
		return nil, &ParseError{Kind: ParseInvalidData, Token: &tok}
	}
	if err := p.expectNewline(); err != nil {
		return nil, err
	}

	n, err := strconv.ParseInt(string(tok.Data), 10, 64)
	if err != nil {
		return nil, &ParseError{Kind: ParseInvalidInteger, Token: &tok}
	}
	return Integer(n), nil
}

func (p *Parser) parseBulkString() (*Value, error) {
	size, err := p.parseSize(TokenBulkStringSize)
	if err != nil {
		return nil, err
	}
	if size == -1 {
		return NullString(), nil
	}

	tok, ok := p.next()
	if !ok {
		return nil, &ParseError{Kind: ParseInvalidData}
	}

	switch {
	case tok.Kind == TokenBulkString:
		if err := p.expectNewline(); err != nil {
			return nil, err
		}
		// The payload token spans up to the next terminator; a declared
		// size that disagrees with it, in either direction, is fatal.
		if int64(len(tok.Data)) != size {
			return nil, &ParseError{Kind: ParseInvalidSize, Token: &tok}
		}
		return BulkString(tok.Data), nil

	case tok.Kind == TokenNewline && size == 0:
		return BulkString([]byte{}), nil

	default:
		return nil, &ParseError{Kind: ParseInvalidData, Token: &tok}
	}
}

func (p *Parser) parseArray() (*Value, error) {
	size, err := p.parseSize(TokenArraySize)
	if err != nil {
		return nil, err
	}
	if size == -1 {
		return NullArray(), nil
	}

	// No preallocation from the declared count: the count is attacker
	// controlled and only trusted element by element.
	var elems []*Value
	for i := int64(0); i < size; i++ {
		elem, err := p.Parse()
		if err != nil {
			return nil, err
		}
		elems = append(elems, elem)
	}
	return Array(elems...), nil
}

// parseSize reads a declared size field shared by bulk strings and arrays.
// Any value below the -1 null sentinel is rejected even when numerically
// well formed.
func (p *Parser) parseSize(want TokenKind) (int64, error) {
	tok, ok := p.next()
	if !ok {
		return 0, &ParseError{Kind: ParseInvalidData}
	}
	if tok.Kind != want {
		return 0, &ParseError{Kind: ParseInvalidData, Token: &tok}
	}
	if err := p.expectNewline(); err != nil {
		return 0, err
	}

	size, err := strconv.ParseInt(string(tok.Data), 10, 64)
	if err != nil {
		return 0, &ParseError{Kind: ParseInvalidInteger, Token: &tok}
	}
	if size < -1 {
		return 0, &ParseError{Kind: ParseInvalidSize, Token: &tok}
	}
	return size, nil
}

func (p *Parser) expectNewline() error {
	tok, ok := p.next()
	if !ok {
		return &ParseError{Kind: ParseNewLineMissing}
	}
	if tok.Kind != TokenNewline {
		return &ParseError{Kind: ParseNewLineMissing, Token: &tok}
	}
	return nil
}

// Parse decodes a single value from data. Convenience wrapper over a
// one-shot Parser.
func Parse(data []byte) (*Value, error) {
	return NewParser(data).Parse()
}

// ParseDetached decodes a single value and detaches it from data in one
// step.
func ParseDetached(data []byte) (*Value, error) {
	v, err := NewParser(data).Parse()
	if err != nil {
		return nil, err
	}
	return v.Detach()
}
