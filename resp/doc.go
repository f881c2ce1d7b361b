// Package resp implements a codec for the RESP wire protocol used by
// Redis-compatible key-value and cache servers.
//
// The package converts between raw wire bytes and an in-memory value tree:
//
//	bytes -> Lexer -> tokens -> Parser -> *Value -> (optional) Detach -> Encoder -> bytes
//
// # Value Model
//
// Value is a tagged union covering the full RESP3 type repertoire
// (simple strings, errors, integers, bulk strings, arrays, nulls, doubles,
// booleans, bulk errors, verbatim strings, big integers, maps, sets,
// attributes, push messages, and the HELLO handshake). A parsed Value
// aliases the input buffer; Detach produces a deep copy that owns its data.
//
// # Dialects
//
// Encoding targets one of two protocol generations. RESP2 permits only the
// base types and rejects nesting beyond one aggregate level; RESP3 permits
// every tag with no nesting cap. Decoding currently covers the RESP2 marker
// set only.
//
// # Errors
//
// Parsing and encoding are fail-fast: the first malformed element aborts
// the whole operation with a structured error carrying the offending token's
// exact byte span. No partial trees are ever returned.
package resp
