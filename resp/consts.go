package resp

// Type marker bytes. The first byte of a wire value identifies its tag.
const (
	markerSimpleString   = '+'
	markerError          = '-'
	markerInteger        = ':'
	markerBulkString     = '$'
	markerArray          = '*'
	markerNull           = '_'
	markerDouble         = ','
	markerBoolean        = '#'
	markerBulkError      = '!'
	markerVerbatimString = '='
	markerBigInteger     = '('
	markerMap            = '%'
	markerSet            = '~'
	markerAttribute      = '|'
	markerPush           = '>'
	markerStream         = ';'
	markerEnd            = '.'
)

// Bytes with special meaning inside values. The unspecified-size sentinel
// and the stream marker belong to streaming variants this codec does not
// decode; they are listed for completeness of the wire repertoire.
const (
	unspecifiedSize    = '?'
	verbatimSeparator  = ':'
	verbatimKindLength = 3
)

// Fixed wire literals.
var (
	newline   = []byte{'\r', '\n'}
	nullBulk  = []byte("$-1\r\n")
	nullArray = []byte("*-1\r\n")
	trueLit   = []byte{markerBoolean, 't'}
	falseLit  = []byte{markerBoolean, 'f'}
	nanLit    = []byte{markerDouble, 'n', 'a', 'n'}
	infLit    = []byte{markerDouble, 'i', 'n', 'f'}
	negInfLit = []byte{markerDouble, '-', 'i', 'n', 'f'}
	helloWord = []byte("HELLO")
	authWord  = []byte("AUTH")
)
