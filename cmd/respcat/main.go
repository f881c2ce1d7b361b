// respcat - RESP wire data inspector and generator
//
// Usage:
//
//	respcat decode [options] [file]    Decode wire values and print them
//	respcat check [options] [file]     Validate wire data, report byte offsets
//	respcat encode [options] [file]    Turn command lines into wire arrays
//	respcat version                    Print version info
//
// Files ending in .gz are decompressed transparently, which makes captured
// traffic dumps convenient to inspect. If no file is given, reads from stdin.
package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/rs/zerolog"

	"github.com/redkite/resp/resp"
	"github.com/redkite/resp/stream"
)

const version = "0.3.0"

var log zerolog.Logger

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	cmd := os.Args[1]

	configPath := ""
	dialectArg := 0
	fileArg := ""
	for _, arg := range os.Args[2:] {
		switch {
		case strings.HasPrefix(arg, "--config="):
			configPath = strings.TrimPrefix(arg, "--config=")
		case strings.HasPrefix(arg, "--dialect="):
			n, err := strconv.Atoi(strings.TrimPrefix(arg, "--dialect="))
			if err != nil || (n != 2 && n != 3) {
				fatal("--dialect must be 2 or 3")
			}
			dialectArg = n
		default:
			if !strings.HasPrefix(arg, "-") && arg != "-" {
				fileArg = arg
			}
		}
	}

	cfg, err := loadConfig(configPath)
	if err != nil {
		fatal("%v", err)
	}
	if dialectArg != 0 {
		cfg.Dialect = dialectArg
	}
	log = newLogger(cfg.LogLevel)

	var input io.Reader = os.Stdin
	if fileArg != "" {
		f, err := os.Open(fileArg)
		if err != nil {
			fatal("open file: %v", err)
		}
		defer f.Close()
		input = f
		if strings.HasSuffix(fileArg, ".gz") {
			gz, err := gzip.NewReader(f)
			if err != nil {
				fatal("open gzip: %v", err)
			}
			defer gz.Close()
			input = gz
		}
	}

	switch cmd {
	case "decode":
		cmdDecode(input, cfg)
	case "check":
		cmdCheck(input)
	case "encode":
		cmdEncode(input, cfg)
	case "version", "-v", "--version":
		fmt.Printf("respcat %s\n", version)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n", cmd)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Fprint(os.Stderr, `respcat - RESP wire data inspector and generator

Usage:
  respcat decode [options] [file]    Decode wire values and print them
  respcat check [options] [file]     Validate wire data, report byte offsets
  respcat encode [options] [file]    Turn command lines into wire arrays
  respcat version                    Print version info

Options:
  --dialect=N       Wire dialect for encode: 2 (legacy) or 3 (default: 2)
  --config=FILE     Load settings from a TOML file (flags win over the file)

Files ending in .gz are decompressed transparently.
If no file is given, reads from stdin.

Examples:
  printf '*2\r\n$4\r\nPING\r\n$2\r\nhi\r\n' | respcat decode
  respcat decode capture.resp.gz
  echo 'SET key value' | respcat encode > out.resp
`)
}

// cmdDecode reads consecutive wire values and prints a readable rendering of
// each, one tree per value.
func cmdDecode(r io.Reader, cfg Config) {
	rd := newStreamReader(r, cfg)
	w := bufio.NewWriter(os.Stdout)
	defer w.Flush()

	count := 0
	for {
		v, err := rd.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			w.Flush()
			fatal("value %d: %v", count+1, err)
		}
		count++
		fmt.Fprintf(w, "--- value %d ---\n", count)
		printValue(w, v, 1)
	}
	log.Info().Int("values", count).Msg("decode complete")
	fmt.Fprintf(os.Stderr, "%d values decoded\n", count)
}

// cmdCheck parses the entire input in one pass and reports the first error
// with its byte offset, so a bad capture can be located without decoding it.
func cmdCheck(r io.Reader) {
	data, err := io.ReadAll(r)
	if err != nil {
		fatal("read input: %v", err)
	}

	p := resp.NewParser(data)
	count := 0
	for {
		if _, ok := p.PeekKind(); !ok {
			break
		}
		if _, err := p.Parse(); err != nil {
			var perr *resp.ParseError
			if errors.As(err, &perr) && perr.Token != nil {
				fatal("value %d: %v (bytes %d..%d)", count+1, err, perr.Token.Start, perr.Token.End)
			}
			fatal("value %d: %v", count+1, err)
		}
		count++
	}

	// The lexer stops silently at a byte it cannot classify, so a separate
	// sweep pins down where recognizable input ends.
	end := 0
	lex := resp.NewLexer(data)
	for {
		tok, ok := lex.Next()
		if !ok {
			break
		}
		end = tok.End
	}
	if end != len(data) {
		fatal("unrecognized bytes at offset %d", end)
	}

	fmt.Printf("ok: %d values, %d bytes\n", count, len(data))
}

// cmdEncode reads one command per input line, splits it on whitespace, and
// writes each as a wire array of bulk strings. Blank lines are skipped.
func cmdEncode(r io.Reader, cfg Config) {
	dialect := resp.Dialect2
	if cfg.Dialect == 3 {
		dialect = resp.Dialect3
	}
	w := stream.NewWriter(os.Stdout, dialect)

	sc := bufio.NewScanner(r)
	lines := 0
	for sc.Scan() {
		args := strings.Fields(sc.Text())
		if len(args) == 0 {
			continue
		}
		if err := w.WriteCommand(args...); err != nil {
			fatal("line %d: %v", lines+1, err)
		}
		lines++
	}
	if err := sc.Err(); err != nil {
		fatal("read input: %v", err)
	}
	if err := w.Flush(); err != nil {
		fatal("flush: %v", err)
	}
	log.Info().Int("commands", lines).Msg("encode complete")
}

func newStreamReader(r io.Reader, cfg Config) *stream.Reader {
	var opts []stream.ReaderOption
	if cfg.MaxBulkLen > 0 {
		opts = append(opts, stream.WithMaxBulkLen(cfg.MaxBulkLen))
	}
	if cfg.MaxDepth > 0 {
		opts = append(opts, stream.WithMaxDepth(cfg.MaxDepth))
	}
	return stream.NewReader(r, opts...)
}

func printValue(w io.Writer, v *resp.Value, indent int) {
	pad := strings.Repeat("  ", indent)

	switch v.Kind() {
	case resp.KindSimpleString, resp.KindBulkString:
		data, _ := v.Bytes()
		fmt.Fprintf(w, "%s%s %s\n", pad, v.Kind(), renderPayload(data))
	case resp.KindError:
		data, _ := v.ErrorBytes()
		fmt.Fprintf(w, "%s%s %s\n", pad, v.Kind(), renderPayload(data))
	case resp.KindInteger:
		n, _ := v.Int()
		fmt.Fprintf(w, "%s%s %d\n", pad, v.Kind(), n)
	case resp.KindNullString, resp.KindNullArray, resp.KindNull:
		fmt.Fprintf(w, "%s%s\n", pad, v.Kind())
	case resp.KindArray:
		elems, _ := v.Elems()
		fmt.Fprintf(w, "%s%s len=%d\n", pad, v.Kind(), len(elems))
		for _, elem := range elems {
			printValue(w, elem, indent+1)
		}
	default:
		fmt.Fprintf(w, "%s%s\n", pad, v.Kind())
	}
}

// renderPayload quotes a payload for display, truncating long ones.
func renderPayload(data []byte) string {
	const max = 200
	s := strconv.Quote(string(data))
	if len(s) > max {
		s = s[:max] + "..."
	}
	return s
}

func newLogger(level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		lvl = zerolog.WarnLevel
	}
	out := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"}
	return zerolog.New(out).Level(lvl).With().Timestamp().Logger()
}

func fatal(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "respcat: "+format+"\n", args...)
	os.Exit(1)
}
