// Package jsonstream incrementally extracts complete top-level JSON objects
// from a stream of arbitrarily-chunked text. Telemetry files written by agent
// CLIs are concatenated JSON objects with no delimiter between them, and a
// single object can straddle any number of read chunks.
package jsonstream

import (
	"encoding/json"
	"strings"
)

// DefaultMaxBufferSize caps the accumulation buffer. An unterminated string
// in the input would otherwise grow the buffer without bound.
const DefaultMaxBufferSize = 1 << 20

// Parser scans chunks character by character and fires the callback once for
// each syntactically complete top-level {...} object. A malformed object is
// discarded and the scan resynchronizes on the next top-level brace.
type Parser struct {
	onObject func(map[string]any)

	maxBuffer  int
	buf        strings.Builder
	collecting bool
	depth      int
	inString   bool
	escape     bool
}

// Option configures a Parser.
type Option func(*Parser)

// WithMaxBufferSize overrides DefaultMaxBufferSize. Values <= 0 are ignored.
func WithMaxBufferSize(n int) Option {
	return func(p *Parser) {
		if n > 0 {
			p.maxBuffer = n
		}
	}
}

// New returns a Parser that invokes onObject for every complete object.
func New(onObject func(map[string]any), opts ...Option) *Parser {
	p := &Parser{
		onObject:  onObject,
		maxBuffer: DefaultMaxBufferSize,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Feed consumes the next chunk of input. Chunks may be split at any byte
// boundary, including inside string escapes. Feed never returns an error:
// malformed input resets the scan state instead of wedging the stream.
func (p *Parser) Feed(chunk string) {
	for i := 0; i < len(chunk); i++ {
		c := chunk[i]

		if !p.collecting {
			// Anything between objects (whitespace, stray text) is skipped.
			if c != '{' {
				continue
			}
			p.collecting = true
			p.depth = 0
			p.inString = false
			p.escape = false
			p.buf.Reset()
		}

		p.buf.WriteByte(c)
		if p.buf.Len() > p.maxBuffer {
			p.reset()
			continue
		}

		if p.escape {
			p.escape = false
			continue
		}

		if p.inString {
			switch c {
			case '\\':
				p.escape = true
			case '"':
				p.inString = false
			}
			continue
		}

		switch c {
		case '"':
			p.inString = true
		case '{':
			p.depth++
		case '}':
			p.depth--
			if p.depth == 0 {
				p.emit()
			}
		}
	}
}

// emit parses the accumulated buffer. A parse failure discards the buffer so
// one malformed object never blocks subsequent ones.
func (p *Parser) emit() {
	raw := p.buf.String()
	p.reset()

	var obj map[string]any
	if err := json.Unmarshal([]byte(raw), &obj); err != nil {
		return
	}
	if p.onObject != nil {
		p.onObject(obj)
	}
}

func (p *Parser) reset() {
	p.collecting = false
	p.depth = 0
	p.inString = false
	p.escape = false
	p.buf.Reset()
}
