package bencode

import (
	"math"
	"unicode/utf8"
)

const DefaultMaxDepth = 256

// Decoder holds decoding limits. The zero value uses DefaultMaxDepth.
type Decoder struct {
	// Maximum nesting of lists and dictionaries.
	MaxDepth int
}

func (d Decoder) maxDepth() int {
	if d.MaxDepth <= 0 {
		return DefaultMaxDepth
	}
	return d.MaxDepth
}

// Decodes one value from the front of b, returning the number of bytes it spans.
func (d Decoder) Decode(b []byte) (v Value, n int, err error) {
	p := parser{buf: b, maxDepth: d.maxDepth()}
	v, err = p.value(0)
	if err != nil {
		return Value{}, 0, err
	}
	return v, p.pos, nil
}

// Decodes a single value that must span all of b.
func (d Decoder) Unmarshal(b []byte) (Value, error) {
	v, n, err := d.Decode(b)
	if err != nil {
		return Value{}, err
	}
	if n != len(b) {
		return Value{}, ErrUnusedTrailingBytes{len(b) - n}
	}
	return v, nil
}

type parser struct {
	buf      []byte
	pos      int
	maxDepth int
}

func (p *parser) incomplete(start int) error {
	return &IncompleteError{Offset: int64(start)}
}

func (p *parser) syntaxError(what string) error {
	return &SyntaxError{Offset: int64(p.pos), what: what}
}

func isDigit(c byte) bool {
	return '0' <= c && c <= '9'
}

func (p *parser) value(depth int) (Value, error) {
	if p.pos >= len(p.buf) {
		return Value{}, p.incomplete(p.pos)
	}
	start := p.pos
	var (
		v   Value
		err error
	)
	switch c := p.buf[p.pos]; {
	case isDigit(c):
		var b []byte
		b, err = p.byteString()
		v = Value{kind: KindBytes, b: b}
	case c == 'i':
		var i int64
		i, err = p.integer()
		v = Value{kind: KindInt, i: i}
	case c == 'l':
		v, err = p.list(depth)
	case c == 'd':
		v, err = p.dict(depth)
	default:
		return Value{}, p.syntaxError("unexpected byte " + quoteByte(c))
	}
	if err != nil {
		return Value{}, err
	}
	v.raw = p.buf[start:p.pos:p.pos]
	return v, nil
}

func quoteByte(c byte) string {
	const hex = "0123456789abcdef"
	if c >= 0x20 && c < 0x7f {
		return "'" + string(rune(c)) + "'"
	}
	return "0x" + string([]byte{hex[c>>4], hex[c&0xf]})
}

// Reads digits up to the delimiter, which is consumed. Digits may not be empty.
func (p *parser) digits(start int, delim byte) (uint64, error) {
	var n uint64
	first := p.pos
	for {
		if p.pos >= len(p.buf) {
			return 0, p.incomplete(start)
		}
		c := p.buf[p.pos]
		if c == delim {
			break
		}
		if !isDigit(c) {
			return 0, p.syntaxError("unexpected byte " + quoteByte(c) + " in number")
		}
		d := uint64(c - '0')
		if n > (math.MaxUint64-d)/10 {
			return 0, p.syntaxError("number overflows")
		}
		n = n*10 + d
		p.pos++
	}
	if p.pos == first {
		return 0, p.syntaxError("missing digits")
	}
	p.pos++
	return n, nil
}

func (p *parser) byteString() ([]byte, error) {
	start := p.pos
	n, err := p.digits(start, ':')
	if err != nil {
		return nil, err
	}
	if n > uint64(len(p.buf)-p.pos) {
		return nil, p.incomplete(start)
	}
	end := p.pos + int(n)
	b := p.buf[p.pos:end:end]
	p.pos = end
	return b, nil
}

func (p *parser) integer() (int64, error) {
	start := p.pos
	p.pos++ // 'i'
	if p.pos >= len(p.buf) {
		return 0, p.incomplete(start)
	}
	neg := p.buf[p.pos] == '-'
	if neg {
		p.pos++
	}
	u, err := p.digits(start, 'e')
	if err != nil {
		return 0, err
	}
	if neg {
		if u > 1<<63 {
			return 0, p.syntaxError("integer overflows int64")
		}
		return int64(-u), nil
	}
	if u > math.MaxInt64 {
		return 0, p.syntaxError("integer overflows int64")
	}
	return int64(u), nil
}

func (p *parser) enter(depth int) error {
	if depth >= p.maxDepth {
		return &DepthError{Offset: int64(p.pos), MaxDepth: p.maxDepth}
	}
	return nil
}

func (p *parser) list(depth int) (Value, error) {
	start := p.pos
	if err := p.enter(depth); err != nil {
		return Value{}, err
	}
	p.pos++ // 'l'
	vs := []Value{}
	for {
		if p.pos >= len(p.buf) {
			return Value{}, p.incomplete(start)
		}
		if p.buf[p.pos] == 'e' {
			p.pos++
			return Value{kind: KindList, list: vs}, nil
		}
		v, err := p.value(depth + 1)
		if err != nil {
			return Value{}, err
		}
		vs = append(vs, v)
	}
}

func (p *parser) dict(depth int) (Value, error) {
	start := p.pos
	if err := p.enter(depth); err != nil {
		return Value{}, err
	}
	p.pos++ // 'd'
	d := Dict{}
	for {
		if p.pos >= len(p.buf) {
			return Value{}, p.incomplete(start)
		}
		c := p.buf[p.pos]
		if c == 'e' {
			p.pos++
			return Value{kind: KindDict, dict: d}, nil
		}
		if !isDigit(c) {
			return Value{}, p.syntaxError("dictionary key is not a byte string")
		}
		keyStart := p.pos
		kb, err := p.byteString()
		if err != nil {
			return Value{}, err
		}
		if !utf8.Valid(kb) {
			p.pos = keyStart
			return Value{}, p.syntaxError("dictionary key is not valid utf-8")
		}
		key := bytesAsString(kb)
		if _, ok := d[key]; ok {
			return Value{}, &DuplicateKeyError{Offset: int64(keyStart), Key: key}
		}
		v, err := p.value(depth + 1)
		if err != nil {
			return Value{}, err
		}
		d[key] = v
	}
}
