package jsonvalue

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	apperrors "github.com/matzehuels/jsontree/pkg/errors"
)

// MaxDepth is the deepest container nesting Parse accepts.
const MaxDepth = 10000

// SyntaxError describes malformed JSON text.
type SyntaxError struct {
	Msg    string // parser diagnostic
	Offset int64  // byte offset where the error was detected
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%s (at offset %d)", e.Msg, e.Offset)
}

// Parse parses exactly one JSON value from data. Leading and trailing
// whitespace is allowed; anything else after the value is an error.
//
// Errors carry the [apperrors.ErrCodeInvalidInput] code and wrap a
// *[SyntaxError] holding the parser diagnostic.
func Parse(data []byte) (Value, error) {
	return ParseReader(bytes.NewReader(data))
}

// ParseString is Parse for string input.
func ParseString(s string) (Value, error) {
	return ParseReader(strings.NewReader(s))
}

// ParseReader parses exactly one JSON value from r.
func ParseReader(r io.Reader) (Value, error) {
	p := &parser{dec: json.NewDecoder(r)}
	p.dec.UseNumber()

	v, err := p.value(0)
	if err != nil {
		return Value{}, p.fail(err)
	}
	if _, err := p.dec.Token(); err != io.EOF {
		if err == nil {
			err = errors.New("invalid character after top-level value")
		}
		return Value{}, p.fail(err)
	}
	return v, nil
}

type parser struct {
	dec *json.Decoder
}

func (p *parser) fail(err error) error {
	var se *json.SyntaxError
	var serr *SyntaxError
	switch {
	case errors.As(err, &serr):
	case errors.As(err, &se):
		serr = &SyntaxError{Msg: se.Error(), Offset: se.Offset}
	case errors.Is(err, io.EOF), errors.Is(err, io.ErrUnexpectedEOF):
		serr = &SyntaxError{Msg: "unexpected end of JSON input", Offset: p.dec.InputOffset()}
	default:
		serr = &SyntaxError{Msg: err.Error(), Offset: p.dec.InputOffset()}
	}
	return apperrors.Wrap(apperrors.ErrCodeInvalidInput, serr, "invalid JSON")
}

func (p *parser) value(depth int) (Value, error) {
	tok, err := p.dec.Token()
	if err != nil {
		return Value{}, err
	}
	switch t := tok.(type) {
	case nil:
		return Null(), nil
	case bool:
		return Bool(t), nil
	case json.Number:
		return Number(t.String()), nil
	case string:
		return String(t), nil
	case json.Delim:
		if depth >= MaxDepth {
			return Value{}, &SyntaxError{Msg: "exceeded max nesting depth", Offset: p.dec.InputOffset()}
		}
		switch t {
		case '[':
			return p.array(depth + 1)
		case '{':
			return p.object(depth + 1)
		}
	}
	return Value{}, &SyntaxError{Msg: fmt.Sprintf("unexpected token %v", tok), Offset: p.dec.InputOffset()}
}

func (p *parser) array(depth int) (Value, error) {
	items := []Value{}
	for p.dec.More() {
		v, err := p.value(depth)
		if err != nil {
			return Value{}, err
		}
		items = append(items, v)
	}
	if err := p.closing(']'); err != nil {
		return Value{}, err
	}
	return Array(items...), nil
}

// object keeps each key at the position of its first occurrence with the
// value of its last occurrence, so paths stay unique.
func (p *parser) object(depth int) (Value, error) {
	members := []Member{}
	index := map[string]int{}
	for p.dec.More() {
		tok, err := p.dec.Token()
		if err != nil {
			return Value{}, err
		}
		key, ok := tok.(string)
		if !ok {
			return Value{}, &SyntaxError{Msg: fmt.Sprintf("object key must be a string, got %v", tok), Offset: p.dec.InputOffset()}
		}
		v, err := p.value(depth)
		if err != nil {
			return Value{}, err
		}
		if i, dup := index[key]; dup {
			members[i].Value = v
			continue
		}
		index[key] = len(members)
		members = append(members, Member{Key: key, Value: v})
	}
	if err := p.closing('}'); err != nil {
		return Value{}, err
	}
	return Object(members...), nil
}

func (p *parser) closing(want json.Delim) error {
	tok, err := p.dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != want {
		return &SyntaxError{Msg: fmt.Sprintf("expected %q, got %v", want, tok), Offset: p.dec.InputOffset()}
	}
	return nil
}
