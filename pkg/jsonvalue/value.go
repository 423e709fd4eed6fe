package jsonvalue

import (
	"bytes"
	"encoding/json"
	"strings"
)

// Kind identifies the JSON type of a [Value].
type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindNumber
	KindString
	KindArray
	KindObject
)

var kindNames = [...]string{"null", "boolean", "number", "string", "array", "object"}

// String returns the JSON type name ("null", "boolean", "number", ...).
func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// Member is one key/value pair of an object, in document order.
type Member struct {
	Key   string
	Value Value
}

// Value is an immutable JSON value. Objects keep their members in the order
// the keys first appeared in the source; arrays keep element order.
//
// The zero value is JSON null.
type Value struct {
	kind    Kind
	b       bool
	s       string // string contents, or the number literal
	items   []Value
	members []Member
}

// Null returns the JSON null value.
func Null() Value { return Value{} }

// Bool returns a JSON boolean.
func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

// Number returns a JSON number with the given literal spelling.
// The literal is not validated; use [Parse] for untrusted input.
func Number(lit string) Value { return Value{kind: KindNumber, s: lit} }

// String returns a JSON string.
func String(s string) Value { return Value{kind: KindString, s: s} }

// Array returns a JSON array holding items in order.
func Array(items ...Value) Value {
	if items == nil {
		items = []Value{}
	}
	return Value{kind: KindArray, items: items}
}

// Object returns a JSON object holding members in order.
func Object(members ...Member) Value {
	if members == nil {
		members = []Member{}
	}
	return Value{kind: KindObject, members: members}
}

// Kind reports the JSON type of v.
func (v Value) Kind() Kind { return v.kind }

// IsContainer reports whether v is an array or an object.
func (v Value) IsContainer() bool { return v.kind == KindArray || v.kind == KindObject }

// Items returns the elements of an array, or nil for other kinds.
func (v Value) Items() []Value { return v.items }

// Members returns the members of an object, or nil for other kinds.
func (v Value) Members() []Member { return v.members }

// Len returns the number of direct children of a container, 0 otherwise.
func (v Value) Len() int {
	switch v.kind {
	case KindArray:
		return len(v.items)
	case KindObject:
		return len(v.members)
	}
	return 0
}

// Lookup returns the value stored under key in an object.
func (v Value) Lookup(key string) (Value, bool) {
	for _, m := range v.members {
		if m.Key == key {
			return m.Value, true
		}
	}
	return Value{}, false
}

// BoolValue returns the boolean payload; false for non-booleans.
func (v Value) BoolValue() bool { return v.b }

// NumberValue returns the number literal; empty for non-numbers.
func (v Value) NumberValue() json.Number {
	if v.kind != KindNumber {
		return ""
	}
	return json.Number(v.s)
}

// StringValue returns the string payload; empty for non-strings.
func (v Value) StringValue() string {
	if v.kind != KindString {
		return ""
	}
	return v.s
}

// Count returns the number of values in v, counting v itself and every
// nested value.
func (v Value) Count() int {
	n := 1
	for _, it := range v.items {
		n += it.Count()
	}
	for _, m := range v.members {
		n += m.Value.Count()
	}
	return n
}

// Literal renders v as compact JSON text. Strings are quoted and escaped
// without HTML escaping, numbers keep their source spelling.
func (v Value) Literal() string {
	var sb strings.Builder
	v.write(&sb)
	return sb.String()
}

// MarshalJSON implements [json.Marshaler], preserving member order.
func (v Value) MarshalJSON() ([]byte, error) {
	return []byte(v.Literal()), nil
}

// UnmarshalJSON implements [json.Unmarshaler] with [Parse], so member
// order and number spelling survive a round trip.
func (v *Value) UnmarshalJSON(data []byte) error {
	parsed, err := Parse(data)
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}

// Equal reports whether v and w are structurally identical, including
// member order and number spelling.
func (v Value) Equal(w Value) bool {
	return v.Literal() == w.Literal()
}

func (v Value) write(sb *strings.Builder) {
	switch v.kind {
	case KindNull:
		sb.WriteString("null")
	case KindBool:
		if v.b {
			sb.WriteString("true")
		} else {
			sb.WriteString("false")
		}
	case KindNumber:
		sb.WriteString(v.s)
	case KindString:
		sb.WriteString(quote(v.s))
	case KindArray:
		sb.WriteByte('[')
		for i, it := range v.items {
			if i > 0 {
				sb.WriteByte(',')
			}
			it.write(sb)
		}
		sb.WriteByte(']')
	case KindObject:
		sb.WriteByte('{')
		for i, m := range v.members {
			if i > 0 {
				sb.WriteByte(',')
			}
			sb.WriteString(quote(m.Key))
			sb.WriteByte(':')
			m.Value.write(sb)
		}
		sb.WriteByte('}')
	}
}

func quote(s string) string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(s)
	return strings.TrimSuffix(buf.String(), "\n")
}
