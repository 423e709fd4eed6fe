// Package jsonvalue provides an ordered JSON value model and parser.
//
// The standard library decodes objects into maps, which loses member order.
// A tree visualization has to show members in the order they were written,
// so [Parse] builds a [Value] whose objects keep their keys in document order.
//
// # Parsing
//
//	v, err := jsonvalue.ParseString(`{"user":{"name":"John"}}`)
//	if err != nil {
//	    // err has code INVALID_INPUT and wraps a *jsonvalue.SyntaxError
//	}
//
// Duplicate keys keep the position of their first occurrence and the value
// of their last one, so every member of a parsed object has a distinct key.
//
// # Rendering
//
// [Value.Literal] renders a value as compact JSON. Numbers keep the spelling
// used in the source text (1.50 stays 1.50).
package jsonvalue
