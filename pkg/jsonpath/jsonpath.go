// Package jsonpath builds and checks the path expressions that locate values
// inside a JSON document.
//
// A path starts at the root "$". Object member access appends ".key" and
// array element access appends "[index]":
//
//	$                      the document
//	$.user.address.city    a nested member
//	$.items[0].name        a member of the first array element
//
// Paths are compared as plain strings. There are no wildcards or filters.
package jsonpath

import (
	"regexp"
	"strconv"
	"strings"
)

// Root is the path of the document itself.
const Root = "$"

// Member returns the path of the member key of the object at parent.
func Member(parent, key string) string {
	return parent + "." + key
}

// Index returns the path of element i of the array at parent.
func Index(parent string, i int) string {
	return parent + "[" + strconv.Itoa(i) + "]"
}

var indexMarker = regexp.MustCompile(`\[\d+\]`)

// Segment returns the display name of the last step of path: the text after
// the final "." with every "[n]" index marker removed.
//
//	Segment("$.user.name")     == "name"
//	Segment("$.items[0]")      == "items"
//	Segment("$[2][0]")         == "$"
func Segment(path string) string {
	if i := strings.LastIndexByte(path, '.'); i >= 0 {
		path = path[i+1:]
	}
	return indexMarker.ReplaceAllString(path, "")
}

// Valid reports whether query follows the path grammar: "$" followed by any
// number of ".name" or "[integer]" steps. Names are non-empty and contain no
// ".", "[" or "]".
func Valid(query string) bool {
	rest, ok := strings.CutPrefix(query, Root)
	if !ok {
		return false
	}
	for rest != "" {
		switch rest[0] {
		case '.':
			n := strings.IndexAny(rest[1:], ".[]")
			if n < 0 {
				n = len(rest) - 1
			}
			if n == 0 {
				return false
			}
			rest = rest[1+n:]
		case '[':
			end := strings.IndexByte(rest, ']')
			if end < 2 || !isDigits(rest[1:end]) {
				return false
			}
			rest = rest[end+1:]
		default:
			return false
		}
	}
	return true
}

// Depth returns the number of steps below the root in a valid path.
func Depth(path string) int {
	return strings.Count(path, ".") + strings.Count(path, "[")
}

func isDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return s != ""
}
