// Package richtext extracts every string leaf of a decoded JSON document,
// keyed by the dot-delimited path that leads to it.
//
// A tree rooted at an object produces paths with a leading separator, e.g.
// ".fields.summary" or ".fields.labels.0". Array elements are addressed by
// their zero-based index.
package richtext

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
)

// Separator joins path segments.
const Separator = "."

// Extract walks root and returns one entry per string leaf.
// Numbers, booleans and nulls are skipped.
func Extract(root any) map[string]string {
	out := make(map[string]string)
	walk(root, "", out)
	return out
}

func walk(v any, path string, out map[string]string) {
	switch node := v.(type) {
	case map[string]any:
		for key, child := range node {
			walk(child, path+Separator+key, out)
		}
	case []any:
		for i, child := range node {
			walk(child, path+Separator+strconv.Itoa(i), out)
		}
	case string:
		out[path] = node
	}
}

// Decode parses a single JSON document from r. Numbers are kept as
// json.Number so that large identifiers survive a round trip.
func Decode(r io.Reader) (any, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, fmt.Errorf("failed to decode json: %w", err)
	}
	return v, nil
}

// Split returns the segments of a path produced by Extract.
func Split(path string) []string {
	path = strings.TrimPrefix(path, Separator)
	if path == "" {
		return nil
	}
	return strings.Split(path, Separator)
}

// Lookup follows path through root and returns the value found there.
// Object keys that themselves contain the separator cannot be addressed.
func Lookup(root any, path string) (any, bool) {
	cur := root
	for _, seg := range Split(path) {
		switch node := cur.(type) {
		case map[string]any:
			next, ok := node[seg]
			if !ok {
				return nil, false
			}
			cur = next
		case []any:
			i, err := strconv.Atoi(seg)
			if err != nil || i < 0 || i >= len(node) {
				return nil, false
			}
			cur = node[i]
		default:
			return nil, false
		}
	}
	return cur, true
}

// Paths returns the keys of m in lexical order.
func Paths(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
