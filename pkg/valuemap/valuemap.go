// Package valuemap translates the symbolic values found in test data into the
// concrete values a form field expects.
//
// A Map is a list of entries. Each entry names one concrete value and the
// patterns that select it, for example the concrete radio value "M" selected
// by "male" or "m*". Patterns are glob expressions matched case-insensitively.
package valuemap

import (
	"fmt"
	"sort"
	"strings"

	"github.com/gobwas/glob"
)

// Entry maps one concrete value to the patterns that select it.
type Entry struct {
	Value    string
	Patterns []string
}

// LookupError is returned when a value matches no entry of a Map.
type LookupError struct {
	Value string
	Known []string
}

func (e *LookupError) Error() string {
	return fmt.Sprintf("value %q not found in value map (known values: %s)",
		e.Value, strings.Join(e.Known, ", "))
}

type compiledEntry struct {
	value    string
	patterns []glob.Glob
}

// Map is an immutable, ordered value translation table.
type Map struct {
	entries []compiledEntry
}

// New builds a Map from concrete value → patterns. Entries are evaluated in
// sorted order of their concrete values.
func New(entries map[string][]string) (*Map, error) {
	values := make([]string, 0, len(entries))
	for value := range entries {
		values = append(values, value)
	}
	sort.Strings(values)

	ordered := make([]Entry, 0, len(values))
	for _, value := range values {
		ordered = append(ordered, Entry{Value: value, Patterns: entries[value]})
	}
	return NewOrdered(ordered...)
}

// NewOrdered builds a Map that evaluates entries in the given order.
func NewOrdered(entries ...Entry) (*Map, error) {
	m := &Map{entries: make([]compiledEntry, 0, len(entries))}
	for _, entry := range entries {
		compiled := compiledEntry{value: entry.Value}
		for _, pattern := range entry.Patterns {
			g, err := glob.Compile(strings.ToLower(pattern))
			if err != nil {
				return nil, fmt.Errorf("invalid pattern %q for value %q: %w", pattern, entry.Value, err)
			}
			compiled.patterns = append(compiled.patterns, g)
		}
		m.entries = append(m.entries, compiled)
	}
	return m, nil
}

// MustNew is like New but panics on an invalid pattern. It is meant for
// package-level view declarations.
func MustNew(entries map[string][]string) *Map {
	m, err := New(entries)
	if err != nil {
		panic(err)
	}
	return m
}

// Lookup returns the concrete value selected by v. A value equal to one of the
// concrete values selects itself.
func (m *Map) Lookup(v any) (string, error) {
	raw := fmt.Sprint(v)
	key := strings.ToLower(raw)

	for _, entry := range m.entries {
		for _, pattern := range entry.patterns {
			if pattern.Match(key) {
				return entry.value, nil
			}
		}
	}
	for _, entry := range m.entries {
		if entry.value == raw {
			return entry.value, nil
		}
	}
	return "", &LookupError{Value: raw, Known: m.Values()}
}

// Values lists the concrete values in evaluation order.
func (m *Map) Values() []string {
	values := make([]string, len(m.entries))
	for i, entry := range m.entries {
		values[i] = entry.value
	}
	return values
}
