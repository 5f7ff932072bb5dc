// Package model holds the data records a controller runs actions over.
package model

import (
	"fmt"
	"maps"
	"os"
	"slices"
	"sort"

	"gopkg.in/yaml.v3"
)

// Record is one read-only unit of input data, keyed by keyword name.
type Record interface {
	Get(key string) (any, bool)
	Keys() []string
}

// Map is a Record backed by a plain map.
type Map map[string]any

// Get returns the value stored under key.
func (m Map) Get(key string) (any, bool) {
	v, ok := m[key]
	return v, ok
}

// Keys returns the record keys in sorted order.
func (m Map) Keys() []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// ToMap copies any record into a Map.
func ToMap(r Record) Map {
	if m, ok := r.(Map); ok {
		return maps.Clone(m)
	}
	m := make(Map)
	for _, k := range r.Keys() {
		v, _ := r.Get(k)
		m[k] = v
	}
	return m
}

// Queue is a FIFO of records.
type Queue struct {
	records []Record
}

// NewQueue creates a queue holding records in order.
func NewQueue(records ...Record) *Queue {
	return &Queue{records: slices.Clone(records)}
}

// Push appends records to the back of the queue.
func (q *Queue) Push(records ...Record) {
	q.records = append(q.records, records...)
}

// Len returns the number of queued records.
func (q *Queue) Len() int {
	return len(q.records)
}

// All returns the queued records without removing them.
func (q *Queue) All() []Record {
	return slices.Clone(q.records)
}

// Clear removes every record.
func (q *Queue) Clear() {
	q.records = nil
}

// Drain removes and returns every record.
func (q *Queue) Drain() []Record {
	records := q.records
	q.records = nil
	return records
}

// ParseRecords decodes a YAML sequence of mappings into records.
func ParseRecords(data []byte) ([]Record, error) {
	var raw []map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse records: %w", err)
	}

	records := make([]Record, 0, len(raw))
	for i, entry := range raw {
		if entry == nil {
			return nil, fmt.Errorf("record %d is empty", i)
		}
		records = append(records, Map(entry))
	}
	return records, nil
}

// LoadRecords reads a YAML records file.
func LoadRecords(path string) ([]Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read records file: %w", err)
	}
	records, err := ParseRecords(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return records, nil
}
