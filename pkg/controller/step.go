package controller

import (
	"context"
	"fmt"
	"strings"

	"github.com/entrhq/pagekit/pkg/model"
	"github.com/entrhq/pagekit/pkg/page"
)

// Step is one (record, action) pair of a run. Every record gets a fresh
// view, shared by all actions run for it.
type Step struct {
	View   *page.View
	Record model.Record
	Action string
	Index  int
}

// Mismatch is one keyword whose value differs from the record.
type Mismatch struct {
	Keyword  string
	Expected any
	Actual   string
}

// VerificationError lists every mismatch found by Verify.
type VerificationError struct {
	View       string
	Index      int
	Mismatches []Mismatch
}

func (e *VerificationError) Error() string {
	parts := make([]string, len(e.Mismatches))
	for i, m := range e.Mismatches {
		parts[i] = fmt.Sprintf("%s: expected %q, got %q", m.Keyword, fmt.Sprint(m.Expected), m.Actual)
	}
	return fmt.Sprintf("verification of record %d on %s failed: %s", e.Index, e.View, strings.Join(parts, "; "))
}

// Populate assigns every record value whose keyword has the populate
// permission, in process page order.
func (s *Step) Populate() error {
	for _, name := range s.View.Type().KeywordsWith(page.Populate) {
		value, ok := s.Record.Get(name)
		if !ok {
			continue
		}
		if err := s.View.Set(name, value); err != nil {
			return err
		}
	}
	return nil
}

// Verify compares every record value whose keyword has the verify permission
// with the current element value and reports all mismatches together.
func (s *Step) Verify() error {
	var mismatches []Mismatch
	for _, name := range s.View.Type().KeywordsWith(page.Verify) {
		value, ok := s.Record.Get(name)
		if !ok {
			continue
		}
		actual, matched, err := s.View.Compare(name, value)
		if err != nil {
			return err
		}
		if !matched {
			mismatches = append(mismatches, Mismatch{Keyword: name, Expected: value, Actual: actual})
		}
	}
	if len(mismatches) > 0 {
		return &VerificationError{View: s.View.Type().Name(), Index: s.Index, Mismatches: mismatches}
	}
	return nil
}

func populateAction(_ context.Context, s *Step) error {
	return s.Populate()
}

func verifyAction(_ context.Context, s *Step) error {
	return s.Verify()
}
