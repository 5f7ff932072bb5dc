package page

import (
	"errors"
	"fmt"
)

// ErrNotFound is matched by every LookupError.
var ErrNotFound = errors.New("not found")

// LookupError is returned when a keyword or process page is not registered
// on a view type.
type LookupError struct {
	Kind  string // "keyword" or "process page"
	Name  string
	Scope string // name of the searched view type
}

func (e *LookupError) Error() string {
	return fmt.Sprintf("%s %q not found in %s", e.Kind, e.Name, e.Scope)
}

func (e *LookupError) Is(target error) bool {
	return target == ErrNotFound
}

// ErrAliasCycle is wrapped by an AliasError whose chain leads back to itself.
var ErrAliasCycle = errors.New("alias cycle")

// AliasError is returned when a keyword alias is used and its target cannot
// be resolved.
type AliasError struct {
	Alias  string
	Target string
	Err    error
}

func (e *AliasError) Error() string {
	return fmt.Sprintf("keyword alias %q for %q: %v", e.Alias, e.Target, e.Err)
}

func (e *AliasError) Unwrap() error {
	return e.Err
}

// InvariantError reports a registry state that declarations cannot produce.
type InvariantError struct {
	Keyword string
	Reason  string
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf("keyword %q: %s", e.Keyword, e.Reason)
}
