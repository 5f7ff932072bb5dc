package page

import (
	"errors"
	"fmt"

	"github.com/entrhq/pagekit/pkg/element"
	"github.com/entrhq/pagekit/pkg/valuemap"
)

// Decl is the declaration context handed to Define, Subtype and Declare.
//
// It tracks the process page new keywords attach to as an explicit stack.
// The first failing declaration is recorded and every later call becomes a
// no-op; the enclosing Define then reports it.
type Decl struct {
	vt    *ViewType
	stack []*ProcessPage
	err   error

	navigate Hook
	submit   Hook
	isActive ActiveCheck
}

func newDecl(vt *ViewType) *Decl {
	return &Decl{vt: vt, stack: []*ProcessPage{vt.root}}
}

// KeywordOption configures a keyword declaration.
type KeywordOption func(kw *Keyword)

// WithValueMap translates values through m before they are assigned.
func WithValueMap(m *valuemap.Map) KeywordOption {
	return func(kw *Keyword) {
		kw.Map = m
	}
}

// Err returns the first declaration error, if any.
func (d *Decl) Err() error {
	return d.err
}

// Fail records err as a declaration error.
func (d *Decl) Fail(err error) {
	if d.err == nil && err != nil {
		d.err = err
	}
}

// Current returns the process page declarations currently attach to.
func (d *Decl) Current() *ProcessPage {
	return d.stack[len(d.stack)-1]
}

// Keyword declares a keyword that takes part in population and verification.
func (d *Decl) Keyword(name string, accessor Accessor, opts ...KeywordOption) {
	d.declare(name, accessor, Populate|Verify, false, opts)
}

// PopulateKeyword declares a keyword that is only populated.
func (d *Decl) PopulateKeyword(name string, accessor Accessor, opts ...KeywordOption) {
	d.declare(name, accessor, Populate, false, opts)
}

// VerifyKeyword declares a keyword that is only verified.
func (d *Decl) VerifyKeyword(name string, accessor Accessor, opts ...KeywordOption) {
	d.declare(name, accessor, Verify, false, opts)
}

// PrivateKeyword declares a keyword outside every data pass. It is not listed
// on its process page.
func (d *Decl) PrivateKeyword(name string, accessor Accessor, opts ...KeywordOption) {
	d.declare(name, accessor, NoPermission, true, opts)
}

// NavigationKeyword is PrivateKeyword under the name used for links and tabs.
func (d *Decl) NavigationKeyword(name string, accessor Accessor, opts ...KeywordOption) {
	d.PrivateKeyword(name, accessor, opts...)
}

// KeywordAlias declares alias as a keyword that forwards to target. The target
// is resolved each time the alias is used, so an unknown target only fails then.
func (d *Decl) KeywordAlias(alias, target string) {
	if alias == target {
		d.Fail(&AliasError{Alias: alias, Target: target, Err: ErrAliasCycle})
		return
	}
	accessor := func(v *View, args ...any) (element.Element, error) {
		if !v.enterAlias(alias) {
			return nil, &AliasError{Alias: alias, Target: target, Err: ErrAliasCycle}
		}
		defer v.leaveAlias(alias)

		debugLog.Warnf("deprecated use of keyword alias %q to access %q in %s", alias, target, v.Type().Name())
		el, err := v.Type().Element(target)
		if err != nil {
			return nil, &AliasError{Alias: alias, Target: target, Err: err}
		}
		return el.Get(v, args...)
	}
	d.declare(alias, accessor, Populate|Verify, false, nil)
}

func (d *Decl) declare(name string, accessor Accessor, perm Permission, private bool, opts []KeywordOption) {
	if d.err != nil {
		return
	}
	if name == "" {
		d.Fail(errors.New("keyword name is empty"))
		return
	}
	if accessor == nil {
		d.Fail(fmt.Errorf("keyword %q has no accessor", name))
		return
	}

	kw := &Keyword{
		Name:       name,
		Permission: perm,
		Accessor:   accessor,
		Page:       d.Current(),
		Private:    private,
	}
	for _, opt := range opts {
		opt(kw)
	}
	d.Fail(d.vt.register(kw))
}

// ProcessPage opens the page called name under the current page, runs body
// with it as the current page and restores the previous one afterwards, also
// when body panics. Opening an existing page reopens it.
func (d *Decl) ProcessPage(name string, body func(d *Decl)) {
	if d.err != nil {
		return
	}
	if !validPageName(name) {
		d.Fail(fmt.Errorf("invalid process page name %q", name))
		return
	}

	p, err := d.vt.findOrCreatePage(name, d.Current())
	if err != nil {
		d.Fail(err)
		return
	}
	if d.navigate != nil {
		p.navigate = d.navigate
	}
	if d.submit != nil {
		p.submit = d.submit
	}
	if d.isActive != nil {
		p.isActive = d.isActive
	}

	d.stack = append(d.stack, p)
	defer func() {
		d.stack = d.stack[:len(d.stack)-1]
	}()
	if body != nil {
		body(d)
	}
}

// ProcessPageAlias registers name as an extra lookup key for the current page.
func (d *Decl) ProcessPageAlias(name string) {
	if d.err != nil {
		return
	}
	if name == "" {
		d.Fail(errors.New("process page alias is empty"))
		return
	}
	p := d.Current()
	p.aliases = append(p.aliases, name)
}

// AlwaysActivateParent makes every activation of the current page activate
// its parent again first.
func (d *Decl) AlwaysActivateParent() {
	if d.err != nil {
		return
	}
	p := d.Current()
	if p.root {
		d.Fail(errors.New("always activate parent used outside a process page"))
		return
	}
	p.alwaysActivateParent = true
}

// NavigateMethod sets the navigate hook of every process page opened after
// this call.
func (d *Decl) NavigateMethod(h Hook) {
	d.navigate = h
}

// SubmitMethod sets the submit hook of every process page opened after this call.
func (d *Decl) SubmitMethod(h Hook) {
	d.submit = h
}

// ActivePageMethod sets the active-page check of every process page opened
// after this call.
func (d *Decl) ActivePageMethod(check ActiveCheck) {
	d.isActive = check
}
