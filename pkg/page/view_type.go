package page

import (
	"fmt"
	"maps"
	"slices"
	"sort"

	"github.com/entrhq/pagekit/pkg/element"
	"github.com/entrhq/pagekit/pkg/valuemap"
)

// Accessor produces the element behind a keyword for one view instance.
type Accessor func(v *View, args ...any) (element.Element, error)

// Locate returns an accessor that asks the view's driver for the element of
// the given kind at selector.
func Locate(kind element.Kind, selector string) Accessor {
	return func(v *View, _ ...any) (element.Element, error) {
		if v.Driver() == nil {
			return nil, fmt.Errorf("no driver bound to view %s", v.Type().Name())
		}
		return v.Driver().Locate(kind, selector)
	}
}

// Keyword is the registry entry of one keyword.
type Keyword struct {
	Name       string
	Map        *valuemap.Map
	Permission Permission
	Accessor   Accessor
	Page       *ProcessPage
	Private    bool
}

// contribution holds the keywords and permissions one type in an inheritance
// chain declared itself.
type contribution struct {
	owner string
	names []string
	perms map[string]Permission
}

func (c *contribution) clone() *contribution {
	return &contribution{
		owner: c.owner,
		names: slices.Clone(c.names),
		perms: maps.Clone(c.perms),
	}
}

// ViewType is the keyword and process page registry of one page object.
type ViewType struct {
	name     string
	parent   *ViewType
	keywords map[string]*Keyword
	elements map[string]*KeyedElement
	contribs []*contribution // ancestors first, own last
	pages    []*ProcessPage
	root     *ProcessPage
}

func newViewType(name string) *ViewType {
	vt := &ViewType{
		name:     name,
		keywords: make(map[string]*Keyword),
		elements: make(map[string]*KeyedElement),
		contribs: []*contribution{{owner: name, perms: make(map[string]Permission)}},
	}
	vt.root = newRootPage(name)
	vt.pages = append(vt.pages, vt.root)
	return vt
}

// Define builds a new view type by running body against a fresh declaration
// context. The type is only returned when every declaration succeeded.
func Define(name string, body func(d *Decl)) (*ViewType, error) {
	vt := newViewType(name)
	if err := vt.declare(body); err != nil {
		return nil, err
	}
	debugLog.Debugf("defined view %s with %d keywords and %d process pages", name, len(vt.keywords), len(vt.pages))
	return vt, nil
}

// MustDefine is like Define but panics on a declaration error. It is meant
// for package-level view declarations.
func MustDefine(name string, body func(d *Decl)) *ViewType {
	vt, err := Define(name, body)
	if err != nil {
		panic(err)
	}
	return vt
}

// Subtype creates a view type inheriting a snapshot of vt's keywords,
// permissions and process pages, gives it its own root page and then runs body
// against it.
func (vt *ViewType) Subtype(name string, body func(d *Decl)) (*ViewType, error) {
	sub := vt.snapshot(name)
	sub.parent = vt
	sub.contribs = append(sub.contribs, &contribution{owner: name, perms: make(map[string]Permission)})
	sub.root = newRootPage(name)
	sub.pages = append(sub.pages, sub.root)

	if err := sub.declare(body); err != nil {
		return nil, err
	}
	debugLog.Debugf("defined view %s as subtype of %s", name, vt.name)
	return sub, nil
}

// MustSubtype is like Subtype but panics on a declaration error.
func (vt *ViewType) MustSubtype(name string, body func(d *Decl)) *ViewType {
	sub, err := vt.Subtype(name, body)
	if err != nil {
		panic(err)
	}
	return sub
}

// Declare adds declarations to an existing view type. On error the type is
// left as it was before the call.
func (vt *ViewType) Declare(body func(d *Decl)) error {
	work := vt.snapshot(vt.name)
	work.parent = vt.parent
	if err := work.declare(body); err != nil {
		return err
	}
	*vt = *work
	return nil
}

func (vt *ViewType) declare(body func(d *Decl)) error {
	d := newDecl(vt)
	if body != nil {
		body(d)
	}
	if d.err != nil {
		return fmt.Errorf("declaring view %s: %w", vt.name, d.err)
	}
	return nil
}

// snapshot deep-copies the registry into a new type called name. Keyword
// entries are re-bound to the copied process pages.
func (vt *ViewType) snapshot(name string) *ViewType {
	pages, mapping := clonePages(vt.pages)
	cp := &ViewType{
		name:     name,
		keywords: make(map[string]*Keyword, len(vt.keywords)),
		elements: make(map[string]*KeyedElement, len(vt.elements)),
		pages:    pages,
		root:     mapping[vt.root],
	}
	for _, c := range vt.contribs {
		cp.contribs = append(cp.contribs, c.clone())
	}
	for kwName, kw := range vt.keywords {
		k := *kw
		k.Page = mapping[kw.Page]
		cp.keywords[kwName] = &k
		cp.elements[kwName] = &KeyedElement{keyword: &k}
	}
	return cp
}

func (vt *ViewType) own() *contribution {
	return vt.contribs[len(vt.contribs)-1]
}

// Name returns the view type name.
func (vt *ViewType) Name() string {
	return vt.name
}

// Parent returns the type vt was derived from, or nil.
func (vt *ViewType) Parent() *ViewType {
	return vt.parent
}

// Root returns the root process page of vt.
func (vt *ViewType) Root() *ProcessPage {
	return vt.root
}

// Keywords returns the sorted union of the keywords declared on vt and on
// every type it inherits from.
func (vt *ViewType) Keywords() []string {
	var names []string
	for _, c := range vt.contribs {
		names = append(names, c.names...)
	}
	sort.Strings(names)
	return slices.Compact(names)
}

// NativeKeywords returns the sorted keywords declared on vt itself.
func (vt *ViewType) NativeKeywords() []string {
	names := slices.Clone(vt.own().names)
	sort.Strings(names)
	return names
}

// Permissions merges the permission tables of every contributing type.
// Entries of a subtype replace same-named entries of its ancestors.
func (vt *ViewType) Permissions() map[string]Permission {
	merged := make(map[string]Permission)
	for _, c := range vt.contribs {
		maps.Copy(merged, c.perms)
	}
	return merged
}

// KeywordsWith returns the keywords carrying perm in page order: pages in
// creation order, keywords in the order they were declared on each page.
func (vt *ViewType) KeywordsWith(perm Permission) []string {
	perms := vt.Permissions()
	var names []string
	for _, p := range vt.pages {
		for _, name := range p.keywords {
			if perms[name].Has(perm) && !slices.Contains(names, name) {
				names = append(names, name)
			}
		}
	}
	return names
}

// Keyword returns the registry entry for name.
func (vt *ViewType) Keyword(name string) (*Keyword, error) {
	kw, ok := vt.keywords[name]
	if !ok {
		return nil, &LookupError{Kind: "keyword", Name: name, Scope: vt.name}
	}
	return kw, nil
}

// Element returns the keyed element bound to keyword name.
func (vt *ViewType) Element(name string) (*KeyedElement, error) {
	el, ok := vt.elements[name]
	if !ok {
		return nil, &LookupError{Kind: "keyword", Name: name, Scope: vt.name}
	}
	return el, nil
}

// ProcessPage finds a page by canonical name or alias.
func (vt *ViewType) ProcessPage(key string) (*ProcessPage, error) {
	for _, p := range vt.pages {
		if p.matches(key) {
			return p, nil
		}
	}
	return nil, &LookupError{Kind: "process page", Name: key, Scope: vt.name}
}

// ProcessPages returns every page of vt, inherited ones included, in the
// order they were created.
func (vt *ViewType) ProcessPages() []*ProcessPage {
	return slices.Clone(vt.pages)
}

// findOrCreatePage reopens the page called name under parent or creates it.
// Canonical names are unique across the type, roots included, so a page
// cannot take the name of the type's own or an inherited root.
func (vt *ViewType) findOrCreatePage(name string, parent *ProcessPage) (*ProcessPage, error) {
	fullName := qualifiedName(parent, name)
	for _, p := range vt.pages {
		if p.fullName != fullName {
			continue
		}
		if p.root {
			return nil, fmt.Errorf("process page %q clashes with the root page of %s", fullName, p.name)
		}
		return p, nil
	}
	p := newProcessPage(name, parent)
	vt.pages = append(vt.pages, p)
	return p, nil
}

// register stores kw, replacing an earlier keyword of the same name.
func (vt *ViewType) register(kw *Keyword) error {
	el, err := newKeyedElement(kw)
	if err != nil {
		return err
	}

	if prev, ok := vt.keywords[kw.Name]; ok && prev.Page != nil && (prev.Page != kw.Page || kw.Private) {
		prev.Page.removeKeyword(kw.Name)
	}

	own := vt.own()
	if !slices.Contains(own.names, kw.Name) {
		own.names = append(own.names, kw.Name)
	}
	own.perms[kw.Name] = kw.Permission

	vt.keywords[kw.Name] = kw
	vt.elements[kw.Name] = el
	if !kw.Private {
		kw.Page.addKeyword(kw.Name)
	}
	return nil
}
