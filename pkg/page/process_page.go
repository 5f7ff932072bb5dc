package page

import (
	"slices"
	"strings"
)

// Separator joins process page names into a canonical identity.
const Separator = " > "

// Hook is a navigation or submit step run against a view.
type Hook func(v *View) error

// ActiveCheck reports whether a process page is already showing, letting
// activation skip its navigate hook.
type ActiveCheck func(v *View) (bool, error)

// ProcessPage is one node of a view type's process page tree.
type ProcessPage struct {
	name     string
	fullName string
	parent   *ProcessPage
	children []*ProcessPage
	aliases  []string
	keywords []string
	root     bool

	alwaysActivateParent bool

	navigate Hook
	submit   Hook
	isActive ActiveCheck
}

func newRootPage(name string) *ProcessPage {
	return &ProcessPage{name: name, fullName: name, root: true}
}

func newProcessPage(name string, parent *ProcessPage) *ProcessPage {
	p := &ProcessPage{
		name:     name,
		fullName: qualifiedName(parent, name),
		parent:   parent,
	}
	parent.children = append(parent.children, p)
	return p
}

// qualifiedName is the canonical identity of a page called name opened under parent.
func qualifiedName(parent *ProcessPage, name string) string {
	if parent == nil || parent.root {
		return name
	}
	return parent.fullName + Separator + name
}

// Name returns the canonical identity: the names of all non-root ancestors
// and the page itself joined with Separator. A root page is named after its
// view type.
func (p *ProcessPage) Name() string {
	return p.fullName
}

// LocalName returns the name the page was opened with.
func (p *ProcessPage) LocalName() string {
	return p.name
}

// Parent returns the enclosing page, nil for a root.
func (p *ProcessPage) Parent() *ProcessPage {
	return p.parent
}

// Children returns the pages opened directly inside p.
func (p *ProcessPage) Children() []*ProcessPage {
	return slices.Clone(p.children)
}

// Aliases returns the extra lookup names registered for p.
func (p *ProcessPage) Aliases() []string {
	return slices.Clone(p.aliases)
}

// Keywords returns the keywords declared directly on p, in declaration order.
func (p *ProcessPage) Keywords() []string {
	return slices.Clone(p.keywords)
}

// IsRoot reports whether p is the root page of its view type.
func (p *ProcessPage) IsRoot() bool {
	return p.root
}

// AlwaysActivateParent reports whether activating p re-activates its parent
// every time.
func (p *ProcessPage) AlwaysActivateParent() bool {
	return p.alwaysActivateParent
}

// Submit runs the page's submit hook. Activation never calls it; data passes
// and actions decide when a page is submitted.
func (p *ProcessPage) Submit(v *View) error {
	if p.submit == nil {
		return nil
	}
	return p.submit(v)
}

// matches reports whether key is the canonical name or an alias of p.
func (p *ProcessPage) matches(key string) bool {
	return p.fullName == key || slices.Contains(p.aliases, key)
}

func (p *ProcessPage) addKeyword(name string) {
	if !slices.Contains(p.keywords, name) {
		p.keywords = append(p.keywords, name)
	}
}

func (p *ProcessPage) removeKeyword(name string) {
	p.keywords = slices.DeleteFunc(p.keywords, func(k string) bool { return k == name })
}

// isAncestorOf reports whether p is q or one of q's ancestors.
func (p *ProcessPage) isAncestorOf(q *ProcessPage) bool {
	for ; q != nil; q = q.parent {
		if q == p {
			return true
		}
	}
	return false
}

// clonePages deep-copies a page list. The returned map sends every source
// node to its copy so other references can be re-bound.
func clonePages(pages []*ProcessPage) ([]*ProcessPage, map[*ProcessPage]*ProcessPage) {
	mapping := make(map[*ProcessPage]*ProcessPage, len(pages))
	cloned := make([]*ProcessPage, len(pages))
	for i, p := range pages {
		c := *p
		c.aliases = slices.Clone(p.aliases)
		c.keywords = slices.Clone(p.keywords)
		cloned[i] = &c
		mapping[p] = &c
	}
	for _, c := range cloned {
		c.parent = mapping[c.parent]
		children := make([]*ProcessPage, 0, len(c.children))
		for _, child := range c.children {
			if mapped, ok := mapping[child]; ok {
				children = append(children, mapped)
			}
		}
		c.children = children
	}
	return cloned, mapping
}

func validPageName(name string) bool {
	return strings.TrimSpace(name) != "" && !strings.Contains(name, Separator)
}
