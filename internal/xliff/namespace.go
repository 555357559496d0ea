package xliff

import (
	"sort"

	"github.com/beevik/etree"
)

// bindDefaultNamespace rewrites the tree below root so that every XLIFF
// element is unprefixed and the root declares the XLIFF namespace as the
// default namespace. Documents whose root already binds the default
// namespace to something else are left alone.
func bindDefaultNamespace(root *etree.Element) {
	if LookupNamespace(root, root.Space) != Namespace {
		return
	}
	if def := LookupNamespace(root, ""); def != "" && def != Namespace {
		return
	}

	// Record the resolved namespace of every element, in document order,
	// before any declaration changes.
	type scoped struct {
		el  *etree.Element
		uri string
	}
	var elements []scoped
	var walk func(*etree.Element)
	walk = func(e *etree.Element) {
		elements = append(elements, scoped{el: e, uri: LookupNamespace(e, e.Space)})
		for _, c := range e.ChildElements() {
			walk(c)
		}
	}
	walk(root)

	declared := declaredOn(root, "")
	root.CreateAttr("xmlns", Namespace)
	if !declared {
		// keep the declaration in front, where serializers put it
		n := len(root.Attr)
		decl := root.Attr[n-1]
		copy(root.Attr[1:], root.Attr[:n-1])
		root.Attr[0] = decl
	}

	// Parents come before their children, so each element sees the
	// declarations already rewritten above it.
	for _, s := range elements {
		switch {
		case s.el.Space == "" && s.uri == "" && LookupNamespace(s.el, "") != "":
			// unprefixed elements that were in no namespace stay there
			s.el.CreateAttr("xmlns", "")
		case s.el.Space != "" && s.uri == Namespace && LookupNamespace(s.el, "") == Namespace:
			s.el.Space = ""
		}
	}
}

// Graft returns a deep copy of el prepared for insertion below parent, which
// may belong to a different tree. The copy shares no storage with el.
// Namespace prefixes the copy uses that resolve differently below parent
// are declared on the copy with their meaning in el's tree.
func Graft(el, parent *etree.Element) *etree.Element {
	c := el.Copy()

	prefixes := make(map[string]bool)
	usedPrefixes(c, prefixes)
	var sorted []string
	for p := range prefixes {
		sorted = append(sorted, p)
	}
	sort.Strings(sorted)

	for _, p := range sorted {
		if declaredOn(c, p) {
			continue
		}
		want := LookupNamespace(el, p)
		if want == LookupNamespace(parent, p) {
			continue
		}
		if want == "" && p != "" {
			// prefixes cannot be undeclared in XML 1.0
			continue
		}
		if p == "" {
			c.CreateAttr("xmlns", want)
		} else {
			c.CreateAttr("xmlns:"+p, want)
		}
	}
	return c
}

func usedPrefixes(e *etree.Element, into map[string]bool) {
	into[e.Space] = true
	for _, a := range e.Attr {
		if a.Space == "" || a.Space == "xml" || a.Space == "xmlns" {
			continue
		}
		into[a.Space] = true
	}
	for _, c := range e.ChildElements() {
		usedPrefixes(c, into)
	}
}

func declaredOn(e *etree.Element, prefix string) bool {
	for _, a := range e.Attr {
		if declares(a, prefix) {
			return true
		}
	}
	return false
}
