// Package xliff contains the XLIFF 1.2 tree helpers shared by the xliff-*
// tools: loading, namespace-qualified lookup, grafting nodes between trees
// and atomic saving.
package xliff

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/beevik/etree"
	"github.com/google/renameio"
)

const (
	Namespace    = "urn:oasis:names:tc:xliff:document:1.2"
	XSINamespace = "http://www.w3.org/2001/XMLSchema-instance"

	xmlNamespace   = "http://www.w3.org/XML/1998/namespace"
	xmlnsNamespace = "http://www.w3.org/2000/xmlns/"

	// Declaration is the content of the <?xml ...?> processing instruction
	// every output document starts with.
	Declaration = `version="1.0" encoding="UTF-8"`
)

var (
	ErrMissingFile = errors.New("file not found")
	ErrMalformed   = errors.New("could not parse XML")
)

// Load reads and parses the XLIFF document at path. Elements in the XLIFF
// namespace are rebound to the default namespace, so that they serialize
// without a prefix.
func Load(path string) (*etree.Document, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrMissingFile, path)
		}
		return nil, err
	}
	doc := etree.NewDocument()
	doc.ReadSettings.PreserveCData = true
	if err := doc.ReadFromBytes(b); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrMalformed, path, err)
	}
	if doc.Root() == nil {
		return nil, fmt.Errorf("%w: %s: no root element", ErrMalformed, path)
	}
	bindDefaultNamespace(doc.Root())
	return doc, nil
}

// Save writes doc to path, replacing any existing file atomically.
func Save(doc *etree.Document, path string) error {
	ensureDeclaration(doc)
	// Quotes in text stay literal.
	doc.WriteSettings.CanonicalText = true
	doc.WriteSettings.CanonicalAttrVal = true

	out, err := renameio.TempFile("", path)
	if err != nil {
		return err
	}
	defer out.Cleanup()
	if _, err := doc.WriteTo(out); err != nil {
		return err
	}
	if err := out.Chmod(0644); err != nil {
		return err
	}
	return out.CloseAtomicallyReplace()
}

func ensureDeclaration(doc *etree.Document) {
	for _, t := range doc.Child {
		if p, ok := t.(*etree.ProcInst); ok && p.Target == "xml" {
			p.Inst = Declaration
			return
		}
	}
	doc.InsertChildAt(0, etree.NewProcInst("xml", Declaration))
	doc.InsertChildAt(1, etree.NewText("\n"))
}

// LookupNamespace returns the namespace URI bound to prefix in the scope of
// el, or "" if the prefix is unbound. The empty prefix is the default
// namespace.
func LookupNamespace(el *etree.Element, prefix string) string {
	switch prefix {
	case "xml":
		return xmlNamespace
	case "xmlns":
		return xmlnsNamespace
	}
	for e := el; e != nil; e = e.Parent() {
		for _, a := range e.Attr {
			if declares(a, prefix) {
				return a.Value
			}
		}
	}
	return ""
}

func declares(a etree.Attr, prefix string) bool {
	if prefix == "" {
		return a.Space == "" && a.Key == "xmlns"
	}
	return a.Space == "xmlns" && a.Key == prefix
}

// Is reports whether el is the XLIFF element with the given local name.
func Is(el *etree.Element, local string) bool {
	return el.Tag == local && LookupNamespace(el, el.Space) == Namespace
}

// Child returns the first child element of el that is the XLIFF element
// local, or nil.
func Child(el *etree.Element, local string) *etree.Element {
	for _, c := range el.ChildElements() {
		if Is(c, local) {
			return c
		}
	}
	return nil
}

// Children returns all child elements of el that are the XLIFF element
// local, in document order.
func Children(el *etree.Element, local string) []*etree.Element {
	var found []*etree.Element
	for _, c := range el.ChildElements() {
		if Is(c, local) {
			found = append(found, c)
		}
	}
	return found
}

// Descendants returns every element below el (el excluded) that is the
// XLIFF element local, in document order.
func Descendants(el *etree.Element, local string) []*etree.Element {
	var found []*etree.Element
	for _, c := range el.ChildElements() {
		if Is(c, local) {
			found = append(found, c)
		}
		found = append(found, Descendants(c, local)...)
	}
	return found
}

// Attr returns the value of the unqualified attribute key, or "".
func Attr(el *etree.Element, key string) string {
	for _, a := range el.Attr {
		if a.Space == "" && a.Key == key {
			return a.Value
		}
	}
	return ""
}
