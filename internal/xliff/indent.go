package xliff

import (
	"strings"

	"github.com/beevik/etree"
)

// Indent re-indents the subtree of el, which sits at the given depth, using
// spaces per level. Only runs of whitespace between child tokens are
// replaced; text with any other content (and CDATA sections) is left
// untouched, so translatable strings keep their exact spacing.
func Indent(el *etree.Element, depth, spaces int) {
	var (
		runs  [][]etree.Token // runs[i] is the character data before nodes[i]
		nodes []etree.Token
		run   []etree.Token
	)
	for _, t := range el.Child {
		if _, ok := t.(*etree.CharData); ok {
			run = append(run, t)
			continue
		}
		runs = append(runs, run)
		nodes = append(nodes, t)
		run = nil
	}
	if len(nodes) == 0 {
		return
	}
	trailing := run

	inner := "\n" + strings.Repeat(" ", (depth+1)*spaces)
	outer := "\n" + strings.Repeat(" ", depth*spaces)

	for len(el.Child) > 0 {
		el.RemoveChildAt(len(el.Child) - 1)
	}
	for i, n := range nodes {
		addRun(el, runs[i], inner)
		el.AddChild(n)
		if c, ok := n.(*etree.Element); ok {
			Indent(c, depth+1, spaces)
		}
	}
	addRun(el, trailing, outer)
}

// addRun appends run to el, or indent instead if run is only whitespace.
func addRun(el *etree.Element, run []etree.Token, indent string) {
	if !blank(run) {
		for _, t := range run {
			el.AddChild(t)
		}
		return
	}
	el.AddChild(etree.NewText(indent))
}

func blank(run []etree.Token) bool {
	for _, t := range run {
		cd := t.(*etree.CharData)
		if cd.IsCData() || !cd.IsWhitespace() {
			return false
		}
	}
	return true
}
