package main

import (
	"bytes"
	"fmt"
	"strings"
	"xliff/internal/xliff"

	"github.com/beevik/etree"
)

type counts struct {
	units          int
	translated     int // <target> present
	missing        int // no <target>, translatable
	untranslatable int // no <target>, translate="no"
}

func (c counts) translatable() int {
	return c.translated + c.missing
}

func (c counts) percent() int {
	if c.translatable() == 0 {
		return 100
	}
	return c.translated * 100 / c.translatable()
}

func (c *counts) add(o counts) {
	c.units += o.units
	c.translated += o.translated
	c.missing += o.missing
	c.untranslatable += o.untranslatable
}

type fileStatus struct {
	original       string
	sourceLanguage string
	targetLanguage string
	counts
	missingIDs []string
}

type status struct {
	name  string
	total counts
	files []fileStatus
}

// collect counts the units of every <file> block of doc. A unit is missing
// under the same rules xliff-missing extracts it by.
func collect(name string, doc *etree.Document) status {
	st := status{name: name}
	for _, file := range xliff.Children(doc.Root(), "file") {
		fs := fileStatus{
			original:       xliff.Attr(file, "original"),
			sourceLanguage: xliff.Attr(file, "source-language"),
			targetLanguage: xliff.Attr(file, "target-language"),
		}
		if body := xliff.Child(file, "body"); body != nil {
			for _, unit := range xliff.Units(body) {
				fs.units++
				switch {
				case xliff.HasTarget(unit):
					fs.translated++
				case xliff.Translatable(unit):
					fs.missing++
					fs.missingIDs = append(fs.missingIDs, xliff.ID(unit))
				default:
					fs.untranslatable++
				}
			}
		}
		st.total.add(fs.counts)
		st.files = append(st.files, fs)
	}
	return st
}

// escape backslash-escapes all ASCII punctuation, so that ids and file names
// are never interpreted as Markdown.
func escape(s string) string {
	var b bytes.Buffer
	for _, r := range strings.ReplaceAll(s, "\n", " ") {
		if r < 0x80 && isPunct(byte(r)) {
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}

func isPunct(c byte) bool {
	return (c >= '!' && c <= '/') || (c >= ':' && c <= '@') || (c >= '[' && c <= '`') || (c >= '{' && c <= '~')
}

// markdown returns the report as Markdown. With progress set, headings carry
// translated/translatable attributes for the HTML progress renderer.
func (st status) markdown(progress bool) []byte {
	var b bytes.Buffer
	heading := func(level string, title string, c counts) {
		fmt.Fprintf(&b, "%s %s", level, title)
		if progress {
			fmt.Fprintf(&b, ` {translated="%d" translatable="%d"}`, c.translated, c.translatable())
		}
		b.WriteString("\n\n")
	}
	list := func(c counts) {
		fmt.Fprintf(&b, "- Units: %d\n", c.units)
		fmt.Fprintf(&b, "- Translated: %d of %d (%d%%)\n", c.translated, c.translatable(), c.percent())
		fmt.Fprintf(&b, "- Missing: %d\n", c.missing)
		fmt.Fprintf(&b, "- Not translatable: %d\n", c.untranslatable)
		b.WriteString("\n")
	}

	heading("#", "Translation status of "+escape(st.name), st.total)
	fmt.Fprintf(&b, "- Files: %d\n", len(st.files))
	list(st.total)

	for _, fs := range st.files {
		title := escape(fs.original)
		if title == "" {
			title = "(file without original attribute)"
		}
		heading("##", title, fs.counts)
		if fs.sourceLanguage != "" || fs.targetLanguage != "" {
			fmt.Fprintf(&b, "Languages: %s to %s\n\n", escape(fs.sourceLanguage), escape(fs.targetLanguage))
		}
		list(fs.counts)
		if len(fs.missingIDs) == 0 {
			continue
		}
		b.WriteString("Missing units:\n\n")
		for _, id := range fs.missingIDs {
			fmt.Fprintf(&b, "- %s\n", escape(id))
		}
		b.WriteString("\n")
	}
	return b.Bytes()
}
