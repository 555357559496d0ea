package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"xliff/internal/xliff"

	"github.com/beevik/etree"
	log "github.com/sirupsen/logrus"
)

// missingPath returns the default output path for in, e.g.
// loc/es.xliff → loc/missing-es.xliff.
func missingPath(in string) string {
	return filepath.Join(filepath.Dir(in), "missing-"+filepath.Base(in))
}

// shallowCopy returns an element with the tag and attributes of el, but
// without children.
func shallowCopy(el *etree.Element) *etree.Element {
	c := etree.NewElement(el.FullTag())
	for _, a := range el.Attr {
		c.CreateAttr(a.FullKey(), a.Value)
	}
	return c
}

// extract returns a document holding only the <trans-unit> elements of in
// which still need a translation, below copies of their <file> (with its
// <header>) and <body>. It also returns the number of units found.
func extract(in *etree.Document) (*etree.Document, int) {
	out := etree.NewDocument()
	out.CreateProcInst("xml", xliff.Declaration)
	out.CreateText("\n")
	root := shallowCopy(in.Root())
	out.SetRoot(root)
	out.CreateText("\n")

	found := 0
	for _, file := range xliff.Children(in.Root(), "file") {
		body := xliff.Child(file, "body")
		if body == nil {
			continue
		}
		var missing []*etree.Element
		for _, unit := range xliff.Units(body) {
			if xliff.Missing(unit) {
				missing = append(missing, unit)
			}
		}
		if len(missing) == 0 {
			continue
		}
		found += len(missing)

		outFile := shallowCopy(file)
		root.AddChild(outFile)
		if header := xliff.Child(file, "header"); header != nil {
			outFile.AddChild(xliff.Graft(header, outFile))
		}
		outBody := outFile.CreateElement(body.FullTag())
		for _, unit := range missing {
			outBody.AddChild(xliff.Graft(unit, outBody))
		}
	}

	xliff.Indent(root, 0, 2)
	return out, found
}

func missing1(inPath, outPath string) (int, error) {
	in, err := xliff.Load(inPath)
	if err != nil {
		return 0, err
	}

	out, found := extract(in)
	if found == 0 {
		log.Printf("no <trans-unit> elements with missing <target> found in %s", inPath)
	}

	if outPath == "" {
		outPath = missingPath(inPath)
	}
	if err := xliff.Save(out, outPath); err != nil {
		return found, fmt.Errorf("writing %s: %w", outPath, err)
	}
	if found > 0 {
		log.Printf("found %d <trans-unit> elements with missing <target>, written to %s", found, outPath)
	} else {
		log.Printf("empty XLIFF structure written to %s", outPath)
	}
	return found, nil
}

func xliffmissing() error {
	flag.Parse()
	if flag.NArg() < 1 || flag.NArg() > 2 {
		return fmt.Errorf("syntax: %s <input_file> [<output_file>]", filepath.Base(os.Args[0]))
	}
	_, err := missing1(flag.Arg(0), flag.Arg(1))
	return err
}

func main() {
	log.SetOutput(os.Stdout)
	log.SetFormatter(&log.TextFormatter{DisableTimestamp: true})
	if err := xliffmissing(); err != nil {
		log.Fatal(err)
	}
}
