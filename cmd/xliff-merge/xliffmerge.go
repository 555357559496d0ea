package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"xliff/internal/xliff"

	"github.com/beevik/etree"
	log "github.com/sirupsen/logrus"
)

type summary struct {
	total    int // <trans-unit> elements in the destination
	replaced int
	kept     int // had an id not present in the source
	skipped  int // matched, but could not be replaced in place
}

// patchPath returns the output path for dest, e.g. es.xliff → es-patch.xliff.
func patchPath(dest string) string {
	ext := filepath.Ext(dest)
	if ext == filepath.Base(dest) {
		ext = "" // .xliff is a name, not an extension
	}
	return strings.TrimSuffix(dest, ext) + "-patch" + ext
}

// unitsByID indexes the <trans-unit> elements of src by id, regardless of
// which <file> they belong to. For duplicate ids the first one wins.
func unitsByID(src *etree.Document) map[string]*etree.Element {
	byID := make(map[string]*etree.Element)
	for _, unit := range xliff.Units(src.Root()) {
		id := xliff.ID(unit)
		if id == "" {
			continue
		}
		if _, ok := byID[id]; ok {
			log.Warnf("duplicate <trans-unit id=%q> in source, using the first one", id)
			continue
		}
		byID[id] = unit
	}
	return byID
}

// merge replaces every <trans-unit> of dst whose id occurs in src by a copy
// of the src unit, at the same position.
func merge(src, dst *etree.Document) summary {
	byID := unitsByID(src)
	if len(byID) == 0 {
		log.Warn("no <trans-unit> elements with ids found in source")
	}

	// Collect first: replacing units must not disturb the walk.
	units := xliff.Units(dst.Root())
	s := summary{total: len(units)}
	for _, unit := range units {
		id := xliff.ID(unit)
		if id == "" {
			continue
		}
		replacement, ok := byID[id]
		if !ok {
			s.kept++
			continue
		}
		parent := unit.Parent()
		if parent == nil || unit == dst.Root() {
			log.Warnf("could not find parent for <trans-unit id=%q>, skipping", id)
			s.skipped++
			continue
		}
		idx := unit.Index()
		parent.RemoveChildAt(idx)
		parent.InsertChildAt(idx, xliff.Graft(replacement, parent))
		log.Printf("replaced <trans-unit id=%q>", id)
		s.replaced++
	}
	return s
}

func (s summary) print() {
	log.Printf("patching summary:")
	log.Printf("  <trans-unit> elements processed in destination: %d", s.total)
	log.Printf("  <trans-unit> elements replaced: %d", s.replaced)
	if s.kept > 0 {
		log.Printf("  <trans-unit> elements not found in source (kept): %d", s.kept)
	}
	if s.skipped > 0 {
		log.Printf("  <trans-unit> elements skipped: %d", s.skipped)
	}
}

func merge1(sourcePath, destPath string) (summary, error) {
	src, err := xliff.Load(sourcePath)
	if err != nil {
		return summary{}, err
	}
	dst, err := xliff.Load(destPath)
	if err != nil {
		return summary{}, err
	}

	s := merge(src, dst)
	s.print()

	outPath := patchPath(destPath)
	if err := xliff.Save(dst, outPath); err != nil {
		return s, fmt.Errorf("writing %s: %w", outPath, err)
	}
	log.Printf("wrote patched file to %s", outPath)
	return s, nil
}

func xliffmerge() error {
	flag.Parse()
	if flag.NArg() != 2 {
		return fmt.Errorf("syntax: %s <source_xml> <destination_xml>", filepath.Base(os.Args[0]))
	}
	_, err := merge1(flag.Arg(0), flag.Arg(1))
	return err
}

func main() {
	log.SetOutput(os.Stdout)
	log.SetFormatter(&log.TextFormatter{DisableTimestamp: true})
	if err := xliffmerge(); err != nil {
		log.Fatal(err)
	}
}
