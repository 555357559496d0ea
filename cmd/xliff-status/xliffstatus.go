package main

import (
	"flag"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"xliff/internal/xliff"

	"github.com/Kunde21/markdownfmt/v2/markdown"
	"github.com/google/renameio"
	log "github.com/sirupsen/logrus"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

var preamble = template.Must(template.New("preamble").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta http-equiv="Content-Type" content="application/xhtml+xml; charset=UTF-8" />
<title>{{ .Title }}</title>
<style>
progress { width: 12em; }
</style>
</head>
<body>
<main>
`))

const footer = `</main>
</body>
</html>
`

type progressNode struct {
	ast.BaseBlock

	translated   int
	translatable int
}

// Kind implements Node.Kind
func (n *progressNode) Kind() ast.NodeKind {
	return kindProgress
}

// Dump implements Node.Dump
func (n *progressNode) Dump(source []byte, level int) {
	ast.DumpHelper(n, source, level, map[string]string{
		"translated":   strconv.Itoa(n.translated),
		"translatable": strconv.Itoa(n.translatable),
	}, nil)
}

var kindProgress = ast.NewNodeKind("Progress")

func intAttr(n ast.Node, name string) (int, bool) {
	v, ok := n.AttributeString(name)
	if !ok {
		return 0, false
	}
	b, ok := v.([]byte)
	if !ok {
		return 0, false
	}
	i, err := strconv.Atoi(string(b))
	if err != nil {
		return 0, false
	}
	return i, true
}

func addProgressAfter(heading ast.Node) {
	translated, ok := intAttr(heading, "translated")
	if !ok {
		return
	}
	translatable, ok := intAttr(heading, "translatable")
	if !ok {
		return
	}
	pn := &progressNode{
		translated:   translated,
		translatable: translatable,
	}
	heading.Parent().InsertAfter(heading.Parent(), heading, pn)
}

type statusTransformer struct{}

// Transform is called once per document.
func (t *statusTransformer) Transform(doc *ast.Document, reader text.Reader, pc parser.Context) {
	var headings []ast.Node
	ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if n.Type() == ast.TypeDocument {
			return ast.WalkContinue, nil
		}
		if n.Kind() == ast.KindHeading && entering {
			headings = append(headings, n)
		}
		return ast.WalkSkipChildren, nil
	})
	// Insert after walking, so the walk never visits the new nodes.
	for _, h := range headings {
		addProgressAfter(h)
	}
}

type statusRenderer struct{}

func (r *statusRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(kindProgress, r.renderProgress)
}

func (r *statusRenderer) renderProgress(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkContinue, nil
	}
	pn := node.(*progressNode)
	c := counts{translated: pn.translated, missing: pn.translatable - pn.translated}
	fmt.Fprintf(w, `<p class="progress"><progress value="%d" max="%d"></progress> %d%% translated</p>`+"\n",
		pn.translated, pn.translatable, c.percent())
	return ast.WalkContinue, nil
}

func newGoldmark() goldmark.Markdown {
	return goldmark.New(
		// GFM is GitHub Flavored Markdown.
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
			// The Attribute option carries the per-heading counts to the
			// progress transformer.
			parser.WithAttribute(),
			parser.WithASTTransformers(util.Prioritized(&statusTransformer{}, 1)),
		),
		goldmark.WithRendererOptions(
			html.WithXHTML(),
			renderer.WithNodeRenderers(
				util.Prioritized(&statusRenderer{}, 500)),
		),
	)
}

// statusPath returns the default output path for in, e.g.
// es.xliff → es-status.html.
func statusPath(in, format string) string {
	ext := ".html"
	if format == "markdown" {
		ext = ".md"
	}
	return strings.TrimSuffix(in, filepath.Ext(in)) + "-status" + ext
}

func render(st status, format string, out *renameio.PendingFile) error {
	switch format {
	case "html":
		if err := preamble.Execute(out, struct{ Title string }{"Translation status of " + st.name}); err != nil {
			return err
		}
		if err := newGoldmark().Convert(st.markdown(true), out); err != nil {
			return err
		}
		_, err := out.Write([]byte(footer))
		return err

	case "markdown":
		md := goldmark.New(goldmark.WithRenderer(markdown.NewRenderer()))
		return md.Convert(st.markdown(false), out)

	default:
		return fmt.Errorf("unknown -format=%q, want html or markdown", format)
	}
}

func status1(fn, outfn, format string) error {
	if format != "html" && format != "markdown" {
		return fmt.Errorf("unknown -format=%q, want html or markdown", format)
	}
	doc, err := xliff.Load(fn)
	if err != nil {
		return err
	}
	st := collect(filepath.Base(fn), doc)

	if outfn == "" {
		outfn = statusPath(fn, format)
	}
	out, err := renameio.TempFile("", outfn)
	if err != nil {
		return err
	}
	defer out.Cleanup()
	if err := render(st, format, out); err != nil {
		return err
	}
	if err := out.Chmod(0644); err != nil {
		return err
	}
	if err := out.CloseAtomicallyReplace(); err != nil {
		return err
	}
	log.Printf("%s: %d of %d translatable units translated, %d missing, report written to %s",
		fn, st.total.translated, st.total.translatable(), st.total.missing, outfn)
	return nil
}

func xliffstatus() error {
	var (
		format = flag.String("format",
			"html",
			"report format: html or markdown")
		output = flag.String("o",
			"",
			"output path (default: <input_file> with -status.html or -status.md)")
	)
	flag.Parse()
	if flag.NArg() != 1 {
		return fmt.Errorf("syntax: %s [-format=html|markdown] [-o=<path>] <input_file>", filepath.Base(os.Args[0]))
	}
	return status1(flag.Arg(0), *output, *format)
}

func main() {
	log.SetOutput(os.Stdout)
	log.SetFormatter(&log.TextFormatter{DisableTimestamp: true})
	if err := xliffstatus(); err != nil {
		log.Fatal(err)
	}
}
