package main

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"xliff/internal/xliff"

	"github.com/google/go-cmp/cmp"
)

const xliffOpen = `<?xml version="1.0" encoding="UTF-8"?>
<xliff xmlns="urn:oasis:names:tc:xliff:document:1.2" xmlns:xsi="http://www.w3.org/2001/XMLSchema-instance" version="1.2" xsi:schemaLocation="urn:oasis:names:tc:xliff:document:1.2 http://docs.oasis-open.org/xliff/v1.2/os/xliff-core-1.2-strict.xsd">
`

const esSource = xliffOpen + `  <file original="en.lproj/Localizable.strings" source-language="en" target-language="es" datatype="plaintext">
    <header>
      <tool tool-id="com.apple.dt.xcode" tool-name="Xcode" tool-version="15.0" build-num="15A240d"/>
    </header>
    <body>
      <trans-unit id="Alias copied" xml:space="preserve">
        <source>Alias copied</source>
        <target>Alias copiado</target>
        <note>Toast notification</note>
      </trans-unit>
      <trans-unit id="Delete for me" xml:space="preserve">
        <source>Delete for me</source>
        <note>Menu item</note>
      </trans-unit>
      <trans-unit id="Tinode" translate="no">
        <source>Tinode</source>
      </trans-unit>
    </body>
  </file>
  <file original="Pods/en.lproj/Localizable.strings" source-language="en" target-language="es" datatype="plaintext">
    <body>
      <trans-unit id="Phone number is ambiguous." xml:space="preserve">
        <source>Phone number is ambiguous.</source>
        <target>El número de teléfono es ambiguo.</target>
      </trans-unit>
    </body>
  </file>
</xliff>
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	fn := filepath.Join(dir, name)
	if err := os.WriteFile(fn, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return fn
}

func readFile(t *testing.T, fn string) string {
	t.Helper()
	b, err := os.ReadFile(fn)
	if err != nil {
		t.Fatal(err)
	}
	return string(b)
}

func TestMissing(t *testing.T) {
	tmp := t.TempDir()
	fn := writeFile(t, tmp, "es.xliff", esSource)

	found, err := missing1(fn, "")
	if err != nil {
		t.Fatal(err)
	}
	if found != 1 {
		t.Errorf("missing1() = %d, want 1", found)
	}

	want := xliffOpen + `  <file original="en.lproj/Localizable.strings" source-language="en" target-language="es" datatype="plaintext">
    <header>
      <tool tool-id="com.apple.dt.xcode" tool-name="Xcode" tool-version="15.0" build-num="15A240d"/>
    </header>
    <body>
      <trans-unit id="Delete for me" xml:space="preserve">
        <source>Delete for me</source>
        <note>Menu item</note>
      </trans-unit>
    </body>
  </file>
</xliff>
`
	got := readFile(t, filepath.Join(tmp, "missing-es.xliff"))
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("unexpected output: diff (-want +got):\n%s", diff)
	}

	if diff := cmp.Diff(esSource, readFile(t, fn)); diff != "" {
		t.Errorf("input modified: diff (-want +got):\n%s", diff)
	}
}

func TestMissingNone(t *testing.T) {
	tmp := t.TempDir()
	fn := writeFile(t, tmp, "es.xliff", xliffOpen+`  <file original="a">
    <body>
      <trans-unit id="1"><source>one</source><target>uno</target></trans-unit>
      <trans-unit id="2" translate="no"><source>Tinode</source></trans-unit>
      <trans-unit id="3"><source>three</source><target/></trans-unit>
    </body>
  </file>
</xliff>
`)
	out := filepath.Join(tmp, "out.xml")

	found, err := missing1(fn, out)
	if err != nil {
		t.Fatal(err)
	}
	if found != 0 {
		t.Errorf("missing1() = %d, want 0", found)
	}
	const want = `<?xml version="1.0" encoding="UTF-8"?>
<xliff xmlns="urn:oasis:names:tc:xliff:document:1.2" xmlns:xsi="http://www.w3.org/2001/XMLSchema-instance" version="1.2" xsi:schemaLocation="urn:oasis:names:tc:xliff:document:1.2 http://docs.oasis-open.org/xliff/v1.2/os/xliff-core-1.2-strict.xsd"/>
`
	if diff := cmp.Diff(want, readFile(t, out)); diff != "" {
		t.Errorf("unexpected output: diff (-want +got):\n%s", diff)
	}
}

func TestMissingGroupsAndMixedContent(t *testing.T) {
	tmp := t.TempDir()
	fn := writeFile(t, tmp, "fr.xliff", `<?xml version="1.0" encoding="UTF-8"?>
<xliff xmlns="urn:oasis:names:tc:xliff:document:1.2" version="1.2">
<file original="a"><body><group id="g"><trans-unit id="1"><source>Hello <g id="b">bold</g>  world</source></trans-unit><trans-unit id="2"><source>done</source><target>fait</target></trans-unit></group><trans-unit id="3"><source><![CDATA[  <x>  ]]></source></trans-unit></body></file>
</xliff>
`)
	if _, err := missing1(fn, ""); err != nil {
		t.Fatal(err)
	}
	const want = `<?xml version="1.0" encoding="UTF-8"?>
<xliff xmlns="urn:oasis:names:tc:xliff:document:1.2" version="1.2">
  <file original="a">
    <body>
      <trans-unit id="1">
        <source>Hello <g id="b">bold</g>  world</source>
      </trans-unit>
      <trans-unit id="3">
        <source><![CDATA[  <x>  ]]></source>
      </trans-unit>
    </body>
  </file>
</xliff>
`
	if diff := cmp.Diff(want, readFile(t, filepath.Join(tmp, "missing-fr.xliff"))); diff != "" {
		t.Errorf("unexpected output: diff (-want +got):\n%s", diff)
	}
}

func TestMissingPrefixedNamespace(t *testing.T) {
	tmp := t.TempDir()
	fn := writeFile(t, tmp, "de.xliff", `<?xml version="1.0" encoding="UTF-8"?>
<x:xliff xmlns:x="urn:oasis:names:tc:xliff:document:1.2" version="1.2"><x:file original="a"><x:body><x:trans-unit id="1"><x:source>one</x:source></x:trans-unit></x:body></x:file></x:xliff>
`)
	if _, err := missing1(fn, ""); err != nil {
		t.Fatal(err)
	}
	got := readFile(t, filepath.Join(tmp, "missing-de.xliff"))
	if !strings.Contains(got, `<xliff xmlns="urn:oasis:names:tc:xliff:document:1.2"`) {
		t.Errorf("XLIFF namespace is not the default namespace:\n%s", got)
	}
	if strings.Contains(got, "<x:") || strings.Contains(got, "ns0") {
		t.Errorf("output uses a prefix for XLIFF elements:\n%s", got)
	}
	if !strings.Contains(got, `<trans-unit id="1">`) {
		t.Errorf("unit 1 not extracted:\n%s", got)
	}
}

// Units are looked up by namespace, not by local name alone.
func TestMissingForeignNamespace(t *testing.T) {
	tmp := t.TempDir()
	fn := writeFile(t, tmp, "it.xliff", `<?xml version="1.0" encoding="UTF-8"?>
<xliff xmlns="urn:oasis:names:tc:xliff:document:1.2" xmlns:o="urn:other" version="1.2">
  <file original="a">
    <body>
      <o:trans-unit id="foreign"><o:source>no</o:source></o:trans-unit>
    </body>
  </file>
</xliff>
`)
	found, err := missing1(fn, "")
	if err != nil {
		t.Fatal(err)
	}
	if found != 0 {
		t.Errorf("missing1() = %d, want 0", found)
	}
}

func TestMissingOnlyUntranslatedUnits(t *testing.T) {
	tmp := t.TempDir()
	fn := writeFile(t, tmp, "es.xliff", esSource)
	out := filepath.Join(tmp, "out.xliff")
	if _, err := missing1(fn, out); err != nil {
		t.Fatal(err)
	}
	doc, err := xliff.Load(out)
	if err != nil {
		t.Fatal(err)
	}
	for _, unit := range xliff.Units(doc.Root()) {
		if xliff.HasTarget(unit) {
			t.Errorf("unit %q has a target", xliff.ID(unit))
		}
		if !xliff.Translatable(unit) {
			t.Errorf("unit %q is marked translate=\"no\"", xliff.ID(unit))
		}
	}
	if got := len(xliff.Children(doc.Root(), "file")); got != 1 {
		t.Errorf("got %d <file> elements, want 1", got)
	}
}

func TestMissingErrors(t *testing.T) {
	tmp := t.TempDir()
	bad := writeFile(t, tmp, "bad.xliff", `<xliff version=1.2>`)
	for _, tt := range []struct {
		in      string
		wantErr error
	}{
		{filepath.Join(tmp, "nope.xliff"), xliff.ErrMissingFile},
		{bad, xliff.ErrMalformed},
	} {
		_, err := missing1(tt.in, "")
		if !errors.Is(err, tt.wantErr) {
			t.Errorf("missing1(%s) = %v, want %v", tt.in, err, tt.wantErr)
		}
		if _, err := os.Stat(missingPath(tt.in)); !os.IsNotExist(err) {
			t.Errorf("%s written despite error", missingPath(tt.in))
		}
	}
}

func TestMissingPath(t *testing.T) {
	for _, tt := range []struct {
		in, want string
	}{
		{"es.xliff", "missing-es.xliff"},
		{"/tmp/loc/es.xliff", "/tmp/loc/missing-es.xliff"},
	} {
		if got := missingPath(tt.in); got != tt.want {
			t.Errorf("missingPath(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
