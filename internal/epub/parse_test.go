package epub

import (
	"archive/zip"
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

// buildTestEPUB assembles a minimal EPUB container in a temp file and
// returns its path.
func buildTestEPUB(t *testing.T, description string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "book.epub")

	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	defer f.Close()

	zw := zip.NewWriter(f)

	writeEntry := func(name, content string) {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatalf("create entry %s: %v", name, err)
		}
		if _, err := w.Write([]byte(content)); err != nil {
			t.Fatalf("write entry %s: %v", name, err)
		}
	}

	writeEntry("META-INF/container.xml", `<?xml version="1.0"?>
<container><rootfiles><rootfile full-path="OEBPS/content.opf"/></rootfiles></container>`)

	writeEntry("OEBPS/content.opf", `<?xml version="1.0"?>
<package xmlns:dc="http://purl.org/dc/elements/1.1/">
  <metadata>
    <dc:title>The Origin of Species</dc:title>
    <dc:creator>Charles Darwin</dc:creator>
    <dc:publisher>John Murray</dc:publisher>
    <dc:description>`+description+`</dc:description>
    <dc:subject>evolution (biology)</dc:subject>
    <dc:date>1859-11-24</dc:date>
    <meta name="cover" content="cover-img"/>
  </metadata>
  <manifest>
    <item id="cover-img" href="cover.jpg" media-type="image/jpeg" properties="cover-image"/>
  </manifest>
  <spine></spine>
</package>`)

	writeEntry("OEBPS/cover.jpg", "fake-jpeg-bytes")

	if err := zw.Close(); err != nil {
		t.Fatalf("close zip: %v", err)
	}
	return path
}

func TestParseExtractsMetadataAndCover(t *testing.T) {
	path := buildTestEPUB(t, "&lt;script&gt;alert(1)&lt;/script&gt;&lt;p&gt;Naturalist.&lt;/p&gt;")

	p, err := Parse(path)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	if p.Title != "The Origin of Species" {
		t.Errorf("Title = %q", p.Title)
	}
	if p.Creator != "Charles Darwin" {
		t.Errorf("Creator = %q", p.Creator)
	}
	if p.Publisher != "John Murray" {
		t.Errorf("Publisher = %q", p.Publisher)
	}
	if len(p.Subject) != 1 || p.Subject[0] != "evolution (biology)" {
		t.Errorf("Subject = %v", p.Subject)
	}
	if p.PubDate != "1859-11-24" {
		t.Errorf("PubDate = %q", p.PubDate)
	}
	if p.Description != "<p>Naturalist.</p>" {
		t.Errorf("Description not sanitized: %q", p.Description)
	}
	if p.CoverMIME != "image/jpeg" {
		t.Errorf("CoverMIME = %q", p.CoverMIME)
	}
	if !bytes.Equal(p.CoverBytes, []byte("fake-jpeg-bytes")) {
		t.Errorf("CoverBytes = %q", p.CoverBytes)
	}
}

func TestParseMissingContainerIsError(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "empty.epub")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	zw := zip.NewWriter(f)
	if err := zw.Close(); err != nil {
		t.Fatalf("close zip: %v", err)
	}
	f.Close()

	if _, err := Parse(path); err == nil {
		t.Fatal("expected error for epub with no container.xml")
	}
}
