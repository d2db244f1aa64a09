package ingest

import (
	"archive/zip"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/bcorrigan/shelfcontrol/internal/searchindex"
)

func writeTestEPUB(t *testing.T, dir, name, title string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create %s: %v", path, err)
	}
	defer f.Close()

	zw := zip.NewWriter(f)
	write := func(entry, content string) {
		w, err := zw.Create(entry)
		if err != nil {
			t.Fatalf("create entry: %v", err)
		}
		if _, err := w.Write([]byte(content)); err != nil {
			t.Fatalf("write entry: %v", err)
		}
	}
	write("META-INF/container.xml", `<?xml version="1.0"?>
<container><rootfiles><rootfile full-path="content.opf"/></rootfiles></container>`)
	write("content.opf", `<?xml version="1.0"?>
<package xmlns:dc="http://purl.org/dc/elements/1.1/">
  <metadata>
    <dc:title>`+title+`</dc:title>
    <dc:creator>Jane Doe</dc:creator>
    <dc:publisher>Acme Books</dc:publisher>
    <dc:subject>Fiction / Adventure</dc:subject>
    <dc:date>2020-01-01</dc:date>
  </metadata>
  <manifest></manifest>
  <spine></spine>
</package>`)
	if err := zw.Close(); err != nil {
		t.Fatalf("close zip: %v", err)
	}
	return path
}

func TestScanFindsEpubsAndSkipsHidden(t *testing.T) {
	dir := t.TempDir()
	writeTestEPUB(t, dir, "book.epub", "Visible Book")
	writeTestEPUB(t, dir, ".hidden.epub", "Hidden Book")
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644); err != nil {
		t.Fatalf("write notes: %v", err)
	}
	if err := os.Mkdir(filepath.Join(dir, ".git"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	writeTestEPUB(t, filepath.Join(dir, ".git"), "shadow.epub", "Should Not Appear")

	paths, err := scan(dir)
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	if len(paths) != 1 {
		t.Fatalf("paths = %v, want 1 entry", paths)
	}
	if filepath.Base(paths[0]) != "book.epub" {
		t.Errorf("found %q, want book.epub", paths[0])
	}
}

func TestRunIndexesBooksAndDedupes(t *testing.T) {
	dir := t.TempDir()
	writeTestEPUB(t, dir, "one.epub", "Same Title")
	writeTestEPUB(t, dir, "two.epub", "Same Title")
	writeTestEPUB(t, dir, "three.epub", "Different Title")

	opts := Options{
		LibraryDirs: []string{dir},
		IndexPath:   filepath.Join(dir, "index.bleve"),
		CountsPath:  filepath.Join(dir, "counts.sqlite"),
		Workers:     2,
	}

	res, err := Run(context.Background(), opts)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.Scanned != 3 {
		t.Errorf("Scanned = %d, want 3", res.Scanned)
	}
	if res.Indexed != 2 {
		t.Errorf("Indexed = %d, want 2 (one duplicate by content hash)", res.Indexed)
	}
	if res.Skipped != 1 {
		t.Errorf("Skipped = %d, want 1", res.Skipped)
	}

	idx, err := searchindex.Open(opts.IndexPath)
	if err != nil {
		t.Fatalf("Open index: %v", err)
	}
	defer idx.Close()

	sr, err := idx.Search("*", 0, 10)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if sr.Count != 2 {
		t.Errorf("search count = %d, want 2", sr.Count)
	}
}

func TestRunRejectsMissingLibraryDir(t *testing.T) {
	dir := t.TempDir()
	_, err := Run(context.Background(), Options{
		LibraryDirs: []string{filepath.Join(dir, "nope")},
		IndexPath:   filepath.Join(dir, "index.bleve"),
		CountsPath:  filepath.Join(dir, "counts.sqlite"),
	})
	if !errors.Is(err, ErrMissingLibraryDir) {
		t.Errorf("err = %v, want ErrMissingLibraryDir", err)
	}
}

func TestRunRejectsMissingCoverDir(t *testing.T) {
	dir := t.TempDir()
	_, err := Run(context.Background(), Options{
		LibraryDirs: []string{dir},
		IndexPath:   filepath.Join(dir, "index.bleve"),
		CountsPath:  filepath.Join(dir, "counts.sqlite"),
		CoverDir:    filepath.Join(dir, "covers-missing"),
	})
	if !errors.Is(err, ErrMissingCoverDir) {
		t.Errorf("err = %v, want ErrMissingCoverDir", err)
	}
}
