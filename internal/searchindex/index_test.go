package searchindex

import (
	"path/filepath"
	"testing"

	"github.com/bcorrigan/shelfcontrol/internal/model"
)

func book(id int64, title, creator string) model.BookMetadata {
	return model.BookMetadata{
		ID:        id,
		Title:     title,
		Creator:   creator,
		Publisher: "Acme",
		Subject:   []string{"Fiction"},
		Tags:      []string{"Fiction"},
		File:      "/library/" + title + ".epub",
		FileSize:  1024,
	}
}

func TestCreateRefusesExistingDirectory(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "index.bleve")

	idx, err := Create(path)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	idx.Close()

	if _, err := Create(path); err == nil {
		t.Fatal("expected error creating over existing index")
	}
}

func TestIndexAndSearchRoundTrip(t *testing.T) {
	dir := t.TempDir()
	idx, err := Create(filepath.Join(dir, "index.bleve"))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	defer idx.Close()

	b := idx.NewBatch()
	if err := b.Add(book(1, "Origin of Species", "Charles Darwin")); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if err := b.Add(book(2, "Great Expectations", "Charles Dickens")); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if err := idx.Flush(b); err != nil {
		t.Fatalf("Flush: %v", err)
	}

	res, err := idx.Search("Darwin", 0, 10)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if res.Count != 1 {
		t.Fatalf("Count = %d, want 1", res.Count)
	}
	if res.Items[0].Title != "Origin of Species" {
		t.Errorf("Title = %q", res.Items[0].Title)
	}

	all, err := idx.Search("*", 0, 10)
	if err != nil {
		t.Fatalf("Search *: %v", err)
	}
	if all.Count != 2 {
		t.Errorf("Count = %d, want 2 for match-all", all.Count)
	}

	got, err := idx.GetBook(2)
	if err != nil {
		t.Fatalf("GetBook: %v", err)
	}
	if got == nil || got.Creator != "Charles Dickens" {
		t.Errorf("GetBook(2) = %+v", got)
	}

	missing, err := idx.GetBook(999)
	if err != nil {
		t.Fatalf("GetBook missing: %v", err)
	}
	if missing != nil {
		t.Errorf("GetBook(999) = %+v, want nil", missing)
	}
}

func TestSearchMultiTermIsConjunctiveOverDefaultFields(t *testing.T) {
	dir := t.TempDir()
	idx, err := Create(filepath.Join(dir, "index.bleve"))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	defer idx.Close()

	b := idx.NewBatch()
	if err := b.Add(book(1, "Origin of Species", "Charles Darwin")); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if err := b.Add(book(2, "Great Expectations", "Charles Dickens")); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if err := idx.Flush(b); err != nil {
		t.Fatalf("Flush: %v", err)
	}

	// Both terms present in book 1 (creator "Charles Darwin", title "Origin
	// of Species"): AND of the two terms must still match it.
	res, err := idx.Search("Charles Origin", 0, 10)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if res.Count != 1 || res.Items[0].Title != "Origin of Species" {
		t.Fatalf("Search(\"Charles Origin\") = %+v, want single Origin of Species hit", res)
	}

	// "Charles" matches both books (shared first name) but "Dickens" only
	// matches book 2: conjunction must narrow to the intersection.
	narrowed, err := idx.Search("Charles Dickens", 0, 10)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if narrowed.Count != 1 || narrowed.Items[0].Creator != "Charles Dickens" {
		t.Fatalf("Search(\"Charles Dickens\") = %+v, want single Charles Dickens hit", narrowed)
	}
}

func TestSearchFieldQualifiedTerm(t *testing.T) {
	dir := t.TempDir()
	idx, err := Create(filepath.Join(dir, "index.bleve"))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	defer idx.Close()

	b := idx.NewBatch()
	if err := b.Add(book(1, "Origin of Species", "Charles Darwin")); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if err := idx.Flush(b); err != nil {
		t.Fatalf("Flush: %v", err)
	}

	res, err := idx.Search(`creator:"Charles Darwin"`, 0, 10)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if res.Count != 1 {
		t.Fatalf("Count = %d, want 1 for exact field-qualified match", res.Count)
	}
}
