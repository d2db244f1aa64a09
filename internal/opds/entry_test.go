package opds_test

import (
	"testing"

	"github.com/bcorrigan/shelfcontrol/internal/model"
	"github.com/bcorrigan/shelfcontrol/internal/opds"
)

func TestBookEntryIncludesAcquisitionAndCoverLinks(t *testing.T) {
	bm := model.BookMetadata{
		ID:        42,
		Title:     "Origin of Species",
		Creator:   "Charles Darwin",
		Publisher: "John Murray",
		CoverMIME: "image/jpeg",
	}

	e := opds.BookEntry(bm, "/api/book/42.epub", "/img/42")

	if e.Title.Value != "Origin of Species" {
		t.Errorf("Title = %q", e.Title.Value)
	}
	if len(e.Authors) != 1 || e.Authors[0].Name != "Charles Darwin" {
		t.Errorf("Authors = %v", e.Authors)
	}

	var hasAcquisition, hasCover bool
	for _, l := range e.Links {
		if l.Rel == opds.RelAcquisitionOpen && l.Href == "/api/book/42.epub" {
			hasAcquisition = true
		}
		if l.Rel == opds.RelCover && l.Href == "/img/42" {
			hasCover = true
		}
	}
	if !hasAcquisition {
		t.Error("missing acquisition link")
	}
	if !hasCover {
		t.Error("missing cover link")
	}
}

func TestBookEntryWithoutCover(t *testing.T) {
	bm := model.BookMetadata{ID: 1, Title: "No Cover"}
	e := opds.BookEntry(bm, "/api/book/1.epub", "")
	for _, l := range e.Links {
		if l.Rel == opds.RelCover {
			t.Error("unexpected cover link with empty coverHref")
		}
	}
}
