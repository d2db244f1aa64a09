package server

import (
	"net/http"
	"strconv"

	"github.com/bcorrigan/shelfcontrol/internal/model"
	"github.com/bcorrigan/shelfcontrol/internal/opds"
)

// byAuthorThreshold is the bucket-size cutoff at which alphabetical browse
// switches from further letter buckets to a flat listing of individual
// values, and also the cap on a single search-driven acquisition feed.
const byAuthorThreshold = 2000

func (s *Server) handleOPDSRoot(w http.ResponseWriter, r *http.Request) {
	feed := opds.NewNavigationFeed("urn:shelfcontrol:root", "ShelfControl Library")
	feed.AddLink(opds.RelStart, "/opds", opds.MIMENavigationFeed)
	feed.AddLink(opds.RelSelf, "/opds", opds.MIMENavigationFeed)
	feed.AddLink(opds.RelSearch, "/api/opensearch", opds.MIMEOpenSearchDesc)

	feed.AddEntry(navEntry("authors", "Authors", "/opds/authors?field=authors"))
	feed.AddEntry(navEntry("tags", "Tags", "/opds/authors?field=tags"))
	// There is no publication-year aggregate table (only authors,
	// publishers, tags), so Year falls back to the full title listing
	// rather than a real per-year facet.
	feed.AddEntry(navEntry("year", "Year", "/opds/books?query=*"))
	feed.AddEntry(navEntry("titles", "Titles", "/opds/books?query=*"))

	writeFeed(w, feed)
}

func navEntry(id, title, href string) opds.Entry {
	return opds.Entry{
		ID:    "urn:shelfcontrol:nav:" + id,
		Title: opds.Text{Value: title},
		Links: []opds.Link{{Rel: opds.RelCatalogNavigation, Href: href, Type: opds.MIMENavigationFeed}},
	}
}

// handleOPDSAuthors serves alphabetical browse over one of the three
// aggregate tables (authors by default, or tags/publishers via ?field=).
// Once a bucket's book count drops to byAuthorThreshold or below, the
// response switches from further letter buckets to a flat listing of the
// individual values in that bucket.
func (s *Server) handleOPDSAuthors(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	field := q.Get("field")
	if field == "" {
		field = "authors"
	}
	desc, ok := kindTables[field]
	if !ok {
		writeStoreError(w, model.NewClientError(model.ErrFieldDoesNotExist, "unknown browse field "+field))
		return
	}
	_, byAuthor := q["byAuthor"]
	prefix := q.Get("categorise")

	bucketed, err := s.counts.CategorizeAlphabetical(desc, prefix, 0)
	if err != nil {
		writeStoreError(w, err)
		return
	}

	if byAuthor || bucketed.Count <= byAuthorThreshold {
		values, err := s.counts.CategorizeByValue(desc, prefix)
		if err != nil {
			writeStoreError(w, err)
			return
		}
		writeFeed(w, valueListingFeed(field, searchFieldFor(field), values))
		return
	}

	writeFeed(w, bucketNavigationFeed(field, bucketed))
}

func bucketNavigationFeed(field string, result model.CategoryResult) *opds.Feed {
	feed := opds.NewNavigationFeed("urn:shelfcontrol:browse:"+field, "Browse "+field)
	for _, cat := range result.Categories {
		href := "/opds/authors?field=" + field + "&categorise=" + cat.Prefix
		entry := navEntry(field+":"+cat.Prefix, cat.Prefix, href)
		entry.Links[0].Count = cat.Count
		feed.AddEntry(entry)
	}
	return feed
}

func valueListingFeed(field, searchField string, result model.CategoryResult) *opds.Feed {
	feed := opds.NewAcquisitionFeed("urn:shelfcontrol:browse:"+field+":values", "Browse "+field)
	for _, cat := range result.Categories {
		href := "/opds/books?query=" + searchField + `:"` + cat.Prefix + `"`
		entry := opds.Entry{
			ID:    "urn:shelfcontrol:value:" + field + ":" + cat.Prefix,
			Title: opds.Text{Value: cat.Prefix},
			Links: []opds.Link{{Rel: opds.RelCatalogNavigation, Href: href, Type: opds.MIMEAcquisitionFeed, Count: cat.Count}},
		}
		feed.AddEntry(entry)
	}
	return feed
}

// searchFieldFor maps an aggregate browse kind to the field name the
// search index analyzes it under; the aggregate key column ("tag") and
// the index field ("tags") disagree on the tags table's name.
func searchFieldFor(field string) string {
	switch field {
	case "tags":
		return "tags"
	case "publishers":
		return "publisher"
	default:
		return "creator"
	}
}

func (s *Server) handleOPDSBooks(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("query")
	res, err := s.idx.Search(query, 0, byAuthorThreshold)
	if err != nil {
		writeStoreError(w, err)
		return
	}

	feed := opds.NewAcquisitionFeed("urn:shelfcontrol:books:"+query, "Search results")
	feed.AddLink(opds.RelSelf, "/opds/books?query="+query, opds.MIMEAcquisitionFeed)
	for _, bm := range res.Items {
		id := strconv.FormatInt(bm.ID, 10)
		downloadHref := "/api/book/" + id + ".epub"
		coverHref := ""
		if bm.CoverMIME != "" || s.opts.CoverDir != "" {
			coverHref = "/img/" + id
		}
		feed.AddEntry(opds.BookEntry(bm, downloadHref, coverHref))
	}
	writeFeed(w, feed)
}

func writeFeed(w http.ResponseWriter, feed *opds.Feed) {
	data, err := feed.MarshalToXML()
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeXML(w, http.StatusOK, data)
}
