package searchindex

import (
	"regexp"
	"strings"

	"github.com/blevesearch/bleve/v2"

	"github.com/bcorrigan/shelfcontrol/internal/model"
)

var storedFields = []string{
	"id", "title", "description", "publisher", "creator", "subject",
	"file", "filesize", "modtime", "pubdate", "moddate", "cover_mime", "tags",
}

// Search builds a query from the query string (see queryFor) and returns
// a page of matching books. A bare "*" is treated as match-all,
// since the donor query surface uses that as its "browse everything"
// convention.
func (idx *Index) Search(query string, start, limit int) (model.SearchResult[model.BookMetadata], error) {
	q := queryFor(query)

	req := bleve.NewSearchRequestOptions(q, limit, start, false)
	req.Fields = storedFields

	res, err := idx.bi.Search(req)
	if err != nil {
		return model.SearchResult[model.BookMetadata]{}, mapQueryError(err)
	}

	items := make([]model.BookMetadata, 0, len(res.Hits))
	for _, hit := range res.Hits {
		items = append(items, fromFields(hit.Fields))
	}

	return model.SearchResult[model.BookMetadata]{
		Count: int(res.Total),
		Start: start,
		Query: query,
		Items: items,
	}, nil
}

// GetBook looks up a single book by its content-hash ID.
func (idx *Index) GetBook(id int64) (*model.BookMetadata, error) {
	q := bleve.NewDocIDQuery([]string{docID(id)})
	req := bleve.NewSearchRequestOptions(q, 1, 0, false)
	req.Fields = storedFields

	res, err := idx.bi.Search(req)
	if err != nil {
		return nil, mapQueryError(err)
	}
	if len(res.Hits) == 0 {
		return nil, nil
	}
	bm := fromFields(res.Hits[0].Fields)
	return &bm, nil
}

// termPattern tokenizes a query string into field:"quoted value", field:bare,
// "quoted phrase", or bare-word terms.
var termPattern = regexp.MustCompile(`[A-Za-z_]+:"[^"]*"|[A-Za-z_]+:\S+|"[^"]*"|\S+`)

// queryFor builds the search query for an unqualified or field-qualified
// query string. Multiple terms are combined conjunctively (every term must
// match); a bare term with no "field:" qualifier is searched only across
// defaultFields, matching the spec's default search-field contract rather
// than bleve's catch-all "_all" composite field.
func queryFor(query string) bleve.Query {
	trimmed := strings.TrimSpace(query)
	if trimmed == "" || trimmed == "*" {
		return bleve.NewMatchAllQuery()
	}

	terms := termPattern.FindAllString(trimmed, -1)
	if len(terms) == 0 {
		return bleve.NewMatchAllQuery()
	}
	if len(terms) == 1 {
		return queryForTerm(terms[0])
	}

	conj := bleve.NewConjunctionQuery()
	for _, t := range terms {
		conj.AddQuery(queryForTerm(t))
	}
	return conj
}

// queryForTerm builds the query for a single token. A "field:value" token is
// parsed as an explicit field query via bleve's query-string syntax; a bare
// or quoted token is matched disjunctively across defaultFields.
func queryForTerm(term string) bleve.Query {
	if idx := strings.IndexByte(term, ':'); idx > 0 {
		return bleve.NewQueryStringQuery(term)
	}

	value := strings.Trim(term, `"`)
	disj := bleve.NewDisjunctionQuery()
	for _, field := range defaultFields {
		var q bleve.Query
		if strings.ContainsAny(value, " \t") {
			mq := bleve.NewMatchPhraseQuery(value)
			mq.SetField(field)
			q = mq
		} else {
			mq := bleve.NewMatchQuery(value)
			mq.SetField(field)
			q = mq
		}
		disj.AddQuery(q)
	}
	return disj
}
