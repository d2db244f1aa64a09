package searchindex

import (
	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/mapping"
)

// buildMapping constructs the compiled-in schema: id, title, description,
// publisher, creator, file, filesize, modtime, pubdate, moddate, subject,
// cover_mime, tags. Unqualified query terms are searched across
// defaultFields (creator, title, description).
func buildMapping() mapping.IndexMapping {
	im := bleve.NewIndexMapping()
	im.DefaultAnalyzer = "en"

	doc := bleve.NewDocumentMapping()

	numID := bleve.NewNumericFieldMapping()
	numID.Store = true
	numID.Index = true
	doc.AddFieldMappingsAt("id", numID)

	text := func() *mapping.FieldMapping {
		f := bleve.NewTextFieldMapping()
		f.Store = true
		f.Index = true
		f.Analyzer = "en"
		return f
	}

	doc.AddFieldMappingsAt("title", text())
	doc.AddFieldMappingsAt("description", text())
	doc.AddFieldMappingsAt("publisher", text())
	doc.AddFieldMappingsAt("creator", text())
	doc.AddFieldMappingsAt("pubdate", text())
	doc.AddFieldMappingsAt("moddate", text())
	doc.AddFieldMappingsAt("cover_mime", text())

	rawField := func() *mapping.FieldMapping {
		f := bleve.NewTextFieldMapping()
		f.Store = true
		f.Index = true
		f.Analyzer = "keyword"
		return f
	}

	fileField := bleve.NewTextFieldMapping()
	fileField.Store = true
	fileField.Index = false
	doc.AddFieldMappingsAt("file", fileField)

	doc.AddFieldMappingsAt("subject", rawField())
	// tags is a flat keyword field, not a hierarchical "/term" facet path:
	// alphabetical/by-value tag browsing lives in internal/aggregate, so
	// this field only needs to support exact tags:"value" lookups.
	doc.AddFieldMappingsAt("tags", rawField())

	numSize := bleve.NewNumericFieldMapping()
	numSize.Store = true
	numSize.Index = true
	doc.AddFieldMappingsAt("filesize", numSize)

	date := bleve.NewDateTimeFieldMapping()
	date.Store = true
	date.Index = true
	doc.AddFieldMappingsAt("modtime", date)

	im.DefaultMapping = doc
	return im
}

// defaultFields is the set of fields searched for unqualified query terms.
var defaultFields = []string{"creator", "title", "description"}
