// Package searchindex implements the full-text search index: schema,
// writer batching, query parsing, and by-ID lookup. Alphabetical and
// by-value browsing for OPDS navigation lives in internal/aggregate.
package searchindex

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/blevesearch/bleve/v2"

	"github.com/bcorrigan/shelfcontrol/internal/model"
)

// Index wraps the bleve index and the batching discipline the ingestion
// pipeline needs: one Batch() flush per ingest batch, and an end-of-run
// Optimize call, which runs no forced merge (see Optimize).
type Index struct {
	bi bleve.Index
}

// Create builds a brand-new index at path. It refuses to overwrite an
// existing directory, matching the ingester's full-rebuild-only contract.
func Create(path string) (*Index, error) {
	if _, err := os.Stat(path); err == nil {
		return nil, model.NewInitError(fmt.Sprintf("search index %q already exists", path), nil)
	}
	bi, err := bleve.New(path, buildMapping())
	if err != nil {
		return nil, model.NewInitError("create search index", err)
	}
	return &Index{bi: bi}, nil
}

// Open opens an existing index directory for read-only serving.
func Open(path string) (*Index, error) {
	bi, err := bleve.Open(path)
	if err != nil {
		return nil, model.NewInitError(fmt.Sprintf("open search index %q", path), err)
	}
	return &Index{bi: bi}, nil
}

// Close releases the index's file handles.
func (idx *Index) Close() error {
	return idx.bi.Close()
}

// Batch bundles staged documents until the caller flushes it. It has no
// memory budget of its own; the ingest pipeline flushes it every
// batchSize documents.
type Batch struct {
	b *bleve.Batch
	n int
}

// NewBatch starts a new write batch.
func (idx *Index) NewBatch() *Batch {
	return &Batch{b: idx.bi.NewBatch()}
}

// Add stages a book for indexing. Docs are not visible until Flush commits
// the batch.
func (b *Batch) Add(bm model.BookMetadata) error {
	doc := toDoc(bm)
	if err := b.b.Index(docID(bm.ID), doc); err != nil {
		return model.NewDbError("stage document", err)
	}
	b.n++
	return nil
}

// Len reports how many documents are currently staged.
func (b *Batch) Len() int { return b.n }

// Flush commits the staged batch. This is the "commit after each
// successful batch flush" step of the ingestion pipeline. Segments are
// merged by bleve's background merger; Optimize forces no merge.
func (idx *Index) Flush(b *Batch) error {
	if b.n == 0 {
		return nil
	}
	if err := idx.bi.Batch(b.b); err != nil {
		return model.NewDbError("flush batch", err)
	}
	b.b = idx.bi.NewBatch()
	b.n = 0
	return nil
}

// Optimize marks the end of an ingest run. bleve's scorch storage merges
// segments in the background as batches land, so there is no explicit
// force-merge call on the public Index interface; this hook exists so
// callers have a single place to mark "ingest finished" symmetrically with
// the batch/flush calls above.
func (idx *Index) Optimize() error {
	return nil
}

func docID(id int64) string {
	return strconv.FormatInt(id, 10)
}

func toDoc(bm model.BookMetadata) map[string]any {
	return map[string]any{
		"id":          float64(bm.ID),
		"title":       bm.Title,
		"description": bm.Description,
		"publisher":   bm.Publisher,
		"creator":     bm.Creator,
		"subject":     bm.Subject,
		"file":        bm.File,
		"filesize":    float64(bm.FileSize),
		"modtime":     time.Unix(bm.ModTime, 0).UTC(),
		"pubdate":     bm.PubDate,
		"moddate":     bm.ModDate,
		"cover_mime":  bm.CoverMIME,
		"tags":        bm.Tags,
	}
}

func fromFields(fields map[string]any) model.BookMetadata {
	bm := model.BookMetadata{
		Title:       stringField(fields, "title"),
		Description: stringField(fields, "description"),
		Publisher:   stringField(fields, "publisher"),
		Creator:     stringField(fields, "creator"),
		Subject:     stringsField(fields, "subject"),
		File:        stringField(fields, "file"),
		PubDate:     stringField(fields, "pubdate"),
		ModDate:     stringField(fields, "moddate"),
		CoverMIME:   stringField(fields, "cover_mime"),
		Tags:        stringsField(fields, "tags"),
	}
	if v, ok := fields["id"].(float64); ok {
		bm.ID = int64(v)
	}
	if v, ok := fields["filesize"].(float64); ok {
		bm.FileSize = int64(v)
	}
	if s := stringField(fields, "modtime"); s != "" {
		if t, err := time.Parse(time.RFC3339, s); err == nil {
			bm.ModTime = t.Unix()
		}
	}
	return bm
}

func stringField(fields map[string]any, key string) string {
	switch v := fields[key].(type) {
	case string:
		return v
	case []any:
		if len(v) > 0 {
			if s, ok := v[0].(string); ok {
				return s
			}
		}
	}
	return ""
}

func stringsField(fields map[string]any, key string) []string {
	switch v := fields[key].(type) {
	case string:
		return []string{v}
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}
