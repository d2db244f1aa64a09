package server

import (
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/bcorrigan/shelfcontrol/internal/aggregate"
	"github.com/bcorrigan/shelfcontrol/internal/epub"
	"github.com/bcorrigan/shelfcontrol/internal/model"
)

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	start, err := parseIntParam(q, "start", 0)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	limit, err := parseIntParam(q, "limit", 20)
	if err != nil {
		writeStoreError(w, err)
		return
	}

	res, err := s.idx.Search(q.Get("query"), start, limit)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

var kindTables = map[string]aggregate.TableDescriptor{
	"tags":       aggregate.Tags,
	"authors":    aggregate.Authors,
	"publishers": aggregate.Publishers,
}

func (s *Server) handleCounts(w http.ResponseWriter, r *http.Request) {
	kind := mux.Vars(r)["kind"]
	desc, ok := kindTables[kind]
	if !ok {
		writeStoreError(w, model.NewClientError("FieldDoesNotExist", "unknown counts kind "+kind))
		return
	}

	q := r.URL.Query()
	start, err := parseIntParam(q, "start", 0)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	limit, err := parseIntParam(q, "limit", 100)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	countOrder, err := parseBoolParam(q, "countorder", false)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	ascending, err := parseBoolParam(q, "ascending", false)
	if err != nil {
		writeStoreError(w, err)
		return
	}

	total, rows, err := s.counts.GetCounts(desc, countOrder, ascending, start, limit, q.Get("query"))
	if err != nil {
		writeStoreError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, model.SearchResult[model.CountRow]{
		Count: total,
		Start: start,
		Query: q.Get("query"),
		Items: rows,
	})
}

func (s *Server) handleBook(w http.ResponseWriter, r *http.Request) {
	id, ok := parseBookID(w, r)
	if !ok {
		return
	}

	bm, err := s.idx.GetBook(id)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	if bm == nil {
		http.NotFound(w, r)
		return
	}

	f, err := os.Open(bm.File)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	defer f.Close()

	filename := bm.Title
	if bm.Creator != "" {
		filename = bm.Creator + " - " + bm.Title
	}
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.Header().Set("Content-Type", "application/epub+zip")
	http.ServeContent(w, r, filename, time.Unix(bm.ModTime, 0).UTC(), f)
}

func (s *Server) handleCover(w http.ResponseWriter, r *http.Request) {
	id, ok := parseBookID(w, r)
	if !ok {
		return
	}

	bm, err := s.idx.GetBook(id)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	if bm == nil {
		http.NotFound(w, r)
		return
	}

	if s.opts.CoverDir != "" {
		path := filepath.Join(s.opts.CoverDir, strconv.FormatInt(id, 10))
		f, err := os.Open(path)
		if err != nil {
			http.NotFound(w, r)
			return
		}
		defer f.Close()
		mime := bm.CoverMIME
		if mime == "" {
			mime = "image/jpeg"
		}
		w.Header().Set("Content-Type", mime)
		w.Header().Set("Cache-Control", "public, max-age=86400")
		_, _ = io.Copy(w, f)
		return
	}

	p, err := epub.Parse(bm.File)
	if err != nil || len(p.CoverBytes) == 0 {
		http.NotFound(w, r)
		return
	}
	mime := p.CoverMIME
	if mime == "" {
		mime = "image/jpeg"
	}
	w.Header().Set("Content-Type", mime)
	w.Header().Set("Cache-Control", "public, max-age=86400")
	_, _ = w.Write(p.CoverBytes)
}

func parseBookID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	raw := mux.Vars(r)["id"]
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		writeStoreError(w, model.NewClientError(model.ErrExpectedInt, "book id must be an integer"))
		return 0, false
	}
	return id, true
}
