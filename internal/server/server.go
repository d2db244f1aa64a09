// Package server implements the read-only HTTP surface: JSON search and
// counts endpoints, book/cover byte streaming, and an OPDS Atom catalog.
// Every handler is read-only against the search index and aggregate store;
// there are no write routes.
package server

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/bcorrigan/shelfcontrol/internal/aggregate"
	"github.com/bcorrigan/shelfcontrol/internal/searchindex"
)

// Options configures a Server.
type Options struct {
	// CoverDir holds on-disk cover images keyed by book id. Empty means
	// covers are extracted on demand by re-opening the source EPUB.
	CoverDir string
}

// Server bundles the read-only stores behind the HTTP route table.
type Server struct {
	router *mux.Router
	idx    *searchindex.Index
	counts *aggregate.Store
	opts   Options
}

// New builds a Server over an already-open search index and aggregate
// store and registers all routes.
func New(idx *searchindex.Index, counts *aggregate.Store, opts Options) *Server {
	s := &Server{
		router: mux.NewRouter(),
		idx:    idx,
		counts: counts,
		opts:   opts,
	}
	s.registerRoutes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) registerRoutes() {
	r := s.router

	r.HandleFunc("/api/search", s.handleSearch).Methods(http.MethodGet)
	r.HandleFunc("/api/counts/{kind}", s.handleCounts).Methods(http.MethodGet)
	r.HandleFunc("/api/book/{id}.epub", s.handleBook).Methods(http.MethodGet)
	r.HandleFunc("/api/book/{id}", s.handleBook).Methods(http.MethodGet)
	r.HandleFunc("/img/{id}", s.handleCover).Methods(http.MethodGet)
	r.HandleFunc("/api/opensearch", s.handleOpenSearch).Methods(http.MethodGet)

	r.HandleFunc("/opds", s.handleOPDSRoot).Methods(http.MethodGet)
	r.HandleFunc("/opds/authors", s.handleOPDSAuthors).Methods(http.MethodGet)
	r.HandleFunc("/opds/books", s.handleOPDSBooks).Methods(http.MethodGet)

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})
}
