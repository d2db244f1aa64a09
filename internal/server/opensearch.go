package server

import "net/http"

// openSearchDescription is the static OpenSearch 1.1 description document
// pointing clients at /opds/books?query= for suggestion-free, URL-template
// search.
const openSearchDescription = `<?xml version="1.0" encoding="UTF-8"?>
<OpenSearchDescription xmlns="http://a9.com/-/spec/opensearch/1.1/">
  <ShortName>shelfcontrol</ShortName>
  <Description>Search this library by title, author, or description.</Description>
  <InputEncoding>UTF-8</InputEncoding>
  <OutputEncoding>UTF-8</OutputEncoding>
  <Url type="application/atom+xml;profile=opds-catalog;kind=acquisition"
       template="/opds/books?query={searchTerms}"/>
  <Url type="application/json"
       template="/api/search?query={searchTerms}"/>
</OpenSearchDescription>
`

func (s *Server) handleOpenSearch(w http.ResponseWriter, r *http.Request) {
	writeXML(w, http.StatusOK, []byte(openSearchDescription))
}
