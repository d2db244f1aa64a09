package searchindex

import (
	"strings"

	"github.com/bcorrigan/shelfcontrol/internal/model"
)

// mapQueryError turns a bleve query-string parse failure into a
// ClientError so the HTTP layer renders it as an error body with status
// 200 instead of a 500.
// bleve doesn't expose a typed error enum for its query-string parser the
// way a purpose-built query parser would, so the mapping here is done by
// matching substrings of the underlying message against the same
// categories the counts constants in internal/model/errors.go enumerate.
func mapQueryError(err error) error {
	if err == nil {
		return nil
	}
	msg := err.Error()
	lower := strings.ToLower(msg)

	name := model.ErrSyntaxError
	switch {
	case strings.Contains(lower, "expected int"), strings.Contains(lower, "invalid numeric"):
		name = model.ErrExpectedInt
	case strings.Contains(lower, "expected float"):
		name = model.ErrExpectedFloat
	case strings.Contains(lower, "field") && strings.Contains(lower, "does not exist"):
		name = model.ErrFieldDoesNotExist
	case strings.Contains(lower, "field") && strings.Contains(lower, "not indexed"):
		name = model.ErrFieldNotIndexed
	case strings.Contains(lower, "date"):
		name = model.ErrDateFormatError
	}

	return model.NewStoreClientError(model.NewClientError(name, msg))
}
