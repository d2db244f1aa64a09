package model

import "fmt"

// ClientError is a user-induced failure: a malformed query, a non-integer
// pagination parameter, an unknown aggregate kind. Handlers render it as
// an error body rather than failing the request outright.
type ClientError struct {
	Name string
	Msg  string
}

func (e *ClientError) Error() string {
	return fmt.Sprintf("(%s, %s)", e.Name, e.Msg)
}

// NewClientError builds a ClientError with the given category name and
// user-facing message.
func NewClientError(name, msg string) *ClientError {
	return &ClientError{Name: name, Msg: msg}
}

// errorJSON is the wire shape for a rendered error: {"error": ["(name, msg)"]}.
type errorJSON struct {
	Error []string `json:"error"`
}

// ResponseJSON renders the error in the wire shape clients expect.
func (e *ClientError) ResponseJSON() errorJSON {
	return errorJSON{Error: []string{e.Error()}}
}

// StoreErrorKind distinguishes the three StoreError variants.
type StoreErrorKind int

const (
	// KindClientError wraps a query-parser failure the caller can fix.
	KindClientError StoreErrorKind = iota
	// KindDbError is an opaque index/SQL failure; detail is logged, not shown.
	KindDbError
	// KindInitError is a schema/directory mismatch at process start; fatal.
	KindInitError
)

// StoreError is the error type returned by the search index and aggregate
// store. Handlers switch on Kind: a client error is rendered as an error
// body with status 200, any other kind as a 500.
type StoreError struct {
	Kind   StoreErrorKind
	Client *ClientError // non-nil only when Kind == KindClientError
	msg    string
	cause  error
}

func (e *StoreError) Error() string {
	switch e.Kind {
	case KindClientError:
		return e.Client.Error()
	default:
		if e.cause != nil {
			return fmt.Sprintf("%s: %v", e.msg, e.cause)
		}
		return e.msg
	}
}

func (e *StoreError) Unwrap() error { return e.cause }

// NewDbError wraps an opaque index/SQL failure.
func NewDbError(msg string, cause error) *StoreError {
	return &StoreError{Kind: KindDbError, msg: msg, cause: cause}
}

// NewInitError wraps a fatal schema/directory mismatch at open time.
func NewInitError(msg string, cause error) *StoreError {
	return &StoreError{Kind: KindInitError, msg: msg, cause: cause}
}

// NewStoreClientError wraps a ClientError as a StoreError, for callers that
// need to return a single error type from store operations.
func NewStoreClientError(ce *ClientError) *StoreError {
	return &StoreError{Kind: KindClientError, Client: ce}
}

// Query-parser failure categories, ported from the exhaustive match the
// original implementation performed against its search engine's own
// parser-error enum. Each one maps to a specific ClientError name/msg pair.
const (
	ErrSyntaxError                       = "SyntaxError"
	ErrFieldDoesNotExist                  = "FieldDoesNotExist"
	ErrExpectedInt                        = "ExpectedInt"
	ErrExpectedFloat                      = "ExpectedFloat"
	ErrAllButQueryForbidden               = "AllButQueryForbidden"
	ErrNoDefaultFieldDeclared             = "NoDefaultFieldDeclared"
	ErrFieldNotIndexed                    = "FieldNotIndexed"
	ErrUnknownTokenizer                   = "UnknownTokenizer"
	ErrFieldDoesNotHavePositionsIndexed   = "FieldDoesNotHavePositionsIndexed"
	ErrRangeMustNotHavePhrase             = "RangeMustNotHavePhrase"
	ErrDateFormatError                    = "DateFormatError"
)
