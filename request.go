package nyquest

import "github.com/nyquest-go/nyquest/internal/core"

// Method is the request method (verb).
type Method struct {
	inner core.Method
}

// MethodCustom builds a Method from an arbitrary verb string.
func MethodCustom(name string) Method { return Method{core.CustomMethod(name)} }

// MethodGet, MethodPost, MethodPut, MethodDelete, MethodPatch and
// MethodHead are the well-known verbs spec.md §3 enumerates.
var (
	MethodGet    = Method{core.MethodGet}
	MethodPost   = Method{core.MethodPost}
	MethodPut    = Method{core.MethodPut}
	MethodDelete = Method{core.MethodDelete}
	MethodPatch  = Method{core.MethodPatch}
	MethodHead   = Method{core.MethodHead}
)

// String returns the verb this Method sends on the wire.
func (m Method) String() string { return m.inner.String() }

// Request is a method, a relative-or-absolute target URI, ordered
// header overrides, and an optional body.
type Request struct {
	inner core.Request
}

// NewRequest constructs a request with the given method and URI.
//
// If uri is relative, it is resolved against the base URL the client
// was built with (see ClientBuilder.BaseURL), per spec.md §4.1's URL
// join rules.
func NewRequest(method Method, uri string) Request {
	return Request{inner: core.Request{Method: method.inner, RelativeURI: uri}}
}

// Get constructs a GET request. See NewRequest for URI resolution.
func Get(uri string) Request { return NewRequest(MethodGet, uri) }

// Post constructs a POST request. See NewRequest for URI resolution.
func Post(uri string) Request { return NewRequest(MethodPost, uri) }

// Put constructs a PUT request. See NewRequest for URI resolution.
func Put(uri string) Request { return NewRequest(MethodPut, uri) }

// Delete constructs a DELETE request. See NewRequest for URI resolution.
func Delete(uri string) Request { return NewRequest(MethodDelete, uri) }

// Patch constructs a PATCH request. See NewRequest for URI resolution.
func Patch(uri string) Request { return NewRequest(MethodPatch, uri) }

// Head constructs a HEAD request. See NewRequest for URI resolution.
func Head(uri string) Request { return NewRequest(MethodHead, uri) }

// WithHeader appends a header override. Duplicates are preserved, in
// order, per spec.md §4.1.
func (r Request) WithHeader(name, value string) Request {
	r.inner.AdditionalHeaders = append(r.inner.AdditionalHeaders, core.Header{Name: name, Value: value})
	return r
}

// WithBody replaces any previously set body.
func (r Request) WithBody(body Body) Request {
	b := body.inner
	r.inner.Body = &b
	return r
}
