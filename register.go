package nyquest

import "github.com/nyquest-go/nyquest/internal/core"

// Backend is whatever a platform backend package (backend/libcurl,
// backend/winhttp, backend/nsurlsession) exports from its Register
// function's argument. Implementors additionally satisfy
// core.AsyncBackend and/or core.BlockingBackend; ClientBuilder type-
// asserts to discover which.
type Backend = core.Backend

// RegisterBackend installs the process-wide backend. It panics if a
// backend has already been registered (spec.md §4.1 "Attempting to
// register twice fails loudly"; original_source/src/register.rs panics
// rather than returning an error, and we follow that precedent).
//
// It fills the same slot as the backend packages' own Register
// functions, which call core.Register directly (see
// backend/libcurl.Register).
func RegisterBackend(b Backend) { core.Register(b) }
