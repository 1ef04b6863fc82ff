package nyquest

import "strconv"

// StatusCode is an HTTP status code with the classification predicates
// spec.md §3 lists. The zero value is invalid (0); use StatusCode(200)
// or DefaultStatusCode for the facade's documented default.
type StatusCode uint16

// DefaultStatusCode is 200, matching original_source's
// StatusCode::default(). Nothing in this package applies it: a Response
// always reports the status its backend captured.
const DefaultStatusCode StatusCode = 200

// IsInformational reports whether the code is in [100, 200).
func (s StatusCode) IsInformational() bool { return 100 <= s && s < 200 }

// IsSuccessful reports whether the code is in [200, 300).
func (s StatusCode) IsSuccessful() bool { return 200 <= s && s < 300 }

// IsRedirection reports whether the code is in [300, 400).
func (s StatusCode) IsRedirection() bool { return 300 <= s && s < 400 }

// IsClientError reports whether the code is in [400, 500).
func (s StatusCode) IsClientError() bool { return 400 <= s && s < 500 }

// IsServerError reports whether the code is in [500, 600).
func (s StatusCode) IsServerError() bool { return 500 <= s && s < 600 }

// IsInvalid reports whether the code falls outside [100, 599].
func (s StatusCode) IsInvalid() bool { return s < 100 || s > 599 }

// Code returns the status code as a plain uint16.
func (s StatusCode) Code() uint16 { return uint16(s) }

// Equal reports whether s represents the same code as other, mirroring
// original_source's PartialEq<u16> impl.
func (s StatusCode) Equal(other uint16) bool { return uint16(s) == other }

// String implements fmt.Stringer.
func (s StatusCode) String() string { return strconv.Itoa(int(s)) }
