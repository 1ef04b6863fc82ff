package nyquest

import (
	"errors"
	"fmt"

	"github.com/nyquest-go/nyquest/internal/core"
)

// ErrorKind enumerates the caller-visible failure classes from spec.md
// §7. It mirrors original_source's flattened nyquest_interface::Error
// plus the facade-only NonSuccessfulStatusCode and Json variants.
type ErrorKind int

const (
	// KindInvalidURL: the backend could not parse or resolve the
	// effective URL.
	KindInvalidURL ErrorKind = iota
	// KindIO: a generic transport failure (DNS, connect, TLS
	// handshake, reset, unexpected EOF, or header/value validation
	// failures the backend performs itself).
	KindIO
	// KindRequestTimeout: the configured request timeout elapsed
	// before the operation finished.
	KindRequestTimeout
	// KindResponseTooLarge: the response body exceeded
	// ClientOptions.MaxResponseBufferSize.
	KindResponseTooLarge
	// KindNonSuccessfulStatusCode: produced only by
	// Response.WithSuccessfulStatus.
	KindNonSuccessfulStatusCode
	// KindJSON: a JSON decode failure from Response.JSON.
	KindJSON
	// KindNoBackend: ClientBuilder.BuildAsync/BuildBlocking was called
	// before any backend was registered.
	KindNoBackend
)

func (k ErrorKind) String() string {
	switch k {
	case KindInvalidURL:
		return "InvalidUrl"
	case KindIO:
		return "Io"
	case KindRequestTimeout:
		return "RequestTimeout"
	case KindResponseTooLarge:
		return "ResponseTooLarge"
	case KindNonSuccessfulStatusCode:
		return "NonSuccessfulStatusCode"
	case KindJSON:
		return "Json"
	case KindNoBackend:
		return "NoBackend"
	default:
		return "Unknown"
	}
}

// Error is the tagged-sum error type every nyquest operation returns,
// per spec.md §7. It wraps an optional underlying cause so
// errors.Is/errors.As keep working against native errors a backend
// surfaces (e.g. a net.Error timeout).
type Error struct {
	Kind ErrorKind
	// Status is populated only for KindNonSuccessfulStatusCode.
	Status StatusCode
	cause  error
}

func newError(kind ErrorKind, cause error) *Error {
	return &Error{Kind: kind, cause: cause}
}

// NonSuccessfulStatus builds the error Response.WithSuccessfulStatus
// returns for a non-2xx response.
func NonSuccessfulStatus(status StatusCode) *Error {
	return &Error{Kind: KindNonSuccessfulStatusCode, Status: status}
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindNonSuccessfulStatusCode:
		return fmt.Sprintf("nyquest: non-successful status code: %d", e.Status)
	case KindIO:
		if e.cause != nil {
			return fmt.Sprintf("nyquest: io error: %v", e.cause)
		}
		return "nyquest: io error"
	case KindJSON:
		if e.cause != nil {
			return fmt.Sprintf("nyquest: json error: %v", e.cause)
		}
		return "nyquest: json error"
	default:
		return "nyquest: " + e.Kind.String()
	}
}

// Unwrap exposes the wrapped native cause, if any, to errors.Is/As.
func (e *Error) Unwrap() error { return e.cause }

// IsInvalidURL reports whether err is (or wraps) a KindInvalidURL
// Error, following docker-compose/errdefs's predicate-function style.
func IsInvalidURL(err error) bool { return hasKind(err, KindInvalidURL) }

// IsIO reports whether err is (or wraps) a KindIO Error.
func IsIO(err error) bool { return hasKind(err, KindIO) }

// IsRequestTimeout reports whether err is (or wraps) a
// KindRequestTimeout Error.
func IsRequestTimeout(err error) bool { return hasKind(err, KindRequestTimeout) }

// IsResponseTooLarge reports whether err is (or wraps) a
// KindResponseTooLarge Error.
func IsResponseTooLarge(err error) bool { return hasKind(err, KindResponseTooLarge) }

// IsNonSuccessfulStatusCode reports whether err is (or wraps) a
// KindNonSuccessfulStatusCode Error, and if so returns the status.
func IsNonSuccessfulStatusCode(err error) (StatusCode, bool) {
	var e *Error
	if errors.As(err, &e) && e.Kind == KindNonSuccessfulStatusCode {
		return e.Status, true
	}
	return 0, false
}

// IsJSON reports whether err is (or wraps) a KindJSON Error.
func IsJSON(err error) bool { return hasKind(err, KindJSON) }

// IsNoBackend reports whether err is (or wraps) a KindNoBackend Error.
func IsNoBackend(err error) bool { return hasKind(err, KindNoBackend) }

func hasKind(err error, kind ErrorKind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == kind
}

// wrapBackendErr translates a core.Error (or any other error a backend
// returns) into the public Error type, so callers only ever observe
// nyquest.Error.
func wrapBackendErr(err error) error {
	if err == nil {
		return nil
	}
	var ce *core.Error
	if errors.As(err, &ce) {
		kind := map[core.ErrorKind]ErrorKind{
			core.KindInvalidURL:              KindInvalidURL,
			core.KindIO:                      KindIO,
			core.KindRequestTimeout:          KindRequestTimeout,
			core.KindResponseTooLarge:        KindResponseTooLarge,
			core.KindNonSuccessfulStatusCode: KindNonSuccessfulStatusCode,
			core.KindJSON:                    KindJSON,
		}[ce.Kind]
		return &Error{Kind: kind, Status: StatusCode(ce.Status), cause: ce.Cause}
	}
	return newError(KindIO, err)
}
