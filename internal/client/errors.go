package client

import "fmt"

// Kind classifies an API error. Every failure produced by this package
// carries exactly one kind.
type Kind int

const (
	// KindGeneric covers any non-2xx status not matched by a more
	// specific kind.
	KindGeneric Kind = iota
	// KindAuthentication covers missing or invalid credentials (HTTP 401/403,
	// or a pre-flight check before any request is sent).
	KindAuthentication
	// KindRateLimit covers HTTP 429.
	KindRateLimit
	// KindNotFound covers HTTP 404.
	KindNotFound
	// KindValidation covers HTTP 422.
	KindValidation
	// KindServer covers HTTP 5xx.
	KindServer
	// KindNetwork covers transport-level failures: timeouts, connection
	// errors, and anything else that prevented a response from arriving.
	KindNetwork
)

// String returns a short human-readable name for the kind.
func (k Kind) String() string {
	switch k {
	case KindAuthentication:
		return "authentication"
	case KindRateLimit:
		return "rate limit"
	case KindNotFound:
		return "not found"
	case KindValidation:
		return "validation"
	case KindServer:
		return "server"
	case KindNetwork:
		return "network"
	default:
		return "api"
	}
}

// Error is the error type returned by the Simple Analytics client.
// StatusCode is zero for errors that did not originate from an HTTP
// response (pre-flight credential checks, network failures). Response
// holds the parsed error body when the API returned JSON.
type Error struct {
	Kind       Kind
	Message    string
	StatusCode int
	Response   map[string]any
}

func (e *Error) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("simpleanalytics: %s error (HTTP %d): %s", e.Kind, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("simpleanalytics: %s error: %s", e.Kind, e.Message)
}

// Is reports whether target is one of the kind sentinels below and matches
// this error's kind, so callers can write errors.Is(err, client.ErrRateLimit).
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Message == "" && t.StatusCode == 0 && t.Kind == e.Kind
}

// Kind sentinels for use with errors.Is.
var (
	ErrGeneric        = &Error{Kind: KindGeneric}
	ErrAuthentication = &Error{Kind: KindAuthentication}
	ErrRateLimit      = &Error{Kind: KindRateLimit}
	ErrNotFound       = &Error{Kind: KindNotFound}
	ErrValidation     = &Error{Kind: KindValidation}
	ErrServer         = &Error{Kind: KindServer}
	ErrNetwork        = &Error{Kind: KindNetwork}
)

// classify maps a non-200 HTTP status code to an error kind.
func classify(status int) Kind {
	switch {
	case status == 401 || status == 403:
		return KindAuthentication
	case status == 404:
		return KindNotFound
	case status == 422:
		return KindValidation
	case status == 429:
		return KindRateLimit
	case status >= 500:
		return KindServer
	default:
		return KindGeneric
	}
}
