package route

import "strings"

// StatusKind is the coarse outcome the directions service reports for a request.
type StatusKind string

const (
	StatusOK                   StatusKind = "OK"
	StatusNotFound             StatusKind = "NOT_FOUND"
	StatusZeroResults          StatusKind = "ZERO_RESULTS"
	StatusMaxWaypointsExceeded StatusKind = "MAX_WAYPOINTS_EXCEEDED"
	StatusInvalidRequest       StatusKind = "INVALID_REQUEST"
	StatusOverQueryLimit       StatusKind = "OVER_QUERY_LIMIT"
	StatusRequestDenied        StatusKind = "REQUEST_DENIED"
	StatusUnknownError         StatusKind = "UNKNOWN_ERROR"

	// StatusUnrecognized marks a token outside the documented vocabulary.
	// The raw token is kept in ResponseStatus.Raw.
	StatusUnrecognized StatusKind = "UNRECOGNIZED"
)

// statusMessages holds the user-facing text for every documented status.
var statusMessages = map[StatusKind]string{
	StatusOK:                   "Request completed successfully",
	StatusNotFound:             "Origin or destination could not be found",
	StatusZeroResults:          "No route could be found between origin and destination",
	StatusMaxWaypointsExceeded: "Too many waypoints were provided",
	StatusInvalidRequest:       "The request was invalid",
	StatusOverQueryLimit:       "Too many requests were sent to the directions service",
	StatusRequestDenied:        "The directions service denied the request",
	StatusUnknownError:         "The directions service failed to process the request",
}

// IsValid returns true if the kind is one of the documented status tokens.
func (k StatusKind) IsValid() bool {
	_, exists := statusMessages[k]
	return exists
}

// String returns the string representation of the kind.
func (k StatusKind) String() string {
	return string(k)
}

// ResponseStatus is the classified status of one service response.
type ResponseStatus struct {
	kind StatusKind
	raw  string
}

// ClassifyStatus maps a raw status token to its kind, ignoring case.
// Tokens outside the documented vocabulary classify as StatusUnrecognized.
func ClassifyStatus(raw string) ResponseStatus {
	kind := StatusKind(strings.ToUpper(raw))
	if !kind.IsValid() {
		kind = StatusUnrecognized
	}
	return ResponseStatus{kind: kind, raw: raw}
}

// Kind returns the classified kind.
func (s ResponseStatus) Kind() StatusKind { return s.kind }

// Raw returns the token exactly as the service sent it.
func (s ResponseStatus) Raw() string { return s.raw }

// Success reports whether the service answered OK.
func (s ResponseStatus) Success() bool { return s.kind == StatusOK }

// IsUnrecognized reports whether the token was outside the documented vocabulary.
func (s ResponseStatus) IsUnrecognized() bool { return s.kind == StatusUnrecognized }

// DisplayKind returns the kind used to pick a user-facing message.
// Unrecognized tokens fall back to StatusOK here, while Success still reports
// false for them.
func (s ResponseStatus) DisplayKind() StatusKind {
	if s.kind == StatusUnrecognized {
		return StatusOK
	}
	return s.kind
}

// Message returns the user-facing text for DisplayKind.
func (s ResponseStatus) Message() string {
	return statusMessages[s.DisplayKind()]
}
