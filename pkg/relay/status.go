package relay

import "fmt"

// statusMessages maps HTTP status codes to the user-facing text raised when a
// call fails without a structured body. The table is fixed at process start
// and read-only afterwards.
var statusMessages = map[int]string{
	400: "the request is malformed",
	401: "not authorized, please sign in again",
	403: "access to this resource is denied",
	404: "the requested resource does not exist",
	405: "request method not allowed",
	408: "the request timed out",
	500: "the server encountered an error",
	501: "the server does not support this request",
	502: "bad gateway",
	503: "service temporarily unavailable",
	504: "gateway timeout",
	505: "http version not supported",
}

// StatusMessage returns the user-facing text for an HTTP status code, falling
// back to a generic message for unmapped codes.
func StatusMessage(code int) string {
	if msg, ok := statusMessages[code]; ok {
		return msg
	}
	return fmt.Sprintf("request failed with status %d", code)
}
