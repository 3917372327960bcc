// Package ecode defines business error codes returned inside API response bodies.
//
// Codes follow the teacher-agnostic convention used across the platform:
// 0 is success, -1xx authentication, -4xx request, -5xx server.
package ecode

// Common error codes.
const (
	OK = 0

	Unauthorized = -101
	AccessDenied = -403

	RequestErr = -400
	ParamErr   = -401

	NothingFound = -404
	Conflict     = -409

	ServerErr          = -500
	ServiceUnavailable = -503
)

var messages = map[int]string{
	OK:                 "success",
	Unauthorized:       "unauthorized",
	AccessDenied:       "access denied",
	RequestErr:         "invalid request",
	ParamErr:           "invalid parameters",
	NothingFound:       "not found",
	Conflict:           "resource conflict",
	ServerErr:          "internal server error",
	ServiceUnavailable: "service unavailable",
}

// Text returns the human-readable message for a code.
func Text(code int) string {
	if msg, ok := messages[code]; ok {
		return msg
	}
	return messages[ServerErr]
}
