package apisports

import "errors"

var (
	// ErrUpstream covers transport failures and non-2xx answers.
	ErrUpstream = errors.New("upstream request failed")
	// ErrDecode is returned when the upstream body is not the expected JSON.
	ErrDecode = errors.New("upstream body is not valid JSON")
	// ErrRange is returned for a from/to window that is malformed or too wide.
	ErrRange = errors.New("invalid date range")
)
