package adapter

import "errors"

var (
	// ErrRequestFailed covers transport-level failures reaching the API.
	ErrRequestFailed = errors.New("telegram request failed")

	// ErrAPIRejected covers requests the API answered with ok=false.
	ErrAPIRejected = errors.New("telegram api rejected request")
)
