package service

import "errors"

var (
	// ErrInvalidName is returned when a credential display name is empty or
	// too long.
	ErrInvalidName = errors.New("invalid credential name")

	// ErrInvalidSecret is returned when a username or password value is
	// empty or too long. The offending value is never included in the error.
	ErrInvalidSecret = errors.New("invalid credential value")

	// ErrUnsupportedLanguage is returned when a language code outside the
	// supported set is requested.
	ErrUnsupportedLanguage = errors.New("unsupported language")
)
