package models

// Supported interface languages. DefaultLang is applied when a user has no
// stored preference.
const (
	LangEN = "en"
	LangFA = "fa"

	DefaultLang = LangEN
)

// SupportedLang reports whether lang is one of the interface languages the
// bot can render.
func SupportedLang(lang string) bool {
	return lang == LangEN || lang == LangFA
}

// UserPreference holds the per-user settings row. Created on first
// interaction, updated on an explicit language switch.
type UserPreference struct {
	TelegramID int64
	Lang       string
}
