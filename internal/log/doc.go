// Package log provides slog helpers for CLI output. Its handler caps
// long attribute values so page content never floods the terminal.
package log
