// Package report renders assembled documents in various output formats.
// Markdown is the primary format; JSON serves tool integration, and
// DOCX and PDF are exported from the Markdown via pandoc.
package report
