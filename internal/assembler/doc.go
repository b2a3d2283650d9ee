// Package assembler merges crawled page records into a single ordered
// document model. It owns the ordering, de-duplication, and heading
// normalization rules; text extraction itself is delegated to the
// content package so the assembler and the crawler agree on what the
// main content region is.
package assembler
