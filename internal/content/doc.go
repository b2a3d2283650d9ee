// Package content locates the main content region of an HTML page and
// extracts links, titles, and heading-delimited text sections from it.
//
// The crawler uses it to restrict link discovery to real article
// content, and the assembler uses it to turn pages into document
// sections. Keeping both on the same region-location code is what
// guarantees the two components never diverge on what counts as
// boilerplate.
//
// Design decision: we parse with goquery (on top of golang.org/x/net/html)
// rather than regex because help-center HTML is machine-generated,
// frequently malformed, and selector-driven extraction is the natural
// fit for a configurable content region.
package content
