// Package pipeline orchestrates the crawl, snapshot, archive,
// assemble, and render stages as ordered steps over a shared job.
package pipeline
