// Package snapshot persists crawl results as JSON between the crawl
// and build commands. The snapshot is the one durable artifact the
// core produces: it lets assembly re-run without re-crawling.
package snapshot
