// Package model defines the data structures shared across policysnap:
// crawled page records, crawl results, and the assembled document.
// These are plain serializable value types with no behavior beyond
// convenience accessors, so they can move freely between the crawler,
// the snapshot store, the run archive, and the renderers.
package model
