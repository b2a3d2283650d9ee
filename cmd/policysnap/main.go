// Package main provides the entry point for the policysnap CLI.
//
// policysnap crawls a bounded set of public policy pages and assembles
// them into a single ordered document.
//
// Usage:
//
//	policysnap crawl <start-url>
//	policysnap build --in pages.json
//
// See --help for all available options.
package main

// main is the entry point for policysnap.
func main() {
	Execute()
}
