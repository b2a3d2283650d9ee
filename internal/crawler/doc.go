// Package crawler implements the bounded, polite breadth-first crawl
// of policy pages.
//
// # Architecture
//
// The Spider owns all per-run crawl state: the visited set, the
// pending queue, the per-host rate limiters, and the robots.txt rule
// cache. None of it is global and none of it survives the run.
//
// Per URL, the life cycle is: discovered, robots-checked, then one of
// fetched, skipped-disallowed, skipped-out-of-scope, or failed.
// Skips and failures on discovered links are recorded in the result;
// only the start URL failing, or too many consecutive failures, ends
// the run with an error.
//
// # Politeness
//
//   - robots.txt is fetched once per host and honored for the run
//   - a per-host token bucket enforces the inter-request delay
//   - a hard page cap bounds total run time
//   - a descriptive User-Agent identifies the crawler
//
// # Usage
//
//	spider := crawler.NewSpider(client,
//		crawler.WithMaxPages(60),
//		crawler.WithAllowPatterns([]string{"/policy/*"}),
//	)
//	result, err := spider.Crawl(ctx, "https://example.com/policy/a")
package crawler
