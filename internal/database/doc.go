// Package database provides the SQLite-backed archive of crawl runs.
// Archived runs preserve full page records so documents can be rebuilt
// from any historical crawl without re-fetching.
package database
