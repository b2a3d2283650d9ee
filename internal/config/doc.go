// Package config provides configuration structures and utilities for
// policysnap. It defines crawl politeness settings, scope patterns,
// output options, and the optional per-host YAML overrides file.
package config
