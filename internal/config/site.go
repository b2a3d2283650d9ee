package config

import "time"

// File represents the YAML configuration file structure.
// It holds per-host overrides for crawl behavior, keyed by host name.
//
// Example .policysnap:
//
//	sites:
//	  support.google.com:
//	    allow:
//	      - "/youtube/*"
//	    selector: "article"
//	    delay: 2s
type File struct {
	// Sites maps host names to their specific configurations.
	Sites map[string]SiteConfig `yaml:"sites"`
}

// SiteConfig holds crawl overrides for one host.
type SiteConfig struct {
	// Allow lists path glob patterns eligible for traversal on this
	// host. Overrides the --allow flag when the host matches.
	Allow []string `yaml:"allow,omitempty"`

	// Selector overrides the main content region selector.
	Selector string `yaml:"selector,omitempty"`

	// Delay overrides the per-host politeness delay.
	Delay time.Duration `yaml:"delay,omitempty"`
}

// SiteFor returns the configuration for the given host and whether one
// was present in the file.
func (f *File) SiteFor(host string) (SiteConfig, bool) {
	if f == nil || f.Sites == nil {
		return SiteConfig{}, false
	}
	sc, ok := f.Sites[host]
	return sc, ok
}

// ApplySite merges the host-specific overrides for the start URL's
// host into the config. Flag-provided values are overridden only where
// the site config sets a value.
func (c *Config) ApplySite(host string) {
	sc, ok := c.SiteConfigs.SiteFor(host)
	if !ok {
		return
	}

	if len(sc.Allow) > 0 {
		c.AllowPatterns = sc.Allow
	}
	if sc.Selector != "" {
		c.ContentSelector = sc.Selector
	}
	if sc.Delay > 0 {
		c.CrawlDelay = sc.Delay
	}
}
