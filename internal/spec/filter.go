package spec

import (
	"regexp"
	"strings"
)

// FilterOption configures FilterPaths.
type FilterOption func(*filterConfig)

type filterConfig struct {
	includeTags map[string]struct{}
	excludeTags map[string]struct{}
	methods     map[HttpMethod]struct{}
	pathRes     []*regexp.Regexp
}

// WithIncludeTags keeps only operations that have at least one of the given tags.
func WithIncludeTags(tags []string) FilterOption {
	return func(c *filterConfig) {
		if len(tags) == 0 {
			return
		}
		if c.includeTags == nil {
			c.includeTags = make(map[string]struct{}, len(tags))
		}
		for _, t := range tags {
			t = strings.TrimSpace(t)
			if t == "" {
				continue
			}
			c.includeTags[t] = struct{}{}
		}
	}
}

// WithExcludeTags removes operations that have any of the given tags.
func WithExcludeTags(tags []string) FilterOption {
	return func(c *filterConfig) {
		if len(tags) == 0 {
			return
		}
		if c.excludeTags == nil {
			c.excludeTags = make(map[string]struct{}, len(tags))
		}
		for _, t := range tags {
			t = strings.TrimSpace(t)
			if t == "" {
				continue
			}
			c.excludeTags[t] = struct{}{}
		}
	}
}

// WithMethods keeps only operations using one of the provided HTTP methods.
func WithMethods(methods []HttpMethod) FilterOption {
	return func(c *filterConfig) {
		if len(methods) == 0 {
			return
		}
		if c.methods == nil {
			c.methods = make(map[HttpMethod]struct{}, len(methods))
		}
		for _, m := range methods {
			c.methods[m] = struct{}{}
		}
	}
}

// WithPathPatterns keeps only operations whose path matches at least one of
// the provided regular expressions. An invalid pattern matches nothing.
func WithPathPatterns(patterns []string) FilterOption {
	return func(c *filterConfig) {
		for _, p := range patterns {
			p = strings.TrimSpace(p)
			if p == "" {
				continue
			}
			re, err := regexp.Compile(p)
			if err != nil {
				re = regexp.MustCompile("a^$")
			}
			c.pathRes = append(c.pathRes, re)
		}
	}
}

// FilterPaths applies the options to every operation and drops path items
// that end up empty. Relative order is preserved. Without options the input
// is returned as is.
func FilterPaths(items []PathItem, opts ...FilterOption) []PathItem {
	cfg := &filterConfig{}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.empty() {
		return items
	}

	out := make([]PathItem, 0, len(items))
	for _, item := range items {
		if !cfg.allowPath(item.Path) {
			continue
		}
		kept := PathItem{Path: item.Path}
		for _, op := range item.Operations {
			if len(cfg.methods) > 0 {
				if _, ok := cfg.methods[op.Method]; !ok {
					continue
				}
			}
			if !cfg.allowTags(op.Tags) {
				continue
			}
			kept.Operations = append(kept.Operations, op)
		}
		if len(kept.Operations) > 0 {
			out = append(out, kept)
		}
	}
	return out
}

func (c *filterConfig) empty() bool {
	return len(c.includeTags) == 0 && len(c.excludeTags) == 0 && len(c.methods) == 0 && len(c.pathRes) == 0
}

func (c *filterConfig) allowPath(p string) bool {
	if len(c.pathRes) == 0 {
		return true
	}
	for _, re := range c.pathRes {
		if re.MatchString(p) {
			return true
		}
	}
	return false
}

func (c *filterConfig) allowTags(tags []string) bool {
	if len(c.includeTags) > 0 {
		ok := false
		for _, t := range tags {
			if _, yes := c.includeTags[t]; yes {
				ok = true
				break
			}
		}
		if !ok {
			return false
		}
	}
	for _, t := range tags {
		if _, blocked := c.excludeTags[t]; blocked {
			return false
		}
	}
	return true
}
