// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016-present Datadog, Inc.

package containers

import (
	"regexp"
)

// Matcher matches container names against a basic regular expression,
// case-sensitive and unanchored: `web` matches `web-server-1`.
type Matcher struct {
	pattern string
	re      *regexp.Regexp
}

// NewMatcher compiles pattern. The empty pattern matches every name.
func NewMatcher(pattern string) (*Matcher, error) {
	re, err := CompileBasicRegexp(pattern)
	if err != nil {
		return nil, err
	}
	return &Matcher{pattern: pattern, re: re}, nil
}

// Match tells if name matches the pattern
func (m *Matcher) Match(name string) bool {
	return m.re.MatchString(name)
}

// Count returns how many names match the pattern
func (m *Matcher) Count(names []string) int {
	count := 0
	for _, name := range names {
		if m.Match(name) {
			count++
		}
	}
	return count
}

// String returns the original pattern
func (m *Matcher) String() string {
	return m.pattern
}
