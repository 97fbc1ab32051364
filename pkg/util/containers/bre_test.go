// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016-present Datadog, Inc.

package containers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTranslateBasicRegexp(t *testing.T) {
	for _, tc := range []struct {
		pattern  string
		expected string
	}{
		{"", ""},
		{"web", "web"},
		{"web.1", "web.1"},
		{`web\.1`, `web\.1`},
		{"a+b", `a\+b`},
		{`a\+b`, "a+b"},
		{"a?", `a\?`},
		{`a\?`, "a?"},
		{"(web)", `\(web\)`},
		{`\(web\)*`, "(web)*"},
		{`web\|db`, "web|db"},
		{"web|db", `web\|db`},
		{"a{2}", `a\{2\}`},
		{`a\{2,3\}`, "a{2,3}"},
		{"*web", `\*web`},
		{"^*web", `^\*web`},
		{`\(*web\)`, `(\*web)`},
		{"we*b", "we*b"},
		{"^web", "^web"},
		{"a^b", `a\^b`},
		{"web$", "web$"},
		{"a$b", `a\$b`},
		{`\(web$\)`, "(web$)"},
		{"[0-9]", "[0-9]"},
		{"[]a]", `[\]a]`},
		{"[^]a]", `[^\]a]`},
		{`[\]`, `[\\]`},
		{"[[:digit:]]", "[[:digit:]]"},
		{`\<web\>`, `\bweb\b`},
		{"web**", "we(?:b*)*"},
		{`a*\{2\}`, "(?:a*){2}"},
		{`a\{,3\}`, "a{0,3}"},
		{`\(ab\)*\+`, "(?:(ab)*)+"},
		{`\+a`, `\+a`},
	} {
		t.Run(tc.pattern, func(t *testing.T) {
			got, err := translateBasicRegexp(tc.pattern)
			require.NoError(t, err)
			assert.Equal(t, tc.expected, got)
		})
	}
}

func TestTranslateBasicRegexpErrors(t *testing.T) {
	for _, pattern := range []string{
		`web\`,
		"[web",
		"[[:digit:]",
		"[[.a.]]",
		`\(web\)\1`,
		`\(web`,
		`web\)`,
		`a\{2`,
		`a\{x\}`,
		`\{2\}`,
	} {
		t.Run(pattern, func(t *testing.T) {
			_, err := CompileBasicRegexp(pattern)
			assert.Error(t, err)
		})
	}
}

func TestCompileBasicRegexpMatching(t *testing.T) {
	for _, tc := range []struct {
		pattern string
		name    string
		match   bool
	}{
		{"web", "web-server-1", true},
		{"web", "my-web", true},
		{"web", "Web-1", false},
		{"", "anything", true},
		{"^web", "my-web", false},
		{"web$", "web-1", false},
		{"web-[0-9]", "web-7", true},
		{"web-[0-9]", "web-x", false},
		{"web.1", "webx1", true},
		{`web\.1`, "webx1", false},
		{"web+", "web+1", true},
		{"web+", "webb", false},
		{`web\|db`, "db-1", true},
		{"web|db", "db-1", false},
		{"web|db", "web|db", true},
		{"*", "a*b", true},
		{"*", "ab", false},
		{`\<web\>`, "web-1", true},
		{`\<web\>`, "webapp", false},
		{"web**", "web-1", true},
		{"web**", "db-1", false},
		{`a*\{2\}`, "web-1", true},
		{`web-1\{2\}`, "web-11", true},
		{`web-1\{2\}`, "web-12", false},
	} {
		t.Run(tc.pattern+"/"+tc.name, func(t *testing.T) {
			re, err := CompileBasicRegexp(tc.pattern)
			require.NoError(t, err)
			assert.Equal(t, tc.match, re.MatchString(tc.name))
		})
	}
}
