// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016-present Datadog, Inc.

package containers

import (
	"fmt"
	"regexp"
	"strings"
)

// CompileBasicRegexp compiles a POSIX basic regular expression, with the GNU
// extensions grep supports (\+, \?, \|, \< and \>), into a Go regexp.
// The resulting regexp is not anchored.
func CompileBasicRegexp(pattern string) (*regexp.Regexp, error) {
	translated, err := translateBasicRegexp(pattern)
	if err != nil {
		return nil, fmt.Errorf("invalid pattern %q: %w", pattern, err)
	}
	re, err := regexp.Compile(translated)
	if err != nil {
		return nil, fmt.Errorf("invalid pattern %q: %w", pattern, err)
	}
	return re, nil
}

// breTranslator writes the Go translation of a BRE, remembering where the
// last atom starts so repetition operators can be applied to it.
type breTranslator struct {
	b strings.Builder
	// atomStart is the offset in b of the last atom, -1 when a repetition
	// operator has nothing to apply to and is a literal.
	atomStart int
	// repeated is true once the last atom carries a repetition operator
	repeated bool
	// groups holds the offsets of the open \( groups
	groups []int
}

func (t *breTranslator) atom(s string) {
	t.atomStart = t.b.Len()
	t.repeated = false
	t.b.WriteString(s)
}

// noAtom writes s, after which no atom can be repeated
func (t *breTranslator) noAtom(s string) {
	t.b.WriteString(s)
	t.atomStart = -1
	t.repeated = false
}

// repeat applies op to the last atom. Go rejects stacked operators like
// `a**` or `a*{2}` that grep accepts, an atom already repeated is grouped first.
func (t *breTranslator) repeat(op string) {
	if t.repeated {
		cur := t.b.String()
		t.b.Reset()
		t.b.WriteString(cur[:t.atomStart])
		t.b.WriteString("(?:")
		t.b.WriteString(cur[t.atomStart:])
		t.b.WriteString(")")
	}
	t.b.WriteString(op)
	t.repeated = true
}

func translateBasicRegexp(pattern string) (string, error) {
	t := &breTranslator{atomStart: -1}
	runes := []rune(pattern)
	// exprStart is true where a BRE expression begins and `^` is an anchor
	exprStart := true

	for i := 0; i < len(runes); i++ {
		r := runes[i]
		wasExprStart := exprStart
		exprStart = false
		switch r {
		case '\\':
			if i+1 >= len(runes) {
				return "", fmt.Errorf("trailing backslash")
			}
			i++
			next := runes[i]
			switch next {
			case '(':
				t.groups = append(t.groups, t.b.Len())
				t.noAtom("(")
				exprStart = true
			case ')':
				if len(t.groups) == 0 {
					return "", fmt.Errorf("unmatched \\)")
				}
				groupStart := t.groups[len(t.groups)-1]
				t.groups = t.groups[:len(t.groups)-1]
				t.b.WriteRune(')')
				t.atomStart = groupStart
				t.repeated = false
			case '|':
				t.noAtom("|")
				exprStart = true
			case '+', '?':
				if t.atomStart < 0 {
					t.atom(regexp.QuoteMeta(string(next)))
				} else {
					t.repeat(string(next))
				}
			case '{':
				end, interval, err := translateInterval(runes, i)
				if err != nil {
					return "", err
				}
				if t.atomStart < 0 {
					return "", fmt.Errorf("interval without a preceding expression")
				}
				t.repeat(interval)
				i = end
			case '}':
				return "", fmt.Errorf("unmatched \\}")
			case '<', '>':
				t.noAtom(`\b`)
			case 'b', 'B':
				t.noAtom(`\` + string(next))
			case 'w', 'W', 's', 'S':
				t.atom(`\` + string(next))
			case '1', '2', '3', '4', '5', '6', '7', '8', '9':
				return "", fmt.Errorf("back-references are not supported")
			default:
				t.atom(regexp.QuoteMeta(string(next)))
			}
		case '*':
			if t.atomStart < 0 {
				t.atom(`\*`)
			} else {
				t.repeat("*")
			}
		case '^':
			if wasExprStart {
				t.noAtom("^")
				// a `*` right after a leading anchor is still literal
				exprStart = true
			} else {
				t.atom(`\^`)
			}
		case '$':
			if isExpressionEnd(runes, i+1) {
				t.noAtom("$")
			} else {
				t.atom(`\$`)
			}
		case '[':
			end, class, err := translateBracket(runes, i)
			if err != nil {
				return "", err
			}
			t.atom(class)
			i = end
		case '.':
			t.atom(".")
		default:
			t.atom(regexp.QuoteMeta(string(r)))
		}
	}
	if len(t.groups) > 0 {
		return "", fmt.Errorf("unmatched \\(")
	}
	return t.b.String(), nil
}

// translateInterval reads the \{m,n\} interval starting at runes[start], the
// `{` of the opening `\{`, and returns the index of the closing `}`.
func translateInterval(runes []rune, start int) (int, string, error) {
	var bounds strings.Builder
	for i := start + 1; i < len(runes); i++ {
		r := runes[i]
		switch {
		case r == '\\' && i+1 < len(runes) && runes[i+1] == '}':
			b := bounds.String()
			if b == "" || b == "," {
				return 0, "", fmt.Errorf("invalid interval \\{%s\\}", b)
			}
			if b[0] == ',' {
				b = "0" + b
			}
			return i + 1, "{" + b + "}", nil
		case r >= '0' && r <= '9':
			bounds.WriteRune(r)
		case r == ',' && !strings.Contains(bounds.String(), ","):
			bounds.WriteRune(r)
		default:
			return 0, "", fmt.Errorf("invalid interval content %q", r)
		}
	}
	return 0, "", fmt.Errorf("unmatched \\{")
}

// isExpressionEnd tells if position i ends a BRE expression, where `$` is an anchor
func isExpressionEnd(runes []rune, i int) bool {
	if i >= len(runes) {
		return true
	}
	return i+1 < len(runes) && runes[i] == '\\' && (runes[i+1] == ')' || runes[i+1] == '|')
}

// translateBracket copies the bracket expression starting at runes[start]
// and returns the index of its closing `]`.
func translateBracket(runes []rune, start int) (int, string, error) {
	var b strings.Builder
	b.WriteRune('[')
	i := start + 1
	if i < len(runes) && runes[i] == '^' {
		b.WriteRune('^')
		i++
	}
	// a `]` first in the list is a literal
	if i < len(runes) && runes[i] == ']' {
		b.WriteString(`\]`)
		i++
	}
	for ; i < len(runes); i++ {
		r := runes[i]
		switch {
		case r == ']':
			b.WriteRune(']')
			return i, b.String(), nil
		case r == '[' && i+1 < len(runes) && (runes[i+1] == ':' || runes[i+1] == '=' || runes[i+1] == '.'):
			// character class like [:alpha:], copied as is
			delim := runes[i+1]
			end := -1
			for j := i + 2; j+1 < len(runes); j++ {
				if runes[j] == delim && runes[j+1] == ']' {
					end = j + 1
					break
				}
			}
			if end < 0 {
				return 0, "", fmt.Errorf("unterminated character class")
			}
			if delim != ':' {
				return 0, "", fmt.Errorf("collating elements are not supported")
			}
			b.WriteString(string(runes[i : end+1]))
			i = end
		case r == '\\':
			// backslash is a literal inside brackets
			b.WriteString(`\\`)
		default:
			b.WriteRune(r)
		}
	}
	return 0, "", fmt.Errorf("unmatched [")
}
