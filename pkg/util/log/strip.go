// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016-present Datadog, Inc.

package log

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"regexp"
	"strings"
)

// Replacer structure to store regex matching and replacement functions
type Replacer struct {
	Regex *regexp.Regexp
	Hints []string // If any of these hints do not exist in the line, then we know the regex wont match either
	Repl  []byte
}

var replacers []Replacer

func init() {
	hintedAPIKeyReplacer := Replacer{
		Regex: regexp.MustCompile(`(api_?key=)\b[a-zA-Z0-9]+([a-zA-Z0-9]{5})\b`),
		Hints: []string{"api_key", "apikey"},
		Repl:  []byte(`$1***************************$2`),
	}
	apiKeyReplacer := Replacer{
		Regex: regexp.MustCompile(`\b[a-fA-F0-9]{27}([a-fA-F0-9]{5})\b`),
		Repl:  []byte(`***************************$1`),
	}
	// DOCKER_HOST and registry URLs may carry basic auth
	uriPasswordReplacer := Replacer{
		Regex: regexp.MustCompile(`([A-Za-z][A-Za-z0-9+-.]+\:\/\/|\b)([^\:\s]+)\:([^\s]+)\@`),
		Hints: []string{"@"},
		Repl:  []byte(`$1$2:********@`),
	}
	passwordReplacer := Replacer{
		Regex: matchYAMLKeyPart(`(pass(word)?|pwd)`),
		Hints: []string{"pass", "pwd"},
		Repl:  []byte(`$1 ********`),
	}
	tokenReplacer := Replacer{
		Regex: regexp.MustCompile(`(^\s*(\w|_)*token\s*:).+`),
		Hints: []string{"token"},
		Repl:  []byte(`$1 ********`),
	}
	replacers = []Replacer{hintedAPIKeyReplacer, apiKeyReplacer, uriPasswordReplacer, passwordReplacer, tokenReplacer}
}

func matchYAMLKeyPart(part string) *regexp.Regexp {
	return regexp.MustCompile(fmt.Sprintf(`(\s*(\w|_)*%s(\w|_)*\s*:).+`, part))
}

// CredentialsCleanerBytes scrubs credentials from slice of bytes
func CredentialsCleanerBytes(data []byte) ([]byte, error) {
	return credentialsCleaner(bytes.NewReader(data))
}

func credentialsCleaner(r io.Reader) ([]byte, error) {
	var cleaned []byte

	scanner := bufio.NewScanner(r)
	first := true
	for scanner.Scan() {
		if !first {
			cleaned = append(cleaned, '\n')
		}
		cleaned = append(cleaned, scrubCredentials(scanner.Bytes())...)
		first = false
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return cleaned, nil
}

func scrubCredentials(data []byte) []byte {
	for _, repl := range replacers {
		containsHint := len(repl.Hints) == 0
		for _, hint := range repl.Hints {
			if strings.Contains(string(data), hint) {
				containsHint = true
				break
			}
		}
		if containsHint {
			data = repl.Regex.ReplaceAll(data, repl.Repl)
		}
	}
	return data
}
