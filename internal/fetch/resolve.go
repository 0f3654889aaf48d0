// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package fetch

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

// Base URLs for arXiv resolution. Declared as vars so tests can
// substitute httptest servers.
var (
	arxivEprintBase = "https://arxiv.org/e-print/"
	arxivAPIBase    = "https://export.arxiv.org/api/query"
)

// arxivPattern matches modern arXiv IDs: "2301.07041", "arXiv:2301.07041",
// "2301.07041v2".
var arxivPattern = regexp.MustCompile(`^(?:arXiv:)?(\d{4}\.\d{4,5}(?:v\d+)?)$`)

// legacyPattern matches pre-2007 IDs: "math/0211159", "cond-mat.str-el/0401234v1".
var legacyPattern = regexp.MustCompile(`^(?:arXiv:)?([a-z-]+(?:\.[a-zA-Z-]+)?/\d{7}(?:v\d+)?)$`)

// Classify normalizes a paper reference to a bare arXiv identifier.
// Accepted forms: bare IDs (modern and legacy, with optional "arXiv:"
// prefix) and arxiv.org URLs pointing at the abstract, PDF, or e-print
// pages. Anything else is an error; there is no fallback resolution.
func Classify(reference string) (string, error) {
	reference = strings.TrimSpace(reference)
	if reference == "" {
		return "", fmt.Errorf("empty paper reference")
	}

	if m := arxivPattern.FindStringSubmatch(reference); m != nil {
		return m[1], nil
	}
	if m := legacyPattern.FindStringSubmatch(reference); m != nil {
		return m[1], nil
	}

	if u, err := url.Parse(reference); err == nil && (u.Scheme == "http" || u.Scheme == "https") {
		if !strings.HasSuffix(u.Hostname(), "arxiv.org") {
			return "", fmt.Errorf("not an arxiv.org URL: %q", reference)
		}
		for _, prefix := range []string{"/abs/", "/pdf/", "/e-print/"} {
			if rest, ok := strings.CutPrefix(u.Path, prefix); ok {
				rest = strings.TrimSuffix(rest, ".pdf")
				rest = strings.TrimSuffix(rest, "/")
				if id, err := Classify(rest); err == nil {
					return id, nil
				}
				return "", fmt.Errorf("unrecognized arXiv ID in URL: %q", reference)
			}
		}
		return "", fmt.Errorf("arxiv.org URL without a paper path: %q", reference)
	}

	return "", fmt.Errorf("unrecognized paper reference: %q", reference)
}

// Slug returns a filesystem-safe filename stem for an arXiv ID. Modern IDs
// pass through; legacy IDs replace the slash.
func Slug(id string) string {
	return strings.ReplaceAll(id, "/", "-")
}

// SourceURL returns the e-print endpoint serving the paper's source archive.
func SourceURL(id string) string {
	return arxivEprintBase + id
}
