// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package texsource

import (
	"regexp"
	"strings"
)

// titlePattern matches the argument of a \title{...} declaration up to the
// first nested command or brace. A best-effort scan, not a LaTeX parser:
// heavily marked-up titles come back with their plain-text prefix only.
var titlePattern = regexp.MustCompile(`title\{(.+)[\\}{]`)

// controlSeqPattern matches LaTeX control sequences left inside a scanned
// title, e.g. `\LARGE` or `\textbf`.
var controlSeqPattern = regexp.MustCompile(`\\[a-zA-Z]+\s*`)

// unsafePattern matches filename characters outside the allowed set.
var unsafePattern = regexp.MustCompile(`[^A-Za-z0-9._ -]+`)

var dashRunPattern = regexp.MustCompile(`-{2,}`)

// ScanTitle scans LaTeX source for a title declaration and returns the
// first match's argument, trimmed. ok is false when no declaration is
// found; the pipeline then falls back to other naming sources.
func ScanTitle(content string) (title string, ok bool) {
	m := titlePattern.FindStringSubmatch(content)
	if m == nil {
		return "", false
	}
	title = strings.TrimSpace(m[1])
	if title == "" {
		return "", false
	}
	return title, true
}

// maxStemLen caps sanitized file stems; some e-reader filesystems reject
// long names.
const maxStemLen = 120

// SanitizeFilename converts a scanned title into a safe file stem.
// Control sequences are stripped, disallowed characters become "-", runs
// collapse, and the result is length-capped. An empty result means the
// caller should fall back to the paper slug.
func SanitizeFilename(title string) string {
	s := controlSeqPattern.ReplaceAllString(title, " ")
	s = unsafePattern.ReplaceAllString(s, "-")
	s = strings.Join(strings.Fields(s), " ")
	s = dashRunPattern.ReplaceAllString(s, "-")
	s = strings.Trim(s, "- .")
	if len(s) > maxStemLen {
		s = strings.TrimRight(s[:maxStemLen], "- .")
	}
	return s
}
