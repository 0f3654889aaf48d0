// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package texsource locates the primary .tex file in an extracted source
// tree and scans it for document metadata.
package texsource

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
)

// NoCandidateError reports a source tree with no .tex files at all.
// Conversion is impossible; the run aborts before any converter is invoked.
type NoCandidateError struct {
	Dir string
}

func (e *NoCandidateError) Error() string {
	return fmt.Sprintf("no .tex files found in %s", e.Dir)
}

// Chooser picks one candidate when the preferred file name is absent.
// The console implementation prompts the operator; tests supply a
// deterministic pick.
type Chooser interface {
	// Choose returns the index of the selected candidate. candidates is
	// never empty.
	Choose(candidates []string) (int, error)
}

// ListTexFiles walks dir and returns every .tex file as a path relative to
// dir, sorted. Hidden directories are skipped; arXiv tarballs occasionally
// ship editor droppings.
func ListTexFiles(dir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if strings.HasPrefix(d.Name(), ".") && path != dir {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.EqualFold(filepath.Ext(d.Name()), ".tex") {
			rel, relErr := filepath.Rel(dir, path)
			if relErr != nil {
				return relErr
			}
			files = append(files, rel)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking %s: %w", dir, err)
	}
	sort.Strings(files)
	return files, nil
}

// Select determines the primary .tex file in dir. If preferred exists
// among the candidates it is selected without prompting; otherwise chooser
// decides. The returned path is relative to dir.
func Select(dir, preferred string, chooser Chooser) (string, error) {
	candidates, err := ListTexFiles(dir)
	if err != nil {
		return "", err
	}
	if len(candidates) == 0 {
		return "", &NoCandidateError{Dir: dir}
	}

	for _, c := range candidates {
		if c == preferred || filepath.Base(c) == preferred {
			return c, nil
		}
	}

	idx, err := chooser.Choose(candidates)
	if err != nil {
		return "", fmt.Errorf("selecting primary file: %w", err)
	}
	if idx < 0 || idx >= len(candidates) {
		return "", fmt.Errorf("selected index %d out of range (0-%d)", idx, len(candidates)-1)
	}
	return candidates[idx], nil
}
