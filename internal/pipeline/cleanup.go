// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pipeline

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
)

// Prune deletes every file under workDir except keep (the Output
// Artifact, when it lives inside the working directory), then removes the
// directories that emptied out. Failures never abort anything; they come
// back as warnings for the caller to log.
func Prune(workDir, keep string) []error {
	var warnings []error
	var dirs []string

	err := filepath.WalkDir(workDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			warnings = append(warnings, err)
			return nil
		}
		if d.IsDir() {
			dirs = append(dirs, path)
			return nil
		}
		if samePath(path, keep) {
			return nil
		}
		if err := os.Remove(path); err != nil {
			warnings = append(warnings, fmt.Errorf("deleting %s: %w", path, err))
		}
		return nil
	})
	if err != nil {
		warnings = append(warnings, fmt.Errorf("walking %s: %w", workDir, err))
	}

	// Deepest first; a directory still holding the artifact simply stays.
	sort.Slice(dirs, func(i, j int) bool { return len(dirs[i]) > len(dirs[j]) })
	for _, dir := range dirs {
		os.Remove(dir)
	}

	return warnings
}

// samePath compares two paths after making both absolute. keep may have
// been given relative to a different base than the walk produces.
func samePath(a, b string) bool {
	if b == "" {
		return false
	}
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	if errA != nil || errB != nil {
		return a == b
	}
	return absA == absB
}
