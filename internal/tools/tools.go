// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package tools runs the external converters the pipeline depends on.
// Every subprocess seam in the repository goes through the Runner
// interface so tests can substitute a fake.
package tools

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
)

// Runner executes external tools. The pipeline only cares about exit
// status; converter diagnostics go straight to the inherited stderr.
type Runner interface {
	// LookPath reports whether the named binary exists on PATH.
	LookPath(file string) (string, error)

	// Run executes name with args, with dir as working directory when
	// non-empty. It blocks until the process exits and returns a non-nil
	// error on non-zero exit.
	Run(dir, name string, args ...string) error
}

// OSRunner is the production Runner backed by os/exec.
type OSRunner struct {
	// Stdout and Stderr receive subprocess output. Nil means inherit the
	// process streams.
	Stdout io.Writer
	Stderr io.Writer
}

func (r *OSRunner) LookPath(file string) (string, error) {
	return exec.LookPath(file)
}

func (r *OSRunner) Run(dir, name string, args ...string) error {
	cmd := exec.Command(name, args...)
	cmd.Dir = dir
	cmd.Stdout = r.Stdout
	cmd.Stderr = r.Stderr
	if cmd.Stdout == nil {
		cmd.Stdout = os.Stdout
	}
	if cmd.Stderr == nil {
		cmd.Stderr = os.Stderr
	}
	return cmd.Run()
}

// Check verifies that every named binary exists on PATH. It reports all
// missing tools at once so the operator fixes the environment in one go,
// before any network work starts.
func Check(runner Runner, names ...string) error {
	var missing []string
	for _, name := range names {
		if _, err := runner.LookPath(name); err != nil {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("required tools not found on PATH: %s", strings.Join(missing, ", "))
	}
	return nil
}
