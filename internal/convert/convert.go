// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package convert runs the LaTeX-to-EPUB converter chain: latexml produces
// XML, latexmlpost renders HTML, ebook-convert packages the EPUB. Each
// stage is an external process consuming the previous stage's output file.
package convert

import (
	"fmt"

	"github.com/ztjona/arxiv2epub/internal/tools"
)

// StageError reports which converter stage failed. There is no retry and
// no partial recovery; the run aborts.
type StageError struct {
	Stage string
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("conversion stage %s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error { return e.Err }

// Stage is one external conversion step with typed input and output paths.
type Stage struct {
	// Name identifies the stage in errors and logs ("latexml",
	// "latexmlpost", "ebook-convert").
	Name string

	// Input is the file this stage consumes.
	Input string

	// Output is the file this stage declares it will produce.
	Output string

	// Dir is the working directory for the subprocess; empty means the
	// current directory.
	Dir string

	bin  string
	args []string
}

// Chain is an ordered sequence of conversion stages.
type Chain []Stage

// Run executes the stages in order, stopping at the first failure. The
// returned error wraps the failing stage's name.
func (c Chain) Run(runner tools.Runner) error {
	for _, s := range c {
		if err := runner.Run(s.Dir, s.bin, s.args...); err != nil {
			return &StageError{Stage: s.Name, Err: err}
		}
	}
	return nil
}
