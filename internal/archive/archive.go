// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package archive extracts downloaded source archives.
package archive

import (
	"fmt"
	"os"

	"github.com/ztjona/arxiv2epub/internal/tools"
)

// defaultTarBin is used when the config does not override the tar binary.
const defaultTarBin = "tar"

// ExtractionError reports a failed archive extraction. It aborts the pipeline.
type ExtractionError struct {
	Archive string
	Err     error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("extracting %s: %v", e.Archive, e.Err)
}

func (e *ExtractionError) Unwrap() error { return e.Err }

// Extract unpacks archivePath into destDir using the tar utility. arXiv
// e-print archives are gzipped tarballs; anything tar cannot read is
// treated as corrupt.
func Extract(runner tools.Runner, tarBin, archivePath, destDir string) error {
	if tarBin == "" {
		tarBin = defaultTarBin
	}
	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return &ExtractionError{Archive: archivePath, Err: err}
	}
	if err := runner.Run("", tarBin, "-xzf", archivePath, "-C", destDir); err != nil {
		return &ExtractionError{Archive: archivePath, Err: err}
	}
	return nil
}
