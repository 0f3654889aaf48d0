// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package fetch resolves arXiv references and downloads source archives.
package fetch

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/ztjona/arxiv2epub/pkg/types"
)

// Error reports a failed archive download. It aborts the pipeline.
type Error struct {
	URL    string
	Status int // HTTP status, 0 when the request itself failed
	Err    error
}

func (e *Error) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("fetch %s: HTTP %d", e.URL, e.Status)
	}
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Fetch downloads the source archive for the given arXiv ID into the
// per-run working directory, creating it if needed. The archive is written
// to a temporary file and renamed on success so a failed download never
// leaves a truncated archive behind.
func Fetch(client *http.Client, id string, cfg types.FetchConfig) (*types.Paper, error) {
	slug := Slug(id)
	workDir := filepath.Join(cfg.WorkDir, slug)
	if err := os.MkdirAll(workDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating working directory %s: %w", workDir, err)
	}

	srcURL := SourceURL(id)
	archivePath := filepath.Join(workDir, slug+".tar.gz")
	if err := downloadFile(client, srcURL, archivePath, cfg); err != nil {
		return nil, err
	}

	return &types.Paper{
		ID:          id,
		Slug:        slug,
		SourceURL:   srcURL,
		ArchivePath: archivePath,
	}, nil
}

// downloadFile fetches url to destPath using a temporary file.
func downloadFile(client *http.Client, url, destPath string, cfg types.FetchConfig) error {
	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		return &Error{URL: url, Err: err}
	}
	req.Header.Set("User-Agent", cfg.UserAgent)

	resp, err := client.Do(req)
	if err != nil {
		return &Error{URL: url, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return &Error{URL: url, Status: resp.StatusCode}
	}

	tmpFile, err := os.CreateTemp(filepath.Dir(destPath), ".fetch-*.tmp")
	if err != nil {
		return &Error{URL: url, Err: fmt.Errorf("creating temp file: %w", err)}
	}
	tmpPath := tmpFile.Name()

	_, copyErr := io.Copy(tmpFile, resp.Body)
	closeErr := tmpFile.Close()
	if copyErr != nil {
		os.Remove(tmpPath)
		return &Error{URL: url, Err: fmt.Errorf("writing download: %w", copyErr)}
	}
	if closeErr != nil {
		os.Remove(tmpPath)
		return &Error{URL: url, Err: fmt.Errorf("closing temp file: %w", closeErr)}
	}

	if err := os.Rename(tmpPath, destPath); err != nil {
		os.Remove(tmpPath)
		return &Error{URL: url, Err: fmt.Errorf("renaming temp file: %w", err)}
	}
	return nil
}
