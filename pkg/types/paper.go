// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// Paper holds metadata and file paths for a paper moving through the
// conversion pipeline. The record is written as YAML into the working
// directory so a retained run can be inspected afterwards.
type Paper struct {
	// ID is the normalized arXiv identifier (e.g. "2301.07041").
	ID string `json:"id" yaml:"id"`

	// Slug is the filesystem-safe stem derived from ID. Identical to ID
	// for modern identifiers; legacy IDs ("math/0211159") replace the slash.
	Slug string `json:"slug" yaml:"slug"`

	// SourceURL is the e-print URL the archive was downloaded from.
	SourceURL string `json:"source_url" yaml:"source_url"`

	// ArchivePath is the local path of the downloaded source archive.
	ArchivePath string `json:"archive_path" yaml:"archive_path"`

	// SourceDir is the directory the archive was extracted into.
	SourceDir string `json:"source_dir,omitempty" yaml:"source_dir,omitempty"`

	// MainTexFile is the selected primary .tex file, relative to SourceDir.
	MainTexFile string `json:"main_tex_file,omitempty" yaml:"main_tex_file,omitempty"`

	// Title is the paper title, from the arXiv API or the LaTeX source.
	Title string `json:"title,omitempty" yaml:"title,omitempty"`

	// Authors lists the paper authors in source order.
	Authors []string `json:"authors,omitempty" yaml:"authors,omitempty"`

	// Abstract is the paper abstract, when the arXiv API provided one.
	Abstract string `json:"abstract,omitempty" yaml:"abstract,omitempty"`

	// Published is the preprint publication date.
	Published time.Time `json:"published,omitempty" yaml:"published,omitempty"`

	// EPUBPath is the final artifact path, set once conversion succeeds.
	EPUBPath string `json:"epub_path,omitempty" yaml:"epub_path,omitempty"`
}
