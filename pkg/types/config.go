package types

import "time"

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "arxiv2epub/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// FetchConfig holds settings for the acquisition stage.
type FetchConfig struct {
	HTTPConfig `yaml:",inline"`

	// WorkDir is the base directory for per-run working directories.
	// Each run owns WorkDir/<slug>/ exclusively.
	WorkDir string `json:"work_dir" yaml:"work_dir"`

	// FetchMetadata controls whether the arXiv API is queried for
	// title/author metadata after the archive download.
	FetchMetadata bool `json:"fetch_metadata" yaml:"fetch_metadata"`
}

// ConvertConfig holds settings for the converter chain.
type ConvertConfig struct {
	// Language is the EPUB language passed to ebook-convert (default "en").
	Language string `json:"language" yaml:"language"`

	// LatexmlBin, LatexmlpostBin, EbookConvertBin and TarBin override the
	// external tool binary names, for nonstandard installs.
	LatexmlBin      string `json:"latexml_bin" yaml:"latexml_bin"`
	LatexmlpostBin  string `json:"latexmlpost_bin" yaml:"latexmlpost_bin"`
	EbookConvertBin string `json:"ebook_convert_bin" yaml:"ebook_convert_bin"`
	TarBin          string `json:"tar_bin" yaml:"tar_bin"`
}

// PipelineConfig groups all stage configurations for one run.
type PipelineConfig struct {
	Fetch   FetchConfig   `json:"fetch" yaml:"fetch"`
	Convert ConvertConfig `json:"convert" yaml:"convert"`

	// OutputDir is where the EPUB lands when no explicit output path is
	// given (default "out").
	OutputDir string `json:"output_dir" yaml:"output_dir"`

	// MainTexFile is the conventional primary file name looked for in the
	// source tree before prompting (default "main.tex").
	MainTexFile string `json:"main_tex_file" yaml:"main_tex_file"`

	// Clear deletes all intermediates in the working directory after a
	// successful conversion, keeping only the EPUB.
	Clear bool `json:"clear" yaml:"clear"`
}
