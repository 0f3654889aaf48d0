// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"strings"

	"github.com/ztjona/arxiv2epub/pkg/types"
)

// Default binary names for the converter chain.
const (
	defaultLatexmlBin      = "latexml"
	defaultLatexmlpostBin  = "latexmlpost"
	defaultEbookConvertBin = "ebook-convert"
)

// Binaries returns the three converter binary names after applying config
// overrides, in chain order. Used for the PATH preflight.
func Binaries(cfg types.ConvertConfig) []string {
	return []string{
		orDefault(cfg.LatexmlBin, defaultLatexmlBin),
		orDefault(cfg.LatexmlpostBin, defaultLatexmlpostBin),
		orDefault(cfg.EbookConvertBin, defaultEbookConvertBin),
	}
}

// ChainSpec carries the paths a conversion chain operates on. All paths
// must be absolute: the latexml stages run with the source tree as their
// working directory so relative \input and graphics references resolve.
type ChainSpec struct {
	// SourceDir is the extracted source tree.
	SourceDir string

	// MainTex is the primary .tex file, relative to SourceDir.
	MainTex string

	// XMLPath and HTMLPath are the intermediate files inside the working
	// directory.
	XMLPath  string
	HTMLPath string

	// EPUBPath is the final artifact.
	EPUBPath string

	// Title and Authors, when set, are embedded into the EPUB metadata.
	Title   string
	Authors []string

	// Language is the EPUB language tag (default "en").
	Language string
}

// NewChain builds the latexml → latexmlpost → ebook-convert chain for spec.
func NewChain(spec ChainSpec, cfg types.ConvertConfig) Chain {
	lang := spec.Language
	if lang == "" {
		lang = "en"
	}

	ebookArgs := []string{
		spec.HTMLPath,
		spec.EPUBPath,
		"--language", lang,
		"--no-default-epub-cover",
	}
	if spec.Title != "" {
		ebookArgs = append(ebookArgs, "--title", spec.Title)
	}
	if len(spec.Authors) > 0 {
		ebookArgs = append(ebookArgs, "--authors", strings.Join(spec.Authors, " & "))
	}

	return Chain{
		{
			Name:   "latexml",
			Input:  spec.MainTex,
			Output: spec.XMLPath,
			Dir:    spec.SourceDir,
			bin:    orDefault(cfg.LatexmlBin, defaultLatexmlBin),
			args:   []string{"--dest=" + spec.XMLPath, spec.MainTex, "--verbose"},
		},
		{
			Name:   "latexmlpost",
			Input:  spec.XMLPath,
			Output: spec.HTMLPath,
			Dir:    spec.SourceDir,
			bin:    orDefault(cfg.LatexmlpostBin, defaultLatexmlpostBin),
			args:   []string{"--dest=" + spec.HTMLPath, spec.XMLPath},
		},
		{
			Name:   "ebook-convert",
			Input:  spec.HTMLPath,
			Output: spec.EPUBPath,
			bin:    orDefault(cfg.EbookConvertBin, defaultEbookConvertBin),
			args:   ebookArgs,
		},
	}
}

func orDefault(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}
