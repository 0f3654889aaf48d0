// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pipeline sequences the conversion stages end to end: fetch,
// extract, select, title scan, converter chain, optional cleanup.
package pipeline

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/ztjona/arxiv2epub/internal/archive"
	"github.com/ztjona/arxiv2epub/internal/convert"
	"github.com/ztjona/arxiv2epub/internal/fetch"
	"github.com/ztjona/arxiv2epub/internal/texsource"
	"github.com/ztjona/arxiv2epub/internal/tools"
	"github.com/ztjona/arxiv2epub/pkg/types"
)

// srcDirName is the subdirectory of the working directory holding the
// extracted source tree.
const srcDirName = "src"

// Options carries everything one pipeline run needs. Client, Runner and
// Chooser are injected so tests can run the pipeline without network,
// subprocesses, or a terminal.
type Options struct {
	// Reference is the raw paper reference from the command line.
	Reference string

	// OutputPath overrides the derived artifact path when non-empty.
	OutputPath string

	Config  types.PipelineConfig
	Client  *http.Client
	Runner  tools.Runner
	Chooser texsource.Chooser
	Log     zerolog.Logger
}

// Run executes the full pipeline and returns the paper record with
// EPUBPath set. Any fetch, extraction, selection, or conversion failure
// aborts with an error naming the failing stage; cleanup problems only log
// warnings.
func Run(opts Options) (*types.Paper, error) {
	cfg := opts.Config

	id, err := fetch.Classify(opts.Reference)
	if err != nil {
		return nil, err
	}
	log := opts.Log.With().Str("paper", id).Logger()

	// Fail on missing tools before touching the network.
	bins := append([]string{tarBin(cfg.Convert)}, convert.Binaries(cfg.Convert)...)
	if err := tools.Check(opts.Runner, bins...); err != nil {
		return nil, err
	}

	log.Info().Str("url", fetch.SourceURL(id)).Msg("downloading source archive")
	paper, err := fetch.Fetch(opts.Client, id, cfg.Fetch)
	if err != nil {
		return nil, err
	}
	workDir := filepath.Dir(paper.ArchivePath)

	if cfg.Fetch.FetchMetadata {
		if err := fetch.FetchMetadata(opts.Client, paper, cfg.Fetch); err != nil {
			log.Warn().Err(err).Msg("arXiv metadata fetch failed, continuing without it")
		}
	}

	srcDir := filepath.Join(workDir, srcDirName)
	log.Info().Str("dir", srcDir).Msg("extracting source tree")
	if err := archive.Extract(opts.Runner, cfg.Convert.TarBin, paper.ArchivePath, srcDir); err != nil {
		return nil, err
	}
	paper.SourceDir = srcDir

	mainTex, err := texsource.Select(srcDir, cfg.MainTexFile, opts.Chooser)
	if err != nil {
		return nil, err
	}
	paper.MainTexFile = mainTex
	log.Info().Str("file", mainTex).Msg("primary source file selected")

	title := resolveTitle(log, paper, filepath.Join(srcDir, mainTex))

	outputPath, err := resolveOutputPath(opts.OutputPath, cfg.OutputDir, title, paper.Slug)
	if err != nil {
		return nil, err
	}
	paper.EPUBPath = outputPath

	if err := fetch.WriteMetadata(paper, workDir); err != nil {
		log.Warn().Err(err).Msg("could not write metadata record")
	}

	chain, err := buildChain(paper, workDir, outputPath, cfg.Convert)
	if err != nil {
		return nil, err
	}
	for _, s := range chain {
		log.Info().Str("stage", s.Name).Str("output", s.Output).Msg("running converter stage")
	}
	if err := chain.Run(opts.Runner); err != nil {
		return nil, err
	}
	log.Info().Str("epub", outputPath).Msg("EPUB created")

	if cfg.Clear {
		for _, warn := range Prune(workDir, outputPath) {
			log.Warn().Err(warn).Msg("cleanup")
		}
	}

	return paper, nil
}

// resolveTitle picks the artifact naming source: the in-source \title
// declaration first, then API metadata, then the paper slug. It also
// backfills paper.Title for the EPUB metadata when the API had none.
func resolveTitle(log zerolog.Logger, paper *types.Paper, mainTexPath string) string {
	content, err := os.ReadFile(mainTexPath)
	if err != nil {
		log.Warn().Err(err).Msg("could not read primary file for title scan")
		content = nil
	}

	if title, ok := texsource.ScanTitle(string(content)); ok {
		log.Info().Str("title", title).Msg("title found in LaTeX source")
		if paper.Title == "" {
			paper.Title = title
		}
		return title
	}

	if paper.Title != "" {
		log.Info().Str("title", paper.Title).Msg("no title in LaTeX source, using arXiv metadata")
		return paper.Title
	}

	log.Warn().Msg("no title found, naming output after the paper ID")
	return ""
}

// resolveOutputPath derives the artifact path: an explicit override wins,
// otherwise outDir/<sanitized title>.epub, falling back to the slug when
// the title is absent or sanitizes to nothing.
func resolveOutputPath(override, outDir, title, slug string) (string, error) {
	var path string
	if override != "" {
		path = override
	} else {
		stem := texsource.SanitizeFilename(title)
		if stem == "" {
			stem = slug
		}
		path = filepath.Join(outDir, stem+".epub")
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolving output path %s: %w", path, err)
	}
	if err := os.MkdirAll(filepath.Dir(abs), 0o755); err != nil {
		return "", fmt.Errorf("creating output directory: %w", err)
	}
	return abs, nil
}

// buildChain assembles the converter chain with absolute intermediate
// paths; the latexml stages change working directory into the source tree.
func buildChain(paper *types.Paper, workDir, outputPath string, cfg types.ConvertConfig) (convert.Chain, error) {
	absWork, err := filepath.Abs(workDir)
	if err != nil {
		return nil, fmt.Errorf("resolving working directory: %w", err)
	}
	absSrc, err := filepath.Abs(paper.SourceDir)
	if err != nil {
		return nil, fmt.Errorf("resolving source directory: %w", err)
	}

	return convert.NewChain(convert.ChainSpec{
		SourceDir: absSrc,
		MainTex:   paper.MainTexFile,
		XMLPath:   filepath.Join(absWork, paper.Slug+".xml"),
		HTMLPath:  filepath.Join(absWork, paper.Slug+".html"),
		EPUBPath:  outputPath,
		Title:     paper.Title,
		Authors:   paper.Authors,
		Language:  cfg.Language,
	}, cfg), nil
}

func tarBin(cfg types.ConvertConfig) string {
	if cfg.TarBin != "" {
		return cfg.TarBin
	}
	return "tar"
}
