// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pipeline

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/ztjona/arxiv2epub/internal/convert"
	"github.com/ztjona/arxiv2epub/internal/texsource"
	"github.com/ztjona/arxiv2epub/pkg/types"
)

const testArxivXML = `<?xml version="1.0" encoding="UTF-8"?>
<feed xmlns="http://www.w3.org/2005/Atom">
  <entry>
    <title>Metadata Title</title>
    <summary>An abstract.</summary>
    <published>2023-01-17T18:58:28Z</published>
    <author><name>Alice Smith</name></author>
  </entry>
</feed>`

// stubTransport serves canned responses for the e-print download and the
// metadata API without real network access.
type stubTransport struct {
	eprintStatus int
}

func (s *stubTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	respond := func(status int, body string) *http.Response {
		return &http.Response{
			StatusCode: status,
			Body:       io.NopCloser(strings.NewReader(body)),
			Header:     make(http.Header),
			Request:    req,
		}
	}

	switch {
	case strings.Contains(req.URL.Path, "/e-print/"):
		status := s.eprintStatus
		if status == 0 {
			status = http.StatusOK
		}
		return respond(status, "fake tarball"), nil
	case strings.Contains(req.URL.Path, "/api/query"):
		return respond(http.StatusOK, testArxivXML), nil
	default:
		return respond(http.StatusNotFound, "not found"), nil
	}
}

// stageRunner fakes the external tools: tar populates the source tree from
// texFiles, the converters write their declared output files.
type stageRunner struct {
	texFiles map[string]string
	failOn   string
	calls    []string
}

func (r *stageRunner) LookPath(file string) (string, error) { return file, nil }

func (r *stageRunner) Run(dir, name string, args ...string) error {
	r.calls = append(r.calls, name)
	if name == r.failOn {
		return fmt.Errorf("exit status 1")
	}

	switch name {
	case "tar":
		dest := args[len(args)-1]
		for f, content := range r.texFiles {
			path := filepath.Join(dest, filepath.FromSlash(f))
			if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
				return err
			}
			if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
				return err
			}
		}
		return nil
	case "latexml", "latexmlpost":
		for _, a := range args {
			if out, ok := strings.CutPrefix(a, "--dest="); ok {
				return os.WriteFile(out, []byte(name+" output"), 0o644)
			}
		}
		return fmt.Errorf("no --dest argument")
	case "ebook-convert":
		return os.WriteFile(args[1], []byte("epub content"), 0o644)
	default:
		return fmt.Errorf("unexpected tool %s", name)
	}
}

// failingChooser fails the test when the pipeline prompts unexpectedly.
type failingChooser struct{ t *testing.T }

func (c *failingChooser) Choose(candidates []string) (int, error) {
	c.t.Fatalf("unexpected prompt with candidates %v", candidates)
	return 0, nil
}

// pickChooser records the candidates and picks a fixed index.
type pickChooser struct {
	pick  int
	shown []string
}

func (c *pickChooser) Choose(candidates []string) (int, error) {
	c.shown = candidates
	return c.pick, nil
}

func testOptions(t *testing.T, runner *stageRunner, chooser texsource.Chooser) Options {
	t.Helper()
	base := t.TempDir()
	return Options{
		Reference: "2301.07041",
		Config: types.PipelineConfig{
			Fetch: types.FetchConfig{
				HTTPConfig: types.HTTPConfig{
					Timeout:   5 * time.Second,
					UserAgent: "arxiv2epub-test/0",
				},
				WorkDir:       filepath.Join(base, "work"),
				FetchMetadata: true,
			},
			OutputDir:   filepath.Join(base, "out"),
			MainTexFile: "main.tex",
		},
		Client:  &http.Client{Transport: &stubTransport{}},
		Runner:  runner,
		Chooser: chooser,
		Log:     zerolog.Nop(),
	}
}

func TestRunHappyPath(t *testing.T) {
	runner := &stageRunner{texFiles: map[string]string{
		"main.tex":  `\title{Source Title}` + "\n" + `\begin{document}`,
		"extra.tex": `% appendix`,
	}}
	opts := testOptions(t, runner, &failingChooser{t: t})

	paper, err := Run(opts)
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}

	// Artifact named from the in-source title, placed in the output dir.
	wantEPUB := filepath.Join(opts.Config.OutputDir, "Source Title.epub")
	if paper.EPUBPath != wantEPUB {
		t.Errorf("EPUBPath = %q, want %q", paper.EPUBPath, wantEPUB)
	}
	if _, err := os.Stat(wantEPUB); err != nil {
		t.Errorf("artifact missing: %v", err)
	}

	// All four external tools ran, in pipeline order.
	wantCalls := []string{"tar", "latexml", "latexmlpost", "ebook-convert"}
	if strings.Join(runner.calls, ",") != strings.Join(wantCalls, ",") {
		t.Errorf("calls = %v, want %v", runner.calls, wantCalls)
	}

	// API metadata survives alongside the source title.
	if paper.Title != "Source Title" && paper.Title != "Metadata Title" {
		t.Errorf("Title = %q", paper.Title)
	}
	if len(paper.Authors) != 1 || paper.Authors[0] != "Alice Smith" {
		t.Errorf("Authors = %v", paper.Authors)
	}

	// Intermediates retained without --clear.
	workDir := filepath.Join(opts.Config.Fetch.WorkDir, "2301.07041")
	for _, f := range []string{"2301.07041.tar.gz", "metadata.yaml", "2301.07041.xml", "2301.07041.html"} {
		if _, err := os.Stat(filepath.Join(workDir, f)); err != nil {
			t.Errorf("intermediate %s missing: %v", f, err)
		}
	}
}

func TestRunPromptsWhenDefaultAbsent(t *testing.T) {
	runner := &stageRunner{texFiles: map[string]string{
		"acl_latex.tex":  `\title{Prompted Paper}`,
		"supplement.tex": `% supplement`,
	}}
	chooser := &pickChooser{pick: 0}
	opts := testOptions(t, runner, chooser)

	paper, err := Run(opts)
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}

	if len(chooser.shown) != 2 {
		t.Errorf("chooser shown %d candidates, want 2", len(chooser.shown))
	}
	if paper.MainTexFile != "acl_latex.tex" {
		t.Errorf("MainTexFile = %q", paper.MainTexFile)
	}
}

func TestRunNoCandidates(t *testing.T) {
	runner := &stageRunner{texFiles: map[string]string{
		"figure.pdf": "not tex",
	}}
	opts := testOptions(t, runner, &failingChooser{t: t})

	_, err := Run(opts)
	var nce *texsource.NoCandidateError
	if !errors.As(err, &nce) {
		t.Fatalf("error type = %T, want *NoCandidateError", err)
	}

	// Selection failed before any converter ran.
	if strings.Join(runner.calls, ",") != "tar" {
		t.Errorf("calls = %v, want only tar", runner.calls)
	}
}

func TestRunTitleFallsBackToMetadata(t *testing.T) {
	runner := &stageRunner{texFiles: map[string]string{
		"main.tex": `\begin{document}no title here\end{document}`,
	}}
	opts := testOptions(t, runner, &failingChooser{t: t})

	paper, err := Run(opts)
	if err != nil {
		t.Fatal(err)
	}
	want := filepath.Join(opts.Config.OutputDir, "Metadata Title.epub")
	if paper.EPUBPath != want {
		t.Errorf("EPUBPath = %q, want %q", paper.EPUBPath, want)
	}
}

func TestRunTitleFallsBackToSlug(t *testing.T) {
	runner := &stageRunner{texFiles: map[string]string{
		"main.tex": `\begin{document}no title here\end{document}`,
	}}
	opts := testOptions(t, runner, &failingChooser{t: t})
	opts.Config.Fetch.FetchMetadata = false

	paper, err := Run(opts)
	if err != nil {
		t.Fatal(err)
	}
	want := filepath.Join(opts.Config.OutputDir, "2301.07041.epub")
	if paper.EPUBPath != want {
		t.Errorf("EPUBPath = %q, want %q", paper.EPUBPath, want)
	}
}

func TestRunExplicitOutputOverride(t *testing.T) {
	runner := &stageRunner{texFiles: map[string]string{
		"main.tex": `\title{Ignored For Naming}`,
	}}
	opts := testOptions(t, runner, &failingChooser{t: t})
	opts.OutputPath = filepath.Join(t.TempDir(), "custom", "name.epub")

	paper, err := Run(opts)
	if err != nil {
		t.Fatal(err)
	}
	if paper.EPUBPath != opts.OutputPath {
		t.Errorf("EPUBPath = %q, want %q", paper.EPUBPath, opts.OutputPath)
	}
	if _, err := os.Stat(opts.OutputPath); err != nil {
		t.Errorf("artifact missing: %v", err)
	}
}

func TestRunConversionFailure(t *testing.T) {
	runner := &stageRunner{
		texFiles: map[string]string{"main.tex": `\title{Doomed}`},
		failOn:   "latexmlpost",
	}
	opts := testOptions(t, runner, &failingChooser{t: t})

	_, err := Run(opts)
	var se *convert.StageError
	if !errors.As(err, &se) {
		t.Fatalf("error type = %T, want *StageError", err)
	}
	if se.Stage != "latexmlpost" {
		t.Errorf("failing stage = %q", se.Stage)
	}
	if _, statErr := os.Stat(filepath.Join(opts.Config.OutputDir, "Doomed.epub")); statErr == nil {
		t.Error("artifact exists despite failed conversion")
	}
}

func TestRunFetchFailure(t *testing.T) {
	runner := &stageRunner{texFiles: map[string]string{"main.tex": ""}}
	opts := testOptions(t, runner, &failingChooser{t: t})
	opts.Client = &http.Client{Transport: &stubTransport{eprintStatus: http.StatusNotFound}}

	_, err := Run(opts)
	if err == nil {
		t.Fatal("expected fetch error")
	}
	if len(runner.calls) != 0 {
		t.Errorf("tools ran despite failed fetch: %v", runner.calls)
	}
}

func TestRunClearPrunesIntermediates(t *testing.T) {
	runner := &stageRunner{texFiles: map[string]string{
		"main.tex": `\title{Tidy Paper}`,
	}}
	opts := testOptions(t, runner, &failingChooser{t: t})
	opts.Config.Clear = true

	paper, err := Run(opts)
	if err != nil {
		t.Fatal(err)
	}

	if _, err := os.Stat(paper.EPUBPath); err != nil {
		t.Fatalf("artifact missing after cleanup: %v", err)
	}
	workDir := filepath.Join(opts.Config.Fetch.WorkDir, "2301.07041")
	if _, err := os.Stat(workDir); !os.IsNotExist(err) {
		t.Errorf("working directory still present after --clear: %v", err)
	}
}
