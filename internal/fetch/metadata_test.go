// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package fetch

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.yaml.in/yaml/v3"

	"github.com/ztjona/arxiv2epub/pkg/types"
)

const sampleArxivXML = `<?xml version="1.0" encoding="UTF-8"?>
<feed xmlns="http://www.w3.org/2005/Atom">
  <entry>
    <title>Attention Is
 All You Need</title>
    <summary>We propose the Transformer.</summary>
    <published>2017-06-12T17:57:34Z</published>
    <author><name>Ashish Vaswani</name></author>
    <author><name>Noam Shazeer</name></author>
  </entry>
</feed>`

const emptyArxivXML = `<?xml version="1.0" encoding="UTF-8"?>
<feed xmlns="http://www.w3.org/2005/Atom"></feed>`

func newAPIServer(t *testing.T, body string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("id_list") == "" {
			http.Error(w, "missing id_list", http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "application/xml")
		fmt.Fprint(w, body)
	}))
}

func TestFetchMetadata(t *testing.T) {
	srv := newAPIServer(t, sampleArxivXML)
	defer srv.Close()

	origBase := arxivAPIBase
	arxivAPIBase = srv.URL + "/api/query"
	defer func() { arxivAPIBase = origBase }()

	paper := &types.Paper{ID: "1706.03762", Slug: "1706.03762"}
	if err := FetchMetadata(srv.Client(), paper, testFetchConfig(t.TempDir())); err != nil {
		t.Fatalf("FetchMetadata returned error: %v", err)
	}

	// Newlines inside the title collapse to single spaces.
	if paper.Title != "Attention Is All You Need" {
		t.Errorf("Title = %q", paper.Title)
	}
	if paper.Abstract != "We propose the Transformer." {
		t.Errorf("Abstract = %q", paper.Abstract)
	}
	if len(paper.Authors) != 2 || paper.Authors[0] != "Ashish Vaswani" {
		t.Errorf("Authors = %v", paper.Authors)
	}
	if paper.Published.Year() != 2017 {
		t.Errorf("Published = %v", paper.Published)
	}
}

func TestFetchMetadataNoEntries(t *testing.T) {
	srv := newAPIServer(t, emptyArxivXML)
	defer srv.Close()

	origBase := arxivAPIBase
	arxivAPIBase = srv.URL + "/api/query"
	defer func() { arxivAPIBase = origBase }()

	paper := &types.Paper{ID: "1706.03762"}
	err := FetchMetadata(srv.Client(), paper, testFetchConfig(t.TempDir()))
	if err == nil || !strings.Contains(err.Error(), "no entries") {
		t.Fatalf("err = %v, want no-entries error", err)
	}
}

func TestWriteMetadata(t *testing.T) {
	workDir := t.TempDir()
	paper := &types.Paper{
		ID:      "2301.07041",
		Slug:    "2301.07041",
		Title:   "A Paper",
		Authors: []string{"Alice Smith"},
	}

	if err := WriteMetadata(paper, workDir); err != nil {
		t.Fatalf("WriteMetadata returned error: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(workDir, "metadata.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	var got types.Paper
	if err := yaml.Unmarshal(data, &got); err != nil {
		t.Fatal(err)
	}
	if got.ID != paper.ID || got.Title != paper.Title {
		t.Errorf("roundtrip = %+v, want %+v", got, paper)
	}
}
