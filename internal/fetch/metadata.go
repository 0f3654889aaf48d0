// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package fetch

import (
	"encoding/xml"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/ztjona/arxiv2epub/pkg/types"
)

// metadataFile is the name of the YAML record inside the working directory.
const metadataFile = "metadata.yaml"

// arXiv Atom feed XML structures.
type arxivFeed struct {
	Entries []arxivEntry `xml:"entry"`
}

type arxivEntry struct {
	Title     string        `xml:"title"`
	Summary   string        `xml:"summary"`
	Published string        `xml:"published"`
	Authors   []arxivAuthor `xml:"author"`
}

type arxivAuthor struct {
	Name string `xml:"name"`
}

// FetchMetadata retrieves title, authors, abstract and publication date
// from the arXiv API and fills them into paper. A failure here never aborts
// the run; the caller logs it and continues with whatever the LaTeX source
// yields.
func FetchMetadata(client *http.Client, paper *types.Paper, cfg types.FetchConfig) error {
	apiURL := fmt.Sprintf("%s?id_list=%s", arxivAPIBase, paper.ID)

	req, err := http.NewRequest(http.MethodGet, apiURL, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", cfg.UserAgent)

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("arXiv API request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("arXiv API returned HTTP %d", resp.StatusCode)
	}

	var feed arxivFeed
	if err := xml.NewDecoder(resp.Body).Decode(&feed); err != nil {
		return fmt.Errorf("parsing arXiv response: %w", err)
	}

	if len(feed.Entries) == 0 {
		return fmt.Errorf("no entries found for arXiv ID %s", paper.ID)
	}

	entry := feed.Entries[0]
	paper.Title = strings.Join(strings.Fields(entry.Title), " ")
	paper.Abstract = strings.TrimSpace(entry.Summary)

	for _, a := range entry.Authors {
		paper.Authors = append(paper.Authors, strings.TrimSpace(a.Name))
	}

	if t, parseErr := time.Parse(time.RFC3339, entry.Published); parseErr == nil {
		paper.Published = t
	}
	return nil
}

// WriteMetadata writes the paper record as YAML into its working directory.
func WriteMetadata(paper *types.Paper, workDir string) error {
	data, err := yaml.Marshal(paper)
	if err != nil {
		return fmt.Errorf("marshaling metadata: %w", err)
	}
	return os.WriteFile(filepath.Join(workDir, metadataFile), data, 0o644)
}
