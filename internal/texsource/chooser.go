// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package texsource

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// ConsoleChooser prompts the operator to pick a candidate by index.
type ConsoleChooser struct {
	In  io.Reader
	Out io.Writer
}

// Choose prints the numbered candidate list and reads index replies until
// one parses and is in range. EOF on the input aborts the selection.
func (c *ConsoleChooser) Choose(candidates []string) (int, error) {
	fmt.Fprintln(c.Out, "Default .tex file not found. Available .tex files:")
	for i, f := range candidates {
		fmt.Fprintf(c.Out, "%d: %s\n", i, f)
	}

	scanner := bufio.NewScanner(c.In)
	for {
		fmt.Fprintf(c.Out, "Select a file by index: ")
		if !scanner.Scan() {
			if err := scanner.Err(); err != nil {
				return 0, err
			}
			return 0, io.EOF
		}
		idx, err := strconv.Atoi(strings.TrimSpace(scanner.Text()))
		if err != nil || idx < 0 || idx >= len(candidates) {
			fmt.Fprintf(c.Out, "invalid index, enter 0-%d\n", len(candidates)-1)
			continue
		}
		return idx, nil
	}
}
