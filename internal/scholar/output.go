// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package scholar

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/floryhyy/scholar-citations/pkg/types"
)

// citationHeader is the citation CSV column order.
var citationHeader = []string{"title", "authors", "venue", "year", "link", "snippet", "cited_paper"}

// OutputFilename returns the run's CSV filename. The timestamp makes each
// run's output distinct so no prior run is overwritten.
func OutputFilename(scholarID string, t time.Time) string {
	return fmt.Sprintf("scholar_citations_%s_%s.csv", scholarID, t.Format("20060102_150405"))
}

// OutputPath joins dir with a timestamped filename for scholarID.
func OutputPath(dir, scholarID string) string {
	return filepath.Join(dir, OutputFilename(scholarID, time.Now()))
}

// WriteCitationsCSV writes records to path through a temp file, renaming
// on success so a crash never leaves a half-written table.
func WriteCitationsCSV(records []types.CitationRecord, path string) (string, error) {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".citations-*.tmp")
	if err != nil {
		return "", fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmp.Name()

	w := csv.NewWriter(tmp)
	writeErr := w.Write(citationHeader)
	for _, rec := range records {
		if writeErr != nil {
			break
		}
		writeErr = w.Write([]string{
			rec.Title, rec.Authors, rec.Venue, rec.Year,
			rec.Link, rec.Snippet, rec.CitedPaper,
		})
	}
	w.Flush()
	if writeErr == nil {
		writeErr = w.Error()
	}
	closeErr := tmp.Close()
	if writeErr != nil {
		os.Remove(tmpPath)
		return "", fmt.Errorf("writing citations: %w", writeErr)
	}
	if closeErr != nil {
		os.Remove(tmpPath)
		return "", fmt.Errorf("closing temp file: %w", closeErr)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return "", fmt.Errorf("renaming temp file: %w", err)
	}
	return path, nil
}

// ReadTitles loads the title column from a previously written citation
// CSV. The affiliation pass consumes this as its input list.
func ReadTitles(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening input file: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("reading header of %s: %w", path, err)
	}
	titleCol := -1
	for i, name := range header {
		if name == "title" {
			titleCol = i
			break
		}
	}
	if titleCol < 0 {
		return nil, fmt.Errorf("%s has no title column", path)
	}

	var titles []string
	for {
		row, err := r.Read()
		if errors.Is(err, io.EOF) {
			return titles, nil
		}
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", path, err)
		}
		if titleCol < len(row) {
			titles = append(titles, row[titleCol])
		}
	}
}
