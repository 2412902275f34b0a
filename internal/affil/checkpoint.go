// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package affil

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/floryhyy/scholar-citations/pkg/types"
)

// affiliationHeader is the affiliation CSV column order.
var affiliationHeader = []string{"paper_title", "author", "affiliations", "doi"}

// Checkpoint persists the accumulated affiliation records. Write replaces
// the whole file (full-rewrite checkpoint, not a true append), so the
// on-disk record count always equals the number of fully processed
// (paper, author) pairs and a killed run loses at most the in-flight
// paper's work.
type Checkpoint struct {
	path string
}

// NewCheckpoint returns a Checkpoint backed by path.
func NewCheckpoint(path string) *Checkpoint {
	return &Checkpoint{path: path}
}

// Path returns the backing file path.
func (c *Checkpoint) Path() string { return c.path }

// Load reads previously checkpointed records. A missing file is an empty
// checkpoint, not an error.
func (c *Checkpoint) Load() ([]types.AffiliationRecord, error) {
	f, err := os.Open(c.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("opening checkpoint %s: %w", c.path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	if _, err := r.Read(); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading checkpoint header: %w", err)
	}

	var records []types.AffiliationRecord
	for {
		row, err := r.Read()
		if errors.Is(err, io.EOF) {
			return records, nil
		}
		if err != nil {
			return nil, fmt.Errorf("reading checkpoint %s: %w", c.path, err)
		}
		if len(row) < 4 {
			continue
		}
		records = append(records, types.AffiliationRecord{
			PaperTitle:   row[0],
			Author:       row[1],
			Affiliations: row[2],
			DOI:          row[3],
		})
	}
}

// Write replaces the checkpoint with the full record sequence, writing
// through a temp file and renaming on success.
func (c *Checkpoint) Write(records []types.AffiliationRecord) error {
	tmp, err := os.CreateTemp(filepath.Dir(c.path), ".checkpoint-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmp.Name()

	w := csv.NewWriter(tmp)
	writeErr := w.Write(affiliationHeader)
	for _, rec := range records {
		if writeErr != nil {
			break
		}
		writeErr = w.Write([]string{rec.PaperTitle, rec.Author, rec.Affiliations, rec.DOI})
	}
	w.Flush()
	if writeErr == nil {
		writeErr = w.Error()
	}
	closeErr := tmp.Close()
	if writeErr != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("writing checkpoint: %w", writeErr)
	}
	if closeErr != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("closing temp file: %w", closeErr)
	}

	if err := os.Rename(tmpPath, c.path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("renaming checkpoint: %w", err)
	}
	return nil
}
