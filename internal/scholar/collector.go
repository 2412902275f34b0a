// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package scholar

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strconv"

	"github.com/floryhyy/scholar-citations/internal/httputil"
	"github.com/floryhyy/scholar-citations/pkg/types"
)

// PublicationStatus is the terminal state of one publication's traversal.
type PublicationStatus int

const (
	// StatusComplete means the traversal finished, possibly with zero
	// citations and possibly truncated by a mid-pagination fetch failure.
	StatusComplete PublicationStatus = iota
	// StatusAborted means the feed URL was unresolvable or the first page
	// fetch failed; the publication was skipped.
	StatusAborted
)

// PublicationOutcome reports how one publication's traversal ended.
type PublicationOutcome struct {
	Publication types.PublicationRef
	Status      PublicationStatus
	Records     []types.CitationRecord
	PagesTotal  int
	PagesRead   int
	Reason      string
}

// RunResult summarizes a full harvesting run.
type RunResult struct {
	Outcomes   []PublicationOutcome
	Records    []types.CitationRecord
	OutputPath string
}

// Collector drives the per-publication traversal: profile scan, cited-by
// pagination, extraction, aggregation, and the final CSV.
type Collector struct {
	fetcher *httputil.Fetcher
	cfg     types.ScholarConfig
	log     io.Writer

	// paced is set once a fetch succeeds so the mandatory jittered delay
	// runs between any two successful requests, independent of retry
	// backoff. Dropping this throttle gets the session blocked.
	paced bool
}

// NewCollector returns a Collector using the given fetch layer.
func NewCollector(fetcher *httputil.Fetcher, cfg types.ScholarConfig, log io.Writer) *Collector {
	if log == nil {
		log = io.Discard
	}
	return &Collector{fetcher: fetcher, cfg: cfg, log: log}
}

// fetch applies inter-request pacing, then fetches url.
func (c *Collector) fetch(ctx context.Context, url string) (string, error) {
	if c.paced {
		if err := c.fetcher.Pace(ctx); err != nil {
			return "", err
		}
	}
	content, err := c.fetcher.Fetch(ctx, url)
	if err == nil {
		c.paced = true
	}
	return content, err
}

// Run harvests every citation of every publication on the researcher's
// profile and writes the aggregate CSV. A publication that cannot be
// traversed is skipped, never fatal; only an unreachable profile aborts
// the run.
func (c *Collector) Run(ctx context.Context, scholarID string) (RunResult, error) {
	var result RunResult

	content, err := c.fetch(ctx, ProfileURL(scholarID))
	if err != nil {
		return result, fmt.Errorf("fetching profile for %s: %w", scholarID, err)
	}
	pubs, err := ParseProfile(content)
	if err != nil {
		return result, fmt.Errorf("profile for %s: %w", scholarID, err)
	}
	fmt.Fprintf(c.log, "Found %d papers to process\n", len(pubs))

	for i, pub := range pubs {
		fmt.Fprintf(c.log, "Processing paper %d/%d: %s\n", i+1, len(pubs), pub.Title)
		outcome := c.collectPublication(ctx, pub)
		if ctx.Err() != nil {
			return result, ctx.Err()
		}
		if outcome.Status == StatusAborted {
			fmt.Fprintf(c.log, "  skipped: %s\n", outcome.Reason)
		} else {
			fmt.Fprintf(c.log, "  found %d citations (%d/%d pages)\n",
				len(outcome.Records), outcome.PagesRead, outcome.PagesTotal)
		}
		result.Outcomes = append(result.Outcomes, outcome)
		result.Records = append(result.Records, outcome.Records...)
	}

	result.Records = FilterByYear(result.Records, c.cfg.MinYear)
	SortRecords(result.Records)

	path, err := WriteCitationsCSV(result.Records, OutputPath(c.cfg.OutputDir, scholarID))
	if err != nil {
		return result, err
	}
	result.OutputPath = path
	fmt.Fprintf(c.log, "Results saved to %s (%d citations)\n", path, len(result.Records))
	c.summarize(result)
	return result, nil
}

// collectPublication walks one publication's cited-by feed. A failed page
// fetch mid-traversal stops pagination early and keeps partial results; a
// failed first fetch aborts the publication.
func (c *Collector) collectPublication(ctx context.Context, pub types.PublicationRef) PublicationOutcome {
	outcome := PublicationOutcome{Publication: pub}

	if pub.CitedByURL == "" {
		outcome.Status = StatusAborted
		outcome.Reason = "no cited-by feed on profile row"
		return outcome
	}

	content, err := c.fetch(ctx, pub.CitedByURL)
	if err != nil {
		outcome.Status = StatusAborted
		outcome.Reason = fmt.Sprintf("first page fetch failed: %v", err)
		return outcome
	}

	total, err := PageCount(content)
	if err != nil {
		outcome.Status = StatusAborted
		outcome.Reason = err.Error()
		return outcome
	}
	outcome.PagesTotal = total
	if total == 0 {
		return outcome
	}

	outcome.Records = c.extractPage(content, pub.Title)
	outcome.PagesRead = 1

	for page := 1; page < total; page++ {
		pageURL := PageURL(pub.CitedByURL, page, c.cfg.PageSize)
		content, err := c.fetch(ctx, pageURL)
		if err != nil {
			fmt.Fprintf(c.log, "  page %d/%d failed, keeping partial results: %v\n", page+1, total, err)
			break
		}
		outcome.Records = append(outcome.Records, c.extractPage(content, pub.Title)...)
		outcome.PagesRead++
	}
	return outcome
}

// extractPage extracts one page's records, tags them with the cited paper,
// and drops the zero records produced by malformed blocks.
func (c *Collector) extractPage(content, citedPaper string) []types.CitationRecord {
	records, err := ExtractRecords(content)
	if err != nil {
		fmt.Fprintf(c.log, "  unparseable page for %q: %v\n", citedPaper, err)
		return nil
	}
	kept := records[:0]
	for _, rec := range records {
		if rec.IsZero() {
			fmt.Fprintf(c.log, "  malformed result block for %q, skipping\n", citedPaper)
			continue
		}
		rec.CitedPaper = citedPaper
		kept = append(kept, rec)
	}
	return kept
}

// FilterByYear drops records published before minYear. Records with an
// absent or non-numeric year are always kept; minYear <= 0 disables the
// filter.
func FilterByYear(records []types.CitationRecord, minYear int) []types.CitationRecord {
	if minYear <= 0 {
		return records
	}
	kept := records[:0]
	for _, rec := range records {
		year, err := strconv.Atoi(rec.Year)
		if rec.Year != "" && err == nil && year < minYear {
			continue
		}
		kept = append(kept, rec)
	}
	return kept
}

// SortRecords stable-sorts by year descending, missing year last, then
// title ascending. Four-digit year strings compare lexicographically the
// same as numerically.
func SortRecords(records []types.CitationRecord) {
	sort.SliceStable(records, func(i, j int) bool {
		yi, yj := records[i].Year, records[j].Year
		if yi != yj {
			if yi == "" {
				return false
			}
			if yj == "" {
				return true
			}
			return yi > yj
		}
		return records[i].Title < records[j].Title
	})
}

// summarize prints the per-cited-paper citation counts.
func (c *Collector) summarize(result RunResult) {
	counts := make(map[string]int)
	var order []string
	for _, rec := range result.Records {
		if _, seen := counts[rec.CitedPaper]; !seen {
			order = append(order, rec.CitedPaper)
		}
		counts[rec.CitedPaper]++
	}
	if len(order) == 0 {
		fmt.Fprintln(c.log, "No citations found")
		return
	}
	fmt.Fprintln(c.log, "Citations per paper:")
	for _, title := range order {
		fmt.Fprintf(c.log, "  %4d  %s\n", counts[title], title)
	}
}
