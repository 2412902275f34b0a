// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package affil

import (
	"context"
	"fmt"

	"github.com/floryhyy/scholar-citations/pkg/types"
)

// ProcessResult summarizes an affiliation pass.
type ProcessResult struct {
	// Processed counts papers resolved and checkpointed this run.
	Processed int
	// Skipped counts papers whose resolution failed and were passed over.
	Skipped int
	// AuthorsResolved counts authors for whom an affiliation was found.
	AuthorsResolved int
	// Records is the full accumulated sequence, prior checkpoint included.
	Records []types.AffiliationRecord
}

// ProcessPapers resolves affiliations for titles[startIndex:], seeding
// from the existing checkpoint and rewriting it after every paper. The
// caller must keep the title list order stable between runs; resuming is
// just rerunning with the index of the first unprocessed paper. A paper
// whose resolution fails is logged and skipped without a checkpoint
// write; only an unusable checkpoint or start index is fatal.
func (r *Resolver) ProcessPapers(ctx context.Context, titles []string, startIndex int, store *Checkpoint) (ProcessResult, error) {
	var result ProcessResult

	if startIndex < 0 || startIndex >= len(titles) {
		return result, fmt.Errorf("start index %d out of range for %d papers", startIndex, len(titles))
	}

	records, err := store.Load()
	if err != nil {
		return result, err
	}
	if len(records) > 0 {
		fmt.Fprintf(r.Log, "Loaded %d existing results from %s\n", len(records), store.Path())
	}

	for i := startIndex; i < len(titles); i++ {
		if err := ctx.Err(); err != nil {
			result.Records = records
			return result, err
		}
		if r.pace != nil {
			if err := r.pace.Wait(ctx); err != nil {
				result.Records = records
				return result, err
			}
		}

		title := titles[i]
		fmt.Fprintf(r.Log, "Processing paper %d/%d: %s\n", i+1, len(titles), title)

		recs, err := r.Resolve(ctx, title)
		if err != nil {
			if ctx.Err() != nil {
				result.Records = records
				return result, ctx.Err()
			}
			fmt.Fprintf(r.Log, "  skipping paper %d (%s): %v\n", i+1, title, err)
			result.Skipped++
			continue
		}

		records = append(records, recs...)
		for _, rec := range recs {
			if rec.Affiliations != types.NotFound {
				result.AuthorsResolved++
			}
		}

		if err := store.Write(records); err != nil {
			result.Records = records
			return result, err
		}
		result.Processed++
	}

	result.Records = records
	fmt.Fprintf(r.Log, "Processed %d papers, found affiliations for %d authors\n",
		result.Processed, result.AuthorsResolved)
	return result, nil
}
