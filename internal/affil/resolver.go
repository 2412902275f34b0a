// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package affil enriches citing papers with author affiliations by querying
// a primary metadata source and falling back through secondary sources
// per author, checkpointing after every paper.
package affil

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"golang.org/x/time/rate"

	"github.com/floryhyy/scholar-citations/pkg/types"
)

// Work is the primary source's best match for a paper title.
type Work struct {
	DOI     string
	Authors []WorkAuthor
}

// WorkAuthor is one author as reported by the primary source, with any
// affiliation strings embedded directly in that response.
type WorkAuthor struct {
	Name         string
	Affiliations []string
}

// AuthorAffiliation is one (author, affiliation) pair reported by a
// fallback source for a document identifier.
type AuthorAffiliation struct {
	Author      string
	Affiliation string
}

// PrimarySource finds the single best work match for a title.
type PrimarySource interface {
	BestMatch(ctx context.Context, title string) (*Work, error)
}

// FallbackSource lists author affiliations for a document identifier.
type FallbackSource interface {
	AffiliationsByDOI(ctx context.Context, doi string) ([]AuthorAffiliation, error)
}

// Resolver runs the fallback chain: embedded primary affiliations first,
// then the secondary source, then the tertiary, per author.
type Resolver struct {
	Primary   PrimarySource
	Secondary FallbackSource
	Tertiary  FallbackSource
	Log       io.Writer

	// pace throttles consecutive papers. The metadata APIs tolerate a
	// steady rate, so a fixed limiter replaces the jittered pacing used
	// against the search surface.
	pace *rate.Limiter
}

// NewResolver wires the CrossRef/OpenAlex/Semantic Scholar chain onto a
// shared HTTP client.
func NewResolver(client *http.Client, cfg types.AffiliationConfig, log io.Writer) *Resolver {
	if log == nil {
		log = io.Discard
	}
	r := &Resolver{
		Primary:   &CrossRefClient{Client: client, UserAgent: cfg.UserAgent, MailTo: cfg.ContactEmail},
		Secondary: &OpenAlexClient{Client: client, UserAgent: cfg.UserAgent, MailTo: cfg.ContactEmail},
		Tertiary:  &SemanticScholarClient{Client: client, UserAgent: cfg.UserAgent, APIKey: cfg.SemanticScholarAPIKey},
		Log:       log,
	}
	if cfg.PaperDelay > 0 {
		r.pace = rate.NewLimiter(rate.Every(cfg.PaperDelay), 1)
	}
	return r
}

// CleanTitle strips the search surface's HTML-artifact marker and trims
// whitespace before the title is used as a query.
func CleanTitle(title string) string {
	return strings.TrimSpace(strings.ReplaceAll(title, "[HTML]", ""))
}

// CleanDOI normalizes a DOI for lookup.
func CleanDOI(doi string) string {
	return strings.ToLower(strings.TrimSpace(doi))
}

// NameMatch reports whether two author names refer to the same person:
// case-insensitive substring containment in either direction, so
// "J. Smith" matches "John Smith" when either lowercased form contains
// the other. Empty names never match.
func NameMatch(a, b string) bool {
	la := strings.ToLower(strings.TrimSpace(a))
	lb := strings.ToLower(strings.TrimSpace(b))
	if la == "" || lb == "" {
		return false
	}
	return strings.Contains(la, lb) || strings.Contains(lb, la)
}

// matchAffiliations collects the affiliations of pairs whose author name
// matches name.
func matchAffiliations(name string, pairs []AuthorAffiliation) []string {
	var affs []string
	for _, p := range pairs {
		if NameMatch(name, p.Author) {
			affs = append(affs, p.Affiliation)
		}
	}
	return affs
}

// Resolve returns one AffiliationRecord per author of the paper's best
// primary-source match. No match yields zero records, not an error. Each
// fallback source is queried at most once per paper; a source that fails
// is logged and treated as empty.
func (r *Resolver) Resolve(ctx context.Context, title string) ([]types.AffiliationRecord, error) {
	work, err := r.Primary.BestMatch(ctx, CleanTitle(title))
	if err != nil {
		return nil, fmt.Errorf("primary source for %q: %w", title, err)
	}
	if work == nil {
		return nil, nil
	}
	doi := CleanDOI(work.DOI)

	var secondary, tertiary []AuthorAffiliation
	var secondaryDone, tertiaryDone bool

	var records []types.AffiliationRecord
	for _, author := range work.Authors {
		affs := author.Affiliations

		if len(affs) == 0 && doi != "" {
			if !secondaryDone {
				secondaryDone = true
				secondary, err = r.Secondary.AffiliationsByDOI(ctx, doi)
				if err != nil {
					if ctx.Err() != nil {
						return nil, ctx.Err()
					}
					fmt.Fprintf(r.Log, "warning: secondary source failed for DOI %s: %v\n", doi, err)
					secondary = nil
				}
			}
			affs = matchAffiliations(author.Name, secondary)
		}

		if len(affs) == 0 && doi != "" {
			if !tertiaryDone {
				tertiaryDone = true
				tertiary, err = r.Tertiary.AffiliationsByDOI(ctx, doi)
				if err != nil {
					if ctx.Err() != nil {
						return nil, ctx.Err()
					}
					fmt.Fprintf(r.Log, "warning: tertiary source failed for DOI %s: %v\n", doi, err)
					tertiary = nil
				}
			}
			affs = matchAffiliations(author.Name, tertiary)
		}

		rec := types.AffiliationRecord{
			PaperTitle:   title,
			Author:       author.Name,
			Affiliations: types.NotFound,
			DOI:          types.NotFound,
		}
		if doi != "" {
			rec.DOI = doi
		}
		if len(affs) > 0 {
			rec.Affiliations = strings.Join(affs, "; ")
		}
		records = append(records, rec)
	}
	return records, nil
}
