// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package affil

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
)

// semanticAPIBase is the Semantic Scholar paper endpoint. Declared as a
// var so tests can substitute an httptest server.
var semanticAPIBase = "https://api.semanticscholar.org/graph/v1/paper"

const semanticAffiliationFields = "authors.name,authors.affiliations"

// SemanticScholarClient looks up author affiliations by DOI. It is the
// tertiary source of the fallback chain.
type SemanticScholarClient struct {
	Client    *http.Client
	UserAgent string
	APIKey    string
}

// AffiliationsByDOI returns every (author, affiliation) pair Semantic
// Scholar reports for the work.
func (c *SemanticScholarClient) AffiliationsByDOI(ctx context.Context, doi string) ([]AuthorAffiliation, error) {
	params := url.Values{"fields": {semanticAffiliationFields}}
	reqURL := semanticAPIBase + "/DOI:" + doi + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", c.UserAgent)
	if c.APIKey != "" {
		req.Header.Set("x-api-key", c.APIKey)
	}

	resp, err := c.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("Semantic Scholar API request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("Semantic Scholar API returned HTTP %d", resp.StatusCode)
	}

	var paper semanticPaper
	if err := json.NewDecoder(resp.Body).Decode(&paper); err != nil {
		return nil, fmt.Errorf("parsing Semantic Scholar response: %w", err)
	}

	var pairs []AuthorAffiliation
	for _, author := range paper.Authors {
		if author.Name == "" {
			continue
		}
		for _, aff := range author.Affiliations {
			if aff == "" {
				continue
			}
			pairs = append(pairs, AuthorAffiliation{Author: author.Name, Affiliation: aff})
		}
	}
	return pairs, nil
}

// Semantic Scholar API JSON structures.
type semanticPaper struct {
	PaperID string           `json:"paperId"`
	Authors []semanticAuthor `json:"authors"`
}

type semanticAuthor struct {
	AuthorID     string   `json:"authorId"`
	Name         string   `json:"name"`
	Affiliations []string `json:"affiliations"`
}
