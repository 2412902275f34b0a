// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package affil

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

// openAlexAPIBase is the OpenAlex works endpoint. Declared as a var so
// tests can substitute an httptest server.
var openAlexAPIBase = "https://api.openalex.org/works"

// OpenAlexClient looks up author affiliations by DOI. It is the secondary
// source of the fallback chain.
type OpenAlexClient struct {
	Client    *http.Client
	UserAgent string
	// MailTo is sent as mailto parameter for polite pool access.
	MailTo string
}

// AffiliationsByDOI returns every (author, institution) pair OpenAlex
// reports for the work. Institution strings carry a city/region/country
// suffix when those fields are present.
func (c *OpenAlexClient) AffiliationsByDOI(ctx context.Context, doi string) ([]AuthorAffiliation, error) {
	reqURL := openAlexAPIBase + "/doi/" + doi
	if c.MailTo != "" {
		reqURL += "?" + url.Values{"mailto": {c.MailTo}}.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", c.UserAgent)

	resp, err := c.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("OpenAlex API request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("OpenAlex API returned HTTP %d", resp.StatusCode)
	}

	var work openAlexWork
	if err := json.NewDecoder(resp.Body).Decode(&work); err != nil {
		return nil, fmt.Errorf("parsing OpenAlex response: %w", err)
	}

	var pairs []AuthorAffiliation
	for _, authorship := range work.Authorships {
		name := authorship.Author.DisplayName
		if name == "" {
			continue
		}
		for _, inst := range authorship.Institutions {
			if inst.DisplayName == "" {
				continue
			}
			pairs = append(pairs, AuthorAffiliation{
				Author:      name,
				Affiliation: institutionString(inst),
			})
		}
	}
	return pairs, nil
}

// institutionString appends the institution's location when known.
func institutionString(inst openAlexInstitution) string {
	var location []string
	for _, part := range []string{inst.City, inst.Region, inst.Country} {
		if part != "" {
			location = append(location, part)
		}
	}
	if len(location) == 0 {
		return inst.DisplayName
	}
	return inst.DisplayName + ", " + strings.Join(location, ", ")
}

// OpenAlex API JSON structures.
type openAlexWork struct {
	ID          string               `json:"id"`
	DOI         string               `json:"doi"`
	Authorships []openAlexAuthorship `json:"authorships"`
}

type openAlexAuthorship struct {
	Author       openAlexAuthor        `json:"author"`
	Institutions []openAlexInstitution `json:"institutions"`
}

type openAlexAuthor struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
}

type openAlexInstitution struct {
	DisplayName string `json:"display_name"`
	City        string `json:"city"`
	Region      string `json:"region"`
	Country     string `json:"country"`
}
