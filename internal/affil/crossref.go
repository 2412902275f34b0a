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

// crossrefAPIBase is the CrossRef works search endpoint. Declared as a
// var so tests can substitute an httptest server.
var crossrefAPIBase = "https://api.crossref.org/works"

// CrossRefClient queries CrossRef by title. It is the primary source of
// the fallback chain.
type CrossRefClient struct {
	Client    *http.Client
	UserAgent string
	// MailTo is sent as mailto parameter for polite pool access.
	MailTo string
}

// BestMatch returns the single best title match, or nil when CrossRef has
// no candidate.
func (c *CrossRefClient) BestMatch(ctx context.Context, title string) (*Work, error) {
	params := url.Values{
		"query.title": {title},
		"select":      {"author,title,DOI,publisher"},
		"rows":        {"1"},
	}
	if c.MailTo != "" {
		params.Set("mailto", c.MailTo)
	}
	reqURL := crossrefAPIBase + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", c.UserAgent)

	resp, err := c.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("CrossRef API request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("CrossRef API returned HTTP %d", resp.StatusCode)
	}

	var cr crossrefResponse
	if err := json.NewDecoder(resp.Body).Decode(&cr); err != nil {
		return nil, fmt.Errorf("parsing CrossRef response: %w", err)
	}
	if len(cr.Message.Items) == 0 {
		return nil, nil
	}

	item := cr.Message.Items[0]
	work := &Work{DOI: item.DOI}
	for _, a := range item.Author {
		author := WorkAuthor{Name: strings.TrimSpace(a.Given + " " + a.Family)}
		for _, aff := range a.Affiliation {
			if aff.Name != "" {
				author.Affiliations = append(author.Affiliations, aff.Name)
			}
		}
		work.Authors = append(work.Authors, author)
	}
	return work, nil
}

// CrossRef API JSON structures.
type crossrefResponse struct {
	Message crossrefMessage `json:"message"`
}

type crossrefMessage struct {
	Items []crossrefWork `json:"items"`
}

type crossrefWork struct {
	Title     []string         `json:"title"`
	DOI       string           `json:"DOI"`
	Publisher string           `json:"publisher"`
	Author    []crossrefAuthor `json:"author"`
}

type crossrefAuthor struct {
	Given       string                `json:"given"`
	Family      string                `json:"family"`
	Affiliation []crossrefAffiliation `json:"affiliation"`
}

type crossrefAffiliation struct {
	Name string `json:"name"`
}
