// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package scholar harvests citation records for a researcher's publications
// from the Scholar search surface: profile scan, cited-by pagination,
// result-block extraction, and the traversal that ties them together.
package scholar

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/floryhyy/scholar-citations/pkg/types"
)

// BaseURL is the Scholar host. Declared as a var so tests can substitute
// an httptest server.
var BaseURL = "https://scholar.google.com"

// ProfileURL returns the researcher profile listing for scholarID.
func ProfileURL(scholarID string) string {
	params := url.Values{
		"user":     {scholarID},
		"hl":       {"en"},
		"pagesize": {"100"},
	}
	return BaseURL + "/citations?" + params.Encode()
}

// ParseProfile scans a profile page and returns the researcher's papers in
// listing order. Papers without a cited-by anchor (no recorded citations)
// are returned with an empty CitedByURL.
func ParseProfile(content string) ([]types.PublicationRef, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("parsing profile page: %w", err)
	}

	var pubs []types.PublicationRef
	doc.Find("tr.gsc_a_tr").Each(func(_ int, row *goquery.Selection) {
		title := strings.TrimSpace(row.Find("a.gsc_a_at").Text())
		if title == "" {
			title = "Unknown Title"
		}

		ref := types.PublicationRef{Title: title}
		if href, ok := row.Find("a.gsc_a_ac").Attr("href"); ok {
			if cluster := extractClusterID(href); cluster != "" {
				ref.CitedByURL = citedByURL(cluster)
			}
		}
		pubs = append(pubs, ref)
	})
	return pubs, nil
}

// extractClusterID pulls the cites cluster identifier out of a cited-by
// anchor href. Returns "" when the href has no cites parameter.
func extractClusterID(href string) string {
	u, err := url.Parse(href)
	if err != nil {
		return ""
	}
	return u.Query().Get("cites")
}

// citedByURL builds the feed URL listing all papers citing the cluster.
func citedByURL(clusterID string) string {
	params := url.Values{
		"cites":  {clusterID},
		"hl":     {"en"},
		"sciodt": {"0,5"},
	}
	return BaseURL + "/scholar?" + params.Encode()
}
