// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package scholar

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// resultBlockSelector matches one citing-paper result block.
const resultBlockSelector = "div.gs_r.gs_or.gs_scl"

// PageCount determines the total number of result pages from the first
// page of a cited-by feed. Zero result blocks means zero pages; results
// with no pagination footer means exactly one page; otherwise the count is
// the maximum digit-only label in the footer's links.
func PageCount(content string) (int, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(content))
	if err != nil {
		return 0, fmt.Errorf("parsing results page: %w", err)
	}

	if doc.Find(resultBlockSelector).Length() == 0 {
		return 0, nil
	}

	max := 0
	doc.Find("div#gs_n a").Each(func(_ int, link *goquery.Selection) {
		label := strings.TrimSpace(link.Text())
		if n, err := strconv.Atoi(label); err == nil && n > max {
			max = n
		}
	})
	if max == 0 {
		return 1, nil
	}
	return max, nil
}

// PageURL appends the result offset for pageIndex to a cited-by feed URL.
// The offset is pageIndex*pageSize; pageSize must track the service's
// fixed results-per-page.
func PageURL(feedURL string, pageIndex, pageSize int) string {
	return fmt.Sprintf("%s&start=%d", feedURL, pageIndex*pageSize)
}
