// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package scholar

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/floryhyy/scholar-citations/pkg/types"
)

// yearPattern matches a publication year anywhere in the byline. Bounded
// to 19xx/20xx so page numbers and volume counts don't match.
var yearPattern = regexp.MustCompile(`20\d{2}|19\d{2}`)

// bylineSeparator splits the byline into authors and venue segments.
const bylineSeparator = " - "

// ExtractRecords parses one results page into citation records. CitedPaper
// is left empty for the caller to fill in. A malformed block yields a zero
// record rather than failing the page; callers discard those.
func ExtractRecords(content string) ([]types.CitationRecord, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("parsing results page: %w", err)
	}

	var records []types.CitationRecord
	doc.Find(resultBlockSelector).Each(func(_ int, block *goquery.Selection) {
		records = append(records, extractRecord(block))
	})
	return records, nil
}

// extractRecord pulls the structured fields out of a single result block.
// Every field defaults to empty when its element is absent.
func extractRecord(block *goquery.Selection) types.CitationRecord {
	var rec types.CitationRecord

	heading := block.Find("h3.gs_rt")
	rec.Title = strings.TrimSpace(heading.Text())
	rec.Link, _ = heading.Find("a").First().Attr("href")

	byline := strings.TrimSpace(block.Find("div.gs_a").Text())
	parts := strings.Split(byline, bylineSeparator)
	rec.Authors = parts[0]
	if len(parts) > 1 {
		rec.Venue = parts[1]
	}
	rec.Year = yearPattern.FindString(byline)

	rec.Snippet = strings.TrimSpace(block.Find("div.gs_rs").Text())
	return rec
}
