// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package scholar

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// resultBlock builds one citing-paper result block.
func resultBlock(title, href, byline, snippet string) string {
	var b strings.Builder
	b.WriteString(`<div class="gs_r gs_or gs_scl">`)
	b.WriteString(`<h3 class="gs_rt">`)
	if href != "" {
		fmt.Fprintf(&b, `<a href="%s">%s</a>`, href, title)
	} else {
		b.WriteString(title)
	}
	b.WriteString(`</h3>`)
	if byline != "" {
		fmt.Fprintf(&b, `<div class="gs_a">%s</div>`, byline)
	}
	if snippet != "" {
		fmt.Fprintf(&b, `<div class="gs_rs">%s</div>`, snippet)
	}
	b.WriteString(`</div>`)
	return b.String()
}

// resultsPage wraps blocks in a page, optionally with a pagination footer.
func resultsPage(footerLabels []string, blocks ...string) string {
	var b strings.Builder
	b.WriteString(`<html><body><div id="gs_ccl">`)
	for _, blk := range blocks {
		b.WriteString(blk)
	}
	b.WriteString(`</div>`)
	if len(footerLabels) > 0 {
		b.WriteString(`<div id="gs_n"><table><tr>`)
		for _, label := range footerLabels {
			fmt.Fprintf(&b, `<td><a href="/scholar?start=0">%s</a></td>`, label)
		}
		b.WriteString(`</tr></table></div>`)
	}
	b.WriteString(`</body></html>`)
	return b.String()
}

func TestExtractRecords_AllFields(t *testing.T) {
	page := resultsPage(nil, resultBlock(
		"Deep Learning for Citation Analysis",
		"https://example.org/paper1",
		"A Author, B Author - Journal of Testing, 2021 - example.org",
		"We study citation graphs in depth…",
	))

	records, err := ExtractRecords(page)
	require.NoError(t, err)
	require.Len(t, records, 1)

	rec := records[0]
	assert.Equal(t, "Deep Learning for Citation Analysis", rec.Title)
	assert.Equal(t, "https://example.org/paper1", rec.Link)
	assert.Equal(t, "A Author, B Author", rec.Authors)
	assert.Equal(t, "Journal of Testing, 2021", rec.Venue)
	assert.Equal(t, "2021", rec.Year)
	assert.Equal(t, "We study citation graphs in depth…", rec.Snippet)
	assert.Empty(t, rec.CitedPaper, "cited paper is filled in by the caller")
}

func TestExtractRecords_MissingFieldsDefaultEmpty(t *testing.T) {
	tests := []struct {
		name  string
		block string
		check func(t *testing.T, title, link, authors, venue, year string)
	}{
		{
			name:  "no anchor on title",
			block: resultBlock("Plain Title", "", "C Author - Venue", ""),
			check: func(t *testing.T, title, link, _, _, _ string) {
				assert.Equal(t, "Plain Title", title)
				assert.Empty(t, link)
			},
		},
		{
			name:  "byline without venue segment",
			block: resultBlock("T", "http://x", "Solo Author", ""),
			check: func(t *testing.T, _, _, authors, venue, _ string) {
				assert.Equal(t, "Solo Author", authors)
				assert.Empty(t, venue)
			},
		},
		{
			name:  "byline without year",
			block: resultBlock("T", "http://x", "D Author - Some Workshop", ""),
			check: func(t *testing.T, _, _, _, _, year string) {
				assert.Empty(t, year)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			records, err := ExtractRecords(resultsPage(nil, tt.block))
			require.NoError(t, err)
			require.Len(t, records, 1)
			rec := records[0]
			tt.check(t, rec.Title, rec.Link, rec.Authors, rec.Venue, rec.Year)
		})
	}
}

func TestExtractRecords_YearPattern(t *testing.T) {
	tests := []struct {
		byline string
		want   string
	}{
		{"A - Venue, 2021", "2021"},
		{"A - Venue, 1987", "1987"},
		{"A - Venue, 1899", ""},      // out of pattern range
		{"A - Venue vol 3000", ""},   // no 19xx/20xx
		{"A - Y, 1995, reprinted 2020", "1995"}, // leftmost match wins
	}
	for _, tt := range tests {
		records, err := ExtractRecords(resultsPage(nil, resultBlock("T", "", tt.byline, "")))
		require.NoError(t, err)
		require.Len(t, records, 1)
		assert.Equal(t, tt.want, records[0].Year, "byline %q", tt.byline)
	}
}

func TestExtractRecords_YearIsFourDigits(t *testing.T) {
	bylines := []string{
		"A - V, 2021", "B - W, 1942", "C - no year here", "D - 20215 looks like a zip",
	}
	var blocks []string
	for _, byline := range bylines {
		blocks = append(blocks, resultBlock("T", "", byline, ""))
	}
	records, err := ExtractRecords(resultsPage(nil, blocks...))
	require.NoError(t, err)
	for _, rec := range records {
		if rec.Year == "" {
			continue
		}
		assert.Len(t, rec.Year, 4)
		for _, c := range rec.Year {
			assert.True(t, c >= '0' && c <= '9')
		}
	}
}

func TestExtractRecords_MalformedBlockYieldsZeroRecord(t *testing.T) {
	page := resultsPage(nil,
		`<div class="gs_r gs_or gs_scl"></div>`,
		resultBlock("Good Paper", "http://x", "E Author - V, 2020", "snippet"),
	)

	records, err := ExtractRecords(page)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.True(t, records[0].IsZero(), "empty block must yield a zero record, not fail the page")
	assert.Equal(t, "Good Paper", records[1].Title)
}

func TestExtractRecords_EmptyPage(t *testing.T) {
	records, err := ExtractRecords(`<html><body><p>No results</p></body></html>`)
	require.NoError(t, err)
	assert.Empty(t, records)
}
