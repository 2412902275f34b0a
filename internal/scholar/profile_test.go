// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package scholar

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// profileRow builds one publication row of a researcher profile page.
// citesHref is the cited-by anchor href, or "" for a paper with no
// recorded citations.
func profileRow(title, citesHref string) string {
	var b strings.Builder
	b.WriteString(`<tr class="gsc_a_tr">`)
	fmt.Fprintf(&b, `<td class="gsc_a_t"><a class="gsc_a_at" href="/citations?view_op=view_citation">%s</a></td>`, title)
	if citesHref != "" {
		fmt.Fprintf(&b, `<td class="gsc_a_c"><a class="gsc_a_ac" href="%s">12</a></td>`, citesHref)
	} else {
		b.WriteString(`<td class="gsc_a_c"></td>`)
	}
	b.WriteString(`</tr>`)
	return b.String()
}

func profilePage(rows ...string) string {
	return `<html><body><table id="gsc_a_t"><tbody>` + strings.Join(rows, "") + `</tbody></table></body></html>`
}

func TestProfileURL(t *testing.T) {
	u := ProfileURL("AbC123")
	assert.Contains(t, u, BaseURL+"/citations?")
	assert.Contains(t, u, "user=AbC123")
	assert.Contains(t, u, "pagesize=100")
}

func TestParseProfile_ExtractsPublicationsInOrder(t *testing.T) {
	page := profilePage(
		profileRow("First Paper", "/scholar?cites=11111&hl=en&oi=sra"),
		profileRow("Second Paper", ""),
		profileRow("Third Paper", "/scholar?cites=33333"),
	)

	pubs, err := ParseProfile(page)
	require.NoError(t, err)
	require.Len(t, pubs, 3)

	assert.Equal(t, "First Paper", pubs[0].Title)
	assert.Contains(t, pubs[0].CitedByURL, BaseURL+"/scholar?")
	assert.Contains(t, pubs[0].CitedByURL, "cites=11111")
	assert.Contains(t, pubs[0].CitedByURL, "sciodt=")

	assert.Equal(t, "Second Paper", pubs[1].Title)
	assert.Empty(t, pubs[1].CitedByURL, "paper without cited-by anchor has no feed URL")

	assert.Contains(t, pubs[2].CitedByURL, "cites=33333")
}

func TestParseProfile_AnchorWithoutClusterID(t *testing.T) {
	page := profilePage(profileRow("Odd Paper", "/scholar?hl=en"))
	pubs, err := ParseProfile(page)
	require.NoError(t, err)
	require.Len(t, pubs, 1)
	assert.Empty(t, pubs[0].CitedByURL)
}

func TestParseProfile_MissingTitle(t *testing.T) {
	page := profilePage(`<tr class="gsc_a_tr"><td class="gsc_a_t"></td></tr>`)
	pubs, err := ParseProfile(page)
	require.NoError(t, err)
	require.Len(t, pubs, 1)
	assert.Equal(t, "Unknown Title", pubs[0].Title)
}

func TestParseProfile_EmptyPage(t *testing.T) {
	pubs, err := ParseProfile(`<html><body></body></html>`)
	require.NoError(t, err)
	assert.Empty(t, pubs)
}
