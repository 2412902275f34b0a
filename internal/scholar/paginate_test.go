// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package scholar

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPageCount_NoResults(t *testing.T) {
	count, err := PageCount(`<html><body><div id="gs_ccl"></div></body></html>`)
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestPageCount_ResultsWithoutFooter(t *testing.T) {
	page := resultsPage(nil, resultBlock("T", "", "A - V, 2020", ""))
	count, err := PageCount(page)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestPageCount_MaxFooterLabel(t *testing.T) {
	page := resultsPage([]string{"1", "2", "5"}, resultBlock("T", "", "A - V, 2020", ""))
	count, err := PageCount(page)
	require.NoError(t, err)
	assert.Equal(t, 5, count)
}

func TestPageCount_IgnoresNonDigitLabels(t *testing.T) {
	page := resultsPage([]string{"1", "2", "3", "Next"}, resultBlock("T", "", "A - V, 2020", ""))
	count, err := PageCount(page)
	require.NoError(t, err)
	assert.Equal(t, 3, count)
}

func TestPageCount_FooterWithoutResultsIsZero(t *testing.T) {
	// The footer only counts when at least one result block exists.
	page := resultsPage([]string{"1", "2"})
	count, err := PageCount(page)
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestPageURL(t *testing.T) {
	feed := "https://scholar.example/scholar?cites=42&hl=en"
	assert.Equal(t, feed+"&start=10", PageURL(feed, 1, 10))
	assert.Equal(t, feed+"&start=30", PageURL(feed, 3, 10))
	assert.Equal(t, feed+"&start=40", PageURL(feed, 2, 20))
}
