// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines the data model and configuration shared across stages.
package types

// PublicationRef is one of the researcher's own papers, taken from the
// profile listing. CitedByURL is empty when the paper has no recorded
// citations (no cited-by anchor on the profile row).
type PublicationRef struct {
	Title     string
	CitedByURL string
}

// CitationRecord is one paper that cites a PublicationRef. Records are
// immutable once extracted; duplicates across result pages are possible
// and not collapsed.
type CitationRecord struct {
	Title      string
	Authors    string
	Venue      string
	Year       string // empty, or exactly four ASCII digits
	Link       string
	Snippet    string
	CitedPaper string
}

// IsZero reports whether every field of the record is empty. The extractor
// produces a zero record for a malformed result block; callers discard these.
func (r CitationRecord) IsZero() bool {
	return r.Title == "" && r.Authors == "" && r.Venue == "" &&
		r.Year == "" && r.Link == "" && r.Snippet == "" && r.CitedPaper == ""
}

// NotFound is the sentinel written for an absent affiliation or DOI.
const NotFound = "Not found"

// AffiliationRecord is one (paper, author) pair with its resolved
// affiliations. Affiliations holds the "; "-joined institution strings, or
// NotFound when every source came up empty. DOI is NotFound when the
// primary source returned no document identifier.
type AffiliationRecord struct {
	PaperTitle   string
	Author       string
	Affiliations string
	DOI          string
}
