package types

import "time"

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout is the per-attempt HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests.
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// ScholarConfig holds settings for the citation harvesting stage.
type ScholarConfig struct {
	HTTPConfig `yaml:",inline"`

	// MaxAttempts is the fetch attempt budget per URL (default 3).
	MaxAttempts int `json:"max_attempts" yaml:"max_attempts"`

	// PageSize is the number of results per cited-by page. The page offset
	// parameter is computed as pageIndex*PageSize, so this must track the
	// service's fixed page size (currently 10).
	PageSize int `json:"page_size" yaml:"page_size"`

	// MinYear drops citing papers published before this year. Zero disables
	// the filter. Records without a parseable year are never dropped.
	MinYear int `json:"min_year" yaml:"min_year"`

	// OutputDir is the directory the citation CSV is written to.
	OutputDir string `json:"output_dir" yaml:"output_dir"`
}

// AffiliationConfig holds settings for the affiliation resolution stage.
type AffiliationConfig struct {
	HTTPConfig `yaml:",inline"`

	// PaperDelay is the fixed pacing between consecutive papers (default 1s).
	// The metadata APIs tolerate a steady rate, so this is a plain limiter
	// rather than the jittered pacing used against the search surface.
	PaperDelay time.Duration `json:"paper_delay" yaml:"paper_delay"`

	// SemanticScholarAPIKey is an optional API key for higher rate limits.
	SemanticScholarAPIKey string `json:"semantic_scholar_api_key,omitempty" yaml:"semantic_scholar_api_key,omitempty"`

	// ContactEmail is sent to the metadata APIs for polite-pool access.
	ContactEmail string `json:"contact_email,omitempty" yaml:"contact_email,omitempty"`
}

// PipelineConfig groups both stage configurations.
type PipelineConfig struct {
	Scholar     ScholarConfig     `json:"scholar" yaml:"scholar"`
	Affiliation AffiliationConfig `json:"affiliation" yaml:"affiliation"`
}

const (
	// defaultScholarUserAgent mirrors a desktop browser; the search surface
	// serves different markup to obvious bots.
	defaultScholarUserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/98.0.4758.102 Safari/537.36"

	defaultAPIUserAgent = "scholar-citations/0.1"
)

// DefaultScholarConfig returns the citation stage defaults.
func DefaultScholarConfig() ScholarConfig {
	return ScholarConfig{
		HTTPConfig: HTTPConfig{
			Timeout:   30 * time.Second,
			UserAgent: defaultScholarUserAgent,
		},
		MaxAttempts: 3,
		PageSize:    10,
		OutputDir:   ".",
	}
}

// DefaultAffiliationConfig returns the affiliation stage defaults.
func DefaultAffiliationConfig() AffiliationConfig {
	return AffiliationConfig{
		HTTPConfig: HTTPConfig{
			Timeout:   30 * time.Second,
			UserAgent: defaultAPIUserAgent,
		},
		PaperDelay: 1 * time.Second,
	}
}
