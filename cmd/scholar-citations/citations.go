package main

import (
	"net/http"
	"os"

	"github.com/spf13/cobra"

	"github.com/floryhyy/scholar-citations/internal/httputil"
	"github.com/floryhyy/scholar-citations/internal/scholar"
)

var citationsCmd = &cobra.Command{
	Use:   "citations <scholar-id>",
	Short: "Harvest all papers citing a researcher's publications",
	Long: `Citations scans the researcher's profile page, follows each
publication's cited-by feed through every result page, and writes the
aggregated citation table to a timestamped CSV. Requests are paced with a
randomized delay to stay under the search surface's rate tolerance; a
publication that cannot be traversed is skipped, not fatal.`,
	Args: cobra.ExactArgs(1),
	RunE: runCitations,
}

func init() {
	citationsCmd.Flags().Int("min-year", 0, "drop citing papers published before this year")
	citationsCmd.Flags().Duration("timeout", 0, "HTTP request timeout (default 30s)")
	citationsCmd.Flags().Int("max-attempts", 0, "fetch attempts per URL (default 3)")
	citationsCmd.Flags().Int("page-size", 0, "results per cited-by page (default 10)")
	citationsCmd.Flags().String("output-dir", "", "directory for the citation CSV (default .)")

	rootCmd.AddCommand(citationsCmd)
}

func runCitations(cmd *cobra.Command, args []string) error {
	cfg := pipelineConfig().Scholar
	if v, _ := cmd.Flags().GetInt("min-year"); v > 0 {
		cfg.MinYear = v
	}
	if v, _ := cmd.Flags().GetDuration("timeout"); v > 0 {
		cfg.Timeout = v
	}
	if v, _ := cmd.Flags().GetInt("max-attempts"); v > 0 {
		cfg.MaxAttempts = v
	}
	if v, _ := cmd.Flags().GetInt("page-size"); v > 0 {
		cfg.PageSize = v
	}
	if v, _ := cmd.Flags().GetString("output-dir"); v != "" {
		cfg.OutputDir = v
	}

	// One client for the whole run so connections are pooled.
	client := &http.Client{Timeout: cfg.Timeout}
	fetcher := httputil.New(client,
		httputil.WithMaxAttempts(cfg.MaxAttempts),
		httputil.WithLog(os.Stderr),
		httputil.WithHeader("User-Agent", cfg.UserAgent),
		httputil.WithHeader("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,image/webp,*/*;q=0.8"),
		httputil.WithHeader("Accept-Language", "en-US,en;q=0.5"),
	)

	collector := scholar.NewCollector(fetcher, cfg, os.Stdout)
	_, err := collector.Run(cmd.Context(), args[0])
	return err
}
