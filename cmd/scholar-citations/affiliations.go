package main

import (
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/floryhyy/scholar-citations/internal/affil"
	"github.com/floryhyy/scholar-citations/internal/scholar"
)

var affiliationsCmd = &cobra.Command{
	Use:   "affiliations <citations.csv>",
	Short: "Resolve author affiliations for a citation table",
	Long: `Affiliations reads the title column of a citation CSV and resolves
each paper's authors against CrossRef, falling back to OpenAlex and then
Semantic Scholar per author. The output CSV is rewritten after every paper,
so an interrupted run resumes by passing --start-index with the first
unprocessed paper; the input file must not be reordered between runs.`,
	Args: cobra.ExactArgs(1),
	RunE: runAffiliations,
}

func init() {
	affiliationsCmd.Flags().String("output", "", "output CSV path (default: <input>_affiliations.csv)")
	affiliationsCmd.Flags().Int("start-index", 0, "index of the first paper to process (for resuming)")
	affiliationsCmd.Flags().Duration("timeout", 0, "HTTP request timeout (default 30s)")

	rootCmd.AddCommand(affiliationsCmd)
}

func runAffiliations(cmd *cobra.Command, args []string) error {
	input := args[0]
	titles, err := scholar.ReadTitles(input)
	if err != nil {
		return err
	}
	if len(titles) == 0 {
		return fmt.Errorf("%s contains no paper titles", input)
	}

	cfg := pipelineConfig().Affiliation
	if v, _ := cmd.Flags().GetDuration("timeout"); v > 0 {
		cfg.Timeout = v
	}
	output, _ := cmd.Flags().GetString("output")
	if output == "" {
		output = strings.TrimSuffix(input, ".csv") + "_affiliations.csv"
	}
	startIndex, _ := cmd.Flags().GetInt("start-index")

	client := &http.Client{Timeout: cfg.Timeout}
	resolver := affil.NewResolver(client, cfg, os.Stdout)
	store := affil.NewCheckpoint(output)

	result, err := resolver.ProcessPapers(cmd.Context(), titles, startIndex, store)
	if err != nil {
		return err
	}

	fmt.Printf("\nFinal summary:\n")
	fmt.Printf("  papers processed:          %d\n", result.Processed)
	fmt.Printf("  papers skipped:            %d\n", result.Skipped)
	fmt.Printf("  authors with affiliations: %d\n", result.AuthorsResolved)
	fmt.Printf("  total author records:      %d\n", len(result.Records))
	fmt.Printf("  results saved to:          %s\n", output)
	return nil
}
