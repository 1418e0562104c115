package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/shopquery-cli/internal/core/domain"
)

var (
	searchLimit int
	searchJSON  bool
	searchMode  string
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search the product catalogue",
	Long: `Performs hybrid search across the product catalogue.
Combines keyword (BM25) and semantic (ELSER) retrieval with reciprocal
rank fusion. Use --mode to run a single signal instead.`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "n", 10, "maximum number of results")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "output results as JSON")
	searchCmd.Flags().StringVar(&searchMode, "mode", "",
		"retrieval mode: lexical, semantic or hybrid (default from settings)")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	query := args[0]

	if searchService == nil {
		return errors.New("search service not configured: run 'shopquery settings elasticsearch'")
	}

	opts := domain.SearchOptions{
		Limit: searchLimit,
	}
	if searchMode != "" {
		mode := domain.SearchMode(searchMode)
		if !mode.IsValid() {
			return fmt.Errorf("%w: unknown mode %q (lexical, semantic, hybrid)",
				domain.ErrInvalidQuery, searchMode)
		}
		opts.Mode = mode
	}

	results, err := searchService.Search(cmd.Context(), query, opts)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if searchJSON {
		return outputSearchJSON(cmd, results)
	}

	return outputSearchTable(cmd, results)
}

func outputSearchJSON(cmd *cobra.Command, results []domain.SearchResult) error {
	data, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func outputSearchTable(cmd *cobra.Command, results []domain.SearchResult) error {
	if len(results) == 0 {
		cmd.Println("No results found.")
		return nil
	}

	cmd.Println("Results:")
	cmd.Println()
	for i := range results {
		product := &results[i].Product

		cmd.Printf("  [%d] %s - $%.2f (%.4f)\n", i+1, product.Name, product.Price, results[i].Score)
		if product.Category != "" {
			cmd.Printf("      Category: %s\n", product.Category)
		}
		if ranks := formatRanks(&results[i]); ranks != "" {
			cmd.Printf("      Ranked: %s\n", ranks)
		}
		if product.Reviews != nil {
			cmd.Printf("      Rating: %.1f/5 (%d reviews)\n",
				product.Reviews.Rating, product.Reviews.Count)
		}
		cmd.Println()
	}

	return nil
}

// formatRanks renders which signals placed the product and where.
func formatRanks(result *domain.SearchResult) string {
	var parts []string
	if result.LexicalRank > 0 {
		parts = append(parts, fmt.Sprintf("keyword #%d", result.LexicalRank))
	}
	if result.SemanticRank > 0 {
		parts = append(parts, fmt.Sprintf("semantic #%d", result.SemanticRank))
	}
	return strings.Join(parts, ", ")
}
