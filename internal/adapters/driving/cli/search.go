package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/throughnateseyes/playbook/internal/core/domain"
)

var (
	searchLimit int
	searchJSON  bool
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search SOPs and their sections",
	Long: `Searches SOP titles and the text of every section: overview, steps,
edge cases, escalation and contacts.

Matching is a case-insensitive substring test. SOPs whose title matches are
listed first, followed by at most 15 section matches.`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "n", 10, "maximum number of results")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "output results as JSON")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	query := args[0]

	if searchService == nil {
		return errors.New("search service not configured")
	}

	opts := domain.SearchOptions{
		Limit: searchLimit,
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
		entry := results[i].Entry

		// Format: [N] Title (id) or [N] Title › Section (id)
		if entry.IsDocument() {
			cmd.Printf("  [%d] %s (%s)\n", i+1, entry.DocumentTitle, entry.DocumentID)
			if entry.DocumentCategory != "" {
				cmd.Printf("      Category: %s\n", entry.DocumentCategory)
			}
		} else {
			cmd.Printf("  [%d] %s › %s (%s)\n", i+1, entry.DocumentTitle, entry.SectionLabel, entry.DocumentID)
			if results[i].Snippet != "" {
				cmd.Printf("      %s\n", markSegments(results[i].Segments))
			}
		}
		cmd.Println()
	}

	return nil
}

// markSegments renders matched runs as [[match]] for plain terminals.
func markSegments(segments []domain.Segment) string {
	var out []byte
	for _, seg := range segments {
		if seg.IsMatch {
			out = append(out, "[["...)
			out = append(out, seg.Text...)
			out = append(out, "]]"...)
			continue
		}
		out = append(out, seg.Text...)
	}
	return string(out)
}
