package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/doe-tools/doe-scan/internal/run"
	"github.com/doe-tools/doe-scan/internal/scan"
)

var (
	searchFrom        string
	searchTo          string
	searchTerm        string
	searchSecondTerm  string
	searchExact       bool
	searchKeepAccents bool
	searchAnyTerm     bool
)

// searchCmd represents the search command
var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Search the gazette for one or two terms and show matches in context",
	Long: `Search scans every bulletin page in the date range line by line and
prints each occurrence with four lines of context above and eight
below, the matched term highlighted.

With two terms both must occur in the same block unless --any is
given. Accents are ignored unless --keep-accents is given.

Examples:
  doe-scan search --from 2024-01-02 --term licitação
  doe-scan search --from 02/01/2024 --to 05/01/2024 --term pregão --term2 contratação --any
  doe-scan search --from 2024-01-02 --term ata --exact`,
	RunE: runSearch,
}

func init() {
	rootCmd.AddCommand(searchCmd)

	searchCmd.Flags().StringVar(&searchFrom, "from", "", "start date (required)")
	searchCmd.Flags().StringVar(&searchTo, "to", "", "end date (default: same as --from)")
	searchCmd.Flags().StringVar(&searchTerm, "term", "", "main search term (required)")
	searchCmd.Flags().StringVar(&searchSecondTerm, "term2", "", "optional second term")
	searchCmd.Flags().BoolVar(&searchExact, "exact", false, "match whole words only")
	searchCmd.Flags().BoolVar(&searchKeepAccents, "keep-accents", false, "distinguish accented characters")
	searchCmd.Flags().BoolVar(&searchAnyTerm, "any", false, "match blocks containing any term instead of all")

	_ = searchCmd.MarkFlagRequired("from")
	_ = searchCmd.MarkFlagRequired("term")
}

func runSearch(cmd *cobra.Command, args []string) error {
	from, to, err := parseRange(searchFrom, searchTo)
	if err != nil {
		return err
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	var progress run.Progress = run.NopProgress{}
	if verbose {
		progress = run.WriterProgress{W: os.Stderr}
	}

	runner := run.NewRunner(cfg, progress)
	outcome, err := runner.Search(context.Background(), run.SearchJob{
		From:  from,
		To:    to,
		Terms: []string{searchTerm, searchSecondTerm},
		Options: scan.Options{
			ExactWord:   searchExact,
			FoldAccents: !searchKeepAccents,
			RequireAll:  !searchAnyTerm,
		},
	})
	if err != nil {
		return err
	}

	printMatches(outcome)
	return nil
}

func printMatches(outcome *run.SearchOutcome) {
	for _, m := range outcome.Matches {
		fmt.Printf("#%d | %s | pág %d\n", m.Occurrence, m.Identifier, m.Page)

		for i, line := range m.Highlighted {
			marker := "  "
			if m.StartLine+i == m.HitLine {
				marker = "> "
			}
			fmt.Printf("%s%s\n", marker, line)
		}

		fmt.Printf("PDF: %s\n\n", m.Link)
	}

	s := outcome.Summary
	if len(outcome.Matches) == 0 {
		fmt.Println("Nenhuma ocorrência encontrada.")
	} else {
		fmt.Printf("Encontradas %d ocorrências.\n", len(outcome.Matches))
	}
	fmt.Printf("%s\n", summaryLine(s))
}

func summaryLine(s run.Summary) string {
	return fmt.Sprintf("%d dias processados, %d páginas lidas, %s palavras",
		s.DatesProcessed, s.PagesRead, groupThousands(s.WordsRead))
}

// groupThousands renders a count with Brazilian digit grouping
func groupThousands(n int64) string {
	digits := fmt.Sprintf("%d", n)
	if len(digits) <= 3 {
		return digits
	}

	var parts []string
	for len(digits) > 3 {
		parts = append([]string{digits[len(digits)-3:]}, parts...)
		digits = digits[:len(digits)-3]
	}
	return digits + "." + strings.Join(parts, ".")
}
