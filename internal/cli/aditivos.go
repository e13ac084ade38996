package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/doe-tools/doe-scan/internal/notice"
	"github.com/doe-tools/doe-scan/internal/run"
)

var (
	aditivosFrom string
	aditivosTo   string
	aditivosSort string
	aditivosCSV  string
	aditivosTop  int
)

// aditivosCmd represents the aditivos command
var aditivosCmd = &cobra.Command{
	Use:   "aditivos",
	Short: "Extract structured contract-amendment notices from the gazette",
	Long: `Aditivos scans every bulletin in the date range for "EXTRATO DE
ADITIVO" records and extracts the issuing body, counterparty, monetary
value, and subject of each one, classifying it as PRAZO, VALOR, a
combination, or Outros.

The table can be sorted, summarized per month and per top contracting
parties, and exported as a semicolon-separated CSV.

Examples:
  doe-scan aditivos --from 2024-01-02 --to 2024-01-31
  doe-scan aditivos --from 2024-01-02 --sort value --csv aditivos.csv
  doe-scan aditivos --from 2024-01-02 --sort orgao --top 5`,
	RunE: runAditivos,
}

func init() {
	rootCmd.AddCommand(aditivosCmd)

	aditivosCmd.Flags().StringVar(&aditivosFrom, "from", "", "start date (required)")
	aditivosCmd.Flags().StringVar(&aditivosTo, "to", "", "end date (default: same as --from)")
	aditivosCmd.Flags().StringVar(&aditivosSort, "sort", "date", "table order: date, value, orgao, contratado")
	aditivosCmd.Flags().StringVar(&aditivosCSV, "csv", "", "export the table to this CSV path")
	aditivosCmd.Flags().IntVar(&aditivosTop, "top", 5, "size of the top contracting-party summaries")

	_ = aditivosCmd.MarkFlagRequired("from")
}

func runAditivos(cmd *cobra.Command, args []string) error {
	from, to, err := parseRange(aditivosFrom, aditivosTo)
	if err != nil {
		return err
	}

	sortKey, err := parseSortKey(aditivosSort)
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
	outcome, err := runner.ExtractNotices(context.Background(), run.NoticeJob{From: from, To: to})
	if err != nil {
		return err
	}

	agg := outcome.Aggregator
	records := agg.SortedRecords(sortKey)

	fmt.Print(formatRecordTable(records))
	fmt.Printf("\nRegistros: %d | Valor total no período: %s\n", agg.Len(), run.FormatBRL(agg.TotalValue()))

	printSummaries(agg, aditivosTop)

	if aditivosCSV != "" {
		if err := exportCSV(aditivosCSV, records); err != nil {
			return err
		}
		fmt.Printf("\nTabela exportada para %s\n", aditivosCSV)
	}

	return nil
}

func parseSortKey(s string) (run.SortKey, error) {
	switch run.SortKey(s) {
	case run.SortByDate, run.SortByValue, run.SortByIssuingBody, run.SortByCounterparty:
		return run.SortKey(s), nil
	default:
		return "", fmt.Errorf("invalid sort key %q (use date, value, orgao, or contratado)", s)
	}
}

func formatRecordTable(records []notice.Record) string {
	var builder strings.Builder

	builder.WriteString(fmt.Sprintf("%-10s  %-25s  %-25s  %-14s  %15s  %s\n",
		"DATA", "ÓRGÃO", "CONTRATADO(A)", "TIPO", "VALOR", "OBJETO"))
	builder.WriteString(strings.Repeat("─", 120) + "\n")

	for _, rec := range records {
		builder.WriteString(fmt.Sprintf("%-10s  %-25s  %-25s  %-14s  %15s  %s\n",
			rec.Date.Format("02/01/2006"),
			run.TruncateLabel(rec.IssuingBody, 22),
			run.TruncateLabel(rec.Counterparty, 22),
			rec.Classification,
			run.FormatBRL(rec.Value),
			run.TruncateLabel(rec.Subject, 40)))
	}

	return builder.String()
}

func printSummaries(agg *run.Aggregator, top int) {
	if months := agg.MonthlyTotals(); len(months) > 1 {
		fmt.Println("\nTotal acumulado por mês:")
		for _, m := range months {
			fmt.Printf("  %s  %15s  (%d registros)\n", m.Month.Format("01/2006"), run.FormatBRL(m.Total), m.Count)
		}
	}

	if bodies := agg.TopByValue(run.GroupIssuingBody, top); len(bodies) > 0 {
		fmt.Printf("\nTop %d contratantes (órgãos):\n", top)
		for _, g := range bodies {
			fmt.Printf("  %-25s  %15s  (%d registros)\n", run.TruncateLabel(g.Key, 22), run.FormatBRL(g.Total), g.Count)
		}
	}

	if parties := agg.TopByValue(run.GroupCounterparty, top); len(parties) > 0 {
		fmt.Printf("\nTop %d contratados (empresas):\n", top)
		for _, g := range parties {
			fmt.Printf("  %-25s  %15s  (%d registros)\n", run.TruncateLabel(g.Key, 22), run.FormatBRL(g.Total), g.Count)
		}
	}
}

func exportCSV(path string, records []notice.Record) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	if err := run.WriteCSV(f, records); err != nil {
		return fmt.Errorf("export to %s: %w", path, err)
	}
	return nil
}
