package run

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/doe-tools/doe-scan/internal/notice"
)

const (
	csvSeparator  = ';'
	csvDateLayout = "02/01/2006"
)

var csvHeader = []string{"Data", "Órgão", "Contratado(a)", "Tipo", "Valor", "Objeto", "Link"}

// WriteCSV exports records as semicolon-separated UTF-8 text with a
// byte-order marker, one row per record in the given order. The value
// column uses a decimal comma so spreadsheet locales read it as a
// number.
func WriteCSV(w io.Writer, records []notice.Record) error {
	if _, err := io.WriteString(w, "\uFEFF"); err != nil {
		return fmt.Errorf("write BOM: %w", err)
	}

	cw := csv.NewWriter(w)
	cw.Comma = csvSeparator

	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for _, rec := range records {
		row := []string{
			rec.Date.Format(csvDateLayout),
			rec.IssuingBody,
			rec.Counterparty,
			rec.Classification,
			formatCSVValue(rec.Value),
			rec.Subject,
			rec.Link,
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write record: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// ReadCSV parses records previously written by WriteCSV
func ReadCSV(r io.Reader) ([]notice.Record, error) {
	br := bufio.NewReader(r)
	if first, _, err := br.ReadRune(); err == nil && first != '\uFEFF' {
		if err := br.UnreadRune(); err != nil {
			return nil, fmt.Errorf("unread first rune: %w", err)
		}
	}

	cr := csv.NewReader(br)
	cr.Comma = csvSeparator
	cr.FieldsPerRecord = len(csvHeader)

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	if header[0] != csvHeader[0] {
		return nil, fmt.Errorf("unexpected header column %q", header[0])
	}

	var records []notice.Record
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row: %w", err)
		}

		date, err := time.Parse(csvDateLayout, row[0])
		if err != nil {
			return nil, fmt.Errorf("parse date %q: %w", row[0], err)
		}

		value, err := strconv.ParseFloat(strings.ReplaceAll(row[4], ",", "."), 64)
		if err != nil {
			return nil, fmt.Errorf("parse value %q: %w", row[4], err)
		}

		records = append(records, notice.Record{
			Date:           date,
			IssuingBody:    row[1],
			Counterparty:   row[2],
			Classification: row[3],
			Value:          value,
			Subject:        row[5],
			Link:           row[6],
		})
	}

	return records, nil
}

// formatCSVValue renders a value with a decimal comma and no grouping
func formatCSVValue(v float64) string {
	return strings.ReplaceAll(strconv.FormatFloat(v, 'f', -1, 64), ".", ",")
}

// FormatBRL renders a value in Brazilian currency style: R$ 1.234,56
func FormatBRL(v float64) string {
	s := strconv.FormatFloat(v, 'f', 2, 64)

	parts := strings.SplitN(s, ".", 2)
	intPart, frac := parts[0], parts[1]

	var grouped strings.Builder
	for i, digit := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			grouped.WriteByte('.')
		}
		grouped.WriteRune(digit)
	}

	return "R$ " + grouped.String() + "," + frac
}

// TruncateLabel shortens long names for summary legends
func TruncateLabel(s string, max int) string {
	if s == "" {
		return notice.UnidentifiedBody
	}
	if len(s) <= max {
		return s
	}

	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "..."
}
