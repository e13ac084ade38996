package notice

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	// Start of one contract-amendment record within a block
	recordStartRe = regexp.MustCompile(`(?i)EXTRATO D[EO] ADITIVO`)

	// Structural markers that terminate a record before the next one.
	// EXTRATO also ends a record: a following non-aditivo extract must
	// not bleed its fields into this one.
	recordEndRe = regexp.MustCompile(`(?i)\n\s*(?:EXTRATO|SECRETARIA|PREFEITURA|ESTADO DO CEARÁ)|\*\*\*`)

	// Labeled field patterns; first match wins, matching spans lines and
	// stops at the next recognized label. Roman-numeral item markers
	// (I., II., ...) also terminate a field.
	issuingBodyRe  = regexp.MustCompile(`(?is)CONTRATANTE\s*[:\-.]\s*(.*?)(?:\n\s*[IVX]+|\n\s*CONTRATAD|\n\s*CNPJ|\n\s*OBJETO)`)
	counterpartyRe = regexp.MustCompile(`(?is)CONTRATAD[OA]\s*[:\-.]\s*(.*?)(?:\n\s*[IVX]+|\n\s*OBJETO|\n\s*FUNDAMENTAÇÃO|\n\s*CNPJ|\n\s*VIGÊNCIA)`)
	subjectRe      = regexp.MustCompile(`(?is)OBJETO\s*[:\-.]\s*(.*?)(?:\n\s*[IVX]+|\n\s*VALOR|\n\s*DOTAÇÃO|\n\s*VIGÊNCIA|\n\s*SIGNATÁRIOS|\n\s*DATA|\n\s*FUNDAMENTAÇÃO)`)
	valueRe        = regexp.MustCompile(`R\$\s*([\d.,]+)`)
)

// Extractor pulls structured records out of delimited gazette blocks
type Extractor struct{}

// NewExtractor creates a new notice extractor
func NewExtractor() *Extractor {
	return &Extractor{}
}

// ExtractBlock extracts every contract-amendment record found in one
// text block. date and link are carried onto each record. A labeled
// pattern that fails to match leaves the field at its default; it never
// discards the record.
func (e *Extractor) ExtractBlock(block string, date time.Time, link string) []Record {
	var records []Record

	for _, sub := range recordBlocks(block) {
		rec := Record{
			Date:        date,
			IssuingBody: UnidentifiedBody,
			Link:        link,
		}

		if m := issuingBodyRe.FindStringSubmatch(sub); m != nil {
			rec.IssuingBody = collapseSpace(m[1])
		}
		if m := counterpartyRe.FindStringSubmatch(sub); m != nil {
			rec.Counterparty = collapseSpace(m[1])
		}
		if m := valueRe.FindStringSubmatch(sub); m != nil {
			rec.Value = ParseMoney(m[1])
		}
		if m := subjectRe.FindStringSubmatch(sub); m != nil {
			rec.Subject = collapseSpace(m[1])
		}

		rec.Classification = Classify(rec.Subject, rec.Value)
		records = append(records, rec)
	}

	return records
}

// recordBlocks splits a block into record sub-blocks, each starting at
// a record marker and ending at the next marker, a structural
// terminator, or the end of the block.
func recordBlocks(block string) []string {
	starts := recordStartRe.FindAllStringIndex(block, -1)
	if starts == nil {
		return nil
	}

	subs := make([]string, 0, len(starts))
	for i, loc := range starts {
		end := len(block)
		if i+1 < len(starts) {
			end = starts[i+1][0]
		}

		sub := block[loc[0]:end]
		if m := recordEndRe.FindStringIndex(sub); m != nil {
			sub = sub[:m[0]]
		}
		subs = append(subs, sub)
	}

	return subs
}

// ParseMoney normalizes Brazilian currency text ("R$ 1.234,56") to a
// non-negative decimal. Unparsable input yields 0 rather than an error
// so a malformed amount never discards its record.
func ParseMoney(s string) float64 {
	s = strings.ToUpper(s)
	s = strings.ReplaceAll(s, "R$", "")
	s = strings.ReplaceAll(s, ".", "")
	s = strings.ReplaceAll(s, ",", ".")
	s = strings.TrimSpace(s)

	value, err := strconv.ParseFloat(s, 64)
	if err != nil || value < 0 {
		return 0
	}
	return value
}

// collapseSpace folds runs of whitespace, including line breaks from
// multi-line field values, into single spaces
func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
