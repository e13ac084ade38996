package notice

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleBlock = `DIÁRIO OFICIAL DO ESTADO
EXTRATO DE ADITIVO AO CONTRATO Nº 123/2024
CONTRATANTE: SECRETARIA DA SAÚDE DO ESTADO
DE FORTALEZA
CONTRATADA: EMPRESA BRASILEIRA DE SERVIÇOS LTDA
OBJETO: PRORROGAÇÃO DE PRAZO POR 12 MESES
VALOR GLOBAL: R$ 1.234,56
VIGÊNCIA: 12 (DOZE) MESES
SECRETARIA DA FAZENDA
`

func TestExtractBlockFields(t *testing.T) {
	date := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	e := NewExtractor()

	records := e.ExtractBlock(sampleBlock, date, "http://x/do.pdf#page=1")
	require.Len(t, records, 1)

	rec := records[0]
	assert.Equal(t, date, rec.Date)
	assert.Equal(t, "SECRETARIA DA SAÚDE DO ESTADO DE FORTALEZA", rec.IssuingBody)
	assert.Equal(t, "EMPRESA BRASILEIRA DE SERVIÇOS LTDA", rec.Counterparty)
	assert.InDelta(t, 1234.56, rec.Value, 1e-9)
	assert.Equal(t, "PRORROGAÇÃO DE PRAZO POR 12 MESES", rec.Subject)
	assert.Equal(t, "PRAZO + VALOR", rec.Classification)
	assert.Equal(t, "http://x/do.pdf#page=1", rec.Link)
}

func TestExtractBlockMultipleRecords(t *testing.T) {
	block := `EXTRATO DE ADITIVO Nº 1
OBJETO: REAJUSTE DE VALOR
DATA: hoje
EXTRATO DO ADITIVO Nº 2
OBJETO: DILAÇÃO DE PRAZO
DATA: hoje
`
	e := NewExtractor()

	records := e.ExtractBlock(block, time.Now(), "")
	require.Len(t, records, 2)
	assert.Equal(t, "REAJUSTE DE VALOR", records[0].Subject)
	assert.Equal(t, "VALOR", records[0].Classification)
	assert.Equal(t, "DILAÇÃO DE PRAZO", records[1].Subject)
	assert.Equal(t, "PRAZO", records[1].Classification)
}

func TestExtractBlockMissingLabelsUseDefaults(t *testing.T) {
	block := "EXTRATO DE ADITIVO sem campos reconhecíveis\nmais texto solto\n"
	e := NewExtractor()

	records := e.ExtractBlock(block, time.Now(), "")
	require.Len(t, records, 1)

	rec := records[0]
	assert.Equal(t, UnidentifiedBody, rec.IssuingBody)
	assert.Empty(t, rec.Counterparty)
	assert.Empty(t, rec.Subject)
	assert.Zero(t, rec.Value)
	assert.Equal(t, "Outros", rec.Classification)
}

func TestExtractBlockStopsAtFollowingExtract(t *testing.T) {
	// A non-aditivo extract right after the record must terminate it:
	// its R$ amount belongs to the other notice, not to this one.
	block := `EXTRATO DE ADITIVO Nº 3
OBJETO: DILAÇÃO DE PRAZO CONTRATUAL
DATA: 02/01/2024
EXTRATO DE CONTRATO Nº 7
VALOR: R$ 999,99
`
	e := NewExtractor()

	records := e.ExtractBlock(block, time.Now(), "")
	require.Len(t, records, 1)

	rec := records[0]
	assert.Equal(t, "DILAÇÃO DE PRAZO CONTRATUAL", rec.Subject)
	assert.Zero(t, rec.Value, "the following extract's value must not be attributed here")
	assert.Equal(t, "PRAZO", rec.Classification)
}

func TestExtractBlockNoRecords(t *testing.T) {
	e := NewExtractor()
	assert.Empty(t, e.ExtractBlock("página sem extratos de aditivo aqui", time.Now(), ""))
}

func TestParseMoney(t *testing.T) {
	tests := []struct {
		input    string
		expected float64
	}{
		{"R$ 1.234,56", 1234.56},
		{"1.234,56", 1234.56},
		{"R$ 500,00", 500.0},
		{"R$ 2.000.000,00", 2000000.0},
		{"R$ abc", 0},
		{"", 0},
		{"R$ ,,,", 0},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.InDelta(t, tt.expected, ParseMoney(tt.input), 1e-9)
		})
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name     string
		subject  string
		value    float64
		expected string
	}{
		{"deadline keyword", "PRORROGAÇÃO DE PRAZO POR 12 MESES", 0, "PRAZO"},
		{"value keyword with amount", "REAJUSTE DE VALOR", 500.0, "VALOR"},
		{"nonzero value alone", "ALTERAÇÃO CONTRATUAL", 100.0, "VALOR"},
		{"neither", "ALTERAÇÃO DE RAZÃO SOCIAL", 0, "Outros"},
		{"both in fixed order", "PRORROGAÇÃO DE PRAZO E REAJUSTE", 0, "PRAZO + VALOR"},
		{"case insensitive", "prorrogação de vigência", 0, "PRAZO"},
		{"empty subject zero value", "", 0, "Outros"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Classify(tt.subject, tt.value))
		})
	}
}
