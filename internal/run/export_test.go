package run

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doe-tools/doe-scan/internal/notice"
)

func TestCSVRoundTrip(t *testing.T) {
	records := []notice.Record{
		{
			Date:           time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC),
			IssuingBody:    "SECRETARIA DA SAÚDE",
			Counterparty:   "EMPRESA; COM PONTO E VÍRGULA LTDA",
			Value:          1234.56,
			Subject:        "PRORROGAÇÃO DE PRAZO\"com aspas\"",
			Classification: "PRAZO + VALOR",
			Link:           "http://x/do20240102p01.pdf#page=3",
		},
		{
			Date:           time.Date(2024, 2, 3, 0, 0, 0, 0, time.UTC),
			IssuingBody:    notice.UnidentifiedBody,
			Value:          0,
			Classification: "Outros",
		},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, records))

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "\uFEFF"), "export must carry a BOM")
	assert.Contains(t, out, "Data;Órgão;Contratado(a);Tipo;Valor;Objeto;Link")
	assert.Contains(t, out, "1234,56", "value column uses a decimal comma")

	parsed, err := ReadCSV(strings.NewReader(out))
	require.NoError(t, err)
	require.Len(t, parsed, len(records))

	for i := range records {
		assert.Equal(t, records[i].Date, parsed[i].Date)
		assert.Equal(t, records[i].IssuingBody, parsed[i].IssuingBody)
		assert.Equal(t, records[i].Counterparty, parsed[i].Counterparty)
		assert.Equal(t, records[i].Classification, parsed[i].Classification)
		assert.Equal(t, records[i].Subject, parsed[i].Subject)
		assert.Equal(t, records[i].Link, parsed[i].Link)
		assert.InDelta(t, records[i].Value, parsed[i].Value, 1e-9)
	}
}

func TestReadCSVWithoutBOM(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, []notice.Record{{
		Date:           time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC),
		Classification: "Outros",
	}}))

	// Strip the BOM; the reader must cope either way.
	stripped := strings.TrimPrefix(buf.String(), "\uFEFF")
	parsed, err := ReadCSV(strings.NewReader(stripped))
	require.NoError(t, err)
	assert.Len(t, parsed, 1)
}

func TestReadCSVRejectsForeignHeader(t *testing.T) {
	_, err := ReadCSV(strings.NewReader("a;b;c;d;e;f;g\n"))
	assert.Error(t, err)
}

func TestFormatBRL(t *testing.T) {
	tests := []struct {
		value    float64
		expected string
	}{
		{0, "R$ 0,00"},
		{12.5, "R$ 12,50"},
		{1234.56, "R$ 1.234,56"},
		{2000000, "R$ 2.000.000,00"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, FormatBRL(tt.value))
	}
}

func TestTruncateLabel(t *testing.T) {
	assert.Equal(t, "curto", TruncateLabel("curto", 20))
	assert.Equal(t, notice.UnidentifiedBody, TruncateLabel("", 20))

	long := "SECRETARIA DA INFRAESTRUTURA DO ESTADO"
	got := TruncateLabel(long, 20)
	assert.Equal(t, "SECRETARIA DA INFRAE...", got)

	// Rune-aware truncation must not split a multi-byte character.
	accented := "ÓRGÃO MUNICIPAL DE OBRAS E SERVIÇOS"
	truncated := TruncateLabel(accented, 10)
	assert.Equal(t, "ÓRGÃO MUNI...", truncated)
}
