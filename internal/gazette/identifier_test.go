package gazette

import (
	"testing"
	"time"
)

func TestIdentifierNaming(t *testing.T) {
	date := time.Date(2024, time.January, 2, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		id       Identifier
		fileName string
		url      string
	}{
		{
			name:     "first part",
			id:       Identifier{Date: date, Part: 1},
			fileName: "do20240102p01.pdf",
			url:      "http://imagens.seplag.ce.gov.br/PDF/20240102/do20240102p01.pdf",
		},
		{
			name:     "two digit part",
			id:       Identifier{Date: date, Part: 10},
			fileName: "do20240102p10.pdf",
			url:      "http://imagens.seplag.ce.gov.br/PDF/20240102/do20240102p10.pdf",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.id.FileName(); got != tt.fileName {
				t.Errorf("expected file name %s but got %s", tt.fileName, got)
			}
			if got := tt.id.URL("http://imagens.seplag.ce.gov.br"); got != tt.url {
				t.Errorf("expected URL %s but got %s", tt.url, got)
			}
		})
	}
}

func TestIdentifierPageLink(t *testing.T) {
	id := Identifier{Date: time.Date(2024, time.March, 15, 0, 0, 0, 0, time.UTC), Part: 2}

	link := id.PageLink("http://base", 7)
	expected := "http://base/PDF/20240315/do20240315p02.pdf#page=7"
	if link != expected {
		t.Errorf("expected %s but got %s", expected, link)
	}
}

func TestIdentifierString(t *testing.T) {
	id := Identifier{Date: time.Date(2024, time.December, 31, 0, 0, 0, 0, time.UTC), Part: 3}
	if got := id.String(); got != "31/12/2024 caderno 03" {
		t.Errorf("unexpected string form: %s", got)
	}
}
