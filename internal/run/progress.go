package run

import (
	"fmt"
	"io"
	"time"

	"github.com/doe-tools/doe-scan/internal/gazette"
)

// Progress is the surface a presentation layer implements to render a
// run's advance live. The core calls it synchronously and never depends
// on what the implementation does with the events. Page carries a
// snapshot of the run counters taken after that page was processed, so
// an implementation can render live totals without waiting for Done.
type Progress interface {
	Date(date time.Time)
	Part(id gazette.Identifier, origin gazette.Origin)
	Page(id gazette.Identifier, page, total int, s Summary)
	Error(id gazette.Identifier, err error)
	Done(s Summary)
}

// NopProgress discards all progress events
type NopProgress struct{}

func (NopProgress) Date(time.Time)                              {}
func (NopProgress) Part(gazette.Identifier, gazette.Origin)      {}
func (NopProgress) Page(gazette.Identifier, int, int, Summary)   {}
func (NopProgress) Error(gazette.Identifier, error)              {}
func (NopProgress) Done(Summary)                                 {}

// WriterProgress reports progress as plain lines, suitable for stderr
type WriterProgress struct {
	W io.Writer
}

func (p WriterProgress) Date(date time.Time) {
	fmt.Fprintf(p.W, "pesquisando dia %s...\n", date.Format("02/01/2006"))
}

func (p WriterProgress) Part(id gazette.Identifier, origin gazette.Origin) {
	fmt.Fprintf(p.W, "  lendo %s (%s)\n", id.FileName(), origin)
}

func (p WriterProgress) Page(id gazette.Identifier, page, total int, s Summary) {
	if page == 1 || page == total {
		fmt.Fprintf(p.W, "    pág %d/%d | %d páginas, %d palavras, %d registros\n",
			page, total, s.PagesRead, s.WordsRead, s.RecordsFound)
	}
}

func (p WriterProgress) Error(id gazette.Identifier, err error) {
	fmt.Fprintf(p.W, "  %s: %v\n", id.FileName(), err)
}

func (p WriterProgress) Done(s Summary) {
	fmt.Fprintf(p.W, "concluído em %s: %d dias, %d páginas, %d palavras, %d registros\n",
		s.Duration().Round(time.Millisecond), s.DatesProcessed, s.PagesRead, s.WordsRead, s.RecordsFound)
}
