// Package run drives a full scan over a date range and accumulates its
// results. Dates are processed strictly sequentially, and within a date
// parts are probed strictly sequentially; this is a politeness tradeoff
// against the gazette file server, not a performance concern.
package run

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/doe-tools/doe-scan/internal/config"
	"github.com/doe-tools/doe-scan/internal/gazette"
	"github.com/doe-tools/doe-scan/internal/notice"
	"github.com/doe-tools/doe-scan/internal/pdf"
	"github.com/doe-tools/doe-scan/internal/scan"
)

// DocumentFetcher retrieves raw document bytes for an identifier
type DocumentFetcher interface {
	Fetch(ctx context.Context, id gazette.Identifier) (*gazette.FetchResult, error)
}

// PageExtractor parses PDF bytes into per-page text
type PageExtractor interface {
	ExtractPages(data []byte, layout bool) ([]pdf.Page, error)
}

// DocumentValidator rejects bytes that are not a readable PDF
type DocumentValidator interface {
	Validate(data []byte) error
}

// MatchRecord is one highlighted search occurrence
type MatchRecord struct {
	Identifier  gazette.Identifier
	Page        int
	Occurrence  int // 1-based across the whole run
	StartLine   int
	HitLine     int // index within the page, not within Lines
	Lines       []string
	Highlighted []string
	Link        string
}

// SearchJob configures a term-search run
type SearchJob struct {
	From    time.Time
	To      time.Time
	Terms   []string
	Options scan.Options
}

// NoticeJob configures a structured-extraction run
type NoticeJob struct {
	From time.Time
	To   time.Time
}

// SearchOutcome is the result of a term-search run
type SearchOutcome struct {
	Matches []MatchRecord
	Summary Summary
}

// NoticeOutcome is the result of a structured-extraction run
type NoticeOutcome struct {
	Aggregator *Aggregator
	Summary    Summary
}

// Runner executes scan runs. Each Run* call owns an independent
// Summary and Aggregator; a Runner carries no per-run state itself.
type Runner struct {
	cfg       *config.Config
	fetcher   DocumentFetcher
	reader    PageExtractor
	validator DocumentValidator
	extractor *notice.Extractor
	progress  Progress
}

// NewRunner wires a Runner with the production fetcher and PDF stack
func NewRunner(cfg *config.Config, progress Progress) *Runner {
	if progress == nil {
		progress = NopProgress{}
	}
	return &Runner{
		cfg:       cfg,
		fetcher:   gazette.NewFetcher(cfg),
		reader:    pdf.NewReader(cfg.MaxFileSize),
		validator: pdf.NewValidator(cfg.MaxFileSize),
		extractor: notice.NewExtractor(),
		progress:  progress,
	}
}

// Search runs the simple highlight-search workflow over the date range
func (r *Runner) Search(ctx context.Context, job SearchJob) (*SearchOutcome, error) {
	matcher, err := scan.NewMatcher(job.Terms, job.Options)
	if err != nil {
		return nil, err
	}

	summary := NewSummary()
	agg := NewAggregator()

	walkErr := r.walk(ctx, job.From, job.To, r.cfg.LayoutText, &summary, func(id gazette.Identifier, pg pdf.Page) {
		lines := scan.Lines(pg.Text)

		for _, block := range scan.WindowedBlocks(lines, matcher.MatchAny) {
			if !matcher.Match(block.Text()) {
				continue
			}

			highlighted := make([]string, len(block.Lines))
			for i, line := range block.Lines {
				h := line
				for _, term := range matcher.Terms() {
					h = scan.Highlight(h, term, job.Options.FoldAccents)
				}
				highlighted[i] = h
			}

			summary.RecordsFound++
			agg.AddMatch(MatchRecord{
				Identifier:  id,
				Page:        pg.Number,
				Occurrence:  summary.RecordsFound,
				StartLine:   block.StartLine,
				HitLine:     block.HitLine,
				Lines:       block.Lines,
				Highlighted: highlighted,
				Link:        id.PageLink(r.cfg.BaseURL, pg.Number),
			})
		}
	})

	summary.Finished = time.Now()
	r.progress.Done(summary)

	return &SearchOutcome{Matches: agg.Matches(), Summary: summary}, walkErr
}

// ExtractNotices runs the structured contract-amendment extraction
// workflow over the date range. Layout-preserving extraction is always
// used here so that label alignment survives.
func (r *Runner) ExtractNotices(ctx context.Context, job NoticeJob) (*NoticeOutcome, error) {
	summary := NewSummary()
	agg := NewAggregator()

	walkErr := r.walk(ctx, job.From, job.To, true, &summary, func(id gazette.Identifier, pg pdf.Page) {
		link := id.PageLink(r.cfg.BaseURL, pg.Number)

		for _, block := range scan.DelimitedBlocks(pg.Text) {
			records := r.extractor.ExtractBlock(block, id.Date, link)
			summary.RecordsFound += len(records)
			for _, rec := range records {
				agg.Add(rec)
			}
		}
	})

	summary.Finished = time.Now()
	r.progress.Done(summary)

	return &NoticeOutcome{Aggregator: agg, Summary: summary}, walkErr
}

// walk iterates the date range and, per date, probes parts sequentially
// until the fetcher signals end of data or MaxParts is reached. Every
// readable page is handed to visit.
//
// Failure policy: a not-found part ends the date silently; any other
// fetch failure abandons the remainder of the date without retrying; a
// document that fetches but does not parse is skipped and probing
// continues with the next part.
func (r *Runner) walk(ctx context.Context, from, to time.Time, layout bool, summary *Summary, visit func(gazette.Identifier, pdf.Page)) error {
	if to.Before(from) {
		return fmt.Errorf("end date %s precedes start date %s",
			to.Format("02/01/2006"), from.Format("02/01/2006"))
	}

	for date := from; !date.After(to); date = date.AddDate(0, 0, 1) {
		if err := ctx.Err(); err != nil {
			return err
		}
		r.progress.Date(date)

		for part := 1; part <= r.cfg.MaxParts; part++ {
			id := gazette.Identifier{Date: date, Part: part}

			res, err := r.fetcher.Fetch(ctx, id)
			if err != nil {
				if errors.Is(err, gazette.ErrPartNotFound) {
					break
				}
				if ctx.Err() != nil {
					return ctx.Err()
				}
				r.progress.Error(id, err)
				break
			}
			r.progress.Part(id, res.Origin)

			if err := r.validator.Validate(res.Data); err != nil {
				r.progress.Error(id, err)
				continue
			}

			pages, err := r.reader.ExtractPages(res.Data, layout)
			if err != nil {
				r.progress.Error(id, err)
				continue
			}

			for _, pg := range pages {
				summary.PagesRead++
				summary.WordsRead += int64(len(strings.Fields(pg.Text)))
				visit(id, pg)
				r.progress.Page(id, pg.Number, len(pages), *summary)
			}
		}

		summary.DatesProcessed++
	}

	return nil
}
