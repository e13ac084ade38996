package run

import (
	"sort"
	"time"

	"github.com/doe-tools/doe-scan/internal/notice"
)

// SortKey selects the ordering of the record view
type SortKey string

const (
	SortByDate         SortKey = "date"
	SortByValue        SortKey = "value"
	SortByIssuingBody  SortKey = "orgao"
	SortByCounterparty SortKey = "contratado"
)

// GroupKey selects the grouping column for value summaries
type GroupKey string

const (
	GroupIssuingBody  GroupKey = "orgao"
	GroupCounterparty GroupKey = "contratado"
)

// GroupTotal is one row of a grouped value summary
type GroupTotal struct {
	Key   string
	Total float64
	Count int
}

// MonthTotal is the accumulated value of one calendar month
type MonthTotal struct {
	Month time.Time // first day of the month
	Total float64
	Count int
}

// Aggregator owns the records accumulated during one run. Every view
// it exposes is derived from the stored list on demand, so views are
// always consistent with it. Not safe for concurrent use; each run
// instance owns its own Aggregator.
type Aggregator struct {
	records []notice.Record
	matches []MatchRecord
}

// NewAggregator creates an empty per-run accumulator
func NewAggregator() *Aggregator {
	return &Aggregator{}
}

// Add appends one notice record
func (a *Aggregator) Add(rec notice.Record) {
	a.records = append(a.records, rec)
}

// AddMatch appends one search match record
func (a *Aggregator) AddMatch(rec MatchRecord) {
	a.matches = append(a.matches, rec)
}

// Len returns the number of accumulated notice records
func (a *Aggregator) Len() int {
	return len(a.records)
}

// Records returns a snapshot copy of the accumulated notice records
func (a *Aggregator) Records() []notice.Record {
	out := make([]notice.Record, len(a.records))
	copy(out, a.records)
	return out
}

// Matches returns a snapshot copy of the accumulated search matches
func (a *Aggregator) Matches() []MatchRecord {
	out := make([]MatchRecord, len(a.matches))
	copy(out, a.matches)
	return out
}

// SortedRecords returns a copy of the records ordered by the given key:
// date ascending (ties broken by link), value descending, or issuing
// body / counterparty ascending.
func (a *Aggregator) SortedRecords(key SortKey) []notice.Record {
	out := a.Records()

	switch key {
	case SortByValue:
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].Value > out[j].Value
		})
	case SortByIssuingBody:
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].IssuingBody < out[j].IssuingBody
		})
	case SortByCounterparty:
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].Counterparty < out[j].Counterparty
		})
	default:
		sort.SliceStable(out, func(i, j int) bool {
			if !out[i].Date.Equal(out[j].Date) {
				return out[i].Date.Before(out[j].Date)
			}
			return out[i].Link < out[j].Link
		})
	}

	return out
}

// TotalValue sums the monetary value of all records
func (a *Aggregator) TotalValue() float64 {
	var total float64
	for _, rec := range a.records {
		total += rec.Value
	}
	return total
}

// TopByValue groups records carrying a nonzero value by the given key
// and returns the n largest groups by accumulated value.
func (a *Aggregator) TopByValue(by GroupKey, n int) []GroupTotal {
	totals := make(map[string]*GroupTotal)

	for _, rec := range a.records {
		if rec.Value <= 0 {
			continue
		}

		key := rec.IssuingBody
		if by == GroupCounterparty {
			key = rec.Counterparty
		}

		gt, ok := totals[key]
		if !ok {
			gt = &GroupTotal{Key: key}
			totals[key] = gt
		}
		gt.Total += rec.Value
		gt.Count++
	}

	out := make([]GroupTotal, 0, len(totals))
	for _, gt := range totals {
		out = append(out, *gt)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Total != out[j].Total {
			return out[i].Total > out[j].Total
		}
		return out[i].Key < out[j].Key
	})

	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out
}

// MonthlyTotals accumulates record values per calendar month, in
// chronological order.
func (a *Aggregator) MonthlyTotals() []MonthTotal {
	totals := make(map[time.Time]*MonthTotal)

	for _, rec := range a.records {
		month := time.Date(rec.Date.Year(), rec.Date.Month(), 1, 0, 0, 0, 0, time.UTC)

		mt, ok := totals[month]
		if !ok {
			mt = &MonthTotal{Month: month}
			totals[month] = mt
		}
		mt.Total += rec.Value
		mt.Count++
	}

	out := make([]MonthTotal, 0, len(totals))
	for _, mt := range totals {
		out = append(out, *mt)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Month.Before(out[j].Month)
	})

	return out
}
