package attendance

import (
	"sort"
	"time"

	"github.com/spec-kit/attendance-service/internal/domain"
)

// Bucket is one aggregated total keyed by day (YYYY-MM-DD), week (date of
// its Monday) or month (YYYY-MM).
type Bucket struct {
	Key   string        `json:"key"`
	Total time.Duration `json:"total"`
}

// Report holds worked-duration totals reconstructed from a log. Weekly and
// monthly buckets are sums of the daily buckets, so the three levels and
// the grand total are mutually consistent by construction.
type Report struct {
	Daily     []Bucket      `json:"daily"`
	Weekly    []Bucket      `json:"weekly"`
	Monthly   []Bucket      `json:"monthly"`
	Total     time.Duration `json:"total"`
	Anomalies int           `json:"anomalies,omitempty"`
}

// Options controls aggregation.
type Options struct {
	ResetHour int
	// AsOf, when non-nil, credits a trailing open interval with
	// (asOf - openStart) on the current logical day instead of
	// dropping it. The effective start is clamped to the current
	// logical day's reset boundary if the interval opened earlier.
	AsOf *time.Time
}

// Summarize replays an ascending-by-timestamp log into per-day worked
// totals plus weekly, monthly and grand-total roll-ups.
//
// WorkStart and BreakEnd open an interval; WorkEnd and BreakStart close
// it, crediting the full duration to the logical day the interval
// started on. A WorkStart arriving while an interval is already open is
// the day-rollover anchor: it closes the running interval at its own
// timestamp and immediately reopens, so overnight work is attributed to
// the day it began on. A BreakEnd while open, or a close with nothing
// open, indicates a malformed log; such entries are skipped and counted
// in Report.Anomalies rather than silently dropped.
func Summarize(entries []domain.AttendanceEntry, opts Options) Report {
	daily := make(map[string]time.Duration)
	var openStart *time.Time
	anomalies := 0

	credit := func(start, end time.Time) {
		daily[DayKey(LogicalDayOf(start, opts.ResetHour))] += end.Sub(start)
	}

	for _, entry := range entries {
		ts := entry.RecordedAt
		switch entry.Kind {
		case domain.EntryWorkStart:
			if openStart != nil {
				credit(*openStart, ts)
			}
			openStart = &ts
		case domain.EntryBreakEnd:
			if openStart != nil {
				anomalies++
				continue
			}
			openStart = &ts
		case domain.EntryWorkEnd, domain.EntryBreakStart:
			if openStart == nil {
				anomalies++
				continue
			}
			credit(*openStart, ts)
			openStart = nil
		}
	}

	if openStart != nil && opts.AsOf != nil {
		start := *openStart
		now := *opts.AsOf
		if !SameLogicalDay(start, now, opts.ResetHour) {
			start = DayStart(LogicalDayOf(now, opts.ResetHour), opts.ResetHour)
		}
		if now.After(start) {
			credit(start, now)
		}
	}

	report := Report{Daily: sortedBuckets(daily), Anomalies: anomalies}

	weekly := make(map[string]time.Duration)
	monthly := make(map[string]time.Duration)
	for _, b := range report.Daily {
		day, _ := time.Parse("2006-01-02", b.Key)
		weekly[WeekKey(day)] += b.Total
		monthly[MonthKey(day)] += b.Total
		report.Total += b.Total
	}
	report.Weekly = sortedBuckets(weekly)
	report.Monthly = sortedBuckets(monthly)
	return report
}

func sortedBuckets(totals map[string]time.Duration) []Bucket {
	buckets := make([]Bucket, 0, len(totals))
	for key, total := range totals {
		buckets = append(buckets, Bucket{Key: key, Total: total})
	}
	sort.Slice(buckets, func(i, j int) bool { return buckets[i].Key < buckets[j].Key })
	return buckets
}
