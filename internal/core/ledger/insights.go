package ledger

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/SscSPs/customer_ledger/internal/core/domain"
)

// TimeWindow selects the stock records considered by Insights.
type TimeWindow string

const (
	WindowToday   TimeWindow = "today"
	WindowWeekly  TimeWindow = "weekly"
	WindowMonthly TimeWindow = "monthly"
	WindowAll     TimeWindow = "all"
)

// ParseTimeWindow accepts the window names plus "week", "month" and the empty string (all).
func ParseTimeWindow(s string) (TimeWindow, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "today", "day":
		return WindowToday, nil
	case "weekly", "week":
		return WindowWeekly, nil
	case "monthly", "month":
		return WindowMonthly, nil
	case "", "all":
		return WindowAll, nil
	}
	return "", fmt.Errorf("unknown time window %q", s)
}

// WindowBounds returns the half-open interval [start, end) of w containing now, in now's
// location. Weeks start on Monday. ok is false for WindowAll.
func WindowBounds(w TimeWindow, now time.Time) (start, end time.Time, ok bool) {
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	switch w {
	case WindowToday:
		return midnight, midnight.AddDate(0, 0, 1), true
	case WindowWeekly:
		sinceMonday := (int(midnight.Weekday()) + 6) % 7
		start = midnight.AddDate(0, 0, -sinceMonday)
		return start, start.AddDate(0, 0, 7), true
	case WindowMonthly:
		start = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
		return start, start.AddDate(0, 1, 0), true
	}
	return time.Time{}, time.Time{}, false
}

// InsightsQuery selects the records to aggregate. An empty Categories slice means all.
type InsightsQuery struct {
	Window     TimeWindow
	Categories []domain.QualityCategory
	Now        time.Time
}

type CategoryInsight struct {
	QualityCategory domain.QualityCategory
	Count           int
	Quantity        domain.Quantity
	Amount          domain.Money
}

// DailyInsight is one row per calendar day and category, dates in the query's location.
type DailyInsight struct {
	Date            string
	QualityCategory domain.QualityCategory
	Count           int
	Quantity        domain.Quantity
	Amount          domain.Money
}

type InsightsSummary struct {
	TotalPurchases int
	TotalAmount    domain.Money
	TotalQuantity  domain.Quantity
}

type InsightsResult struct {
	Window      TimeWindow
	Start       time.Time
	End         time.Time
	PerCategory []CategoryInsight
	Daily       []DailyInsight
	Summary     InsightsSummary
}

// Insights groups stock records by quality category inside the selected window.
// Payment records are ignored.
func Insights(records []domain.TransactionRecord, q InsightsQuery) InsightsResult {
	res := InsightsResult{Window: q.Window}
	if res.Window == "" {
		res.Window = WindowAll
	}
	start, end, bounded := WindowBounds(res.Window, q.Now)
	if bounded {
		res.Start, res.End = start, end
	}

	filter := make(map[domain.QualityCategory]bool, len(q.Categories))
	for _, c := range q.Categories {
		filter[c] = true
	}

	loc := q.Now.Location()
	perCategory := map[domain.QualityCategory]*CategoryInsight{}
	type dayKey struct {
		date     string
		category domain.QualityCategory
	}
	daily := map[dayKey]*DailyInsight{}

	for _, rec := range records {
		if rec.Kind != domain.KindStock || rec.Stock == nil {
			continue
		}
		if bounded && (rec.OccurredAt.Before(start) || !rec.OccurredAt.Before(end)) {
			continue
		}
		cat := rec.Stock.QualityCategory
		if len(filter) > 0 && !filter[cat] {
			continue
		}
		amount := rec.Stock.Amount()

		ci, ok := perCategory[cat]
		if !ok {
			ci = &CategoryInsight{QualityCategory: cat}
			perCategory[cat] = ci
		}
		ci.Count++
		ci.Quantity = ci.Quantity.Add(rec.Stock.Quantity)
		ci.Amount = ci.Amount.Add(amount)

		key := dayKey{date: rec.OccurredAt.In(loc).Format(time.DateOnly), category: cat}
		di, ok := daily[key]
		if !ok {
			di = &DailyInsight{Date: key.date, QualityCategory: cat}
			daily[key] = di
		}
		di.Count++
		di.Quantity = di.Quantity.Add(rec.Stock.Quantity)
		di.Amount = di.Amount.Add(amount)

		res.Summary.TotalPurchases++
		res.Summary.TotalQuantity = res.Summary.TotalQuantity.Add(rec.Stock.Quantity)
		res.Summary.TotalAmount = res.Summary.TotalAmount.Add(amount)
	}

	res.PerCategory = make([]CategoryInsight, 0, len(perCategory))
	for _, ci := range perCategory {
		res.PerCategory = append(res.PerCategory, *ci)
	}
	sort.Slice(res.PerCategory, func(i, j int) bool {
		return res.PerCategory[i].QualityCategory < res.PerCategory[j].QualityCategory
	})

	res.Daily = make([]DailyInsight, 0, len(daily))
	for _, di := range daily {
		res.Daily = append(res.Daily, *di)
	}
	sort.Slice(res.Daily, func(i, j int) bool {
		if res.Daily[i].Date != res.Daily[j].Date {
			return res.Daily[i].Date > res.Daily[j].Date
		}
		return res.Daily[i].QualityCategory < res.Daily[j].QualityCategory
	})
	return res
}
