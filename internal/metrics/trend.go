package metrics

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/msp993/backlog-zenith-project/internal/models"
)

const (
	dateLayout     = "2006-01-02"
	maxCustomRange = 366
)

var rangeDays = map[string]int{
	"7d":  7,
	"30d": 30,
	"90d": 90,
}

// Window resolves a trend range to the first and last day it covers.
// Both are midnight UTC.
func Window(req models.TrendRequest, now time.Time) (time.Time, time.Time, error) {
	today := day(now)

	if days, ok := rangeDays[req.Range]; ok {
		return today.AddDate(0, 0, -(days - 1)), today, nil
	}

	if req.Range != "custom" {
		return time.Time{}, time.Time{}, fmt.Errorf("unknown range %q", req.Range)
	}

	from, err := time.Parse(dateLayout, req.From)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid from date: %w", err)
	}
	to, err := time.Parse(dateLayout, req.To)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid to date: %w", err)
	}
	if to.Before(from) {
		return time.Time{}, time.Time{}, errors.New("from date is after to date")
	}
	if to.Sub(from) > maxCustomRange*24*time.Hour {
		return time.Time{}, time.Time{}, fmt.Errorf("range exceeds %d days", maxCustomRange)
	}

	return from, to, nil
}

func day(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Trend builds one point per day between from and to. Each day carries the
// last value recorded before the day ended; days before the first recorded
// value are omitted.
func Trend(history []models.KPIHistoryPoint, from, to time.Time) []models.TrendPoint {
	points := append([]models.KPIHistoryPoint(nil), history...)
	sort.SliceStable(points, func(i, j int) bool {
		return points[i].RecordedAt.Before(points[j].RecordedAt)
	})

	var (
		out  []models.TrendPoint
		last *models.KPIHistoryPoint
		next int
	)
	for d := day(from); !d.After(day(to)); d = d.AddDate(0, 0, 1) {
		end := d.AddDate(0, 0, 1)
		for next < len(points) && points[next].RecordedAt.Before(end) {
			last = &points[next]
			next++
		}
		if last == nil {
			continue
		}
		out = append(out, models.TrendPoint{
			Date:   d.Format(dateLayout),
			Value:  last.Value,
			Target: last.Target,
		})
	}

	return out
}

// Trends groups history by KPI and builds a trend for every KPI in order.
func Trends(kpis []models.KPI, history []models.KPIHistoryPoint, from, to time.Time) []models.KPITrend {
	byKPI := make(map[string][]models.KPIHistoryPoint, len(kpis))
	for _, point := range history {
		byKPI[point.KPIID] = append(byKPI[point.KPIID], point)
	}

	trends := make([]models.KPITrend, 0, len(kpis))
	for _, kpi := range kpis {
		data := Trend(byKPI[kpi.ID], from, to)
		if data == nil {
			data = []models.TrendPoint{}
		}
		trends = append(trends, models.KPITrend{KPIID: kpi.ID, Data: data})
	}

	return trends
}

func FormatDate(t time.Time) string {
	return t.Format(dateLayout)
}
