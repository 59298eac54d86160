// Package metrics derives the KPI dashboard figures from stored KPI rows
// and their value history.
package metrics

import (
	"math"
	"sort"
	"strings"

	"github.com/msp993/backlog-zenith-project/internal/models"
)

const (
	onTargetRatio    = 0.9
	onTargetPercent  = 90
	offTargetPercent = 70
	defaultCategory  = "otros"
)

func value(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}

// divisor treats a missing or zero target as 1 so ratios stay finite.
func divisor(v *float64) float64 {
	if v == nil || *v == 0 {
		return 1
	}
	return *v
}

func Overview(kpis []models.KPI) models.KPIOverview {
	overview := models.KPIOverview{TotalKPIs: len(kpis)}
	if len(kpis) == 0 {
		return overview
	}

	var progress float64
	for _, kpi := range kpis {
		current := value(kpi.CurrentValue)
		target := value(kpi.TargetValue)
		if current >= target*onTargetRatio {
			overview.OnTarget++
		} else {
			overview.BelowTarget++
		}
		progress += current / divisor(kpi.TargetValue)
	}
	overview.AverageProgress = progress / float64(len(kpis))

	return overview
}

// Progress returns the completion percentage of a KPI, capped at 100.
// A missing or zero target counts as 1, the same as in Overview.
func Progress(kpi models.KPI) float64 {
	return math.Min(value(kpi.CurrentValue)/divisor(kpi.TargetValue)*100, 100)
}

func State(progress float64) models.GoalState {
	switch {
	case progress >= onTargetPercent:
		return models.GoalOnTarget
	case progress < offTargetPercent:
		return models.GoalOffTarget
	default:
		return models.GoalWarning
	}
}

func Goals(kpis []models.KPI) []models.GoalProgress {
	goals := make([]models.GoalProgress, 0, len(kpis))
	for _, kpi := range kpis {
		p := Progress(kpi)
		goals = append(goals, models.GoalProgress{
			KPIID:    kpi.ID,
			Name:     kpi.Name,
			Current:  value(kpi.CurrentValue),
			Target:   divisor(kpi.TargetValue),
			Progress: p,
			State:    State(p),
			Achieved: p >= 100,
		})
	}
	return goals
}

// CategoryOf returns the trimmed category, "otros" when it is empty.
func CategoryOf(kpi models.KPI) string {
	if kpi.Category == nil || strings.TrimSpace(*kpi.Category) == "" {
		return defaultCategory
	}
	return strings.TrimSpace(*kpi.Category)
}

// Categories groups KPIs by category. Average progress is a percentage.
func Categories(kpis []models.KPI) []models.CategoryStats {
	byName := make(map[string]*models.CategoryStats)
	for _, kpi := range kpis {
		name := CategoryOf(kpi)
		stats, ok := byName[name]
		if !ok {
			stats = &models.CategoryStats{Category: name}
			byName[name] = stats
		}
		stats.Count++
		stats.TotalValue += value(kpi.CurrentValue)
		stats.AverageProgress += value(kpi.CurrentValue) / divisor(kpi.TargetValue)
	}

	out := make([]models.CategoryStats, 0, len(byName))
	for _, stats := range byName {
		stats.AverageProgress = stats.AverageProgress / float64(stats.Count) * 100
		out = append(out, *stats)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Category < out[j].Category })

	return out
}
