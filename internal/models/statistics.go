package models

import "time"

type DashboardStats struct {
	ActiveStories        int `json:"active_stories"`
	TotalStoryPoints     int `json:"total_story_points"`
	CompletedStoryPoints int `json:"completed_story_points"`
	OpenBugs             int `json:"open_bugs"`
	CriticalOpenBugs     int `json:"critical_open_bugs"`
	TeamMembers          int `json:"team_members"`
	OnlineUsers          int `json:"online_users"`
}

type KPIOverview struct {
	TotalKPIs       int     `json:"total_kpis"`
	OnTarget        int     `json:"on_target"`
	BelowTarget     int     `json:"below_target"`
	AverageProgress float64 `json:"average_progress"`
}

type GoalState string

const (
	GoalOnTarget  GoalState = "on_target"
	GoalWarning   GoalState = "warning"
	GoalOffTarget GoalState = "off_target"
)

type GoalProgress struct {
	KPIID    string    `json:"kpi_id"`
	Name     string    `json:"name"`
	Current  float64   `json:"current"`
	Target   float64   `json:"target"`
	Progress float64   `json:"progress"`
	State    GoalState `json:"state"`
	Achieved bool      `json:"achieved"`
}

type CategoryStats struct {
	Category        string  `json:"category"`
	Count           int     `json:"count"`
	TotalValue      float64 `json:"total_value"`
	AverageProgress float64 `json:"average_progress"`
}

type TrendPoint struct {
	Date   string   `json:"date"`
	Value  float64  `json:"value"`
	Target *float64 `json:"target,omitempty"`
}

type KPITrend struct {
	KPIID string       `json:"kpi_id"`
	Data  []TrendPoint `json:"data"`
}

type TrendsResponse struct {
	From   string     `json:"from"`
	To     string     `json:"to"`
	Trends []KPITrend `json:"trends"`
}

// PendingUpdate is an optimistic write that has been applied to a cached
// collection but not yet confirmed by the database.
type PendingUpdate struct {
	ID        string    `json:"id"`
	Key       string    `json:"key"`
	EntityID  string    `json:"entity_id"`
	StartedAt time.Time `json:"started_at"`
}
