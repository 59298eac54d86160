package models

import "time"

type ChangeType string

const (
	ChangeInsert ChangeType = "INSERT"
	ChangeUpdate ChangeType = "UPDATE"
	ChangeDelete ChangeType = "DELETE"
)

// ChangeEvent is emitted by the database triggers for every row change
// on a watched table.
type ChangeEvent struct {
	Table string     `json:"table"`
	Type  ChangeType `json:"type"`
	ID    string     `json:"id"`
	At    time.Time  `json:"at"`
}

const (
	TableProfiles     = "profiles"
	TableBacklogItems = "backlog_items"
	TableBugs         = "bugs"
	TableKPIs         = "kpis"
	TableActivities   = "activities"
)

type Presence struct {
	UserID    string    `json:"user_id"`
	UserName  string    `json:"user_name"`
	AvatarURL string    `json:"avatar_url,omitempty"`
	OnlineAt  time.Time `json:"online_at"`
	Page      string    `json:"page"`
}
