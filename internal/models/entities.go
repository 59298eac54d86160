package models

import "time"

type Profile struct {
	ID        string    `json:"id"`
	Email     *string   `json:"email,omitempty"`
	FullName  *string   `json:"full_name,omitempty"`
	Role      Role      `json:"role"`
	AvatarURL *string   `json:"avatar_url,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ProfileSummary is the joined shape of a profile referenced by another row.
type ProfileSummary struct {
	ID        string  `json:"id"`
	FullName  *string `json:"full_name,omitempty"`
	Email     *string `json:"email,omitempty"`
	AvatarURL *string `json:"avatar_url,omitempty"`
}

// DisplayName returns the full name, falling back to the email.
func (p *ProfileSummary) DisplayName() string {
	if p == nil {
		return ""
	}
	if p.FullName != nil && *p.FullName != "" {
		return *p.FullName
	}
	if p.Email != nil {
		return *p.Email
	}
	return ""
}

type BacklogItem struct {
	ID                 string          `json:"id"`
	Title              string          `json:"title"`
	Description        *string         `json:"description,omitempty"`
	UserStory          *string         `json:"user_story,omitempty"`
	AcceptanceCriteria *string         `json:"acceptance_criteria,omitempty"`
	Priority           Priority        `json:"priority"`
	Status             BacklogStatus   `json:"status"`
	BusinessValue      BusinessValue   `json:"business_value"`
	StoryPoints        *int            `json:"story_points,omitempty"`
	AssigneeID         *string         `json:"assignee_id,omitempty"`
	CreatedBy          *string         `json:"created_by,omitempty"`
	Position           int             `json:"position"`
	CreatedAt          time.Time       `json:"created_at"`
	UpdatedAt          time.Time       `json:"updated_at"`
	Assignee           *ProfileSummary `json:"assignee,omitempty"`
	CreatedByProfile   *ProfileSummary `json:"created_by_profile,omitempty"`
}

type BacklogSummary struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

type BugSummary struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

type Bug struct {
	ID                 string          `json:"id"`
	Title              string          `json:"title"`
	Description        string          `json:"description"`
	Impact             Impact          `json:"impact"`
	EffortPoints       int             `json:"effort_points"`
	Status             BugStatus       `json:"status"`
	AssigneeID         *string         `json:"assignee_id,omitempty"`
	RelatedBacklogItem *string         `json:"related_backlog_item,omitempty"`
	CreatedBy          *string         `json:"created_by,omitempty"`
	CreatedAt          time.Time       `json:"created_at"`
	UpdatedAt          time.Time       `json:"updated_at"`
	Assignee           *ProfileSummary `json:"assignee,omitempty"`
	CreatedByProfile   *ProfileSummary `json:"created_by_profile,omitempty"`
	RelatedBacklog     *BacklogSummary `json:"related_backlog,omitempty"`
}

type KPI struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Description  *string   `json:"description,omitempty"`
	Category     *string   `json:"category,omitempty"`
	Unit         *string   `json:"unit,omitempty"`
	CurrentValue *float64  `json:"current_value,omitempty"`
	TargetValue  *float64  `json:"target_value,omitempty"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type KPIHistoryPoint struct {
	KPIID      string    `json:"kpi_id"`
	Value      float64   `json:"value"`
	Target     *float64  `json:"target,omitempty"`
	RecordedAt time.Time `json:"recorded_at"`
}

type Activity struct {
	ID          string          `json:"id"`
	UserID      string          `json:"user_id"`
	ActionType  ActionType      `json:"action_type"`
	EntityType  EntityType      `json:"entity_type"`
	EntityID    string          `json:"entity_id"`
	EntityTitle string          `json:"entity_title"`
	Details     *string         `json:"details,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	User        *ProfileSummary `json:"user,omitempty"`
}
