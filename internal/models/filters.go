package models

import "strings"

// Sentinels accepted by the assignee filter.
const (
	FilterAll        = "all"
	FilterUnassigned = "unassigned"
)

type BacklogFilter struct {
	Status   string
	Priority string
	Assignee string
	Search   string
}

type BugFilter struct {
	Status   string
	Impact   string
	Assignee string
	Search   string
}

// FilterValue normalizes a filter parameter: empty and "all" both mean no filter.
func FilterValue(v string) string {
	v = strings.TrimSpace(v)
	if strings.EqualFold(v, FilterAll) {
		return ""
	}
	return v
}

type SortDirection string

const (
	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
)

func (d SortDirection) Valid() bool {
	return d == SortAsc || d == SortDesc
}

type SortField string

const (
	SortByPriority     SortField = "priority"
	SortByTitle        SortField = "title"
	SortByStatus       SortField = "status"
	SortByAssignee     SortField = "assignee"
	SortByStoryPoints  SortField = "story_points"
	SortByCreatedAt    SortField = "created_at"
	SortByPosition     SortField = "position"
	SortByImpact       SortField = "impact"
	SortByEffortPoints SortField = "effort_points"
)

type Sort struct {
	Field     SortField
	Direction SortDirection
}

var (
	DefaultBacklogSort = Sort{Field: SortByPriority, Direction: SortAsc}
	DefaultBugSort     = Sort{Field: SortByCreatedAt, Direction: SortDesc}
)

func (s Sort) ValidForBacklog() bool {
	switch s.Field {
	case SortByPriority, SortByTitle, SortByStatus, SortByAssignee,
		SortByStoryPoints, SortByCreatedAt, SortByPosition:
		return s.Direction.Valid()
	}
	return false
}

func (s Sort) ValidForBugs() bool {
	switch s.Field {
	case SortByImpact, SortByTitle, SortByStatus, SortByAssignee,
		SortByEffortPoints, SortByCreatedAt:
		return s.Direction.Valid()
	}
	return false
}
