package models

type UpsertProfileRequest struct {
	ID        string  `json:"id"         validate:"required,uuid"`
	Email     *string `json:"email"      validate:"omitempty,email"`
	FullName  *string `json:"full_name"  validate:"omitempty,max=120"`
	Role      Role    `json:"role"       validate:"omitempty,role"`
	AvatarURL *string `json:"avatar_url" validate:"omitempty,url"`
}

type CreateBacklogItemRequest struct {
	Title              string        `json:"title"               validate:"required,max=200"`
	Description        *string       `json:"description"`
	UserStory          *string       `json:"user_story"`
	AcceptanceCriteria *string       `json:"acceptance_criteria"`
	Priority           Priority      `json:"priority"            validate:"omitempty,priority"`
	Status             BacklogStatus `json:"status"              validate:"omitempty,backlog_status"`
	BusinessValue      BusinessValue `json:"business_value"      validate:"omitempty,business_value"`
	StoryPoints        *int          `json:"story_points"        validate:"omitempty,min=0,max=100"`
	AssigneeID         *string       `json:"assignee_id"         validate:"omitempty,optional_uuid"`
}

// UpdateBacklogItemRequest carries a partial update; nil fields are left
// untouched. An empty assignee_id clears the assignee.
type UpdateBacklogItemRequest struct {
	ID                 string         `json:"id"                  validate:"required,uuid"`
	Title              *string        `json:"title"               validate:"omitempty,min=1,max=200"`
	Description        *string        `json:"description"`
	UserStory          *string        `json:"user_story"`
	AcceptanceCriteria *string        `json:"acceptance_criteria"`
	Priority           *Priority      `json:"priority"            validate:"omitempty,priority"`
	Status             *BacklogStatus `json:"status"              validate:"omitempty,backlog_status"`
	BusinessValue      *BusinessValue `json:"business_value"      validate:"omitempty,business_value"`
	StoryPoints        *int           `json:"story_points"        validate:"omitempty,min=0,max=100"`
	AssigneeID         *string        `json:"assignee_id"         validate:"omitempty,optional_uuid"`
}

// Fields lists the columns touched by the update, in column order.
func (r UpdateBacklogItemRequest) Fields() []string {
	var fields []string
	add := func(set bool, name string) {
		if set {
			fields = append(fields, name)
		}
	}
	add(r.Title != nil, "title")
	add(r.Description != nil, "description")
	add(r.UserStory != nil, "user_story")
	add(r.AcceptanceCriteria != nil, "acceptance_criteria")
	add(r.Priority != nil, "priority")
	add(r.Status != nil, "status")
	add(r.BusinessValue != nil, "business_value")
	add(r.StoryPoints != nil, "story_points")
	add(r.AssigneeID != nil, "assignee_id")
	return fields
}

type BulkBacklogStatusRequest struct {
	IDs    []string      `json:"ids"    validate:"required,min=1,unique,dive,uuid"`
	Status BacklogStatus `json:"status" validate:"required,backlog_status"`
}

type ReorderBacklogRequest struct {
	IDs []string `json:"ids" validate:"required,min=1,unique,dive,uuid"`
}

type MoveBacklogItemRequest struct {
	ActiveID string `json:"active_id" validate:"required,uuid"`
	OverID   string `json:"over_id"   validate:"required,uuid"`
}

type DeleteRequest struct {
	ID string `json:"id" validate:"required,uuid"`
}

type CreateBugRequest struct {
	Title              string    `json:"title"                validate:"required,max=200"`
	Description        string    `json:"description"          validate:"required"`
	Impact             Impact    `json:"impact"               validate:"omitempty,impact"`
	EffortPoints       *int      `json:"effort_points"        validate:"omitempty,min=0,max=100"`
	Status             BugStatus `json:"status"               validate:"omitempty,bug_status"`
	AssigneeID         *string   `json:"assignee_id"          validate:"omitempty,optional_uuid"`
	RelatedBacklogItem *string   `json:"related_backlog_item" validate:"omitempty,optional_uuid"`
}

type UpdateBugRequest struct {
	ID                 string     `json:"id"                   validate:"required,uuid"`
	Title              *string    `json:"title"                validate:"omitempty,min=1,max=200"`
	Description        *string    `json:"description"          validate:"omitempty,min=1"`
	Impact             *Impact    `json:"impact"               validate:"omitempty,impact"`
	EffortPoints       *int       `json:"effort_points"        validate:"omitempty,min=0,max=100"`
	Status             *BugStatus `json:"status"               validate:"omitempty,bug_status"`
	AssigneeID         *string    `json:"assignee_id"          validate:"omitempty,optional_uuid"`
	RelatedBacklogItem *string    `json:"related_backlog_item" validate:"omitempty,optional_uuid"`
}

func (r UpdateBugRequest) Fields() []string {
	var fields []string
	add := func(set bool, name string) {
		if set {
			fields = append(fields, name)
		}
	}
	add(r.Title != nil, "title")
	add(r.Description != nil, "description")
	add(r.Impact != nil, "impact")
	add(r.EffortPoints != nil, "effort_points")
	add(r.Status != nil, "status")
	add(r.AssigneeID != nil, "assignee_id")
	add(r.RelatedBacklogItem != nil, "related_backlog_item")
	return fields
}

type BulkBugStatusRequest struct {
	IDs    []string  `json:"ids"    validate:"required,min=1,unique,dive,uuid"`
	Status BugStatus `json:"status" validate:"required,bug_status"`
}

type UpdateKPIRequest struct {
	ID           string   `json:"id"            validate:"required,uuid"`
	Name         *string  `json:"name"          validate:"omitempty,min=1,max=120"`
	Description  *string  `json:"description"`
	Category     *string  `json:"category"      validate:"omitempty,max=60"`
	Unit         *string  `json:"unit"          validate:"omitempty,max=20"`
	CurrentValue *float64 `json:"current_value"`
	TargetValue  *float64 `json:"target_value"  validate:"omitempty,gte=0"`
}

func (r UpdateKPIRequest) Fields() []string {
	var fields []string
	add := func(set bool, name string) {
		if set {
			fields = append(fields, name)
		}
	}
	add(r.Name != nil, "name")
	add(r.Description != nil, "description")
	add(r.Category != nil, "category")
	add(r.Unit != nil, "unit")
	add(r.CurrentValue != nil, "current_value")
	add(r.TargetValue != nil, "target_value")
	return fields
}

// TrendRequest selects the window of a KPI trend query. From and To are
// YYYY-MM-DD dates and only used with the custom range.
type TrendRequest struct {
	Range string `validate:"required,oneof=7d 30d 90d custom"`
	From  string `validate:"required_if=Range custom"`
	To    string `validate:"required_if=Range custom"`
}
