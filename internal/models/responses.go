package models

type ProfileResponse struct {
	Profile Profile `json:"profile"`
}

type ProfilesResponse struct {
	Profiles []Profile `json:"profiles"`
}

type BacklogItemResponse struct {
	Item BacklogItem `json:"item"`
}

type ListBacklogResponse struct {
	Items       []BacklogItem `json:"items"`
	Filtered    int           `json:"filtered"`
	Total       int           `json:"total"`
	StoryPoints int           `json:"story_points"`
}

type BugResponse struct {
	Bug Bug `json:"bug"`
}

type ListBugsResponse struct {
	Bugs     []Bug `json:"bugs"`
	Filtered int   `json:"filtered"`
	Total    int   `json:"total"`
}

type BulkUpdateResponse struct {
	Updated int `json:"updated"`
}

type ReorderResponse struct {
	IDs []string `json:"ids"`
}

type KPIResponse struct {
	KPI KPI `json:"kpi"`
}

type KPIsResponse struct {
	KPIs []KPI `json:"kpis"`
}

type PendingUpdatesResponse struct {
	Pending []PendingUpdate `json:"pending"`
}

type ActivitiesResponse struct {
	Activities []Activity `json:"activities"`
}

type PresenceResponse struct {
	Users []Presence `json:"users"`
}

type DeletedResponse struct {
	ID string `json:"id"`
}

type GoalsResponse struct {
	Goals []GoalProgress `json:"goals"`
}

type CategoriesResponse struct {
	Categories []CategoryStats `json:"categories"`
}

type HealthResponse struct {
	Status string `json:"status"`
}
