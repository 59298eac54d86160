package models

type Priority string

const (
	PriorityP1 Priority = "P1"
	PriorityP2 Priority = "P2"
	PriorityP3 Priority = "P3"
	PriorityP4 Priority = "P4"
	PriorityP5 Priority = "P5"
	PriorityP6 Priority = "P6"
)

var priorityRank = map[Priority]int{
	PriorityP1: 1,
	PriorityP2: 2,
	PriorityP3: 3,
	PriorityP4: 4,
	PriorityP5: 5,
	PriorityP6: 6,
}

func (p Priority) Valid() bool {
	_, ok := priorityRank[p]
	return ok
}

// Rank orders priorities with P1 first. Unknown values sort last.
func (p Priority) Rank() int {
	if r, ok := priorityRank[p]; ok {
		return r
	}
	return len(priorityRank) + 1
}

type BacklogStatus string

const (
	BacklogPending    BacklogStatus = "pendiente"
	BacklogInProgress BacklogStatus = "en_proceso"
	BacklogQA         BacklogStatus = "qa"
	BacklogDone       BacklogStatus = "completado"
	BacklogPaused     BacklogStatus = "pausado"
)

func (s BacklogStatus) Valid() bool {
	switch s {
	case BacklogPending, BacklogInProgress, BacklogQA, BacklogDone, BacklogPaused:
		return true
	}
	return false
}

type BusinessValue string

const (
	ValueHigh   BusinessValue = "alto"
	ValueMedium BusinessValue = "medio"
	ValueLow    BusinessValue = "bajo"
)

func (v BusinessValue) Valid() bool {
	switch v {
	case ValueHigh, ValueMedium, ValueLow:
		return true
	}
	return false
}

type Impact string

const (
	ImpactHigh   Impact = "alto"
	ImpactMedium Impact = "medio"
	ImpactLow    Impact = "bajo"
)

var impactRank = map[Impact]int{
	ImpactHigh:   1,
	ImpactMedium: 2,
	ImpactLow:    3,
}

func (i Impact) Valid() bool {
	_, ok := impactRank[i]
	return ok
}

// Rank orders impacts with alto first. Unknown values sort last.
func (i Impact) Rank() int {
	if r, ok := impactRank[i]; ok {
		return r
	}
	return len(impactRank) + 1
}

type BugStatus string

const (
	BugReported   BugStatus = "reportado"
	BugInProgress BugStatus = "en_proceso"
	BugQA         BugStatus = "qa"
	BugResolved   BugStatus = "resuelto"
	BugClosed     BugStatus = "cerrado"
)

func (s BugStatus) Valid() bool {
	switch s {
	case BugReported, BugInProgress, BugQA, BugResolved, BugClosed:
		return true
	}
	return false
}

// Open reports whether the bug still needs work.
func (s BugStatus) Open() bool {
	return s != BugResolved && s != BugClosed
}

type Role string

const (
	RoleAdmin     Role = "admin"
	RolePM        Role = "pm"
	RoleDeveloper Role = "developer"
	RoleQA        Role = "qa"
)

func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RolePM, RoleDeveloper, RoleQA:
		return true
	}
	return false
}

type ActionType string

const (
	ActionCreated   ActionType = "created"
	ActionUpdated   ActionType = "updated"
	ActionDeleted   ActionType = "deleted"
	ActionCommented ActionType = "commented"
)

type EntityType string

const (
	EntityBacklogItem EntityType = "backlog_item"
	EntityBug         EntityType = "bug"
	EntityKPI         EntityType = "kpi"
)
