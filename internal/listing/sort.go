// Package listing orders backlog items and bugs the way the dashboard tables
// present them: a single sort field with a direction, and a manual rank that
// is changed by moving one row over another.
package listing

import (
	"cmp"
	"slices"
	"strings"

	"github.com/msp993/backlog-zenith-project/internal/models"
)

// SortBacklog sorts items in place. Equal keys keep their incoming order.
func SortBacklog(items []models.BacklogItem, s models.Sort) {
	slices.SortStableFunc(items, func(a, b models.BacklogItem) int {
		return directed(compareBacklog(a, b, s.Field), s.Direction)
	})
}

// SortBugs sorts bugs in place. Equal keys keep their incoming order.
func SortBugs(bugs []models.Bug, s models.Sort) {
	slices.SortStableFunc(bugs, func(a, b models.Bug) int {
		return directed(compareBugs(a, b, s.Field), s.Direction)
	})
}

func directed(c int, dir models.SortDirection) int {
	if dir == models.SortDesc {
		return -c
	}
	return c
}

func compareBacklog(a, b models.BacklogItem, field models.SortField) int {
	switch field {
	case models.SortByPriority:
		return cmp.Compare(a.Priority.Rank(), b.Priority.Rank())
	case models.SortByTitle:
		return compareText(a.Title, b.Title)
	case models.SortByStatus:
		return cmp.Compare(a.Status, b.Status)
	case models.SortByAssignee:
		return compareText(a.Assignee.DisplayName(), b.Assignee.DisplayName())
	case models.SortByStoryPoints:
		return cmp.Compare(intOrZero(a.StoryPoints), intOrZero(b.StoryPoints))
	case models.SortByCreatedAt:
		return a.CreatedAt.Compare(b.CreatedAt)
	case models.SortByPosition:
		return cmp.Compare(a.Position, b.Position)
	}
	return 0
}

func compareBugs(a, b models.Bug, field models.SortField) int {
	switch field {
	case models.SortByImpact:
		return cmp.Compare(a.Impact.Rank(), b.Impact.Rank())
	case models.SortByTitle:
		return compareText(a.Title, b.Title)
	case models.SortByStatus:
		return cmp.Compare(a.Status, b.Status)
	case models.SortByAssignee:
		return compareText(a.Assignee.DisplayName(), b.Assignee.DisplayName())
	case models.SortByEffortPoints:
		return cmp.Compare(a.EffortPoints, b.EffortPoints)
	case models.SortByCreatedAt:
		return a.CreatedAt.Compare(b.CreatedAt)
	}
	return 0
}

func compareText(a, b string) int {
	return strings.Compare(strings.ToLower(a), strings.ToLower(b))
}

func intOrZero(v *int) int {
	if v == nil {
		return 0
	}
	return *v
}
