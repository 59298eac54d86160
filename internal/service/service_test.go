package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/msp993/backlog-zenith-project/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(repo *fakeRepository) *Service {
	return NewService(Cfg{}, repo, fakePresence(3))
}

func ptr[T any](v T) *T { return &v }

func TestMapRepositoryError(t *testing.T) {
	tests := []struct {
		err  error
		code string
	}{
		{errors.New("database: SelectBug: query row: boom"), models.InternalErr},
		{errors.New("bug not found"), models.NotFoundErr},
		{errors.New("foreign key violation: referenced row not found"), models.NotFoundErr},
		{errors.New("profile unique violation"), models.AlreadyExistsErr},
		{errors.New("invalid kpi: check constraint"), models.ValidationFailedErr},
		{errors.New("something odd"), models.InternalErr},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			assert.Equal(t, tt.code, mapRepositoryError(tt.err).Code)
		})
	}
}

func TestCreateBacklogItemAppliesDefaults(t *testing.T) {
	repo := newFakeRepository()
	s := newTestService(repo)

	resp, errDetails := s.CreateBacklogItem(context.Background(), userID, models.CreateBacklogItemRequest{
		Title: "Login page",
	})
	require.Nil(t, errDetails)
	assert.Equal(t, "Login page", resp.Item.Title)

	require.Len(t, repo.inserted, 1)
	req := repo.inserted[0]
	assert.Equal(t, models.PriorityP3, req.Priority)
	assert.Equal(t, models.BacklogPending, req.Status)
	assert.Equal(t, models.ValueMedium, req.BusinessValue)
	require.NotNil(t, req.StoryPoints)
	assert.Equal(t, 1, *req.StoryPoints)

	require.Len(t, repo.activities, 1)
	assert.Equal(t, models.ActionCreated, repo.activities[0].ActionType)
	assert.Equal(t, models.EntityBacklogItem, repo.activities[0].EntityType)
	assert.Equal(t, userID, repo.activities[0].UserID)
}

func TestCreateBacklogItemRejectsUnknownPriority(t *testing.T) {
	repo := newFakeRepository()
	s := newTestService(repo)

	_, errDetails := s.CreateBacklogItem(context.Background(), userID, models.CreateBacklogItemRequest{
		Title:    "Login page",
		Priority: "P9",
	})
	require.NotNil(t, errDetails)
	assert.Equal(t, models.ValidationFailedErr, errDetails.Code)
	assert.Contains(t, errDetails.Message, "priority")
	assert.Empty(t, repo.inserted)
}

func TestActivityFailureIsNotSurfaced(t *testing.T) {
	repo := newFakeRepository()
	repo.errs["InsertActivity"] = errors.New("database: InsertActivity: execute query: down")
	s := newTestService(repo)

	resp, errDetails := s.CreateBacklogItem(context.Background(), userID, models.CreateBacklogItemRequest{Title: "x"})
	require.Nil(t, errDetails)
	assert.NotEmpty(t, resp.Item.ID)
	assert.Empty(t, repo.activities)
}

func TestActivitySkippedWithoutCaller(t *testing.T) {
	repo := newFakeRepository()
	s := newTestService(repo)

	_, errDetails := s.CreateBacklogItem(context.Background(), "", models.CreateBacklogItemRequest{Title: "x"})
	require.Nil(t, errDetails)
	assert.Empty(t, repo.activities)
}

func TestUpdateBacklogItem(t *testing.T) {
	repo := newFakeRepository()
	repo.backlog = []models.BacklogItem{{ID: idA, Title: "Old"}}
	s := newTestService(repo)

	_, errDetails := s.UpdateBacklogItem(context.Background(), userID, models.UpdateBacklogItemRequest{ID: idA})
	require.NotNil(t, errDetails)
	assert.Equal(t, models.ValidationFailedErr, errDetails.Code)

	resp, errDetails := s.UpdateBacklogItem(context.Background(), userID, models.UpdateBacklogItemRequest{
		ID:     idA,
		Title:  ptr("New"),
		Status: ptr(models.BacklogQA),
	})
	require.Nil(t, errDetails)
	assert.Equal(t, "New", resp.Item.Title)
	assert.Equal(t, models.BacklogQA, resp.Item.Status)

	require.Len(t, repo.activities, 1)
	require.NotNil(t, repo.activities[0].Details)
	assert.Equal(t, "title, status", *repo.activities[0].Details)

	_, errDetails = s.UpdateBacklogItem(context.Background(), userID, models.UpdateBacklogItemRequest{
		ID:     idA,
		Status: ptr(models.BacklogStatus("done")),
	})
	require.NotNil(t, errDetails)
	assert.Equal(t, models.ValidationFailedErr, errDetails.Code)
}

func TestDeleteBacklogItem(t *testing.T) {
	repo := newFakeRepository()
	repo.backlog = []models.BacklogItem{{ID: idA, Title: "Gone"}}
	s := newTestService(repo)

	require.Nil(t, s.DeleteBacklogItem(context.Background(), userID, models.DeleteRequest{ID: idA}))
	assert.Empty(t, repo.backlog)
	require.Len(t, repo.activities, 1)
	assert.Equal(t, "Gone", repo.activities[0].EntityTitle)

	errDetails := s.DeleteBacklogItem(context.Background(), userID, models.DeleteRequest{ID: idA})
	require.NotNil(t, errDetails)
	assert.Equal(t, models.NotFoundErr, errDetails.Code)
}

func TestListBacklogSortsAndSums(t *testing.T) {
	repo := newFakeRepository()
	repo.backlog = []models.BacklogItem{
		{ID: idA, Title: "charlie", StoryPoints: ptr(3)},
		{ID: idB, Title: "Alpha", StoryPoints: ptr(5)},
		{ID: idC, Title: "bravo"},
	}
	s := newTestService(repo)

	resp, errDetails := s.ListBacklog(context.Background(), models.BacklogFilter{}, models.Sort{Field: models.SortByTitle})
	require.Nil(t, errDetails)

	ids := make([]string, 0, len(resp.Items))
	for _, item := range resp.Items {
		ids = append(ids, item.ID)
	}
	assert.Equal(t, []string{idB, idC, idA}, ids)
	assert.Equal(t, 3, resp.Filtered)
	assert.Equal(t, 3, resp.Total)
	assert.Equal(t, 8, resp.StoryPoints)

	_, errDetails = s.ListBacklog(context.Background(), models.BacklogFilter{}, models.Sort{Field: models.SortByImpact})
	require.NotNil(t, errDetails)
	assert.Equal(t, models.ValidationFailedErr, errDetails.Code)
}

func TestBulkUpdateBacklogStatus(t *testing.T) {
	repo := newFakeRepository()
	repo.backlog = []models.BacklogItem{{ID: idA, Title: "a"}, {ID: idB, Title: "b"}, {ID: idC, Title: "c"}}
	s := newTestService(repo)

	resp, errDetails := s.BulkUpdateBacklogStatus(context.Background(), userID, models.BulkBacklogStatusRequest{
		IDs:    []string{idA, idC},
		Status: models.BacklogDone,
	})
	require.Nil(t, errDetails)
	assert.Equal(t, 2, resp.Updated)
	assert.Equal(t, models.BacklogDone, repo.backlog[2].Status)
	assert.Len(t, repo.activities, 2)

	_, errDetails = s.BulkUpdateBacklogStatus(context.Background(), userID, models.BulkBacklogStatusRequest{
		IDs:    []string{idA, idA},
		Status: models.BacklogDone,
	})
	require.NotNil(t, errDetails)
	assert.Equal(t, models.ValidationFailedErr, errDetails.Code)
}

func TestReorderBacklog(t *testing.T) {
	repo := newFakeRepository()
	repo.backlog = []models.BacklogItem{{ID: idA}, {ID: idB}, {ID: idC}}
	s := newTestService(repo)

	resp, errDetails := s.ReorderBacklog(context.Background(), models.ReorderBacklogRequest{IDs: []string{idC, idA, idB}})
	require.Nil(t, errDetails)
	assert.Equal(t, []string{idC, idA, idB}, resp.IDs)
	assert.Equal(t, []string{idC, idA, idB}, repo.positions)
	require.Len(t, repo.txs, 1)
	assert.True(t, repo.txs[0].committed)

	repo.positions = nil
	_, errDetails = s.ReorderBacklog(context.Background(), models.ReorderBacklogRequest{IDs: []string{idC, idA}})
	require.NotNil(t, errDetails)
	assert.Equal(t, models.ValidationFailedErr, errDetails.Code)
	assert.Nil(t, repo.positions)
}

func TestReorderBacklogRollsBackOnFailure(t *testing.T) {
	repo := newFakeRepository()
	repo.backlog = []models.BacklogItem{{ID: idA}, {ID: idB}}
	repo.errs["UpdateBacklogPositions"] = errors.New("database: UpdateBacklogPositions: execute query: down")
	s := newTestService(repo)

	_, errDetails := s.ReorderBacklog(context.Background(), models.ReorderBacklogRequest{IDs: []string{idB, idA}})
	require.NotNil(t, errDetails)
	assert.Equal(t, models.InternalErr, errDetails.Code)
	require.Len(t, repo.txs, 1)
	assert.False(t, repo.txs[0].committed)
	assert.True(t, repo.txs[0].rolledBack)
}

func TestMoveBacklogItem(t *testing.T) {
	repo := newFakeRepository()
	repo.backlog = []models.BacklogItem{{ID: idA}, {ID: idB}, {ID: idC}, {ID: idD}}
	s := newTestService(repo)

	resp, errDetails := s.MoveBacklogItem(context.Background(), models.MoveBacklogItemRequest{ActiveID: idA, OverID: idC})
	require.Nil(t, errDetails)
	assert.Equal(t, []string{idB, idC, idA, idD}, resp.IDs)
	assert.Equal(t, resp.IDs, repo.positions)

	_, errDetails = s.MoveBacklogItem(context.Background(), models.MoveBacklogItemRequest{
		ActiveID: idA,
		OverID:   "00000000-0000-0000-0000-000000000999",
	})
	require.NotNil(t, errDetails)
	assert.Equal(t, models.NotFoundErr, errDetails.Code)
}

func TestCreateBugChecksRelatedItem(t *testing.T) {
	repo := newFakeRepository()
	repo.backlog = []models.BacklogItem{{ID: idA, Title: "story"}}
	s := newTestService(repo)

	_, errDetails := s.CreateBug(context.Background(), userID, models.CreateBugRequest{
		Title:              "crash",
		Description:        "on save",
		RelatedBacklogItem: ptr(idB),
	})
	require.NotNil(t, errDetails)
	assert.Equal(t, models.NotFoundErr, errDetails.Code)
	assert.Empty(t, repo.insertedBugs)

	resp, errDetails := s.CreateBug(context.Background(), userID, models.CreateBugRequest{
		Title:              "crash",
		Description:        "on save",
		RelatedBacklogItem: ptr(idA),
	})
	require.Nil(t, errDetails)
	assert.Equal(t, models.ImpactMedium, resp.Bug.Impact)
	assert.Equal(t, models.BugReported, resp.Bug.Status)
	require.Len(t, repo.insertedBugs, 1)
	assert.Equal(t, 1, *repo.insertedBugs[0].EffortPoints)
}

func TestListBugsDefaultSort(t *testing.T) {
	now := time.Now()
	repo := newFakeRepository()
	repo.bugs = []models.Bug{
		{ID: idA, CreatedAt: now.Add(-time.Hour)},
		{ID: idB, CreatedAt: now},
	}
	s := newTestService(repo)

	resp, errDetails := s.ListBugs(context.Background(), models.BugFilter{}, models.Sort{})
	require.Nil(t, errDetails)
	require.Len(t, resp.Bugs, 2)
	assert.Equal(t, idB, resp.Bugs[0].ID)
}

func TestUpdateBugAndBulkStatus(t *testing.T) {
	repo := newFakeRepository()
	repo.bugs = []models.Bug{{ID: idA, Title: "a"}, {ID: idB, Title: "b"}}
	s := newTestService(repo)

	resp, errDetails := s.UpdateBug(context.Background(), userID, models.UpdateBugRequest{
		ID:     idA,
		Status: ptr(models.BugQA),
	})
	require.Nil(t, errDetails)
	assert.Equal(t, models.BugQA, resp.Bug.Status)

	bulk, errDetails := s.BulkUpdateBugStatus(context.Background(), userID, models.BulkBugStatusRequest{
		IDs:    []string{idA, idB},
		Status: models.BugClosed,
	})
	require.Nil(t, errDetails)
	assert.Equal(t, 2, bulk.Updated)

	require.Nil(t, s.DeleteBug(context.Background(), userID, models.DeleteRequest{ID: idB}))
	assert.Len(t, repo.bugs, 1)
}

func TestListActivitiesClampsLimit(t *testing.T) {
	repo := newFakeRepository()
	s := newTestService(repo)

	_, errDetails := s.ListActivities(context.Background(), 0)
	require.Nil(t, errDetails)
	assert.Equal(t, 20, repo.activityLimit)

	_, errDetails = s.ListActivities(context.Background(), 500)
	require.Nil(t, errDetails)
	assert.Equal(t, 100, repo.activityLimit)

	_, errDetails = s.ListActivities(context.Background(), 5)
	require.Nil(t, errDetails)
	assert.Equal(t, 5, repo.activityLimit)
}

func TestProfilesAreCachedUntilChange(t *testing.T) {
	repo := newFakeRepository()
	repo.profiles = []models.Profile{{ID: idA, FullName: ptr("Ana")}}
	s := newTestService(repo)

	resp, errDetails := s.ListProfiles(context.Background())
	require.Nil(t, errDetails)
	require.Len(t, resp.Profiles, 1)

	repo.profiles = append(repo.profiles, models.Profile{ID: idB})
	resp, _ = s.ListProfiles(context.Background())
	assert.Len(t, resp.Profiles, 1)

	s.HandleChange(models.ChangeEvent{Table: models.TableProfiles, Type: models.ChangeInsert, ID: idB})
	resp, _ = s.ListProfiles(context.Background())
	assert.Len(t, resp.Profiles, 2)
}

func TestResetCachesRefetchesEverything(t *testing.T) {
	repo := newFakeRepository()
	repo.profiles = []models.Profile{{ID: idA, FullName: ptr("Ana")}}
	repo.kpis = []models.KPI{{ID: idC, Name: "Velocity"}}
	s := newTestService(repo)

	_, errDetails := s.ListProfiles(context.Background())
	require.Nil(t, errDetails)
	_, errDetails = s.ListKPIs(context.Background(), "")
	require.Nil(t, errDetails)
	require.Equal(t, 1, repo.selectKPICalls)

	repo.profiles = append(repo.profiles, models.Profile{ID: idB})
	repo.kpis = append(repo.kpis, models.KPI{ID: idD, Name: "Coverage"})

	s.ResetCaches()

	profiles, errDetails := s.ListProfiles(context.Background())
	require.Nil(t, errDetails)
	assert.Len(t, profiles.Profiles, 2)

	kpis, errDetails := s.ListKPIs(context.Background(), "")
	require.Nil(t, errDetails)
	assert.Len(t, kpis.KPIs, 2)
	assert.Equal(t, 2, repo.selectKPICalls)
}

func TestUpsertProfileDefaultsRole(t *testing.T) {
	repo := newFakeRepository()
	s := newTestService(repo)

	resp, errDetails := s.UpsertProfile(context.Background(), models.UpsertProfileRequest{ID: idA})
	require.Nil(t, errDetails)
	assert.Equal(t, models.RoleDeveloper, resp.Profile.Role)

	_, errDetails = s.UpsertProfile(context.Background(), models.UpsertProfileRequest{ID: idB, Role: "owner"})
	require.NotNil(t, errDetails)
	assert.Equal(t, models.ValidationFailedErr, errDetails.Code)
}

func TestUpsertProfileKeepsExistingFields(t *testing.T) {
	repo := newFakeRepository()
	repo.profiles = []models.Profile{{
		ID:        idA,
		Email:     ptr("ana@acme.io"),
		FullName:  ptr("Ana"),
		Role:      models.RoleAdmin,
		AvatarURL: ptr("https://cdn.acme.io/ana.png"),
	}}
	s := newTestService(repo)

	resp, errDetails := s.UpsertProfile(context.Background(), models.UpsertProfileRequest{
		ID:       idA,
		FullName: ptr("Ana Ruiz"),
	})
	require.Nil(t, errDetails)

	require.Len(t, repo.upserted, 1)
	assert.Equal(t, models.RoleAdmin, repo.upserted[0].Role)
	assert.Equal(t, models.RoleAdmin, resp.Profile.Role)
	assert.Equal(t, "Ana Ruiz", *resp.Profile.FullName)
	assert.Equal(t, "ana@acme.io", *resp.Profile.Email)
	assert.Equal(t, "https://cdn.acme.io/ana.png", *resp.Profile.AvatarURL)
	require.Len(t, repo.profiles, 1)

	_, errDetails = s.UpsertProfile(context.Background(), models.UpsertProfileRequest{ID: idA, Role: models.RoleQA})
	require.Nil(t, errDetails)
	assert.Equal(t, models.RoleQA, repo.profiles[0].Role)
	assert.Equal(t, "Ana Ruiz", *repo.profiles[0].FullName)
}

func TestUpsertProfileLookupFailure(t *testing.T) {
	repo := newFakeRepository()
	repo.errs["SelectProfile"] = errors.New("database: SelectProfile: query row: conn closed")
	s := newTestService(repo)

	_, errDetails := s.UpsertProfile(context.Background(), models.UpsertProfileRequest{ID: idA, Role: models.RoleQA})
	require.NotNil(t, errDetails)
	assert.Equal(t, models.InternalErr, errDetails.Code)
	assert.Empty(t, repo.upserted)
}

func TestDashboardStatisticsIncludesPresence(t *testing.T) {
	repo := newFakeRepository()
	repo.stats = models.DashboardStats{ActiveStories: 4, OpenBugs: 2}
	s := newTestService(repo)

	stats, errDetails := s.GetDashboardStatistics(context.Background())
	require.Nil(t, errDetails)
	assert.Equal(t, 4, stats.ActiveStories)
	assert.Equal(t, 3, stats.OnlineUsers)
}
