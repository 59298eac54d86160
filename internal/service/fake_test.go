package service

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/msp993/backlog-zenith-project/internal/models"
)

const (
	idA = "00000000-0000-0000-0000-00000000000a"
	idB = "00000000-0000-0000-0000-00000000000b"
	idC = "00000000-0000-0000-0000-00000000000c"
	idD = "00000000-0000-0000-0000-00000000000d"

	userID = "00000000-0000-0000-0000-0000000000f1"
)

type fakeTx struct {
	pgx.Tx
	committed  bool
	rolledBack bool
}

func (tx *fakeTx) Commit(context.Context) error {
	tx.committed = true
	return nil
}

func (tx *fakeTx) Rollback(context.Context) error {
	if tx.committed {
		return pgx.ErrTxClosed
	}
	tx.rolledBack = true
	return nil
}

type fakePresence int

func (p fakePresence) OnlineCount() int { return int(p) }

// fakeRepository keeps rows in memory. errs injects a failure per method name.
type fakeRepository struct {
	errs map[string]error

	profiles   []models.Profile
	upserted   []models.UpsertProfileRequest
	backlog    []models.BacklogItem
	bugs       []models.Bug
	kpis       []models.KPI
	history    []models.KPIHistoryPoint
	activities []models.Activity
	stats      models.DashboardStats

	txs            []*fakeTx
	inserted       []models.CreateBacklogItemRequest
	insertedBugs   []models.CreateBugRequest
	positions      []string
	historyWindow  [2]time.Time
	selectKPICalls int
	activityLimit  int
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{errs: make(map[string]error)}
}

func (f *fakeRepository) fail(method string) error {
	return f.errs[method]
}

func (f *fakeRepository) BeginTx(context.Context) (pgx.Tx, error) {
	if err := f.fail("BeginTx"); err != nil {
		return nil, err
	}
	tx := &fakeTx{}
	f.txs = append(f.txs, tx)
	return tx, nil
}

func (f *fakeRepository) SelectProfiles(context.Context) ([]models.Profile, error) {
	return slices.Clone(f.profiles), f.fail("SelectProfiles")
}

func (f *fakeRepository) SelectProfile(_ context.Context, id string) (models.Profile, error) {
	if err := f.fail("SelectProfile"); err != nil {
		return models.Profile{}, err
	}
	for _, p := range f.profiles {
		if p.ID == id {
			return p, nil
		}
	}
	return models.Profile{}, errors.New("profile not found")
}

func (f *fakeRepository) UpsertProfile(_ context.Context, req models.UpsertProfileRequest) (models.Profile, error) {
	if err := f.fail("UpsertProfile"); err != nil {
		return models.Profile{}, err
	}
	f.upserted = append(f.upserted, req)
	p := models.Profile{ID: req.ID, Email: req.Email, FullName: req.FullName, Role: req.Role, AvatarURL: req.AvatarURL}
	for i := range f.profiles {
		if f.profiles[i].ID == req.ID {
			f.profiles[i] = p
			return p, nil
		}
	}
	f.profiles = append(f.profiles, p)
	return p, nil
}

func (f *fakeRepository) SelectBacklogItems(context.Context, models.BacklogFilter) ([]models.BacklogItem, error) {
	return slices.Clone(f.backlog), f.fail("SelectBacklogItems")
}

func (f *fakeRepository) CountBacklogItems(context.Context) (int, error) {
	return len(f.backlog), f.fail("CountBacklogItems")
}

func (f *fakeRepository) SelectBacklogItem(_ context.Context, id string) (models.BacklogItem, error) {
	for _, item := range f.backlog {
		if item.ID == id {
			return item, nil
		}
	}
	return models.BacklogItem{}, errors.New("backlog item not found")
}

func (f *fakeRepository) InsertBacklogItem(
	_ context.Context, req models.CreateBacklogItemRequest, createdBy string,
) (string, error) {
	if err := f.fail("InsertBacklogItem"); err != nil {
		return "", err
	}
	f.inserted = append(f.inserted, req)
	id := fmt.Sprintf("00000000-0000-0000-0000-%012d", len(f.backlog)+100)
	f.backlog = append(f.backlog, models.BacklogItem{
		ID:        id,
		Title:     req.Title,
		Priority:  req.Priority,
		Status:    req.Status,
		CreatedBy: &createdBy,
		Position:  len(f.backlog) + 1,
	})
	return id, nil
}

func (f *fakeRepository) UpdateBacklogItem(_ context.Context, req models.UpdateBacklogItemRequest) error {
	if err := f.fail("UpdateBacklogItem"); err != nil {
		return err
	}
	for i := range f.backlog {
		if f.backlog[i].ID == req.ID {
			if req.Title != nil {
				f.backlog[i].Title = *req.Title
			}
			if req.Status != nil {
				f.backlog[i].Status = *req.Status
			}
			return nil
		}
	}
	return errors.New("backlog item not found")
}

func (f *fakeRepository) DeleteBacklogItem(_ context.Context, id string) (string, error) {
	for i, item := range f.backlog {
		if item.ID == id {
			f.backlog = slices.Delete(f.backlog, i, i+1)
			return item.Title, nil
		}
	}
	return "", errors.New("backlog item not found")
}

func (f *fakeRepository) UpdateBacklogStatus(
	_ context.Context, ids []string, status models.BacklogStatus,
) ([]models.BacklogSummary, error) {
	var out []models.BacklogSummary
	for i := range f.backlog {
		if slices.Contains(ids, f.backlog[i].ID) {
			f.backlog[i].Status = status
			out = append(out, models.BacklogSummary{ID: f.backlog[i].ID, Title: f.backlog[i].Title})
		}
	}
	return out, f.fail("UpdateBacklogStatus")
}

func (f *fakeRepository) SelectBacklogOrder(context.Context, pgx.Tx) ([]string, error) {
	ids := make([]string, 0, len(f.backlog))
	for _, item := range f.backlog {
		ids = append(ids, item.ID)
	}
	return ids, f.fail("SelectBacklogOrder")
}

func (f *fakeRepository) UpdateBacklogPositions(_ context.Context, _ pgx.Tx, ids []string) error {
	if err := f.fail("UpdateBacklogPositions"); err != nil {
		return err
	}
	f.positions = slices.Clone(ids)
	return nil
}

func (f *fakeRepository) SelectBugs(context.Context, models.BugFilter) ([]models.Bug, error) {
	return slices.Clone(f.bugs), f.fail("SelectBugs")
}

func (f *fakeRepository) CountBugs(context.Context) (int, error) {
	return len(f.bugs), f.fail("CountBugs")
}

func (f *fakeRepository) SelectBug(_ context.Context, id string) (models.Bug, error) {
	for _, bug := range f.bugs {
		if bug.ID == id {
			return bug, nil
		}
	}
	return models.Bug{}, errors.New("bug not found")
}

func (f *fakeRepository) InsertBug(_ context.Context, req models.CreateBugRequest, _ string) (string, error) {
	if err := f.fail("InsertBug"); err != nil {
		return "", err
	}
	f.insertedBugs = append(f.insertedBugs, req)
	id := fmt.Sprintf("00000000-0000-0000-0000-%012d", len(f.bugs)+200)
	f.bugs = append(f.bugs, models.Bug{ID: id, Title: req.Title, Impact: req.Impact, Status: req.Status})
	return id, nil
}

func (f *fakeRepository) UpdateBug(_ context.Context, req models.UpdateBugRequest) error {
	for i := range f.bugs {
		if f.bugs[i].ID == req.ID {
			if req.Status != nil {
				f.bugs[i].Status = *req.Status
			}
			return f.fail("UpdateBug")
		}
	}
	return errors.New("bug not found")
}

func (f *fakeRepository) DeleteBug(_ context.Context, id string) (string, error) {
	for i, bug := range f.bugs {
		if bug.ID == id {
			f.bugs = slices.Delete(f.bugs, i, i+1)
			return bug.Title, nil
		}
	}
	return "", errors.New("bug not found")
}

func (f *fakeRepository) UpdateBugStatus(
	_ context.Context, ids []string, status models.BugStatus,
) ([]models.BugSummary, error) {
	var out []models.BugSummary
	for i := range f.bugs {
		if slices.Contains(ids, f.bugs[i].ID) {
			f.bugs[i].Status = status
			out = append(out, models.BugSummary{ID: f.bugs[i].ID, Title: f.bugs[i].Title})
		}
	}
	return out, f.fail("UpdateBugStatus")
}

func (f *fakeRepository) SelectKPIs(context.Context) ([]models.KPI, error) {
	f.selectKPICalls++
	return slices.Clone(f.kpis), f.fail("SelectKPIs")
}

func (f *fakeRepository) UpdateKPI(_ context.Context, _ pgx.Tx, req models.UpdateKPIRequest) (models.KPI, error) {
	if err := f.fail("UpdateKPI"); err != nil {
		return models.KPI{}, err
	}
	for i := range f.kpis {
		if f.kpis[i].ID == req.ID {
			applyKPIPatch(&f.kpis[i], req)
			return f.kpis[i], nil
		}
	}
	return models.KPI{}, errors.New("kpi not found")
}

func (f *fakeRepository) InsertKPIHistory(_ context.Context, _ pgx.Tx, point models.KPIHistoryPoint) error {
	if err := f.fail("InsertKPIHistory"); err != nil {
		return err
	}
	f.history = append(f.history, point)
	return nil
}

func (f *fakeRepository) SelectKPIHistory(_ context.Context, from, to time.Time) ([]models.KPIHistoryPoint, error) {
	f.historyWindow = [2]time.Time{from, to}
	return slices.Clone(f.history), f.fail("SelectKPIHistory")
}

func (f *fakeRepository) SnapshotKPIs(context.Context) (int, error) {
	return len(f.kpis), f.fail("SnapshotKPIs")
}

func (f *fakeRepository) InsertActivity(_ context.Context, activity models.Activity) error {
	if err := f.fail("InsertActivity"); err != nil {
		return err
	}
	f.activities = append(f.activities, activity)
	return nil
}

func (f *fakeRepository) SelectActivities(_ context.Context, limit int) ([]models.Activity, error) {
	f.activityLimit = limit
	return slices.Clone(f.activities), f.fail("SelectActivities")
}

func (f *fakeRepository) SelectDashboardStats(context.Context) (*models.DashboardStats, error) {
	stats := f.stats
	return &stats, f.fail("SelectDashboardStats")
}
