package services

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/squadhub/backend/internal/dto"
	"github.com/squadhub/backend/internal/models"
)

func TestCreateGroupValidation(t *testing.T) {
	db := newTestDB(t)
	svc := NewGroupService(db, NewMembershipService(db))

	_, err := svc.Create(&dto.CreateGroupRequest{SelectedEmployees: []uuid.UUID{uuid.New()}})
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError for missing name, got %v", err)
	}

	_, err = svc.Create(&dto.CreateGroupRequest{GroupName: "Alpha"})
	if !errors.Is(err, ErrNoEmployees) {
		t.Fatalf("expected ErrNoEmployees, got %v", err)
	}
}

func TestCreateGroupAttachesDefaultTasks(t *testing.T) {
	db := newTestDB(t)
	svc := NewGroupService(db, NewMembershipService(db))

	u1 := createUser(t, db, "One", "one@example.com", "")
	u2 := createUser(t, db, "Two", "two@example.com", "")

	group, err := svc.Create(&dto.CreateGroupRequest{
		GroupName:         "Alpha",
		ProjectName:       "Apollo",
		StartDate:         "2026-01-01",
		SelectedEmployees: []uuid.UUID{u1.ID, u2.ID},
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	if group.Status != models.GroupStatusActive {
		t.Errorf("new group should be active, got %q", group.Status)
	}
	if len(group.Memberships) != 2 {
		t.Fatalf("expected 2 memberships, got %d", len(group.Memberships))
	}
	for _, m := range group.Memberships {
		if m.Task == nil || *m.Task != DefaultAssignTask {
			t.Errorf("expected default task, got %v", m.Task)
		}
		if m.TaskStatus != models.DefaultTaskStatus {
			t.Errorf("expected pending status, got %q", m.TaskStatus)
		}
	}
}

func TestSetStatusRejectsUnknownValue(t *testing.T) {
	db := newTestDB(t)
	svc := NewGroupService(db, NewMembershipService(db))
	group := createGroup(t, db, "Alpha")

	if err := svc.SetStatus(group.ID, "archived"); !errors.Is(err, ErrInvalidStatus) {
		t.Fatalf("expected ErrInvalidStatus, got %v", err)
	}

	if err := svc.SetStatus(group.ID, models.GroupStatusInactive); err != nil {
		t.Fatalf("valid status rejected: %v", err)
	}

	if err := svc.SetStatus(uuid.New(), models.GroupStatusActive); !errors.Is(err, ErrGroupNotFound) {
		t.Fatalf("expected ErrGroupNotFound, got %v", err)
	}
}

func TestDeleteGroupCascadesOnlyItsMemberships(t *testing.T) {
	db := newTestDB(t)
	members := NewMembershipService(db)
	svc := NewGroupService(db, members)

	g1 := createGroup(t, db, "Alpha")
	g2 := createGroup(t, db, "Beta")
	u1 := createUser(t, db, "One", "one@example.com", "")
	u2 := createUser(t, db, "Two", "two@example.com", "")

	if err := members.Attach(g1.ID, []uuid.UUID{u1.ID, u2.ID}, ""); err != nil {
		t.Fatalf("attach failed: %v", err)
	}
	if err := members.Attach(g2.ID, []uuid.UUID{u1.ID}, ""); err != nil {
		t.Fatalf("attach failed: %v", err)
	}

	if err := svc.Delete(g1.ID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}

	var count int64
	db.Model(&models.Membership{}).Where("group_id = ?", g1.ID).Count(&count)
	if count != 0 {
		t.Errorf("deleted group still has %d memberships", count)
	}
	db.Model(&models.Membership{}).Where("group_id = ?", g2.ID).Count(&count)
	if count != 1 {
		t.Errorf("unrelated group memberships touched: %d", count)
	}
	db.Model(&models.User{}).Count(&count)
	if count != 2 {
		t.Errorf("group deletion must never delete users, have %d", count)
	}

	if err := svc.Delete(g1.ID); !errors.Is(err, ErrGroupNotFound) {
		t.Fatalf("expected ErrGroupNotFound on second delete, got %v", err)
	}
}

func TestUpdateGroupKeepsUnspecifiedFields(t *testing.T) {
	db := newTestDB(t)
	members := NewMembershipService(db)
	svc := NewGroupService(db, members)

	u1 := createUser(t, db, "One", "one@example.com", "")
	group, err := svc.Create(&dto.CreateGroupRequest{
		GroupName:         "Alpha",
		ProjectName:       "Apollo",
		SelectedEmployees: []uuid.UUID{u1.ID},
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	newProject := "Artemis"
	updated, err := svc.Update(group.ID, &dto.UpdateGroupRequest{ProjectName: &newProject})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}

	if updated.Name != "Alpha" {
		t.Errorf("name changed unexpectedly: %q", updated.Name)
	}
	if updated.ProjectName != "Artemis" {
		t.Errorf("project name not updated: %q", updated.ProjectName)
	}
	if len(updated.Memberships) != 1 {
		t.Errorf("memberships changed without a selection: %d", len(updated.Memberships))
	}
}

func TestListAllNewestFirst(t *testing.T) {
	db := newTestDB(t)
	svc := NewGroupService(db, NewMembershipService(db))

	old := models.Group{ID: uuid.New(), Name: "Old", Status: models.GroupStatusActive, CreatedAt: time.Now().Add(-time.Hour)}
	recent := models.Group{ID: uuid.New(), Name: "Recent", Status: models.GroupStatusActive, CreatedAt: time.Now()}
	if err := db.Create(&old).Error; err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if err := db.Create(&recent).Error; err != nil {
		t.Fatalf("create failed: %v", err)
	}

	groups, err := svc.ListAll()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(groups) != 2 || groups[0].Name != "Recent" {
		t.Fatalf("expected newest-first ordering, got %+v", groups)
	}
}

func TestAnalytics(t *testing.T) {
	db := newTestDB(t)
	members := NewMembershipService(db)
	svc := NewGroupService(db, members)

	g1 := createGroup(t, db, "Alpha")
	g2 := createGroup(t, db, "Beta")
	if err := svc.SetStatus(g2.ID, models.GroupStatusInactive); err != nil {
		t.Fatalf("set status failed: %v", err)
	}

	u1 := createUser(t, db, "One", "one@example.com", "")
	if err := members.Attach(g1.ID, []uuid.UUID{u1.ID}, ""); err != nil {
		t.Fatalf("attach failed: %v", err)
	}

	analytics, err := svc.Analytics()
	if err != nil {
		t.Fatalf("analytics failed: %v", err)
	}

	if analytics.TotalGroups != 2 || analytics.ActiveProjects != 1 || analytics.TotalEmployees != 1 {
		t.Errorf("unexpected counters: %+v", analytics)
	}
	if len(analytics.TaskDistribution) != 1 || analytics.TaskDistribution[0].Status != "pending" {
		t.Errorf("unexpected task distribution: %+v", analytics.TaskDistribution)
	}
}

func TestUpdateGroupRollsBackFieldsWhenSyncFails(t *testing.T) {
	db := newTestDB(t)
	members := NewMembershipService(db)
	svc := NewGroupService(db, members)

	u1 := createUser(t, db, "One", "one@example.com", "")
	u2 := createUser(t, db, "Two", "two@example.com", "")
	group, err := svc.Create(&dto.CreateGroupRequest{
		GroupName:         "Alpha",
		ProjectName:       "Apollo",
		SelectedEmployees: []uuid.UUID{u1.ID},
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	// Dropping the membership table makes the member sync fail after the
	// field update has been applied inside the same transaction.
	if err := db.Migrator().DropTable(&models.Membership{}); err != nil {
		t.Fatalf("failed to drop table: %v", err)
	}

	newProject := "Artemis"
	_, err = svc.Update(group.ID, &dto.UpdateGroupRequest{
		ProjectName:       &newProject,
		SelectedEmployees: []uuid.UUID{u2.ID},
	})
	if err == nil {
		t.Fatal("expected update to fail")
	}

	var reloaded models.Group
	if err := db.First(&reloaded, "id = ?", group.ID).Error; err != nil {
		t.Fatalf("failed to reload group: %v", err)
	}
	if reloaded.ProjectName != "Apollo" {
		t.Errorf("failed sync must roll back field updates, got project %q", reloaded.ProjectName)
	}
}
