package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/adithya/trackfolio/internal/common"
	"github.com/adithya/trackfolio/internal/server/models"
)

func TestDriveSave_Create(t *testing.T) {
	db, mock := newSQLMockDB(t)
	defer db.Close()
	mock.ExpectBegin()
	mock.ExpectCommit()

	created := &models.Drive{ID: 7, UserID: 1, CompanyName: "Acme"}
	rm := &fakeRepoManager{
		d: &fakeDrivesRepo{createOut: created, getOut: created},
		n: &fakeNotesRepo{},
		c: &fakeChecklistsRepo{},
	}
	s := NewDriveService(db, rm)

	details := &DriveDetails{
		Drive: &models.Drive{CompanyName: "Acme", Role: "SDE", DriveDatetime: time.Now()},
		Notes: []*models.Note{{Content: "prep dp problems"}},
	}
	out, err := s.Save(authedCtx(1, "alice@gmail.com"), details, false)
	if err != nil {
		t.Fatalf("Save error: %v", err)
	}
	if out.Drive.ID != 7 {
		t.Fatalf("expected created drive id, got %d", out.Drive.ID)
	}
	if len(rm.n.created) != 1 {
		t.Fatalf("notes not saved")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("tx expectations: %v", err)
	}
}

func TestDriveSave_UpdateOtherUsersDrive(t *testing.T) {
	db, _ := newSQLMockDB(t)
	defer db.Close()

	rm := &fakeRepoManager{
		d: &fakeDrivesRepo{getOut: &models.Drive{ID: 7, UserID: 99}},
	}
	s := NewDriveService(db, rm)

	details := &DriveDetails{Drive: &models.Drive{ID: 7, CompanyName: "Acme"}}
	_, err := s.Save(authedCtx(1, "alice@gmail.com"), details, true)
	if !errors.Is(err, common.ErrNotDriveOwner) {
		t.Fatalf("expected ErrNotDriveOwner, got %v", err)
	}
}

func TestDriveFetch_Success(t *testing.T) {
	db, _ := newSQLMockDB(t)
	defer db.Close()

	rm := &fakeRepoManager{
		d: &fakeDrivesRepo{getOut: &models.Drive{ID: 7, UserID: 1, CompanyName: "Acme"}},
		n: &fakeNotesRepo{listOut: []*models.Note{{ID: 1, DriveID: 7, Content: "n"}}},
		c: &fakeChecklistsRepo{listOut: []*models.ChecklistItem{{ID: 2, DriveID: 7, Content: "c"}}},
	}
	s := NewDriveService(db, rm)

	out, err := s.Fetch(authedCtx(1, "alice@gmail.com"), 7)
	if err != nil {
		t.Fatalf("Fetch error: %v", err)
	}
	if len(out.Notes) != 1 || len(out.Checklist) != 1 {
		t.Fatalf("expected notes and checklist, got %+v", out)
	}
}

func TestDriveFetch_NotFound(t *testing.T) {
	db, _ := newSQLMockDB(t)
	defer db.Close()

	rm := &fakeRepoManager{d: &fakeDrivesRepo{getErr: common.ErrorNotFound}}
	s := NewDriveService(db, rm)

	_, err := s.Fetch(authedCtx(1, "alice@gmail.com"), 7)
	if !errors.Is(err, common.ErrDriveNotFound) {
		t.Fatalf("expected ErrDriveNotFound, got %v", err)
	}
}

func TestDriveFetch_Unauthenticated(t *testing.T) {
	db, _ := newSQLMockDB(t)
	defer db.Close()

	s := NewDriveService(db, &fakeRepoManager{d: &fakeDrivesRepo{}})

	_, err := s.Fetch(context.Background(), 7)
	if !errors.Is(err, common.ErrorUnauthorized) {
		t.Fatalf("expected ErrorUnauthorized, got %v", err)
	}
}

func TestDriveDelete_Cascades(t *testing.T) {
	db, mock := newSQLMockDB(t)
	defer db.Close()
	mock.ExpectBegin()
	mock.ExpectCommit()

	rm := &fakeRepoManager{
		d: &fakeDrivesRepo{getOut: &models.Drive{ID: 7, UserID: 1}},
		n: &fakeNotesRepo{},
		c: &fakeChecklistsRepo{},
		j: &fakeJDsRepo{},
	}
	s := NewDriveService(db, rm)

	if err := s.Delete(authedCtx(1, "alice@gmail.com"), 7); err != nil {
		t.Fatalf("Delete error: %v", err)
	}
	if rm.d.deletedID != 7 {
		t.Fatalf("drive row not deleted")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("tx expectations: %v", err)
	}
}

func TestDriveDelete_RollsBackOnError(t *testing.T) {
	db, mock := newSQLMockDB(t)
	defer db.Close()
	mock.ExpectBegin()
	mock.ExpectRollback()

	rm := &fakeRepoManager{
		d: &fakeDrivesRepo{getOut: &models.Drive{ID: 7, UserID: 1}},
		n: &fakeNotesRepo{deleteErr: errors.New("boom")},
		c: &fakeChecklistsRepo{},
		j: &fakeJDsRepo{},
	}
	s := NewDriveService(db, rm)

	if err := s.Delete(authedCtx(1, "alice@gmail.com"), 7); err == nil {
		t.Fatalf("expected error")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("tx expectations: %v", err)
	}
}

func TestDriveListByType(t *testing.T) {
	db, _ := newSQLMockDB(t)
	defer db.Close()

	want := []*models.Drive{{ID: 7, UserID: 1}}
	rm := &fakeRepoManager{d: &fakeDrivesRepo{listOut: want}}
	s := NewDriveService(db, rm)
	ctx := authedCtx(1, "alice@gmail.com")

	for _, driveType := range []string{DriveTypeNextUp, DriveTypeUpcoming, DriveTypeCompleted} {
		out, err := s.ListByType(ctx, driveType)
		if err != nil {
			t.Fatalf("ListByType(%q) error: %v", driveType, err)
		}
		if len(out) != 1 {
			t.Fatalf("ListByType(%q): unexpected result %v", driveType, out)
		}
	}

	if _, err := s.ListByType(ctx, "someday"); !errors.Is(err, common.ErrInvalidDriveType) {
		t.Fatalf("expected ErrInvalidDriveType, got %v", err)
	}
}
