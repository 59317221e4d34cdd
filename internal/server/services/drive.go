package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/adithya/trackfolio/internal/common"
	"github.com/adithya/trackfolio/internal/dbx"
	"github.com/adithya/trackfolio/internal/server/auth"
	"github.com/adithya/trackfolio/internal/server/models"
	"github.com/adithya/trackfolio/internal/server/repositories/repomanager"
)

// Drive type filters for ListByType.
const (
	DriveTypeNextUp    = "nextup"
	DriveTypeUpcoming  = "upcoming"
	DriveTypeCompleted = "completed"
)

// DriveDetails is a drive together with its notes and checklist items, the
// unit the fetch and save operations work in.
type DriveDetails struct {
	Drive     *models.Drive
	Notes     []*models.Note
	Checklist []*models.ChecklistItem
}

// DriveService manages drive summaries and their attached notes and checklist
// items. Every operation resolves the principal from the context and enforces
// ownership: a missing drive is ErrDriveNotFound, someone else's drive is
// ErrNotDriveOwner.
type DriveService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

// NewDriveService constructs a DriveService.
func NewDriveService(db *sql.DB, m repomanager.RepositoryManager) *DriveService {
	return &DriveService{db: db, repomanager: m}
}

// Save creates or updates a drive with its notes and checklist, all in one
// transaction. Notes and checklist items are replaced wholesale. isUpdate
// selects between insert and update-in-place; updates require ownership of
// the existing row.
func (s *DriveService) Save(ctx context.Context, details *DriveDetails, isUpdate bool) (*DriveDetails, error) {
	principal, err := auth.CurrentPrincipal(ctx)
	if err != nil {
		return nil, err
	}

	drive := details.Drive
	drive.UserID = principal.UserID

	if isUpdate {
		if _, err := s.ownedDrive(ctx, s.db, principal, drive.ID); err != nil {
			return nil, err
		}
	}

	if err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		driveRepo := s.repomanager.Drives(tx)
		if isUpdate {
			if err := driveRepo.Update(ctx, drive); err != nil {
				return fmt.Errorf("error updating drive: %w", err)
			}
		} else {
			created, err := driveRepo.Create(ctx, drive)
			if err != nil {
				return fmt.Errorf("error creating drive: %w", err)
			}
			drive = created
		}

		noteRepo := s.repomanager.Notes(tx)
		if err := noteRepo.DeleteByDrive(ctx, drive.ID); err != nil {
			return fmt.Errorf("error clearing notes: %w", err)
		}
		if err := noteRepo.CreateBatch(ctx, drive.ID, details.Notes); err != nil {
			return fmt.Errorf("error saving notes: %w", err)
		}

		checklistRepo := s.repomanager.Checklists(tx)
		if err := checklistRepo.DeleteByDrive(ctx, drive.ID); err != nil {
			return fmt.Errorf("error clearing checklist: %w", err)
		}
		if err := checklistRepo.CreateBatch(ctx, drive.ID, details.Checklist); err != nil {
			return fmt.Errorf("error saving checklist: %w", err)
		}
		return nil
	}); err != nil {
		return nil, err
	}

	return s.Fetch(ctx, drive.ID)
}

// Fetch returns a drive with its notes and checklist items.
func (s *DriveService) Fetch(ctx context.Context, driveID int64) (*DriveDetails, error) {
	principal, err := auth.CurrentPrincipal(ctx)
	if err != nil {
		return nil, err
	}

	drive, err := s.ownedDrive(ctx, s.db, principal, driveID)
	if err != nil {
		return nil, err
	}

	driveNotes, err := s.repomanager.Notes(s.db).ListByDrive(ctx, driveID)
	if err != nil {
		return nil, fmt.Errorf("error listing notes: %w", err)
	}
	items, err := s.repomanager.Checklists(s.db).ListByDrive(ctx, driveID)
	if err != nil {
		return nil, fmt.Errorf("error listing checklist: %w", err)
	}

	return &DriveDetails{Drive: drive, Notes: driveNotes, Checklist: items}, nil
}

// Delete removes a drive and its JD, notes, and checklist rows in one
// transaction.
func (s *DriveService) Delete(ctx context.Context, driveID int64) error {
	principal, err := auth.CurrentPrincipal(ctx)
	if err != nil {
		return err
	}

	if _, err := s.ownedDrive(ctx, s.db, principal, driveID); err != nil {
		return err
	}

	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.repomanager.JDs(tx).DeleteByDrive(ctx, driveID); err != nil {
			return fmt.Errorf("error deleting jd: %w", err)
		}
		if err := s.repomanager.Notes(tx).DeleteByDrive(ctx, driveID); err != nil {
			return fmt.Errorf("error deleting notes: %w", err)
		}
		if err := s.repomanager.Checklists(tx).DeleteByDrive(ctx, driveID); err != nil {
			return fmt.Errorf("error deleting checklist: %w", err)
		}
		if err := s.repomanager.Drives(tx).Delete(ctx, driveID); err != nil {
			return fmt.Errorf("error deleting drive: %w", err)
		}
		return nil
	})
}

// ListByDate returns the user's drives scheduled on the given calendar day.
func (s *DriveService) ListByDate(ctx context.Context, date time.Time) ([]*models.Drive, error) {
	principal, err := auth.CurrentPrincipal(ctx)
	if err != nil {
		return nil, err
	}
	from := startOfDay(date)
	return s.repomanager.Drives(s.db).ListByUserBetween(ctx, principal.UserID, from, from.AddDate(0, 0, 1))
}

// ListByType returns the user's drives in one of three windows: "nextup"
// covers today and tomorrow, "upcoming" everything after tomorrow, and
// "completed" everything before today. Any other value is
// common.ErrInvalidDriveType.
func (s *DriveService) ListByType(ctx context.Context, driveType string) ([]*models.Drive, error) {
	principal, err := auth.CurrentPrincipal(ctx)
	if err != nil {
		return nil, err
	}

	repo := s.repomanager.Drives(s.db)
	today := startOfDay(time.Now())

	switch driveType {
	case DriveTypeNextUp:
		return repo.ListByUserBetween(ctx, principal.UserID, today, today.AddDate(0, 0, 2))
	case DriveTypeUpcoming:
		return repo.ListByUserAfter(ctx, principal.UserID, today.AddDate(0, 0, 2))
	case DriveTypeCompleted:
		return repo.ListByUserBefore(ctx, principal.UserID, today)
	default:
		return nil, common.ErrInvalidDriveType
	}
}

// FindByCompany returns the user's drives for the given company name.
func (s *DriveService) FindByCompany(ctx context.Context, companyName string) ([]*models.Drive, error) {
	principal, err := auth.CurrentPrincipal(ctx)
	if err != nil {
		return nil, err
	}
	return s.repomanager.Drives(s.db).ListByUserAndCompany(ctx, principal.UserID, companyName)
}

// ownedDrive loads a drive and checks the principal owns it.
func (s *DriveService) ownedDrive(ctx context.Context, db dbx.DBTX, principal *auth.Principal, driveID int64) (*models.Drive, error) {
	drive, err := s.repomanager.Drives(db).GetByID(ctx, driveID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrDriveNotFound
		}
		return nil, fmt.Errorf("error searching drive: %w", err)
	}
	if drive.UserID != principal.UserID {
		return nil, common.ErrNotDriveOwner
	}
	return drive, nil
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
