package models

import "time"

// Drive is a tracked company hiring event. Every drive belongs to exactly one
// user; ownership is enforced on every read and write.
type Drive struct {
	ID            int64
	UserID        int64
	CompanyName   string
	Role          string
	DriveDatetime time.Time
	OnCampus      bool
}

// Note is free-form text attached to a drive. Notes are replaced wholesale on
// each drive save.
type Note struct {
	ID        int64
	DriveID   int64
	Content   string
	Completed bool
}

// ChecklistItem is a to-do entry attached to a drive, replaced wholesale on
// each drive save like notes.
type ChecklistItem struct {
	ID        int64
	DriveID   int64
	Content   string
	Completed bool
}
