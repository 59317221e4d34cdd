package models

// JD is the job-description text extracted from an uploaded PDF. One row per
// drive; re-uploading replaces the text. StorageKey points at the archived
// original in object storage and is empty when archiving is disabled.
type JD struct {
	ID         int64
	DriveID    int64
	Text       string
	StorageKey string
}

// Skill is one free-text skill belonging to a user. The list is normalized
// (lowercase, trimmed, distinct) and replaced wholesale on save.
type Skill struct {
	ID     int64
	UserID int64
	Skill  string
}
