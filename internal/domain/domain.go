package domain

import "time"

type RoomType string

const (
	RoomClassroom RoomType = "classroom"
	RoomLab       RoomType = "lab"
	RoomSeminar   RoomType = "seminar"
)

// Room is a physical teaching space. Lab subjects may only be assigned to
// lab rooms and non-lab subjects never are.
type Room struct {
	ID       uint     `gorm:"primaryKey"`
	Name     string   `gorm:"size:64;uniqueIndex;not null"`
	Capacity int      `gorm:"not null"`
	Type     RoomType `gorm:"size:32;not null;default:classroom"`
}

func (r Room) IsLab() bool {
	return r.Type == RoomLab
}

// Batch is a cohort of students progressing through one semester together.
// Subjects are matched to a batch only when their semester markers are equal.
type Batch struct {
	ID       uint   `gorm:"primaryKey"`
	Name     string `gorm:"size:64;not null"`
	Program  string `gorm:"size:128;not null"`
	Semester int    `gorm:"not null"`
	Size     int    `gorm:"not null"`
}

type Subject struct {
	ID             uint   `gorm:"primaryKey"`
	Code           string `gorm:"size:32;uniqueIndex;not null"`
	Name           string `gorm:"size:128;not null"`
	Semester       int    `gorm:"not null"`
	ClassesPerWeek int    `gorm:"not null"`
	IsLab          bool   `gorm:"not null;default:false"`
}

// Faculty teaches only subjects it is explicitly qualified for through
// FacultySubject rows. MaxLoadPerWeek is advisory: the analyzer reports
// overload but generation never enforces it; 0 means no ceiling set.
type Faculty struct {
	ID             uint   `gorm:"primaryKey"`
	Code           string `gorm:"size:32;uniqueIndex;not null"`
	Name           string `gorm:"size:128;not null"`
	MaxLoadPerWeek int    `gorm:"not null;default:16"`
}

// FacultySubject is the explicit qualification mapping; it is never inferred.
type FacultySubject struct {
	ID        uint `gorm:"primaryKey"`
	FacultyID uint `gorm:"not null;index"`
	SubjectID uint `gorm:"not null;index"`
}

// Timeslot is one cell of the weekly grid. Start and end are HH:MM so that
// lexicographic order matches chronological order within a day. On each
// teaching day exactly two adjacent slots are designated lunch candidates;
// the solver picks which of the two stays empty per batch.
type Timeslot struct {
	ID             uint   `gorm:"primaryKey"`
	DayOfWeek      int    `gorm:"not null;index"` // 0=Mon .. 6=Sun
	StartTime      string `gorm:"size:5;not null"`
	EndTime        string `gorm:"size:5;not null"`
	LunchCandidate bool   `gorm:"not null;default:false"`
}

type ApprovalStatus string

const (
	ApprovalPending  ApprovalStatus = "PENDING"
	ApprovalApproved ApprovalStatus = "APPROVED"
	ApprovalRejected ApprovalStatus = "REJECTED"
)

// FacultyUnavailability is an append-only event. A nil TimeslotID means the
// whole day is blocked. Only APPROVED rows affect scheduling and recovery.
type FacultyUnavailability struct {
	ID         uint           `gorm:"primaryKey"`
	FacultyID  uint           `gorm:"not null;index"`
	DayOfWeek  int            `gorm:"not null"`
	TimeslotID *uint          // nil = whole day
	Reason     string         `gorm:"size:255"`
	Status     ApprovalStatus `gorm:"size:20;not null;default:PENDING"`
	CreatedAt  time.Time
}

type EntryStatus string

const (
	EntryNormal      EntryStatus = "NORMAL"
	EntryReplacement EntryStatus = "RESCHEDULED_REPLACEMENT"
	EntryMoved       EntryStatus = "RESCHEDULED_MOVED"
	EntryCancelled   EntryStatus = "CANCELLED"
)

// Timetable is a versioned container that exclusively owns its entries.
// Generation creates a fresh active timetable and deactivates predecessors.
type Timetable struct {
	ID        uint   `gorm:"primaryKey"`
	Name      string `gorm:"size:128;not null"`
	IsActive  bool   `gorm:"not null;default:true;index"`
	CreatedAt time.Time
	Entries   []TimetableEntry `gorm:"constraint:OnDelete:CASCADE"`
}

// TimetableEntry is one weekly session. The writer creates entries as NORMAL;
// only the recovery engine mutates faculty/timeslot/status afterwards.
// Entries are never deleted individually: a cancelled session is kept with
// status CANCELLED so the history stays auditable.
type TimetableEntry struct {
	ID          uint        `gorm:"primaryKey"`
	TimetableID uint        `gorm:"not null;index"`
	BatchID     uint        `gorm:"not null;index"`
	SubjectID   uint        `gorm:"not null"`
	FacultyID   uint        `gorm:"not null;index"`
	RoomID      uint        `gorm:"not null"`
	TimeslotID  uint        `gorm:"not null;index"`
	Status      EntryStatus `gorm:"size:30;not null;default:NORMAL"`
}

// Active reports whether the entry still occupies its room/faculty/batch.
func (e TimetableEntry) Active() bool {
	return e.Status != EntryCancelled
}
