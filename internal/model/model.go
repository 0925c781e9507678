// Package model contains the struct definitions shared across packages.
package model

import "time"

// TaskStatus describes the bitácora task lifecycle. Tasks start pending and
// advance to completed once evidence lands.
type TaskStatus string

const (
	TaskPending    TaskStatus = "pending"
	TaskInProgress TaskStatus = "in_progress"
	TaskCompleted  TaskStatus = "completed"
)

// Valid reports whether s is one of the known task states.
func (s TaskStatus) Valid() bool {
	switch s {
	case TaskPending, TaskInProgress, TaskCompleted:
		return true
	}
	return false
}

// ApprovalStatus describes the review lifecycle of a solicitud.
type ApprovalStatus string

const (
	ApprovalPending  ApprovalStatus = "pending"
	ApprovalApproved ApprovalStatus = "approved"
	ApprovalRejected ApprovalStatus = "rejected"
)

// DocumentStatus tracks the archive mirroring lifecycle of a document.
type DocumentStatus string

const (
	DocumentStored        DocumentStatus = "stored"
	DocumentArchiving     DocumentStatus = "archiving"
	DocumentArchived      DocumentStatus = "archived"
	DocumentArchiveFailed DocumentStatus = "archive_failed"
)

// AttemptStatus is the outcome of a graded quiz attempt.
type AttemptStatus string

const (
	AttemptPassed AttemptStatus = "passed"
	AttemptFailed AttemptStatus = "failed"
)

// User is an account in the training platform.
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Role         string    `json:"role"`
	PositionID   *string   `json:"positionId,omitempty"`
	Position     string    `json:"position,omitempty"`
	Active       bool      `json:"active"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Position is a job role courses can be targeted at.
type Position struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Course delivers a video plus an optional quiz to a target position.
type Course struct {
	ID               string     `json:"id"`
	Title            string     `json:"title"`
	Description      string     `json:"description"`
	PositionID       *string    `json:"positionId,omitempty"`
	VideoURL         string     `json:"videoUrl"`
	Attempts         int        `json:"attempts"`
	TimeLimitMinutes int        `json:"timeLimitMinutes"`
	Questions        []Question `json:"questions,omitempty"`
	CreatedAt        time.Time  `json:"createdAt"`
	UpdatedAt        time.Time  `json:"updatedAt"`
}

// Question is a single quiz item. CorrectIndex points into Options.
type Question struct {
	ID           string   `json:"id"`
	CourseID     string   `json:"-"`
	Prompt       string   `json:"question"`
	Options      []string `json:"options"`
	CorrectIndex int      `json:"correctIndex"`
	Ordinal      int      `json:"-"`
}

// Attempt is one graded pass over a course quiz.
type Attempt struct {
	ID        string        `json:"id"`
	CourseID  string        `json:"courseId"`
	UserID    string        `json:"userId"`
	Score     int           `json:"score"`
	Total     int           `json:"total"`
	Status    AttemptStatus `json:"status"`
	CreatedAt time.Time     `json:"createdAt"`
}

// ProgressEntry is the dashboard's per-user-per-course view.
type ProgressEntry struct {
	UserID      string  `json:"userId"`
	UserName    string  `json:"userName"`
	Position    string  `json:"position"`
	CourseID    string  `json:"courseId"`
	CourseTitle string  `json:"courseTitle"`
	Score       *int    `json:"score"`
	Total       *int    `json:"total"`
	Status      *string `json:"status"`
	Attempts    int     `json:"attempts"`
}

// Task is a bitácora entry shown on the calendar.
type Task struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Status      TaskStatus `json:"status"`
	Deadline    time.Time  `json:"deadline"`
	AssigneeIDs []string   `json:"assigneeIds"`
	CreatedBy   string     `json:"createdBy"`
	Evidence    []Evidence `json:"evidence,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// Evidence is an uploaded proof attached to a task. The structured media
// triple is persisted alongside the URL so readers never have to re-derive it.
type Evidence struct {
	ID           string    `json:"id"`
	TaskID       string    `json:"taskId"`
	UserID       string    `json:"userId"`
	FileName     string    `json:"fileName"`
	URL          string    `json:"url"`
	PublicID     string    `json:"publicId"`
	ResourceType string    `json:"resourceType"`
	Format       string    `json:"format,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Document is a managed file hosted on the media host and mirrored into the
// archive bucket by the worker.
type Document struct {
	ID           string         `json:"id"`
	Title        string         `json:"title"`
	FileName     string         `json:"fileName"`
	URL          string         `json:"url"`
	PublicID     string         `json:"publicId"`
	ResourceType string         `json:"resourceType"`
	Format       string         `json:"format,omitempty"`
	Folder       string         `json:"folder"`
	Bytes        int64          `json:"bytes"`
	ArchiveKey   *string        `json:"archiveKey,omitempty"`
	Content      string         `json:"-"`
	Status       DocumentStatus `json:"status"`
	OwnerID      string         `json:"ownerId"`
	ErrorMessage *string        `json:"errorMessage,omitempty"`
	CreatedAt    time.Time      `json:"createdAt"`
	UpdatedAt    time.Time      `json:"updatedAt"`
}

// Approval is a solicitud reviewed by an admin.
type Approval struct {
	ID          string         `json:"id"`
	RequesterID string         `json:"requesterId"`
	Requester   string         `json:"requester,omitempty"`
	ContentType string         `json:"contentType"`
	Context     string         `json:"context"`
	Status      ApprovalStatus `json:"status"`
	Comment     *string        `json:"comment,omitempty"`
	ReviewedBy  *string        `json:"reviewedBy,omitempty"`
	ReviewedAt  *time.Time     `json:"reviewedAt,omitempty"`
	CreatedAt   time.Time      `json:"createdAt"`
}

// MediaAsset records every gateway upload with its structured triple. The URL
// is a cached rendering; public_id/resource_type/format are the source of truth.
type MediaAsset struct {
	ID           string    `json:"id"`
	URL          string    `json:"url"`
	PublicID     string    `json:"publicId"`
	ResourceType string    `json:"resourceType"`
	Format       string    `json:"format,omitempty"`
	Folder       string    `json:"folder"`
	Bytes        int64     `json:"bytes"`
	OwnerID      string    `json:"ownerId"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Stats backs the admin dashboard cards.
type Stats struct {
	TotalUsers       int `json:"totalUsers"`
	ActiveUsers      int `json:"activeUsers"`
	TotalCourses     int `json:"totalCourses"`
	TasksPending     int `json:"tasksPending"`
	TasksInProgress  int `json:"tasksInProgress"`
	TasksCompleted   int `json:"tasksCompleted"`
	TotalDocuments   int `json:"totalDocuments"`
	PendingApprovals int `json:"pendingApprovals"`
}
