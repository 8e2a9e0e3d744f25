package study

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	TaskStatusPending    = "pending"
	TaskStatusCompleted  = "completed"
	TaskStatusSkipped    = "skipped"
	TaskStatusInProgress = "in_progress"

	PlanStatusActive   = "active"
	PlanStatusArchived = "archived"
)

func ValidTaskStatus(s string) bool {
	switch s {
	case TaskStatusPending, TaskStatusCompleted, TaskStatusSkipped, TaskStatusInProgress:
		return true
	}
	return false
}

type StudyPlan struct {
	ID            uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	UserID        uuid.UUID      `gorm:"type:uuid;not null;index" json:"user_id"`
	Title         string         `gorm:"column:title;not null" json:"title"`
	StartDate     string         `gorm:"column:start_date;type:varchar(10);not null" json:"start_date"`
	EndDate       string         `gorm:"column:end_date;type:varchar(10);not null" json:"end_date"`
	Status        string         `gorm:"column:status;not null;index" json:"status"`
	AutoGenerated bool           `gorm:"column:auto_generated;not null" json:"auto_generated"`
	Metadata      datatypes.JSON `gorm:"column:metadata" json:"metadata,omitempty"`
	CreatedAt     time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt     time.Time      `gorm:"not null" json:"updated_at"`
}

func (StudyPlan) TableName() string { return "study_plan" }

func (p *StudyPlan) BeforeCreate(tx *gorm.DB) error {
	ensureID(&p.ID)
	if p.Status == "" {
		p.Status = PlanStatusActive
	}
	return nil
}

// PlanTask is one schedulable unit of work. ScheduledDate is a timezone-naive
// calendar day ("2006-01-02"); StartTime is "15:04" when set.
type PlanTask struct {
	ID              uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	UserID          uuid.UUID      `gorm:"type:uuid;not null;index:idx_task_user_date,priority:1" json:"user_id"`
	PlanID          uuid.UUID      `gorm:"type:uuid;not null;index" json:"plan_id"`
	Plan            *StudyPlan     `gorm:"constraint:OnDelete:CASCADE;foreignKey:PlanID;references:ID" json:"-"`
	SubjectID       *uuid.UUID     `gorm:"type:uuid;index" json:"subject_id,omitempty"`
	Subject         *Subject       `gorm:"constraint:OnDelete:SET NULL;foreignKey:SubjectID;references:ID" json:"subject,omitempty"`
	Title           string         `gorm:"column:title;not null" json:"title"`
	ScheduledDate   string         `gorm:"column:scheduled_date;type:varchar(10);not null;index:idx_task_user_date,priority:2" json:"scheduled_date"`
	StartTime       *string        `gorm:"column:start_time;type:varchar(5)" json:"start_time,omitempty"`
	DurationMinutes int            `gorm:"column:duration_minutes;not null" json:"duration_minutes"`
	Status          string         `gorm:"column:status;not null;index" json:"status"`
	Priority        int            `gorm:"column:priority;not null" json:"priority"`
	OrderIndex      int            `gorm:"column:order_index;not null" json:"order_index"`
	IsReview        bool           `gorm:"column:is_review;not null" json:"is_review"`
	Metadata        datatypes.JSON `gorm:"column:metadata" json:"metadata,omitempty"`
	CompletedAt     *time.Time     `gorm:"column:completed_at" json:"completed_at,omitempty"`
	CreatedAt       time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt       time.Time      `gorm:"not null" json:"updated_at"`
}

func (PlanTask) TableName() string { return "plan_task" }

func (t *PlanTask) BeforeCreate(tx *gorm.DB) error {
	ensureID(&t.ID)
	if t.Status == "" {
		t.Status = TaskStatusPending
	}
	return nil
}
