package study

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// PracticeAttempt is a graded practice run. SubjectName is free text and is only
// matched against subjects when detecting weak areas.
type PracticeAttempt struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID          uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	SubjectName     string    `gorm:"column:subject_name;not null" json:"subject_name"`
	GradePct        *float64  `gorm:"column:grade_pct" json:"grade_pct,omitempty"`
	StartedAt       time.Time `gorm:"column:started_at;not null" json:"started_at"`
	DurationSeconds int       `gorm:"column:duration_seconds;not null" json:"duration_seconds"`
	CreatedAt       time.Time `gorm:"not null" json:"created_at"`
}

func (PracticeAttempt) TableName() string { return "practice_attempt" }

func (p *PracticeAttempt) BeforeCreate(tx *gorm.DB) error {
	ensureID(&p.ID)
	p.StartedAt = p.StartedAt.UTC()
	return nil
}

type SleepLog struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_sleep_user_date" json:"user_id"`
	Date      string    `gorm:"column:date;type:varchar(10);not null;uniqueIndex:idx_sleep_user_date" json:"date"`
	Hours     float64   `gorm:"column:hours;not null" json:"hours"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (SleepLog) TableName() string { return "sleep_log" }

func (s *SleepLog) BeforeCreate(tx *gorm.DB) error {
	ensureID(&s.ID)
	return nil
}

// TimerState is the database fallback for the study timer snapshot.
type TimerState struct {
	UserID    uuid.UUID      `gorm:"type:uuid;primaryKey" json:"user_id"`
	Payload   datatypes.JSON `gorm:"column:payload;not null" json:"payload"`
	UpdatedAt time.Time      `gorm:"not null" json:"updated_at"`
}

func (TimerState) TableName() string { return "timer_state" }
