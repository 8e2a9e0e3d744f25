package study

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	SessionStatusCompleted = "completed"

	SessionSourceTimer  = "timer"
	SessionSourceManual = "manual"
)

// Session is a completed study interval. DurationSeconds is already net of breaks.
type Session struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID          uuid.UUID `gorm:"type:uuid;not null;index:idx_session_user_started,priority:1" json:"user_id"`
	SubjectID       uuid.UUID `gorm:"type:uuid;not null;index" json:"subject_id"`
	Subject         *Subject  `gorm:"constraint:OnDelete:CASCADE;foreignKey:SubjectID;references:ID" json:"subject,omitempty"`
	StartedAt       time.Time `gorm:"column:started_at;not null;index:idx_session_user_started,priority:2" json:"started_at"`
	EndedAt         time.Time `gorm:"column:ended_at;not null" json:"ended_at"`
	DurationSeconds int       `gorm:"column:duration_seconds;not null" json:"duration_seconds"`
	Status          string    `gorm:"column:status;not null" json:"status"`
	Source          string    `gorm:"column:source;not null" json:"source"`
	CreatedAt       time.Time `gorm:"not null" json:"created_at"`
}

func (Session) TableName() string { return "study_session" }

func (s *Session) BeforeCreate(tx *gorm.DB) error {
	ensureID(&s.ID)
	s.StartedAt = s.StartedAt.UTC()
	s.EndedAt = s.EndedAt.UTC()
	if s.Status == "" {
		s.Status = SessionStatusCompleted
	}
	if s.Source == "" {
		s.Source = SessionSourceManual
	}
	return nil
}

const (
	BreakTypePrayer = "prayer"
	BreakTypeMeal   = "meal"
	BreakTypeRest   = "rest"
)

func ValidBreakType(t string) bool {
	switch t {
	case BreakTypePrayer, BreakTypeMeal, BreakTypeRest:
		return true
	}
	return false
}

type Break struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID          uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	SessionID       uuid.UUID `gorm:"type:uuid;not null;index" json:"session_id"`
	Session         *Session  `gorm:"constraint:OnDelete:CASCADE;foreignKey:SessionID;references:ID" json:"-"`
	Type            string    `gorm:"column:type;not null" json:"type"`
	StartedAt       time.Time `gorm:"column:started_at;not null;index" json:"started_at"`
	DurationSeconds int       `gorm:"column:duration_seconds;not null" json:"duration_seconds"`
	CreatedAt       time.Time `gorm:"not null" json:"created_at"`
}

func (Break) TableName() string { return "study_break" }

func (b *Break) BeforeCreate(tx *gorm.DB) error {
	ensureID(&b.ID)
	b.StartedAt = b.StartedAt.UTC()
	return nil
}
