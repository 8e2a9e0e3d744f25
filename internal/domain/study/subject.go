package study

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Subject struct {
	ID     uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:idx_subject_user_key" json:"user_id"`
	Name   string    `gorm:"column:name;not null" json:"name"`
	// NameKey is the natural key used for upserts: lower-cased, trimmed name.
	NameKey   string    `gorm:"column:name_key;not null;uniqueIndex:idx_subject_user_key" json:"-"`
	Color     string    `gorm:"column:color;not null" json:"color"`
	Active    bool      `gorm:"column:active;not null" json:"active"`
	CreatedAt time.Time `gorm:"not null;index" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (Subject) TableName() string { return "subject" }

func (s *Subject) BeforeCreate(tx *gorm.DB) error {
	ensureID(&s.ID)
	if s.NameKey == "" {
		s.NameKey = SubjectKey(s.Name)
	}
	return nil
}

// SubjectKey normalizes a free-text subject name for matching.
func SubjectKey(name string) string {
	return strings.ToLower(strings.Join(strings.Fields(name), " "))
}
