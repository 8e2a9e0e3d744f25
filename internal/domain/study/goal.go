package study

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Goal is a deadline with a daily target. At most one goal per user is active;
// activation deactivates the rest (enforced by the service, not a constraint).
type Goal struct {
	ID          uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	UserID      uuid.UUID      `gorm:"type:uuid;not null;index" json:"user_id"`
	Title       string         `gorm:"column:title;not null" json:"title"`
	TargetDate  string         `gorm:"column:target_date;type:varchar(10);not null" json:"target_date"`
	HoursPerDay float64        `gorm:"column:hours_per_day;not null" json:"hours_per_day"`
	SubjectIDs  datatypes.JSON `gorm:"column:subject_ids" json:"subject_ids,omitempty"`
	Active      bool           `gorm:"column:active;not null;index" json:"active"`
	CreatedAt   time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"not null" json:"updated_at"`
}

func (Goal) TableName() string { return "goal" }

func (g *Goal) BeforeCreate(tx *gorm.DB) error {
	ensureID(&g.ID)
	return nil
}

// LinkedSubjects decodes SubjectIDs, skipping malformed entries.
func (g *Goal) LinkedSubjects() []uuid.UUID {
	if g == nil || len(g.SubjectIDs) == 0 {
		return nil
	}
	var raw []string
	if err := json.Unmarshal(g.SubjectIDs, &raw); err != nil {
		return nil
	}
	out := make([]uuid.UUID, 0, len(raw))
	for _, s := range raw {
		if id, err := uuid.Parse(s); err == nil {
			out = append(out, id)
		}
	}
	return out
}

func EncodeSubjectIDs(ids []uuid.UUID) datatypes.JSON {
	raw := make([]string, 0, len(ids))
	for _, id := range ids {
		raw = append(raw, id.String())
	}
	b, _ := json.Marshal(raw)
	return datatypes.JSON(b)
}
