package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Habit struct {
	ID        uuid.UUID `gorm:"type:char(36);primaryKey" json:"id"`
	StudyID   uuid.UUID `gorm:"type:char(36);not null;uniqueIndex:idx_habits_study_name,priority:1" json:"studyId"`
	Name      string    `gorm:"type:varchar(255);not null;uniqueIndex:idx_habits_study_name,priority:2" json:"name"`
	CreatedAt time.Time `json:"createdAt"`

	// Relations
	Completions []CompletedHabit `gorm:"foreignKey:HabitID;constraint:OnDelete:CASCADE" json:"-"`
}

// BeforeCreate assigns a time-ordered ID, which breaks created_at ties
func (h *Habit) BeforeCreate(tx *gorm.DB) error {
	if h.ID == uuid.Nil {
		id, err := uuid.NewV7()
		if err != nil {
			return err
		}
		h.ID = id
	}
	return nil
}

// CompletedHabit records that a habit was completed on one calendar day.
// CompletedOn repeats that day as YYYY-MM-DD so the (habit_id, completed_on)
// unique index can reject a second completion for the same day.
type CompletedHabit struct {
	ID          uuid.UUID `gorm:"type:char(36);primaryKey" json:"id"`
	HabitID     uuid.UUID `gorm:"type:char(36);not null;uniqueIndex:idx_completed_habits_habit_day,priority:1" json:"habitId"`
	StudyID     uuid.UUID `gorm:"type:char(36);not null" json:"studyId"`
	CompletedAt time.Time `gorm:"not null" json:"completedAt"`
	CompletedOn string    `gorm:"type:char(10);not null;uniqueIndex:idx_completed_habits_habit_day,priority:2" json:"-"`
}

func (c *CompletedHabit) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}
