package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Study struct {
	ID           uuid.UUID `gorm:"type:char(36);primaryKey" json:"id"`
	Name         string    `gorm:"type:varchar(255);not null" json:"name"`
	Nickname     string    `gorm:"type:varchar(255);not null" json:"nickname"`
	Intro        string    `gorm:"type:text" json:"intro"`
	Background   string    `gorm:"type:varchar(255)" json:"background"`
	PasswordHash string    `gorm:"type:varchar(255);not null" json:"-"`
	CreatedAt    time.Time `gorm:"index" json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`

	// Relations
	Focus           *Focus           `gorm:"foreignKey:StudyID;constraint:OnDelete:CASCADE" json:"-"`
	Habits          []Habit          `gorm:"foreignKey:StudyID;constraint:OnDelete:CASCADE" json:"-"`
	CompletedHabits []CompletedHabit `gorm:"foreignKey:StudyID;constraint:OnDelete:CASCADE" json:"-"`
}

func (s *Study) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// Points returns the study's focus total, zero when the focus row was not loaded.
func (s Study) Points() int64 {
	if s.Focus == nil {
		return 0
	}
	return s.Focus.Points
}
