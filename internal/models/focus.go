package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Focus holds the accumulated focus points of a study.
type Focus struct {
	ID      uuid.UUID `gorm:"type:char(36);primaryKey" json:"id"`
	StudyID uuid.UUID `gorm:"type:char(36);uniqueIndex;not null" json:"studyId"`
	Points  int64     `gorm:"not null;default:0" json:"points"`
}

func (f *Focus) BeforeCreate(tx *gorm.DB) error {
	if f.ID == uuid.Nil {
		f.ID = uuid.New()
	}
	return nil
}

func (Focus) TableName() string {
	return "focuses"
}
