package models

import (
	"time"
)

type Favourite struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    uint      `json:"user_id" gorm:"not null;uniqueIndex:idx_favourites_user_quiz"`
	QuizID    uint      `json:"quiz_id" gorm:"not null;uniqueIndex:idx_favourites_user_quiz;index"`
	CreatedAt time.Time `json:"created_at"`

	User *User `json:"-" gorm:"constraint:OnDelete:CASCADE"`
	Quiz *Quiz `json:"-" gorm:"constraint:OnDelete:CASCADE"`
}

func (Favourite) TableName() string { return "favourites" }
