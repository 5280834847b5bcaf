package models

import (
	"time"
)

// One rating per (user, quiz); the value is updated in place.
type Rating struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    uint      `json:"user_id" gorm:"not null;uniqueIndex:idx_ratings_user_quiz"`
	QuizID    uint      `json:"quiz_id" gorm:"not null;uniqueIndex:idx_ratings_user_quiz;index"`
	Rating    int       `json:"rating" gorm:"not null"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	User *User `json:"-" gorm:"constraint:OnDelete:CASCADE"`
	Quiz *Quiz `json:"-" gorm:"constraint:OnDelete:CASCADE"`
}

func (Rating) TableName() string { return "ratings" }
