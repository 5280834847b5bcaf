package models

import (
	"time"
)

// UserID is nil for anonymous takers.
type TriviaResult struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	QuizID      uint      `json:"quiz_id" gorm:"not null;index"`
	UserID      *uint     `json:"user_id" gorm:"index"`
	Score       int       `json:"score" gorm:"not null"`
	Total       int       `json:"total" gorm:"not null"`
	CompletedAt time.Time `json:"completed_at" gorm:"autoCreateTime"`

	Quiz *Quiz `json:"-" gorm:"constraint:OnDelete:CASCADE"`
	User *User `json:"-" gorm:"constraint:OnDelete:SET NULL"`
}

func (TriviaResult) TableName() string { return "trivia_results" }

type PersonalityResult struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	QuizID      uint      `json:"quiz_id" gorm:"not null;index"`
	UserID      *uint     `json:"user_id" gorm:"index"`
	OutcomeID   uint      `json:"outcome_id" gorm:"not null"`
	CompletedAt time.Time `json:"completed_at" gorm:"autoCreateTime"`

	Quiz    *Quiz               `json:"-" gorm:"constraint:OnDelete:CASCADE"`
	User    *User               `json:"-" gorm:"constraint:OnDelete:SET NULL"`
	Outcome *PersonalityOutcome `json:"-" gorm:"constraint:OnDelete:CASCADE"`
}

func (PersonalityResult) TableName() string { return "personality_results" }
