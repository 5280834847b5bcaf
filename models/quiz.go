package models

import (
	"time"
)

const (
	QuizTypeTrivia      = "trivia"
	QuizTypePersonality = "personality"
)

type Quiz struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	CreatorID   uint      `json:"creator_id" gorm:"not null;index"`
	Title       string    `json:"title" gorm:"not null"`
	Photo       string    `json:"photo"`
	Listed      bool      `json:"listed" gorm:"not null;default:true"`
	URL         string    `json:"url" gorm:"column:url;size:16;uniqueIndex;not null"`
	Category    string    `json:"category" gorm:"not null;index"`
	Type        string    `json:"type" gorm:"not null;index"` // trivia, personality
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`

	Creator *User `json:"-" gorm:"foreignKey:CreatorID;constraint:OnDelete:CASCADE"`
}

func (Quiz) TableName() string { return "quizzes" }

// IsTrivia reports whether answers carry a correctness flag rather than an
// outcome pointer.
func (q *Quiz) IsTrivia() bool {
	return q.Type == QuizTypeTrivia
}

// ValidQuizType reports whether t names one of the two quiz kinds.
func ValidQuizType(t string) bool {
	return t == QuizTypeTrivia || t == QuizTypePersonality
}
