package models

// Questions are ordered by id within their quiz.

type TriviaQuestion struct {
	ID       uint   `json:"id" gorm:"primaryKey"`
	QuizID   uint   `json:"quiz_id" gorm:"not null;index"`
	Question string `json:"question" gorm:"not null"`

	Quiz *Quiz `json:"-" gorm:"constraint:OnDelete:CASCADE"`
}

func (TriviaQuestion) TableName() string { return "trivia_questions" }

type PersonalityQuestion struct {
	ID       uint   `json:"id" gorm:"primaryKey"`
	QuizID   uint   `json:"quiz_id" gorm:"not null;index"`
	Question string `json:"question" gorm:"not null"`

	Quiz *Quiz `json:"-" gorm:"constraint:OnDelete:CASCADE"`
}

func (PersonalityQuestion) TableName() string { return "personality_questions" }
