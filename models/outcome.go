package models

type PersonalityOutcome struct {
	ID          uint   `json:"id" gorm:"primaryKey"`
	QuizID      uint   `json:"quiz_id" gorm:"not null;index"`
	Title       string `json:"title" gorm:"not null"`
	Photo       string `json:"photo"`
	Description string `json:"description"`

	Quiz *Quiz `json:"-" gorm:"constraint:OnDelete:CASCADE"`
}

func (PersonalityOutcome) TableName() string { return "personality_outcomes" }
