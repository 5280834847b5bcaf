package models

type TriviaAnswer struct {
	ID         uint   `json:"id" gorm:"primaryKey"`
	QuestionID uint   `json:"question_id" gorm:"not null;index"`
	Answer     string `json:"answer" gorm:"not null"`
	IsCorrect  bool   `json:"is_correct" gorm:"not null;default:false"`

	Question *TriviaQuestion `json:"-" gorm:"constraint:OnDelete:CASCADE"`
}

func (TriviaAnswer) TableName() string { return "trivia_answers" }

// PersonalityAnswer points to the outcome it votes for instead of carrying
// a correctness flag.
type PersonalityAnswer struct {
	ID         uint   `json:"id" gorm:"primaryKey"`
	QuestionID uint   `json:"question_id" gorm:"not null;index"`
	OutcomeID  uint   `json:"outcome_id" gorm:"not null;index"`
	Answer     string `json:"answer" gorm:"not null"`

	Question *PersonalityQuestion `json:"-" gorm:"constraint:OnDelete:CASCADE"`
	Outcome  *PersonalityOutcome  `json:"-" gorm:"constraint:OnDelete:CASCADE"`
}

func (PersonalityAnswer) TableName() string { return "personality_answers" }
