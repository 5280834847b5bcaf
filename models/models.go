package models

// All lists every table in dependency order for AutoMigrate.
func All() []interface{} {
	return []interface{}{
		&User{},
		&Quiz{},
		&TriviaQuestion{},
		&TriviaAnswer{},
		&PersonalityOutcome{},
		&PersonalityQuestion{},
		&PersonalityAnswer{},
		&TriviaResult{},
		&PersonalityResult{},
		&Rating{},
		&Favourite{},
	}
}
