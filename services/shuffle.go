package services

import (
	"math/rand"
)

// Shuffle returns a shuffled copy of items (Fisher-Yates); items is untouched.
func Shuffle[T any](items []T) []T {
	shuffled := make([]T, len(items))
	copy(shuffled, items)
	for i := len(shuffled) - 1; i > 0; i-- {
		j := rand.Intn(i + 1)
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	}
	return shuffled
}

// shuffleWithinQuestions shuffles each run of answers sharing a question,
// keeping the runs themselves in place. answers must be grouped by question.
func shuffleWithinQuestions[T any](answers []T, questionOf func(T) uint) []T {
	out := make([]T, 0, len(answers))
	start := 0
	for i := 1; i <= len(answers); i++ {
		if i == len(answers) || questionOf(answers[i]) != questionOf(answers[start]) {
			out = append(out, Shuffle(answers[start:i])...)
			start = i
		}
	}
	return out
}
