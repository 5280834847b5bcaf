package services

import (
	"fmt"
	"strconv"
	"strings"
)

// Submitted quiz content arrives as flat form fields keyed by position:
//
//	count, question{i}, a{i}..d{i}, correct{i}              (trivia)
//	outcome_count, outcome{j}, outcome_photo{j},
//	outcome_description{j}, count, question{i},
//	a{i}..d{i}, a{i}_outcome..d{i}_outcome                  (personality)
//
// Indexes start at 1. The reshape functions turn those fields into parallel
// arrays and reject anything malformed before a row is written.

const (
	answersPerQuestion = 4
	maxQuestions       = 100
	maxOutcomes        = 20
)

var answerLetters = [answersPerQuestion]string{"a", "b", "c", "d"}

// TriviaContent holds the parallel arrays of a trivia quiz. Correct[i] is the
// 1-based index of the correct answer of Questions[i].
type TriviaContent struct {
	Questions []string
	Answers   [][answersPerQuestion]string
	Correct   []int
}

type OutcomeDefinition struct {
	Title       string
	Photo       string
	Description string
}

// PersonalityContent holds the parallel arrays of a personality quiz.
// Pointers[i][k] is the title of the outcome answer k of question i votes for.
type PersonalityContent struct {
	Outcomes  []OutcomeDefinition
	Questions []string
	Answers   [][answersPerQuestion]string
	Pointers  [][answersPerQuestion]string
}

func field(fields map[string]string, key string) string {
	return strings.TrimSpace(fields[key])
}

// countField reads a declared count in 1..limit.
func countField(fields map[string]string, key string, limit int) (int, error) {
	raw := field(fields, key)
	if raw == "" {
		return 0, invalidf("%s is required", key)
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return 0, invalidf("%s must be a positive integer", key)
	}
	if n > limit {
		return 0, invalidf("%s must be at most %d", key, limit)
	}
	return n, nil
}

// questionsAndAnswers reads question{i} and its four answers for i in 1..count.
func questionsAndAnswers(fields map[string]string, count int) ([]string, [][answersPerQuestion]string, error) {
	var questions []string
	var answers [][answersPerQuestion]string
	for i := 1; i <= count; i++ {
		question := field(fields, fmt.Sprintf("question%d", i))
		if question == "" {
			return nil, nil, invalidf("question%d is required", i)
		}
		var row [answersPerQuestion]string
		for k, letter := range answerLetters {
			key := fmt.Sprintf("%s%d", letter, i)
			row[k] = field(fields, key)
			if row[k] == "" {
				return nil, nil, invalidf("%s is required", key)
			}
		}
		questions = append(questions, question)
		answers = append(answers, row)
	}
	return questions, answers, nil
}

// SortTrivia reshapes trivia form fields into parallel arrays.
func SortTrivia(fields map[string]string) (*TriviaContent, error) {
	count, err := countField(fields, "count", maxQuestions)
	if err != nil {
		return nil, err
	}
	questions, answers, err := questionsAndAnswers(fields, count)
	if err != nil {
		return nil, err
	}

	var correct []int
	for i := 1; i <= count; i++ {
		key := fmt.Sprintf("correct%d", i)
		n, err := strconv.Atoi(field(fields, key))
		if err != nil || n < 1 || n > answersPerQuestion {
			return nil, invalidf("%s must be between 1 and %d", key, answersPerQuestion)
		}
		correct = append(correct, n)
	}

	return &TriviaContent{Questions: questions, Answers: answers, Correct: correct}, nil
}

// SortPersonality reshapes personality form fields into outcome definitions
// and parallel question/answer/pointer arrays. Every pointer must name one of
// the declared outcomes.
func SortPersonality(fields map[string]string) (*PersonalityContent, error) {
	outcomeCount, err := countField(fields, "outcome_count", maxOutcomes)
	if err != nil {
		return nil, err
	}

	var outcomes []OutcomeDefinition
	titles := make(map[string]bool)
	for j := 1; j <= outcomeCount; j++ {
		title := field(fields, fmt.Sprintf("outcome%d", j))
		if title == "" {
			return nil, invalidf("outcome%d is required", j)
		}
		if titles[title] {
			return nil, invalidf("outcome title %q is declared twice", title)
		}
		titles[title] = true
		outcomes = append(outcomes, OutcomeDefinition{
			Title:       title,
			Photo:       field(fields, fmt.Sprintf("outcome_photo%d", j)),
			Description: field(fields, fmt.Sprintf("outcome_description%d", j)),
		})
	}

	count, err := countField(fields, "count", maxQuestions)
	if err != nil {
		return nil, err
	}
	questions, answers, err := questionsAndAnswers(fields, count)
	if err != nil {
		return nil, err
	}

	var pointers [][answersPerQuestion]string
	for i := 1; i <= count; i++ {
		var row [answersPerQuestion]string
		for k, letter := range answerLetters {
			key := fmt.Sprintf("%s%d_outcome", letter, i)
			row[k] = field(fields, key)
			if !titles[row[k]] {
				return nil, invalidf("%s must name a declared outcome", key)
			}
		}
		pointers = append(pointers, row)
	}

	return &PersonalityContent{
		Outcomes:  outcomes,
		Questions: questions,
		Answers:   answers,
		Pointers:  pointers,
	}, nil
}
