package service

import (
	"math"

	"github.com/Ravishyamsingh/Quiz-System/internal/model"
)

// GradeOutcome carries the deterministic grading result for one answer set.
type GradeOutcome struct {
	Score          int
	CorrectCount   int
	CorrectAnswers map[string]string
	Explanations   map[string]string
}

// Grade computes the score and feedback maps for a question set and an answer
// map. Pure and referentially transparent: same inputs, same output, no side
// effects. Questions are walked in the given (position) order; a question id
// missing from answers simply never matches. Score is the integer percentage
// with halves rounding up.
func Grade(questions []model.Question, answers map[string]string) GradeOutcome {
	outcome := GradeOutcome{
		CorrectAnswers: make(map[string]string, len(questions)),
		Explanations:   make(map[string]string, len(questions)),
	}

	for _, q := range questions {
		outcome.CorrectAnswers[q.ID] = q.CorrectAnswer
		outcome.Explanations[q.ID] = q.Explanation
		if answers[q.ID] == q.CorrectAnswer {
			outcome.CorrectCount++
		}
	}

	if len(questions) > 0 {
		outcome.Score = int(math.Round(float64(outcome.CorrectCount) / float64(len(questions)) * 100))
	}
	return outcome
}
