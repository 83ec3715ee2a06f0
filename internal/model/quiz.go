package model

import "time"

// Collection names used by the quiz lifecycle.
const (
	CollectionQuizzes   = "quizzes"
	CollectionQuestions = "questions"
	CollectionAttempts  = "quiz_attempts"
	CollectionUsers     = "users"
)

// AnonymousUserID identifies unauthenticated learners.
const AnonymousUserID = "anonymous"

type QuizStatus string

const (
	StatusDraft     QuizStatus = "draft"
	StatusPublished QuizStatus = "published"
	StatusArchived  QuizStatus = "archived"
)

func (s QuizStatus) Valid() bool {
	switch s {
	case StatusDraft, StatusPublished, StatusArchived:
		return true
	}
	return false
}

// CanTransition whitelists the legal lifecycle moves: draft → published →
// archived. Archived is terminal.
func (s QuizStatus) CanTransition(to QuizStatus) bool {
	switch s {
	case StatusDraft:
		return to == StatusPublished
	case StatusPublished:
		return to == StatusArchived
	}
	return false
}

// swagger:model Quiz
type Quiz struct {
	ID            string     `json:"id"`
	Title         string     `json:"title"`
	Description   string     `json:"description"`
	OwnerID       string     `json:"ownerId"`
	Status        QuizStatus `json:"status"`
	QuestionCount int        `json:"questionCount"`
	EstimatedTime int        `json:"estimatedTime"` // Minutes
	CreatedAt     time.Time  `json:"createdAt"`
}

// swagger:model Question
type Question struct {
	ID            string    `json:"id"`
	QuizID        string    `json:"quizId"`
	Question      string    `json:"question"`
	Options       []string  `json:"options"`       // Exactly 4, ordered
	CorrectAnswer string    `json:"correctAnswer"` // A, B, C or D
	Explanation   string    `json:"explanation"`
	Position      int       `json:"position"` // 1-based, dense within a quiz
	CreatedAt     time.Time `json:"createdAt"`
}

// swagger:model QuizWithQuestions
type QuizWithQuestions struct {
	Quiz
	Questions []Question `json:"questions"`
}

// QuizAttempt is one learner's submission. Score is always computed
// server-side; attempts are append-only and never mutated.
// swagger:model QuizAttempt
type QuizAttempt struct {
	ID          string            `json:"id"`
	QuizID      string            `json:"quizId"`
	UserID      string            `json:"userId"`
	Answers     map[string]string `json:"answers"`   // question id -> letter
	Score       int               `json:"score"`     // 0..100
	TimeTaken   int               `json:"timeTaken"` // Seconds
	CompletedAt time.Time         `json:"completedAt"`
	CreatedAt   time.Time         `json:"createdAt"`
}

// QuizResult is the transient grading payload returned on submission. It is
// derived fresh every time and never persisted as its own entity.
// swagger:model QuizResult
type QuizResult struct {
	QuizID         string            `json:"quizId"`
	Score          int               `json:"score"`
	TotalQuestions int               `json:"totalQuestions"`
	CorrectAnswers map[string]string `json:"correctAnswers"` // question id -> letter
	Explanations   map[string]string `json:"explanations"`   // question id -> text
	TimeTaken      int               `json:"timeTaken"`
}
