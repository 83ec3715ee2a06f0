package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/Ravishyamsingh/Quiz-System/internal/model"
	"github.com/Ravishyamsingh/Quiz-System/internal/store"
	"github.com/Ravishyamsingh/Quiz-System/internal/util"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestQuizService(t *testing.T, providers ...QuestionProvider) (*QuizService, store.DocumentStore) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&model.Record{}))
	st := store.NewGormStore(db)
	gen := NewGenerationService(time.Second, providers...)
	return NewQuizService(st, gen), st
}

func draftQuestions(n int) []model.Question {
	letters := []string{"A", "B", "C", "D"}
	drafts := make([]model.Question, n)
	for i := range drafts {
		drafts[i] = model.Question{
			ID:            fmt.Sprintf("tmp-%d", i+1),
			Question:      fmt.Sprintf("Question %d?", i+1),
			Options:       []string{"w", "x", "y", "z"},
			CorrectAnswer: letters[i%4],
			Explanation:   "because",
			Position:      i + 1,
		}
	}
	return drafts
}

func TestGradeDeterministic(t *testing.T) {
	questions := draftQuestions(4)
	answers := map[string]string{"tmp-1": "A", "tmp-2": "B", "tmp-3": "X", "tmp-4": "D"}

	first := Grade(questions, answers)
	second := Grade(questions, answers)
	assert.Equal(t, first, second)
	assert.Equal(t, 3, first.CorrectCount)
	assert.Equal(t, 75, first.Score)
	assert.Equal(t, "C", first.CorrectAnswers["tmp-3"])
	assert.Equal(t, "because", first.Explanations["tmp-1"])
}

func TestGradeRounding(t *testing.T) {
	cases := []struct {
		total   int
		correct int
		score   int
	}{
		{3, 1, 33},
		{3, 2, 67},
		{8, 1, 13}, // 12.5 rounds up
		{8, 3, 38}, // 37.5 rounds up
		{6, 1, 17},
		{4, 4, 100},
		{4, 0, 0},
	}
	for _, tc := range cases {
		questions := draftQuestions(tc.total)
		answers := map[string]string{}
		for i := 0; i < tc.correct; i++ {
			answers[questions[i].ID] = questions[i].CorrectAnswer
		}
		outcome := Grade(questions, answers)
		assert.Equal(t, tc.score, outcome.Score, "%d/%d", tc.correct, tc.total)
	}
}

func TestGradeEmptyQuiz(t *testing.T) {
	outcome := Grade(nil, map[string]string{"x": "A"})
	assert.Equal(t, 0, outcome.Score)
	assert.Equal(t, 0, outcome.CorrectCount)
	assert.Empty(t, outcome.CorrectAnswers)
}

func TestEstimateMinutes(t *testing.T) {
	cases := map[int]int{1: 2, 2: 3, 3: 5, 4: 6, 5: 8, 10: 15}
	for count, want := range cases {
		assert.Equal(t, want, estimateMinutes(count), "count=%d", count)
	}
}

func TestGenerateProducesDrafts(t *testing.T) {
	svc, _ := newTestQuizService(t, &fakeProvider{name: "primary", items: validItems(3)})

	drafts, err := svc.Generate(context.Background(), "maps and structs", "beginner", 3)
	require.NoError(t, err)
	require.Len(t, drafts, 3)
	for i, d := range drafts {
		assert.NotEmpty(t, d.ID)
		assert.Empty(t, d.QuizID, "drafts are not bound to a quiz yet")
		assert.Equal(t, i+1, d.Position)
	}
}

func TestSaveAndFetch(t *testing.T) {
	svc, _ := newTestQuizService(t)

	quizID, err := svc.Save("owner1", QuizMetadata{Title: "Go Basics", Description: "intro"}, draftQuestions(3))
	require.NoError(t, err)
	require.NotEmpty(t, quizID)

	quiz, err := svc.Fetch(quizID)
	require.NoError(t, err)
	require.NotNil(t, quiz)
	assert.Equal(t, "Go Basics", quiz.Title)
	assert.Equal(t, "owner1", quiz.OwnerID)
	assert.Equal(t, model.StatusPublished, quiz.Status)
	assert.Equal(t, 3, quiz.QuestionCount)
	assert.Equal(t, 5, quiz.EstimatedTime)

	require.Len(t, quiz.Questions, 3)
	for i, q := range quiz.Questions {
		assert.Equal(t, i+1, q.Position)
		assert.Equal(t, fmt.Sprintf("%s_q%d", quizID, i+1), q.ID)
		assert.Equal(t, quizID, q.QuizID)
	}
}

func TestFetchIsIdempotent(t *testing.T) {
	svc, _ := newTestQuizService(t)

	quizID, err := svc.Save("owner1", QuizMetadata{Title: "Repeatable"}, draftQuestions(4))
	require.NoError(t, err)

	first, err := svc.Fetch(quizID)
	require.NoError(t, err)
	second, err := svc.Fetch(quizID)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestFetchAbsentQuiz(t *testing.T) {
	svc, _ := newTestQuizService(t)

	quiz, err := svc.Fetch("no-such-quiz")
	require.NoError(t, err)
	assert.Nil(t, quiz)
}

func TestSaveValidation(t *testing.T) {
	svc, _ := newTestQuizService(t)

	_, err := svc.Save("owner1", QuizMetadata{Title: "   "}, draftQuestions(2))
	assert.ErrorIs(t, err, util.ErrValidationFailed)

	_, err = svc.Save("owner1", QuizMetadata{Title: "No questions"}, nil)
	assert.ErrorIs(t, err, util.ErrValidationFailed)
}

func TestSubmitScoresAndPersists(t *testing.T) {
	svc, _ := newTestQuizService(t)

	quizID, err := svc.Save("owner1", QuizMetadata{Title: "Scoring"}, draftQuestions(4))
	require.NoError(t, err)

	// Corrects are A, B, C, D in position order; the third answer is wrong.
	answers := map[string]string{
		quizID + "_q1": "A",
		quizID + "_q2": "B",
		quizID + "_q3": "X",
		quizID + "_q4": "D",
	}
	result, err := svc.Submit(quizID, "learner1", answers, 120)
	require.NoError(t, err)
	assert.Equal(t, 75, result.Score)
	assert.Equal(t, 4, result.TotalQuestions)
	assert.Equal(t, 120, result.TimeTaken)
	assert.Equal(t, "C", result.CorrectAnswers[quizID+"_q3"])

	attempts, err := svc.AttemptsFor("learner1")
	require.NoError(t, err)
	require.Len(t, attempts, 1)
	assert.Equal(t, quizID, attempts[0].QuizID)
	assert.Equal(t, 75, attempts[0].Score)
	assert.Equal(t, answers, attempts[0].Answers)
}

func TestSubmitMissingAnswersCountIncorrect(t *testing.T) {
	svc, _ := newTestQuizService(t)

	quizID, err := svc.Save("owner1", QuizMetadata{Title: "Partial"}, draftQuestions(4))
	require.NoError(t, err)

	result, err := svc.Submit(quizID, "learner1", map[string]string{
		quizID + "_q1": "A",
		quizID + "_q2": "B",
	}, 60)
	require.NoError(t, err)
	assert.Equal(t, 50, result.Score)

	// A nil answer map grades every question as incorrect.
	result, err = svc.Submit(quizID, "learner1", nil, 10)
	require.NoError(t, err)
	assert.Equal(t, 0, result.Score)
}

func TestSubmitMissingQuiz(t *testing.T) {
	svc, _ := newTestQuizService(t)

	_, err := svc.Submit("no-such-quiz", "learner1", map[string]string{}, 5)
	assert.ErrorIs(t, err, util.ErrNotFound)
}

func TestListAllNewestFirst(t *testing.T) {
	svc, _ := newTestQuizService(t)

	quizzes, err := svc.ListAll()
	require.NoError(t, err)
	assert.Empty(t, quizzes)

	firstID, err := svc.Save("owner1", QuizMetadata{Title: "First"}, draftQuestions(2))
	require.NoError(t, err)
	time.Sleep(10 * time.Millisecond)
	secondID, err := svc.Save("owner1", QuizMetadata{Title: "Second"}, draftQuestions(2))
	require.NoError(t, err)

	quizzes, err = svc.ListAll()
	require.NoError(t, err)
	require.Len(t, quizzes, 2)
	assert.Equal(t, secondID, quizzes[0].ID)
	assert.Equal(t, firstID, quizzes[1].ID)
}

func TestUpdateStatusTransitions(t *testing.T) {
	svc, st := newTestQuizService(t)

	quizID, err := svc.Save("owner1", QuizMetadata{Title: "Lifecycle"}, draftQuestions(2))
	require.NoError(t, err)

	// Saved quizzes start published; archiving is the only legal move.
	quiz, err := svc.UpdateStatus(quizID, "owner1", model.StatusArchived)
	require.NoError(t, err)
	assert.Equal(t, model.StatusArchived, quiz.Status)

	// Archived is terminal.
	_, err = svc.UpdateStatus(quizID, "owner1", model.StatusPublished)
	assert.ErrorIs(t, err, util.ErrValidationFailed)

	// A drafted quiz may be published.
	fields, err := model.Fields(model.Quiz{Title: "Drafted", OwnerID: "owner1", Status: model.StatusDraft})
	require.NoError(t, err)
	require.NoError(t, st.PutRecord(model.CollectionQuizzes, "draft1", fields))
	quiz, err = svc.UpdateStatus("draft1", "owner1", model.StatusPublished)
	require.NoError(t, err)
	assert.Equal(t, model.StatusPublished, quiz.Status)
}

func TestUpdateStatusGuards(t *testing.T) {
	svc, _ := newTestQuizService(t)

	quizID, err := svc.Save("owner1", QuizMetadata{Title: "Guarded"}, draftQuestions(2))
	require.NoError(t, err)

	_, err = svc.UpdateStatus(quizID, "intruder", model.StatusArchived)
	assert.ErrorIs(t, err, util.ErrPermissionDenied)

	_, err = svc.UpdateStatus(quizID, "owner1", model.QuizStatus("bogus"))
	assert.ErrorIs(t, err, util.ErrValidationFailed)

	_, err = svc.UpdateStatus("no-such-quiz", "owner1", model.StatusArchived)
	assert.ErrorIs(t, err, util.ErrNotFound)
}

func TestDeleteCascadesButKeepsAttempts(t *testing.T) {
	svc, st := newTestQuizService(t)

	quizID, err := svc.Save("owner1", QuizMetadata{Title: "Doomed"}, draftQuestions(2))
	require.NoError(t, err)
	_, err = svc.Submit(quizID, "learner1", map[string]string{quizID + "_q1": "A"}, 30)
	require.NoError(t, err)

	err = svc.Delete(quizID, "intruder")
	assert.ErrorIs(t, err, util.ErrPermissionDenied)

	require.NoError(t, svc.Delete(quizID, "owner1"))

	quiz, err := svc.Fetch(quizID)
	require.NoError(t, err)
	assert.Nil(t, quiz)

	qRecs, err := st.QueryByEquality(model.CollectionQuestions, "quizId", quizID)
	require.NoError(t, err)
	assert.Empty(t, qRecs)

	attempts, err := svc.AttemptsFor("learner1")
	require.NoError(t, err)
	assert.Len(t, attempts, 1, "attempts are an audit trail and survive quiz deletion")

	err = svc.Delete(quizID, "owner1")
	assert.ErrorIs(t, err, util.ErrNotFound)
}
