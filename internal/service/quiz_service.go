package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/Ravishyamsingh/Quiz-System/internal/model"
	"github.com/Ravishyamsingh/Quiz-System/internal/store"
	"github.com/Ravishyamsingh/Quiz-System/internal/util"
	"github.com/Ravishyamsingh/Quiz-System/pkg/logger"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// QuizService owns every quiz state transition: generation, persistence,
// retrieval, submission and grading all pass through here.
type QuizService struct {
	store     store.DocumentStore
	generator *GenerationService
}

func NewQuizService(st store.DocumentStore, generator *GenerationService) *QuizService {
	return &QuizService{store: st, generator: generator}
}

type QuizMetadata struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
}

// Generate produces draft questions from lesson content. Drafts carry a
// temporary client-side id and no quiz reference; both are rewritten on save.
func (s *QuizService) Generate(ctx context.Context, lessonContent string, difficulty string, questionCount int) ([]model.Question, error) {
	if strings.TrimSpace(lessonContent) == "" {
		return nil, fmt.Errorf("%w: empty lesson content", util.ErrGenerationFailed)
	}

	items, err := s.generator.Generate(ctx, GenerationRequest{
		LessonContent: lessonContent,
		Difficulty:    Difficulty(difficulty),
		QuestionCount: questionCount,
	})
	if err != nil {
		return nil, err
	}

	now := time.Now()
	drafts := make([]model.Question, len(items))
	for i, item := range items {
		drafts[i] = model.Question{
			ID:            uuid.New().String(),
			Question:      item.Question,
			Options:       item.Options,
			CorrectAnswer: item.CorrectAnswer,
			Explanation:   item.Explanation,
			Position:      i + 1,
			CreatedAt:     now,
		}
	}
	return drafts, nil
}

// Save inserts the quiz and then each draft question. The store is not
// transactional across those writes: a failure partway through leaves an
// orphaned quiz, surfaced to the caller as a persistence failure.
func (s *QuizService) Save(ownerID string, meta QuizMetadata, drafts []model.Question) (string, error) {
	if strings.TrimSpace(meta.Title) == "" {
		return "", fmt.Errorf("%w: quiz title is empty", util.ErrValidationFailed)
	}
	if len(drafts) == 0 {
		return "", fmt.Errorf("%w: quiz has no questions", util.ErrValidationFailed)
	}

	quiz := model.Quiz{
		Title:         strings.TrimSpace(meta.Title),
		Description:   meta.Description,
		OwnerID:       ownerID,
		Status:        model.StatusPublished,
		QuestionCount: len(drafts),
		EstimatedTime: estimateMinutes(len(drafts)),
	}

	fields, err := model.Fields(quiz)
	if err != nil {
		return "", fmt.Errorf("%w: %v", util.ErrPersistenceFailed, err)
	}
	quizID, err := s.store.AddRecord(model.CollectionQuizzes, fields)
	if err != nil {
		return "", fmt.Errorf("%w: %v", util.ErrPersistenceFailed, err)
	}

	for i, draft := range drafts {
		position := i + 1
		draft.ID = fmt.Sprintf("%s_q%d", quizID, position)
		draft.QuizID = quizID
		draft.Position = position

		qFields, err := model.Fields(draft)
		if err != nil {
			return "", fmt.Errorf("%w: %v", util.ErrPersistenceFailed, err)
		}
		if err := s.store.PutRecord(model.CollectionQuestions, draft.ID, qFields); err != nil {
			logger.Log.Error("question insert failed after quiz insert",
				zap.String("quizId", quizID),
				zap.Int("position", position),
				zap.Error(err))
			return "", fmt.Errorf("%w: %v", util.ErrPersistenceFailed, err)
		}
	}

	return quizID, nil
}

// Fetch reassembles a quiz with its questions sorted by ascending position.
// The store does not guarantee order, so the sort happens here every time.
// A missing quiz returns (nil, nil).
func (s *QuizService) Fetch(quizID string) (*model.QuizWithQuestions, error) {
	rec, err := s.store.GetRecord(model.CollectionQuizzes, quizID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", util.ErrPersistenceFailed, err)
	}
	if rec == nil {
		return nil, nil
	}

	quiz, err := decodeQuiz(rec)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", util.ErrPersistenceFailed, err)
	}

	qRecs, err := s.store.QueryByEquality(model.CollectionQuestions, "quizId", quizID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", util.ErrPersistenceFailed, err)
	}

	questions := make([]model.Question, 0, len(qRecs))
	for i := range qRecs {
		q, err := decodeQuestion(&qRecs[i])
		if err != nil {
			return nil, fmt.Errorf("%w: %v", util.ErrPersistenceFailed, err)
		}
		questions = append(questions, q)
	}
	sort.Slice(questions, func(i, j int) bool {
		return questions[i].Position < questions[j].Position
	})

	return &model.QuizWithQuestions{Quiz: quiz, Questions: questions}, nil
}

// Submit grades an answer map against the quiz, persists the attempt and
// returns the transient result. Unanswered questions count as incorrect; the
// score is never taken from the caller.
func (s *QuizService) Submit(quizID, userID string, answers map[string]string, timeTaken int) (*model.QuizResult, error) {
	quiz, err := s.Fetch(quizID)
	if err != nil {
		return nil, err
	}
	if quiz == nil {
		return nil, fmt.Errorf("%w: quiz %s", util.ErrNotFound, quizID)
	}

	if answers == nil {
		answers = map[string]string{}
	}
	outcome := Grade(quiz.Questions, answers)

	attempt := model.QuizAttempt{
		QuizID:      quizID,
		UserID:      userID,
		Answers:     answers,
		Score:       outcome.Score,
		TimeTaken:   timeTaken,
		CompletedAt: time.Now(),
	}
	fields, err := model.Fields(attempt)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", util.ErrPersistenceFailed, err)
	}
	if _, err := s.store.AddRecord(model.CollectionAttempts, fields); err != nil {
		return nil, fmt.Errorf("%w: %v", util.ErrPersistenceFailed, err)
	}

	return &model.QuizResult{
		QuizID:         quizID,
		Score:          outcome.Score,
		TotalQuestions: len(quiz.Questions),
		CorrectAnswers: outcome.CorrectAnswers,
		Explanations:   outcome.Explanations,
		TimeTaken:      timeTaken,
	}, nil
}

// ListAll returns every quiz, newest first. No data yields an empty slice.
func (s *QuizService) ListAll() ([]model.Quiz, error) {
	recs, err := s.store.ListAll(model.CollectionQuizzes)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", util.ErrPersistenceFailed, err)
	}

	quizzes := make([]model.Quiz, 0, len(recs))
	for i := range recs {
		quiz, err := decodeQuiz(&recs[i])
		if err != nil {
			return nil, fmt.Errorf("%w: %v", util.ErrPersistenceFailed, err)
		}
		quizzes = append(quizzes, quiz)
	}
	sort.Slice(quizzes, func(i, j int) bool {
		return quizzes[i].CreatedAt.After(quizzes[j].CreatedAt)
	})
	return quizzes, nil
}

// AttemptsFor returns a learner's attempts, most recent first.
func (s *QuizService) AttemptsFor(userID string) ([]model.QuizAttempt, error) {
	recs, err := s.store.QueryByEquality(model.CollectionAttempts, "userId", userID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", util.ErrPersistenceFailed, err)
	}

	attempts := make([]model.QuizAttempt, 0, len(recs))
	for i := range recs {
		attempt, err := decodeAttempt(&recs[i])
		if err != nil {
			return nil, fmt.Errorf("%w: %v", util.ErrPersistenceFailed, err)
		}
		attempts = append(attempts, attempt)
	}
	sort.Slice(attempts, func(i, j int) bool {
		return attempts[i].CompletedAt.After(attempts[j].CompletedAt)
	})
	return attempts, nil
}

// UpdateStatus moves a quiz along the draft → published → archived whitelist.
// Only the owner may transition; archived is terminal.
func (s *QuizService) UpdateStatus(quizID, callerID string, to model.QuizStatus) (*model.Quiz, error) {
	rec, err := s.store.GetRecord(model.CollectionQuizzes, quizID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", util.ErrPersistenceFailed, err)
	}
	if rec == nil {
		return nil, fmt.Errorf("%w: quiz %s", util.ErrNotFound, quizID)
	}
	quiz, err := decodeQuiz(rec)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", util.ErrPersistenceFailed, err)
	}
	if quiz.OwnerID != callerID {
		return nil, util.ErrPermissionDenied
	}
	if !to.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", util.ErrValidationFailed, to)
	}
	if !quiz.Status.CanTransition(to) {
		return nil, fmt.Errorf("%w: cannot move quiz from %s to %s", util.ErrValidationFailed, quiz.Status, to)
	}

	// Partial update through the store's merge-on-conflict semantics.
	if err := s.store.PutRecord(model.CollectionQuizzes, quizID, map[string]interface{}{
		"status": string(to),
	}); err != nil {
		return nil, fmt.Errorf("%w: %v", util.ErrPersistenceFailed, err)
	}

	quiz.Status = to
	return &quiz, nil
}

// Delete cascade-deletes a quiz and its questions. Attempts are kept as an
// immutable audit trail of learner history.
func (s *QuizService) Delete(quizID, callerID string) error {
	rec, err := s.store.GetRecord(model.CollectionQuizzes, quizID)
	if err != nil {
		return fmt.Errorf("%w: %v", util.ErrPersistenceFailed, err)
	}
	if rec == nil {
		return fmt.Errorf("%w: quiz %s", util.ErrNotFound, quizID)
	}
	quiz, err := decodeQuiz(rec)
	if err != nil {
		return fmt.Errorf("%w: %v", util.ErrPersistenceFailed, err)
	}
	if quiz.OwnerID != callerID {
		return util.ErrPermissionDenied
	}

	qRecs, err := s.store.QueryByEquality(model.CollectionQuestions, "quizId", quizID)
	if err != nil {
		return fmt.Errorf("%w: %v", util.ErrPersistenceFailed, err)
	}
	for i := range qRecs {
		if err := s.store.DeleteRecord(model.CollectionQuestions, qRecs[i].ID); err != nil {
			return fmt.Errorf("%w: %v", util.ErrPersistenceFailed, err)
		}
	}
	if err := s.store.DeleteRecord(model.CollectionQuizzes, quizID); err != nil {
		return fmt.Errorf("%w: %v", util.ErrPersistenceFailed, err)
	}
	return nil
}

// estimateMinutes allows 1.5 minutes per question, rounded up.
func estimateMinutes(questionCount int) int {
	return (questionCount*3 + 1) / 2
}

func decodeQuiz(rec *model.Record) (model.Quiz, error) {
	var quiz model.Quiz
	if err := rec.Decode(&quiz); err != nil {
		return model.Quiz{}, err
	}
	quiz.ID = rec.ID
	quiz.CreatedAt = rec.CreatedAt
	return quiz, nil
}

func decodeQuestion(rec *model.Record) (model.Question, error) {
	var q model.Question
	if err := rec.Decode(&q); err != nil {
		return model.Question{}, err
	}
	q.ID = rec.ID
	q.CreatedAt = rec.CreatedAt
	return q, nil
}

func decodeAttempt(rec *model.Record) (model.QuizAttempt, error) {
	var attempt model.QuizAttempt
	if err := rec.Decode(&attempt); err != nil {
		return model.QuizAttempt{}, err
	}
	attempt.ID = rec.ID
	attempt.CreatedAt = rec.CreatedAt
	return attempt, nil
}
