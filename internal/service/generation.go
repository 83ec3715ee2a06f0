package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Ravishyamsingh/Quiz-System/internal/util"
	"github.com/Ravishyamsingh/Quiz-System/pkg/logger"
	"github.com/Ravishyamsingh/Quiz-System/pkg/monitoring"
	"go.uber.org/zap"
)

type Difficulty string

const (
	Beginner     Difficulty = "beginner"
	Intermediate Difficulty = "intermediate"
	Advanced     Difficulty = "advanced"
)

const DefaultQuestionCount = 4

// GenerationRequest carries the inputs for one generation run.
type GenerationRequest struct {
	LessonContent string
	Difficulty    Difficulty
	QuestionCount int
}

// GeneratedQuestion is the wire shape providers return.
type GeneratedQuestion struct {
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer string   `json:"correct_answer"`
	Explanation   string   `json:"explanation"`
}

// QuestionProvider is an external capability that turns lesson text into
// candidate questions. Implementations report transport and provider errors;
// schema quality of a successful payload is judged by the caller.
type QuestionProvider interface {
	Name() string
	Generate(ctx context.Context, req GenerationRequest) ([]GeneratedQuestion, error)
}

// GenerationService hides provider failover from callers. Providers are tried
// in order; a transport or provider error moves on to the next one. A payload
// that parses but fails schema validation does NOT trigger failover — the
// reference behavior only falls back on failed calls, and a provider that is
// up but confused would likely stay confused on retry.
type GenerationService struct {
	providers []QuestionProvider
	timeout   time.Duration
}

func NewGenerationService(timeout time.Duration, providers ...QuestionProvider) *GenerationService {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &GenerationService{providers: providers, timeout: timeout}
}

// Generate runs the provider chain and returns a validated batch, truncated
// to the requested count when a provider over-delivers. Under-delivery is
// passed through without padding.
func (s *GenerationService) Generate(ctx context.Context, req GenerationRequest) ([]GeneratedQuestion, error) {
	if strings.TrimSpace(req.LessonContent) == "" {
		return nil, fmt.Errorf("%w: lesson content is empty", util.ErrGenerationFailed)
	}
	if req.Difficulty == "" {
		req.Difficulty = Intermediate
	}
	if req.QuestionCount <= 0 {
		req.QuestionCount = DefaultQuestionCount
	}

	var lastErr error
	for _, p := range s.providers {
		items, err := s.callProvider(ctx, p, req)
		if err != nil {
			monitoring.GenerationAttempts.WithLabelValues(p.Name(), "error").Inc()
			logger.Log.Warn("question provider failed, trying next",
				zap.String("provider", p.Name()),
				zap.Error(err))
			lastErr = err
			continue
		}

		// Validation runs once, after the first successful response.
		if err := validateQuestions(items); err != nil {
			monitoring.GenerationAttempts.WithLabelValues(p.Name(), "invalid").Inc()
			logger.Log.Error("provider response failed validation",
				zap.String("provider", p.Name()),
				zap.Error(err))
			return nil, fmt.Errorf("%w: %v", util.ErrGenerationFailed, err)
		}
		monitoring.GenerationAttempts.WithLabelValues(p.Name(), "success").Inc()

		if len(items) > req.QuestionCount {
			items = items[:req.QuestionCount]
		}
		return items, nil
	}

	if lastErr != nil {
		logger.Log.Error("all question providers exhausted", zap.Error(lastErr))
	}
	return nil, util.ErrGenerationFailed
}

func (s *GenerationService) callProvider(ctx context.Context, p QuestionProvider, req GenerationRequest) ([]GeneratedQuestion, error) {
	callCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	return p.Generate(callCtx, req)
}

// validateQuestions enforces the output contract: non-empty question text,
// exactly 4 non-empty options, correct letter in A-D, non-empty explanation.
// A partially valid batch fails as a whole.
func validateQuestions(items []GeneratedQuestion) error {
	if len(items) == 0 {
		return fmt.Errorf("provider returned no questions")
	}
	for i := range items {
		q := &items[i]
		if strings.TrimSpace(q.Question) == "" {
			return fmt.Errorf("question %d: empty question text", i+1)
		}
		if len(q.Options) != 4 {
			return fmt.Errorf("question %d: expected 4 options, got %d", i+1, len(q.Options))
		}
		for j, opt := range q.Options {
			if strings.TrimSpace(opt) == "" {
				return fmt.Errorf("question %d: option %d is empty", i+1, j+1)
			}
		}
		q.CorrectAnswer = strings.ToUpper(strings.TrimSpace(q.CorrectAnswer))
		switch q.CorrectAnswer {
		case "A", "B", "C", "D":
		default:
			return fmt.Errorf("question %d: correct answer %q is not one of A-D", i+1, q.CorrectAnswer)
		}
		if strings.TrimSpace(q.Explanation) == "" {
			return fmt.Errorf("question %d: empty explanation", i+1)
		}
	}
	return nil
}
