package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/vivekkumar9751/smart-doc-assistant/models"
)

// FallbackMarker prefixes every substitute string returned when the model is
// unusable, so degraded responses are distinguishable from real model output.
const FallbackMarker = "[model unavailable]"

const challengeQuestionCount = 3

const emptyAnswerFeedback = "Please provide an answer so it can be evaluated."

// Assistant orchestrates the document operations: summarize, answer,
// challenge generation, and answer evaluation. It holds no document state;
// callers pass the document text into every operation.
type Assistant struct {
	llm    *ResilientClient
	logger *zap.Logger
}

func NewAssistant(llm *ResilientClient, logger *zap.Logger) *Assistant {
	return &Assistant{llm: llm, logger: logger}
}

// Summarize produces a short summary of the document. When the model quota
// is exhausted it returns a marked fallback instead of failing, so an upload
// can still complete.
func (a *Assistant) Summarize(ctx context.Context, text string) (string, error) {
	a.logger.Info("generating document summary", zap.Int("documentChars", len(text)))

	summary, err := a.llm.Complete(ctx, BuildSummaryPrompt(text), CompletionOptions{
		Temperature: 0.3,
		MaxTokens:   200,
		Timeout:     30 * time.Second,
	})
	if err != nil {
		if isQuotaExceeded(err) {
			a.logger.Warn("summary degraded to fallback: quota exceeded")
			return summaryFallback(text), nil
		}
		return "", err
	}
	return summary, nil
}

// Answer responds to a free-form question about the document. The question
// must be non-empty; blank questions are rejected before any model call.
func (a *Assistant) Answer(ctx context.Context, text, question string) (string, error) {
	if strings.TrimSpace(question) == "" {
		return "", errors.New("question must not be empty")
	}
	a.logger.Info("answering question", zap.String("question", Truncate(question, 80)))

	answer, err := a.llm.Complete(ctx, BuildAnswerPrompt(text, question), CompletionOptions{
		Temperature: 0.2,
		MaxTokens:   300,
		Timeout:     30 * time.Second,
	})
	if err != nil {
		if isQuotaExceeded(err) {
			a.logger.Warn("answer degraded to fallback: quota exceeded")
			return fmt.Sprintf("%s The question %q could not be answered because the model quota is exhausted. Please try again later.",
				FallbackMarker, question), nil
		}
		return "", err
	}
	return answer, nil
}

// GenerateChallenge returns exactly three comprehension questions for the
// document. Short or empty parses are padded with generic questions and long
// parses are truncated, so callers can rely on the count.
func (a *Assistant) GenerateChallenge(ctx context.Context, text string) ([]models.ChallengeQuestion, error) {
	a.logger.Info("generating challenge questions")

	out, err := a.llm.Complete(ctx, BuildChallengePrompt(text), CompletionOptions{
		Temperature: 0.4,
		MaxTokens:   800,
		Timeout:     45 * time.Second,
	})
	if err != nil {
		if isQuotaExceeded(err) {
			a.logger.Warn("challenge degraded to fallback: quota exceeded")
			return fallbackChallengeQuestions(), nil
		}
		return nil, err
	}

	questions := ParseChallengeQuestions(out)
	if len(questions) < challengeQuestionCount {
		a.logger.Warn("challenge parse produced fewer questions than expected, padding",
			zap.Int("parsed", len(questions)))
	}
	return boundChallengeQuestions(questions), nil
}

// EvaluateAnswers grades each submitted pair against the document. Blank
// answers never reach the model; a quota failure on one pair degrades only
// that pair and the loop continues.
func (a *Assistant) EvaluateAnswers(ctx context.Context, text string, pairs []models.QAPair) ([]models.EvaluationFeedback, error) {
	a.logger.Info("evaluating user answers", zap.Int("pairs", len(pairs)))

	feedback := make([]models.EvaluationFeedback, 0, len(pairs))
	for _, pair := range pairs {
		if strings.TrimSpace(pair.Answer) == "" {
			feedback = append(feedback, models.EvaluationFeedback{
				Question:   pair.Question,
				UserAnswer: pair.Answer,
				Evaluation: emptyAnswerFeedback,
			})
			continue
		}

		out, err := a.llm.Complete(ctx, BuildEvaluationPrompt(text, pair.Question, pair.Answer), CompletionOptions{
			Temperature: 0.2,
			MaxTokens:   300,
			Timeout:     40 * time.Second,
		})
		if err != nil {
			if isQuotaExceeded(err) {
				a.logger.Warn("evaluation degraded to fallback for one pair: quota exceeded",
					zap.String("question", Truncate(pair.Question, 80)))
				feedback = append(feedback, models.EvaluationFeedback{
					Question:   pair.Question,
					UserAnswer: pair.Answer,
					Evaluation: FallbackMarker + " Sorry, this answer could not be evaluated because the model quota is exhausted.",
				})
				continue
			}
			return nil, err
		}

		feedback = append(feedback, models.EvaluationFeedback{
			Question:   pair.Question,
			UserAnswer: pair.Answer,
			Evaluation: out,
		})
	}
	return feedback, nil
}

func isQuotaExceeded(err error) bool {
	var cerr *CompletionError
	return errors.As(err, &cerr) && cerr.Kind == FailureQuotaExceeded
}

func summaryFallback(text string) string {
	return fmt.Sprintf("%s The document was received (%d characters) but could not be summarized because the model quota is exhausted. It begins: %q",
		FallbackMarker, len(text), Truncate(text, 200))
}

// fallbackChallengeQuestions are generic comprehension questions used when
// the model returned nothing usable. They carry no options or answer key.
func fallbackChallengeQuestions() []models.ChallengeQuestion {
	return []models.ChallengeQuestion{
		{Question: "What is the main topic of the document?"},
		{Question: "Name one key point the author makes."},
		{Question: "What conclusion does the document reach?"},
	}
}

func boundChallengeQuestions(questions []models.ChallengeQuestion) []models.ChallengeQuestion {
	if len(questions) >= challengeQuestionCount {
		return questions[:challengeQuestionCount]
	}
	fallbacks := fallbackChallengeQuestions()
	for i := len(questions); i < challengeQuestionCount; i++ {
		questions = append(questions, fallbacks[i])
	}
	return questions
}
