package services

import (
	"strings"

	"github.com/vivekkumar9751/smart-doc-assistant/models"
)

// ParseChallengeQuestions converts the model's free-text multiple-choice
// output into structured records. Model formatting drifts, so malformed
// lines are skipped and partial records are kept; this never fails.
func ParseChallengeQuestions(raw string) []models.ChallengeQuestion {
	var questions []models.ChallengeQuestion
	var current *models.ChallengeQuestion

	flush := func() {
		if current == nil {
			return
		}
		normalizeCorrectAnswer(current)
		questions = append(questions, *current)
		current = nil
	}

	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		switch {
		case strings.HasPrefix(line, "Question"):
			flush()
			current = &models.ChallengeQuestion{}
			if _, rest, ok := strings.Cut(line, ":"); ok {
				current.Question = strings.TrimSpace(rest)
			}
		case isOptionLine(line):
			if current == nil {
				continue
			}
			if current.Options == nil {
				current.Options = make(map[string]string)
			}
			current.Options[strings.ToLower(line[:1])] = strings.TrimSpace(line[2:])
		case strings.HasPrefix(line, "Correct Answer:"):
			if current == nil {
				continue
			}
			_, rest, _ := strings.Cut(line, ":")
			current.CorrectAnswer = strings.ToLower(strings.TrimSpace(rest))
		}
	}
	flush()

	return questions
}

func isOptionLine(line string) bool {
	return strings.HasPrefix(line, "A)") ||
		strings.HasPrefix(line, "B)") ||
		strings.HasPrefix(line, "C)") ||
		strings.HasPrefix(line, "D)")
}

// normalizeCorrectAnswer keeps the correct answer consistent with the parsed
// options: it must name a present option key, never an invented one. Answers
// like "b) beta" collapse to their leading letter.
func normalizeCorrectAnswer(q *models.ChallengeQuestion) {
	if len(q.Options) == 0 || q.CorrectAnswer == "" {
		return
	}
	if _, ok := q.Options[q.CorrectAnswer]; ok {
		return
	}
	letter := q.CorrectAnswer[:1]
	if _, ok := q.Options[letter]; ok {
		q.CorrectAnswer = letter
		return
	}
	q.CorrectAnswer = ""
}
