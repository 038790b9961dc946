package models

// ChallengeQuestion is a generated multiple-choice comprehension question.
// Options maps a lowercase letter ("a".."d") to the option text; CorrectAnswer
// is one of the present option keys, or empty when the model output did not
// yield one.
type ChallengeQuestion struct {
	Question      string            `json:"question"`
	Options       map[string]string `json:"options,omitempty"`
	CorrectAnswer string            `json:"correct_answer,omitempty"`
}

// QAPair is one question/answer pair submitted for evaluation.
type QAPair struct {
	Question string `json:"question" binding:"required"`
	Answer   string `json:"answer"`
}

// EvaluationFeedback is the graded result for a single QAPair.
type EvaluationFeedback struct {
	Question   string `json:"question"`
	UserAnswer string `json:"userAnswer"`
	Evaluation string `json:"evaluation"`
}
