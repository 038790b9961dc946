package services

import "fmt"

// Context limits keep prompts inside the model's input window. Challenge
// generation uses a tighter limit because its instruction block is longer.
const (
	summaryContextLimit    = 4000
	answerContextLimit     = 4000
	challengeContextLimit  = 3000
	evaluationContextLimit = 4000
)

// Truncate returns at most limit bytes of text, verbatim.
func Truncate(text string, limit int) string {
	if limit < 0 {
		limit = 0
	}
	if len(text) > limit {
		return text[:limit]
	}
	return text
}

func BuildSummaryPrompt(text string) string {
	return fmt.Sprintf(
		"Summarize the following document in no more than 150 words. "+
			"Focus on key ideas, main points, and important details:\n\n%s",
		Truncate(text, summaryContextLimit))
}

func BuildAnswerPrompt(text, question string) string {
	return fmt.Sprintf(
		"You are a helpful assistant. Based only on the document below, "+
			"answer the user's question accurately and concisely. "+
			"If the answer is not in the document, say so clearly.\n\n"+
			"Document:\n%s\n\nQuestion: %s\n\nAnswer:",
		Truncate(text, answerContextLimit), question)
}

func BuildChallengePrompt(text string) string {
	return fmt.Sprintf(
		"Based on the following document, create exactly 3 multiple-choice questions "+
			"to test comprehension. For each question, provide 4 options (A, B, C, D) "+
			"and indicate the correct answer. Format your response as:\n\n"+
			"Question 1: [question text]\n"+
			"A) [option A]\n"+
			"B) [option B]\n"+
			"C) [option C]\n"+
			"D) [option D]\n"+
			"Correct Answer: [A/B/C/D]\n\n"+
			"Continue this format for all 3 questions.\n\n"+
			"Document:\n%s",
		Truncate(text, challengeContextLimit))
}

func BuildEvaluationPrompt(text, question, answer string) string {
	return fmt.Sprintf(
		"Evaluate the user's answer to the question below using only the document excerpt. "+
			"State whether the answer is correct, partially correct, or incorrect, "+
			"and give brief feedback grounded in the document.\n\n"+
			"Document excerpt:\n%s\n\nQuestion: %s\nUser's Answer: %s\n\nEvaluation:",
		Truncate(text, evaluationContextLimit), question, answer)
}
