// Package prompts assembles the system/user prompt pairs for the three LLM
// tasks: quiz generation, citation-grounded chat, and video recommendation.
package prompts

import (
	"fmt"
	"strings"

	"coursetutor/internal/model"
)

const (
	// QuizContextLimit caps how much concatenated page text goes into a quiz
	// generation prompt.
	QuizContextLimit = 4000
	// RecommendContextLimit caps the coursebook context in a recommendation
	// prompt.
	RecommendContextLimit = 2000

	// DefaultQuizContext is used when quiz generation has no source document.
	DefaultQuizContext = "General educational topics"
)

// Quiz builds the quiz-generation prompt pair. The context must already be
// capped at QuizContextLimit by the caller.
func Quiz(context string, numMCQ, numSAQ, numLAQ int) (systemPrompt, userPrompt string) {
	if strings.TrimSpace(context) == "" {
		context = DefaultQuizContext
	}

	var sb strings.Builder
	sb.WriteString("Based on the following content, generate quiz questions in STRICT JSON format:\n\n")
	sb.WriteString("Content: " + context + "\n\n")
	sb.WriteString("Generate exactly:\n")
	fmt.Fprintf(&sb, "- %d Multiple Choice Questions (MCQ) with 4 options each\n", numMCQ)
	fmt.Fprintf(&sb, "- %d Short Answer Questions (SAQ)\n", numSAQ)
	fmt.Fprintf(&sb, "- %d Long Answer Questions (LAQ)\n\n", numLAQ)
	sb.WriteString(`RESPOND ONLY WITH A JSON ARRAY IN THIS EXACT FORMAT:
[
  {
    "question": "What is X?",
    "question_type": "MCQ",
    "options": ["A) Option 1", "B) Option 2", "C) Option 3", "D) Option 4"],
    "correct_answer": "A) Option 1",
    "explanation": "Brief explanation"
  },
  {
    "question": "Explain Y",
    "question_type": "SAQ",
    "options": null,
    "correct_answer": "Expected answer",
    "explanation": "Brief explanation"
  }
]

IMPORTANT: Return ONLY the JSON array, no other text.`)

	return "You are a quiz generator. Respond with ONLY valid JSON array, no markdown, no explanations.",
		sb.String()
}

// Chat builds the chat prompt pair. With citations the model is instructed to
// ground its answer in the quoted excerpts and acknowledge gaps; without any,
// it falls back to an ungrounded teacher persona.
func Chat(question string, citations []model.Citation) (systemPrompt, userPrompt string) {
	systemPrompt = "You are a knowledgeable and patient teacher. Provide clear, educational responses that help students learn."

	if len(citations) == 0 {
		userPrompt = fmt.Sprintf(`You are a helpful teacher. Answer this student's question clearly and educationally:

Question: %s

Provide a thorough, helpful response.`, question)
		return systemPrompt, userPrompt
	}

	blocks := make([]string, 0, len(citations))
	for _, c := range citations {
		blocks = append(blocks, fmt.Sprintf("[Page %v]: %s", c.Page, c.Snippet))
	}

	userPrompt = fmt.Sprintf(`You are a helpful teacher. Answer the student's question based on these excerpts from their coursebook:

%s

Student's question: %s

Provide a clear, educational response. If the excerpts don't fully answer the question, use your knowledge but acknowledge this.`,
		strings.Join(blocks, "\n\n"), question)
	return systemPrompt, userPrompt
}

// Recommend builds the video-recommendation prompt pair. The context must
// already be capped at RecommendContextLimit by the caller; it may be empty.
func Recommend(topic, context string) (systemPrompt, userPrompt string) {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Recommend 3 educational YouTube videos for the topic: %q\n\n", topic)
	if context != "" {
		sb.WriteString("Context from coursebook: " + context + "\n\n")
	}
	sb.WriteString(`Provide recommendations in this EXACT JSON format:
[
  {
    "title": "Video title",
    "channel": "Channel name",
    "reason": "Why this video is recommended"
  }
]

Focus on:
- Educational channels (Khan Academy, Crash Course, etc.)
- Clear explanations
- Relevance to the topic

RESPOND WITH ONLY THE JSON ARRAY, NO OTHER TEXT.`)

	return "You are an educational content curator. Respond with ONLY valid JSON array, no markdown, no explanations.",
		sb.String()
}
