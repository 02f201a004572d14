package llm

import (
	"encoding/json"
	"fmt"
	"strings"

	"coursetutor/internal/model"
)

// maxFallbackTopicLen caps the topic echoed into templated recommendations.
const maxFallbackTopicLen = 50

// FallbackResponse returns the deterministic degraded-mode output for a
// request kind. The dispatch is explicit: the caller knows which feature it
// serves, so no prompt-text sniffing is involved.
func FallbackResponse(kind RequestKind, topic string) string {
	switch kind {
	case KindQuiz:
		data, _ := json.Marshal([]model.QuizQuestion{
			{
				Question:      "What is the fundamental principle discussed in the material?",
				QuestionType:  model.TypeSAQ,
				Options:       nil,
				CorrectAnswer: "Please refer to the study material for the correct answer",
				Explanation:   "This is a template question. Connect the AI service for personalized questions.",
			},
		})
		return string(data)

	case KindRecommend:
		data, _ := json.Marshal(FallbackRecommendations(topic))
		return string(data)

	case KindChat:
		return `I understand you have a question, but I'm currently running in fallback mode without access to the AI service.

To get full AI-powered responses, please:
1. Set your API key in the .env file
2. Get a free API key from: https://openrouter.ai/keys
3. Restart the server

In the meantime, I can still help you with:
- Uploading and viewing PDFs
- Generating structured quiz questions (with basic templates)
- Tracking your progress
- Managing your study materials

What would you like to do?`

	default:
		return "I'm currently operating in fallback mode. Please configure the AI service API key to enable full capabilities."
	}
}

// FallbackRecommendations returns the canned recommendation set for a topic.
// It also backs the parse-failure substitution in the recommendation handler.
func FallbackRecommendations(topic string) []model.Recommendation {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		topic = "this topic"
	}
	if len(topic) > maxFallbackTopicLen {
		topic = topic[:maxFallbackTopicLen]
	}

	return []model.Recommendation{
		{
			Title:   fmt.Sprintf("Introduction to %s", topic),
			Channel: "Khan Academy",
			Reason:  "Clear and comprehensive explanations suitable for beginners",
		},
		{
			Title:   fmt.Sprintf("%s - Complete Guide", topic),
			Channel: "Crash Course",
			Reason:  "In-depth coverage with engaging visuals",
		},
		{
			Title:   fmt.Sprintf("Understanding %s", topic),
			Channel: "3Blue1Brown",
			Reason:  "Visual and intuitive explanations",
		},
	}
}

// PlaceholderQuestion is substituted when quiz parsing yields no valid
// questions, so quiz generation always returns a usable result.
func PlaceholderQuestion() model.QuizQuestion {
	return model.QuizQuestion{
		Question:      "What is the main topic discussed in the material?",
		QuestionType:  model.TypeSAQ,
		Options:       nil,
		CorrectAnswer: "Please refer to the study material",
		Explanation:   "This is a template question. Configure the AI service for personalized questions.",
	}
}
