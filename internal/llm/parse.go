package llm

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"coursetutor/internal/model"
)

// ErrNoJSONArray means the model output contained no bracketed JSON array at
// all, even after stripping markdown decoration.
var ErrNoJSONArray = errors.New("no JSON array found in response")

// RejectedQuestion describes one array element that failed validation.
// Rejections are diagnostics, not errors: the rest of the batch survives.
type RejectedQuestion struct {
	Index  int
	Reason string
}

// ExtractJSONArray recovers the JSON array embedded in raw model output.
// It trims whitespace, strips markdown code-fence lines, and if the result
// still doesn't start with '[' slices between the first '[' and last ']'.
func ExtractJSONArray(raw string) (string, error) {
	text := strings.TrimSpace(raw)

	if strings.HasPrefix(text, "```") {
		var kept []string
		for _, line := range strings.Split(text, "\n") {
			if strings.HasPrefix(strings.TrimSpace(line), "```") {
				continue
			}
			kept = append(kept, line)
		}
		text = strings.TrimSpace(strings.Join(kept, "\n"))
	}

	if !strings.HasPrefix(text, "[") {
		start := strings.Index(text, "[")
		end := strings.LastIndex(text, "]")
		if start == -1 || end <= start {
			return "", ErrNoJSONArray
		}
		text = text[start : end+1]
	}
	return text, nil
}

// rawQuestion mirrors the documented per-question shape with pointer fields,
// so missing keys are distinguishable from empty values.
type rawQuestion struct {
	Question      *string          `json:"question"`
	QuestionType  *string          `json:"question_type"`
	Options       *json.RawMessage `json:"options"`
	CorrectAnswer *string          `json:"correct_answer"`
	Explanation   *string          `json:"explanation"`
}

// ParseQuizQuestions extracts and validates the quiz questions in raw model
// output. Invalid elements are dropped individually and reported in the
// second return value; the error covers batch-level failures only (no array,
// malformed JSON). An empty valid list with a nil error is possible and the
// caller decides what to substitute.
func ParseQuizQuestions(raw string) ([]model.QuizQuestion, []RejectedQuestion, error) {
	text, err := ExtractJSONArray(raw)
	if err != nil {
		return nil, nil, err
	}

	var elements []json.RawMessage
	if err := json.Unmarshal([]byte(text), &elements); err != nil {
		return nil, nil, fmt.Errorf("parse question array: %w", err)
	}

	var (
		valid    []model.QuizQuestion
		rejected []RejectedQuestion
	)
	for i, element := range elements {
		q, reason := validateQuestion(element)
		if reason != "" {
			rejected = append(rejected, RejectedQuestion{Index: i, Reason: reason})
			continue
		}
		valid = append(valid, q)
	}
	return valid, rejected, nil
}

// validateQuestion checks a single array element against the question
// schema. It returns a non-empty reason when the element must be dropped.
func validateQuestion(element json.RawMessage) (model.QuizQuestion, string) {
	var rq rawQuestion
	if err := json.Unmarshal(element, &rq); err != nil {
		return model.QuizQuestion{}, "not a question object: " + err.Error()
	}

	switch {
	case rq.Question == nil:
		return model.QuizQuestion{}, "missing question"
	case rq.QuestionType == nil:
		return model.QuizQuestion{}, "missing question_type"
	case rq.CorrectAnswer == nil:
		return model.QuizQuestion{}, "missing correct_answer"
	case rq.Explanation == nil:
		return model.QuizQuestion{}, "missing explanation"
	}

	qType := model.QuestionType(*rq.QuestionType)
	if !model.ValidQuestionType(qType) {
		return model.QuizQuestion{}, fmt.Sprintf("unknown question_type %q", *rq.QuestionType)
	}

	var options []string
	if rq.Options != nil && string(*rq.Options) != "null" {
		if err := json.Unmarshal(*rq.Options, &options); err != nil {
			return model.QuizQuestion{}, "options is not a string array"
		}
	}
	if qType == model.TypeMCQ && len(options) == 0 {
		return model.QuizQuestion{}, "MCQ without options"
	}

	return model.QuizQuestion{
		Question:      *rq.Question,
		QuestionType:  qType,
		Options:       options,
		CorrectAnswer: *rq.CorrectAnswer,
		Explanation:   *rq.Explanation,
	}, ""
}

// ParseRecommendations extracts the recommendation array from raw model
// output. An empty array counts as a failure: the caller substitutes the
// canned set instead.
func ParseRecommendations(raw string) ([]model.Recommendation, error) {
	text, err := ExtractJSONArray(raw)
	if err != nil {
		return nil, err
	}

	var recs []model.Recommendation
	if err := json.Unmarshal([]byte(text), &recs); err != nil {
		return nil, fmt.Errorf("parse recommendation array: %w", err)
	}
	if len(recs) == 0 {
		return nil, errors.New("no recommendations in response")
	}
	return recs, nil
}
