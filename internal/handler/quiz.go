package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"coursetutor/internal/llm"
	"coursetutor/internal/llm/prompts"
	"coursetutor/internal/model"
	"coursetutor/internal/search"
	"coursetutor/internal/store"
)

type quizGenerateRequest struct {
	PDFID  string `json:"pdf_id"`
	NumMCQ *int   `json:"num_mcq"`
	NumSAQ *int   `json:"num_saq"`
	NumLAQ *int   `json:"num_laq"`
}

func countOr(p *int, def int) int {
	if p == nil {
		return def
	}
	return *p
}

func (h *Handler) handleGenerateQuiz(w http.ResponseWriter, r *http.Request) {
	var req quizGenerateRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	numMCQ := countOr(req.NumMCQ, 5)
	numSAQ := countOr(req.NumSAQ, 3)
	numLAQ := countOr(req.NumLAQ, 2)

	var context string
	if req.PDFID != "" {
		doc, ok := h.lookupDocument(w, req.PDFID)
		if !ok {
			return
		}
		if doc.IsImageBased {
			writeError(w, http.StatusUnprocessableEntity,
				"document is image-based; quiz generation needs extractable text")
			return
		}
		context = documentContext(doc.PagesText, prompts.QuizContextLimit)
	}

	systemPrompt, userPrompt := prompts.Quiz(context, numMCQ, numSAQ, numLAQ)
	raw, err := h.llm.Complete(r.Context(), llm.Request{
		Kind:         llm.KindQuiz,
		SystemPrompt: systemPrompt,
		UserPrompt:   userPrompt,
	})
	if err != nil {
		writeError(w, http.StatusServiceUnavailable, "AI service unavailable")
		return
	}

	questions, rejected, err := llm.ParseQuizQuestions(raw)
	if err != nil {
		slog.Warn("quiz response unparseable, substituting placeholder", "error", err)
	}
	for _, rej := range rejected {
		slog.Warn("quiz question rejected", "index", rej.Index, "reason", rej.Reason)
	}
	if len(questions) == 0 {
		questions = []model.QuizQuestion{llm.PlaceholderQuestion()}
	}

	quiz := model.Quiz{
		ID:         uuid.NewString(),
		DocumentID: req.PDFID,
		Questions:  questions,
		CreatedAt:  time.Now().UTC(),
	}
	if err := h.store.InsertQuiz(quiz); err != nil {
		slog.Error("insert quiz", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to save quiz")
		return
	}

	slog.Info("quiz generated", "quiz_id", quiz.ID, "questions", len(quiz.Questions), "rejected", len(rejected))
	writeJSON(w, http.StatusOK, quiz)
}

type quizAnswer struct {
	QuestionIndex int    `json:"question_index"`
	UserAnswer    string `json:"user_answer"`
}

type quizSubmitRequest struct {
	QuizID  string       `json:"quiz_id"`
	Answers []quizAnswer `json:"answers"`
}

func (h *Handler) handleSubmitQuiz(w http.ResponseWriter, r *http.Request) {
	var req quizSubmitRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	quiz, err := h.store.GetQuiz(req.QuizID)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "quiz not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load quiz")
		return
	}

	answers := make(map[int]string, len(req.Answers))
	for _, a := range req.Answers {
		answers[a.QuestionIndex] = a.UserAnswer
	}

	var (
		results []model.QuestionResult
		correct int
	)
	for i, q := range quiz.Questions {
		userAnswer := answers[i]
		isCorrect := answersMatch(userAnswer, q.CorrectAnswer)
		if isCorrect {
			correct++
		}
		results = append(results, model.QuestionResult{
			QuestionIndex: i,
			Question:      q.Question,
			UserAnswer:    userAnswer,
			CorrectAnswer: q.CorrectAnswer,
			IsCorrect:     isCorrect,
			Explanation:   q.Explanation,
		})
	}

	var score float64
	if len(quiz.Questions) > 0 {
		score = float64(correct) / float64(len(quiz.Questions)) * 100
	}

	attempt := model.QuizAttempt{
		ID:              uuid.NewString(),
		QuizID:          quiz.ID,
		TotalQuestions:  len(quiz.Questions),
		CorrectAnswers:  correct,
		ScorePercentage: score,
		Results:         results,
		SubmittedAt:     time.Now().UTC(),
	}
	if err := h.store.InsertAttempt(attempt); err != nil {
		slog.Error("insert attempt", "quiz_id", quiz.ID, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to save attempt")
		return
	}

	writeJSON(w, http.StatusOK, attempt)
}

// answersMatch compares answers case-insensitively, ignoring surrounding
// whitespace.
func answersMatch(user, correct string) bool {
	return strings.EqualFold(strings.TrimSpace(user), strings.TrimSpace(correct))
}

// documentContext concatenates page text in page order and keeps the leading
// chunk that fits the character limit, cut on a word boundary.
func documentContext(pages map[string]string, limit int) string {
	var sb strings.Builder
	for _, key := range search.SortedPageKeys(pages) {
		if sb.Len() > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(pages[key])
		if sb.Len() >= limit {
			break
		}
	}
	chunks := search.SplitWords(sb.String(), limit)
	if len(chunks) == 0 {
		return ""
	}
	return chunks[0]
}
