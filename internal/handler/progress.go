package handler

import (
	"fmt"
	"math"
	"net/http"

	"coursetutor/internal/model"
)

const (
	recentAttemptCount = 10
	strongQuizScore    = 80
	weakQuizScore      = 60
	strongOverallScore = 70
)

// handleProgress derives the progress report from stored attempts on every
// read. The overall score is the global weighted average: total correct
// answers over total questions answered, so a 20-question quiz counts twenty
// times as much as a 1-question one.
func (h *Handler) handleProgress(w http.ResponseWriter, r *http.Request) {
	attempts, err := h.store.ListAttempts(100)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load attempts")
		return
	}

	progress := model.Progress{
		RecentAttempts: []model.AttemptSummary{},
		Strengths:      []string{},
		Weaknesses:     []string{},
	}
	if len(attempts) == 0 {
		writeJSON(w, http.StatusOK, progress)
		return
	}

	var totalQuestions, totalCorrect, strong, weak int
	for _, a := range attempts {
		totalQuestions += a.TotalQuestions
		totalCorrect += a.CorrectAnswers
		if a.ScorePercentage >= strongQuizScore {
			strong++
		}
		if a.ScorePercentage < weakQuizScore {
			weak++
		}
	}

	var overall float64
	if totalQuestions > 0 {
		overall = float64(totalCorrect) / float64(totalQuestions) * 100
	}

	progress.TotalQuizzes = len(attempts)
	progress.TotalQuestionsAnswered = totalQuestions
	progress.OverallScore = math.Round(overall*10) / 10

	for _, a := range attempts[:min(recentAttemptCount, len(attempts))] {
		progress.RecentAttempts = append(progress.RecentAttempts, model.AttemptSummary{
			Date:      a.SubmittedAt,
			Score:     a.ScorePercentage,
			Questions: a.TotalQuestions,
		})
	}

	if strong > 0 {
		progress.Strengths = append(progress.Strengths,
			fmt.Sprintf("Consistently scoring well (%d quizzes above 80%%)", strong))
	}
	if weak > 0 {
		progress.Weaknesses = append(progress.Weaknesses,
			fmt.Sprintf("Some challenging areas (%d quizzes below 60%%)", weak))
	}
	if progress.OverallScore >= strongOverallScore {
		progress.Strengths = append(progress.Strengths, "Strong overall performance")
	}

	writeJSON(w, http.StatusOK, progress)
}
