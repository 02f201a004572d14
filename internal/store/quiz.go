package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"coursetutor/internal/model"
)

// InsertQuiz stores a generated quiz.
func (s *Store) InsertQuiz(quiz model.Quiz) error {
	questions, err := json.Marshal(quiz.Questions)
	if err != nil {
		return fmt.Errorf("marshal questions: %w", err)
	}
	_, err = s.db.Exec(
		`INSERT INTO quizzes (id, document_id, questions, created_at) VALUES (?, ?, ?, ?)`,
		quiz.ID, quiz.DocumentID, string(questions), quiz.CreatedAt,
	)
	return err
}

// GetQuiz returns a quiz by ID.
func (s *Store) GetQuiz(id string) (model.Quiz, error) {
	var (
		quiz      model.Quiz
		questions string
	)
	err := s.db.QueryRow(
		`SELECT id, document_id, questions, created_at FROM quizzes WHERE id = ?`, id,
	).Scan(&quiz.ID, &quiz.DocumentID, &questions, &quiz.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Quiz{}, ErrNotFound
	}
	if err != nil {
		return model.Quiz{}, err
	}
	if err := json.Unmarshal([]byte(questions), &quiz.Questions); err != nil {
		return model.Quiz{}, fmt.Errorf("unmarshal questions: %w", err)
	}
	return quiz, nil
}

// InsertAttempt stores one quiz submission.
func (s *Store) InsertAttempt(attempt model.QuizAttempt) error {
	results, err := json.Marshal(attempt.Results)
	if err != nil {
		return fmt.Errorf("marshal results: %w", err)
	}
	_, err = s.db.Exec(
		`INSERT INTO attempts (id, quiz_id, total_questions, correct_answers, score_percentage, results, submitted_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		attempt.ID, attempt.QuizID, attempt.TotalQuestions, attempt.CorrectAnswers,
		attempt.ScorePercentage, string(results), attempt.SubmittedAt,
	)
	return err
}

// ListAttempts returns up to limit attempts, newest first.
func (s *Store) ListAttempts(limit int) ([]model.QuizAttempt, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := s.db.Query(
		`SELECT id, quiz_id, total_questions, correct_answers, score_percentage, results, submitted_at
		 FROM attempts ORDER BY submitted_at DESC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var attempts []model.QuizAttempt
	for rows.Next() {
		var (
			a       model.QuizAttempt
			results string
		)
		if err := rows.Scan(&a.ID, &a.QuizID, &a.TotalQuestions, &a.CorrectAnswers,
			&a.ScorePercentage, &results, &a.SubmittedAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(results), &a.Results); err != nil {
			return nil, fmt.Errorf("unmarshal results: %w", err)
		}
		attempts = append(attempts, a)
	}
	return attempts, rows.Err()
}
